/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package msghandler

import "errors"

var (
	// ErrAlreadyRegistered error when service is already registered.
	ErrAlreadyRegistered = errors.New("already registered")
	// ErrNotFound error when service is not found in the registrar.
	ErrNotFound = errors.New("not found")
)

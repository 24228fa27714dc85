/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package command

import "io"

// Exec runs a command reading its JSON arguments from req and writing its JSON result to rw.
type Exec func(rw io.Writer, req io.Reader) Error

// Handler names a command method and its executor.
type Handler interface {
	Name() string
	Method() string
	Handle() Exec
}

// Notifier pushes topic messages, such as protocol state events, to controller clients.
type Notifier interface {
	Notify(topic string, message []byte) error
}

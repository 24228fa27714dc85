/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package service

import (
	"context"
	"errors"
)

// ErrNoHandler is reported when no link of a handler chain accepted the message.
var ErrNoHandler = errors.New("no handler accepted the message")

// Handler provides protocol service handle api.
//
// A handler either fully handles a message (Result.Handled is true) or leaves it untouched so that the next
// handler of the chain can try it. Handle must not modify the given message and must not panic.
type Handler interface {
	Handle(ctx context.Context, msg DIDCommMsg) Result
}

// Result is the explicit outcome of a Handler invocation.
type Result struct {
	// Handled reports whether the handler took ownership of the message.
	Handled bool
	// Outcome is a protocol specific outcome name (empty when not handled).
	Outcome string
	// Err keeps the fault observed while handling, if any. It is informative only and never
	// stops a chain.
	Err error
}

// Unhandled is a Result telling the chain to pass the message to the next handler.
func Unhandled() Result {
	return Result{}
}

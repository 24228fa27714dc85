/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package command

// Type classifies a command error, the REST layer derives the HTTP status from it.
type Type int32

const (
	// ValidationError means the request was rejected before anything was executed.
	ValidationError Type = iota

	// ExecuteError means the request was valid but executing it failed.
	ExecuteError

	// NotFoundError means the request referenced a record that does not exist.
	NotFoundError
)

// Code is the error code of command errors.
type Code int32

// UnknownStatus is the code of errors raised outside of any command group.
const UnknownStatus Code = 0

// Group is the first code of a command's error code range. Groups are spaced by 1000.
type Group int32

const (
	// VC error group for verifiable credential and presentation command errors.
	VC Group = 6000

	// PresentProof error group for present proof command errors.
	PresentProof Group = 9000
)

// Error is a failed command, the nil value meaning success.
type Error interface {
	error
	// Code returns error code for this command error.
	Code() Code
	// Type returns error type for this command error.
	Type() Type
}

// NewValidationError returns new command validation error.
func NewValidationError(code Code, err error) Error {
	return &commandError{err: err, code: code, errType: ValidationError}
}

// NewExecuteError returns new command execute error.
func NewExecuteError(code Code, err error) Error {
	return &commandError{err: err, code: code, errType: ExecuteError}
}

// NewNotFoundError returns new command error for a missing record.
func NewNotFoundError(code Code, err error) Error {
	return &commandError{err: err, code: code, errType: NotFoundError}
}

type commandError struct {
	err     error
	code    Code
	errType Type
}

func (c *commandError) Error() string { return c.err.Error() }

func (c *commandError) Unwrap() error { return c.err }

func (c *commandError) Code() Code { return c.code }

func (c *commandError) Type() Type { return c.errType }

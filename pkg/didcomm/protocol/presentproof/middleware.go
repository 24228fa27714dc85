/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presentproof

import "github.com/hyperledger/aries-presentproof-go/pkg/didcomm/common/service"

// Handler describes middleware interface.
type Handler interface {
	Handle(metadata Metadata) error
}

// Middleware function receives next handler and returns handler that needs to be executed.
type Middleware func(next Handler) Handler

// HandlerFunc is a helper type which implements the middleware Handler interface.
type HandlerFunc func(metadata Metadata) error

// Handle implements function to satisfy the Handler interface.
func (hf HandlerFunc) Handle(metadata Metadata) error {
	return hf(metadata)
}

// Metadata provides helpful information for the processing.
type Metadata interface {
	// Message contains the original inbound message.
	Message() service.DIDCommMsg
	// Outcome is how handling of the message ended.
	Outcome() Outcome
	// Err is the fault observed while handling the message, if any.
	Err() error
	// Properties contains outcome details such as presentation_id or challenge.
	Properties() map[string]interface{}
	// StateName provides the state name.
	StateName() string
}

type metaData struct {
	msg service.DIDCommMsg
	rep *report
}

func (md *metaData) Message() service.DIDCommMsg {
	return md.msg
}

func (md *metaData) Outcome() Outcome {
	return md.rep.outcome
}

func (md *metaData) Err() error {
	return md.rep.err
}

func (md *metaData) Properties() map[string]interface{} {
	return md.rep.props
}

func (md *metaData) StateName() string {
	return md.rep.outcome.StateName()
}

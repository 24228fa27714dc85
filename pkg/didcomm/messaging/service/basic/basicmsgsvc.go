/*
 *
 * Copyright SecureKey Technologies Inc. All Rights Reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 * /
 *
 */

package basic

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/common/service"
)

const (
	// MessageRequestType is message request type for basic message service.
	MessageRequestType = "https://didcomm.org/basicmessage/1.0/message"

	// OutcomeReceived is the outcome of a handled basic message.
	OutcomeReceived = "basic-message-received"
	// OutcomeHandleFailed is the outcome of a basic message the handle rejected.
	OutcomeHandleFailed = "basic-message-failed"

	errNameAndHandleMandatory = "service name and basic message handle is mandatory"
)

var logger = log.New("aries-framework/basicmsg")

// MessageHandle is a function which gets invoked to handle a basic message received from sender.
type MessageHandle func(message Message, from, to string) error

// MessageService is a message service which transmits incoming basic messages to handlers.
type MessageService struct {
	name   string
	handle MessageHandle
}

// NewMessageService creates basic message service.
func NewMessageService(name string, handle MessageHandle) (*MessageService, error) {
	if name == "" || handle == nil {
		return nil, errors.New(errNameAndHandleMandatory)
	}

	return &MessageService{name: name, handle: handle}, nil
}

// Name of basic message service.
func (m *MessageService) Name() string {
	return m.name
}

// Accept is acceptance criteria for basic message service.
func (m *MessageService) Accept(msgType string) bool {
	return msgType == MessageRequestType
}

// Handle decodes the basic message and hands it to the message handle.
func (m *MessageService) Handle(_ context.Context, msg service.DIDCommMsg) service.Result {
	if !m.Accept(msg.Type) {
		return service.Result{}
	}

	var basicMsg Message

	if err := msg.Decode(&basicMsg); err != nil {
		return service.Result{
			Handled: true,
			Outcome: OutcomeHandleFailed,
			Err:     fmt.Errorf("unable to decode incoming DID comm message: %w", err),
		}
	}

	if basicMsg.ID == "" {
		basicMsg.ID = msg.ID
	}

	logger.Debugf("basic message %s received from %s", basicMsg.ID, msg.From)

	if err := m.handle(basicMsg, msg.From, msg.To); err != nil {
		return service.Result{Handled: true, Outcome: OutcomeHandleFailed, Err: err}
	}

	return service.Result{Handled: true, Outcome: OutcomeReceived}
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package generic

import (
	"context"

	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/common/service"
)

// NewCustomMockMessageSvc returns new custom mock message service handling only typeVal.
func NewCustomMockMessageSvc(typeVal, name string) *MockMessageSvc {
	return &MockMessageSvc{
		HandleFunc: func(context.Context, service.DIDCommMsg) service.Result {
			return service.Result{Handled: true, Outcome: name}
		},
		AcceptFunc: func(msgType string) bool {
			return typeVal == msgType
		},
		NameVal: name,
	}
}

// MockMessageSvc is mock generic service.
type MockMessageSvc struct {
	HandleFunc func(context.Context, service.DIDCommMsg) service.Result
	AcceptFunc func(msgType string) bool
	NameVal    string
}

// Handle msg.
func (m *MockMessageSvc) Handle(ctx context.Context, msg service.DIDCommMsg) service.Result {
	if m.HandleFunc != nil {
		return m.HandleFunc(ctx, msg)
	}

	return service.Result{Handled: true}
}

// Accept msg checks the msg type.
func (m *MockMessageSvc) Accept(msgType string) bool {
	if m.AcceptFunc != nil {
		return m.AcceptFunc(msgType)
	}

	return true
}

// Name name of message service.
func (m *MockMessageSvc) Name() string {
	return m.NameVal
}

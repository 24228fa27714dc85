/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presentproof

import "github.com/hyperledger/aries-presentproof-go/pkg/didcomm/protocol/presentproof"

// SendRequestPresentationArgs model
//
// This is used for sending a request presentation.
type SendRequestPresentationArgs struct {
	// Verifier the presentation is requested for, the agent DID when empty.
	Verifier string `json:"verifier,omitempty"`
	// Subject asked for the presentation.
	Subject string `json:"subject"`
	// PresentationDefinition the presentation must satisfy.
	PresentationDefinition *presentproof.PresentationDefinition `json:"presentation_definition,omitempty"`
	// Options binding the presentation to this request, a challenge is generated when none is given.
	Options *presentproof.RequestOptions `json:"options,omitempty"`
}

// SendRequestPresentationResponse model
//
// Represents a SendRequestPresentation response message.
type SendRequestPresentationResponse struct {
	// MessageID of the request-presentation message, the thread id of the presentation answering it.
	MessageID string `json:"message_id"`
	// Challenge the presentation must carry.
	Challenge string `json:"challenge"`
}

// AgentDIDResponse model
//
// Represents the DID presentations are addressed to.
type AgentDIDResponse struct {
	DID string `json:"did"`
}

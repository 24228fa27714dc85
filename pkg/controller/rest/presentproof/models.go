/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presentproof

import (
	"github.com/hyperledger/aries-presentproof-go/pkg/controller/command/presentproof"
)

// presentProofSendRequestPresentationRequest model
//
// This is used for operation to send a request presentation
//
// swagger:parameters presentProofSendRequestPresentation
type presentProofSendRequestPresentationRequest struct { // nolint: unused,deadcode
	// in: body
	Body presentproof.SendRequestPresentationArgs
}

// presentProofSendRequestPresentationResponse model
//
// Represents a SendRequestPresentation response message
//
// swagger:response presentProofSendRequestPresentationResponse
type presentProofSendRequestPresentationResponse struct { // nolint: unused,deadcode
	// in: body
	Body presentproof.SendRequestPresentationResponse
}

// presentProofAgentDIDResponse model
//
// swagger:response presentProofAgentDIDResponse
type presentProofAgentDIDResponse struct { // nolint: unused,deadcode
	// in: body
	Body presentproof.AgentDIDResponse
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presentproof

import (
	"net/http"

	command "github.com/hyperledger/aries-presentproof-go/pkg/controller/command/presentproof"
	"github.com/hyperledger/aries-presentproof-go/pkg/controller/internal/cmdutil"
	"github.com/hyperledger/aries-presentproof-go/pkg/controller/rest"
)

const (
	operationID             = "/presentproof"
	sendRequestPresentation = operationID + "/send-request-presentation"
	agentDID                = operationID + "/agent-did"
)

// Operation is controller REST service controller for present proof.
type Operation struct {
	command  *command.Command
	handlers []rest.Handler
}

// New returns new present proof rest client protocol instance.
func New(cmd *command.Command) *Operation {
	o := &Operation{command: cmd}
	o.registerHandler()

	return o
}

// GetRESTHandlers get all controller API handler available for this protocol service.
func (c *Operation) GetRESTHandlers() []rest.Handler {
	return c.handlers
}

func (c *Operation) registerHandler() {
	c.handlers = []rest.Handler{
		cmdutil.NewHTTPHandler(sendRequestPresentation, http.MethodPost, c.SendRequestPresentation),
		cmdutil.NewHTTPHandler(agentDID, http.MethodGet, c.AgentDID),
	}
}

// SendRequestPresentation swagger:route POST /presentproof/send-request-presentation present-proof presentProofSendRequestPresentation
//
// Sends a request presentation.
//
// Responses:
//    default: genericError
//        200: presentProofSendRequestPresentationResponse
func (c *Operation) SendRequestPresentation(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(c.command.SendRequestPresentation, rw, req.Body)
}

// AgentDID swagger:route GET /presentproof/agent-did present-proof presentProofAgentDID
//
// Returns the DID presentations are addressed to.
//
// Responses:
//    default: genericError
//        200: presentProofAgentDIDResponse
func (c *Operation) AgentDID(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(c.command.AgentDID, rw, req.Body)
}

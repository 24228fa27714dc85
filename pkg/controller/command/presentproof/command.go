/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presentproof

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-presentproof-go/pkg/controller/command"
	"github.com/hyperledger/aries-presentproof-go/pkg/controller/internal/cmdutil"
	"github.com/hyperledger/aries-presentproof-go/pkg/controller/webnotifier"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/common/service"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/protocol/presentproof"
	"github.com/hyperledger/aries-presentproof-go/pkg/internal/logutil"
)

var logger = log.New("aries-framework/controller/presentproof")

const (
	// InvalidRequestErrorCode is typically a code for invalid requests.
	InvalidRequestErrorCode = command.Code(iota + command.PresentProof)
	// SendRequestPresentationErrorCode is for failures in send request presentation command.
	SendRequestPresentationErrorCode
)

const (
	// CommandName command name.
	CommandName = "presentproof"

	// StatesTopic is the notification topic of present-proof state events.
	StatesTopic = "present-proof_states"

	// command methods.
	sendRequestPresentationCommandMethod = "SendRequestPresentation"
	agentDIDCommandMethod                = "AgentDID"

	errEmptySubject = "empty subject"

	stateEventsBuffer = 64
)

// protocolService is the part of the present-proof service the command drives.
type protocolService interface {
	service.Event
	SendRequestPresentation(ctx context.Context, verifier, subject string,
		req *presentproof.ProofRequest) (*service.DIDCommMsg, error)
}

// Command is controller command for present proof.
type Command struct {
	service protocolService
	did     string
}

// New returns new present proof controller command instance. State events of the service are forwarded
// to notifier.
func New(svc protocolService, agentDID string, notifier command.Notifier) (*Command, error) {
	if svc == nil {
		return nil, errors.New("present-proof service is required")
	}

	states := make(chan service.StateMsg, stateEventsBuffer)

	if err := svc.RegisterMsgEvent(states); err != nil {
		return nil, fmt.Errorf("register state events: %w", err)
	}

	webnotifier.NewObserver(notifier).RegisterStateMsg(StatesTopic, states)

	return &Command{service: svc, did: agentDID}, nil
}

// GetHandlers returns list of all commands supported by this controller command.
func (c *Command) GetHandlers() []command.Handler {
	return []command.Handler{
		cmdutil.NewCommandHandler(CommandName, sendRequestPresentationCommandMethod, c.SendRequestPresentation),
		cmdutil.NewCommandHandler(CommandName, agentDIDCommandMethod, c.AgentDID),
	}
}

// SendRequestPresentation asks the subject for a presentation.
func (c *Command) SendRequestPresentation(rw io.Writer, req io.Reader) command.Error {
	var args SendRequestPresentationArgs

	if err := json.NewDecoder(req).Decode(&args); err != nil {
		logutil.LogInfo(logger, CommandName, sendRequestPresentationCommandMethod, err.Error())
		return command.NewValidationError(InvalidRequestErrorCode, err)
	}

	if args.Subject == "" {
		logutil.LogDebug(logger, CommandName, sendRequestPresentationCommandMethod, errEmptySubject)
		return command.NewValidationError(InvalidRequestErrorCode, errors.New(errEmptySubject))
	}

	verifier := args.Verifier
	if verifier == "" {
		verifier = c.did
	}

	msg, err := c.service.SendRequestPresentation(context.Background(), verifier, args.Subject,
		&presentproof.ProofRequest{Options: args.Options, PresentationDefinition: args.PresentationDefinition})
	if err != nil {
		logutil.LogError(logger, CommandName, sendRequestPresentationCommandMethod, err.Error())
		return command.NewExecuteError(SendRequestPresentationErrorCode, err)
	}

	challenge, err := presentproof.ChallengeOf(*msg)
	if err != nil {
		logutil.LogError(logger, CommandName, sendRequestPresentationCommandMethod, err.Error())
		return command.NewExecuteError(SendRequestPresentationErrorCode, err)
	}

	command.WriteNillableResponse(rw, &SendRequestPresentationResponse{
		MessageID: msg.ID,
		Challenge: challenge,
	}, logger)

	logutil.LogDebug(logger, CommandName, sendRequestPresentationCommandMethod, "success",
		logutil.CreateKeyValueString("msgID", msg.ID))

	return nil
}

// AgentDID returns the DID of the agent.
func (c *Command) AgentDID(rw io.Writer, _ io.Reader) command.Error {
	command.WriteNillableResponse(rw, &AgentDIDResponse{DID: c.did}, logger)

	return nil
}

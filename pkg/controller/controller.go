/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package controller

import (
	"fmt"

	"github.com/hyperledger/aries-presentproof-go/pkg/controller/command"
	presentproofcmd "github.com/hyperledger/aries-presentproof-go/pkg/controller/command/presentproof"
	verifiablecmd "github.com/hyperledger/aries-presentproof-go/pkg/controller/command/verifiable"
	"github.com/hyperledger/aries-presentproof-go/pkg/controller/rest"
	presentproofrest "github.com/hyperledger/aries-presentproof-go/pkg/controller/rest/presentproof"
	verifiablerest "github.com/hyperledger/aries-presentproof-go/pkg/controller/rest/verifiable"
	"github.com/hyperledger/aries-presentproof-go/pkg/controller/webnotifier"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/protocol/presentproof"
	"github.com/hyperledger/aries-presentproof-go/pkg/store/verifiable"
)

const wsPath = "/ws"

// Provider is the part of the framework the controller exposes, typically an *aries.Aries.
type Provider interface {
	DID() string
	PresentProof() *presentproof.Service
	VerifiableStore() *verifiable.Store
}

type allOpts struct {
	webhookURLs []string
	notifier    command.Notifier
}

// Opt represents a controller option.
type Opt func(opts *allOpts)

// WithWebhookURLs is an option for setting up a webhook dispatcher which will notify clients of events.
func WithWebhookURLs(webhookURLs ...string) Opt {
	return func(opts *allOpts) {
		opts.webhookURLs = webhookURLs
	}
}

// WithNotifier is an option for setting up a notifier which will notify clients of events.
func WithNotifier(notifier command.Notifier) Opt {
	return func(opts *allOpts) {
		opts.notifier = notifier
	}
}

type commands struct {
	presentProof *presentproofcmd.Command
	verifiable   *verifiablecmd.Command
	notifier     command.Notifier
}

func newCommands(p Provider, opts ...Opt) (*commands, error) {
	restAPIOpts := &allOpts{}
	// Apply options
	for _, opt := range opts {
		opt(restAPIOpts)
	}

	notifier := restAPIOpts.notifier
	if notifier == nil {
		notifier = webnotifier.New(wsPath, restAPIOpts.webhookURLs)
	}

	presentProofCmd, err := presentproofcmd.New(p.PresentProof(), p.DID(), notifier)
	if err != nil {
		return nil, fmt.Errorf("create present proof command : %w", err)
	}

	verifiableCmd, err := verifiablecmd.New(p.VerifiableStore())
	if err != nil {
		return nil, fmt.Errorf("create verifiable command : %w", err)
	}

	return &commands{presentProof: presentProofCmd, verifiable: verifiableCmd, notifier: notifier}, nil
}

// GetRESTHandlers returns all REST handlers provided by controller.
func GetRESTHandlers(p Provider, opts ...Opt) ([]rest.Handler, error) {
	cmds, err := newCommands(p, opts...)
	if err != nil {
		return nil, err
	}

	var allHandlers []rest.Handler
	allHandlers = append(allHandlers, presentproofrest.New(cmds.presentProof).GetRESTHandlers()...)
	allHandlers = append(allHandlers, verifiablerest.New(cmds.verifiable).GetRESTHandlers()...)

	nhp, ok := cmds.notifier.(handlerProvider)
	if ok {
		allHandlers = append(allHandlers, nhp.GetRESTHandlers()...)
	}

	return allHandlers, nil
}

// GetCommandHandlers returns all command handlers provided by controller, for embedders calling
// commands without the REST layer.
func GetCommandHandlers(p Provider, opts ...Opt) ([]command.Handler, error) {
	cmds, err := newCommands(p, opts...)
	if err != nil {
		return nil, err
	}

	var allHandlers []command.Handler
	allHandlers = append(allHandlers, cmds.presentProof.GetHandlers()...)
	allHandlers = append(allHandlers, cmds.verifiable.GetHandlers()...)

	return allHandlers, nil
}

type handlerProvider interface {
	GetRESTHandlers() []rest.Handler
}

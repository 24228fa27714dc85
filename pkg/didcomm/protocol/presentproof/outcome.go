/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presentproof

import "errors"

var (
	// ErrMalformedMessage is returned when a message lacks the attachment or addresses its type requires.
	ErrMalformedMessage = errors.New("malformed message")
	// ErrMissingChallenge is returned when the correlated request carries no challenge.
	ErrMissingChallenge = errors.New("challenge not found in request")
	// ErrPresentationRejected is returned when the verifier does not accept a presentation.
	ErrPresentationRejected = errors.New("presentation rejected")
	// ErrIncompleteFilter is returned by correlation stores queried without a sender or a message type.
	ErrIncompleteFilter = errors.New("message filter needs both from and type")
)

// Outcome describes how a handled message ended.
type Outcome string

const (
	// OutcomeProposalObserved a proposal was received; nothing else happens.
	OutcomeProposalObserved Outcome = "proposal-observed"
	// OutcomeMalformedRequest the request could not be parsed.
	OutcomeMalformedRequest Outcome = "malformed-request"
	// OutcomeRequestUnsatisfiable the builder has no presentation for the request.
	OutcomeRequestUnsatisfiable Outcome = "request-unsatisfiable"
	// OutcomeBuildFailed the builder failed.
	OutcomeBuildFailed Outcome = "build-failed"
	// OutcomePresentationSent the presentation was packed and submitted for delivery.
	OutcomePresentationSent Outcome = "presentation-sent"
	// OutcomeSendFailed packing or dispatching the presentation failed.
	OutcomeSendFailed Outcome = "send-failed"
	// OutcomeMalformedPresentation the presentation could not be parsed.
	OutcomeMalformedPresentation Outcome = "malformed-presentation"
	// OutcomeNoCorrelatedRequest no request was sent to the presenter before.
	OutcomeNoCorrelatedRequest Outcome = "no-correlated-request"
	// OutcomeCorrelationFailed the correlation store query failed.
	OutcomeCorrelationFailed Outcome = "correlation-failed"
	// OutcomeMalformedChallenge the correlated request has no usable challenge.
	OutcomeMalformedChallenge Outcome = "malformed-challenge"
	// OutcomeVerificationFailed the verifier failed.
	OutcomeVerificationFailed Outcome = "verification-failed"
	// OutcomePresentationRejected the presentation did not verify.
	OutcomePresentationRejected Outcome = "presentation-rejected"
	// OutcomePresentationAccepted the presentation verified and was stored.
	OutcomePresentationAccepted Outcome = "presentation-accepted"
	// OutcomeStoreFailed the presentation verified but could not be stored.
	OutcomeStoreFailed Outcome = "store-failed"
	// OutcomeInternalError handling stopped on an unexpected fault.
	OutcomeInternalError Outcome = "internal-error"
)

const (
	stateNameAbandoned            = "abandoned"
	stateNameDone                 = "done"
	stateNameProposalReceived     = "proposal-received"
	stateNamePresentationSent     = "presentation-sent"
	stateNameRequestReceived      = "request-received"
	stateNamePresentationReceived = "presentation-received"
)

// StateName returns the protocol state the outcome leaves the exchange in.
func (o Outcome) StateName() string {
	switch o {
	case OutcomeProposalObserved:
		return stateNameProposalReceived
	case OutcomeRequestUnsatisfiable:
		return stateNameRequestReceived
	case OutcomeNoCorrelatedRequest:
		return stateNamePresentationReceived
	case OutcomePresentationSent:
		return stateNamePresentationSent
	case OutcomePresentationAccepted:
		return stateNameDone
	default:
		return stateNameAbandoned
	}
}

// report is what a branch of the handler produced.
type report struct {
	outcome Outcome
	err     error
	props   map[string]interface{}
}

func newReport(o Outcome, err error) *report {
	return &report{outcome: o, err: err, props: map[string]interface{}{}}
}

type eventProps map[string]interface{}

// All implements service.EventProperties.
func (p eventProps) All() map[string]interface{} {
	return p
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presentproof

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/common/service"
	"github.com/hyperledger/aries-presentproof-go/pkg/internal/logutil"
)

const (
	// Name defines the protocol name.
	Name = "present-proof"
	// Spec defines the protocol spec.
	Spec = "https://didcomm.org/present-proof/2.0/"
	// ProposePresentationMsgType defines the protocol propose-presentation message type.
	ProposePresentationMsgType = Spec + "propose-presentation"
	// RequestPresentationMsgType defines the protocol request-presentation message type.
	RequestPresentationMsgType = Spec + "request-presentation"
	// PresentationMsgType defines the protocol presentation message type.
	PresentationMsgType = Spec + "presentation"
)

// Kind is the classification of an inbound message.
type Kind int

const (
	// KindUnrecognized is any message this protocol does not own.
	KindUnrecognized Kind = iota
	// KindPropose is a propose-presentation message.
	KindPropose
	// KindRequest is a request-presentation message.
	KindRequest
	// KindPresentation is a presentation message.
	KindPresentation
)

func (k Kind) String() string {
	switch k {
	case KindPropose:
		return "propose"
	case KindRequest:
		return "request"
	case KindPresentation:
		return "presentation"
	default:
		return "unrecognized"
	}
}

// Classify returns the kind of the given message type.
func Classify(msgType string) Kind {
	switch msgType {
	case ProposePresentationMsgType:
		return KindPropose
	case RequestPresentationMsgType:
		return KindRequest
	case PresentationMsgType:
		return KindPresentation
	default:
		return KindUnrecognized
	}
}

const presentationComment = "Here you have the presentation requested"

var logger = log.New("aries-framework/presentproof/service")

// Opt configures the Service.
type Opt func(s *Service)

// WithPackingMode sets the packing mode used for outbound presentations (PackingJWS by default).
func WithPackingMode(mode PackingMode) Opt {
	return func(s *Service) {
		s.packing = mode
	}
}

// WithComment sets the comment attached to outbound presentations.
func WithComment(comment string) Opt {
	return func(s *Service) {
		s.comment = comment
	}
}

// Service for the present-proof protocol. It is one link of an inbound handler chain: it handles the
// propose-presentation, request-presentation and presentation messages and ignores everything else.
type Service struct {
	service.Message
	builder    PresentationBuilder
	transport  Transport
	store      CorrelationStore
	verifier   Verifier
	packing    PackingMode
	comment    string
	mu         sync.RWMutex
	middleware Handler
}

// New returns the present-proof service.
func New(p Provider, opts ...Opt) (*Service, error) {
	svc := &Service{
		builder:   p.PresentationBuilder(),
		transport: p.Transport(),
		store:     p.CorrelationStore(),
		verifier:  p.Verifier(),
		packing:   PackingJWS,
		comment:   presentationComment,
	}

	switch {
	case svc.builder == nil:
		return nil, errors.New("presentation builder is required")
	case svc.transport == nil:
		return nil, errors.New("transport is required")
	case svc.store == nil:
		return nil, errors.New("correlation store is required")
	case svc.verifier == nil:
		return nil, errors.New("verifier is required")
	}

	for _, opt := range opts {
		opt(svc)
	}

	svc.middleware = HandlerFunc(svc.publish)

	return svc, nil
}

// Use allows providing middlewares.
func (s *Service) Use(items ...Middleware) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var handler Handler = HandlerFunc(s.publish)
	for i := len(items) - 1; i >= 0; i-- {
		handler = items[i](handler)
	}

	s.middleware = handler
}

// Name returns service name.
func (s *Service) Name() string {
	return Name
}

// Accept msg checks the msg type.
func (s *Service) Accept(msgType string) bool {
	return Classify(msgType) != KindUnrecognized
}

// Handle handles an inbound message. Messages of other protocols are reported as not handled so that the
// next handler of the chain can take them. Handle never modifies msg and never panics; faults are reported
// through the returned result and the published state events.
func (s *Service) Handle(ctx context.Context, msg service.DIDCommMsg) (result service.Result) {
	kind := Classify(msg.Type)
	if kind == KindUnrecognized {
		return service.Unhandled()
	}

	in := msg.Clone()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("handle %s: panic: %v", kind, r)
			logutil.LogError(logger, Name, "handle", err.Error(), logutil.CreateKeyValueString("msgID", in.ID))

			result = service.Result{Handled: true, Outcome: string(OutcomeInternalError), Err: err}
		}
	}()

	logutil.LogInfo(logger, Name, "handle", "received "+kind.String(),
		logutil.CreateKeyValueString("msgID", in.ID), logutil.CreateKeyValueString("from", in.From))

	var rep *report

	switch kind {
	case KindPropose:
		rep = newReport(OutcomeProposalObserved, nil)
	case KindRequest:
		rep = s.handleRequest(ctx, in)
	case KindPresentation:
		rep = s.handlePresentation(ctx, in)
	}

	s.mu.RLock()
	middleware := s.middleware
	s.mu.RUnlock()

	if err := middleware.Handle(&metaData{msg: in, rep: rep}); err != nil {
		logger.Errorf("middleware: msgID=%s: %v", in.ID, err)
	}

	return service.Result{Handled: true, Outcome: string(rep.outcome), Err: rep.err}
}

func (s *Service) handleRequest(ctx context.Context, msg service.DIDCommMsg) *report {
	req, err := decodeRequest(msg)
	if err != nil {
		logger.Errorf("request-presentation msgID=%s: %v", msg.ID, err)

		return newReport(OutcomeMalformedRequest, err)
	}

	payload, err := s.builder.Build(ctx, req.attachment, req.subject, req.verifier)
	if err != nil {
		logger.Errorf("request-presentation msgID=%s: build presentation: %v", msg.ID, err)

		return newReport(OutcomeBuildFailed, fmt.Errorf("build presentation: %w", err))
	}

	if payload == nil {
		logger.Infof("request-presentation msgID=%s: no presentation matches the request", msg.ID)

		return newReport(OutcomeRequestUnsatisfiable, nil)
	}

	out, err := s.newPresentationMsg(msg, req, payload)
	if err != nil {
		return newReport(OutcomeBuildFailed, err)
	}

	return s.sendPresentation(ctx, out)
}

// newPresentationMsg answers the request: the presentation goes from the subject back to the verifier.
func (s *Service) newPresentationMsg(request service.DIDCommMsg, req *requestInput,
	payload *PresentationPayload) (*service.DIDCommMsg, error) {
	msgID := uuid.New().String()

	out, err := service.NewDIDCommMsg(msgID, PresentationMsgType, req.subject, req.verifier, &Presentation{
		ID:                  msgID,
		Type:                PresentationMsgType,
		Comment:             s.comment,
		Formats:             payload.Formats,
		PresentationsAttach: payload.Attachments,
	})
	if err != nil {
		return nil, fmt.Errorf("new presentation message: %w", err)
	}

	out.ThreadID = request.ID

	return out, nil
}

// sendPresentation packs and dispatches the presentation. The outbound message is persisted on every
// exit path, whatever happened to the send attempt.
func (s *Service) sendPresentation(ctx context.Context, out *service.DIDCommMsg) (rep *report) {
	rep = newReport(OutcomePresentationSent, nil)
	rep.props["presentation_msg_id"] = out.ID

	defer func() {
		if r := recover(); r != nil {
			rep.outcome = OutcomeSendFailed
			rep.err = fmt.Errorf("send presentation: panic: %v", r)
		}

		if err := s.store.Persist(context.WithoutCancel(ctx), out); err != nil {
			logger.Errorf("persist presentation msgID=%s: %v", out.ID, err)

			rep.err = errors.Join(rep.err, fmt.Errorf("persist presentation: %w", err))
		}
	}()

	packed, err := s.transport.Pack(ctx, out, s.packing)
	if err != nil {
		logger.Errorf("pack presentation msgID=%s: %v", out.ID, err)

		rep.outcome, rep.err = OutcomeSendFailed, fmt.Errorf("pack presentation: %w", err)

		return rep
	}

	delivery, err := s.transport.Dispatch(ctx, out.ID, packed, s.packing, out.To)
	if err != nil {
		logger.Errorf("dispatch presentation msgID=%s: %v", out.ID, err)

		rep.outcome, rep.err = OutcomeSendFailed, fmt.Errorf("dispatch presentation: %w", err)

		return rep
	}

	go logDelivery(out.ID, delivery)

	return rep
}

func logDelivery(msgID string, delivery <-chan error) {
	if delivery == nil {
		return
	}

	if err := <-delivery; err != nil {
		logutil.LogWarn(logger, Name, "deliver", err.Error(), logutil.CreateKeyValueString("msgID", msgID))

		return
	}

	logger.Infof("delivered msgID=%s", msgID)
}

func (s *Service) handlePresentation(ctx context.Context, msg service.DIDCommMsg) *report {
	presentation, err := decodePresentation(msg)
	if err != nil {
		logger.Errorf("presentation msgID=%s: %v", msg.ID, err)

		return newReport(OutcomeMalformedPresentation, err)
	}

	requests, err := s.store.Query(ctx, MessageFilter{From: msg.To, Type: RequestPresentationMsgType})
	if err != nil {
		logger.Errorf("presentation msgID=%s: query requests: %v", msg.ID, err)

		return newReport(OutcomeCorrelationFailed, fmt.Errorf("query requests: %w", err))
	}

	if len(requests) == 0 {
		logger.Infof("presentation msgID=%s: no previous request-presentation to %s", msg.ID, msg.From)

		return newReport(OutcomeNoCorrelatedRequest, nil)
	}

	logger.Debugf("presentation msgID=%s: found %d requests", msg.ID, len(requests))

	// the most recent request wins
	request := requests[len(requests)-1]

	challenge, err := ChallengeOf(request)
	if err != nil {
		logger.Errorf("presentation msgID=%s: request msgID=%s: %v", msg.ID, request.ID, err)

		return newReport(OutcomeMalformedChallenge, err)
	}

	rep := newReport(OutcomePresentationAccepted, nil)
	rep.props["challenge"] = challenge
	rep.props["request_msg_id"] = request.ID

	result, err := s.verifier.Verify(ctx, presentation, challenge)
	if err != nil {
		logger.Errorf("presentation msgID=%s: verify: %v", msg.ID, err)

		rep.outcome, rep.err = OutcomeVerificationFailed, fmt.Errorf("verify presentation: %w", err)

		return rep
	}

	if result == nil || !result.Verified {
		reason := "no verification result"
		if result != nil {
			reason = result.Error
		}

		logutil.LogWarn(logger, Name, "verify", reason, logutil.CreateKeyValueString("msgID", msg.ID))

		rep.outcome, rep.err = OutcomePresentationRejected, fmt.Errorf("%w: %s", ErrPresentationRejected, reason)

		return rep
	}

	id, err := s.verifier.StoreVerified(ctx, presentation)
	if err != nil {
		logger.Errorf("presentation msgID=%s: store: %v", msg.ID, err)

		rep.outcome, rep.err = OutcomeStoreFailed, fmt.Errorf("store presentation: %w", err)

		return rep
	}

	logger.Infof("presentation msgID=%s: saved verifiable presentation %s", msg.ID, id)

	rep.props["presentation_id"] = id

	return rep
}

func (s *Service) publish(md Metadata) error {
	props := eventProps{"outcome": string(md.Outcome())}

	for k, v := range md.Properties() {
		props[k] = v
	}

	if md.Err() != nil {
		props["error"] = md.Err().Error()
	}

	msg := service.StateMsg{
		ProtocolName: Name,
		Type:         service.PostState,
		StateID:      md.StateName(),
		Msg:          md.Message(),
		Properties:   props,
	}

	if len(s.MsgEvents()) == 0 {
		return nil
	}

	if err := s.Enqueue(msg); err != nil {
		return fmt.Errorf("publish %s event: %w", msg.StateID, err)
	}

	return nil
}

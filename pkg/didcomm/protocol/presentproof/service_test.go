/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presentproof_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/common/service"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/protocol/decorator"
	. "github.com/hyperledger/aries-presentproof-go/pkg/didcomm/protocol/presentproof"
	mocks "github.com/hyperledger/aries-presentproof-go/pkg/internal/gomocks/didcomm/protocol/presentproof"
)

const (
	Alice = "did:example:alice" // verifier
	Bob   = "did:example:bob"   // subject
)

type fixture struct {
	svc       *Service
	builder   *mocks.MockPresentationBuilder
	transport *mocks.MockTransport
	store     *mocks.MockCorrelationStore
	verifier  *mocks.MockVerifier
}

func newFixture(t *testing.T, ctrl *gomock.Controller, opts ...Opt) *fixture {
	t.Helper()

	f := &fixture{
		builder:   mocks.NewMockPresentationBuilder(ctrl),
		transport: mocks.NewMockTransport(ctrl),
		store:     mocks.NewMockCorrelationStore(ctrl),
		verifier:  mocks.NewMockVerifier(ctrl),
	}

	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().PresentationBuilder().Return(f.builder)
	provider.EXPECT().Transport().Return(f.transport)
	provider.EXPECT().CorrelationStore().Return(f.store)
	provider.EXPECT().Verifier().Return(f.verifier)

	svc, err := New(provider, opts...)
	require.NoError(t, err)

	f.svc = svc

	return f
}

func newMsg(t *testing.T, id, msgType, from, to string, body interface{}) service.DIDCommMsg {
	t.Helper()

	msg, err := service.NewDIDCommMsg(id, msgType, from, to, body)
	require.NoError(t, err)

	return *msg
}

func requestMsg(t *testing.T, id, from, to, challenge string) service.DIDCommMsg {
	t.Helper()

	return newMsg(t, id, RequestPresentationMsgType, from, to, &RequestPresentation{
		ID:   id,
		Type: RequestPresentationMsgType,
		RequestPresentationsAttach: []decorator.Attachment{{
			ID: "request-0",
			Data: decorator.AttachmentData{JSON: map[string]interface{}{
				"options": map[string]interface{}{"challenge": challenge, "domain": "example.com"},
			}},
		}},
	})
}

func presentationMsg(t *testing.T, from, to string) service.DIDCommMsg {
	t.Helper()

	return newMsg(t, "presentation-1", PresentationMsgType, from, to, &Presentation{
		Type: PresentationMsgType,
		PresentationsAttach: []decorator.Attachment{{
			ID:   "vp-0",
			Data: decorator.AttachmentData{JSON: map[string]interface{}{"id": "urn:uuid:vp", "holder": from}},
		}},
	})
}

func payload() *PresentationPayload {
	return &PresentationPayload{
		Formats: []Format{{AttachID: "vp-0", Format: "dif/presentation-exchange/submission@v1.0"}},
		Attachments: []decorator.Attachment{
			decorator.NewJSONAttachment("vp-0", "", json.RawMessage(`{"id":"urn:uuid:vp"}`)),
		},
	}
}

func delivered(err error) <-chan error {
	ch := make(chan error, 1)
	ch <- err
	close(ch)

	return ch
}

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t, ctrl)
		require.Equal(t, Name, f.svc.Name())
	})

	tests := []struct {
		name    string
		errMsg  string
		present int
	}{
		{name: "No builder", errMsg: "presentation builder is required", present: 0},
		{name: "No transport", errMsg: "transport is required", present: 1},
		{name: "No store", errMsg: "correlation store is required", present: 2},
		{name: "No verifier", errMsg: "verifier is required", present: 3},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var (
				builder   PresentationBuilder
				transport Transport
				store     CorrelationStore
			)

			if tc.present > 0 {
				builder = mocks.NewMockPresentationBuilder(ctrl)
			}

			if tc.present > 1 {
				transport = mocks.NewMockTransport(ctrl)
			}

			if tc.present > 2 {
				store = mocks.NewMockCorrelationStore(ctrl)
			}

			provider := mocks.NewMockProvider(ctrl)
			provider.EXPECT().PresentationBuilder().Return(builder)
			provider.EXPECT().Transport().Return(transport)
			provider.EXPECT().CorrelationStore().Return(store)
			provider.EXPECT().Verifier().Return(nil)

			svc, err := New(provider)
			require.EqualError(t, err, tc.errMsg)
			require.Nil(t, svc)
		})
	}
}

func TestClassify(t *testing.T) {
	require.Equal(t, KindPropose, Classify(ProposePresentationMsgType))
	require.Equal(t, KindRequest, Classify(RequestPresentationMsgType))
	require.Equal(t, KindPresentation, Classify(PresentationMsgType))
	require.Equal(t, KindUnrecognized, Classify("https://didcomm.org/issue-credential/2.0/offer-credential"))
	require.Equal(t, KindUnrecognized, Classify(""))
	require.Equal(t, "unrecognized", KindUnrecognized.String())
}

func TestService_Accept(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := newFixture(t, ctrl).svc

	require.True(t, svc.Accept(ProposePresentationMsgType))
	require.True(t, svc.Accept(RequestPresentationMsgType))
	require.True(t, svc.Accept(PresentationMsgType))
	require.False(t, svc.Accept(Spec+"ack"))
}

func TestService_HandleUnrecognized(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := newFixture(t, ctrl).svc

	msg := newMsg(t, "ID", "https://didcomm.org/basicmessage/1.0/message", Alice, Bob, map[string]string{})
	orig := msg.Clone()

	result := svc.Handle(context.Background(), msg)
	require.False(t, result.Handled)
	require.Equal(t, orig, msg)
}

func TestService_HandleProposal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// no adapter expectations: any side effect fails the test
	svc := newFixture(t, ctrl).svc

	msg := newMsg(t, "ID", ProposePresentationMsgType, Bob, Alice, &ProposePresentation{Comment: "proposal"})

	for i := 0; i < 2; i++ {
		result := svc.Handle(context.Background(), msg)
		require.True(t, result.Handled)
		require.Equal(t, string(OutcomeProposalObserved), result.Outcome)
		require.NoError(t, result.Err)
	}
}

func TestService_HandleRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t, ctrl)
		msg := requestMsg(t, "request-1", Alice, Bob, "c0ffee")
		orig := msg.Clone()

		var packed *service.DIDCommMsg

		f.builder.EXPECT().Build(gomock.Any(), gomock.Any(), Bob, Alice).
			DoAndReturn(func(_ context.Context, attach json.RawMessage, _, _ string) (*PresentationPayload, error) {
				require.JSONEq(t, `{"options":{"challenge":"c0ffee","domain":"example.com"}}`, string(attach))

				return payload(), nil
			})

		gomock.InOrder(
			f.transport.EXPECT().Pack(gomock.Any(), gomock.Any(), PackingJWS).
				DoAndReturn(func(_ context.Context, out *service.DIDCommMsg, _ PackingMode) ([]byte, error) {
					packed = out

					return []byte("packed"), nil
				}),
			f.transport.EXPECT().Dispatch(gomock.Any(), gomock.Any(), []byte("packed"), PackingJWS, Alice).
				Return(delivered(nil), nil),
			f.store.EXPECT().Persist(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, out *service.DIDCommMsg) error {
					require.Equal(t, packed, out)

					return nil
				}).Times(1),
		)

		result := f.svc.Handle(context.Background(), msg)
		require.True(t, result.Handled)
		require.Equal(t, string(OutcomePresentationSent), result.Outcome)
		require.NoError(t, result.Err)
		require.Equal(t, orig, msg)

		require.NotNil(t, packed)
		require.NotEmpty(t, packed.ID)
		require.NotEqual(t, msg.ID, packed.ID)
		require.Equal(t, PresentationMsgType, packed.Type)
		require.Equal(t, Alice, packed.To)
		require.Equal(t, Bob, packed.From)
		require.Equal(t, msg.ID, packed.ThreadID)

		var body Presentation
		require.NoError(t, packed.Decode(&body))
		require.Equal(t, packed.ID, body.ID)
		require.Equal(t, "Here you have the presentation requested", body.Comment)
		require.Len(t, body.PresentationsAttach, 1)
		require.Equal(t, payload().Formats, body.Formats)
	})

	t.Run("Persists when dispatch fails", func(t *testing.T) {
		f := newFixture(t, ctrl)

		f.builder.EXPECT().Build(gomock.Any(), gomock.Any(), Bob, Alice).Return(payload(), nil)
		f.transport.EXPECT().Pack(gomock.Any(), gomock.Any(), PackingJWS).Return([]byte("packed"), nil)
		f.transport.EXPECT().Dispatch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), Alice).
			Return(nil, errors.New("no route"))
		f.store.EXPECT().Persist(gomock.Any(), gomock.Any()).Return(nil).Times(1)

		result := f.svc.Handle(context.Background(), requestMsg(t, "request-1", Alice, Bob, "c0ffee"))
		require.True(t, result.Handled)
		require.Equal(t, string(OutcomeSendFailed), result.Outcome)
		require.EqualError(t, result.Err, "dispatch presentation: no route")
	})

	t.Run("Persists when delivery fails", func(t *testing.T) {
		f := newFixture(t, ctrl)

		f.builder.EXPECT().Build(gomock.Any(), gomock.Any(), Bob, Alice).Return(payload(), nil)
		f.transport.EXPECT().Pack(gomock.Any(), gomock.Any(), PackingJWS).Return([]byte("packed"), nil)
		f.transport.EXPECT().Dispatch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), Alice).
			Return(delivered(errors.New("connection refused")), nil)
		f.store.EXPECT().Persist(gomock.Any(), gomock.Any()).Return(nil).Times(1)

		result := f.svc.Handle(context.Background(), requestMsg(t, "request-1", Alice, Bob, "c0ffee"))
		require.Equal(t, string(OutcomePresentationSent), result.Outcome)
		require.NoError(t, result.Err)
	})

	t.Run("Persists when pack fails", func(t *testing.T) {
		f := newFixture(t, ctrl)

		f.builder.EXPECT().Build(gomock.Any(), gomock.Any(), Bob, Alice).Return(payload(), nil)
		f.transport.EXPECT().Pack(gomock.Any(), gomock.Any(), PackingJWS).Return(nil, errors.New("no key"))
		f.store.EXPECT().Persist(gomock.Any(), gomock.Any()).Return(nil).Times(1)

		result := f.svc.Handle(context.Background(), requestMsg(t, "request-1", Alice, Bob, "c0ffee"))
		require.Equal(t, string(OutcomeSendFailed), result.Outcome)
		require.EqualError(t, result.Err, "pack presentation: no key")
	})

	t.Run("Persists when transport panics", func(t *testing.T) {
		f := newFixture(t, ctrl)

		f.builder.EXPECT().Build(gomock.Any(), gomock.Any(), Bob, Alice).Return(payload(), nil)
		f.transport.EXPECT().Pack(gomock.Any(), gomock.Any(), PackingJWS).Return([]byte("packed"), nil)
		f.transport.EXPECT().Dispatch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), Alice).
			DoAndReturn(func(context.Context, string, []byte, PackingMode, string) (<-chan error, error) {
				panic("transport is down")
			})
		f.store.EXPECT().Persist(gomock.Any(), gomock.Any()).Return(nil).Times(1)

		var result service.Result

		require.NotPanics(t, func() {
			result = f.svc.Handle(context.Background(), requestMsg(t, "request-1", Alice, Bob, "c0ffee"))
		})
		require.Equal(t, string(OutcomeSendFailed), result.Outcome)
		require.Contains(t, result.Err.Error(), "transport is down")
	})

	t.Run("Persistence error is reported", func(t *testing.T) {
		f := newFixture(t, ctrl)

		f.builder.EXPECT().Build(gomock.Any(), gomock.Any(), Bob, Alice).Return(payload(), nil)
		f.transport.EXPECT().Pack(gomock.Any(), gomock.Any(), PackingJWS).Return([]byte("packed"), nil)
		f.transport.EXPECT().Dispatch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), Alice).
			Return(delivered(nil), nil)
		f.store.EXPECT().Persist(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

		result := f.svc.Handle(context.Background(), requestMsg(t, "request-1", Alice, Bob, "c0ffee"))
		require.Equal(t, string(OutcomePresentationSent), result.Outcome)
		require.EqualError(t, result.Err, "persist presentation: disk full")
	})

	t.Run("Packing mode option", func(t *testing.T) {
		f := newFixture(t, ctrl, WithPackingMode(PackingNone), WithComment("here"))

		f.builder.EXPECT().Build(gomock.Any(), gomock.Any(), Bob, Alice).Return(payload(), nil)
		f.transport.EXPECT().Pack(gomock.Any(), gomock.Any(), PackingNone).
			DoAndReturn(func(_ context.Context, out *service.DIDCommMsg, _ PackingMode) ([]byte, error) {
				var body Presentation
				require.NoError(t, out.Decode(&body))
				require.Equal(t, "here", body.Comment)

				return []byte("plain"), nil
			})
		f.transport.EXPECT().Dispatch(gomock.Any(), gomock.Any(), []byte("plain"), PackingNone, Alice).
			Return(delivered(nil), nil)
		f.store.EXPECT().Persist(gomock.Any(), gomock.Any()).Return(nil)

		result := f.svc.Handle(context.Background(), requestMsg(t, "request-1", Alice, Bob, "c0ffee"))
		require.Equal(t, string(OutcomePresentationSent), result.Outcome)
	})

	t.Run("Attachment key is missing", func(t *testing.T) {
		f := newFixture(t, ctrl)

		msg := newMsg(t, "request-1", RequestPresentationMsgType, Alice, Bob, map[string]interface{}{
			"comment": "no attachment",
			"presentations~attach": []decorator.Attachment{{
				Data: decorator.AttachmentData{JSON: map[string]string{"a": "b"}},
			}},
		})
		orig := msg.Clone()

		result := f.svc.Handle(context.Background(), msg)
		require.True(t, result.Handled)
		require.Equal(t, string(OutcomeMalformedRequest), result.Outcome)
		require.ErrorIs(t, result.Err, ErrMalformedMessage)
		require.Equal(t, orig, msg)
	})

	t.Run("Attachment without data", func(t *testing.T) {
		f := newFixture(t, ctrl)

		msg := newMsg(t, "request-1", RequestPresentationMsgType, Alice, Bob, &RequestPresentation{
			RequestPresentationsAttach: []decorator.Attachment{{ID: "empty"}},
		})

		result := f.svc.Handle(context.Background(), msg)
		require.Equal(t, string(OutcomeMalformedRequest), result.Outcome)
		require.ErrorIs(t, result.Err, ErrMalformedMessage)
	})

	t.Run("Body is not an object", func(t *testing.T) {
		f := newFixture(t, ctrl)

		msg := service.DIDCommMsg{ID: "ID", Type: RequestPresentationMsgType, From: Alice, To: Bob,
			Body: json.RawMessage(`"text"`)}

		result := f.svc.Handle(context.Background(), msg)
		require.Equal(t, string(OutcomeMalformedRequest), result.Outcome)
	})

	t.Run("Missing addresses", func(t *testing.T) {
		f := newFixture(t, ctrl)

		result := f.svc.Handle(context.Background(), requestMsg(t, "request-1", "", Bob, "c0ffee"))
		require.Equal(t, string(OutcomeMalformedRequest), result.Outcome)
		require.Contains(t, result.Err.Error(), "verifier (from) is empty")

		result = f.svc.Handle(context.Background(), requestMsg(t, "request-1", Alice, "", "c0ffee"))
		require.Equal(t, string(OutcomeMalformedRequest), result.Outcome)
		require.Contains(t, result.Err.Error(), "subject (to) is empty")
	})

	t.Run("Builder has no presentation", func(t *testing.T) {
		f := newFixture(t, ctrl)

		f.builder.EXPECT().Build(gomock.Any(), gomock.Any(), Bob, Alice).Return(nil, nil)

		result := f.svc.Handle(context.Background(), requestMsg(t, "request-1", Alice, Bob, "c0ffee"))
		require.Equal(t, string(OutcomeRequestUnsatisfiable), result.Outcome)
		require.NoError(t, result.Err)
	})

	t.Run("Builder fails", func(t *testing.T) {
		f := newFixture(t, ctrl)

		f.builder.EXPECT().Build(gomock.Any(), gomock.Any(), Bob, Alice).Return(nil, errors.New("wallet locked"))

		result := f.svc.Handle(context.Background(), requestMsg(t, "request-1", Alice, Bob, "c0ffee"))
		require.Equal(t, string(OutcomeBuildFailed), result.Outcome)
		require.EqualError(t, result.Err, "build presentation: wallet locked")
	})
}

func TestService_HandlePresentation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	filter := MessageFilter{From: Alice, Type: RequestPresentationMsgType}

	t.Run("Accepted", func(t *testing.T) {
		f := newFixture(t, ctrl)
		msg := presentationMsg(t, Bob, Alice)
		orig := msg.Clone()

		f.store.EXPECT().Query(gomock.Any(), filter).
			Return([]service.DIDCommMsg{requestMsg(t, "request-1", Alice, Bob, "c0ffee")}, nil)
		f.verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), "c0ffee").
			DoAndReturn(func(_ context.Context, vp json.RawMessage, _ string) (*VerificationResult, error) {
				require.JSONEq(t, `{"id":"urn:uuid:vp","holder":"`+Bob+`"}`, string(vp))

				return &VerificationResult{Verified: true}, nil
			})
		f.verifier.EXPECT().StoreVerified(gomock.Any(), gomock.Any()).Return("urn:uuid:vp", nil).Times(1)

		result := f.svc.Handle(context.Background(), msg)
		require.True(t, result.Handled)
		require.Equal(t, string(OutcomePresentationAccepted), result.Outcome)
		require.NoError(t, result.Err)
		require.Equal(t, orig, msg)
	})

	t.Run("Most recent request wins", func(t *testing.T) {
		f := newFixture(t, ctrl)

		f.store.EXPECT().Query(gomock.Any(), filter).Return([]service.DIDCommMsg{
			requestMsg(t, "request-1", Alice, Bob, "first"),
			requestMsg(t, "request-2", Alice, Bob, "second"),
			requestMsg(t, "request-3", Alice, Bob, "third"),
		}, nil)
		f.verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), "third").
			Return(&VerificationResult{Verified: true}, nil)
		f.verifier.EXPECT().StoreVerified(gomock.Any(), gomock.Any()).Return("id", nil)

		result := f.svc.Handle(context.Background(), presentationMsg(t, Bob, Alice))
		require.Equal(t, string(OutcomePresentationAccepted), result.Outcome)
	})

	t.Run("No previous request", func(t *testing.T) {
		f := newFixture(t, ctrl)

		f.store.EXPECT().Query(gomock.Any(), filter).Return(nil, nil)

		result := f.svc.Handle(context.Background(), presentationMsg(t, Bob, Alice))
		require.True(t, result.Handled)
		require.Equal(t, string(OutcomeNoCorrelatedRequest), result.Outcome)
		require.NoError(t, result.Err)
	})

	t.Run("Rejected", func(t *testing.T) {
		f := newFixture(t, ctrl)

		f.store.EXPECT().Query(gomock.Any(), filter).
			Return([]service.DIDCommMsg{requestMsg(t, "request-1", Alice, Bob, "c0ffee")}, nil)
		f.verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), "c0ffee").
			Return(&VerificationResult{Verified: false, Error: "challenge mismatch"}, nil)
		f.verifier.EXPECT().StoreVerified(gomock.Any(), gomock.Any()).Times(0)

		result := f.svc.Handle(context.Background(), presentationMsg(t, Bob, Alice))
		require.Equal(t, string(OutcomePresentationRejected), result.Outcome)
		require.ErrorIs(t, result.Err, ErrPresentationRejected)
		require.Contains(t, result.Err.Error(), "challenge mismatch")
	})

	t.Run("Nil verification result", func(t *testing.T) {
		f := newFixture(t, ctrl)

		f.store.EXPECT().Query(gomock.Any(), filter).
			Return([]service.DIDCommMsg{requestMsg(t, "request-1", Alice, Bob, "c0ffee")}, nil)
		f.verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), "c0ffee").Return(nil, nil)

		result := f.svc.Handle(context.Background(), presentationMsg(t, Bob, Alice))
		require.Equal(t, string(OutcomePresentationRejected), result.Outcome)
	})

	t.Run("Query fails", func(t *testing.T) {
		f := newFixture(t, ctrl)

		f.store.EXPECT().Query(gomock.Any(), filter).Return(nil, errors.New("db closed"))

		result := f.svc.Handle(context.Background(), presentationMsg(t, Bob, Alice))
		require.True(t, result.Handled)
		require.Equal(t, string(OutcomeCorrelationFailed), result.Outcome)
		require.EqualError(t, result.Err, "query requests: db closed")
	})

	t.Run("Verifier fails", func(t *testing.T) {
		f := newFixture(t, ctrl)

		f.store.EXPECT().Query(gomock.Any(), filter).
			Return([]service.DIDCommMsg{requestMsg(t, "request-1", Alice, Bob, "c0ffee")}, nil)
		f.verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), "c0ffee").Return(nil, errors.New("resolver down"))

		result := f.svc.Handle(context.Background(), presentationMsg(t, Bob, Alice))
		require.Equal(t, string(OutcomeVerificationFailed), result.Outcome)
		require.EqualError(t, result.Err, "verify presentation: resolver down")
	})

	t.Run("Store fails", func(t *testing.T) {
		f := newFixture(t, ctrl)

		f.store.EXPECT().Query(gomock.Any(), filter).
			Return([]service.DIDCommMsg{requestMsg(t, "request-1", Alice, Bob, "c0ffee")}, nil)
		f.verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), "c0ffee").
			Return(&VerificationResult{Verified: true}, nil)
		f.verifier.EXPECT().StoreVerified(gomock.Any(), gomock.Any()).Return("", errors.New("read only"))

		result := f.svc.Handle(context.Background(), presentationMsg(t, Bob, Alice))
		require.Equal(t, string(OutcomeStoreFailed), result.Outcome)
		require.EqualError(t, result.Err, "store presentation: read only")
	})

	t.Run("Request without challenge", func(t *testing.T) {
		f := newFixture(t, ctrl)

		f.store.EXPECT().Query(gomock.Any(), filter).
			Return([]service.DIDCommMsg{requestMsg(t, "request-1", Alice, Bob, "")}, nil)

		result := f.svc.Handle(context.Background(), presentationMsg(t, Bob, Alice))
		require.Equal(t, string(OutcomeMalformedChallenge), result.Outcome)
		require.ErrorIs(t, result.Err, ErrMissingChallenge)
	})

	t.Run("Malformed presentation", func(t *testing.T) {
		f := newFixture(t, ctrl)

		msg := newMsg(t, "ID", PresentationMsgType, Bob, Alice, &Presentation{Comment: "nothing attached"})

		result := f.svc.Handle(context.Background(), msg)
		require.True(t, result.Handled)
		require.Equal(t, string(OutcomeMalformedPresentation), result.Outcome)
		require.ErrorIs(t, result.Err, ErrMalformedMessage)
	})

	t.Run("Missing addresses", func(t *testing.T) {
		f := newFixture(t, ctrl)

		f.store.EXPECT().Query(gomock.Any(), gomock.Any()).Times(0)
		f.verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		f.verifier.EXPECT().StoreVerified(gomock.Any(), gomock.Any()).Times(0)

		result := f.svc.Handle(context.Background(), presentationMsg(t, "did:example:mallory", ""))
		require.True(t, result.Handled)
		require.Equal(t, string(OutcomeMalformedPresentation), result.Outcome)
		require.ErrorIs(t, result.Err, ErrMalformedMessage)
		require.Contains(t, result.Err.Error(), "verifier (to) is empty")

		result = f.svc.Handle(context.Background(), presentationMsg(t, "", Alice))
		require.Equal(t, string(OutcomeMalformedPresentation), result.Outcome)
		require.Contains(t, result.Err.Error(), "subject (from) is empty")
	})

	t.Run("Base64 attachment", func(t *testing.T) {
		f := newFixture(t, ctrl)

		msg := newMsg(t, "ID", PresentationMsgType, Bob, Alice, &Presentation{
			PresentationsAttach: []decorator.Attachment{{Data: decorator.AttachmentData{Base64: "ZXlKaGJHY2lPaUpGWkVSVFFTSjk="}}},
		})

		f.store.EXPECT().Query(gomock.Any(), filter).
			Return([]service.DIDCommMsg{requestMsg(t, "request-1", Alice, Bob, "c0ffee")}, nil)
		f.verifier.EXPECT().Verify(gomock.Any(), json.RawMessage("eyJhbGciOiJFZERTQSJ9"), "c0ffee").
			Return(&VerificationResult{Verified: true}, nil)
		f.verifier.EXPECT().StoreVerified(gomock.Any(), gomock.Any()).Return("id", nil)

		result := f.svc.Handle(context.Background(), msg)
		require.Equal(t, string(OutcomePresentationAccepted), result.Outcome)
	})
}

func TestService_Use(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("Two middlewares run in order", func(t *testing.T) {
		f := newFixture(t, ctrl)

		var calls []string

		f.svc.Use(func(next Handler) Handler {
			return HandlerFunc(func(metadata Metadata) error {
				calls = append(calls, "first")
				require.Equal(t, OutcomeProposalObserved, metadata.Outcome())
				require.Equal(t, "proposal-received", metadata.StateName())
				require.Equal(t, ProposePresentationMsgType, metadata.Message().Type)
				require.NoError(t, metadata.Err())

				return next.Handle(metadata)
			})
		}, func(next Handler) Handler {
			return HandlerFunc(func(metadata Metadata) error {
				calls = append(calls, "second")

				return next.Handle(metadata)
			})
		})

		f.svc.Handle(context.Background(), newMsg(t, "ID", ProposePresentationMsgType, Bob, Alice, &ProposePresentation{}))
		require.Equal(t, []string{"first", "second"}, calls)
	})

	t.Run("Middleware error does not escape", func(t *testing.T) {
		f := newFixture(t, ctrl)

		f.svc.Use(func(next Handler) Handler {
			return HandlerFunc(func(metadata Metadata) error {
				return errors.New("middleware failed")
			})
		})

		result := f.svc.Handle(context.Background(), newMsg(t, "ID", ProposePresentationMsgType, Bob, Alice,
			&ProposePresentation{}))
		require.True(t, result.Handled)
		require.NoError(t, result.Err)
	})

	t.Run("Middleware panic is recovered", func(t *testing.T) {
		f := newFixture(t, ctrl)

		f.svc.Use(func(next Handler) Handler {
			return HandlerFunc(func(metadata Metadata) error {
				panic("boom")
			})
		})

		result := f.svc.Handle(context.Background(), newMsg(t, "ID", ProposePresentationMsgType, Bob, Alice,
			&ProposePresentation{}))
		require.True(t, result.Handled)
		require.Equal(t, string(OutcomeInternalError), result.Outcome)
		require.Contains(t, result.Err.Error(), "boom")
	})
}

func TestService_MsgEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t, ctrl)

	events := make(chan service.StateMsg, 1)
	require.NoError(t, f.svc.RegisterMsgEvent(events))

	f.store.EXPECT().Query(gomock.Any(), gomock.Any()).
		Return([]service.DIDCommMsg{requestMsg(t, "request-1", Alice, Bob, "c0ffee")}, nil)
	f.verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), "c0ffee").Return(&VerificationResult{Verified: true}, nil)
	f.verifier.EXPECT().StoreVerified(gomock.Any(), gomock.Any()).Return("urn:uuid:vp", nil)

	f.svc.Handle(context.Background(), presentationMsg(t, Bob, Alice))

	select {
	case e := <-events:
		require.Equal(t, Name, e.ProtocolName)
		require.Equal(t, service.PostState, e.Type)
		require.Equal(t, "done", e.StateID)
		require.Equal(t, "presentation-1", e.Msg.ID)

		props := e.Properties.All()
		require.Equal(t, string(OutcomePresentationAccepted), props["outcome"])
		require.Equal(t, "urn:uuid:vp", props["presentation_id"])
		require.Equal(t, "c0ffee", props["challenge"])
		require.Equal(t, "request-1", props["request_msg_id"])
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for state event")
	}

	require.NoError(t, f.svc.UnregisterMsgEvent(events))
}

func TestService_MsgEventsOrdered(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t, ctrl)

	events := make(chan service.StateMsg)
	require.NoError(t, f.svc.RegisterMsgEvent(events))

	const n = 20

	for i := 0; i < n; i++ {
		f.svc.Handle(context.Background(), newMsg(t, fmt.Sprintf("propose-%d", i), ProposePresentationMsgType,
			Bob, Alice, &ProposePresentation{}))
	}

	for i := 0; i < n; i++ {
		select {
		case e := <-events:
			require.Equal(t, fmt.Sprintf("propose-%d", i), e.Msg.ID)
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for state event %d", i)
		}
	}
}

func TestOutcome_StateName(t *testing.T) {
	require.Equal(t, "proposal-received", OutcomeProposalObserved.StateName())
	require.Equal(t, "presentation-sent", OutcomePresentationSent.StateName())
	require.Equal(t, "done", OutcomePresentationAccepted.StateName())
	require.Equal(t, "request-received", OutcomeRequestUnsatisfiable.StateName())
	require.Equal(t, "presentation-received", OutcomeNoCorrelatedRequest.StateName())

	for _, o := range []Outcome{
		OutcomeMalformedRequest, OutcomeBuildFailed, OutcomeSendFailed, OutcomeMalformedPresentation,
		OutcomeCorrelationFailed, OutcomeMalformedChallenge, OutcomeVerificationFailed,
		OutcomePresentationRejected, OutcomeStoreFailed, OutcomeInternalError,
	} {
		require.Equal(t, "abandoned", o.StateName(), o)
	}
}

func TestMessageFilter_Validate(t *testing.T) {
	require.NoError(t, MessageFilter{From: Alice, Type: RequestPresentationMsgType}.Validate())
	require.ErrorIs(t, MessageFilter{Type: RequestPresentationMsgType}.Validate(), ErrIncompleteFilter)
	require.ErrorIs(t, MessageFilter{From: Alice}.Validate(), ErrIncompleteFilter)
}

func TestChallengeOf(t *testing.T) {
	t.Run("json attachment", func(t *testing.T) {
		challenge, err := ChallengeOf(requestMsg(t, "request-1", Alice, Bob, "c0ffee"))
		require.NoError(t, err)
		require.Equal(t, "c0ffee", challenge)
	})

	t.Run("data without a json wrapper", func(t *testing.T) {
		msg := service.DIDCommMsg{
			ID: "request-2", Type: RequestPresentationMsgType, From: Alice, To: Bob,
			Body: json.RawMessage(`{"request_presentations~attach":[{"@id":"request-0",` +
				`"data":{"options":{"challenge":"bare-1"}}}]}`),
		}

		challenge, err := ChallengeOf(msg)
		require.NoError(t, err)
		require.Equal(t, "bare-1", challenge)
	})

	t.Run("no challenge", func(t *testing.T) {
		_, err := ChallengeOf(requestMsg(t, "request-3", Alice, Bob, ""))
		require.ErrorIs(t, err, ErrMissingChallenge)
	})
}

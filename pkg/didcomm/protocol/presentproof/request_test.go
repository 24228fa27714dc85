/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presentproof_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/common/service"
	. "github.com/hyperledger/aries-presentproof-go/pkg/didcomm/protocol/presentproof"
)

func TestService_SendRequestPresentation(t *testing.T) {
	t.Run("persists then dispatches", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newFixture(t, ctrl)

		var persisted *service.DIDCommMsg

		gomock.InOrder(
			f.store.EXPECT().Persist(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, msg *service.DIDCommMsg) error {
					persisted = msg

					return nil
				}),
			f.transport.EXPECT().Pack(gomock.Any(), gomock.Any(), PackingJWS).Return([]byte("packed"), nil),
			f.transport.EXPECT().Dispatch(gomock.Any(), gomock.Any(), []byte("packed"), PackingJWS, Bob).
				Return(delivered(nil), nil),
		)

		pd := &PresentationDefinition{ID: "pd-1"}

		msg, err := f.svc.SendRequestPresentation(context.Background(), Alice, Bob,
			&ProofRequest{PresentationDefinition: pd})
		require.NoError(t, err)
		require.Equal(t, persisted, msg)
		require.Equal(t, RequestPresentationMsgType, msg.Type)
		require.Equal(t, Alice, msg.From)
		require.Equal(t, Bob, msg.To)

		var req RequestPresentation
		require.NoError(t, msg.Decode(&req))
		require.Len(t, req.RequestPresentationsAttach, 1)
		require.Equal(t, DefinitionsFormat, req.Formats[0].Format)

		// the service correlates a presentation with this message through its challenge
		f.store.EXPECT().Query(gomock.Any(), MessageFilter{From: Alice, Type: RequestPresentationMsgType}).
			Return([]service.DIDCommMsg{*msg}, nil)
		f.verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Not("")).
			Return(&VerificationResult{Verified: true}, nil)
		f.verifier.EXPECT().StoreVerified(gomock.Any(), gomock.Any()).Return("urn:uuid:vp", nil)

		result := f.svc.Handle(context.Background(), presentationMsg(t, Bob, Alice))
		require.True(t, result.Handled)
		require.Equal(t, string(OutcomePresentationAccepted), result.Outcome)
	})

	t.Run("keeps the given challenge", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newFixture(t, ctrl, WithPackingMode(PackingNone))

		f.store.EXPECT().Persist(gomock.Any(), gomock.Any()).Return(nil)
		f.transport.EXPECT().Pack(gomock.Any(), gomock.Any(), PackingNone).Return([]byte("packed"), nil)
		f.transport.EXPECT().Dispatch(gomock.Any(), gomock.Any(), gomock.Any(), PackingNone, Bob).
			Return(delivered(nil), nil)

		msg, err := f.svc.SendRequestPresentation(context.Background(), Alice, Bob,
			&ProofRequest{Options: &RequestOptions{Challenge: "c-42", Domain: "example.com"}})
		require.NoError(t, err)

		f.store.EXPECT().Query(gomock.Any(), gomock.Any()).Return([]service.DIDCommMsg{*msg}, nil)
		f.verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), "c-42").
			Return(&VerificationResult{Verified: false, Error: "challenge mismatch"}, nil)

		result := f.svc.Handle(context.Background(), presentationMsg(t, Bob, Alice))
		require.Equal(t, string(OutcomePresentationRejected), result.Outcome)
	})

	t.Run("missing parties", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newFixture(t, ctrl)

		_, err := f.svc.SendRequestPresentation(context.Background(), "", Bob, nil)
		require.EqualError(t, err, "verifier and subject are required")
	})

	t.Run("persist failure stops the send", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newFixture(t, ctrl)

		f.store.EXPECT().Persist(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		_, err := f.svc.SendRequestPresentation(context.Background(), Alice, Bob, nil)
		require.EqualError(t, err, "persist request-presentation: db down")
	})

	t.Run("pack failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newFixture(t, ctrl)

		f.store.EXPECT().Persist(gomock.Any(), gomock.Any()).Return(nil)
		f.transport.EXPECT().Pack(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("no key"))

		msg, err := f.svc.SendRequestPresentation(context.Background(), Alice, Bob, nil)
		require.EqualError(t, err, "pack request-presentation: no key")
		require.NotNil(t, msg)
	})

	t.Run("dispatch failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newFixture(t, ctrl)

		f.store.EXPECT().Persist(gomock.Any(), gomock.Any()).Return(nil)
		f.transport.EXPECT().Pack(gomock.Any(), gomock.Any(), gomock.Any()).Return([]byte("packed"), nil)
		f.transport.EXPECT().Dispatch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("unknown destination"))

		_, err := f.svc.SendRequestPresentation(context.Background(), Alice, Bob, nil)
		require.EqualError(t, err, "dispatch request-presentation: unknown destination")
	})
}

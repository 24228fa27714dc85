/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package correlation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/common/service"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/protocol/presentproof"
)

const (
	alice = "did:example:alice"
	bob   = "did:example:bob"
	carol = "did:key:z6MkhaXgBZDvotDkL5257faiztiGiC2QtKLGpbnnEGta2doK"
)

type mockProvider struct {
	provider storage.Provider
}

func (p *mockProvider) StorageProvider() storage.Provider {
	return p.provider
}

type failingProvider struct {
	storage.Provider
	errOpen   error
	errConfig error
	store     storage.Store
}

func (p *failingProvider) OpenStore(string) (storage.Store, error) {
	return p.store, p.errOpen
}

func (p *failingProvider) SetStoreConfig(string, storage.StoreConfiguration) error {
	return p.errConfig
}

type failingStore struct {
	storage.Store
	errPut   error
	errQuery error
}

func (s *failingStore) Put(string, []byte, ...storage.Tag) error {
	return s.errPut
}

func (s *failingStore) Query(string, ...storage.QueryOption) (storage.Iterator, error) {
	return nil, s.errQuery
}

func newStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(&mockProvider{provider: mem.NewProvider()})
	require.NoError(t, err)

	return s
}

func msg(id, msgType, from, to string) *service.DIDCommMsg {
	return &service.DIDCommMsg{ID: id, Type: msgType, From: from, To: to, Body: []byte(`{"comment":"` + id + `"}`)}
}

func TestNew(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		require.NotNil(t, newStore(t))
	})

	t.Run("Open store fails", func(t *testing.T) {
		s, err := New(&mockProvider{provider: &failingProvider{errOpen: errors.New("open error")}})
		require.EqualError(t, err, "failed to open correlation store: open error")
		require.Nil(t, s)
	})

	t.Run("Store config fails", func(t *testing.T) {
		s, err := New(&mockProvider{provider: &failingProvider{errConfig: errors.New("config error")}})
		require.EqualError(t, err, "failed to set store config: config error")
		require.Nil(t, s)
	})

	t.Run("Load fails", func(t *testing.T) {
		s, err := New(&mockProvider{provider: &failingProvider{
			store: &failingStore{errQuery: errors.New("query error")},
		}})
		require.Error(t, err)
		require.Contains(t, err.Error(), "query error")
		require.Nil(t, s)
	})

	t.Run("Resumes sequence of existing records", func(t *testing.T) {
		provider := mem.NewProvider()

		s, err := New(&mockProvider{provider: provider})
		require.NoError(t, err)

		require.NoError(t, s.Persist(context.Background(), msg("1", presentproof.RequestPresentationMsgType, alice, bob)))
		require.NoError(t, s.Persist(context.Background(), msg("2", presentproof.RequestPresentationMsgType, alice, bob)))

		reopened, err := New(&mockProvider{provider: provider})
		require.NoError(t, err)
		require.Equal(t, uint64(2), reopened.seq)

		require.NoError(t, reopened.Persist(context.Background(),
			msg("3", presentproof.RequestPresentationMsgType, alice, bob)))

		msgs, err := reopened.Query(context.Background(),
			presentproof.MessageFilter{From: alice, Type: presentproof.RequestPresentationMsgType})
		require.NoError(t, err)
		require.Len(t, msgs, 3)
		require.Equal(t, "3", msgs[2].ID)
	})
}

func TestStore_Persist(t *testing.T) {
	t.Run("Nil message", func(t *testing.T) {
		require.EqualError(t, newStore(t).Persist(context.Background(), nil), "message is required")
	})

	t.Run("Cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		require.ErrorIs(t, newStore(t).Persist(ctx, msg("1", "type", alice, bob)), context.Canceled)
	})

	t.Run("Put fails", func(t *testing.T) {
		s := &Store{store: &failingStore{errPut: errors.New("put error")}}

		err := s.Persist(context.Background(), msg("1", "type", alice, bob))
		require.EqualError(t, err, "failed to put message record: put error")
		require.Zero(t, s.seq)
	})

	t.Run("Same message twice is kept twice", func(t *testing.T) {
		s := newStore(t)
		m := msg("1", presentproof.PresentationMsgType, alice, bob)

		require.NoError(t, s.Persist(context.Background(), m))
		require.NoError(t, s.Persist(context.Background(), m))

		msgs, err := s.Query(context.Background(),
			presentproof.MessageFilter{From: alice, Type: presentproof.PresentationMsgType})
		require.NoError(t, err)
		require.Len(t, msgs, 2)
	})

	t.Run("Stored message is a copy", func(t *testing.T) {
		s := newStore(t)
		m := msg("1", presentproof.PresentationMsgType, alice, bob)

		require.NoError(t, s.Persist(context.Background(), m))
		m.Body[0] = 'x'

		msgs, err := s.Query(context.Background(),
			presentproof.MessageFilter{From: alice, Type: presentproof.PresentationMsgType})
		require.NoError(t, err)
		require.JSONEq(t, `{"comment":"1"}`, string(msgs[0].Body))
	})
}

func TestStore_Query(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	const count = 12

	for i := 0; i < count; i++ {
		require.NoError(t, s.Persist(ctx, msg(fmt.Sprintf("request-%d", i),
			presentproof.RequestPresentationMsgType, alice, bob)))
	}

	require.NoError(t, s.Persist(ctx, msg("presentation-0", presentproof.PresentationMsgType, alice, bob)))
	require.NoError(t, s.Persist(ctx, msg("request-carol", presentproof.RequestPresentationMsgType, carol, bob)))

	t.Run("Filter by sender and type in insertion order", func(t *testing.T) {
		msgs, err := s.Query(ctx, presentproof.MessageFilter{From: alice, Type: presentproof.RequestPresentationMsgType})
		require.NoError(t, err)
		require.Len(t, msgs, count)

		for i, m := range msgs {
			require.Equal(t, fmt.Sprintf("request-%d", i), m.ID)
			require.Equal(t, alice, m.From)
			require.Equal(t, bob, m.To)
		}
	})

	t.Run("DID with colons", func(t *testing.T) {
		msgs, err := s.Query(ctx, presentproof.MessageFilter{From: carol, Type: presentproof.RequestPresentationMsgType})
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		require.Equal(t, "request-carol", msgs[0].ID)
	})

	t.Run("Presentation from sender", func(t *testing.T) {
		msgs, err := s.Query(ctx, presentproof.MessageFilter{From: alice, Type: presentproof.PresentationMsgType})
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		require.Equal(t, "presentation-0", msgs[0].ID)
	})

	t.Run("Incomplete filter is rejected", func(t *testing.T) {
		for _, filter := range []presentproof.MessageFilter{
			{},
			{From: alice},
			{Type: presentproof.RequestPresentationMsgType},
		} {
			msgs, err := s.Query(ctx, filter)
			require.ErrorIs(t, err, presentproof.ErrIncompleteFilter)
			require.Nil(t, msgs)
		}
	})

	t.Run("No match", func(t *testing.T) {
		msgs, err := s.Query(ctx, presentproof.MessageFilter{From: bob, Type: presentproof.RequestPresentationMsgType})
		require.NoError(t, err)
		require.Empty(t, msgs)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := s.Query(cctx,
			presentproof.MessageFilter{From: alice, Type: presentproof.RequestPresentationMsgType})
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Query fails", func(t *testing.T) {
		failing := &Store{store: &failingStore{errQuery: errors.New("query error")}}

		_, err := failing.Query(ctx,
			presentproof.MessageFilter{From: alice, Type: presentproof.RequestPresentationMsgType})
		require.EqualError(t, err, "failed to query correlation store: query error")
	})
}

func TestExpression(t *testing.T) {
	require.Equal(t, "from:"+encodeTag(alice)+"&&type:"+encodeTag("t"),
		expression(presentproof.MessageFilter{From: alice, Type: "t"}))
	require.NotContains(t, encodeTag(carol), ":")
}

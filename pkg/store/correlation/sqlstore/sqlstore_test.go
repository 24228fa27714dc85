/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/common/service"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/protocol/presentproof"
)

const (
	alice = "did:example:alice"
	bob   = "did:example:bob"
)

func newStore(t *testing.T) (*Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "db", "messages.db")

	s, err := New(path)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	return s, path
}

func TestNew(t *testing.T) {
	t.Run("Creates directory", func(t *testing.T) {
		s, path := newStore(t)
		require.NoError(t, s.Ping(context.Background()))

		_, err := os.Stat(path)
		require.NoError(t, err)
	})

	t.Run("Invalid directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

		s, err := New(filepath.Join(file, "sub", "messages.db"))
		require.Error(t, err)
		require.Nil(t, s)
	})
}

func TestStore_PersistQuery(t *testing.T) {
	s, path := newStore(t)
	ctx := context.Background()

	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Persist(ctx, &service.DIDCommMsg{
			ID:          fmt.Sprintf("request-%d", i),
			Type:        presentproof.RequestPresentationMsgType,
			From:        alice,
			To:          bob,
			CreatedTime: &created,
			Body:        []byte(fmt.Sprintf(`{"comment":"%d"}`, i)),
		}))
	}

	require.NoError(t, s.Persist(ctx, &service.DIDCommMsg{
		ID: "presentation-0", Type: presentproof.PresentationMsgType, From: bob, To: alice, ThreadID: "request-2",
	}))

	t.Run("Sender and type", func(t *testing.T) {
		msgs, err := s.Query(ctx, presentproof.MessageFilter{From: alice, Type: presentproof.RequestPresentationMsgType})
		require.NoError(t, err)
		require.Len(t, msgs, 3)

		for i, msg := range msgs {
			require.Equal(t, fmt.Sprintf("request-%d", i), msg.ID)
			require.Equal(t, bob, msg.To)
			require.True(t, created.Equal(*msg.CreatedTime))
			require.JSONEq(t, fmt.Sprintf(`{"comment":"%d"}`, i), string(msg.Body))
		}
	})

	t.Run("Optional columns", func(t *testing.T) {
		msgs, err := s.Query(ctx, presentproof.MessageFilter{From: bob, Type: presentproof.PresentationMsgType})
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		require.Equal(t, "request-2", msgs[0].ThreadID)
		require.Nil(t, msgs[0].CreatedTime)
		require.Nil(t, msgs[0].Body)
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
		msgs, err := s.Query(ctx, presentproof.MessageFilter{
			From: "did:example:carol", Type: presentproof.RequestPresentationMsgType,
		})
		require.NoError(t, err)
		require.Empty(t, msgs)
	})

	t.Run("Survives reopen", func(t *testing.T) {
		reopened, err := New(path)
		require.NoError(t, err)

		defer func() {
			require.NoError(t, reopened.Close())
		}()

		msgs, err := reopened.Query(ctx,
			presentproof.MessageFilter{From: alice, Type: presentproof.RequestPresentationMsgType})
		require.NoError(t, err)
		require.Len(t, msgs, 3)
	})
}

func TestStore_Persist(t *testing.T) {
	t.Run("Nil message", func(t *testing.T) {
		s, _ := newStore(t)
		require.EqualError(t, s.Persist(context.Background(), nil), "message is required")
	})

	t.Run("Closed database", func(t *testing.T) {
		s, err := New(filepath.Join(t.TempDir(), "messages.db"))
		require.NoError(t, err)
		require.NoError(t, s.Close())

		err = s.Persist(context.Background(), &service.DIDCommMsg{ID: "1", Type: "t", From: alice, To: bob})
		require.Error(t, err)

		_, err = s.Query(context.Background(),
			presentproof.MessageFilter{From: alice, Type: presentproof.RequestPresentationMsgType})
		require.Error(t, err)
	})
}

func TestStore_Retry(t *testing.T) {
	s, _ := newStore(t)

	t.Run("Busy is retried", func(t *testing.T) {
		calls := 0

		err := s.retry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errors.New("database is locked (5) (SQLITE_BUSY)")
			}

			return nil
		})
		require.NoError(t, err)
		require.Equal(t, 3, calls)
	})

	t.Run("Other errors are not retried", func(t *testing.T) {
		calls := 0

		err := s.retry(context.Background(), func() error {
			calls++

			return errors.New("constraint failed")
		})
		require.EqualError(t, err, "constraint failed")
		require.Equal(t, 1, calls)
	})

	t.Run("Gives up", func(t *testing.T) {
		calls := 0

		err := s.retry(context.Background(), func() error {
			calls++

			return errors.New("SQLITE_BUSY")
		})
		require.EqualError(t, err, "SQLITE_BUSY")
		require.Equal(t, maxRetries+1, calls)
	})
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didkey

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"

	"github.com/multiformats/go-multibase"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	t.Run("Round trip", func(t *testing.T) {
		pub, _, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)

		did, keyID, err := Create(pub)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(did, "did:key:z6Mk"))
		require.Equal(t, did+"#"+strings.TrimPrefix(did, Prefix), keyID)

		for _, id := range []string{did, keyID} {
			resolved, err := PublicKey(id)
			require.NoError(t, err)
			require.Equal(t, pub, resolved)
		}
	})

	t.Run("Known vector", func(t *testing.T) {
		// from the did:key method test vectors
		const did = "did:key:z6MkiTBz1ymuepAQ4HEHYSF1H8quG5GLVVQR3djdX3mDooWp"

		pub, err := PublicKey(did)
		require.NoError(t, err)

		created, _, err := Create(pub)
		require.NoError(t, err)
		require.Equal(t, did, created)
	})

	t.Run("Invalid key size", func(t *testing.T) {
		_, _, err := Create(ed25519.PublicKey{1, 2, 3})
		require.EqualError(t, err, "invalid ed25519 public key size 3")
	})
}

func TestPublicKey(t *testing.T) {
	t.Run("Other method", func(t *testing.T) {
		_, err := PublicKey("did:example:alice")
		require.ErrorIs(t, err, ErrUnsupported)
	})

	t.Run("Bad fingerprint", func(t *testing.T) {
		_, err := PublicKey("did:key:!!!")
		require.Error(t, err)
	})

	t.Run("Other encoding", func(t *testing.T) {
		fingerprint, err := multibase.Encode(multibase.Base64url, append([]byte{0xed, 0x01}, make([]byte, 32)...))
		require.NoError(t, err)

		_, err = PublicKey(Prefix + fingerprint)
		require.ErrorIs(t, err, ErrUnsupported)
	})

	t.Run("Other key type", func(t *testing.T) {
		fingerprint, err := multibase.Encode(multibase.Base58BTC, append([]byte{0xe7, 0x01}, make([]byte, 33)...))
		require.NoError(t, err)

		_, err = PublicKey(Prefix + fingerprint)
		require.ErrorIs(t, err, ErrUnsupported)
	})

	t.Run("Short key", func(t *testing.T) {
		fingerprint, err := multibase.Encode(multibase.Base58BTC, []byte{0xed, 0x01, 1, 2})
		require.NoError(t, err)

		_, err = PublicKey(Prefix + fingerprint)
		require.EqualError(t, err, "invalid ed25519 public key size 2")
	})
}

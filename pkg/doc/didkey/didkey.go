/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package didkey creates and resolves did:key identifiers for Ed25519 keys.
package didkey

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"

	"github.com/multiformats/go-multibase"
)

const (
	// Prefix of every did:key identifier.
	Prefix = "did:key:"
)

// ed25519-pub multicodec, varint encoded.
var ed25519Codec = []byte{0xed, 0x01}

// ErrUnsupported is returned for identifiers that are not Ed25519 did:key values.
var ErrUnsupported = errors.New("unsupported did:key")

// Create returns the did:key DID and its key ID for pub.
func Create(pub ed25519.PublicKey) (did, keyID string, err error) {
	if len(pub) != ed25519.PublicKeySize {
		return "", "", fmt.Errorf("invalid ed25519 public key size %d", len(pub))
	}

	fingerprint, err := multibase.Encode(multibase.Base58BTC, append(append([]byte{}, ed25519Codec...), pub...))
	if err != nil {
		return "", "", fmt.Errorf("encode fingerprint: %w", err)
	}

	did = Prefix + fingerprint

	return did, did + "#" + fingerprint, nil
}

// PublicKey resolves the Ed25519 public key of a did:key DID, DID URL or key ID.
func PublicKey(id string) (ed25519.PublicKey, error) {
	if !strings.HasPrefix(id, Prefix) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, id)
	}

	fingerprint := strings.TrimPrefix(id, Prefix)
	if i := strings.IndexAny(fingerprint, "#?/"); i >= 0 {
		fingerprint = fingerprint[:i]
	}

	enc, data, err := multibase.Decode(fingerprint)
	if err != nil {
		return nil, fmt.Errorf("decode fingerprint: %w", err)
	}

	if enc != multibase.Base58BTC {
		return nil, fmt.Errorf("%w: fingerprint must be base58btc", ErrUnsupported)
	}

	if !bytes.HasPrefix(data, ed25519Codec) {
		return nil, fmt.Errorf("%w: not an ed25519 key", ErrUnsupported)
	}

	key := data[len(ed25519Codec):]
	if len(key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid ed25519 public key size %d", len(key))
	}

	return ed25519.PublicKey(key), nil
}

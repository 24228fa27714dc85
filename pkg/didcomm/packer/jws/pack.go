/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package jws packs DIDComm messages as compact JWS signed with an Ed25519 key.
package jws

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/go-jose/go-jose/v3"
	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/packer"
)

// EncodingType is the media type of signed DIDComm messages.
const EncodingType = "application/didcomm-signed+json"

var logger = log.New("aries-framework/pkg/didcomm/packer/jws")

// KeyResolver returns the public key for a key ID found in a JWS header.
type KeyResolver func(keyID string) (ed25519.PublicKey, error)

// Packer signs payloads with the agent key and verifies envelopes with resolved sender keys.
type Packer struct {
	signer   jose.Signer
	keyID    string
	resolver KeyResolver
}

// New returns a JWS packer signing with priv under keyID.
func New(priv ed25519.PrivateKey, keyID string, resolver KeyResolver) (*Packer, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, errors.New("jws: invalid ed25519 private key")
	}

	if resolver == nil {
		return nil, errors.New("jws: key resolver is required")
	}

	opts := (&jose.SignerOptions{}).WithType(EncodingType).WithHeader(jose.HeaderKey("kid"), keyID)

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.EdDSA, Key: priv}, opts)
	if err != nil {
		return nil, fmt.Errorf("jws: new signer: %w", err)
	}

	return &Packer{signer: signer, keyID: keyID, resolver: resolver}, nil
}

// Pack signs payload and returns the compact serialization.
func (p *Packer) Pack(payload []byte) ([]byte, error) {
	sig, err := p.signer.Sign(payload)
	if err != nil {
		return nil, fmt.Errorf("jws Pack: sign: %w", err)
	}

	compact, err := sig.CompactSerialize()
	if err != nil {
		return nil, fmt.Errorf("jws Pack: serialize: %w", err)
	}

	return []byte(compact), nil
}

// Unpack verifies a compact JWS with the key named in its header.
func (p *Packer) Unpack(envelope []byte) (*packer.Envelope, error) {
	sig, err := jose.ParseSigned(string(envelope))
	if err != nil {
		return nil, fmt.Errorf("jws Unpack: parse: %w", err)
	}

	if len(sig.Signatures) != 1 {
		return nil, fmt.Errorf("jws Unpack: expected one signature, got %d", len(sig.Signatures))
	}

	keyID := sig.Signatures[0].Header.KeyID
	if keyID == "" {
		return nil, errors.New("jws Unpack: missing kid header")
	}

	key, err := p.resolver(keyID)
	if err != nil {
		return nil, fmt.Errorf("jws Unpack: resolve key %s: %w", keyID, err)
	}

	payload, err := sig.Verify(key)
	if err != nil {
		logger.Warnf("signature check failed for kid=%s: %v", keyID, err)

		return nil, fmt.Errorf("jws Unpack: verify: %w", err)
	}

	return &packer.Envelope{Message: payload, FromKey: keyID}, nil
}

// EncodingType returns the media type of signed envelopes.
func (p *Packer) EncodingType() string {
	return EncodingType
}

/*
 Copyright SecureKey Technologies Inc. All Rights Reserved.

 SPDX-License-Identifier: Apache-2.0
*/

// Package localkms keeps Ed25519 signing keys in a storage provider.
package localkms

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/spi/storage"

	"github.com/hyperledger/aries-presentproof-go/pkg/doc/didkey"
	"github.com/hyperledger/aries-presentproof-go/pkg/kms"
)

// Namespace is the store name of the local KMS.
const Namespace = "kmsdb"

var logger = log.New("aries-framework/kms/localkms")

type provider interface {
	StorageProvider() storage.Provider
}

type keyRecord struct {
	KeyID string `json:"kid"`
	Seed  []byte `json:"seed"`
}

// LocalKMS implements kms.KeyManager over a local store.
type LocalKMS struct {
	store storage.Store
}

// New will create a new (local) KMS service.
func New(p provider) (*LocalKMS, error) {
	store, err := p.StorageProvider().OpenStore(Namespace)
	if err != nil {
		return nil, fmt.Errorf("new: failed to open store: %w", err)
	}

	return &LocalKMS{store: store}, nil
}

// Create a new Ed25519 key and its did:key DID.
func (l *LocalKMS) Create() (string, string, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", "", fmt.Errorf("create: failed to generate key: %w", err)
	}

	return l.put(priv, "create")
}

// Import stores the Ed25519 key derived from seed and returns its did:key DID and key ID.
func (l *LocalKMS) Import(seed []byte) (string, string, error) {
	if len(seed) != ed25519.SeedSize {
		return "", "", fmt.Errorf("import: seed must be %d bytes", ed25519.SeedSize)
	}

	return l.put(ed25519.NewKeyFromSeed(seed), "import")
}

func (l *LocalKMS) put(priv ed25519.PrivateKey, op string) (string, string, error) {
	did, keyID, err := didkey.Create(priv.Public().(ed25519.PublicKey))
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	recBytes, err := json.Marshal(&keyRecord{KeyID: keyID, Seed: priv.Seed()})
	if err != nil {
		return "", "", fmt.Errorf("%s: failed to marshal key: %w", op, err)
	}

	if err := l.store.Put(did, recBytes); err != nil {
		return "", "", fmt.Errorf("%s: failed to store key: %w", op, err)
	}

	logger.Infof("stored key %s", keyID)

	return did, keyID, nil
}

// SigningKey returns the private key held for did.
func (l *LocalKMS) SigningKey(did string) (ed25519.PrivateKey, string, error) {
	recBytes, err := l.store.Get(did)
	if errors.Is(err, storage.ErrDataNotFound) {
		return nil, "", fmt.Errorf("%w: %s", kms.ErrKeyNotFound, did)
	}

	if err != nil {
		return nil, "", fmt.Errorf("signing key: %w", err)
	}

	var rec keyRecord
	if err := json.Unmarshal(recBytes, &rec); err != nil {
		return nil, "", fmt.Errorf("signing key: failed to unmarshal key: %w", err)
	}

	if len(rec.Seed) != ed25519.SeedSize {
		return nil, "", fmt.Errorf("signing key: invalid seed for %s", did)
	}

	return ed25519.NewKeyFromSeed(rec.Seed), rec.KeyID, nil
}

/*
 Copyright SecureKey Technologies Inc. All Rights Reserved.

 SPDX-License-Identifier: Apache-2.0
*/

package kms

import (
	"crypto/ed25519"
	"errors"
)

// ErrKeyNotFound is returned when no key is held for a DID.
var ErrKeyNotFound = errors.New("key not found")

// KeyManager manages the agent's signing keys.
type KeyManager interface {
	// Create a new Ed25519 key and return the did:key DID and key ID naming it.
	Create() (did, keyID string, err error)
	// SigningKey returns the private key and key ID of a DID created by this key manager.
	SigningKey(did string) (ed25519.PrivateKey, string, error)
}

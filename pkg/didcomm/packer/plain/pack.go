/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package plain passes DIDComm messages through unprotected.
package plain

import (
	"encoding/json"
	"errors"

	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/packer"
)

// EncodingType is the media type of plaintext DIDComm messages.
const EncodingType = "application/didcomm-plain+json"

// Packer is a plaintext packer.
type Packer struct{}

// New returns a plaintext packer.
func New() *Packer {
	return &Packer{}
}

// Pack returns the payload unchanged.
func (p *Packer) Pack(payload []byte) ([]byte, error) {
	if !json.Valid(payload) {
		return nil, errors.New("plain Pack: payload is not JSON")
	}

	return payload, nil
}

// Unpack returns the envelope as the message.
func (p *Packer) Unpack(envelope []byte) (*packer.Envelope, error) {
	if !json.Valid(envelope) {
		return nil, errors.New("plain Unpack: envelope is not JSON")
	}

	return &packer.Envelope{Message: envelope}, nil
}

// EncodingType returns the media type of plaintext envelopes.
func (p *Packer) EncodingType() string {
	return EncodingType
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package packer

// Envelope is an unpacked DIDComm envelope.
type Envelope struct {
	// Message is the payload carried by the envelope.
	Message []byte
	// FromKey is the key ID the envelope was signed with. Empty for plaintext envelopes.
	FromKey string
}

// Packer packs DIDComm messages into an envelope and back.
type Packer interface {
	// Pack a payload into an envelope.
	Pack(payload []byte) ([]byte, error)
	// Unpack an envelope, checking its protection.
	Unpack(envelope []byte) (*Envelope, error)
	// EncodingType returns the media type of the envelopes produced by the packer.
	EncodingType() string
}

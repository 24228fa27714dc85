/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presentproof

import (
	"context"
	"encoding/json"

	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/common/service"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/protocol/decorator"
)

// PackingMode selects how an outbound envelope is packed.
type PackingMode string

const (
	// PackingJWS signs the envelope as a compact JWS.
	PackingJWS PackingMode = "jws"
	// PackingNone sends the envelope as plain JSON.
	PackingNone PackingMode = "none"
)

// PresentationPayload is a presentation ready to be attached to a presentation message.
type PresentationPayload struct {
	Formats     []Format               `json:"formats,omitempty"`
	Attachments []decorator.Attachment `json:"presentations~attach,omitempty"`
}

// MessageFilter is a read-only filter over persisted messages. Both fields must match exactly.
type MessageFilter struct {
	From string
	Type string
}

// Validate returns ErrIncompleteFilter unless both fields are set.
func (f MessageFilter) Validate() error {
	if f.From == "" || f.Type == "" {
		return ErrIncompleteFilter
	}

	return nil
}

// VerificationResult is the outcome of checking a presentation against a challenge.
type VerificationResult struct {
	Verified bool   `json:"verified"`
	Error    string `json:"error,omitempty"`
}

// PresentationBuilder turns a presentation request attachment into a presentation payload.
type PresentationBuilder interface {
	// Build returns a nil payload and a nil error when the subject cannot satisfy the request.
	Build(ctx context.Context, attachment json.RawMessage, subject, verifier string) (*PresentationPayload, error)
}

// Transport signs/packs outbound envelopes and delivers them.
type Transport interface {
	Pack(ctx context.Context, msg *service.DIDCommMsg, mode PackingMode) ([]byte, error)
	// Dispatch submits a message packed with mode for delivery without waiting for it. The returned
	// channel receives the delivery outcome once (nil on success) and is then closed.
	Dispatch(ctx context.Context, msgID string, packed []byte, mode PackingMode, recipient string) (<-chan error, error)
}

// CorrelationStore keeps the history of exchanged messages.
type CorrelationStore interface {
	// Query returns the matching messages ordered oldest-first.
	Query(ctx context.Context, filter MessageFilter) ([]service.DIDCommMsg, error)
	Persist(ctx context.Context, msg *service.DIDCommMsg) error
}

// Verifier checks presentations and keeps the accepted ones.
type Verifier interface {
	Verify(ctx context.Context, presentation json.RawMessage, challenge string) (*VerificationResult, error)
	// StoreVerified persists an accepted presentation and returns its identifier.
	StoreVerified(ctx context.Context, presentation json.RawMessage) (string, error)
}

// Provider contains dependencies for the present-proof protocol.
type Provider interface {
	PresentationBuilder() PresentationBuilder
	Transport() Transport
	CorrelationStore() CorrelationStore
	Verifier() Verifier
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package verifier checks verifiable presentations against the challenge of the request that asked for them
// and keeps the accepted ones.
package verifier

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bluele/gcache"
	"github.com/go-jose/go-jose/v3/jwt"
	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/component/models/verifiable"
	"github.com/hyperledger/aries-framework-go/spi/kms"

	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/protocol/presentproof"
	"github.com/hyperledger/aries-presentproof-go/pkg/doc/didkey"
)

const (
	defaultReplayCacheSize = 1000
	defaultReplayTTL       = 24 * time.Hour
)

var logger = log.New("aries-framework/verifier")

// KeyResolver returns the public key named by a key ID.
type KeyResolver func(keyID string) (ed25519.PublicKey, error)

// ProofChecker checks the embedded proof of a JSON presentation.
type ProofChecker interface {
	CheckProof(vp, proof map[string]interface{}) error
}

// PresentationStore keeps verified presentations.
type PresentationStore interface {
	SavePresentation(name string, vp json.RawMessage) (string, error)
}

// Opt configures a Verifier.
type Opt func(v *Verifier)

// WithKeyResolver sets the resolver of JWT signing keys. did:key IDs are resolved by default.
func WithKeyResolver(r KeyResolver) Opt {
	return func(v *Verifier) {
		v.resolve = r
	}
}

// WithProofChecker sets the checker of embedded proofs. Without one, embedded-proof presentations are
// rejected.
func WithProofChecker(c ProofChecker) Opt {
	return func(v *Verifier) {
		v.checker = c
	}
}

// WithReplayCache sets how many consumed challenges are remembered and for how long.
func WithReplayCache(size int, ttl time.Duration) Opt {
	return func(v *Verifier) {
		v.replaySize, v.replayTTL = size, ttl
	}
}

// WithClock sets the time source used to validate JWT time claims.
func WithClock(now func() time.Time) Opt {
	return func(v *Verifier) {
		v.now = now
	}
}

// Verifier implements presentproof.Verifier.
type Verifier struct {
	store      PresentationStore
	resolve    KeyResolver
	checker    ProofChecker
	replaySize int
	replayTTL  time.Duration
	now        func() time.Time
	consumed   gcache.Cache
	mu         sync.Mutex
}

// New returns a verifier saving accepted presentations into store.
func New(store PresentationStore, opts ...Opt) (*Verifier, error) {
	if store == nil {
		return nil, errors.New("presentation store is required")
	}

	v := &Verifier{
		store:      store,
		resolve:    didkey.PublicKey,
		replaySize: defaultReplayCacheSize,
		replayTTL:  defaultReplayTTL,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(v)
	}

	if v.replaySize <= 0 {
		return nil, fmt.Errorf("invalid replay cache size %d", v.replaySize)
	}

	v.consumed = gcache.New(v.replaySize).LRU().Expiration(v.replayTTL).Build()

	return v, nil
}

// rejection is a reason for not accepting a presentation.
type rejection struct {
	reason string
}

func (r *rejection) Error() string {
	return r.reason
}

func reject(format string, args ...interface{}) error {
	return &rejection{reason: fmt.Sprintf(format, args...)}
}

// Verify checks the presentation signature and that it answers challenge. An invalid presentation is
// reported through the result; the error is reserved for failures of the verifier itself.
// A challenge is only spent once StoreVerified keeps the presentation.
func (v *Verifier) Verify(ctx context.Context, presentation json.RawMessage,
	challenge string) (*presentproof.VerificationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	err := v.verify(presentation, challenge)

	var r *rejection
	if errors.As(err, &r) {
		logger.Infof("presentation rejected: %s", r.reason)

		return &presentproof.VerificationResult{Verified: false, Error: r.reason}, nil
	}

	if err != nil {
		return nil, err
	}

	return &presentproof.VerificationResult{Verified: true}, nil
}

func (v *Verifier) verify(presentation json.RawMessage, challenge string) error {
	if challenge == "" {
		return reject("empty challenge")
	}

	in, err := normalize(presentation)
	if err != nil {
		return err
	}

	if in.token != "" {
		err = v.verifyJWT(in.token, challenge)
	} else {
		err = v.verifyEmbedded(in.raw, challenge)
	}

	if err != nil {
		return err
	}

	if v.used(challenge) {
		return reject("challenge %s was already used", challenge)
	}

	return nil
}

func (v *Verifier) used(challenge string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.consumed.Has(challenge)
}

// claim marks challenge as used. The returned release undoes it.
func (v *Verifier) claim(challenge string) (func(), error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.consumed.Has(challenge) {
		return nil, fmt.Errorf("challenge %s was already used", challenge)
	}

	if err := v.consumed.Set(challenge, v.now()); err != nil {
		return nil, fmt.Errorf("consume challenge: %w", err)
	}

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()

		v.consumed.Remove(challenge)
	}, nil
}

type vpClaims struct {
	Nonce string          `json:"nonce"`
	VP    json.RawMessage `json:"vp"`
}

// unverifiedClaims reads the claims of token without checking its signature.
func unverifiedClaims(tok *jwt.JSONWebToken) (*jwt.Claims, *vpClaims, error) {
	var (
		claims jwt.Claims
		custom vpClaims
	)

	if err := tok.UnsafeClaimsWithoutVerification(&claims, &custom); err != nil {
		return nil, nil, err
	}

	return &claims, &custom, nil
}

func (v *Verifier) verifyJWT(token, challenge string) error {
	tok, err := jwt.ParseSigned(token)
	if err != nil {
		return reject("parse jwt: %v", err)
	}

	if len(tok.Headers) != 1 || tok.Headers[0].KeyID == "" {
		return reject("jwt must have one signature with a key id")
	}

	kid := tok.Headers[0].KeyID

	claims, custom, err := unverifiedClaims(tok)
	if err != nil {
		return reject("jwt claims: %v", err)
	}

	if len(custom.VP) == 0 || string(custom.VP) == "null" {
		return reject("jwt has no vp claim")
	}

	pub, err := v.resolve(kid)
	if err != nil {
		return reject("resolve key %s: %v", kid, err)
	}

	vp, err := verifiable.ParsePresentation([]byte(token),
		verifiable.WithPresPublicKeyFetcher(verifiable.SingleKey(pub, kms.ED25519)),
		verifiable.WithDisabledJSONLDChecks())
	if err != nil {
		return reject("jwt presentation: %v", err)
	}

	if err = claims.ValidateWithLeeway(jwt.Expected{Time: v.now()}, jwt.DefaultLeeway); err != nil {
		return reject("jwt claims: %v", err)
	}

	if claims.Issuer != "" && claims.Issuer != controller(kid) {
		return reject("jwt issuer %s is not the signer %s", claims.Issuer, controller(kid))
	}

	if custom.Nonce != challenge {
		return reject("challenge mismatch")
	}

	if vp.Holder != "" && vp.Holder != controller(kid) {
		return reject("presentation holder %s is not the signer %s", vp.Holder, controller(kid))
	}

	return nil
}

func (v *Verifier) verifyEmbedded(raw []byte, challenge string) error {
	vp, err := verifiable.ParsePresentation(raw,
		verifiable.WithPresDisabledProofCheck(),
		verifiable.WithDisabledJSONLDChecks())
	if err != nil {
		return reject("presentation: %v", err)
	}

	if len(vp.Proofs) == 0 {
		return reject("presentation has no proof")
	}

	proof := vp.Proofs[0]

	if c, _ := proof["challenge"].(string); c != challenge { //nolint:errcheck
		return reject("challenge mismatch")
	}

	if v.checker == nil {
		return reject("no checker for proof type %v", proof["type"])
	}

	var doc map[string]interface{}
	if err = json.Unmarshal(raw, &doc); err != nil {
		return reject("decode presentation: %v", err)
	}

	if err = v.checker.CheckProof(doc, proof); err != nil {
		return reject("proof: %v", err)
	}

	return nil
}

// StoreVerified saves the presentation, unwrapped from its JWT if needed, and returns its ID.
// The challenge it answers is spent on success and left usable when saving fails.
func (v *Verifier) StoreVerified(ctx context.Context, presentation json.RawMessage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc, name, challenge, err := unwrap(presentation)
	if err != nil {
		return "", err
	}

	release := func() {}

	if challenge != "" {
		release, err = v.claim(challenge)
		if err != nil {
			return "", err
		}
	}

	id, err := v.store.SavePresentation(name, doc)
	if err != nil {
		release()

		return "", fmt.Errorf("save presentation: %w", err)
	}

	return id, nil
}

// unwrap returns the JSON form of a presentation, its name and the challenge it answers.
func unwrap(presentation json.RawMessage) (json.RawMessage, string, string, error) {
	in, err := normalize(presentation)
	if err != nil {
		return nil, "", "", err
	}

	if in.token == "" {
		vp, e := verifiable.ParsePresentation(in.raw,
			verifiable.WithPresDisabledProofCheck(),
			verifiable.WithDisabledJSONLDChecks())
		if e != nil {
			return nil, "", "", fmt.Errorf("parse presentation: %w", e)
		}

		var challenge string
		if len(vp.Proofs) > 0 {
			challenge, _ = vp.Proofs[0]["challenge"].(string) //nolint:errcheck
		}

		return json.RawMessage(in.raw), "", challenge, nil
	}

	tok, err := jwt.ParseSigned(in.token)
	if err != nil {
		return nil, "", "", fmt.Errorf("parse jwt: %w", err)
	}

	claims, custom, err := unverifiedClaims(tok)
	if err != nil {
		return nil, "", "", fmt.Errorf("jwt claims: %w", err)
	}

	vp, err := verifiable.ParsePresentation([]byte(in.token),
		verifiable.WithPresDisabledProofCheck(),
		verifiable.WithDisabledJSONLDChecks())
	if err != nil {
		return nil, "", "", fmt.Errorf("parse presentation: %w", err)
	}

	vp.JWT = ""

	doc, err := vp.MarshalJSON()
	if err != nil {
		return nil, "", "", fmt.Errorf("marshal presentation: %w", err)
	}

	name := vp.ID
	if name == "" {
		name = claims.ID
	}

	return doc, name, custom.Nonce, nil
}

type input struct {
	token string
	raw   []byte
}

// normalize accepts a compact JWT, a JSON string holding one, or a JSON presentation.
func normalize(presentation json.RawMessage) (*input, error) {
	raw := bytes.TrimSpace(presentation)
	if len(raw) == 0 {
		return nil, reject("empty presentation")
	}

	switch raw[0] {
	case '"':
		var token string
		if err := json.Unmarshal(raw, &token); err != nil {
			return nil, reject("decode presentation: %v", err)
		}

		return &input{token: strings.TrimSpace(token)}, nil
	case '{':
		if !json.Valid(raw) {
			return nil, reject("decode presentation: invalid JSON")
		}

		return &input{raw: raw}, nil
	default:
		return &input{token: string(raw)}, nil
	}
}

// controller returns the DID part of a key ID.
func controller(keyID string) string {
	if i := strings.Index(keyID, "#"); i >= 0 {
		return keyID[:i]
	}

	return keyID
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package builder answers proof requests with JWT verifiable presentations built from the holder's credentials.
package builder

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"
	"github.com/google/uuid"
	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/component/models/verifiable"
	"github.com/mitchellh/mapstructure"

	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/protocol/decorator"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/protocol/presentproof"
	"github.com/hyperledger/aries-presentproof-go/pkg/kms"
)

const (
	// SubmissionFormat is the attachment format of the presentations produced by the builder.
	SubmissionFormat = "dif/presentation-exchange/submission@v1.0"

	baseContext    = "https://www.w3.org/2018/credentials/v1"
	submissionCtx  = "https://identity.foundation/presentation-exchange/submission/v1"
	vpType         = "VerifiablePresentation"
	submissionType = "PresentationSubmission"
	jwtType        = "JWT"
)

var logger = log.New("aries-framework/presentation/builder")

// CredentialSource lists the holder's credentials.
type CredentialSource interface {
	GetCredentials() ([]json.RawMessage, error)
}

type provider interface {
	CredentialSource() CredentialSource
	KMS() kms.KeyManager
}

// Builder builds presentations for the present-proof service.
type Builder struct {
	credentials CredentialSource
	kms         kms.KeyManager
	now         func() time.Time
}

// New returns a presentation builder.
func New(p provider) (*Builder, error) {
	b := &Builder{credentials: p.CredentialSource(), kms: p.KMS(), now: time.Now}

	if b.credentials == nil {
		return nil, errors.New("credential source is required")
	}

	if b.kms == nil {
		return nil, errors.New("key manager is required")
	}

	return b, nil
}

type descriptorMap struct {
	ID     string `json:"id"`
	Format string `json:"format"`
	Path   string `json:"path"`
}

type submission struct {
	ID            string           `json:"id"`
	DefinitionID  string           `json:"definition_id,omitempty"`
	DescriptorMap []*descriptorMap `json:"descriptor_map"`
}

// Build answers the proof request in attachment with a presentation signed by subject for verifier.
// A nil payload means the request cannot be satisfied: no credentials match, or subject is not a
// DID this agent holds keys for.
func (b *Builder) Build(_ context.Context, attachment json.RawMessage, subject,
	verifier string) (*presentproof.PresentationPayload, error) {
	req, err := decodeProofRequest(attachment)
	if err != nil {
		return nil, err
	}

	creds, err := b.holderCredentials(subject)
	if err != nil {
		return nil, err
	}

	selected, sub := selectCredentials(req.PresentationDefinition, creds)
	if len(selected) == 0 {
		logger.Infof("no credentials of %s satisfy the request", subject)

		return nil, nil
	}

	priv, keyID, err := b.kms.SigningKey(subject)
	if errors.Is(err, kms.ErrKeyNotFound) {
		logger.Warnf("no signing key for subject %s", subject)

		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("signing key: %w", err)
	}

	vpID := "urn:uuid:" + uuid.New().String()

	vc := make([]interface{}, len(selected))
	for i, c := range selected {
		vc[i] = c
	}

	vp, err := assemble(map[string]interface{}{
		"@context":                []interface{}{baseContext, submissionCtx},
		"type":                    []interface{}{vpType, submissionType},
		"id":                      vpID,
		"holder":                  subject,
		"verifiableCredential":    vc,
		"presentation_submission": sub,
	})
	if err != nil {
		return nil, err
	}

	var opts presentproof.RequestOptions
	if req.Options != nil {
		opts = *req.Options
	}

	token, err := b.sign(priv, keyID, vp, verifier, &opts)
	if err != nil {
		return nil, err
	}

	attachID := uuid.New().String()

	return &presentproof.PresentationPayload{
		Formats: []presentproof.Format{{AttachID: attachID, Format: SubmissionFormat}},
		Attachments: []decorator.Attachment{{
			ID:       attachID,
			MimeType: "application/json",
			Format:   SubmissionFormat,
			Data:     decorator.AttachmentData{Base64: base64.StdEncoding.EncodeToString([]byte(token))},
		}},
	}, nil
}

// assemble checks doc against the presentation data model.
func assemble(doc map[string]interface{}) (*verifiable.Presentation, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal presentation: %w", err)
	}

	vp, err := verifiable.ParsePresentation(raw,
		verifiable.WithPresDisabledProofCheck(),
		verifiable.WithDisabledJSONLDChecks())
	if err != nil {
		return nil, fmt.Errorf("assemble presentation: %w", err)
	}

	return vp, nil
}

func (b *Builder) sign(priv ed25519.PrivateKey, keyID string, vp *verifiable.Presentation, verifier string,
	opts *presentproof.RequestOptions) (string, error) {
	presClaims, err := vp.JWTClaims([]string{verifier}, false)
	if err != nil {
		return "", fmt.Errorf("presentation claims: %w", err)
	}

	now := b.now()
	presClaims.IssuedAt = jwt.NewNumericDate(now)
	presClaims.NotBefore = jwt.NewNumericDate(now)

	raw, err := json.Marshal(presClaims)
	if err != nil {
		return "", fmt.Errorf("marshal presentation claims: %w", err)
	}

	claims := map[string]interface{}{}
	if err = json.Unmarshal(raw, &claims); err != nil {
		return "", fmt.Errorf("unmarshal presentation claims: %w", err)
	}

	if opts.Challenge != "" {
		claims["nonce"] = opts.Challenge
	}

	if opts.Domain != "" {
		claims["domain"] = opts.Domain
	}

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.EdDSA, Key: priv},
		(&jose.SignerOptions{}).WithType(jwtType).WithHeader(jose.HeaderKey("kid"), keyID))
	if err != nil {
		return "", fmt.Errorf("new signer: %w", err)
	}

	token, err := jwt.Signed(signer).Claims(claims).CompactSerialize()
	if err != nil {
		return "", fmt.Errorf("sign presentation: %w", err)
	}

	return token, nil
}

// holderCredentials returns the stored credentials issued to subject. Credentials without a subject id are
// treated as bearer credentials and kept.
func (b *Builder) holderCredentials(subject string) ([]map[string]interface{}, error) {
	raws, err := b.credentials.GetCredentials()
	if err != nil {
		return nil, fmt.Errorf("get credentials: %w", err)
	}

	var creds []map[string]interface{}

	for _, raw := range raws {
		var c map[string]interface{}
		if err := json.Unmarshal(raw, &c); err != nil {
			logger.Warnf("skipping unreadable credential: %v", err)

			continue
		}

		if id := credentialSubjectID(c); id != "" && id != subject {
			continue
		}

		creds = append(creds, c)
	}

	return creds, nil
}

func decodeProofRequest(attachment json.RawMessage) (*presentproof.ProofRequest, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(attachment, &raw); err != nil {
		return nil, fmt.Errorf("decode proof request: %w", err)
	}

	var req presentproof.ProofRequest

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: &req})
	if err != nil {
		return nil, fmt.Errorf("decode proof request: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode proof request: %w", err)
	}

	return &req, nil
}

func credentialSubjectID(c map[string]interface{}) string {
	switch subject := c["credentialSubject"].(type) {
	case map[string]interface{}:
		id, _ := subject["id"].(string) //nolint:errcheck

		return id
	case []interface{}:
		if len(subject) > 0 {
			return credentialSubjectID(map[string]interface{}{"credentialSubject": subject[0]})
		}
	}

	return ""
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presentproof

import (
	"encoding/json"
	"fmt"

	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/common/service"
)

// requestInput is a validated request-presentation message.
type requestInput struct {
	attachment json.RawMessage
	subject    string
	verifier   string
}

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedMessage, fmt.Sprintf(format, args...))
}

func decodeRequest(msg service.DIDCommMsg) (*requestInput, error) {
	var req RequestPresentation

	if err := msg.Decode(&req); err != nil {
		return nil, malformed("decode request-presentation: %v", err)
	}

	if len(req.RequestPresentationsAttach) == 0 {
		return nil, malformed("request_presentations~attach is empty")
	}

	attachment, err := req.RequestPresentationsAttach[0].Data.Fetch()
	if err != nil {
		return nil, malformed("request_presentations~attach: %v", err)
	}

	if msg.To == "" {
		return nil, malformed("subject (to) is empty")
	}

	if msg.From == "" {
		return nil, malformed("verifier (from) is empty")
	}

	return &requestInput{attachment: attachment, subject: msg.To, verifier: msg.From}, nil
}

func decodePresentation(msg service.DIDCommMsg) (json.RawMessage, error) {
	var p Presentation

	if err := msg.Decode(&p); err != nil {
		return nil, malformed("decode presentation: %v", err)
	}

	if len(p.PresentationsAttach) == 0 {
		return nil, malformed("presentations~attach is empty")
	}

	data, err := p.PresentationsAttach[0].Data.Fetch()
	if err != nil {
		return nil, malformed("presentations~attach: %v", err)
	}

	if msg.To == "" {
		return nil, malformed("verifier (to) is empty")
	}

	if msg.From == "" {
		return nil, malformed("subject (from) is empty")
	}

	return data, nil
}

// ChallengeOf extracts the challenge embedded in a request-presentation message.
func ChallengeOf(msg service.DIDCommMsg) (string, error) {
	in, err := decodeRequest(msg)
	if err != nil {
		return "", err
	}

	var pr ProofRequest

	if err = json.Unmarshal(in.attachment, &pr); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMissingChallenge, err)
	}

	if pr.Options == nil || pr.Options.Challenge == "" {
		return "", ErrMissingChallenge
	}

	return pr.Options.Challenge, nil
}

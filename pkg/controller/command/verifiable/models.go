/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifiable

import (
	"encoding/json"

	"github.com/hyperledger/aries-presentproof-go/pkg/store/verifiable"
)

// CredentialExt is model for a holder credential with its name.
type CredentialExt struct {
	// Name of the credential.
	Name string `json:"name,omitempty"`
	// VC is the JSON verifiable credential.
	VC json.RawMessage `json:"vc"`
}

// IDArg model
//
// This is used for querying a credential or a presentation by id.
type IDArg struct {
	ID string `json:"id"`
}

// IDResponse is the id a document was saved under.
type IDResponse struct {
	ID string `json:"id"`
}

// Credential model
//
// This is used to return a credential.
type Credential struct {
	VC json.RawMessage `json:"vc"`
}

// CredentialList is the list of saved credentials.
type CredentialList struct {
	Result []json.RawMessage `json:"result"`
}

// Presentation model
//
// This is used to return a verified presentation.
type Presentation struct {
	VP json.RawMessage `json:"vp"`
}

// RecordResult holds the records of the verified presentations.
type RecordResult struct {
	Result []*verifiable.Record `json:"result"`
}

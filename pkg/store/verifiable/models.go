/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifiable

import (
	"encoding/json"
	"time"
)

// Record model containing name, ID and other fields of interest.
type Record struct {
	Name      string    `json:"name,omitempty"`
	ID        string    `json:"id,omitempty"`
	Context   []string  `json:"context,omitempty"`
	Type      []string  `json:"type,omitempty"`
	SubjectID string    `json:"subjectId,omitempty"`
	SavedTime time.Time `json:"savedTime,omitempty"`
}

// document is the subset of a credential or presentation read when saving it.
type document struct {
	ID                string      `json:"id"`
	Context           interface{} `json:"@context"`
	Type              interface{} `json:"type"`
	Holder            string      `json:"holder"`
	CredentialSubject interface{} `json:"credentialSubject"`
}

type entry struct {
	Record   *Record         `json:"record"`
	Document json.RawMessage `json:"document"`
}

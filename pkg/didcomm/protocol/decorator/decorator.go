/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package decorator

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// Thread thread data.
type Thread struct {
	ID  string `json:"thid,omitempty"`
	PID string `json:"pthid,omitempty"`
}

// Attachment is intended to provide the possibility to include files, links or even JSON payload to the message.
// To find out more please visit https://github.com/hyperledger/aries-rfcs/tree/master/concepts/0017-attachments
type Attachment struct {
	// ID is a JSON-LD construct that uniquely identifies attached content within the scope of a given message.
	ID string `json:"@id,omitempty"`
	// MimeType describes the MIME type of the attached content. Optional but recommended.
	MimeType string `json:"mime-type,omitempty"`
	// Format describes the format of the attachment if the mime-type is not sufficient.
	Format string `json:"format,omitempty"`
	// Data is a JSON object that gives access to the actual content of the attachment.
	Data AttachmentData `json:"data,omitempty"`
}

// AttachmentData contains attachment payload.
type AttachmentData struct {
	// Base64 encoded data, when representing arbitrary content inline instead of via links. Optional.
	Base64 string `json:"base64,omitempty"`
	// JSON is a directly embedded JSON data, when representing content inline instead of via links,
	// and when the content is natively conveyable as JSON. Optional.
	JSON interface{} `json:"json,omitempty"`

	// bare keeps a data object that carries its content directly, without a json or base64 wrapper.
	bare json.RawMessage
}

// wrapperKeys are the data members defined for attachments.
var wrapperKeys = []string{"base64", "json", "links", "sha256", "jws"}

// UnmarshalJSON decodes the attachment data. An object with none of the attachment data members is kept
// as the content itself.
func (d *AttachmentData) UnmarshalJSON(b []byte) error {
	type plain AttachmentData

	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}

	*d = AttachmentData(p)

	var members map[string]json.RawMessage
	if err := json.Unmarshal(b, &members); err != nil || len(members) == 0 {
		return nil //nolint:nilerr
	}

	for _, k := range wrapperKeys {
		if _, ok := members[k]; ok {
			return nil
		}
	}

	d.bare = append(json.RawMessage(nil), b...)

	return nil
}

// MarshalJSON encodes the attachment data, writing bare content back unchanged.
func (d AttachmentData) MarshalJSON() ([]byte, error) {
	if d.JSON == nil && d.Base64 == "" && len(d.bare) > 0 {
		return d.bare, nil
	}

	type plain AttachmentData

	return json.Marshal(plain(d))
}

// Fetch attachment's contents as raw JSON bytes.
func (d *AttachmentData) Fetch() ([]byte, error) {
	if d.JSON != nil {
		bits, err := json.Marshal(d.JSON)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal json contents: %w", err)
		}

		return bits, nil
	}

	if d.Base64 != "" {
		bits, err := base64.StdEncoding.DecodeString(d.Base64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 contents: %w", err)
		}

		return bits, nil
	}

	if len(d.bare) > 0 {
		return d.bare, nil
	}

	return nil, errors.New("no contents in this attachment")
}

// NewJSONAttachment returns an attachment embedding the given raw JSON document.
func NewJSONAttachment(id, format string, doc json.RawMessage) Attachment {
	return Attachment{
		ID:       id,
		MimeType: "application/json",
		Format:   format,
		Data:     AttachmentData{JSON: doc},
	}
}

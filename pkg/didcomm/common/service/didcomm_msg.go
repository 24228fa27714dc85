/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrEmptyBody is returned when decoding a message that carries no body.
var ErrEmptyBody = errors.New("message body is empty")

// DIDCommMsg is a received or sent unit of protocol communication.
type DIDCommMsg struct {
	// ID is assigned by the sender and is unique within a thread.
	ID string `json:"id"`
	// Type determines which handler accepts the message.
	Type string `json:"type"`
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
	// ThreadID links a reply to the message it answers.
	ThreadID    string          `json:"thid,omitempty"`
	CreatedTime *time.Time      `json:"created_time,omitempty"`
	Body        json.RawMessage `json:"body,omitempty"`
}

// NewDIDCommMsg creates a message with the given body marshalled as JSON.
func NewDIDCommMsg(id, msgType, from, to string, body interface{}) (*DIDCommMsg, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}

	now := time.Now().UTC()

	return &DIDCommMsg{
		ID:          id,
		Type:        msgType,
		From:        from,
		To:          to,
		CreatedTime: &now,
		Body:        raw,
	}, nil
}

// Decode unmarshals the message body into v.
func (m DIDCommMsg) Decode(v interface{}) error {
	if len(m.Body) == 0 {
		return ErrEmptyBody
	}

	return json.Unmarshal(m.Body, v)
}

// Clone returns a deep copy of the message.
func (m DIDCommMsg) Clone() DIDCommMsg {
	c := m

	if m.Body != nil {
		c.Body = append(json.RawMessage(nil), m.Body...)
	}

	if m.CreatedTime != nil {
		t := *m.CreatedTime
		c.CreatedTime = &t
	}

	return c
}

/*
 *
 * Copyright SecureKey Technologies Inc. All Rights Reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 * /
 *
 */

package basic

import "time"

// Message is a basic message exchanged between agents alongside the present-proof protocol,
// see https://github.com/hyperledger/aries-rfcs/tree/master/features/0095-basic-message.
type Message struct {
	ID       string        `json:"@id,omitempty"`
	L10n     *Localization `json:"~l10n,omitempty"`
	SentTime time.Time     `json:"sent_time,omitempty"`
	Content  string        `json:"content"`
}

// Localization is the ~l10n decorator of a basic message.
type Localization struct {
	Locale string `json:"locale"`
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package command

import (
	"encoding/json"
	"io"

	"github.com/hyperledger/aries-framework-go/spi/log"
)

// WriteNillableResponse writes v to w as a JSON line, or {} when v is nil.
// Failures are only logged since the command outcome is already decided.
func WriteNillableResponse(w io.Writer, v interface{}, l log.Logger) {
	if v == nil {
		v = struct{}{}
	}

	payload, err := json.Marshal(v)
	if err != nil {
		l.Errorf("marshal command response: %s", err)

		return
	}

	if _, err = w.Write(append(payload, '\n')); err != nil {
		l.Errorf("write command response: %s", err)
	}
}

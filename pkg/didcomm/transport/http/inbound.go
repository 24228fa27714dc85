/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package http

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/pkg/errors"

	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/transport"
)

// maxPayloadSize bounds inbound envelopes.
const maxPayloadSize = 1 << 20

var logger = log.New("aries-framework/http")

// NewInboundHandler will create a new handler to enforce Did-Comm HTTP transport specs
// then routes processing to the mandatory 'msgHandler' argument. Only envelopes whose content type is one of
// mediaTypes are accepted.
//
// Arguments:
//   - 'msgHandler' is the handler function that will be executed with the inbound request payload.
//     Users of this library must manage the handling of all inbound payloads in this function.
func NewInboundHandler(msgHandler transport.InboundMessageHandler, mediaTypes ...string) (http.Handler, error) {
	if msgHandler == nil {
		logger.Errorf("Error creating a new inbound handler: message handler function is nil")

		return nil, errors.New("creating inbound handler: message handler function is nil")
	}

	if len(mediaTypes) == 0 {
		return nil, errors.New("creating inbound handler: at least one media type is required")
	}

	accepted := make(map[string]struct{}, len(mediaTypes))
	for _, mt := range mediaTypes {
		accepted[mt] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		processPOSTRequest(w, r, accepted, msgHandler)
	}), nil
}

func processPOSTRequest(w http.ResponseWriter, r *http.Request, accepted map[string]struct{},
	messageHandler transport.InboundMessageHandler) {
	mediaType, valid := validateHTTPMethod(w, r, accepted)
	if !valid {
		return
	}

	if valid := validatePayload(r, w); !valid {
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadSize+1))
	if err != nil {
		logger.Errorf("Error reading request body: %s - returning Code: %d", err, http.StatusInternalServerError)
		http.Error(w, "Failed to read payload", http.StatusInternalServerError)

		return
	}

	if len(body) > maxPayloadSize {
		http.Error(w, "Payload too large", http.StatusRequestEntityTooLarge)

		return
	}

	if len(body) == 0 {
		http.Error(w, "Empty payload", http.StatusBadRequest)

		return
	}

	w.WriteHeader(http.StatusAccepted)

	go func() {
		if err := messageHandler(context.Background(), body, mediaType); err != nil {
			logger.Errorf("incoming msg processing failed: %v", err)
		}
	}()
}

// validatePayload validate and get the payload from the request.
func validatePayload(r *http.Request, w http.ResponseWriter) bool {
	if r.ContentLength == 0 { // empty payload should not be accepted
		http.Error(w, "Empty payload", http.StatusBadRequest)

		return false
	}

	return true
}

// validateHTTPMethod validate HTTP method and content-type.
func validateHTTPMethod(w http.ResponseWriter, r *http.Request, accepted map[string]struct{}) (string, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "HTTP Method not allowed", http.StatusMethodNotAllowed)

		return "", false
	}

	ct := r.Header.Get("Content-type")

	mediaType, _, err := mime.ParseMediaType(ct)
	if err == nil {
		if _, ok := accepted[mediaType]; ok {
			return mediaType, true
		}
	}

	http.Error(w, fmt.Sprintf("Unsupported Content-type \"%s\"", ct), http.StatusUnsupportedMediaType)

	return "", false
}

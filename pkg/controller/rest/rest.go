/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-presentproof-go/pkg/controller/command"
)

var logger = log.New("aries-framework/controller/rest")

// Handler http handler for each controller API endpoint.
type Handler interface {
	Path() string
	Method() string
	Handle() http.HandlerFunc
}

// genericErrorBody is the body of every error response.
type genericErrorBody struct {
	Code    command.Code `json:"code,omitempty"`
	Message string       `json:"message,omitempty"`
}

// Execute executes given command with args provided and writes the result or the error to rw.
func Execute(exec command.Exec, rw http.ResponseWriter, req io.Reader) {
	var buf bytes.Buffer

	if err := exec(&buf, req); err != nil {
		SendError(rw, err)
		return
	}

	rw.Header().Set("Content-Type", "application/json")

	if _, err := rw.Write(buf.Bytes()); err != nil {
		logger.Errorf("Unable to send response, %s", err)
	}
}

// SendError sends a command error as a http response, the status follows the error type.
func SendError(rw http.ResponseWriter, err command.Error) {
	var status int

	switch err.Type() {
	case command.ValidationError:
		status = http.StatusBadRequest
	case command.NotFoundError:
		status = http.StatusNotFound
	default:
		status = http.StatusInternalServerError
	}

	SendHTTPStatusError(rw, status, err.Code(), err)
}

// SendHTTPStatusError sends given http status code to response with error body.
func SendHTTPStatusError(rw http.ResponseWriter, httpStatus int, code command.Code, err error) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(httpStatus)

	e := json.NewEncoder(rw).Encode(genericErrorBody{
		Code:    code,
		Message: err.Error(),
	})
	if e != nil {
		logger.Errorf("Unable to send error response, %s", e)
	}
}

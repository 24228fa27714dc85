/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifiable

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hyperledger/aries-presentproof-go/pkg/controller/command"
	"github.com/hyperledger/aries-presentproof-go/pkg/controller/command/verifiable"
	"github.com/hyperledger/aries-presentproof-go/pkg/controller/internal/cmdutil"
	"github.com/hyperledger/aries-presentproof-go/pkg/controller/rest"
)

const (
	verifiableOperationID      = "/verifiable"
	verifiableCredentialPath   = verifiableOperationID + "/credential"
	getCredentialPath          = verifiableCredentialPath + "/{id}"
	getCredentialsPath         = verifiableOperationID + "/credentials"
	verifiablePresentationPath = verifiableOperationID + "/presentation"
	getPresentationPath        = verifiablePresentationPath + "/{id}"
	getPresentationsPath       = verifiableOperationID + "/presentations"
)

// Operation contains basic common operations provided by controller REST API.
type Operation struct {
	handlers []rest.Handler
	command  *verifiable.Command
}

// New returns new verifiable operations rest client instance.
func New(cmd *verifiable.Command) *Operation {
	o := &Operation{command: cmd}
	o.registerHandler()

	return o
}

// GetRESTHandlers get all controller API handler available for this service.
func (o *Operation) GetRESTHandlers() []rest.Handler {
	return o.handlers
}

func (o *Operation) registerHandler() {
	o.handlers = []rest.Handler{
		cmdutil.NewHTTPHandler(verifiableCredentialPath, http.MethodPost, o.SaveCredential),
		cmdutil.NewHTTPHandler(getCredentialPath, http.MethodGet, o.GetCredential),
		cmdutil.NewHTTPHandler(getCredentialsPath, http.MethodGet, o.GetCredentials),
		cmdutil.NewHTTPHandler(getPresentationPath, http.MethodGet, o.GetPresentation),
		cmdutil.NewHTTPHandler(getPresentationsPath, http.MethodGet, o.GetPresentations),
	}
}

// SaveCredential swagger:route POST /verifiable/credential verifiable saveCredentialReq
//
// Saves a holder credential.
//
// Responses:
//    default: genericError
//        200: idRes
func (o *Operation) SaveCredential(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.SaveCredential, rw, req.Body)
}

// GetCredential swagger:route GET /verifiable/credential/{id} verifiable getCredentialReq
//
// Retrieves the credential, the id is base64url encoded.
//
// Responses:
//    default: genericError
//        200: credentialRes
func (o *Operation) GetCredential(rw http.ResponseWriter, req *http.Request) {
	o.executeByID(o.command.GetCredential, rw, req)
}

// GetCredentials swagger:route GET /verifiable/credentials verifiable getCredentials
//
// Retrieves every saved credential.
//
// Responses:
//    default: genericError
//        200: credentialListRes
func (o *Operation) GetCredentials(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.GetCredentials, rw, req.Body)
}

// GetPresentation swagger:route GET /verifiable/presentation/{id} verifiable getPresentationReq
//
// Retrieves a verified presentation, the id is base64url encoded.
//
// Responses:
//    default: genericError
//        200: presentationRes
func (o *Operation) GetPresentation(rw http.ResponseWriter, req *http.Request) {
	o.executeByID(o.command.GetPresentation, rw, req)
}

// GetPresentations swagger:route GET /verifiable/presentations verifiable getPresentations
//
// Retrieves the records of every verified presentation.
//
// Responses:
//    default: genericError
//        200: presentationRecordsRes
func (o *Operation) GetPresentations(rw http.ResponseWriter, req *http.Request) {
	rest.Execute(o.command.GetPresentations, rw, req.Body)
}

func (o *Operation) executeByID(exec command.Exec, rw http.ResponseWriter, req *http.Request) {
	id, err := base64.RawURLEncoding.DecodeString(mux.Vars(req)["id"])
	if err != nil {
		rest.SendHTTPStatusError(rw, http.StatusBadRequest, verifiable.InvalidRequestErrorCode,
			fmt.Errorf("decode id: %w", err))

		return
	}

	request, err := json.Marshal(&verifiable.IDArg{ID: string(id)})
	if err != nil {
		rest.SendHTTPStatusError(rw, http.StatusBadRequest, verifiable.InvalidRequestErrorCode, err)

		return
	}

	rest.Execute(exec, rw, bytes.NewBuffer(request))
}

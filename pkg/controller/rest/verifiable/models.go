/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifiable

import (
	"github.com/hyperledger/aries-presentproof-go/pkg/controller/command/verifiable"
)

// saveCredentialReq model
//
// This is used to save a holder credential.
//
// swagger:parameters saveCredentialReq
type saveCredentialReq struct { // nolint: unused,deadcode
	// in: body
	Params verifiable.CredentialExt
}

// getCredentialReq model
//
// swagger:parameters getCredentialReq
type getCredentialReq struct { // nolint: unused,deadcode
	// base64url encoded credential id
	//
	// in: path
	// required: true
	ID string `json:"id"`
}

// getPresentationReq model
//
// swagger:parameters getPresentationReq
type getPresentationReq struct { // nolint: unused,deadcode
	// base64url encoded presentation id
	//
	// in: path
	// required: true
	ID string `json:"id"`
}

// idRes model
//
// swagger:response idRes
type idRes struct { // nolint: unused,deadcode
	// in: body
	verifiable.IDResponse
}

// credentialRes model
//
// swagger:response credentialRes
type credentialRes struct { // nolint: unused,deadcode
	// in: body
	verifiable.Credential
}

// credentialListRes model
//
// swagger:response credentialListRes
type credentialListRes struct { // nolint: unused,deadcode
	// in: body
	verifiable.CredentialList
}

// presentationRes model
//
// swagger:response presentationRes
type presentationRes struct { // nolint: unused,deadcode
	// in: body
	verifiable.Presentation
}

// presentationRecordsRes model
//
// swagger:response presentationRecordsRes
type presentationRecordsRes struct { // nolint: unused,deadcode
	// in: body
	verifiable.RecordResult
}

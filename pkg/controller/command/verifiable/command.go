/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifiable

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-presentproof-go/pkg/controller/command"
	"github.com/hyperledger/aries-presentproof-go/pkg/controller/internal/cmdutil"
	"github.com/hyperledger/aries-presentproof-go/pkg/internal/logutil"
	"github.com/hyperledger/aries-presentproof-go/pkg/store/verifiable"
)

var logger = log.New("aries-framework/controller/verifiable")

// Error codes.
const (
	// InvalidRequestErrorCode is typically a code for invalid requests.
	InvalidRequestErrorCode = command.Code(iota + command.VC)

	// SaveCredentialErrorCode for save vc error.
	SaveCredentialErrorCode

	// GetCredentialErrorCode for get vc error.
	GetCredentialErrorCode

	// GetCredentialsErrorCode for get all vcs error.
	GetCredentialsErrorCode

	// GetPresentationErrorCode for get vp error.
	GetPresentationErrorCode

	// GetPresentationsErrorCode for get all vps error.
	GetPresentationsErrorCode
)

const (
	// CommandName command name.
	CommandName = "verifiable"

	// command methods.
	saveCredentialCommandMethod   = "SaveCredential"
	getCredentialCommandMethod    = "GetCredential"
	getCredentialsCommandMethod   = "GetCredentials"
	getPresentationCommandMethod  = "GetPresentation"
	getPresentationsCommandMethod = "GetPresentations"

	// error messages.
	errEmptyCredential = "credential is mandatory"
	errEmptyID         = "id is mandatory"

	// log constants.
	vcID = "vcID"
	vpID = "vpID"
)

// Command contains command operations provided by verifiable credential controller.
type Command struct {
	store *verifiable.Store
}

// New returns new verifiable credential controller command instance.
func New(store *verifiable.Store) (*Command, error) {
	if store == nil {
		return nil, errors.New("verifiable store is required")
	}

	return &Command{store: store}, nil
}

// GetHandlers returns list of all commands supported by this controller command.
func (o *Command) GetHandlers() []command.Handler {
	return []command.Handler{
		cmdutil.NewCommandHandler(CommandName, saveCredentialCommandMethod, o.SaveCredential),
		cmdutil.NewCommandHandler(CommandName, getCredentialCommandMethod, o.GetCredential),
		cmdutil.NewCommandHandler(CommandName, getCredentialsCommandMethod, o.GetCredentials),
		cmdutil.NewCommandHandler(CommandName, getPresentationCommandMethod, o.GetPresentation),
		cmdutil.NewCommandHandler(CommandName, getPresentationsCommandMethod, o.GetPresentations),
	}
}

// SaveCredential saves a holder credential, it is a candidate for every presentation built afterwards.
func (o *Command) SaveCredential(rw io.Writer, req io.Reader) command.Error {
	request := &CredentialExt{}

	if err := json.NewDecoder(req).Decode(request); err != nil {
		logutil.LogInfo(logger, CommandName, saveCredentialCommandMethod, "request decode : "+err.Error())

		return command.NewValidationError(InvalidRequestErrorCode, fmt.Errorf("request decode : %w", err))
	}

	if len(request.VC) == 0 {
		logutil.LogDebug(logger, CommandName, saveCredentialCommandMethod, errEmptyCredential)

		return command.NewValidationError(InvalidRequestErrorCode, errors.New(errEmptyCredential))
	}

	id, err := o.store.SaveCredential(request.Name, request.VC)
	if err != nil {
		logutil.LogError(logger, CommandName, saveCredentialCommandMethod, "save vc : "+err.Error())

		return command.NewExecuteError(SaveCredentialErrorCode, fmt.Errorf("save vc : %w", err))
	}

	command.WriteNillableResponse(rw, &IDResponse{ID: id}, logger)

	logutil.LogDebug(logger, CommandName, saveCredentialCommandMethod, "success",
		logutil.CreateKeyValueString(vcID, id))

	return nil
}

// GetCredential retrieves the credential saved under the given id.
func (o *Command) GetCredential(rw io.Writer, req io.Reader) command.Error {
	id, cmdErr := decodeID(req, getCredentialCommandMethod)
	if cmdErr != nil {
		return cmdErr
	}

	vc, err := o.store.GetCredential(id)
	if err != nil {
		logutil.LogError(logger, CommandName, getCredentialCommandMethod, "get vc : "+err.Error(),
			logutil.CreateKeyValueString(vcID, id))

		return lookupError(GetCredentialErrorCode, fmt.Errorf("get vc : %w", err))
	}

	command.WriteNillableResponse(rw, &Credential{VC: vc}, logger)

	return nil
}

// GetCredentials retrieves every saved credential.
func (o *Command) GetCredentials(rw io.Writer, _ io.Reader) command.Error {
	vcs, err := o.store.GetCredentials()
	if err != nil {
		logutil.LogError(logger, CommandName, getCredentialsCommandMethod, "get credentials : "+err.Error())

		return command.NewExecuteError(GetCredentialsErrorCode, fmt.Errorf("get credentials : %w", err))
	}

	command.WriteNillableResponse(rw, &CredentialList{Result: vcs}, logger)

	return nil
}

// GetPresentation retrieves the verified presentation saved under the given id.
func (o *Command) GetPresentation(rw io.Writer, req io.Reader) command.Error {
	id, cmdErr := decodeID(req, getPresentationCommandMethod)
	if cmdErr != nil {
		return cmdErr
	}

	vp, err := o.store.GetPresentation(id)
	if err != nil {
		logutil.LogError(logger, CommandName, getPresentationCommandMethod, "get vp : "+err.Error(),
			logutil.CreateKeyValueString(vpID, id))

		return lookupError(GetPresentationErrorCode, fmt.Errorf("get vp : %w", err))
	}

	command.WriteNillableResponse(rw, &Presentation{VP: vp}, logger)

	return nil
}

// GetPresentations retrieves the records of every verified presentation.
func (o *Command) GetPresentations(rw io.Writer, _ io.Reader) command.Error {
	records, err := o.store.GetPresentations()
	if err != nil {
		logutil.LogError(logger, CommandName, getPresentationsCommandMethod, "get presentation records : "+err.Error())

		return command.NewExecuteError(GetPresentationsErrorCode, fmt.Errorf("get presentation records : %w", err))
	}

	command.WriteNillableResponse(rw, &RecordResult{Result: records}, logger)

	return nil
}

func lookupError(code command.Code, err error) command.Error {
	if errors.Is(err, verifiable.ErrNotFound) {
		return command.NewNotFoundError(code, err)
	}

	return command.NewExecuteError(code, err)
}

func decodeID(req io.Reader, method string) (string, command.Error) {
	var request IDArg

	if err := json.NewDecoder(req).Decode(&request); err != nil {
		logutil.LogInfo(logger, CommandName, method, "request decode : "+err.Error())

		return "", command.NewValidationError(InvalidRequestErrorCode, fmt.Errorf("request decode : %w", err))
	}

	if request.ID == "" {
		logutil.LogDebug(logger, CommandName, method, errEmptyID)

		return "", command.NewValidationError(InvalidRequestErrorCode, errors.New(errEmptyID))
	}

	return request.ID, nil
}

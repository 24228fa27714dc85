/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presentproof

import "github.com/hyperledger/aries-presentproof-go/pkg/didcomm/protocol/decorator"

// ProposePresentation is an optional message sent by the Prover to the verifier to initiate a proof
// presentation process, or in response to a request-presentation message when the Prover wants to
// propose using a different presentation format.
type ProposePresentation struct {
	ID   string `json:"@id,omitempty"`
	Type string `json:"@type,omitempty"`
	// Comment is a field that provides some human readable information about the proposed presentation.
	Comment string `json:"comment,omitempty"`
	// Formats contains an entry for each proposals~attach array entry.
	Formats []Format `json:"formats,omitempty"`
	// ProposalsAttach is an array of attachments that further define the presentation request being proposed.
	ProposalsAttach []decorator.Attachment `json:"proposals~attach,omitempty"`
}

// RequestPresentation describes values that need to be revealed and predicates that need to be fulfilled.
type RequestPresentation struct {
	ID   string `json:"@id,omitempty"`
	Type string `json:"@type,omitempty"`
	// Comment is a field that provides some human readable information about the proposed presentation.
	Comment string `json:"comment,omitempty"`
	// WillConfirm is a field that defaults to "false" to indicate that the verifier will or will not
	// send a post-presentation confirmation ack message.
	WillConfirm bool `json:"will_confirm,omitempty"`
	// Formats contains an entry for each request_presentations~attach array entry.
	Formats []Format `json:"formats,omitempty"`
	// RequestPresentationsAttach is an array of attachments containing the acceptable verifiable presentation
	// requests.
	RequestPresentationsAttach []decorator.Attachment `json:"request_presentations~attach,omitempty"`
}

// Presentation is a response to a RequestPresentation message and contains signed presentations.
type Presentation struct {
	ID   string `json:"@id,omitempty"`
	Type string `json:"@type,omitempty"`
	// Comment is a field that provides some human readable information about the proposed presentation.
	Comment string `json:"comment,omitempty"`
	// Formats contains an entry for each presentations~attach array entry.
	Formats []Format `json:"formats,omitempty"`
	// PresentationsAttach an array of attachments containing the presentation in the requested format(s).
	PresentationsAttach []decorator.Attachment `json:"presentations~attach,omitempty"`
}

// Format contains the value of the attachment @id and the verifiable credential format of the attachment.
type Format struct {
	AttachID string `json:"attach_id,omitempty"`
	Format   string `json:"format,omitempty"`
}

// ProofRequest is the content of a request-presentation attachment.
type ProofRequest struct {
	Options                *RequestOptions         `json:"options,omitempty"`
	PresentationDefinition *PresentationDefinition `json:"presentation_definition,omitempty"`
}

// RequestOptions binds a presentation to the request that asked for it.
type RequestOptions struct {
	// Challenge is the nonce the presentation proof must carry.
	Challenge string `json:"challenge,omitempty"`
	Domain    string `json:"domain,omitempty"`
}

// PresentationDefinition describes the credentials a verifier asks for.
type PresentationDefinition struct {
	ID               string             `json:"id,omitempty"`
	Name             string             `json:"name,omitempty"`
	Purpose          string             `json:"purpose,omitempty"`
	InputDescriptors []*InputDescriptor `json:"input_descriptors,omitempty"`
}

// InputDescriptor describes one requested credential.
type InputDescriptor struct {
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name,omitempty"`
	Purpose     string       `json:"purpose,omitempty"`
	Constraints *Constraints `json:"constraints,omitempty"`
}

// Constraints holds the field constraints of an input descriptor.
type Constraints struct {
	Fields []*Field `json:"fields,omitempty"`
}

// Field is a JSONPath constraint a credential must satisfy. When Filter.Const is set the value found at one
// of the paths must equal it.
type Field struct {
	Path   []string     `json:"path,omitempty"`
	Filter *FieldFilter `json:"filter,omitempty"`
}

// FieldFilter constrains the value selected by a Field.
type FieldFilter struct {
	Type  string      `json:"type,omitempty"`
	Const interface{} `json:"const,omitempty"`
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presentproof

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/common/service"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/protocol/decorator"
)

// DefinitionsFormat is the attachment format of outbound request-presentation messages.
const DefinitionsFormat = "dif/presentation-exchange/definitions@v1.0"

// SendRequestPresentation asks subject for a presentation on behalf of verifier. A challenge is generated
// when req carries none. The request is persisted before it is dispatched so that the presentation
// answering it can be correlated.
func (s *Service) SendRequestPresentation(ctx context.Context, verifier, subject string,
	req *ProofRequest) (*service.DIDCommMsg, error) {
	if verifier == "" || subject == "" {
		return nil, errors.New("verifier and subject are required")
	}

	pr := ProofRequest{Options: &RequestOptions{}}
	if req != nil {
		pr.PresentationDefinition = req.PresentationDefinition

		if req.Options != nil {
			*pr.Options = *req.Options
		}
	}

	if pr.Options.Challenge == "" {
		pr.Options.Challenge = uuid.New().String()
	}

	msgID := uuid.New().String()
	attachID := uuid.New().String()

	msg, err := service.NewDIDCommMsg(msgID, RequestPresentationMsgType, verifier, subject, &RequestPresentation{
		ID:      msgID,
		Type:    RequestPresentationMsgType,
		Formats: []Format{{AttachID: attachID, Format: DefinitionsFormat}},
		RequestPresentationsAttach: []decorator.Attachment{{
			ID:       attachID,
			MimeType: "application/json",
			Format:   DefinitionsFormat,
			Data:     decorator.AttachmentData{JSON: &pr},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("new request-presentation message: %w", err)
	}

	if err = s.store.Persist(ctx, msg); err != nil {
		return nil, fmt.Errorf("persist request-presentation: %w", err)
	}

	packed, err := s.transport.Pack(ctx, msg, s.packing)
	if err != nil {
		return msg, fmt.Errorf("pack request-presentation: %w", err)
	}

	delivery, err := s.transport.Dispatch(ctx, msg.ID, packed, s.packing, msg.To)
	if err != nil {
		return msg, fmt.Errorf("dispatch request-presentation: %w", err)
	}

	go logDelivery(msg.ID, delivery)

	logger.Infof("request-presentation msgID=%s sent to %s", msg.ID, subject)

	return msg, nil
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/common/service"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/packer"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/transport"
)

var logger = log.New("dispatcher/inbound")

const kidSeparator = "#"

// ErrSenderMismatch is returned when a signed envelope was not signed by the message sender.
var ErrSenderMismatch = errors.New("envelope signer is not the message sender")

// MessageService is the chain inbound messages are handed to.
type MessageService interface {
	Handle(ctx context.Context, msg service.DIDCommMsg) (service.DIDCommMsg, service.Result)
}

type provider interface {
	// Unpackers returns the packers able to open inbound envelopes, keyed by envelope media type.
	Unpackers() map[string]packer.Packer
	MessageService() MessageService
}

// MessageHandler handles inbound envelopes, unpacking then dispatching them to the message service chain.
type MessageHandler struct {
	unpackers map[string]packer.Packer
	services  MessageService
}

// NewInboundMessageHandler creates an inbound message handler.
func NewInboundMessageHandler(p provider) (*MessageHandler, error) {
	h := &MessageHandler{unpackers: p.Unpackers(), services: p.MessageService()}

	if len(h.unpackers) == 0 {
		return nil, errors.New("at least one unpacker is required")
	}

	if h.services == nil {
		return nil, errors.New("message service is required")
	}

	return h, nil
}

// MediaTypes returns the envelope media types the handler can open.
func (handler *MessageHandler) MediaTypes() []string {
	types := make([]string, 0, len(handler.unpackers))
	for mt := range handler.unpackers {
		types = append(types, mt)
	}

	return types
}

// HandlerFunc returns the MessageHandler's transport.InboundMessageHandler function.
func (handler *MessageHandler) HandlerFunc() transport.InboundMessageHandler {
	return func(ctx context.Context, envelope []byte, mediaType string) error {
		_, err := handler.HandleInboundEnvelope(ctx, envelope, mediaType)

		return err
	}
}

// HandleInboundEnvelope unpacks an inbound envelope and dispatches its message.
func (handler *MessageHandler) HandleInboundEnvelope(ctx context.Context, envelope []byte,
	mediaType string) (service.Result, error) {
	p, ok := handler.unpackers[mediaType]
	if !ok {
		return service.Result{}, fmt.Errorf("no unpacker for media type %q", mediaType)
	}

	env, err := p.Unpack(envelope)
	if err != nil {
		return service.Result{}, fmt.Errorf("unpack envelope: %w", err)
	}

	var msg service.DIDCommMsg
	if err := json.Unmarshal(env.Message, &msg); err != nil {
		return service.Result{}, fmt.Errorf("invalid payload data format: %w", err)
	}

	if msg.Type == "" {
		return service.Result{}, errors.New("message type is missing")
	}

	if env.FromKey != "" && strings.Split(env.FromKey, kidSeparator)[0] != msg.From {
		return service.Result{}, fmt.Errorf("%w: signer=%s from=%s", ErrSenderMismatch, env.FromKey, msg.From)
	}

	_, result := handler.services.Handle(ctx, msg)

	if !result.Handled {
		logger.Warnf("no message service handled msgID=%s type=%s", msg.ID, msg.Type)

		return result, result.Err
	}

	logger.Debugf("msgID=%s type=%s outcome=%s", msg.ID, msg.Type, result.Outcome)

	return result, nil
}

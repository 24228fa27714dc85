/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package webnotifier

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-presentproof-go/pkg/controller/command"
	"github.com/hyperledger/aries-presentproof-go/pkg/controller/rest"
)

const (
	notificationSendTimeout = 10 * time.Second

	emptyTopicErrMsg     = "cannot notify with an empty topic"
	emptyMessageErrMsg   = "cannot notify with an empty message"
	failedToCreateErrMsg = "failed to create topic message : %w"
)

var logger = log.New("aries-framework/webnotifier")

// WebNotifier fans notifications out to webhook subscribers and websocket clients.
type WebNotifier struct {
	notifiers []command.Notifier
	handlers  []rest.Handler
}

// New returns a WebNotifier posting to webhookURLs and serving websocket clients on wsPath.
func New(wsPath string, webhookURLs []string) *WebNotifier {
	ws := NewWSNotifier(wsPath)

	return &WebNotifier{
		notifiers: []command.Notifier{NewHTTPNotifier(webhookURLs), ws},
		handlers:  ws.GetRESTHandlers(),
	}
}

// Notify sends the topic message to every subscriber.
func (n *WebNotifier) Notify(topic string, message []byte) error {
	var allErrs error

	for _, notifier := range n.notifiers {
		allErrs = appendError(allErrs, notifier.Notify(topic, message))
	}

	return allErrs
}

// GetRESTHandlers returns the websocket endpoint.
func (n *WebNotifier) GetRESTHandlers() []rest.Handler {
	return n.handlers
}

// topicMessage is the envelope every subscriber receives.
type topicMessage struct {
	ID      string          `json:"id"`
	Topic   string          `json:"topic"`
	Message json.RawMessage `json:"message"`
}

// PrepareTopicMessage wraps message in a topic envelope.
func PrepareTopicMessage(topic string, message []byte) ([]byte, error) {
	return json.Marshal(topicMessage{
		ID:      uuid.New().String(),
		Topic:   topic,
		Message: message,
	})
}

func appendError(errs, err error) error {
	if err == nil {
		return errs
	}

	return errors.Join(errs, err)
}

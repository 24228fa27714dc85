/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package webnotifier

import (
	"encoding/json"

	"github.com/hyperledger/aries-presentproof-go/pkg/controller/command"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/common/service"
)

const (
	preState  = "pre_state"
	postState = "post_state"
)

// StateMsg is the notification payload of a protocol state event.
type StateMsg struct {
	ProtocolName string                 `json:"protocol_name"`
	Type         string                 `json:"type"`
	StateID      string                 `json:"state_id"`
	Message      service.DIDCommMsg     `json:"message"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// Observer forwards protocol events to a notifier.
type Observer struct {
	notifier command.Notifier
}

// NewObserver returns an observer notifying through notifier.
func NewObserver(notifier command.Notifier) *Observer {
	return &Observer{notifier: notifier}
}

// RegisterStateMsg notifies topic of every event read from ch until ch is closed.
func (o *Observer) RegisterStateMsg(topic string, ch <-chan service.StateMsg) {
	go func() {
		for msg := range ch {
			o.notify(topic, toStateMsg(msg))
		}
	}()
}

func (o *Observer) notify(topic string, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		logger.Errorf("%s: marshal event: %v", topic, err)
		return
	}

	if err := o.notifier.Notify(topic, payload); err != nil {
		logger.Errorf("%s: notify: %v", topic, err)
	}
}

func toStateMsg(msg service.StateMsg) StateMsg {
	stateType := postState
	if msg.Type == service.PreState {
		stateType = preState
	}

	var props map[string]interface{}
	if msg.Properties != nil {
		props = msg.Properties.All()
	}

	return StateMsg{
		ProtocolName: msg.ProtocolName,
		Type:         stateType,
		StateID:      msg.StateID,
		Message:      msg.Msg.Clone(),
		Properties:   props,
	}
}

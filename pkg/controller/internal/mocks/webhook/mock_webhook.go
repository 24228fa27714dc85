/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package webhook

import "sync"

// Notification is a topic message received by the mock notifier.
type Notification struct {
	Topic   string
	Message []byte
}

// NewMockWebhookNotifier returns mock webhook notifier implementation.
func NewMockWebhookNotifier() *Notifier {
	return &Notifier{received: make(chan Notification, 16)}
}

// Notifier is mock implementation of webhook notifier.
type Notifier struct {
	NotifyFunc func(topic string, message []byte) error
	mu         sync.Mutex
	received   chan Notification
}

// Notify is mock implementation of webhook notifier Notify().
func (n *Notifier) Notify(topic string, message []byte) error {
	n.mu.Lock()
	if n.received != nil {
		select {
		case n.received <- Notification{Topic: topic, Message: message}:
		default:
		}
	}
	n.mu.Unlock()

	if n.NotifyFunc != nil {
		return n.NotifyFunc(topic, message)
	}

	return nil
}

// Received returns the channel of notifications seen so far.
func (n *Notifier) Received() <-chan Notification {
	return n.received
}

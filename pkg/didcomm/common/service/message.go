/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package service

import (
	"errors"
	"sync"
	"time"

	"github.com/hyperledger/aries-framework-go/component/log"
	"golang.org/x/exp/slices"
)

const (
	eventQueueSize   = 256
	eventSendTimeout = 5 * time.Second
)

var logger = log.New("aries-framework/service")

var (
	// ErrNilChannel is returned when a nil channel is registered.
	ErrNilChannel = errors.New("channel is nil")
	// ErrEventQueueFull is returned by Enqueue when the pending events exceed the queue size.
	ErrEventQueueFull = errors.New("state event queue is full")
)

// Message keeps the channels subscribed to the state events of a protocol service.
// The zero value is ready to use and safe for concurrent use.
type Message struct {
	mu     sync.RWMutex
	events []chan<- StateMsg

	once        sync.Once
	queue       chan StateMsg
	sendTimeout time.Duration
}

// MsgEvents returns a snapshot of the subscribed channels.
func (m *Message) MsgEvents() []chan<- StateMsg {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.events)
}

// RegisterMsgEvent subscribes ch to state events. A channel registered twice receives every event twice.
func (m *Message) RegisterMsgEvent(ch chan<- StateMsg) error {
	if ch == nil {
		return ErrNilChannel
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, ch)

	return nil
}

// UnregisterMsgEvent removes every subscription of ch. Unknown channels are ignored.
func (m *Message) UnregisterMsgEvent(ch chan<- StateMsg) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = slices.DeleteFunc(m.events, func(c chan<- StateMsg) bool { return c == ch })

	return nil
}

// Publish delivers msg to every subscribed channel in registration order. A subscriber that does not
// take the event within the send timeout misses it.
func (m *Message) Publish(msg StateMsg) {
	timeout := m.sendTimeout
	if timeout == 0 {
		timeout = eventSendTimeout
	}

	for _, ch := range m.MsgEvents() {
		select {
		case ch <- msg:
			continue
		default:
		}

		timer := time.NewTimer(timeout)

		select {
		case ch <- msg:
		case <-timer.C:
			logger.Warnf("state event %s/%s dropped: subscriber did not receive within %s",
				msg.ProtocolName, msg.StateID, timeout)
		}

		timer.Stop()
	}
}

// Enqueue hands msg to a single background publisher, so events reach subscribers in the order they
// were enqueued without blocking the caller.
func (m *Message) Enqueue(msg StateMsg) error {
	m.once.Do(func() {
		m.queue = make(chan StateMsg, eventQueueSize)

		go func() {
			for msg := range m.queue {
				m.Publish(msg)
			}
		}()
	})

	select {
	case m.queue <- msg:
		return nil
	default:
		return ErrEventQueueFull
	}
}

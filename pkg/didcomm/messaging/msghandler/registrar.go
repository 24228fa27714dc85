/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package msghandler

import (
	"context"
	"fmt"
	"sync"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/common/service"
)

var logger = log.New("aries-framework/msghandler")

// MessageService is a protocol handler that can be put into the handler chain.
type MessageService interface {
	service.Handler
	// Accept reports whether the service is responsible for the given message type.
	Accept(msgType string) bool
	// Name is the unique name of the service within the chain.
	Name() string
}

// Registrar is the ordered chain of message services. The first service reporting a message as handled
// stops the dispatch.
type Registrar struct {
	services []MessageService
	mu       sync.RWMutex
}

// NewRegistrar returns new message registrar instance.
func NewRegistrar() *Registrar {
	return &Registrar{}
}

// Services returns the registered message services in dispatch order.
func (r *Registrar) Services() []MessageService {
	r.mu.RLock()
	defer r.mu.RUnlock()

	svcs := make([]MessageService, len(r.services))
	copy(svcs, r.services)

	return svcs
}

// Register appends the given message services to the chain.
// Fails if a service name is empty or already registered; nothing is registered in that case.
func (r *Registrar) Register(msgServices ...MessageService) error {
	if len(msgServices) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	names := make(map[string]struct{}, len(r.services)+len(msgServices))
	for _, svc := range r.services {
		names[svc.Name()] = struct{}{}
	}

	for _, svc := range msgServices {
		if svc == nil {
			return fmt.Errorf("failed to register message service: nil service")
		}

		if svc.Name() == "" {
			return fmt.Errorf("failed to register message service: empty name")
		}

		if _, ok := names[svc.Name()]; ok {
			return fmt.Errorf("failed to register message service [%s] : %w", svc.Name(), ErrAlreadyRegistered)
		}

		names[svc.Name()] = struct{}{}
	}

	r.services = append(r.services, msgServices...)

	logger.Debugf("registered %d message service(s)", len(msgServices))

	return nil
}

// Unregister removes the message service with the given name from the chain.
func (r *Registrar) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, svc := range r.services {
		if svc.Name() == name {
			r.services = append(r.services[:i], r.services[i+1:]...)

			return nil
		}
	}

	return fmt.Errorf("failed to unregister message service [%s] : %w", name, ErrNotFound)
}

// Handle offers msg to each registered service in order until one handles it. The returned message is msg
// itself so that callers may pass it on unchanged.
func (r *Registrar) Handle(ctx context.Context, msg service.DIDCommMsg) (service.DIDCommMsg, service.Result) {
	for _, svc := range r.Services() {
		if !svc.Accept(msg.Type) {
			continue
		}

		result := svc.Handle(ctx, msg)
		if result.Handled {
			logger.Debugf("msgID=%s type=%s handled by %s: %s", msg.ID, msg.Type, svc.Name(), result.Outcome)

			return msg, result
		}
	}

	logger.Debugf("no message service for msgID=%s type=%s", msg.ID, msg.Type)

	return msg, service.Result{Err: fmt.Errorf("%w: %s", service.ErrNoHandler, msg.Type)}
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package outbound

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bluele/gcache"
	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/common/service"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/dispatcher"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/packer"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/protocol/presentproof"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/transport"
)

const (
	defaultCacheSize     = 1000
	defaultCacheTTL      = 5 * time.Minute
	defaultDeliveryLimit = 30 * time.Second
)

var logger = log.New("aries-framework/didcomm/dispatcher")

// provider interface for outbound ctx.
type provider interface {
	Packers() map[presentproof.PackingMode]packer.Packer
	OutboundTransport() transport.OutboundTransport
	DestinationResolver() dispatcher.DestinationResolver
}

// Opt configures the Dispatcher.
type Opt func(*Dispatcher)

// WithDestinationTTL sets how long resolved destinations are cached.
func WithDestinationTTL(ttl time.Duration) Opt {
	return func(o *Dispatcher) {
		o.destinationTTL = ttl
	}
}

// WithDeliveryTimeout bounds the time spent delivering one message, retries included.
func WithDeliveryTimeout(timeout time.Duration) Opt {
	return func(o *Dispatcher) {
		o.deliveryTimeout = timeout
	}
}

// Dispatcher packs present-proof messages and delivers them to their recipients.
type Dispatcher struct {
	packers         map[presentproof.PackingMode]packer.Packer
	transport       transport.OutboundTransport
	resolver        dispatcher.DestinationResolver
	destinations    gcache.Cache
	destinationTTL  time.Duration
	deliveryTimeout time.Duration
	wg              sync.WaitGroup
}

// NewOutbound return new dispatcher outbound instance.
func NewOutbound(prov provider, opts ...Opt) (*Dispatcher, error) {
	o := &Dispatcher{
		packers:         prov.Packers(),
		transport:       prov.OutboundTransport(),
		resolver:        prov.DestinationResolver(),
		destinationTTL:  defaultCacheTTL,
		deliveryTimeout: defaultDeliveryLimit,
	}

	for _, opt := range opts {
		opt(o)
	}

	switch {
	case len(o.packers) == 0:
		return nil, errors.New("at least one packer is required")
	case o.transport == nil:
		return nil, errors.New("outbound transport is required")
	case o.resolver == nil:
		return nil, errors.New("destination resolver is required")
	}

	o.destinations = gcache.New(defaultCacheSize).LRU().Expiration(o.destinationTTL).
		LoaderFunc(func(key interface{}) (interface{}, error) {
			did, _ := key.(string) //nolint:errcheck

			return o.resolver.Resolve(did)
		}).Build()

	return o, nil
}

// Pack marshals msg and packs it with the packer registered for mode.
func (o *Dispatcher) Pack(_ context.Context, msg *service.DIDCommMsg, mode presentproof.PackingMode) ([]byte, error) {
	p, ok := o.packers[mode]
	if !ok {
		return nil, fmt.Errorf("no packer for packing mode %q", mode)
	}

	req, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed marshal to bytes: %w", err)
	}

	packed, err := p.Pack(req)
	if err != nil {
		return nil, fmt.Errorf("failed to pack msg: %w", err)
	}

	return packed, nil
}

// Dispatch resolves the recipient's endpoint and starts delivering the message packed with mode in the
// background. The returned channel receives the delivery result once and is then closed.
func (o *Dispatcher) Dispatch(ctx context.Context, msgID string, packed []byte, mode presentproof.PackingMode,
	recipient string) (<-chan error, error) {
	p, ok := o.packers[mode]
	if !ok {
		return nil, fmt.Errorf("no packer for packing mode %q", mode)
	}

	dest, err := o.destinations.Get(recipient)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve destination for %s: %w", recipient, err)
	}

	d, ok := dest.(*dispatcher.Destination)
	if !ok || d == nil {
		return nil, fmt.Errorf("failed to resolve destination for %s", recipient)
	}

	endpoint, mt := d.ServiceEndpoint, p.EncodingType()

	delivered := make(chan error, 1)

	o.wg.Add(1)

	go func() {
		defer o.wg.Done()
		defer close(delivered)

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.deliveryTimeout)
		defer cancel()

		err := o.transport.Send(sendCtx, packed, endpoint, mt)
		if err != nil {
			logger.Errorf("failed to send msgID=%s to [%s]: %v", msgID, endpoint, err)

			err = fmt.Errorf("failed to send msg using outbound transport: %w", err)
		}

		delivered <- err
	}()

	return delivered, nil
}

// Wait blocks until the deliveries in flight are over.
func (o *Dispatcher) Wait() {
	o.wg.Wait()
}

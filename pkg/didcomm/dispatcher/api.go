/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package dispatcher

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownDestination is returned when no endpoint is known for a DID.
var ErrUnknownDestination = errors.New("unknown destination")

// Destination is where messages for a DID are delivered.
type Destination struct {
	ServiceEndpoint string
}

// DestinationResolver resolves the delivery destination of a DID.
type DestinationResolver interface {
	Resolve(did string) (*Destination, error)
}

// StaticResolver resolves destinations from a fixed DID to endpoint table.
type StaticResolver struct {
	endpoints map[string]string
	mu        sync.RWMutex
}

// NewStaticResolver returns a resolver serving the given DID to endpoint table.
func NewStaticResolver(endpoints map[string]string) *StaticResolver {
	r := &StaticResolver{endpoints: make(map[string]string, len(endpoints))}

	for did, endpoint := range endpoints {
		r.endpoints[did] = endpoint
	}

	return r
}

// Add sets the endpoint of did.
func (r *StaticResolver) Add(did, endpoint string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.endpoints[did] = endpoint
}

// Resolve returns the destination of did.
func (r *StaticResolver) Resolve(did string) (*Destination, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	endpoint, ok := r.endpoints[did]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDestination, did)
	}

	return &Destination{ServiceEndpoint: endpoint}, nil
}

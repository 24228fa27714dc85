/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package context creates a framework Provider context holding the agent services and provides
// simple accessor methods to those same services.
package context

import (
	"fmt"

	"github.com/hyperledger/aries-framework-go/spi/storage"

	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/dispatcher"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/dispatcher/inbound"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/packer"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/protocol/presentproof"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/transport"
	"github.com/hyperledger/aries-presentproof-go/pkg/kms"
	"github.com/hyperledger/aries-presentproof-go/pkg/presentation/builder"
)

// Provider supplies the framework configuration to client objects.
type Provider struct {
	storeProvider       storage.Provider
	kms                 kms.KeyManager
	credentialSource    builder.CredentialSource
	packers             map[presentproof.PackingMode]packer.Packer
	unpackers           map[string]packer.Packer
	outboundTransport   transport.OutboundTransport
	destinationResolver dispatcher.DestinationResolver
	presentationBuilder presentproof.PresentationBuilder
	transport           presentproof.Transport
	correlationStore    presentproof.CorrelationStore
	verifier            presentproof.Verifier
	messageService      inbound.MessageService
}

// ProviderOption configures the framework.
type ProviderOption func(opts *Provider) error

// New instantiates a new context provider.
func New(opts ...ProviderOption) (*Provider, error) {
	ctxProvider := Provider{}

	for _, opt := range opts {
		err := opt(&ctxProvider)
		if err != nil {
			return nil, fmt.Errorf("option failed: %w", err)
		}
	}

	return &ctxProvider, nil
}

// StorageProvider return a storage provider.
func (p *Provider) StorageProvider() storage.Provider {
	return p.storeProvider
}

// KMS returns a Key Management Service.
func (p *Provider) KMS() kms.KeyManager {
	return p.kms
}

// CredentialSource returns the holder's credentials.
func (p *Provider) CredentialSource() builder.CredentialSource {
	return p.credentialSource
}

// Packers returns the outbound packers keyed by packing mode.
func (p *Provider) Packers() map[presentproof.PackingMode]packer.Packer {
	return p.packers
}

// Unpackers returns the packers keyed by the media type of the envelopes they open.
func (p *Provider) Unpackers() map[string]packer.Packer {
	unpackers := make(map[string]packer.Packer, len(p.unpackers))
	for mt, u := range p.unpackers {
		unpackers[mt] = u
	}

	return unpackers
}

// OutboundTransport returns the outbound transport.
func (p *Provider) OutboundTransport() transport.OutboundTransport {
	return p.outboundTransport
}

// DestinationResolver returns the resolver of peer endpoints.
func (p *Provider) DestinationResolver() dispatcher.DestinationResolver {
	return p.destinationResolver
}

// PresentationBuilder returns the presentation builder.
func (p *Provider) PresentationBuilder() presentproof.PresentationBuilder {
	return p.presentationBuilder
}

// Transport returns the outbound dispatcher used by protocol services.
func (p *Provider) Transport() presentproof.Transport {
	return p.transport
}

// CorrelationStore returns the store of exchanged messages.
func (p *Provider) CorrelationStore() presentproof.CorrelationStore {
	return p.correlationStore
}

// Verifier returns the presentation verifier.
func (p *Provider) Verifier() presentproof.Verifier {
	return p.verifier
}

// MessageService returns the chain of message services inbound messages are handed to.
func (p *Provider) MessageService() inbound.MessageService {
	return p.messageService
}

// WithStorageProvider injects a storage provider into the context.
func WithStorageProvider(s storage.Provider) ProviderOption {
	return func(opts *Provider) error {
		opts.storeProvider = s
		return nil
	}
}

// WithKMS injects a KMS service into the context.
func WithKMS(k kms.KeyManager) ProviderOption {
	return func(opts *Provider) error {
		opts.kms = k
		return nil
	}
}

// WithCredentialSource injects the holder's credential source into the context.
func WithCredentialSource(c builder.CredentialSource) ProviderOption {
	return func(opts *Provider) error {
		opts.credentialSource = c
		return nil
	}
}

// WithPackers injects the outbound packers into the context and registers each of them as an unpacker
// of its encoding type.
func WithPackers(packers map[presentproof.PackingMode]packer.Packer) ProviderOption {
	return func(opts *Provider) error {
		opts.packers = packers
		opts.unpackers = make(map[string]packer.Packer, len(packers))

		for mode, p := range packers {
			if p == nil {
				return fmt.Errorf("nil packer for packing mode %q", mode)
			}

			opts.unpackers[p.EncodingType()] = p
		}

		return nil
	}
}

// WithOutboundTransport injects an outbound transport into the context.
func WithOutboundTransport(t transport.OutboundTransport) ProviderOption {
	return func(opts *Provider) error {
		opts.outboundTransport = t
		return nil
	}
}

// WithDestinationResolver injects a destination resolver into the context.
func WithDestinationResolver(r dispatcher.DestinationResolver) ProviderOption {
	return func(opts *Provider) error {
		opts.destinationResolver = r
		return nil
	}
}

// WithPresentationBuilder injects a presentation builder into the context.
func WithPresentationBuilder(b presentproof.PresentationBuilder) ProviderOption {
	return func(opts *Provider) error {
		opts.presentationBuilder = b
		return nil
	}
}

// WithTransport injects the outbound dispatcher used by protocol services into the context.
func WithTransport(t presentproof.Transport) ProviderOption {
	return func(opts *Provider) error {
		opts.transport = t
		return nil
	}
}

// WithCorrelationStore injects a correlation store into the context.
func WithCorrelationStore(s presentproof.CorrelationStore) ProviderOption {
	return func(opts *Provider) error {
		opts.correlationStore = s
		return nil
	}
}

// WithVerifier injects a presentation verifier into the context.
func WithVerifier(v presentproof.Verifier) ProviderOption {
	return func(opts *Provider) error {
		opts.verifier = v
		return nil
	}
}

// WithMessageService injects the inbound message service chain into the context.
func WithMessageService(m inbound.MessageService) ProviderOption {
	return func(opts *Provider) error {
		opts.messageService = m
		return nil
	}
}

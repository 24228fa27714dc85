/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package aries

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/spi/storage"

	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/dispatcher"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/dispatcher/inbound"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/dispatcher/outbound"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/messaging/msghandler"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/packer"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/packer/jws"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/packer/plain"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/protocol/presentproof"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/transport"
	"github.com/hyperledger/aries-presentproof-go/pkg/doc/didkey"
	"github.com/hyperledger/aries-presentproof-go/pkg/framework/context"
	"github.com/hyperledger/aries-presentproof-go/pkg/kms/localkms"
	"github.com/hyperledger/aries-presentproof-go/pkg/presentation/builder"
	"github.com/hyperledger/aries-presentproof-go/pkg/store/correlation"
	"github.com/hyperledger/aries-presentproof-go/pkg/store/verifiable"
	"github.com/hyperledger/aries-presentproof-go/pkg/verifier"
)

var logger = log.New("aries-framework/framework")

// Aries provides access to the context being managed by the framework.
type Aries struct {
	storeProvider       storage.Provider
	kms                 *localkms.LocalKMS
	keySeed             []byte
	did                 string
	verifiableStore     *verifiable.Store
	correlationStore    presentproof.CorrelationStore
	packers             map[presentproof.PackingMode]packer.Packer
	outboundTransport   transport.OutboundTransport
	destinationResolver dispatcher.DestinationResolver
	destinationTTL      time.Duration
	deliveryTimeout     time.Duration
	outboundDispatcher  *outbound.Dispatcher
	builder             *builder.Builder
	verifier            *verifier.Verifier
	verifierOpts        []verifier.Opt
	presentProofOpts    []presentproof.Opt
	presentProof        *presentproof.Service
	msgServices         []msghandler.MessageService
	registrar           *msghandler.Registrar
	inboundHandler      *inbound.MessageHandler
}

// Option configures the framework.
type Option func(opts *Aries) error

// New initializes the framework based on the set of options provided.
func New(opts ...Option) (*Aries, error) {
	frameworkOpts := &Aries{}

	// generate framework configs from options
	for _, option := range opts {
		err := option(frameworkOpts)
		if err != nil {
			return nil, fmt.Errorf("error in option passed to New: %w", err)
		}
	}

	// get the default framework options
	err := defFrameworkOpts(frameworkOpts)
	if err != nil {
		return nil, fmt.Errorf("default option initialization failed: %w", err)
	}

	return initializeServices(frameworkOpts)
}

func initializeServices(frameworkOpts *Aries) (*Aries, error) {
	// Order of initializing service is important
	if e := createKMS(frameworkOpts); e != nil {
		return nil, e
	}

	if e := createStores(frameworkOpts); e != nil {
		return nil, e
	}

	if e := createPackers(frameworkOpts); e != nil {
		return nil, e
	}

	if e := createOutboundDispatcher(frameworkOpts); e != nil {
		return nil, e
	}

	if e := createPresentationServices(frameworkOpts); e != nil {
		return nil, e
	}

	if e := loadServices(frameworkOpts); e != nil {
		return nil, e
	}

	if e := createInboundHandler(frameworkOpts); e != nil {
		return nil, e
	}

	logger.Infof("framework initialized for %s", frameworkOpts.did)

	return frameworkOpts, nil
}

// WithStoreProvider injects a storage provider to the framework.
func WithStoreProvider(prov storage.Provider) Option {
	return func(opts *Aries) error {
		opts.storeProvider = prov
		return nil
	}
}

// WithCorrelationStore replaces the storage provider backed correlation store.
func WithCorrelationStore(store presentproof.CorrelationStore) Option {
	return func(opts *Aries) error {
		opts.correlationStore = store
		return nil
	}
}

// WithKeySeed derives the agent key, and so its DID, from seed instead of a random key.
func WithKeySeed(seed []byte) Option {
	return func(opts *Aries) error {
		opts.keySeed = seed
		return nil
	}
}

// WithOutboundTransport injects an outbound transport to the framework.
func WithOutboundTransport(outboundTransport transport.OutboundTransport) Option {
	return func(opts *Aries) error {
		opts.outboundTransport = outboundTransport
		return nil
	}
}

// WithDestinationResolver injects the resolver of peer endpoints.
func WithDestinationResolver(resolver dispatcher.DestinationResolver) Option {
	return func(opts *Aries) error {
		opts.destinationResolver = resolver
		return nil
	}
}

// WithDestinationTTL sets for how long resolved endpoints are cached.
func WithDestinationTTL(ttl time.Duration) Option {
	return func(opts *Aries) error {
		opts.destinationTTL = ttl
		return nil
	}
}

// WithDeliveryTimeout bounds each outbound delivery.
func WithDeliveryTimeout(timeout time.Duration) Option {
	return func(opts *Aries) error {
		opts.deliveryTimeout = timeout
		return nil
	}
}

// WithVerifierOptions configures the presentation verifier.
func WithVerifierOptions(verifierOpts ...verifier.Opt) Option {
	return func(opts *Aries) error {
		opts.verifierOpts = append(opts.verifierOpts, verifierOpts...)
		return nil
	}
}

// WithPresentProofOptions configures the present-proof service.
func WithPresentProofOptions(ppOpts ...presentproof.Opt) Option {
	return func(opts *Aries) error {
		opts.presentProofOpts = append(opts.presentProofOpts, ppOpts...)
		return nil
	}
}

// WithMessageServices registers message services tried after the present-proof service.
func WithMessageServices(services ...msghandler.MessageService) Option {
	return func(opts *Aries) error {
		opts.msgServices = append(opts.msgServices, services...)
		return nil
	}
}

// Context provides a handle to the framework context.
func (a *Aries) Context() (*context.Provider, error) {
	return context.New(
		context.WithStorageProvider(a.storeProvider),
		context.WithKMS(a.kms),
		context.WithCredentialSource(a.verifiableStore),
		context.WithPackers(a.packers),
		context.WithOutboundTransport(a.outboundTransport),
		context.WithDestinationResolver(a.destinationResolver),
		context.WithPresentationBuilder(a.builder),
		context.WithTransport(a.outboundDispatcher),
		context.WithCorrelationStore(a.correlationStore),
		context.WithVerifier(a.verifier),
		context.WithMessageService(a.registrar),
	)
}

// DID returns the DID of the agent.
func (a *Aries) DID() string {
	return a.did
}

// PresentProof returns the present-proof service.
func (a *Aries) PresentProof() *presentproof.Service {
	return a.presentProof
}

// VerifiableStore returns the store of holder credentials and verified presentations.
func (a *Aries) VerifiableStore() *verifiable.Store {
	return a.verifiableStore
}

// InboundHandler returns the handler of inbound envelopes.
func (a *Aries) InboundHandler() *inbound.MessageHandler {
	return a.inboundHandler
}

// Close waits for pending deliveries then frees resources being maintained by the framework.
func (a *Aries) Close() error {
	if a.outboundDispatcher != nil {
		a.outboundDispatcher.Wait()
	}

	var errs []error

	if closer, ok := a.correlationStore.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close the correlation store: %w", err))
		}
	}

	if a.storeProvider != nil {
		if err := a.storeProvider.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close the store: %w", err))
		}
	}

	return errors.Join(errs...)
}

func createKMS(frameworkOpts *Aries) error {
	ctx, err := context.New(context.WithStorageProvider(frameworkOpts.storeProvider))
	if err != nil {
		return fmt.Errorf("create context failed: %w", err)
	}

	frameworkOpts.kms, err = localkms.New(ctx)
	if err != nil {
		return fmt.Errorf("create KMS failed: %w", err)
	}

	if frameworkOpts.keySeed != nil {
		frameworkOpts.did, _, err = frameworkOpts.kms.Import(frameworkOpts.keySeed)
	} else {
		frameworkOpts.did, _, err = frameworkOpts.kms.Create()
	}

	if err != nil {
		return fmt.Errorf("create agent key failed: %w", err)
	}

	return nil
}

func createStores(frameworkOpts *Aries) error {
	ctx, err := context.New(context.WithStorageProvider(frameworkOpts.storeProvider))
	if err != nil {
		return fmt.Errorf("create context failed: %w", err)
	}

	frameworkOpts.verifiableStore, err = verifiable.New(ctx)
	if err != nil {
		return fmt.Errorf("create verifiable store failed: %w", err)
	}

	if frameworkOpts.correlationStore == nil {
		frameworkOpts.correlationStore, err = correlation.New(ctx)
		if err != nil {
			return fmt.Errorf("create correlation store failed: %w", err)
		}
	}

	return nil
}

func createPackers(frameworkOpts *Aries) error {
	priv, keyID, err := frameworkOpts.kms.SigningKey(frameworkOpts.did)
	if err != nil {
		return fmt.Errorf("load agent key failed: %w", err)
	}

	signed, err := jws.New(priv, keyID, didkey.PublicKey)
	if err != nil {
		return fmt.Errorf("create packer failed: %w", err)
	}

	frameworkOpts.packers = map[presentproof.PackingMode]packer.Packer{
		presentproof.PackingJWS:  signed,
		presentproof.PackingNone: plain.New(),
	}

	return nil
}

func createOutboundDispatcher(frameworkOpts *Aries) error {
	ctx, err := context.New(
		context.WithPackers(frameworkOpts.packers),
		context.WithOutboundTransport(frameworkOpts.outboundTransport),
		context.WithDestinationResolver(frameworkOpts.destinationResolver),
	)
	if err != nil {
		return fmt.Errorf("context creation failed: %w", err)
	}

	var opts []outbound.Opt

	if frameworkOpts.destinationTTL > 0 {
		opts = append(opts, outbound.WithDestinationTTL(frameworkOpts.destinationTTL))
	}

	if frameworkOpts.deliveryTimeout > 0 {
		opts = append(opts, outbound.WithDeliveryTimeout(frameworkOpts.deliveryTimeout))
	}

	frameworkOpts.outboundDispatcher, err = outbound.NewOutbound(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to init outbound dispatcher: %w", err)
	}

	return nil
}

func createPresentationServices(frameworkOpts *Aries) error {
	ctx, err := context.New(
		context.WithKMS(frameworkOpts.kms),
		context.WithCredentialSource(frameworkOpts.verifiableStore),
	)
	if err != nil {
		return fmt.Errorf("context creation failed: %w", err)
	}

	frameworkOpts.builder, err = builder.New(ctx)
	if err != nil {
		return fmt.Errorf("create presentation builder failed: %w", err)
	}

	frameworkOpts.verifier, err = verifier.New(frameworkOpts.verifiableStore, frameworkOpts.verifierOpts...)
	if err != nil {
		return fmt.Errorf("create verifier failed: %w", err)
	}

	return nil
}

func loadServices(frameworkOpts *Aries) error {
	ctx, err := context.New(
		context.WithPresentationBuilder(frameworkOpts.builder),
		context.WithTransport(frameworkOpts.outboundDispatcher),
		context.WithCorrelationStore(frameworkOpts.correlationStore),
		context.WithVerifier(frameworkOpts.verifier),
	)
	if err != nil {
		return fmt.Errorf("create context failed: %w", err)
	}

	frameworkOpts.presentProof, err = presentproof.New(ctx, frameworkOpts.presentProofOpts...)
	if err != nil {
		return fmt.Errorf("new protocol service failed: %w", err)
	}

	frameworkOpts.registrar = msghandler.NewRegistrar()

	services := append([]msghandler.MessageService{frameworkOpts.presentProof}, frameworkOpts.msgServices...)

	if err = frameworkOpts.registrar.Register(services...); err != nil {
		return fmt.Errorf("register message services failed: %w", err)
	}

	return nil
}

func createInboundHandler(frameworkOpts *Aries) error {
	ctx, err := context.New(
		context.WithPackers(frameworkOpts.packers),
		context.WithMessageService(frameworkOpts.registrar),
	)
	if err != nil {
		return fmt.Errorf("create context failed: %w", err)
	}

	frameworkOpts.inboundHandler, err = inbound.NewInboundMessageHandler(ctx)
	if err != nil {
		return fmt.Errorf("create inbound handler failed: %w", err)
	}

	return nil
}

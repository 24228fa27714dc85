/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package transport

import "context"

// OutboundTransport interface definition for transport layer
// This is the client side of the agent.
type OutboundTransport interface {
	// Send sends a packed envelope of the given media type to destination.
	Send(ctx context.Context, envelope []byte, destination, mediaType string) error
}

// InboundMessageHandler handles the inbound envelopes. The handler unpacks the envelope before
// handing the message to the protocol services.
type InboundMessageHandler func(ctx context.Context, envelope []byte, mediaType string) error

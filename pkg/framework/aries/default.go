/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package aries

import (
	"fmt"

	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"

	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/dispatcher"
	arieshttp "github.com/hyperledger/aries-presentproof-go/pkg/didcomm/transport/http"
)

// defFrameworkOpts provides default framework options.
func defFrameworkOpts(frameworkOpts *Aries) error {
	if frameworkOpts.outboundTransport == nil {
		outbound, err := arieshttp.NewOutbound()
		if err != nil {
			return fmt.Errorf("http outbound transport initialization failed: %w", err)
		}

		frameworkOpts.outboundTransport = outbound
	}

	if frameworkOpts.storeProvider == nil {
		frameworkOpts.storeProvider = mem.NewProvider()
	}

	if frameworkOpts.destinationResolver == nil {
		frameworkOpts.destinationResolver = dispatcher.NewStaticResolver(nil)
	}

	return nil
}

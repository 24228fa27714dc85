/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package aries implements the Aries present-proof protocol between a verifier and a subject agent
// (https://github.com/hyperledger/aries-rfcs/tree/main/features/0454-present-proof-v2).
//
// Packages for end developer usage
//
// pkg/framework/aries: creates an agent with its did:key identity, stores, packers and protocol services.
//
// pkg/didcomm/protocol/presentproof: sends request-presentation messages, answers them with a
// presentation built from stored credentials and verifies received presentations.
//
// pkg/controller: REST handlers and webhook/websocket notifications on top of an agent.
//
// cmd/aries-presentproofd: daemon serving the DIDComm inbound endpoint and the controller REST API.
//
// Basic workflow
//
//  1. Create an agent with aries.New, passing options such as the destination resolver.
//  2. Save the subject's credentials with the verifiable store.
//  3. Serve the agent's inbound handler over HTTP.
//  4. Call SendRequestPresentation on the verifier side and watch the state events.
//  5. Call Close to release resources.
package aries

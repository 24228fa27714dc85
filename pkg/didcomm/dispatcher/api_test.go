/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package dispatcher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStaticResolver(t *testing.T) {
	endpoints := map[string]string{"did:example:alice": "http://alice.example.com"}

	r := NewStaticResolver(endpoints)
	endpoints["did:example:bob"] = "http://bob.example.com"

	dest, err := r.Resolve("did:example:alice")
	require.NoError(t, err)
	require.Equal(t, "http://alice.example.com", dest.ServiceEndpoint)

	_, err = r.Resolve("did:example:bob")
	require.ErrorIs(t, err, ErrUnknownDestination)

	r.Add("did:example:bob", "http://bob.example.com")

	dest, err = r.Resolve("did:example:bob")
	require.NoError(t, err)
	require.Equal(t, "http://bob.example.com", dest.ServiceEndpoint)
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
)

const (
	defaultTimeout       = 10 * time.Second
	defaultMaxRetries    = 3
	defaultRetryInterval = 200 * time.Millisecond
)

// outboundCommHTTPOpts holds options for the HTTP transport implementation of CommTransport
// it has an http.Client instance.
type outboundCommHTTPOpts struct {
	client        *http.Client
	maxRetries    uint64
	retryInterval time.Duration
}

// OutboundHTTPOpt is an outbound HTTP transport option.
type OutboundHTTPOpt func(opts *outboundCommHTTPOpts)

// WithOutboundHTTPClient option is for creating an Outbound HTTP transport using an http.Client instance.
func WithOutboundHTTPClient(client *http.Client) OutboundHTTPOpt {
	return func(opts *outboundCommHTTPOpts) {
		opts.client = client
	}
}

// WithOutboundTimeout option is for creating an Outbound HTTP transport using a client timeout value.
func WithOutboundTimeout(timeout time.Duration) OutboundHTTPOpt {
	return func(opts *outboundCommHTTPOpts) {
		opts.client.Timeout = timeout
	}
}

// WithOutboundTLSConfig option is for creating an Outbound HTTP transport using a tls.Config instance.
func WithOutboundTLSConfig(tlsConfig *tls.Config) OutboundHTTPOpt {
	return func(opts *outboundCommHTTPOpts) {
		opts.client = &http.Client{
			Timeout: opts.client.Timeout,
			Transport: &http.Transport{
				TLSClientConfig: tlsConfig,
			},
		}
	}
}

// WithRetries sets how many times a failed POST is retried and the initial interval between attempts.
func WithRetries(maxRetries uint64, interval time.Duration) OutboundHTTPOpt {
	return func(opts *outboundCommHTTPOpts) {
		opts.maxRetries = maxRetries
		opts.retryInterval = interval
	}
}

// OutboundHTTPClient represents the Outbound HTTP transport instance.
type OutboundHTTPClient struct {
	client        *http.Client
	maxRetries    uint64
	retryInterval time.Duration
}

// NewOutbound creates a new instance of Outbound HTTP transport to Post requests to other Agents.
func NewOutbound(opts ...OutboundHTTPOpt) (*OutboundHTTPClient, error) {
	clOpts := &outboundCommHTTPOpts{
		client:        &http.Client{Timeout: defaultTimeout},
		maxRetries:    defaultMaxRetries,
		retryInterval: defaultRetryInterval,
	}

	for _, opt := range opts {
		opt(clOpts)
	}

	if clOpts.client == nil {
		return nil, errors.New("creating an outbound transport without an HTTP client")
	}

	return &OutboundHTTPClient{
		client:        clOpts.client,
		maxRetries:    clOpts.maxRetries,
		retryInterval: clOpts.retryInterval,
	}, nil
}

// Send posts the envelope to url. Network errors and 5xx/429 statuses are retried with exponential backoff.
func (cs *OutboundHTTPClient) Send(ctx context.Context, envelope []byte, url, mediaType string) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = cs.retryInterval

	b := backoff.WithContext(backoff.WithMaxRetries(eb, cs.maxRetries), ctx)

	return backoff.RetryNotify(func() error {
		return cs.post(ctx, envelope, url, mediaType)
	}, b, func(err error, next time.Duration) {
		logger.Warnf("HTTP Transport - retrying POST to [%s] in %s: %v", url, next, err)
	})
}

func (cs *OutboundHTTPClient) post(ctx context.Context, envelope []byte, url, mediaType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(envelope))
	if err != nil {
		return backoff.Permanent(errors.Wrap(err, "new request"))
	}

	req.Header.Set("Content-Type", mediaType)

	resp, err := cs.client.Do(req)
	if err != nil {
		logger.Errorf("HTTP Transport - Error posting did envelope to agent at [%s]: %v", url, err)

		return errors.Wrapf(err, "posting envelope to [%s]", url)
	}

	defer func() {
		if e := resp.Body.Close(); e != nil {
			logger.Errorf("HTTP Transport - Error closing response body: %v", e)
		}
	}()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		logger.Debugf("HTTP Transport - Error draining response body: %v", err)
	}

	switch {
	case resp.StatusCode == http.StatusAccepted || resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
		return errors.Errorf("received non success POST HTTP status from agent at [%s]: status : %v",
			url, resp.Status)
	default:
		return backoff.Permanent(errors.Errorf(
			"received non success POST HTTP status from agent at [%s]: status : %v", url, resp.Status))
	}
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package webnotifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// HTTPNotifier posts topic messages to webhook subscribers.
type HTTPNotifier struct {
	urls          []string
	client        *http.Client
	retries       uint64
	retryInterval time.Duration
}

// HTTPNotifierOpt configures an HTTPNotifier.
type HTTPNotifierOpt func(n *HTTPNotifier)

// WithWebhookClient sets the client used to post notifications.
func WithWebhookClient(client *http.Client) HTTPNotifierOpt {
	return func(n *HTTPNotifier) {
		n.client = client
	}
}

// WithWebhookRetries retries a post answered with a server error, or not answered, up to retries times.
func WithWebhookRetries(retries uint64, interval time.Duration) HTTPNotifierOpt {
	return func(n *HTTPNotifier) {
		n.retries = retries
		n.retryInterval = interval
	}
}

// NewHTTPNotifier returns a notifier posting to webhookURLs.
func NewHTTPNotifier(webhookURLs []string, opts ...HTTPNotifierOpt) *HTTPNotifier {
	n := &HTTPNotifier{
		urls:   webhookURLs,
		client: &http.Client{Timeout: notificationSendTimeout},
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Notify posts the topic message to all subscribers concurrently. Every failed subscriber is reported.
func (n *HTTPNotifier) Notify(topic string, message []byte) error {
	if topic == "" {
		return errors.New(emptyTopicErrMsg)
	}

	if len(message) == 0 {
		return errors.New(emptyMessageErrMsg)
	}

	topicMsg, err := PrepareTopicMessage(topic, message)
	if err != nil {
		return fmt.Errorf(failedToCreateErrMsg, err)
	}

	errs := make([]error, len(n.urls))

	var wg sync.WaitGroup

	for i, webhookURL := range n.urls {
		wg.Add(1)

		go func(i int, webhookURL string) {
			defer wg.Done()

			errs[i] = n.deliver(webhookURL, topicMsg)
		}(i, webhookURL)
	}

	wg.Wait()

	return errors.Join(errs...)
}

func (n *HTTPNotifier) deliver(destination string, message []byte) error {
	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(n.retryInterval), n.retries)

	return backoff.RetryNotify(func() error {
		return n.post(destination, message)
	}, b, func(err error, wait time.Duration) {
		logger.Debugf("webhook %s failed, retrying in %s: %v", destination, wait, err)
	})
}

func (n *HTTPNotifier) post(destination string, message []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), notificationSendTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, destination, bytes.NewReader(message))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to create new http post request for %s: %w", destination, err))
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post notification to %s: %w", destination, err)
	}

	defer closeResponse(resp.Body)

	switch {
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		logger.Debugf("notification sent to %s", destination)

		return nil
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("notification was sent to %s, but %s was received", destination, resp.Status)
	default:
		return backoff.Permanent(
			fmt.Errorf("notification was sent to %s, but %s was received", destination, resp.Status))
	}
}

func closeResponse(c io.Closer) {
	if err := c.Close(); err != nil {
		logger.Errorf("failed to close response body: %s", err)
	}
}

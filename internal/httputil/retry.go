// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for network-facing stages.
package httputil

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// Doer is the minimal HTTP client interface; *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoWithRetry executes req and, when maxRetries > 0, retries on HTTP 429
// (Too Many Requests) with exponential backoff starting at RetryBaseDelay
// and doubling each attempt. With maxRetries <= 0 the first response is
// returned as is.
//
// On each retried 429 the response body is drained and closed before
// sleeping. If ctx is cancelled during a backoff wait DoWithRetry returns
// ctx.Err(). After exhausting retries the last 429 response is returned so
// the caller can inspect it.
func DoWithRetry(ctx context.Context, client Doer, req *http.Request, maxRetries int, log *zap.Logger) (*http.Response, error) {
	if log == nil {
		log = zap.NewNop()
	}

	backoff := RetryBaseDelay
	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		log.Debug("rate limited, backing off",
			zap.String("url", req.URL.String()),
			zap.Duration("backoff", backoff),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

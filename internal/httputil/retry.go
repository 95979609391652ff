// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the search, scrape, and
// model backends.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"
)

// RetryBaseDelay is the first backoff interval. Tests override this to avoid
// real sleeps.
var RetryBaseDelay = 2 * time.Second

// RetryMaxDelay caps a single backoff interval.
var RetryMaxDelay = 30 * time.Second

const defaultMaxRetries = 3

// Retryable reports whether a response status is worth repeating: 429 and
// the gateway-style 5xx codes.
func Retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Backoff returns base * 2^attempt, clamped to [base, max].
func Backoff(attempt int, base, max time.Duration) time.Duration {
	d := time.Duration(math.Pow(2, float64(attempt))) * base
	if d < base {
		d = base
	}
	if max > 0 && d > max {
		d = max
	}
	return d
}

// Sleep waits for d or until ctx is done, returning ctx.Err() in the latter
// case.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// DoWithRetry executes req and repeats it while the response status is
// Retryable, doubling the wait each time starting at RetryBaseDelay.
//
// When maxRetries is 0 the default (3) is used. The body of a retried
// response is drained and closed before sleeping. After exhausting retries
// the last response is returned so the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if client == nil {
		client = http.DefaultClient
	}

	for attempt := 0; ; attempt++ {
		r := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			r.Body = body
		}

		resp, err := client.Do(r)
		if err != nil {
			return nil, err
		}
		if !Retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if err := Sleep(ctx, Backoff(attempt, RetryBaseDelay, RetryMaxDelay)); err != nil {
			return nil, err
		}
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP client shared by the metadata plugins:
// a User-Agent, JSON decoding, and backoff on rate limiting.
package httputil

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// maxRetryAfter bounds how long a server-supplied Retry-After may stall us.
const maxRetryAfter = 60 * time.Second

const defaultMaxRetries = 5

// doWithRetry executes req and retries on HTTP 429 (Too Many Requests).
// The wait honors a Retry-After header given in seconds; otherwise it
// starts at RetryBaseDelay and doubles each attempt.
//
// On each 429 the body is drained and closed before waiting. A context
// cancelled during the wait returns ctx.Err(). After exhausting retries
// the last 429 response is returned so the caller can inspect it.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	maxRetries := c.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := c.httpClient().Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		wait := backoff(attempt, resp.Header.Get("Retry-After"))
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		c.logger().Debug("rate limited", "host", req.URL.Host, "wait", wait, "attempt", attempt+1, "max", maxRetries)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// backoff returns the wait before retry number attempt+1.
func backoff(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
		return min(time.Duration(secs)*time.Second, maxRetryAfter)
	}
	return RetryBaseDelay << attempt
}

package stacclient

import (
	"context"
	"net/http"
	"time"
)

// RetryPolicy decides whether a failed transaction attempt should be
// tried again and how long to wait first. attempt counts the attempts
// already made, starting at 1.
type RetryPolicy interface {
	ShouldRetry(attempt int, resp *http.Response, err error) (bool, time.Duration)
}

// RetryPolicyFunc adapts a function to the RetryPolicy interface.
type RetryPolicyFunc func(attempt int, resp *http.Response, err error) (bool, time.Duration)

// ShouldRetry implements the RetryPolicy interface.
func (f RetryPolicyFunc) ShouldRetry(attempt int, resp *http.Response, err error) (bool, time.Duration) {
	return f(attempt, resp, err)
}

// defaultMaxAttempts bounds DefaultRetryPolicy so a persistently failing
// service cannot stall a conversion run.
const defaultMaxAttempts = 4

// DefaultRetryPolicy retries transport errors, throttling (429) and
// server errors, up to defaultMaxAttempts attempts with linear backoff.
// Transaction POSTs upsert on the document id, so re-sending a request
// the service may already have applied is safe.
var DefaultRetryPolicy RetryPolicy = RetryPolicyFunc(func(attempt int, resp *http.Response, err error) (bool, time.Duration) {
	if attempt >= defaultMaxAttempts {
		return false, 0
	}
	switch {
	case err != nil:
		return true, 500 * time.Millisecond
	case resp.StatusCode == http.StatusTooManyRequests:
		return true, time.Second
	case resp.StatusCode >= 500 && resp.StatusCode != http.StatusNotImplemented:
		return true, 500 * time.Millisecond
	default:
		return false, 0
	}
})

// retry runs the request factory until the policy gives up. The factory
// builds a fresh request each attempt so POST bodies survive retries.
func (c *Client) retry(ctx context.Context, fn func() (*http.Response, error)) (*http.Response, error) {
	policy := c.retryPolicy
	if policy == nil {
		return fn()
	}
	attempt := 0
	for {
		attempt++
		resp, err := fn()
		again, delay := policy.ShouldRetry(attempt, resp, err)
		if !again || ctx.Err() != nil {
			return resp, err
		}
		if resp != nil {
			resp.Body.Close()
		}
		select {
		case <-ctx.Done():
			return resp, ctx.Err()
		case <-time.After(delay * time.Duration(attempt)):
		}
	}
}

package stacclient

import (
	"net/http"
	"net/url"
	"time"
)

// Logger represents the minimal logging interface used by the client.
type Logger interface {
	Debugf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Option configures a Client during construction.
type Option func(*Client) error

// WithBaseURL sets the STAC service base URL.
func WithBaseURL(raw string) Option {
	return func(c *Client) error {
		if raw == "" {
			return ErrInvalidBaseURL
		}
		u, err := url.Parse(raw)
		if err != nil {
			return err
		}
		if !u.IsAbs() {
			return ErrInvalidBaseURL
		}
		c.baseURL = u
		return nil
	}
}

// WithHTTPClient injects a custom http.Client, typically one carrying
// an authenticating transport.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) error {
		if httpClient == nil {
			return ErrNilHTTPClient
		}
		c.httpClient = httpClient
		return nil
	}
}

// WithRetryPolicy replaces the default transaction retry behavior. A
// nil policy disables retries entirely.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Client) error {
		c.retryPolicy = policy
		return nil
	}
}

// WithLogger registers a logger used for request lifecycle events.
func WithLogger(logger Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// WithTimeout sets a per-request timeout on the underlying http.Client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		if timeout <= 0 {
			return nil
		}
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
		return nil
	}
}

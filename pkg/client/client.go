// Package stacclient publishes STAC documents to a transactional STAC
// API service.
package stacclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
)

const userAgent = "amazonia-stac/0.1"

// Client is a reusable STAC Transaction client.
type Client struct {
	httpClient  *http.Client
	baseURL     *url.URL
	retryPolicy RetryPolicy
	logger      Logger
}

// New constructs a Client with provided options.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		httpClient:  &http.Client{},
		retryPolicy: DefaultRetryPolicy,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.baseURL == nil {
		return nil, ErrInvalidBaseURL
	}
	if c.httpClient == nil {
		return nil, ErrNilHTTPClient
	}
	return c, nil
}

func (c *Client) buildURL(endpoint string) string {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	u := *c.baseURL
	u.Path = path.Join(c.baseURL.Path, endpoint)
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(endpoint), reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) (*http.Response, error) {
	if c.logger != nil {
		c.logger.Debugf("stacclient: %s %s", method, endpoint)
	}

	resp, err := c.retry(ctx, func() (*http.Response, error) {
		req, err := c.newRequest(ctx, method, endpoint, body)
		if err != nil {
			return nil, err
		}
		return c.httpClient.Do(req)
	})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	data, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if readErr != nil {
		return nil, readErr
	}

	txErr := &TransactionError{
		Method:   method,
		Endpoint: endpoint,
		Status:   resp.StatusCode,
		Raw:      data,
	}
	if err := json.Unmarshal(data, txErr); err != nil {
		// Fallback to plain message.
		txErr.Detail = string(data)
	}
	if c.logger != nil {
		c.logger.Errorf("stacclient: %s %s failed status=%d", method, endpoint, resp.StatusCode)
	}
	return nil, txErr
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, body []byte, out any) error {
	resp, err := c.do(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

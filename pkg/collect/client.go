// Package collect forwards captured leads to a collect endpoint over HTTP.
//
// Submission is best-effort: callers log failures and move on, so the client
// keeps a short bounded timeout and never retries.
package collect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/masonrylabs/masonry/pkg/ports"
)

const defaultTimeout = 5 * time.Second

// Client is an HTTP ports.LeadSubmitter.
type Client struct {
	url    string
	client *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithTimeout sets the per-submission timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// NewClient builds a submitter posting to the given endpoint URL.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit posts a lead as JSON. Non-2xx responses are errors.
func (c *Client) Submit(ctx context.Context, lead ports.Lead) error {
	body, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("encode lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("submit lead: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("collect endpoint returned %s", resp.Status)
	}
	return nil
}

var _ ports.LeadSubmitter = (*Client)(nil)

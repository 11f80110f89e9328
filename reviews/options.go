package reviews

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Client.
type Option func(*Client) error

// WithTimeout overrides the per-call timeout. The duration must be positive.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		if timeout <= 0 {
			return invalidTimeoutError()
		}
		c.timeout = timeout
		return nil
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) error {
		if client == nil {
			return newError("HTTP client cannot be nil", CodeConfiguration, "Pass a non-nil *http.Client")
		}
		c.httpClient = client
		return nil
	}
}

// WithHeader adds a header sent on every request. It takes precedence over the
// default headers but not over headers passed for a single call.
func WithHeader(key, value string) Option {
	return func(c *Client) error {
		if key == "" {
			return newError("Header key cannot be empty", CodeConfiguration, "Pass a non-empty header name")
		}
		c.headers.Set(key, value)
		return nil
	}
}

// WithLogger sets the logger used for debug output
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// WithMetrics records request metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) error {
		c.metrics = m
		return nil
	}
}

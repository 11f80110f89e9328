package reviews

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestOptions describes a single API call. Headers set here override both
// the client-level headers and the defaults.
type RequestOptions struct {
	Method string // defaults to GET
	Header http.Header
	Body   any // JSON-encoded when non-nil
}

// do executes exactly one HTTP call and decodes a 2xx body into T. A body that
// is not valid JSON yields a zero T rather than an error, and fields of the
// wrong JSON type are skipped.
func do[T any](ctx context.Context, c *Client, operation, endpoint string, opts RequestOptions) (*T, error) {
	start := time.Now()
	result, err := execute[T](ctx, c, endpoint, opts)
	c.metrics.observe(operation, methodOrDefault(opts.Method), err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return result, nil
}

func execute[T any](ctx context.Context, c *Client, endpoint string, opts RequestOptions) (*T, error) {
	method := methodOrDefault(opts.Method)
	requestURL := c.baseURL + endpoint

	var body io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, classifyTransport(err)
		}
		body = bytes.NewReader(data)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, classifyTransport(err)
	}
	c.applyHeaders(req, opts.Header)

	c.logger.Debug().
		Str("method", method).
		Str("url", requestURL).
		Str("request_id", req.Header.Get("X-Request-ID")).
		Msg("Making reviews API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		sdkErr := classifyTransport(err)
		c.logger.Debug().Err(err).Str("code", string(sdkErr.Code)).Msg("Reviews API request failed")
		return nil, sdkErr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(err)
	}

	c.logger.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(raw)).
		Msg("Reviews API response received")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyResponse(resp.StatusCode, raw)
	}

	return decodeBody[T](c, raw)
}

// decodeBody turns a 2xx body into T. Non-JSON bodies give a zero T. Fields whose
// JSON type does not match are left zero and the rest of the body is kept.
func decodeBody[T any](c *Client, raw []byte) (*T, error) {
	if !json.Valid(raw) {
		c.logger.Debug().Int("bytes", len(raw)).Msg("Ignoring non-JSON success body")
		return new(T), nil
	}

	result := new(T)
	err := json.Unmarshal(raw, result)
	if err == nil {
		return result, nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		c.logger.Debug().
			Err(err).
			Str("field", typeErr.Field).
			Msg("Success body has mismatched field types, keeping decoded fields")
		return result, nil
	}

	sdkErr := newError("Unexpected response format", CodeUnknown, err.Error())
	sdkErr.Err = err
	return nil, sdkErr
}

// applyHeaders layers defaults, client headers and per-call headers, later layers winning.
func (c *Client) applyHeaders(req *http.Request, callHeaders http.Header) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	for key, values := range c.headers {
		req.Header[key] = append([]string(nil), values...)
	}
	for key, values := range callHeaders {
		req.Header[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}
}

func methodOrDefault(method string) string {
	if method == "" {
		return http.MethodGet
	}
	return method
}

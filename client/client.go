package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/AmmannChristian/go-pandago/apierr"
	"github.com/AmmannChristian/go-pandago/config"
	"github.com/AmmannChristian/go-pandago/httpclient"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
	defaultAgent    = "go-pandago"
	dataEnvelopeKey = "data"
	rawBodyKey      = "raw"
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestOptions describe the optional parts of a request.
type RequestOptions struct {
	Query   url.Values
	JSON    any
	Form    url.Values
	Headers http.Header
}

// Client sends authenticated requests to the pandago API and classifies failures.
// It is safe for concurrent use.
type Client struct {
	baseURL   string
	tokens    httpclient.TokenSource
	http      Doer
	logger    *zap.Logger
	userAgent string
}

// Option is a functional option for configuring Client.
type Option func(*Client)

// WithHTTPClient sets the transport. Defaults to an http.Client built by httpclient.Builder
// with the configured timeout.
func WithHTTPClient(doer Doer) Option {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

// WithLogger sets the logger used for failed requests.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithBaseURL overrides the API base URL derived from the config.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if agent != "" {
			c.userAgent = agent
		}
	}
}

// New creates a client for cfg that authenticates with tokens (normally an
// *oauth2client.TokenManager).
func New(cfg *config.Config, tokens httpclient.TokenSource, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, apierr.NewConfigurationError("", "client requires a config", nil)
	}
	if tokens == nil {
		return nil, apierr.NewConfigurationError("", "client requires a token source", nil)
	}

	c := &Client{
		baseURL:   cfg.APIBaseURL(),
		tokens:    tokens,
		logger:    zap.NewNop(),
		userAgent: defaultAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		httpClient, err := httpclient.NewBuilder().WithConfig(cfg).Build()
		if err != nil {
			return nil, fmt.Errorf("client: build transport: %w", err)
		}
		c.http = httpClient
	}

	return c, nil
}

// BaseURL returns the URL endpoints are resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// Do sends the request and returns the decoded JSON body (nil for an empty body).
//
// Token failures are returned unchanged (*apierr.AuthenticationError). Transport failures and
// non-2xx responses are *apierr.RequestError; a 2xx body that is not JSON is an
// *apierr.UnexpectedFormatError.
func (c *Client) Do(ctx context.Context, method, endpoint string, opts *RequestOptions) (any, error) {
	body, err := c.send(ctx, method, endpoint, opts)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var out any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, apierr.NewUnexpectedFormatError("response is not valid JSON", string(body))
	}
	return out, nil
}

// DoJSON is Do decoding the response body into out. An empty body leaves out untouched.
func (c *Client) DoJSON(ctx context.Context, method, endpoint string, opts *RequestOptions, out any) error {
	body, err := c.send(ctx, method, endpoint, opts)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return apierr.NewUnexpectedFormatError(fmt.Sprintf("cannot decode response into %T", out), string(body))
	}
	return nil
}

// DoString is Do for opaque payloads such as proof-of-delivery images. The body may be a bare
// string (JSON encoded or raw text) or a {"data": "..."} envelope; any other shape is an
// *apierr.UnexpectedFormatError.
func (c *Client) DoString(ctx context.Context, method, endpoint string, opts *RequestOptions) (string, error) {
	body, err := c.send(ctx, method, endpoint, opts)
	if err != nil {
		return "", err
	}
	return decodeStringPayload(body)
}

func decodeStringPayload(body []byte) (string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "", apierr.NewUnexpectedFormatError("empty response body", "")
	}

	var decoded any
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return string(body), nil
	}

	switch v := decoded.(type) {
	case string:
		return v, nil
	case map[string]any:
		if s, ok := v[dataEnvelopeKey].(string); ok {
			return s, nil
		}
	}
	return "", apierr.NewUnexpectedFormatError("expected a string or a data envelope", decoded)
}

func (c *Client) send(ctx context.Context, method, endpoint string, opts *RequestOptions) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts == nil {
		opts = &RequestOptions{}
	}
	method = strings.ToUpper(method)

	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, method, endpoint, opts)
	if err != nil {
		return nil, c.requestError(err.Error(), 0, err, nil, method, endpoint, opts)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("pandago: request failed",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		return nil, c.requestError(err.Error(), 0, err, nil, method, endpoint, opts)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.requestError("failed to read response body: "+err.Error(), resp.StatusCode, err, nil, method, endpoint, opts)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if inv, ok := c.tokens.(httpclient.Invalidator); ok {
			inv.Invalidate()
		}
	}

	data := errorData(body)
	c.logger.Warn("pandago: request rejected",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
	)
	return nil, c.requestError(apierr.ParseErrorMessage(data, resp.StatusCode), resp.StatusCode, nil, data, method, endpoint, opts)
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, opts *RequestOptions) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(opts.Query) > 0 {
		target += "?" + opts.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case opts.JSON != nil && opts.Form != nil:
		return nil, errors.New("request cannot carry both a JSON and a form body")
	case opts.JSON != nil:
		encoded, err := json.Marshal(opts.JSON)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
		contentType = contentTypeJSON
	case opts.Form != nil:
		body = strings.NewReader(opts.Form.Encode())
		contentType = contentTypeForm
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for key, values := range opts.Headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	return req, nil
}

func (c *Client) requestError(msg string, status int, cause error, data map[string]any, method, endpoint string, opts *RequestOptions) *apierr.RequestError {
	return apierr.NewRequestError(apierr.RequestParams{
		Message:    msg,
		StatusCode: status,
		Cause:      cause,
		Data:       data,
		Method:     method,
		Endpoint:   endpoint,
		Options:    opts,
	})
}

// errorData decodes an error body into a map. Bodies that are not a JSON object are kept under "raw".
func errorData(body []byte) map[string]any {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return map[string]any{}
	}

	var data map[string]any
	if err := json.Unmarshal(trimmed, &data); err == nil && data != nil {
		return data
	}
	return map[string]any{rawBodyKey: string(trimmed)}
}

package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"

	"github.com/bricksvaluation/web/internal/config"
	"github.com/bricksvaluation/web/internal/dto"
	"github.com/bricksvaluation/web/internal/logging"
)

// Requester sends a request relative to the API base URL.
type Requester interface {
	Send(ctx context.Context, method, path string, body any) (*Response, error)
}

// Client is the shared JSON client for the BricksValuation API. It keeps
// cookies between calls and is safe for concurrent use.
type Client struct {
	http    *http.Client
	baseURL string
	headers http.Header
	logger  *zap.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient bases the transport on a copy of hc. The configured timeout
// and cookie jar fill in only what hc leaves unset; hc itself is not modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			clone := *hc
			c.http = &clone
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logging.OrNop(logger)
	}
}

// WithHeader adds a default header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// New builds a client bound to cfg.APIBaseURL with the configured timeout,
// credential (cookie) support and JSON default headers.
func New(cfg config.Configuration, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(cfg.APIBaseURL, "/")
	if baseURL == "" {
		baseURL = config.DefaultAPIBaseURL
	}

	c := &Client{
		http:    &http.Client{},
		baseURL: baseURL,
		headers: http.Header{},
		logger:  zap.NewNop(),
	}
	c.headers.Set("Content-Type", "application/json")
	c.headers.Set("Accept", "application/json")

	for _, opt := range opts {
		opt(c)
	}

	if c.http.Timeout == 0 {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = config.DefaultTimeout
		}
		c.http.Timeout = timeout
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		c.http.Jar = jar
	}

	return c, nil
}

// BaseURL returns the API base URL the client is bound to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the transport timeout.
func (c *Client) Timeout() time.Duration {
	return c.http.Timeout
}

// Send issues a request to path (relative to the base URL) with body encoded
// as JSON. Non-2xx responses are returned as *ResponseError; transport
// failures are returned as the *url.Error produced by http.Client.
func (c *Client) Send(ctx context.Context, method, path string, body any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	url := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	rid := uuid.NewString()
	req.Header.Set(dto.HeaderRequestID, rid)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", zap.String("request_id", rid), zap.String("method", method), zap.String("url", url), zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	c.logger.Debug("request completed",
		zap.String("request_id", rid),
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	out := newResponse(resp.StatusCode, resp.Header, raw)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ResponseError{Method: method, URL: url, Response: out}
	}
	return out, nil
}

// Post sends body to path and decodes the JSON response into Resp.
func Post[Req, Resp any](ctx context.Context, r Requester, path string, body Req) (Resp, error) {
	resp, err := r.Send(ctx, http.MethodPost, path, body)
	if err != nil {
		var zero Resp
		return zero, err
	}
	return decode[Resp](resp)
}

// Get fetches path and decodes the JSON response into Resp.
func Get[Resp any](ctx context.Context, r Requester, path string) (Resp, error) {
	resp, err := r.Send(ctx, http.MethodGet, path, nil)
	if err != nil {
		var zero Resp
		return zero, err
	}
	return decode[Resp](resp)
}

func decode[Resp any](resp *Response) (Resp, error) {
	var out Resp
	if len(bytes.TrimSpace(resp.Raw)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(resp.Raw, &out); err != nil {
		return out, &DecodeError{Status: resp.Status, Raw: resp.Raw, Err: err}
	}
	return out, nil
}

var _ Requester = (*Client)(nil)

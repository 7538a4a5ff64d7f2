// Package posapi is the client for the point-of-sale REST API.
package posapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/till/internal/cart"
	"github.com/MrJamesThe3rd/till/internal/product"
	"github.com/MrJamesThe3rd/till/internal/transaction"
)

var (
	_ product.Repository     = (*Client)(nil)
	_ transaction.Repository = (*Client)(nil)
	_ cart.Checkouter        = (*Client)(nil)
)

const (
	headerRequestID = "X-Request-ID"
	headerAdminKey  = "X-ADMIN-KEY"

	maxBodySize = 4 << 20
)

type Client struct {
	baseURL  string
	client   *http.Client
	adminKey string
	logger   *slog.Logger
}

type Option func(*Client)

// WithAdminKey sets the key sent with destructive admin requests.
func WithAdminKey(key string) Option {
	return func(c *Client) {
		c.adminKey = key
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New returns a client for the API rooted at baseURL, e.g.
// "http://127.0.0.1:5001/api".
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type request struct {
	method string
	path   string
	body   any
	header http.Header
	// expect lists the accepted status codes. Empty accepts any 2xx.
	expect []int
}

// do performs req and decodes a successful response body into out, when out
// is not nil. Rejected statuses are returned as *Error.
func (c *Client) do(ctx context.Context, req request, out any) error {
	return c.doURL(ctx, c.baseURL+req.path, req, out)
}

func (c *Client) doURL(ctx context.Context, url string, req request, out any) error {
	var body io.Reader

	if req.body != nil {
		buf, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}

		body = bytes.NewReader(buf)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, url, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	requestID := uuid.NewString()

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(headerRequestID, requestID)

	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	for k, v := range req.header {
		httpReq.Header[k] = v
	}

	start := time.Now()

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Warn("api request failed",
			"method", req.method, "url", url, "request_id", requestID, "error", err)

		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	c.logger.Debug("api request",
		"method", req.method,
		"url", url,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if !accepted(resp.StatusCode, req.expect) {
		apiErr := newError(resp.StatusCode, data)
		c.logger.Warn("api request rejected",
			"method", req.method, "url", url, "request_id", requestID,
			"status", resp.StatusCode, "message", apiErr.Message)

		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

func accepted(status int, expect []int) bool {
	if len(expect) == 0 {
		return status >= 200 && status < 300
	}

	return slices.Contains(expect, status)
}

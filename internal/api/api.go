package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"stock-predictor/internal/logger"
)

// ErrHTTPStatus is wrapped by StatusError for any 4xx/5xx response.
var ErrHTTPStatus = errors.New("unexpected HTTP status")

type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrHTTPStatus }

// Client represents an HTTP client with common configuration and utilities
type Client struct {
	rc         *resty.Client
	useLogging bool
}

// ClientOption configures the API client
type ClientOption func(*Client)

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.rc.SetTimeout(timeout)
	}
}

// WithBaseURL sets the base URL for all requests
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.rc.SetBaseURL(baseURL)
	}
}

// WithHeader sets a default header for all requests
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.rc.SetHeader(key, value)
	}
}

// WithHeaders sets several default headers
func WithHeaders(h map[string]string) ClientOption {
	return func(c *Client) {
		c.rc.SetHeaders(h)
	}
}

// WithLogging enables logging for the API client
func WithLogging(enabled bool) ClientOption {
	return func(c *Client) {
		c.useLogging = enabled
	}
}

// WithRetry retries transport errors and 429/5xx responses with
// exponential backoff.
func WithRetry(cfg RetryConfig) ClientOption {
	return func(c *Client) {
		if cfg.MaxAttempts <= 1 {
			c.rc.SetRetryCount(0)
			return
		}
		c.rc.SetRetryCount(cfg.MaxAttempts - 1).
			SetRetryWaitTime(cfg.InitialWait).
			SetRetryMaxWaitTime(cfg.MaxWait).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				if err != nil {
					return true
				}
				return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
			})
	}
}

// NewClient creates a new API client with the given options
func NewClient(opts ...ClientOption) *Client {
	client := &Client{
		rc: resty.New().SetTimeout(30 * time.Second),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Response represents an HTTP response
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// GET performs a GET request. Relative URLs resolve against the base URL.
func (c *Client) GET(ctx context.Context, url string, query map[string]string) (*Response, error) {
	if c.useLogging {
		logger.Debug(ctx, "HTTP Request", "method", http.MethodGet, "url", url)
	}

	start := time.Now()
	resp, err := c.rc.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(url)
	if err != nil {
		if c.useLogging {
			logger.Error(ctx, "HTTP request failed", "method", http.MethodGet, "url", url, "error", err)
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	if c.useLogging {
		logger.Debug(ctx, "HTTP Response",
			"url", url,
			"status", resp.StatusCode(),
			"duration", time.Since(start),
			"bodySize", len(resp.Body()),
			"attempts", resp.Request.Attempt)
	}

	if resp.IsError() {
		if c.useLogging {
			logger.Warn(ctx, "HTTP error response", "url", url, "status", resp.StatusCode())
		}
		return nil, &StatusError{StatusCode: resp.StatusCode(), Body: truncate(resp.String(), 512)}
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Headers:    resp.Header(),
	}, nil
}

// ParseJSON parses the response body as JSON into the given struct
func (r *Response) ParseJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}

// String returns the response body as a string
func (r *Response) String() string {
	return string(r.Body)
}

// BrowserHeaders returns common browser headers to mimic a real browser request
func BrowserHeaders(userAgent string) map[string]string {
	return map[string]string{
		"User-Agent":      userAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9",
	}
}

// YahooFinanceHeaders returns headers for Yahoo Finance API
func YahooFinanceHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Accept":          "application/json",
		"Accept-Language": "en-US,en;q=0.9",
		"Referer":         "https://finance.yahoo.com/",
	}
}

// RetryConfig configures retry behavior
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
}

// DefaultRetryConfig returns default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Second,
		MaxWait:     5 * time.Second,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Package client talks to the local markdocs render server over HTTP.
//
// The server exposes two endpoints under its base URL:
//
//	GET  /api/ping    liveness ping, any 2xx means ready
//	POST /api/markup  {"content","filePath","basePath"} -> {"content"}
//
// The client is stateless and never retries; retry policy belongs to the
// caller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Sentinel errors for client operations.
var (
	ErrServerUnreachable   = errors.New("markdocs server unreachable")
	ErrRenderRequestFailed = errors.New("render request failed")
)

// Endpoint paths relative to the server base URL.
const (
	PingPath   = "/api/ping"
	MarkupPath = "/api/markup"
)

// Limits.
const (
	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 32 << 20
	maxErrorBody     = 512
)

// MarkupRequest is the body posted to the markup endpoint.
type MarkupRequest struct {
	Content  string `json:"content"`
	FilePath string `json:"filePath"`
	BasePath string `json:"basePath"`
}

// MarkupResponse is the body returned by the markup endpoint.
type MarkupResponse struct {
	Content string `json:"content"`
}

// Client calls a markdocs render server.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a Client for the server at baseURL (e.g. http://localhost:4462).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping issues the liveness ping. Any 2xx status means the server is ready.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+PingPath, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServerUnreachable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServerUnreachable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	if !isSuccess(resp.StatusCode) {
		return fmt.Errorf("%w: status %d", ErrServerUnreachable, resp.StatusCode)
	}
	return nil
}

// Render posts content with its path context and returns the rendered markup.
func (c *Client) Render(ctx context.Context, content, filePath, basePath string) (string, error) {
	body, err := json.Marshal(MarkupRequest{
		Content:  content,
		FilePath: filePath,
		BasePath: basePath,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encoding request: %v", ErrRenderRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+MarkupPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderRequestFailed, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("%w: status %d: %s", ErrRenderRequestFailed, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out MarkupResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrRenderRequestFailed, err)
	}
	return out.Content, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

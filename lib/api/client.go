// Package api is a typed client for the job board REST backend.
//
// Every remote action is one method. Responses are decoded into explicit
// types and checked before they are returned; failures are reported as
// *NetworkError or *RequestError, both matching ErrRequestFailed. The
// client never shows anything to the user.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/google/go-querystring/query"
)

// Client talks to the backend at a fixed base URL.
type Client struct {
	baseURL  string
	http     *http.Client
	timeout  time.Duration
	logger   *slog.Logger
	validate *validator.Validate
}

const defaultTimeout = 10 * time.Second

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. The client is
// shared, never modified; a nil client keeps the default.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used for request events.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for baseURL (for example
// "https://api.example.com/api/0-1/the-julge").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     http.DefaultClient,
		timeout:  defaultTimeout,
		logger:   slog.Default(),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	return c
}

// request describes one backend call. cred is required unless viewer
// is set, in which case an empty credential sends the call anonymously.
type request struct {
	method string
	path   string
	query  any
	cred   *Credential
	viewer bool
	body   any
}

// do sends req and decodes a 2xx JSON response into out (unless out is nil).
func (c *Client) do(ctx context.Context, req request, out any) error {
	if req.cred != nil && req.cred.Empty() && !req.viewer {
		return fmt.Errorf("%s %s: %w", req.method, req.path, ErrMissingCredential)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := c.baseURL + req.path
	if req.query != nil {
		values, err := query.Values(req.query)
		if err != nil {
			return fmt.Errorf("encode query: %w", err)
		}
		if encoded := values.Encode(); encoded != "" {
			target += "?" + encoded
		}
	}

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.cred != nil && !req.cred.Empty() {
		httpReq.Header.Set("Authorization", "Bearer "+req.cred.Token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn("api_request_failed", "method", req.method, "path", req.path, "error", err)
		return &NetworkError{Method: req.method, Path: req.path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Method: req.method, Path: req.path, Err: err}
	}
	c.logger.Debug("api_request", "method", req.method, "path", req.path,
		"status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &msg)
		return &RequestError{Method: req.method, Path: req.path, StatusCode: resp.StatusCode, Message: msg.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: %w: %v", req.method, req.path, ErrInvalidPayload, err)
	}
	return nil
}

// check validates a decoded value against its struct tags.
func (c *Client) check(v any) error {
	if err := c.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed %q", ErrInvalidPayload, verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func escape(segments ...string) []any {
	out := make([]any, len(segments))
	for i, s := range segments {
		out[i] = url.PathEscape(s)
	}
	return out
}

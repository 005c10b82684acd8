// Package adminclient is an HTTP client for the mock server's /__admin API.
package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/getmockd/wirecheck/pkg/logging"
	"github.com/getmockd/wirecheck/pkg/recording"
	"github.com/getmockd/wirecheck/pkg/requestlog"
	"github.com/getmockd/wirecheck/pkg/stub"
)

// DefaultTimeout bounds every admin call unless WithTimeout says otherwise.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is kept in a TransportError.
const maxErrorBody = 4 << 10

// Client talks to one mock server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client. Its own Timeout is
// overridden by WithTimeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the mock server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// BaseURL returns the mock server URL the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the effective per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// ListMappings returns every stub mapping on the server. It doubles as the
// readiness probe.
func (c *Client) ListMappings(ctx context.Context) ([]stub.Stub, error) {
	resp, err := c.get(ctx, PathMappings)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp) {
		return nil, c.parseError(resp)
	}

	var list MappingList
	if err := decodeBody(resp, &list); err != nil {
		return nil, err
	}
	return list.Mappings, nil
}

// Ping reports whether the admin API answers. It is a readiness.ProbeFunc.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ListMappings(ctx)
	return err
}

// CreateMapping registers the stub document body and returns the stored
// mapping, which carries the server-assigned id.
func (c *Client) CreateMapping(ctx context.Context, body []byte) (stub.Stub, error) {
	resp, err := c.post(ctx, PathMappings, body)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp) {
		return nil, c.parseError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(resp.Request, 0, err)
	}
	s, err := stub.Decode(data)
	if err != nil {
		return nil, deserializationError(resp.Request, err)
	}
	c.logger.Debug("mapping created", "stubId", s.ID(), "name", s.Name())
	return s, nil
}

// ResetMappings deletes every stub mapping.
func (c *Client) ResetMappings(ctx context.Context) error {
	return c.expectNoContent(c.delete(ctx, PathMappings))
}

// ListRequests returns the request journal.
func (c *Client) ListRequests(ctx context.Context) ([]requestlog.Entry, error) {
	resp, err := c.get(ctx, PathRequests)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp) {
		return nil, c.parseError(resp)
	}

	var list requestlog.ListResponse
	if err := decodeBody(resp, &list); err != nil {
		return nil, err
	}
	if list.RequestJournalDisabled {
		c.logger.Warn("request journal is disabled on the mock server")
	}
	return list.Requests, nil
}

// ResetRequests clears the request journal.
func (c *Client) ResetRequests(ctx context.Context) error {
	return c.expectNoContent(c.delete(ctx, PathRequests))
}

// StartRecording proxies unmatched traffic to targetBaseURL and records it.
func (c *Client) StartRecording(ctx context.Context, targetBaseURL string) error {
	body, err := json.Marshal(NewRecordSpec(targetBaseURL))
	if err != nil {
		return err
	}
	if err := c.expectNoContent(c.post(ctx, PathRecordingsStart, body)); err != nil {
		return err
	}
	c.logger.Info("recording started", "target", targetBaseURL)
	return nil
}

// StopRecording ends the recording session and returns the captured
// mappings in capture order.
func (c *Client) StopRecording(ctx context.Context) (*recording.Result, error) {
	resp, err := c.post(ctx, PathRecordingsStop, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp) {
		return nil, c.parseError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(resp.Request, 0, err)
	}
	result, err := recording.DecodeResult(data)
	if err != nil {
		return nil, deserializationError(resp.Request, err)
	}
	c.logger.Info("recording stopped", "count", len(result.Mappings))
	return result, nil
}

// HTTP helpers

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) delete(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &TransportError{Method: method, URL: c.baseURL + path, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(req, 0, err)
	}
	c.logger.Debug("admin call", "method", method, "url", req.URL.String(), "status", resp.StatusCode, "duration", time.Since(start))
	return resp, nil
}

// expectNoContent drains and closes the response of a call whose body is
// not used.
func (c *Client) expectNoContent(resp *http.Response, err error) error {
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp) {
		return c.parseError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	e := c.transportError(resp.Request, resp.StatusCode, errors.New(http.StatusText(resp.StatusCode)))
	e.Body = errorMessage(body)
	return e
}

func (c *Client) transportError(req *http.Request, status int, err error) *TransportError {
	e := &TransportError{StatusCode: status, Err: err}
	if req != nil {
		e.Method = req.Method
		if req.URL != nil {
			e.URL = req.URL.String()
		}
	}
	c.logger.Debug("admin call failed", "method", e.Method, "url", e.URL, "status", status, "error", err)
	return e
}

// errorMessage extracts a readable message from an error body. The server
// answers errors as {"errors":[{"title":...}]}; anything else is returned
// trimmed.
func errorMessage(body []byte) string {
	var payload struct {
		Errors []struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
		} `json:"errors"`
	}
	if json.Unmarshal(body, &payload) == nil && len(payload.Errors) > 0 {
		titles := make([]string, 0, len(payload.Errors))
		for _, e := range payload.Errors {
			if e.Detail != "" {
				titles = append(titles, e.Title+": "+e.Detail)
				continue
			}
			titles = append(titles, e.Title)
		}
		return strings.Join(titles, "; ")
	}
	return strings.TrimSpace(string(body))
}

func deserializationError(req *http.Request, err error) *DeserializationError {
	e := &DeserializationError{Err: err}
	if req != nil {
		e.Method = req.Method
		if req.URL != nil {
			e.URL = req.URL.String()
		}
	}
	return e
}

func decodeBody(resp *http.Response, v any) error {
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return deserializationError(resp.Request, fmt.Errorf("decoding %T: %w", v, err))
	}
	return nil
}

func isSuccess(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

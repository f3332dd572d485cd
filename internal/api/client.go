// Package api provides the REST client for the fine-tuning platform's admin
// API. The backend owns all training-job state; this client only observes it
// and requests transitions.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound marks stale references: the id no longer exists backend-side.
var ErrNotFound = errors.New("not found")

// genericFailure is shown when the backend omits its error_message field.
const genericFailure = "request failed"

// Error is a non-2xx response from the platform API.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) detect stale-reference failures.
func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client talks to the platform admin API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the given base URL.
// If baseURL is empty, uses TUNECTL_SERVER_URL env var or defaults to
// localhost:8600. Timeout can be configured via TUNECTL_CLIENT_TIMEOUT.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("TUNECTL_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8600/api/v1"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeout := 30 * time.Second
	if t := os.Getenv("TUNECTL_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewWithTimeout creates a client with an explicit request timeout.
func NewWithTimeout(baseURL string, timeout time.Duration) *Client {
	c := New(baseURL)
	if timeout > 0 {
		c.httpClient.Timeout = timeout
	}
	return c
}

// BaseURL returns the resolved API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// errorEnvelope is the error body contract of the platform API.
type errorEnvelope struct {
	ErrorMessage string `json:"error_message"`
}

// do executes one API request. A non-nil body is sent as JSON; a non-nil out
// receives the decoded response. Non-2xx responses become *Error with the
// backend's error_message, falling back to a generic message.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := genericFailure
		var envelope errorEnvelope
		if json.Unmarshal(respBody, &envelope) == nil && envelope.ErrorMessage != "" {
			msg = envelope.ErrorMessage
		}
		return &Error{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

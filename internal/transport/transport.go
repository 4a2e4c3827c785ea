// Package transport performs the single backend call behind each operation trigger.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/commitfit/pkg/models"
)

// Sender performs one request per call. Implementations must not retry.
type Sender interface {
	Send(ctx context.Context, endpoint string, body models.RepoRef) (json.RawMessage, error)
}

// Error is a transport-level failure: the request never completed or the
// reply was not JSON. The message is meant to be shown to the operator.
type Error struct {
	Endpoint string
	Err      error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Client posts JSON bodies to a backend base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given backend. A nil httpClient uses a
// plain http.Client, so only the caller's context bounds a request.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// URL resolves endpoint against the base URL. Absolute endpoints are used as is.
func (c *Client) URL(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if c.baseURL == "" {
		return endpoint
	}
	return c.baseURL + "/" + strings.TrimPrefix(endpoint, "/")
}

// Send posts body as JSON to endpoint and returns the parsed reply. The HTTP
// status is not inspected: the backend reports failures inside the payload,
// and a reply that is not JSON is an error whatever its status.
func (c *Client) Send(ctx context.Context, endpoint string, body models.RepoRef) (json.RawMessage, error) {
	fail := func(format string, args ...interface{}) error {
		return &Error{Endpoint: endpoint, Err: fmt.Errorf(format, args...)}
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fail("failed to marshal request: %w", err)
	}

	url := c.URL(endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fail("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log.Debug().Str("url", url).Str("owner", body.Owner).Str("repo", body.Repo).Msg("POST")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fail("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fail("failed to read response: %w", err)
	}

	log.Debug().Str("url", url).Int("status", resp.StatusCode).Int("bytes", len(data)).Msg("response received")

	var payload json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fail("failed to parse response (HTTP %d): %w", resp.StatusCode, err)
	}

	return payload, nil
}

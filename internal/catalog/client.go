// Package catalog lists the models a local Ollama server offers and shapes them
// into the options of a model-choice control.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mwiater/promptdeck/internal/logging"
)

// tagsPath is the Ollama endpoint that lists locally available models.
const tagsPath = "/api/tags"

// defaultRequestTimeout bounds a fetch when the caller configures none.
const defaultRequestTimeout = 30 * time.Second

// Fetcher returns the model names offered by the server at serverURL.
type Fetcher interface {
	FetchModelNames(ctx context.Context, serverURL string) ([]string, error)
}

// Client fetches model lists over HTTP.
type Client struct {
	client         *http.Client
	requestTimeout time.Duration
}

// NewClient returns a Client using httpClient (http.DefaultClient when nil) and
// the given per-request timeout (a default applies when it is not positive).
func NewClient(httpClient *http.Client, timeout time.Duration) *Client {
	return &Client{client: httpClient, requestTimeout: timeout}
}

// httpClient returns the explicitly configured HTTP client or the shared default client.
func (c *Client) httpClient() *http.Client {
	if c.client != nil {
		return c.client
	}
	return http.DefaultClient
}

// effectiveTimeout resolves the timeout to use for outbound HTTP requests.
func (c *Client) effectiveTimeout() time.Duration {
	if c.requestTimeout > 0 {
		return c.requestTimeout
	}
	return defaultRequestTimeout
}

// FetchModelNames issues GET {serverURL}/api/tags and returns the model names in
// the order the server sent them. Every failure is a *FetchError.
func (c *Client) FetchModelNames(ctx context.Context, serverURL string) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, c.effectiveTimeout())
	defer cancel()

	url := strings.TrimRight(serverURL, "/") + tagsPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, c.fail(serverURL, FetchTransport, 0, err)
	}
	logging.LogRequest("out", serverURL, tagsPath, nil)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, c.fail(serverURL, FetchTransport, 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(serverURL, FetchTransport, resp.StatusCode, fmt.Errorf("error reading response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail(serverURL, FetchStatus, resp.StatusCode, fmt.Errorf("server answered %s: %s", resp.Status, strings.TrimSpace(string(body))))
	}

	names, err := parseTags(body)
	if err != nil {
		return nil, c.fail(serverURL, FetchMalformed, resp.StatusCode, err)
	}
	logging.LogRequest("in", serverURL, tagsPath, names)
	return names, nil
}

func (c *Client) fail(serverURL string, kind FetchKind, status int, err error) *FetchError {
	fe := &FetchError{ServerURL: serverURL, Kind: kind, StatusCode: status, Err: err}
	logging.LogEvent("catalog: %s failure fetching models from %s: %v", kind, serverURL, err)
	return fe
}

// parseTags decodes a /api/tags body. The models field must be a JSON array of
// objects carrying a string name.
func parseTags(body []byte) ([]string, error) {
	var tagsResp struct {
		Models json.RawMessage `json:"models"`
	}
	if err := json.Unmarshal(body, &tagsResp); err != nil {
		return nil, fmt.Errorf("error parsing models: %w", err)
	}
	raw := bytes.TrimSpace(tagsResp.Models)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("error parsing models: \"models\" is not a list")
	}

	var entries []struct {
		Name *string `json:"name"`
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("error parsing models: %w", err)
	}

	names := make([]string, 0, len(entries))
	for i, e := range entries {
		if e.Name == nil {
			return nil, fmt.Errorf("error parsing models: entry %d has no name", i)
		}
		names = append(names, *e.Name)
	}
	return names, nil
}

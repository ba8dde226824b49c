package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
)

// maxBodySize bounds how much of a response is buffered
const maxBodySize = 4 << 20

// TokenSource supplies the bearer token for API requests
type TokenSource interface {
	Token() (string, error)
}

// API is the request surface the Resolver needs
type API interface {
	Get(ctx context.Context, endpoint string, params url.Values, v any) error
}

// Client represents a TMDB API client
type Client struct {
	baseURL    string
	userAgent  string
	tokens     TokenSource
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client. The token is fetched from tokens on
// every request; caching is the TokenSource's job.
func NewClient(tokens TokenSource, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if tokens == nil {
		return nil, fmt.Errorf("tmdb token source is required")
	}

	o := clientOptions{
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Client{
		baseURL:    o.baseURL,
		userAgent:  o.userAgent,
		tokens:     tokens,
		httpClient: o.httpClient,
		logger:     logger,
	}, nil
}

// Get performs an authenticated GET request and decodes the JSON body into v.
// Non-2xx responses, transport failures and malformed bodies are returned as *APIError.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values, v any) error {
	token, err := c.tokens.Token()
	if err != nil {
		return err
	}

	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug().
		Str("url", reqURL).
		Msg("Making TMDB API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{URL: reqURL, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode, URL: reqURL, Message: "failed to read response body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			URL:        reqURL,
			Message:    statusMessage(body, resp.Status),
		}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return &APIError{StatusCode: resp.StatusCode, URL: reqURL, Message: "malformed response body", Err: err}
	}

	return nil
}

// statusMessage prefers TMDB's status_message over the bare HTTP status text
func statusMessage(body []byte, fallback string) string {
	var apiErr errorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.StatusMessage != "" {
		return apiErr.StatusMessage
	}
	return fallback
}

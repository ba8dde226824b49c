package tmdb

import (
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the TMDB v3 API root
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// DefaultImageBaseURL is the root poster URLs are composed from
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"
	// DefaultUserAgent is sent when no other user agent is configured
	DefaultUserAgent = "postarr"

	defaultTimeout = 30 * time.Second
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// WithBaseURL overrides the API root, mainly for tests and proxies.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		if baseURL != "" {
			o.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		if userAgent != "" {
			o.userAgent = userAgent
		}
	}
}

// WithHTTPClient replaces the default HTTP client, e.g. with a retrying one.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

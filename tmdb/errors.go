package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Common errors
var (
	// ErrNotFound indicates the catalog has no movie, or no poster, for an id
	ErrNotFound = errors.New("movie not found")
	// ErrInvalidWidth indicates a poster width outside the supported set
	ErrInvalidWidth = errors.New("invalid width")
	// ErrInvalidSource indicates a malformed external id namespace
	ErrInvalidSource = errors.New("invalid id source")
	// ErrInvalidID indicates an id token that cannot name a poster file
	ErrInvalidID = errors.New("invalid movie id")
)

// APIError represents a failed request against the TMDB API.
// StatusCode is 0 when no response was received.
type APIError struct {
	StatusCode int
	URL        string
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("tmdb API error: %s: %v", e.Message, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("tmdb API error: status %d: %s: %v", e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("tmdb API error: status %d: %s", e.StatusCode, e.Message)
}

// Unwrap returns the underlying error
func (e *APIError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsTransient reports whether repeating the request later could succeed:
// timeouts, connection failures, rate limiting and server errors.
func (e *APIError) IsTransient() bool {
	switch {
	case e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= 500 && e.StatusCode != http.StatusNotImplemented:
		return true
	case e.StatusCode != 0:
		return false
	}

	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr)
}

package poster

import (
	"fmt"
)

// HTTPStatusError represents a non-200 answer from the image host.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("failed with status %d: %s", e.StatusCode, e.URL)
}

// WriteError indicates the image could not be stored at Path.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

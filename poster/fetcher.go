package poster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// FileName returns the destination file name for a movie id. The name depends
// on the id alone so the on-disk layout stays predictable across runs.
// TODO: derive the extension from the served content type once TMDB serves
// anything other than JPEG.
func FileName(token string) string {
	return token + ".jpg"
}

// Fetcher downloads poster images. Image assets are public, so requests
// carry no credentials.
type Fetcher struct {
	client    *http.Client
	userAgent string
	logger    zerolog.Logger
}

// FetcherOption configures a Fetcher
type FetcherOption func(*Fetcher)

// WithUserAgent sets the User-Agent sent to the image host
func WithUserAgent(userAgent string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = userAgent
	}
}

// NewFetcher creates a Fetcher; a nil client gets a plain client with a 30s timeout
func NewFetcher(client *http.Client, logger zerolog.Logger, opts ...FetcherOption) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	f := &Fetcher{
		client: client,
		logger: logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads url to dest unless dest already exists, in which case no
// request is made. On failure nothing is left at dest.
func (f *Fetcher) Fetch(ctx context.Context, url, dest string) (Status, error) {
	found, err := exists(dest)
	if err != nil {
		return StatusWriteFailed, &WriteError{Path: dest, Err: err}
	}
	if found {
		return StatusSkippedExisting, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return StatusTransportFailed, fmt.Errorf("failed to create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return StatusTransportFailed, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return StatusTransportFailed, &HTTPStatusError{URL: url, StatusCode: resp.StatusCode}
	}

	err = writeExclusive(dest, resp.Body)
	var writeErr *WriteError
	switch {
	case err == nil:
		f.logger.Debug().
			Str("url", url).
			Str("path", dest).
			Int64("bytes", resp.ContentLength).
			Msg("Poster stored")
		return StatusDownloaded, nil
	case errors.As(err, &writeErr):
		return StatusWriteFailed, err
	case errors.Is(err, fs.ErrExist):
		// Another worker committed the same destination first
		return StatusSkippedExisting, nil
	default:
		return StatusTransportFailed, err
	}
}

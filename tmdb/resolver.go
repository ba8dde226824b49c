package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// Resolver turns external ids into poster URLs
type Resolver struct {
	api          API
	imageBaseURL string
	logger       zerolog.Logger
}

// NewResolver creates a Resolver composing URLs under imageBaseURL
// (DefaultImageBaseURL when empty).
func NewResolver(api API, imageBaseURL string, logger zerolog.Logger) *Resolver {
	imageBaseURL = strings.TrimRight(imageBaseURL, "/")
	if imageBaseURL == "" {
		imageBaseURL = DefaultImageBaseURL
	}

	return &Resolver{
		api:          api,
		imageBaseURL: imageBaseURL,
		logger:       logger,
	}
}

// Resolve returns the poster URL of id at the given width
func (r *Resolver) Resolve(ctx context.Context, id ExternalID, width Width) (string, error) {
	movie, err := r.Lookup(ctx, id)
	if err != nil {
		return "", err
	}
	return r.PosterURL(movie, width)
}

// Lookup fetches the movie record for id. TMDB ids are read directly from
// /movie/{id}; every other namespace goes through /find and takes the first
// movie result.
func (r *Resolver) Lookup(ctx context.Context, id ExternalID) (*Movie, error) {
	if id.Source == SourceTMDb {
		var movie Movie
		if err := r.api.Get(ctx, "/movie/"+url.PathEscape(id.Token), nil, &movie); err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.IsNotFound() {
				return nil, fmt.Errorf("%w for tmdb id: %s", ErrNotFound, id.Token)
			}
			return nil, fmt.Errorf("failed to get movie %s: %w", id.Token, err)
		}
		return &movie, nil
	}

	params := url.Values{}
	params.Set("external_source", id.Source.ExternalSource())

	var found FindResponse
	if err := r.api.Get(ctx, "/find/"+url.PathEscape(id.Token), params, &found); err != nil {
		return nil, fmt.Errorf("failed to find %s id %s: %w", id.Source, id.Token, err)
	}

	if len(found.MovieResults) == 0 {
		return nil, fmt.Errorf("%w for %s id: %s", ErrNotFound, id.Source, id.Token)
	}

	movie := found.MovieResults[0]
	if len(found.MovieResults) > 1 {
		r.logger.Debug().
			Str("id", id.String()).
			Int("results", len(found.MovieResults)).
			Int64("tmdb_id", movie.ID).
			Msg("Multiple movies matched, using the first")
	}

	return &movie, nil
}

// PosterURL composes base/segment/path for a movie record. A record without a
// poster path is reported as ErrNotFound.
func (r *Resolver) PosterURL(movie *Movie, width Width) (string, error) {
	if movie == nil {
		return "", fmt.Errorf("%w: no movie record", ErrNotFound)
	}

	path := movie.Poster()
	if path == "" {
		return "", fmt.Errorf("%w: movie %d (%s) has no poster", ErrNotFound, movie.ID, movie.Title)
	}

	return r.imageBaseURL + "/" + width.Segment() + "/" + path, nil
}

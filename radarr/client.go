package radarr

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golift.io/starr"
	"golift.io/starr/radarr"

	"github.com/s0up4200/postarr/tmdb"
)

// API is the subset of the starr Radarr client used to list a library
type API interface {
	GetMovieContext(ctx context.Context, params *radarr.GetMovie) ([]*radarr.Movie, error)
	GetTagsContext(ctx context.Context) ([]*starr.Tag, error)
	Ping() error
}

// Client wraps the starr Radarr client with additional functionality
type Client struct {
	client API
	logger zerolog.Logger
}

// NewClient creates a new Radarr client and checks the connection
func NewClient(url, apiKey string, timeout time.Duration, logger zerolog.Logger) (*Client, error) {
	if url == "" || apiKey == "" {
		return nil, fmt.Errorf("radarr url and api key are required")
	}

	config := starr.New(apiKey, url, timeout)
	radarrClient := radarr.New(config)

	// Test the connection
	if err := radarrClient.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to Radarr: %w", err)
	}

	return NewClientWithAPI(radarrClient, logger), nil
}

// NewClientWithAPI creates a Client around an existing API implementation
func NewClientWithAPI(api API, logger zerolog.Logger) *Client {
	return &Client{
		client: api,
		logger: logger,
	}
}

// GetAllMovies retrieves all movies from Radarr
func (c *Client) GetAllMovies(ctx context.Context) ([]*radarr.Movie, error) {
	movies, err := c.client.GetMovieContext(ctx, &radarr.GetMovie{})
	if err != nil {
		return nil, fmt.Errorf("failed to get movies: %w", err)
	}

	c.logger.Debug().Msgf("Retrieved %d movies from Radarr", len(movies))
	return movies, nil
}

// GetTagByName finds a tag by its label, ignoring case
func (c *Client) GetTagByName(ctx context.Context, tagName string) (*starr.Tag, error) {
	tags, err := c.client.GetTagsContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}

	for _, tag := range tags {
		if strings.EqualFold(tag.Label, tagName) {
			return tag, nil
		}
	}

	return nil, fmt.Errorf("tag not found: %s", tagName)
}

// ExternalIDs lists the library as catalog ids, in Radarr's order. Movies are
// addressed by TMDB id, falling back to the IMDb id; movies with neither are
// skipped. A non-empty tag restricts the list to movies carrying that tag.
func (c *Client) ExternalIDs(ctx context.Context, tag string) ([]tmdb.ExternalID, error) {
	movies, err := c.GetAllMovies(ctx)
	if err != nil {
		return nil, err
	}

	tagID := -1
	if tag != "" {
		t, err := c.GetTagByName(ctx, tag)
		if err != nil {
			return nil, err
		}
		tagID = t.ID
	}

	ids := make([]tmdb.ExternalID, 0, len(movies))
	for _, movie := range movies {
		if tagID >= 0 && !slices.Contains(movie.Tags, tagID) {
			continue
		}

		id, err := externalID(movie)
		if err != nil {
			c.logger.Warn().
				Int64("radarr_id", movie.ID).
				Str("title", movie.Title).
				Err(err).
				Msg("Skipping movie without usable catalog id")
			continue
		}
		ids = append(ids, id)
	}

	c.logger.Info().
		Int("movies", len(movies)).
		Int("ids", len(ids)).
		Str("tag", tag).
		Msg("Collected Radarr library")

	return ids, nil
}

func externalID(movie *radarr.Movie) (tmdb.ExternalID, error) {
	if movie.TmdbID > 0 {
		return tmdb.NewExternalID(strconv.FormatInt(movie.TmdbID, 10), tmdb.SourceTMDb)
	}
	if movie.ImdbID != "" {
		return tmdb.NewExternalID(movie.ImdbID, tmdb.SourceIMDb)
	}
	return tmdb.ExternalID{}, tmdb.ErrInvalidID
}

package tmdb

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Source is the namespace an external id was minted in
type Source string

const (
	// SourceIMDb identifies IMDb ids such as tt0111161
	SourceIMDb Source = "imdb"
	// SourceTMDb identifies TMDB's own numeric movie ids
	SourceTMDb Source = "tmdb"
	// SourceYouTube identifies YouTube video ids
	SourceYouTube Source = "youtube"
	// SourceTVDB identifies TheTVDB ids
	SourceTVDB Source = "tvdb"
	// SourceWikidata identifies Wikidata entity ids
	SourceWikidata Source = "wikidata"
	// SourceFacebook identifies Facebook page ids
	SourceFacebook Source = "facebook"
	// SourceInstagram identifies Instagram handles
	SourceInstagram Source = "instagram"
	// SourceTwitter identifies Twitter handles
	SourceTwitter Source = "twitter"
	// SourceTikTok identifies TikTok handles
	SourceTikTok Source = "tiktok"
)

// DefaultSource is used when no namespace is given
const DefaultSource = SourceIMDb

var knownSources = map[Source]bool{
	SourceIMDb:      true,
	SourceTMDb:      true,
	SourceYouTube:   true,
	SourceTVDB:      true,
	SourceWikidata:  true,
	SourceFacebook:  true,
	SourceInstagram: true,
	SourceTwitter:   true,
	SourceTikTok:    true,
}

var sourcePattern = regexp.MustCompile(`^[a-z][a-z0-9]*$`)

// ParseSource normalizes a namespace name. The API spelling "imdb_id" is
// accepted as well as "imdb"; an empty string yields DefaultSource.
func ParseSource(s string) (Source, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, "_id")
	if s == "" {
		return DefaultSource, nil
	}
	if !sourcePattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSource, s)
	}
	return Source(s), nil
}

// Known reports whether TMDB documents this namespace for /find
func (s Source) Known() bool {
	return knownSources[s]
}

// ExternalSource returns the value of the external_source query parameter
func (s Source) ExternalSource() string {
	return string(s) + "_id"
}

// ExternalID is a movie id plus the namespace it belongs to
type ExternalID struct {
	Token  string
	Source Source
}

// NewExternalID validates token and fills in DefaultSource when source is empty.
// The token later names the poster file, so path separators are rejected.
func NewExternalID(token string, source Source) (ExternalID, error) {
	token = strings.TrimSpace(token)
	if source == "" {
		source = DefaultSource
	}

	switch {
	case token == "":
		return ExternalID{}, fmt.Errorf("%w: empty id", ErrInvalidID)
	case token == "." || token == "..":
		return ExternalID{}, fmt.Errorf("%w: %q", ErrInvalidID, token)
	case strings.ContainsAny(token, `/\`):
		return ExternalID{}, fmt.Errorf("%w: %q contains a path separator", ErrInvalidID, token)
	}

	return ExternalID{Token: token, Source: source}, nil
}

// String returns "source:token"
func (id ExternalID) String() string {
	return string(id.Source) + ":" + id.Token
}

// Movie is the subset of a TMDB movie record used by postarr.
// It is returned both by /movie/{id} and inside /find movie_results.
type Movie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	OriginalLanguage string  `json:"original_language"`
	ReleaseDate      string  `json:"release_date"`
	Adult            bool    `json:"adult"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	PosterPath       *string `json:"poster_path"`
}

// Year returns the release year, or 0 when the release date is unknown
func (m *Movie) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// Poster returns the poster path without leading separators, or "" when absent
func (m *Movie) Poster() string {
	if m.PosterPath == nil {
		return ""
	}
	return strings.TrimLeft(strings.TrimSpace(*m.PosterPath), "/")
}

// FindResponse represents the response of the /find endpoint
type FindResponse struct {
	MovieResults []Movie `json:"movie_results"`
}

// errorResponse is the body TMDB sends with non-2xx responses
type errorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

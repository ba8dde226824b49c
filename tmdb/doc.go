// Package tmdb resolves external movie identifiers to poster URLs using the TMDB v3 API.
//
// TMDB knows every movie under its own numeric id but can also look a movie up by
// an id minted elsewhere (IMDb, YouTube, TVDB, Wikidata, ...). This package wraps
// the two endpoints needed for that and composes image URLs for a chosen width.
//
// # Architecture
//
//   - Client: authenticated JSON transport with error classification
//   - Resolver: routes an ExternalID to /movie/{id} or /find/{id} and builds the poster URL
//   - Types: ExternalID, Source, Width and the Movie record
//   - Errors: ErrNotFound, ErrInvalidWidth, ErrInvalidSource, ErrInvalidID and APIError
//
// # Usage
//
//	client, err := tmdb.NewClient(credentials, logger,
//		tmdb.WithHTTPClient(httpClient),
//		tmdb.WithUserAgent("postarr/1.0.0"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resolver := tmdb.NewResolver(client, tmdb.DefaultImageBaseURL, logger)
//	id, _ := tmdb.NewExternalID("tt0111161", tmdb.SourceIMDb)
//	url, err := resolver.Resolve(ctx, id, tmdb.Original)
//
// # Error Handling
//
// A movie that cannot be found, or that has no poster, yields an error wrapping
// ErrNotFound. Everything else that goes wrong talking to the API is an *APIError:
//
//	var apiErr *tmdb.APIError
//	if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
//		// bad token
//	}
package tmdb

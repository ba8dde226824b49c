package poster

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/postarr/tmdb"
)

const (
	// DefaultConcurrency is used when Options.Concurrency is zero
	DefaultConcurrency = 4
	// MaxConcurrency is the upper bound for Options.Concurrency
	MaxConcurrency = 16
)

// Resolver looks movies up and composes their poster URLs
type Resolver interface {
	Lookup(ctx context.Context, id tmdb.ExternalID) (*tmdb.Movie, error)
	PosterURL(movie *tmdb.Movie, width tmdb.Width) (string, error)
}

// ImageFetcher stores a poster URL at a destination path
type ImageFetcher interface {
	Fetch(ctx context.Context, url, dest string) (Status, error)
}

// MovieFilter decides whether a resolved movie should be downloaded
type MovieFilter interface {
	Match(movie *tmdb.Movie) (bool, error)
}

// Observer receives per-item progress. Implementations must be safe for
// concurrent use: OnItemDone is called from worker goroutines.
type Observer interface {
	OnItemDone(index, total int, result Result)
}

// Options configures a Downloader
type Options struct {
	OutputDir   string
	Width       tmdb.Width
	Concurrency int
	Filter      MovieFilter
	Observer    Observer
}

// Result is the outcome for one id
type Result struct {
	ID       tmdb.ExternalID
	Status   Status
	Path     string
	URL      string
	Stage    Stage
	Err      error
	Duration time.Duration
}

// Downloader runs the resolve-and-fetch pipeline over a batch of ids
type Downloader struct {
	resolver Resolver
	fetcher  ImageFetcher
	opts     Options
	logger   zerolog.Logger
}

// NewDownloader creates a Downloader. Concurrency is clamped to 1..MaxConcurrency,
// zero meaning DefaultConcurrency.
func NewDownloader(resolver Resolver, fetcher ImageFetcher, opts Options, logger zerolog.Logger) *Downloader {
	switch {
	case opts.Concurrency == 0:
		opts.Concurrency = DefaultConcurrency
	case opts.Concurrency < 1:
		opts.Concurrency = 1
	case opts.Concurrency > MaxConcurrency:
		opts.Concurrency = MaxConcurrency
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "posters"
	}

	return &Downloader{
		resolver: resolver,
		fetcher:  fetcher,
		opts:     opts,
		logger:   logger,
	}
}

// Run processes ids in input order, each exactly once. Per-item failures are
// recorded in the report and never stop the batch; the only error returned is
// failing to create the output directory.
//
// Cancelling ctx stops scheduling new ids. Items already running finish on a
// context detached from ctx, bounded by the HTTP client timeouts.
func (d *Downloader) Run(ctx context.Context, ids []tmdb.ExternalID) (*Report, error) {
	started := time.Now()

	if err := os.MkdirAll(d.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", d.opts.OutputDir, err)
	}

	d.logger.Info().
		Int("ids", len(ids)).
		Str("output_dir", d.opts.OutputDir).
		Str("width", d.opts.Width.String()).
		Int("concurrency", d.opts.Concurrency).
		Msg("Downloading posters")

	results := make([]Result, len(ids))
	processed := make([]bool, len(ids))
	workCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(d.opts.Concurrency)

	var interrupted atomic.Bool
	for i, id := range ids {
		if ctx.Err() != nil {
			interrupted.Store(true)
			break
		}

		// g.Go blocks while the pool is full, so ctx is checked again once a slot frees up
		g.Go(func() error {
			if ctx.Err() != nil {
				interrupted.Store(true)
				return nil
			}

			res := d.process(workCtx, id)
			results[i] = res
			processed[i] = true

			if d.opts.Observer != nil {
				d.opts.Observer.OnItemDone(i, len(ids), res)
			}
			return nil // Don't stop on individual errors
		})
	}
	g.Wait()

	report := &Report{
		Total:       len(ids),
		Results:     make([]Result, 0, len(ids)),
		Interrupted: interrupted.Load(),
		Duration:    time.Since(started),
	}
	for i := range results {
		if processed[i] {
			report.Results = append(report.Results, results[i])
		}
	}

	if report.Interrupted {
		d.logger.Warn().
			Int("processed", len(report.Results)).
			Int("total", len(ids)).
			Msg("Run interrupted, remaining ids were not scheduled")
	}

	return report, nil
}

// process resolves and fetches a single id
func (d *Downloader) process(ctx context.Context, id tmdb.ExternalID) Result {
	started := time.Now()
	res := Result{
		ID:   id,
		Path: filepath.Join(d.opts.OutputDir, FileName(id.Token)),
	}
	log := d.logger.With().Str("id", id.Token).Str("source", string(id.Source)).Logger()

	finish := func(status Status, stage Stage, err error) Result {
		res.Status = status
		res.Stage = stage
		res.Err = err
		res.Duration = time.Since(started)

		event := log.Debug()
		if status.IsFailure() {
			event = log.Warn().Err(err).Str("stage", string(stage))
		}
		event.Str("status", status.String()).
			Str("path", res.Path).
			Dur("duration", res.Duration).
			Msg("Processed id")
		return res
	}

	// Skipping here saves the rate-limited API call, not just the download
	found, err := exists(res.Path)
	if err != nil {
		return finish(StatusWriteFailed, StageWrite, &WriteError{Path: res.Path, Err: err})
	}
	if found {
		return finish(StatusSkippedExisting, StageNone, nil)
	}

	movie, err := d.resolver.Lookup(ctx, id)
	if err != nil {
		return finish(resolveStatus(err), StageResolve, err)
	}

	if d.opts.Filter != nil {
		ok, err := d.opts.Filter.Match(movie)
		if err != nil {
			return finish(StatusFilterFailed, StageFilter, err)
		}
		if !ok {
			return finish(StatusFiltered, StageFilter, nil)
		}
	}

	url, err := d.resolver.PosterURL(movie, d.opts.Width)
	if err != nil {
		return finish(resolveStatus(err), StageResolve, err)
	}
	res.URL = url

	status, err := d.fetcher.Fetch(ctx, url, res.Path)
	switch status {
	case StatusTransportFailed:
		return finish(status, StageFetch, err)
	case StatusWriteFailed:
		return finish(status, StageWrite, err)
	default:
		return finish(status, StageNone, err)
	}
}

func resolveStatus(err error) Status {
	if errors.Is(err, tmdb.ErrNotFound) {
		return StatusNotFound
	}
	return StatusTransportFailed
}

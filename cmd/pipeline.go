package cmd

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/s0up4200/postarr/config"
	"github.com/s0up4200/postarr/credential"
	"github.com/s0up4200/postarr/filter"
	"github.com/s0up4200/postarr/network"
	"github.com/s0up4200/postarr/poster"
	"github.com/s0up4200/postarr/tmdb"
)

// pipeline is the assembled resolve-and-fetch chain for one invocation
type pipeline struct {
	downloader *poster.Downloader
	logger     zerolog.Logger
}

// newPipeline wires credentials, HTTP clients, resolver, filter and fetcher.
// The credential is checked here so a missing token fails before any request.
func newPipeline(cfg *config.Config, logger zerolog.Logger) (*pipeline, error) {
	tokens := credential.NewProvider(logger)
	if _, err := tokens.Token(); err != nil {
		return nil, err
	}

	w, err := tmdb.ParseWidth(cfg.Download.Width)
	if err != nil {
		return nil, err
	}

	netOpts := network.Options{
		Timeout:    cfg.TMDB.Timeout,
		MaxRetries: cfg.TMDB.MaxRetries,
	}

	api, err := tmdb.NewClient(tokens, logger,
		tmdb.WithBaseURL(cfg.TMDB.APIURL),
		tmdb.WithUserAgent(userAgent()),
		tmdb.WithHTTPClient(network.NewClient(netOpts, logger)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create TMDB client: %w", err)
	}

	opts := poster.Options{
		OutputDir:   cfg.Download.OutputDir,
		Width:       w,
		Concurrency: cfg.Download.Concurrency,
		Observer:    &progressObserver{logger: logger},
	}
	if cfg.Download.Filter != "" {
		f, err := filter.Compile(cfg.Download.Filter)
		if err != nil {
			return nil, fmt.Errorf("invalid filter: %w", err)
		}
		opts.Filter = f
		logger.Info().Str("filter", f.String()).Msg("Filtering movies")
	}

	resolver := tmdb.NewResolver(api, cfg.TMDB.ImageURL, logger)
	fetcher := poster.NewFetcher(network.NewClient(netOpts, logger), logger, poster.WithUserAgent(userAgent()))

	return &pipeline{
		downloader: poster.NewDownloader(resolver, fetcher, opts, logger),
		logger:     logger,
	}, nil
}

// run downloads ids and prints one line per processed id. Successful lines go
// to out, failures to errOut, both in input order.
func (p *pipeline) run(ctx context.Context, ids []tmdb.ExternalID, out, errOut io.Writer) error {
	if len(ids) == 0 {
		p.logger.Warn().Msg("No ids to process")
		return nil
	}

	report, err := p.downloader.Run(ctx, ids)
	if err != nil {
		return err
	}

	printReport(out, errOut, report)

	counts := report.Counts()
	p.logger.Info().
		Int("total", report.Total).
		Int("downloaded", counts[poster.StatusDownloaded]).
		Int("skipped", counts[poster.StatusSkippedExisting]).
		Int("filtered", counts[poster.StatusFiltered]).
		Int("failed", len(report.Failed())).
		Dur("duration", report.Duration).
		Msg("Run complete")

	if !report.OK() {
		return errPartialFailure
	}
	return nil
}

func printReport(out, errOut io.Writer, report *poster.Report) {
	for _, res := range report.Results {
		switch {
		case res.Status.IsFailure():
			fmt.Fprintf(errOut, "%s\t%s\t%s: %v\n", res.Status, res.ID.Token, res.Stage, res.Err)
		case res.Status == poster.StatusFiltered:
			fmt.Fprintf(out, "%s\t%s\n", res.Status, res.ID.Token)
		default:
			fmt.Fprintf(out, "%s\t%s\t%s\n", res.Status, res.ID.Token, res.Path)
		}
	}
	if report.Interrupted {
		fmt.Fprintf(errOut, "interrupted after %d of %d ids\n", len(report.Results), report.Total)
	}
}

// progressObserver logs a running count as items complete
type progressObserver struct {
	logger zerolog.Logger
	done   atomic.Int64
}

func (o *progressObserver) OnItemDone(index, total int, result poster.Result) {
	n := o.done.Add(1)
	o.logger.Debug().
		Int64("done", n).
		Int("total", total).
		Str("id", result.ID.Token).
		Str("status", result.Status.String()).
		Msg("Progress")
}

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/s0up4200/postarr/poster"
	"github.com/s0up4200/postarr/tmdb"
)

func runDownload(cmd *cobra.Command, args []string) error {
	src, err := tmdb.ParseSource(cfg.Download.Source)
	if err != nil {
		return err
	}
	if !src.Known() {
		logger.Warn().Str("source", string(src)).Msg("Source is not documented by TMDB, lookups will likely fail")
	}

	if len(args) == 0 && (inputFile == "" || inputFile == "-") && isTerminal(os.Stdin) {
		_ = cmd.Usage()
		return fmt.Errorf("no ids given: pass them as arguments, with --file, or on stdin")
	}

	p, err := newPipeline(cfg, logger)
	if err != nil {
		return err
	}

	ids, rejected, err := collectIDs(args, inputFile, cmd.InOrStdin(), src)
	if err != nil {
		return err
	}
	for _, token := range rejected {
		logger.Warn().Str("id", token).Msg("Skipping invalid id")
		fmt.Fprintf(cmd.ErrOrStderr(), "invalid\t%s\n", token)
	}

	err = p.run(cmd.Context(), ids, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err == nil && len(rejected) > 0 {
		return errPartialFailure
	}
	return err
}

// collectIDs takes ids from args when given, otherwise from file or stdin
func collectIDs(args []string, file string, stdin io.Reader, src tmdb.Source) ([]tmdb.ExternalID, []string, error) {
	var r io.Reader
	switch {
	case len(args) > 0:
		r = strings.NewReader(strings.Join(args, "\n"))
	case file == "" || file == "-":
		r = stdin
	default:
		f, err := os.Open(file)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open id file: %w", err)
		}
		defer f.Close()
		r = f
	}

	return poster.ReadIDs(r, src)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/postarr/config"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger

	// Command flags
	inputFile   string
	width       string
	source      string
	outputDir   string
	concurrency int
	filterExpr  string
)

// errPartialFailure signals that the run finished but not every id succeeded
var errPartialFailure = errors.New("some posters could not be downloaded")

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "postarr [ids...]",
	Short: "Download movie posters from TMDB by IMDb, TMDB or other external ids",
	Long: `postarr resolves movie ids to TMDB poster images and downloads them into a
directory, skipping posters that are already present.

Ids are taken from the arguments, from --file, or from standard input,
separated by whitespace or newlines:

  postarr tt0111161 tt0068646
  postarr --source tmdb --width 500 --file ids.txt
  cat ids.txt | postarr --out ./covers

The TMDB API read access token is read from $TMDB_KEY, a .TMDB_KEY file in the
working directory, or the OS keyring (see "postarr auth set").`,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: initializeApp,
	RunE:              runDownload,
	SilenceErrors:     true,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and exits with
// 0 on success, 2 when some ids failed or the run was interrupted, 1 otherwise.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil && !errors.Is(err, errPartialFailure) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errPartialFailure):
		return 2
	default:
		return 1
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&width, "width", "w", "", "poster width: 92, 154, 185, 342, 500, 780 or original (default original)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "out", "o", "", "output directory (default ./posters)")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 0, "number of posters processed in parallel (default 4, max 16)")
	rootCmd.PersistentFlags().StringVar(&filterExpr, "filter", "", `only download movies matching this expression, e.g. 'Year >= 1990 and Rating > 7'`)

	rootCmd.Flags().StringVarP(&inputFile, "file", "f", "", "file with movie ids, - for stdin (default stdin)")
	rootCmd.Flags().StringVarP(&source, "source", "s", "", "id namespace: imdb, tmdb, youtube, tvdb, wikidata, ... (default imdb)")
}

// initializeApp loads the configuration, applies flag overrides and sets up logging
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Download.Width = width
	}
	if flags.Changed("source") {
		cfg.Download.Source = source
	}
	if flags.Changed("out") {
		cfg.Download.OutputDir = outputDir
	}
	if flags.Changed("concurrency") {
		cfg.Download.Concurrency = concurrency
	}
	if flags.Changed("filter") {
		cfg.Download.Filter = filterExpr
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	logger = setupLogger(cfg.Logging).With().Str("run_id", uuid.NewString()).Logger()
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

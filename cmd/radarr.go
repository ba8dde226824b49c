package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/postarr/radarr"
)

var radarrTag string

// radarrCmd downloads posters for a Radarr library
var radarrCmd = &cobra.Command{
	Use:   "radarr",
	Short: "Download posters for every movie in a Radarr library",
	Long: `Download posters for every movie in a Radarr library.

Movies are looked up by their TMDB id, or by IMDb id when Radarr has no TMDB id.
Poster files are named after that id. Connection details come from
radarr.url and radarr.api_key in the config file or POSTARR_RADARR_URL and
POSTARR_RADARR_API_KEY.`,
	Args: cobra.NoArgs,
	RunE: runRadarr,
}

func init() {
	rootCmd.AddCommand(radarrCmd)

	radarrCmd.Flags().StringVar(&radarrTag, "tag", "", "only movies carrying this Radarr tag")
}

func runRadarr(cmd *cobra.Command, args []string) error {
	tag := cfg.Radarr.Tag
	if cmd.Flags().Changed("tag") {
		tag = radarrTag
	}

	p, err := newPipeline(cfg, logger)
	if err != nil {
		return err
	}

	client, err := radarr.NewClient(cfg.Radarr.URL, cfg.Radarr.APIKey, cfg.TMDB.Timeout, logger)
	if err != nil {
		return fmt.Errorf("failed to create Radarr client: %w", err)
	}

	ids, err := client.ExternalIDs(cmd.Context(), tag)
	if err != nil {
		return err
	}

	return p.run(cmd.Context(), ids, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/postarr/credential"
)

// authCmd manages the TMDB token stored in the OS keyring
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the TMDB API token stored in the OS keyring",
}

var authSetCmd = &cobra.Command{
	Use:   "set [token]",
	Short: "Store a TMDB API read access token in the OS keyring",
	Long: `Store a TMDB API read access token in the OS keyring.

The token is read from the argument or, when omitted, from the first line of
standard input. $TMDB_KEY and .TMDB_KEY still take precedence over the keyring.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var token string
		if len(args) == 1 {
			token = args[0]
		} else {
			scanner := bufio.NewScanner(cmd.InOrStdin())
			if scanner.Scan() {
				token = scanner.Text()
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read token: %w", err)
			}
		}

		if err := credential.Store(strings.TrimSpace(token)); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "TMDB token stored in keyring")
		return nil
	},
}

var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the TMDB API token from the OS keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := credential.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "TMDB token removed from keyring")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the TMDB API token would be loaded from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tokens := credential.NewProvider(logger)
		if _, err := tokens.Token(); err != nil {
			if errors.Is(err, credential.ErrMissing) {
				fmt.Fprintln(cmd.OutOrStdout(), "No TMDB token found")
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "TMDB token found (%s)\n", tokens.Origin())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetCmd, authClearCmd, authStatusCmd)
}

// Package cli implements the changelogit command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/ariel-frischer/changelogit/internal/changelog"
	"github.com/ariel-frischer/changelogit/internal/config"
	clierrors "github.com/ariel-frischer/changelogit/internal/errors"
	"github.com/ariel-frischer/changelogit/internal/git"
	"github.com/ariel-frischer/changelogit/internal/pullrequest"
	"github.com/spf13/cobra"
)

// Command groups shown in help output.
const (
	GroupChangelog     = "changelog"
	GroupConfiguration = "configuration"
)

var rootCmd = &cobra.Command{
	Use:   "changelogit",
	Short: "Build changelogs from git tags and commits",
	Long: `changelogit reads a repository's tags and commit history and groups every
commit under the release tag it shipped in. Commits made after the newest tag
are collected under a head tag (n.n.n by default). Merge commits created from
pull requests can be enriched with the pull request's title, author and labels.

Source: https://github.com/ariel-frischer/changelogit`,
	Example: `  # Unreleased commits plus the latest release, as JSON
  changelogit build

  # Everything between two releases (start exclusive, final inclusive)
  changelogit build --start v1.2.0 --final v1.4.0

  # The whole history as YAML, with GitHub pull-request data
  changelogit build --all --format yaml --pull-requests

  # List release tags
  changelogit tags`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupDebugLogging,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupChangelog, Title: "Changelog Commands:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration Commands:"},
	)

	rootCmd.PersistentFlags().StringP("config", "c", "", "Project config file (default .changelogit/config.yml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Log git commands and API calls to stderr (or set CHANGELOGIT_DEBUG=1)")
}

// ExecuteContext runs the root command and prints any error with its
// remediation. Cancelling ctx stops running git and API calls.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		clierrors.FprintAny(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// setupDebugLogging wires the package debug loggers to stderr when requested.
func setupDebugLogging(cmd *cobra.Command, _ []string) error {
	debug, _ := cmd.Flags().GetBool("debug")
	if !debug && os.Getenv("CHANGELOGIT_DEBUG") == "" {
		return nil
	}

	w := cmd.ErrOrStderr()
	var mu sync.Mutex
	logger := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, "[debug] "+format+"\n", args...)
	}
	changelog.SetDebugLogger(logger)
	git.SetDebugLogger(logger)
	pullrequest.SetDebugLogger(logger)
	return nil
}

// loadConfig loads configuration honoring the --config flag.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: path,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, clierrors.ConfigParseError(err)
	}
	return cfg, nil
}

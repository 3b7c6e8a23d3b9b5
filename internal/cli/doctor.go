package cli

import (
	"fmt"

	"github.com/ariel-frischer/changelogit/internal/config"
	clierrors "github.com/ariel-frischer/changelogit/internal/errors"
	"github.com/ariel-frischer/changelogit/internal/health"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check git, the repository and pull-request access",
	Long: `Check that changelogit can run here: the git executable, the repository
and its tags. With pull-request enrichment enabled (config or --pull-requests),
also check the hosted repository and its credentials.`,
	Example: `  changelogit doctor
  changelogit doctor --pull-requests --owner octo --repo widgets`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(doctorCmd)

	f := doctorCmd.Flags()
	f.String("dir", "", "Repository directory (default current directory)")
	f.Bool("pull-requests", false, "Also check pull-request access")
	f.String("provider", "", "Pull-request provider: github or gitea")
	f.String("owner", "", "Repository owner on the hosting service")
	f.String("repo", "", "Repository name on the hosting service")
	f.String("api-url", "", "Hosting API base URL")
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	buildFlagOverrides(cmd, cfg)
	if err := config.ValidateConfigValues(cfg, "flags"); err != nil {
		return clierrors.Wrap(err, clierrors.Argument, "See 'changelogit doctor --help'")
	}

	dir := repoDir(cfg)
	opts := health.Options{GitBinary: cfg.Git.Binary, Dir: dir}

	var sourceErr error
	if cfg.PullRequests.Enabled {
		source, err := newSource(cfg, dir)
		if err != nil {
			sourceErr = err
		} else {
			opts.Source = source
			opts.SourceName = cfg.PullRequests.Provider
			opts.Credentials = cfg.PullRequests.Credentials()
		}
	}

	report := health.RunHealthChecks(cmd.Context(), opts)
	if sourceErr != nil {
		report.Add(health.CheckResult{
			Name:    cfg.PullRequests.Provider + " repository",
			Passed:  false,
			Message: "owner/repo not set and not derivable from the origin remote",
		})
	}

	fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))
	if !report.Passed {
		return clierrors.NewPrerequisiteError("one or more checks failed",
			"Fix the checks marked ✗ above",
			"Run 'changelogit config show' to review the settings in effect",
		)
	}
	return nil
}

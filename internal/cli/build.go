package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/ariel-frischer/changelogit/internal/changelog"
	"github.com/ariel-frischer/changelogit/internal/config"
	clierrors "github.com/ariel-frischer/changelogit/internal/errors"
	"github.com/ariel-frischer/changelogit/internal/git"
	"github.com/ariel-frischer/changelogit/internal/progress"
	"github.com/ariel-frischer/changelogit/internal/pullrequest"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a changelog of tags and their commits",
	Long: `Build a changelog from the repository's tags and commits.

Each selected tag receives the commits made since the previous tag. With no
--final tag, a head tag (title_tag, default n.n.n) collects the commits made
after the newest tag. Without --start or --final only the head tag and the
newest release are returned; --all returns every tag.

--start is exclusive: selection stops at that tag. --final is inclusive.

Flags override configuration (.changelogit/config.yml, CHANGELOGIT_* env vars).`,
	Example: `  changelogit build
  changelogit build --start v1.0.0 --final v2.0.0
  changelogit build --all --no-merges --format yaml -o CHANGELOG.yml
  changelogit build --merges-only --pull-requests --owner octo --repo widgets`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(buildCmd)

	f := buildCmd.Flags()
	f.String("start", "", "Oldest boundary tag (exclusive)")
	f.String("final", "", "Newest tag to include (inclusive); omits the head tag")
	f.BoolP("all", "a", false, "Include every tag, ignoring --start and --final")
	f.Bool("no-merges", false, "Drop merge commits")
	f.Bool("merges-only", false, "Keep only merge commits (wins over --no-merges)")
	f.String("title", "", "Name of the head tag (default n.n.n)")
	f.StringP("format", "f", "", "Output format: json or yaml")
	f.StringP("output", "o", "", "Write to file instead of stdout")
	f.String("dir", "", "Repository directory (default current directory)")
	f.Duration("timeout", 0, "Abort after this long (0 = no limit)")

	f.Bool("pull-requests", false, "Enrich merge commits with pull-request data")
	f.String("provider", "", "Pull-request provider: github or gitea")
	f.String("owner", "", "Repository owner on the hosting service")
	f.String("repo", "", "Repository name on the hosting service")
	f.String("api-url", "", "Hosting API base URL")
}

// buildFlagOverrides applies explicitly set flags on top of the loaded config.
func buildFlagOverrides(cmd *cobra.Command, cfg *config.Configuration) {
	f := cmd.Flags()
	setBool := func(name string, dst *bool) {
		if f.Changed(name) {
			*dst, _ = f.GetBool(name)
		}
	}
	setString := func(name string, dst *string) {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}

	setBool("all", &cfg.ListAll)
	setBool("no-merges", &cfg.NoMerges)
	setBool("merges-only", &cfg.MergesOnly)
	setString("title", &cfg.TitleTag)
	setString("format", &cfg.Format)
	setString("dir", &cfg.Git.Dir)
	setBool("pull-requests", &cfg.PullRequests.Enabled)
	setString("provider", &cfg.PullRequests.Provider)
	setString("owner", &cfg.PullRequests.Owner)
	setString("repo", &cfg.PullRequests.Repo)
	setString("api-url", &cfg.PullRequests.APIURL)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	buildFlagOverrides(cmd, cfg)
	if err := config.ValidateConfigValues(cfg, "flags"); err != nil {
		return clierrors.Wrap(err, clierrors.Argument, "See 'changelogit build --help'")
	}

	startTag, _ := cmd.Flags().GetString("start")
	finalTag, _ := cmd.Flags().GetString("final")

	dir := repoDir(cfg)
	if err := checkTags(dir, startTag, finalTag); err != nil {
		return err
	}

	ctx := cmd.Context()
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	runner := git.NewCLIRunner(cfg.Git.Binary, dir)
	if err := checkListedTags(ctx, runner, cfg.Git.Binary, startTag, finalTag); err != nil {
		return err
	}

	cl, err := changelog.Build(ctx, runner, startTag, finalTag, cfg.ChangelogOptions())
	if err != nil {
		return buildError(cfg.Git.Binary, err)
	}

	var result any = cl
	if cfg.PullRequests.Enabled {
		enriched, err := enrich(ctx, cmd, cfg, dir, cl)
		if err != nil {
			return err
		}
		result = enriched
	}

	outputPath, _ := cmd.Flags().GetString("output")
	return writeResult(cmd, outputPath, result, cfg.Format)
}

// repoDir returns the configured repository directory, "." when unset.
func repoDir(cfg *config.Configuration) string {
	if cfg.Git.Dir == "" {
		return "."
	}
	return cfg.Git.Dir
}

// checkTags verifies the repository and that the boundary tags exist, so a
// typo is reported instead of silently producing an empty changelog.
func checkTags(dir, startTag, finalTag string) error {
	if !git.IsGitRepository(dir) {
		return clierrors.NotGitRepository(dir)
	}

	for _, boundary := range []struct{ flag, name string }{
		{"start", startTag},
		{"final", finalTag},
	} {
		if boundary.name == "" {
			continue
		}
		exists, err := git.TagExists(dir, boundary.name)
		if err != nil {
			return clierrors.WrapWithMessage(err, clierrors.Runtime, "checking tag "+boundary.name)
		}
		if !exists {
			names, _ := git.TagNames(dir)
			return clierrors.UnknownTag(boundary.flag, boundary.name, names)
		}
	}
	return nil
}

// checkListedTags rejects boundary tags that exist in git but that the tag
// listing does not report, such as a second tag on an already tagged commit.
func checkListedTags(ctx context.Context, runner changelog.Runner, binary, startTag, finalTag string) error {
	if startTag == "" && finalTag == "" {
		return nil
	}

	tags, err := changelog.NewTagLister(runner).List(ctx)
	if err != nil {
		return buildError(binary, err)
	}
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}

	for _, boundary := range []struct{ flag, name string }{
		{"start", startTag},
		{"final", finalTag},
	} {
		if boundary.name != "" && !slices.Contains(names, boundary.name) {
			return clierrors.UnlistedTag(boundary.flag, boundary.name, names)
		}
	}
	return nil
}

// enrich looks up pull requests for merge commits, showing progress on stderr.
func enrich(ctx context.Context, cmd *cobra.Command, cfg *config.Configuration, dir string, cl *changelog.Changelog) (*pullrequest.EnrichedChangelog, error) {
	source, err := newSource(cfg, dir)
	if err != nil {
		return nil, err
	}

	stderr := cmd.ErrOrStderr()
	var spin *progress.Spinner
	if f, ok := stderr.(*os.File); ok {
		spin = progress.NewSpinner(f, progress.DetectTerminalCapabilities(f))
		spin.Start("looking up pull requests")
	}

	var warnings []error
	opts := []pullrequest.Option{
		pullrequest.WithCredentials(cfg.PullRequests.Credentials()),
		pullrequest.WithWarningHandler(func(err error) {
			warnings = append(warnings, err)
		}),
	}
	if spin != nil {
		opts = append(opts, pullrequest.WithProgress(spin.Counter("commits")))
	}

	enriched, err := pullrequest.Enrich(ctx, cl, source, opts...)
	if spin != nil {
		if err != nil {
			spin.Fail("pull-request lookup failed")
		} else {
			spin.Succeed(fmt.Sprintf("%d pull requests resolved", len(enriched.PullRequests)))
		}
	}
	for _, w := range warnings {
		fmt.Fprintf(stderr, "Warning: %v\n", w)
	}
	if err != nil {
		return nil, enrichError(cfg.PullRequests.Provider, err)
	}
	return enriched, nil
}

// newSource creates the configured pull-request source. Owner and repo fall
// back to the origin remote.
func newSource(cfg *config.Configuration, dir string) (pullrequest.Source, error) {
	pr := cfg.PullRequests
	if pr.Owner == "" || pr.Repo == "" {
		owner, repo, err := git.OriginOwnerRepo(dir)
		if err != nil {
			return nil, clierrors.RemoteNotDetected(err)
		}
		if pr.Owner == "" {
			pr.Owner = owner
		}
		if pr.Repo == "" {
			pr.Repo = repo
		}
	}

	switch pr.Provider {
	case config.ProviderGitea:
		return pullrequest.NewGiteaSource(pr.APIURL, pr.Owner, pr.Repo, nil), nil
	default:
		return pullrequest.NewGitHubSource(pr.APIURL, pr.Owner, pr.Repo, nil), nil
	}
}

func enrichError(provider string, err error) error {
	var apiErr *pullrequest.HostingAPIError
	if errors.As(err, &apiErr) && apiErr.IsAuth() {
		return clierrors.PullRequestAuthFailed(provider, err)
	}
	return clierrors.WrapWithMessage(err, clierrors.Runtime, "pull-request lookup failed",
		"Re-run with --debug to see the API requests")
}

// writeResult encodes v to the output file, or stdout when path is empty.
func writeResult(cmd *cobra.Command, path string, v any, format string) error {
	if path == "" {
		return encodeResult(cmd.OutOrStdout(), v, format)
	}

	f, err := os.Create(path)
	if err != nil {
		return clierrors.FileNotWritable(path, err)
	}
	if err := encodeResult(f, v, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return clierrors.FileNotWritable(path, err)
	}
	return nil
}

func encodeResult(w io.Writer, v any, format string) error {
	if err := changelog.Encode(w, v, format); err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "writing changelog")
	}
	return nil
}

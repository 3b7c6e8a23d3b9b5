package cli

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/ariel-frischer/changelogit/internal/changelog"
	"github.com/ariel-frischer/changelogit/internal/git"
	"github.com/ariel-frischer/changelogit/internal/pullrequest"
	"github.com/ariel-frischer/changelogit/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Note: tests in this package cannot run in parallel because they execute the
// global rootCmd, whose flags keep their values between runs.

// execute runs the CLI with args from a fresh temp directory. It returns
// stdout, stderr and the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeIn(t, t.TempDir(), args...)
}

// executeIn runs the CLI from dir, with the user config under dir/xdg.
func executeIn(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()

	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GITEA_TOKEN", "")
	t.Setenv("CHANGELOGIT_DEBUG", "")

	resetFlags(rootCmd)
	t.Cleanup(func() {
		resetFlags(rootCmd)
		changelog.SetDebugLogger(nil)
		git.SetDebugLogger(nil)
		pullrequest.SetDebugLogger(nil)
	})

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	err := ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// resetFlags restores every flag of cmd and its subcommands to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git executable not available")
	}
}

// fixture history: initial (v1), feature, Merge pull request #42 (v2), unreleased.
type fixture struct {
	repo                                *testutil.Repo
	initial, feature, merge, unreleased string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	requireGit(t)

	r := testutil.NewRepo(t)
	f := fixture{repo: r}
	f.initial = r.Commit("initial import")
	r.Tag("v1")
	f.feature = r.Commit("add widget support")
	f.merge = r.Merge("Merge pull request #42 from octo/widgets\n\nWidget support", f.initial, f.feature)
	r.AnnotatedTag("v2", "second release")
	f.unreleased = r.Commit("fix typo")
	return f
}

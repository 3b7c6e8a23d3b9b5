package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"

	clierrors "github.com/ariel-frischer/changelogit/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Structure(t *testing.T) {
	assert.Equal(t, "changelogit", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.Contains(t, rootCmd.Long, "https://github.com/ariel-frischer/changelogit")
	assert.NotEmpty(t, rootCmd.Example)
	assert.True(t, rootCmd.SilenceUsage)
	assert.True(t, rootCmd.SilenceErrors)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	tests := map[string]struct {
		flagName  string
		shorthand string
	}{
		"config flag": {flagName: "config", shorthand: "c"},
		"debug flag":  {flagName: "debug", shorthand: "d"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			flag := rootCmd.PersistentFlags().Lookup(tt.flagName)
			require.NotNil(t, flag, "Flag %s should exist", tt.flagName)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
		})
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	tests := map[string]struct {
		name      string
		wantGroup string
	}{
		"build":   {name: "build", wantGroup: GroupChangelog},
		"tags":    {name: "tags", wantGroup: GroupChangelog},
		"config":  {name: "config", wantGroup: GroupConfiguration},
		"doctor":  {name: "doctor", wantGroup: GroupConfiguration},
		"version": {name: "version", wantGroup: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{tt.name})
			require.NoError(t, err)
			assert.Equal(t, tt.name, cmd.Name())
			assert.Equal(t, tt.wantGroup, cmd.GroupID)
		})
	}
}

func TestRootCmd_Groups(t *testing.T) {
	var ids []string
	for _, g := range rootCmd.Groups() {
		ids = append(ids, g.ID)
	}
	assert.ElementsMatch(t, []string{GroupChangelog, GroupConfiguration}, ids)
}

func TestExitCode(t *testing.T) {
	tests := map[string]struct {
		err  error
		want int
	}{
		"nil":            {err: nil, want: ExitSuccess},
		"plain error":    {err: errors.New("boom"), want: ExitFailure},
		"argument":       {err: clierrors.NewArgumentError("bad flag"), want: ExitInvalidArguments},
		"configuration":  {err: clierrors.NewConfigError("bad config"), want: ExitInvalidConfig},
		"prerequisite":   {err: clierrors.NotGitRepository("/tmp"), want: ExitMissingDependencies},
		"runtime":        {err: clierrors.NewRuntimeError("failed"), want: ExitFailure},
		"wrapped cli":    {err: fmt.Errorf("outer: %w", clierrors.NewArgumentError("inner")), want: ExitInvalidArguments},
		"deadline":       {err: fmt.Errorf("git log: %w", context.DeadlineExceeded), want: ExitTimeout},
		"canceled":       {err: context.Canceled, want: ExitInterrupted},
		"cli of timeout": {err: clierrors.HistoryReadFailed(context.DeadlineExceeded), want: ExitTimeout},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestExecute_PrintsRemediation(t *testing.T) {
	_, stderr, err := execute(t, "build", "--dir", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitMissingDependencies, ExitCode(err))
	assert.Contains(t, stderr, "not a git repository")
}

func TestDebugFlag_LogsGitCommands(t *testing.T) {
	f := newFixture(t)

	_, stderr, err := execute(t, "build", "--debug", "--dir", f.repo.Dir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "[debug] [git] running git log")
}

package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ariel-frischer/changelogit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	testutil.RunHelperProcessIfRequested()
	os.Exit(m.Run())
}

func TestIsGitRepository(t *testing.T) {
	r := testutil.NewRepo(t)
	r.Commit("initial")

	sub := filepath.Join(r.Dir, "nested", "dir")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	assert.True(t, IsGitRepository(r.Dir))
	assert.True(t, IsGitRepository(sub))
	assert.False(t, IsGitRepository(t.TempDir()))
}

func TestRepositoryRoot(t *testing.T) {
	r := testutil.NewRepo(t)
	r.Commit("initial")

	sub := filepath.Join(r.Dir, "pkg")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	root, err := RepositoryRoot(sub)
	require.NoError(t, err)
	assert.Equal(t, r.Dir, root)

	_, err = RepositoryRoot(t.TempDir())
	assert.Error(t, err)
}

func TestTagExists(t *testing.T) {
	r := testutil.NewRepo(t)
	r.Commit("initial")
	r.Tag("v1.0.0")
	r.Commit("second")
	r.AnnotatedTag("v1.1.0", "minor release")

	tests := map[string]struct {
		name string
		want bool
	}{
		"lightweight tag": {name: "v1.0.0", want: true},
		"annotated tag":   {name: "v1.1.0", want: true},
		"missing tag":     {name: "v9.9.9", want: false},
		"branch name":     {name: "master", want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := TagExists(r.Dir, tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTagNames(t *testing.T) {
	r := testutil.NewRepo(t)
	r.Commit("initial")
	r.Tag("v2")
	r.Tag("v10")
	r.AnnotatedTag("v1", "first")

	names, err := TagNames(r.Dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "v10", "v2"}, names)
}

func TestOriginOwnerRepo(t *testing.T) {
	r := testutil.NewRepo(t)
	r.Commit("initial")

	_, _, err := OriginOwnerRepo(r.Dir)
	require.Error(t, err)

	r.SetOrigin("https://github.com/octo/widgets.git")
	owner, repo, err := OriginOwnerRepo(r.Dir)
	require.NoError(t, err)
	assert.Equal(t, "octo", owner)
	assert.Equal(t, "widgets", repo)
}

func TestParseRemoteURL(t *testing.T) {
	tests := map[string]struct {
		url       string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		"https with .git":      {url: "https://github.com/octo/widgets.git", wantOwner: "octo", wantRepo: "widgets"},
		"https without .git":   {url: "https://gitea.example.com/team/app", wantOwner: "team", wantRepo: "app"},
		"https trailing slash": {url: "https://github.com/octo/widgets/", wantOwner: "octo", wantRepo: "widgets"},
		"scp style":            {url: "git@github.com:octo/widgets.git", wantOwner: "octo", wantRepo: "widgets"},
		"ssh scheme":           {url: "ssh://git@gitea.example.com:2222/team/app.git", wantOwner: "team", wantRepo: "app"},
		"dotted repo name":     {url: "https://github.com/octo/widgets.js.git", wantOwner: "octo", wantRepo: "widgets.js"},
		"local path":           {url: "/srv/git/widgets.git", wantErr: true},
		"nested group":         {url: "https://gitlab.com/a/b/c.git", wantErr: true},
		"empty":                {url: "", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			owner, repo, err := ParseRemoteURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
		})
	}
}

func TestCLIRunner_HelperProcess(t *testing.T) {
	tests := map[string]struct {
		config     testutil.HelperProcessConfig
		wantOutput string
		wantErr    string
	}{
		"stdout returned": {
			config:     testutil.HelperProcessConfig{Stdout: "line one\nline two"},
			wantOutput: "line one\nline two",
		},
		"empty output is not an error": {
			config:     testutil.HelperProcessConfig{},
			wantOutput: "",
		},
		"stderr on success fails": {
			config:  testutil.HelperProcessConfig{Stdout: "ignored", Stderr: "warning: refname 'v1' is ambiguous"},
			wantErr: "warning: refname 'v1' is ambiguous",
		},
		"non-zero exit fails": {
			config:  testutil.HelperProcessConfig{ExitCode: 128, Stderr: "fatal: bad revision 'v9'\n"},
			wantErr: "fatal: bad revision 'v9'",
		},
		"non-zero exit without stderr": {
			config:  testutil.HelperProcessConfig{ExitCode: 1},
			wantErr: "exit status 1",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			helper := testutil.NewHelperProcess(t, tt.config)
			runner := &CLIRunner{Binary: helper.Binary, Env: helper.Env}

			args := []string{"log", "--date=iso", "v1..v2", "--"}
			out, err := runner.Run(context.Background(), args...)

			assert.Equal(t, args, helper.Args(t))

			if tt.wantErr != "" {
				require.Error(t, err)
				var procErr *ProcessError
				require.ErrorAs(t, err, &procErr)
				assert.Equal(t, args, procErr.Args)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Empty(t, out)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutput, out)
		})
	}
}

func TestCLIRunner_ArgumentsAreNotShellInterpreted(t *testing.T) {
	helper := testutil.NewHelperProcess(t, testutil.HelperProcessConfig{})
	runner := &CLIRunner{Binary: helper.Binary, Env: helper.Env}

	args := []string{"log", "v1; rm -rf /..$(whoami)", "--"}
	_, err := runner.Run(context.Background(), args...)
	require.NoError(t, err)
	assert.Equal(t, args, helper.Args(t))
}

func TestCLIRunner_CancelledContext(t *testing.T) {
	helper := testutil.NewHelperProcess(t, testutil.HelperProcessConfig{Stdout: "x"})
	runner := &CLIRunner{Binary: helper.Binary, Env: helper.Env}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, "log")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCLIRunner_MissingBinary(t *testing.T) {
	runner := &CLIRunner{Binary: filepath.Join(t.TempDir(), "no-such-git")}

	_, err := runner.Run(context.Background(), "log")
	require.Error(t, err)

	var procErr *ProcessError
	assert.ErrorAs(t, err, &procErr)
}

func TestProcessError_Message(t *testing.T) {
	err := &ProcessError{Args: []string{"log", "--tags"}, Stderr: "  fatal: not a git repository\n"}
	assert.Equal(t, "git log --tags: fatal: not a git repository", err.Error())
}

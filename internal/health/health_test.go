package health

import (
	"context"
	"errors"
	"net/http"
	"os/exec"
	"testing"

	"github.com/ariel-frischer/changelogit/internal/pullrequest"
	"github.com/ariel-frischer/changelogit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	authErr error
	listErr error
	records []pullrequest.Record
	authed  bool
}

func (f *fakeSource) Authenticate(_ context.Context, _ pullrequest.Credentials) error {
	f.authed = true
	return f.authErr
}

func (f *fakeSource) ListClosed(_ context.Context, _ int) ([]pullrequest.Record, error) {
	return f.records, f.listErr
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git executable not available")
	}
}

func TestCheckGit(t *testing.T) {
	t.Run("missing binary", func(t *testing.T) {
		result := CheckGit(context.Background(), "git-does-not-exist")
		assert.False(t, result.Passed)
		assert.Contains(t, result.Message, "git-does-not-exist")
	})

	t.Run("installed", func(t *testing.T) {
		requireGit(t)
		result := CheckGit(context.Background(), "")
		assert.True(t, result.Passed)
		assert.Contains(t, result.Message, "git version")
	})
}

func TestCheckRepositoryAndTags(t *testing.T) {
	r := testutil.NewRepo(t)
	r.Commit("initial import")

	result := CheckTags(r.Dir)
	assert.True(t, result.Passed)
	assert.Contains(t, result.Message, "no tags")

	r.Tag("v1")
	r.Commit("second")
	r.Tag("v2")
	assert.Equal(t, "2 tags", CheckTags(r.Dir).Message)

	assert.True(t, CheckRepository(r.Dir).Passed)
	assert.False(t, CheckRepository(t.TempDir()).Passed)
}

func TestCheckCredentials(t *testing.T) {
	tests := map[string]struct {
		creds       pullrequest.Credentials
		wantMessage string
	}{
		"token":      {creds: pullrequest.Credentials{Token: "t"}, wantMessage: "token configured"},
		"basic auth": {creds: pullrequest.Credentials{Username: "ada", Password: "pw"}, wantMessage: "basic auth for ada"},
		"anonymous":  {creds: pullrequest.Credentials{}, wantMessage: "rate limited"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			result := CheckCredentials("github", tt.creds)
			assert.True(t, result.Passed)
			assert.Equal(t, "github credentials", result.Name)
			assert.Contains(t, result.Message, tt.wantMessage)
		})
	}
}

func TestCheckPullRequestAccess(t *testing.T) {
	tests := map[string]struct {
		source      *fakeSource
		creds       pullrequest.Credentials
		wantPassed  bool
		wantAuthed  bool
		wantMessage string
	}{
		"anonymous listing": {
			source:      &fakeSource{records: []pullrequest.Record{{Number: 1}, {Number: 2}}},
			wantPassed:  true,
			wantMessage: "reachable (2 on the first page)",
		},
		"authenticated listing": {
			source:      &fakeSource{},
			creds:       pullrequest.Credentials{Token: "t"},
			wantPassed:  true,
			wantAuthed:  true,
			wantMessage: "reachable (0 on the first page)",
		},
		"rejected credentials": {
			source:      &fakeSource{authErr: &pullrequest.HostingAPIError{StatusCode: http.StatusUnauthorized, Message: "Bad credentials"}},
			creds:       pullrequest.Credentials{Token: "bad"},
			wantAuthed:  true,
			wantMessage: "credentials rejected",
		},
		"listing fails": {
			source:      &fakeSource{listErr: errors.New("connection refused")},
			wantMessage: "connection refused",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			result := CheckPullRequestAccess(context.Background(), "github", tt.source, tt.creds)
			assert.Equal(t, tt.wantPassed, result.Passed)
			assert.Equal(t, tt.wantAuthed, tt.source.authed)
			assert.Contains(t, result.Message, tt.wantMessage)
		})
	}
}

func TestRunHealthChecks(t *testing.T) {
	t.Run("skips tags outside a repository", func(t *testing.T) {
		report := RunHealthChecks(context.Background(), Options{GitBinary: "git-does-not-exist", Dir: t.TempDir()})
		require.Len(t, report.Checks, 2)
		assert.False(t, report.Passed)
		assert.Equal(t, "git", report.Checks[0].Name)
		assert.Equal(t, "repository", report.Checks[1].Name)
	})

	t.Run("includes pull-request checks with a source", func(t *testing.T) {
		requireGit(t)
		r := testutil.NewRepo(t)
		r.Commit("initial import")

		report := RunHealthChecks(context.Background(), Options{
			Dir:        r.Dir,
			Source:     &fakeSource{},
			SourceName: "gitea",
		})
		assert.True(t, report.Passed)

		var names []string
		for _, c := range report.Checks {
			names = append(names, c.Name)
		}
		assert.Equal(t, []string{"git", "repository", "tags", "gitea credentials", "gitea pull requests"}, names)
	})
}

func TestFormatReport(t *testing.T) {
	report := &HealthReport{
		Checks: []CheckResult{
			{Name: "git", Passed: true, Message: "git version 2.43.0"},
			{Name: "repository", Passed: false, Message: "not a git repository: /tmp"},
		},
	}

	assert.Equal(t, "✓ git: git version 2.43.0\n✗ repository: not a git repository: /tmp\n", FormatReport(report))
}

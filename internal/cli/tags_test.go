package cli

import (
	"strings"
	"testing"

	"github.com/ariel-frischer/changelogit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagsCmd(t *testing.T) {
	f := newFixture(t)

	tests := map[string]struct {
		args      []string
		wantLines []string
	}{
		"all tags newest first": {
			args:      []string{"--plain"},
			wantLines: []string{"v2", "v1"},
		},
		"limit": {
			args:      []string{"--plain", "-n", "1"},
			wantLines: []string{"v2"},
		},
		"limit above count": {
			args:      []string{"--plain", "--limit", "10"},
			wantLines: []string{"v2", "v1"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			args := append([]string{"tags", "--dir", f.repo.Dir}, tt.args...)
			stdout, _, err := execute(t, args...)
			require.NoError(t, err)

			lines := strings.Split(strings.TrimSpace(stdout), "\n")
			require.Len(t, lines, len(tt.wantLines))
			for i, want := range tt.wantLines {
				assert.Equal(t, want, strings.Fields(lines[i])[0])
				assert.Contains(t, lines[i], "2024-03-01")
			}
		})
	}
}

func TestTagsCmd_Message(t *testing.T) {
	f := newFixture(t)

	stdout, _, err := execute(t, "tags", "--dir", f.repo.Dir, "--plain")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Merge pull request #42")
	assert.Contains(t, stdout, f.merge[:7])
}

func TestTagsCmd_NoTags(t *testing.T) {
	requireGit(t)
	r := testutil.NewRepo(t)
	r.Commit("initial import")

	stdout, _, err := execute(t, "tags", "--dir", r.Dir)
	require.NoError(t, err)
	assert.Equal(t, "No tags found.\n", stdout)
}

func TestTagsCmd_NotARepository(t *testing.T) {
	_, _, err := execute(t, "tags", "--dir", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitMissingDependencies, ExitCode(err))
}

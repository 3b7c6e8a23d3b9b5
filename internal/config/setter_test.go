package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseKeyPath(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		path    string
		want    []string
		wantErr error
	}{
		"single key": {path: "format", want: []string{"format"}},
		"nested key": {path: "pull_requests.enabled", want: []string{"pull_requests", "enabled"}},
		"deep key":   {path: "a.b.c", want: []string{"a", "b", "c"}},
		"empty path": {path: "", wantErr: ErrEmptyKeyPath},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseKeyPath(tt.path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetNestedValue(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		initialYAML  string
		keyPath      []string
		value        interface{}
		expectedYAML string
	}{
		"set top-level string": {
			keyPath:      []string{"title_tag"},
			value:        "Next",
			expectedYAML: "title_tag: Next\n",
		},
		"set top-level bool": {
			keyPath:      []string{"list_all"},
			value:        true,
			expectedYAML: "list_all: true\n",
		},
		"set nested value": {
			keyPath:      []string{"pull_requests", "enabled"},
			value:        true,
			expectedYAML: "pull_requests:\n    enabled: true\n",
		},
		"update existing value": {
			initialYAML:  "format: json\n",
			keyPath:      []string{"format"},
			value:        "yaml",
			expectedYAML: "format: yaml\n",
		},
		"add to existing": {
			initialYAML:  "format: json\n",
			keyPath:      []string{"no_merges"},
			value:        true,
			expectedYAML: "format: json\nno_merges: true\n",
		},
		"update nested in existing": {
			initialYAML:  "git:\n    binary: git\n",
			keyPath:      []string{"git", "dir"},
			value:        "/src/repo",
			expectedYAML: "git:\n    binary: git\n    dir: /src/repo\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var doc yaml.Node
			require.NoError(t, yaml.Unmarshal([]byte(tt.initialYAML), &doc))
			require.NoError(t, SetNestedValue(&doc, tt.keyPath, tt.value))

			out, err := yaml.Marshal(&doc)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedYAML, string(out))
		})
	}
}

func TestSetNestedValue_ScalarInPath(t *testing.T) {
	t.Parallel()

	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("git: plain\n"), &doc))

	err := SetNestedValue(&doc, []string{"git", "binary"}, "git")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git is not a mapping")
}

func TestSetConfigValue(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		initialContent string
		key            string
		value          string
		wantContains   []string
		errContain     string
	}{
		"set new value": {
			key:          "title_tag",
			value:        "Unreleased",
			wantContains: []string{"title_tag: Unreleased"},
		},
		"set nested value": {
			key:          "pull_requests.enabled",
			value:        "true",
			wantContains: []string{"pull_requests:", "enabled: true"},
		},
		"update existing value keeps comments": {
			initialContent: "# release settings\nformat: json # output\n",
			key:            "format",
			value:          "yaml",
			wantContains:   []string{"# release settings", "format: yaml # output"},
		},
		"unknown key": {
			key:        "unknown.key",
			value:      "value",
			errContain: "unknown configuration key",
		},
		"invalid bool": {
			key:        "list_all",
			value:      "yes",
			errContain: "invalid boolean",
		},
		"invalid enum": {
			key:        "format",
			value:      "xml",
			errContain: "valid options: json, yaml",
		},
		"broken file": {
			initialContent: "title_tag: ok\n  format: yaml\n",
			key:            "format",
			value:          "yaml",
			errContain:     "config.yml:2",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			configPath := filepath.Join(t.TempDir(), "config.yml")
			if tt.initialContent != "" {
				require.NoError(t, os.WriteFile(configPath, []byte(tt.initialContent), 0o644))
			}

			err := SetConfigValue(configPath, tt.key, tt.value)
			if tt.errContain != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContain)
				return
			}
			require.NoError(t, err)

			content, err := os.ReadFile(configPath)
			require.NoError(t, err)
			for _, want := range tt.wantContains {
				assert.Contains(t, string(content), want)
			}
		})
	}
}

func TestSetConfigValue_CreatesFileThenLoads(t *testing.T) {
	_, projectPath := isolate(t)

	require.NoError(t, SetConfigValue(projectPath, "merges_only", "true"))
	require.NoError(t, SetConfigValue(projectPath, "pull_requests.repo", "widgets"))

	cfg, err := Load(projectPath)
	require.NoError(t, err)
	assert.True(t, cfg.MergesOnly)
	assert.Equal(t, "widgets", cfg.PullRequests.Repo)
}

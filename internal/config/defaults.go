package config

import "github.com/ariel-frischer/changelogit/internal/changelog"

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# changelogit configuration
# See 'changelogit config -h' for commands, 'changelogit config keys' for all options

# Tag selection
title_tag: n.n.n                      # Name of the head tag holding unreleased commits
list_all: false                       # Include every tag, ignoring --start/--final

# Commit filters
no_merges: false                      # Drop merge commits
merges_only: false                    # Keep only merge commits (wins over no_merges)

# Output
format: json                          # json | yaml

# Git
git:
  binary: git                         # git executable used to read history
  dir: ""                             # Repository directory (empty = current directory)

# Pull-request enrichment of "Merge pull request #N" commits
pull_requests:
  enabled: false                      # Look up pull requests during build
  provider: github                    # github | gitea
  owner: ""                           # Repository owner (empty = from origin remote)
  repo: ""                            # Repository name (empty = from origin remote)
  api_url: ""                         # API base URL (required for gitea)
  token: ""                           # Falls back to GITHUB_TOKEN / GITEA_TOKEN
  username: ""                        # Basic auth user when no token is set
  password: ""
`
}

// GetDefaults returns the default configuration values keyed by dotted path.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"title_tag":   changelog.DefaultTitleTag,
		"list_all":    false,
		"no_merges":   false,
		"merges_only": false,
		"format":      changelog.FormatJSON,
		"git": map[string]interface{}{
			"binary": "git",
			"dir":    "",
		},
		// pull_requests: enrichment is opt-in since it needs network access.
		"pull_requests": map[string]interface{}{
			"enabled":  false,
			"provider": ProviderGitHub,
			"owner":    "",
			"repo":     "",
			"api_url":  "",
			"token":    "",
			"username": "",
			"password": "",
		},
	}
}

// Package config provides hierarchical configuration management for changelogit using koanf.
// Configuration is loaded with priority: environment variables > project config (.changelogit/config.yml)
// > user config (~/.config/changelogit/config.yml) > defaults. Either config file may also be
// written as JSON (config.json); the YAML file wins when both exist.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ariel-frischer/changelogit/internal/changelog"
	"github.com/ariel-frischer/changelogit/internal/pullrequest"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read by Load.
// A double underscore separates nesting levels:
// CHANGELOGIT_PULL_REQUESTS__TOKEN -> pull_requests.token.
const EnvPrefix = "CHANGELOGIT_"

// Pull-request providers.
const (
	ProviderGitHub = "github"
	ProviderGitea  = "gitea"
)

// Configuration represents the changelogit configuration
type Configuration struct {
	// TitleTag names the synthetic head tag holding unreleased commits.
	TitleTag   string `koanf:"title_tag" json:"title_tag" yaml:"title_tag" validate:"required"`
	ListAll    bool   `koanf:"list_all" json:"list_all" yaml:"list_all"`
	NoMerges   bool   `koanf:"no_merges" json:"no_merges" yaml:"no_merges"`
	MergesOnly bool   `koanf:"merges_only" json:"merges_only" yaml:"merges_only"`
	// Format is the output encoding of the build command: json or yaml.
	Format string `koanf:"format" json:"format" yaml:"format" validate:"oneof=json yaml"`

	Git          GitConfig         `koanf:"git" json:"git" yaml:"git"`
	PullRequests PullRequestConfig `koanf:"pull_requests" json:"pull_requests" yaml:"pull_requests"`
}

// GitConfig selects the git binary and the repository to read.
type GitConfig struct {
	Binary string `koanf:"binary" json:"binary" yaml:"binary" validate:"required"`
	// Dir is the repository directory. Empty means the current directory.
	Dir string `koanf:"dir" json:"dir" yaml:"dir"`
}

// PullRequestConfig configures enrichment of merge commits with pull-request data.
// Owner and Repo default to the origin remote when empty.
type PullRequestConfig struct {
	Enabled  bool   `koanf:"enabled" json:"enabled" yaml:"enabled"`
	Provider string `koanf:"provider" json:"provider" yaml:"provider" validate:"oneof=github gitea"`
	Owner    string `koanf:"owner" json:"owner" yaml:"owner"`
	Repo     string `koanf:"repo" json:"repo" yaml:"repo"`
	APIURL   string `koanf:"api_url" json:"api_url" yaml:"api_url" validate:"omitempty,url"`
	Token    string `koanf:"token" json:"token" yaml:"token"`
	Username string `koanf:"username" json:"username" yaml:"username"`
	Password string `koanf:"password" json:"password" yaml:"password"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .changelogit/config.yml)
	ProjectConfigPath string
	// WarningWriter receives warnings about ignored files (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses warnings
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	userPath, _ := UserConfigPath()
	if err := loadLayer(k, userPath, "user", warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	projectPath := ProjectConfigPath()
	if opts.ProjectConfigPath != "" {
		projectPath = opts.ProjectConfigPath
	}
	if err := loadLayer(k, projectPath, "project", warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k, projectPath)
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadLayer loads one config level. A .yml path is preferred over its .json
// sibling; a .json path given directly is loaded as JSON.
func loadLayer(k *koanf.Koanf, path, configType string, warningWriter io.Writer, skipWarnings bool) error {
	if path == "" {
		return nil
	}

	if strings.HasSuffix(path, ".json") {
		if !fileExists(path) {
			return nil
		}
		return loadJSONConfig(k, path, configType)
	}

	jsonPath := jsonSibling(path)
	yamlExists := fileExists(path)
	jsonExists := fileExists(jsonPath)

	switch {
	case yamlExists:
		if err := loadYAMLConfig(k, path, configType); err != nil {
			return fmt.Errorf("loading %s YAML config: %w", configType, err)
		}
		if jsonExists && !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: JSON config found at %s (ignored, using %s)\n", jsonPath, path)
			fmt.Fprintf(warningWriter, "  Run 'changelogit config migrate --%s' to fold it into YAML.\n\n", configType)
		}
	case jsonExists:
		if err := loadJSONConfig(k, jsonPath, configType); err != nil {
			return fmt.Errorf("loading %s JSON config: %w", configType, err)
		}
	}
	return nil
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadJSONConfig loads a JSON config file
func loadJSONConfig(k *koanf.Koanf, path, configType string) error {
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals, validates, and applies final transformations
func finalizeConfig(k *koanf.Koanf, sourcePath string) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Format = strings.ToLower(cfg.Format)
	cfg.PullRequests.Provider = strings.ToLower(cfg.PullRequests.Provider)

	if err := ValidateConfigValues(&cfg, sourcePath); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// providerToken returns the conventional token variable of a hosting provider.
func providerToken(provider string) string {
	switch provider {
	case ProviderGitHub:
		return os.Getenv("GITHUB_TOKEN")
	case ProviderGitea:
		return os.Getenv("GITEA_TOKEN")
	default:
		return ""
	}
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: CHANGELOGIT_PULL_REQUESTS__API_URL -> pull_requests.api_url
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// ChangelogOptions returns the build options carried by the configuration.
func (c *Configuration) ChangelogOptions() changelog.Options {
	return changelog.Options{
		TitleTag:   c.TitleTag,
		ListAll:    c.ListAll,
		NoMerges:   c.NoMerges,
		MergesOnly: c.MergesOnly,
	}
}

// Credentials returns the hosting credentials for pull-request lookups.
// An empty token falls back to GITHUB_TOKEN or GITEA_TOKEN for the provider.
func (p PullRequestConfig) Credentials() pullrequest.Credentials {
	token := p.Token
	if token == "" {
		token = providerToken(p.Provider)
	}
	return pullrequest.Credentials{
		Token:    token,
		Username: p.Username,
		Password: p.Password,
	}
}

// Redacted returns a copy with secrets masked, for display.
func (c Configuration) Redacted() Configuration {
	c.PullRequests.Token = mask(c.PullRequests.Token)
	c.PullRequests.Password = mask(c.PullRequests.Password)
	return c
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}

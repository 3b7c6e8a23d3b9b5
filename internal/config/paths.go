package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/changelogit/config.yml
// - macOS: ~/Library/Application Support/changelogit/config.yml
// - Windows: %APPDATA%\changelogit\config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yml"), nil
}

// UserConfigDir returns the path to the user-level config directory.
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "changelogit"), nil
}

// ProjectConfigPath returns the path to the project-level config file.
// This is always .changelogit/config.yml relative to the current directory.
func ProjectConfigPath() string {
	return filepath.Join(ProjectConfigDir(), "config.yml")
}

// ProjectConfigDir returns the path to the project-level config directory.
func ProjectConfigDir() string {
	return ".changelogit"
}

// UserJSONConfigPath returns the JSON sibling of the user config file.
func UserJSONConfigPath() (string, error) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// ProjectJSONConfigPath returns the JSON sibling of the project config file.
func ProjectJSONConfigPath() string {
	return filepath.Join(ProjectConfigDir(), "config.json")
}

// jsonSibling maps a .yml config path to the .json path next to it.
func jsonSibling(yamlPath string) string {
	ext := filepath.Ext(yamlPath)
	return yamlPath[:len(yamlPath)-len(ext)] + ".json"
}

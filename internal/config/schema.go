package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ariel-frischer/changelogit/internal/changelog"
)

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeString
	TypeEnum
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key with its expected type and validation rules.
type ConfigKeySchema struct {
	Path          string          // Dotted key path (e.g., "pull_requests.enabled")
	Type          ConfigValueType // Expected value type for validation
	AllowedValues []string        // Valid values for enum types (empty for non-enums)
	Description   string          // Human-readable description for help text
	Default       interface{}     // Default value
	Secret        bool            // Masked when displayed
}

// KnownKeys is the registry of all known configuration keys with their schemas.
var KnownKeys = map[string]ConfigKeySchema{
	"title_tag": {
		Path:        "title_tag",
		Type:        TypeString,
		Description: "Name of the head tag holding unreleased commits",
		Default:     changelog.DefaultTitleTag,
	},
	"list_all": {
		Path:        "list_all",
		Type:        TypeBool,
		Description: "Include every tag, ignoring start and final boundaries",
		Default:     false,
	},
	"no_merges": {
		Path:        "no_merges",
		Type:        TypeBool,
		Description: "Drop merge commits",
		Default:     false,
	},
	"merges_only": {
		Path:        "merges_only",
		Type:        TypeBool,
		Description: "Keep only merge commits (wins over no_merges)",
		Default:     false,
	},
	"format": {
		Path:          "format",
		Type:          TypeEnum,
		AllowedValues: []string{changelog.FormatJSON, changelog.FormatYAML},
		Description:   "Output format of the build command",
		Default:       changelog.FormatJSON,
	},
	"git.binary": {
		Path:        "git.binary",
		Type:        TypeString,
		Description: "git executable used to read history",
		Default:     "git",
	},
	"git.dir": {
		Path:        "git.dir",
		Type:        TypeString,
		Description: "Repository directory (empty = current directory)",
		Default:     "",
	},
	"pull_requests.enabled": {
		Path:        "pull_requests.enabled",
		Type:        TypeBool,
		Description: "Look up pull requests for merge commits during build",
		Default:     false,
	},
	"pull_requests.provider": {
		Path:          "pull_requests.provider",
		Type:          TypeEnum,
		AllowedValues: []string{ProviderGitHub, ProviderGitea},
		Description:   "Hosting service queried for pull requests",
		Default:       ProviderGitHub,
	},
	"pull_requests.owner": {
		Path:        "pull_requests.owner",
		Type:        TypeString,
		Description: "Repository owner (empty = from origin remote)",
		Default:     "",
	},
	"pull_requests.repo": {
		Path:        "pull_requests.repo",
		Type:        TypeString,
		Description: "Repository name (empty = from origin remote)",
		Default:     "",
	},
	"pull_requests.api_url": {
		Path:        "pull_requests.api_url",
		Type:        TypeString,
		Description: "API base URL (required for gitea)",
		Default:     "",
	},
	"pull_requests.token": {
		Path:        "pull_requests.token",
		Type:        TypeString,
		Description: "API token (falls back to GITHUB_TOKEN or GITEA_TOKEN)",
		Default:     "",
		Secret:      true,
	},
	"pull_requests.username": {
		Path:        "pull_requests.username",
		Type:        TypeString,
		Description: "Basic auth user name when no token is set",
		Default:     "",
	},
	"pull_requests.password": {
		Path:        "pull_requests.password",
		Type:        TypeString,
		Description: "Basic auth password",
		Default:     "",
		Secret:      true,
	},
}

// SortedKeys returns the known key paths in lexical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ErrUnknownKey is returned when trying to access an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// ParsedValue represents a configuration value after type inference and validation.
type ParsedValue struct {
	Raw    string      // Original string input from user
	Parsed interface{} // Value converted to correct type
	Type   ConfigValueType
}

// ValidateValue validates a value against the schema for a given key.
// Returns the parsed value or an error with details about what's wrong.
func ValidateValue(key, value string) (ParsedValue, error) {
	schema, err := GetKeySchema(key)
	if err != nil {
		return ParsedValue{}, err
	}
	return validateAgainstSchema(schema, value)
}

// validateAgainstSchema validates a value against a specific schema.
func validateAgainstSchema(schema ConfigKeySchema, value string) (ParsedValue, error) {
	switch schema.Type {
	case TypeBool:
		return parseBoolValue(value)
	case TypeEnum:
		return parseEnumValue(schema, value)
	case TypeString:
		return ParsedValue{Raw: value, Parsed: value, Type: TypeString}, nil
	default:
		return ParsedValue{}, fmt.Errorf("unsupported type: %v", schema.Type)
	}
}

// parseBoolValue parses and validates a boolean value.
func parseBoolValue(value string) (ParsedValue, error) {
	switch strings.ToLower(value) {
	case "true":
		return ParsedValue{Raw: value, Parsed: true, Type: TypeBool}, nil
	case "false":
		return ParsedValue{Raw: value, Parsed: false, Type: TypeBool}, nil
	default:
		return ParsedValue{}, fmt.Errorf("invalid boolean: %q (expected true or false)", value)
	}
}

// parseEnumValue validates a value against allowed enum options.
func parseEnumValue(schema ConfigKeySchema, value string) (ParsedValue, error) {
	for _, allowed := range schema.AllowedValues {
		if value == allowed {
			return ParsedValue{Raw: value, Parsed: value, Type: TypeEnum}, nil
		}
	}
	return ParsedValue{}, fmt.Errorf(
		"invalid value: %q (valid options: %s)",
		value,
		strings.Join(schema.AllowedValues, ", "),
	)
}

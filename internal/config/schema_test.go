package config

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValue(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		key      string
		value    string
		want     interface{}
		wantType ConfigValueType
		errMsg   string
	}{
		"bool true":        {key: "list_all", value: "true", want: true, wantType: TypeBool},
		"bool mixed case":  {key: "no_merges", value: "FALSE", want: false, wantType: TypeBool},
		"bool invalid":     {key: "merges_only", value: "1", errMsg: "invalid boolean"},
		"enum valid":       {key: "pull_requests.provider", value: "gitea", want: "gitea", wantType: TypeEnum},
		"enum invalid":     {key: "pull_requests.provider", value: "gitlab", errMsg: "valid options: github, gitea"},
		"string passes":    {key: "title_tag", value: "Next", want: "Next", wantType: TypeString},
		"unknown key":      {key: "max_retries", value: "3", errMsg: "unknown configuration key: max_retries"},
		"empty string key": {key: "git.dir", value: "", want: "", wantType: TypeString},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := ValidateValue(tt.key, tt.value)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Parsed)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.value, got.Raw)
		})
	}
}

func TestKnownKeysMatchDefaults(t *testing.T) {
	t.Parallel()

	var defaults []string
	var flatten func(prefix string, m map[string]interface{})
	flatten = func(prefix string, m map[string]interface{}) {
		for k, v := range m {
			if nested, ok := v.(map[string]interface{}); ok {
				flatten(prefix+k+".", nested)
				continue
			}
			defaults = append(defaults, prefix+k)
			assert.Equal(t, KnownKeys[prefix+k].Default, v, "default of %s", prefix+k)
		}
	}
	flatten("", GetDefaults())
	sort.Strings(defaults)

	assert.Equal(t, defaults, SortedKeys())
	for key, schema := range KnownKeys {
		assert.Equal(t, key, schema.Path)
		assert.NotEmpty(t, schema.Description, key)
	}
}

func TestGetKeySchema(t *testing.T) {
	t.Parallel()

	schema, err := GetKeySchema("pull_requests.token")
	require.NoError(t, err)
	assert.True(t, schema.Secret)

	_, err = GetKeySchema("nope")
	assert.Equal(t, ErrUnknownKey{Key: "nope"}, err)
}

func TestConfigValueType_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "bool", TypeBool.String())
	assert.Equal(t, "string", TypeString.String())
	assert.Equal(t, "enum", TypeEnum.String())
	assert.Equal(t, "unknown", ConfigValueType(99).String())
}

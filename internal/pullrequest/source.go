// Package pullrequest attaches pull-request metadata to a built changelog.
//
// Merge commits whose subject reads "Merge pull request #N ..." are resolved
// against a hosting provider that lists closed pull requests page by page.
// Resolution is sequential: a Seeker walks the pages in order, caching every
// record it sees, until the requested number turns up or the listing runs
// out.
package pullrequest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Record is a closed pull request as reported by the hosting provider.
type Record struct {
	Number         int64      `json:"number" yaml:"number"`
	Title          string     `json:"title" yaml:"title"`
	Body           string     `json:"body" yaml:"body"`
	State          string     `json:"state" yaml:"state"`
	HTMLURL        string     `json:"html_url" yaml:"html_url"`
	Author         string     `json:"author" yaml:"author"`
	Labels         []string   `json:"labels" yaml:"labels"`
	BaseRef        string     `json:"base_ref" yaml:"base_ref"`
	HeadRef        string     `json:"head_ref" yaml:"head_ref"`
	Merged         bool       `json:"merged" yaml:"merged"`
	MergedAt       *time.Time `json:"merged_at,omitempty" yaml:"merged_at,omitempty"`
	MergeCommitSHA string     `json:"merge_commit_sha,omitempty" yaml:"merge_commit_sha,omitempty"`

	// Raw is the provider payload the record was read from, unknown fields
	// included.
	Raw map[string]any `json:"raw,omitempty" yaml:"raw,omitempty"`
}

// rawPayload decodes one provider object for Record.Raw. Integers are kept
// as int64 so large ids survive re-encoding.
func rawPayload(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return resolveNumbers(raw).(map[string]any), nil
}

func resolveNumbers(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, item := range v {
			v[k] = resolveNumbers(item)
		}
	case []any:
		for i, item := range v {
			v[i] = resolveNumbers(item)
		}
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	}
	return v
}

// Credentials are passed through to the provider unchanged. A token takes
// precedence over username and password.
type Credentials struct {
	Token    string
	Username string
	Password string
}

// Empty reports whether no credential is set.
func (c Credentials) Empty() bool {
	return c.Token == "" && c.Username == "" && c.Password == ""
}

// Source lists the closed pull requests of one repository.
type Source interface {
	// Authenticate applies credentials and checks that they grant access.
	// It is called at most once, before any ListClosed call.
	Authenticate(ctx context.Context, creds Credentials) error
	// ListClosed returns one page of closed pull requests. Pages start at 1.
	// An empty page means there are no more records.
	ListClosed(ctx context.Context, page int) ([]Record, error)
}

// HostingAPIError reports a failed call to the hosting provider.
type HostingAPIError struct {
	Provider   string
	Op         string
	Page       int
	StatusCode int
	Message    string
	Err        error
}

func (e *HostingAPIError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, e.Op)
	if e.Page > 0 {
		msg += fmt.Sprintf(" (page %d)", e.Page)
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *HostingAPIError) Unwrap() error {
	return e.Err
}

// IsAuth reports whether the provider rejected the credentials.
func (e *HostingAPIError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

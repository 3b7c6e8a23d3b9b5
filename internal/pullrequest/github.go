package pullrequest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultGitHubAPIURL is the public GitHub REST endpoint.
const DefaultGitHubAPIURL = "https://api.github.com"

// GitHubPageSize is the number of pull requests requested per page.
const GitHubPageSize = 100

// GitHubSource lists closed pull requests through the GitHub REST API.
type GitHubSource struct {
	apiURL  string
	owner   string
	repo    string
	creds   Credentials
	httpCli *http.Client
}

// NewGitHubSource creates a source for owner/repo. An empty apiURL means
// DefaultGitHubAPIURL; a nil client gets a 60 second timeout.
func NewGitHubSource(apiURL, owner, repo string, httpCli *http.Client) *GitHubSource {
	if apiURL == "" {
		apiURL = DefaultGitHubAPIURL
	}
	if httpCli == nil {
		httpCli = &http.Client{Timeout: 60 * time.Second}
	}
	return &GitHubSource{
		apiURL:  strings.TrimRight(apiURL, "/"),
		owner:   owner,
		repo:    repo,
		httpCli: httpCli,
	}
}

// Authenticate stores creds and checks them by reading the repository.
func (s *GitHubSource) Authenticate(ctx context.Context, creds Credentials) error {
	s.creds = creds

	u := fmt.Sprintf("%s/repos/%s/%s", s.apiURL, url.PathEscape(s.owner), url.PathEscape(s.repo))
	if _, err := s.get(ctx, u, "authenticate", 0); err != nil {
		return err
	}

	logDebug("[pullrequest] github: authenticated for %s/%s", s.owner, s.repo)
	return nil
}

// githubPull mirrors the fields of a GitHub pull request that Record keeps.
type githubPull struct {
	Number  int64  `json:"number"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	State   string `json:"state"`
	HTMLURL string `json:"html_url"`
	User    struct {
		Login string `json:"login"`
	} `json:"user"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
	Base struct {
		Ref string `json:"ref"`
	} `json:"base"`
	Head struct {
		Ref string `json:"ref"`
	} `json:"head"`
	MergedAt       *time.Time `json:"merged_at"`
	MergeCommitSHA *string    `json:"merge_commit_sha"`
}

func (p githubPull) record() Record {
	r := Record{
		Number:   p.Number,
		Title:    p.Title,
		Body:     p.Body,
		State:    p.State,
		HTMLURL:  p.HTMLURL,
		Author:   p.User.Login,
		Labels:   make([]string, 0, len(p.Labels)),
		BaseRef:  p.Base.Ref,
		HeadRef:  p.Head.Ref,
		Merged:   p.MergedAt != nil,
		MergedAt: p.MergedAt,
	}
	for _, l := range p.Labels {
		r.Labels = append(r.Labels, l.Name)
	}
	if p.MergeCommitSHA != nil {
		r.MergeCommitSHA = *p.MergeCommitSHA
	}
	return r
}

// ListClosed fetches one page of closed pull requests, newest first.
func (s *GitHubSource) ListClosed(ctx context.Context, page int) ([]Record, error) {
	q := url.Values{}
	q.Set("state", "closed")
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(GitHubPageSize))
	u := fmt.Sprintf("%s/repos/%s/%s/pulls?%s", s.apiURL, url.PathEscape(s.owner), url.PathEscape(s.repo), q.Encode())

	body, err := s.get(ctx, u, "listing closed pull requests", page)
	if err != nil {
		return nil, err
	}

	parseErr := func(err error) error {
		return &HostingAPIError{Provider: "github", Op: "listing closed pull requests", Page: page, Err: fmt.Errorf("parsing response: %w", err)}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, parseErr(err)
	}

	records := make([]Record, len(items))
	for i, item := range items {
		var p githubPull
		if err := json.Unmarshal(item, &p); err != nil {
			return nil, parseErr(err)
		}
		raw, err := rawPayload(item)
		if err != nil {
			return nil, parseErr(err)
		}
		records[i] = p.record()
		records[i].Raw = raw
	}
	return records, nil
}

func (s *GitHubSource) get(ctx context.Context, u, op string, page int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	switch {
	case s.creds.Token != "":
		req.Header.Set("Authorization", "Bearer "+s.creds.Token)
	case s.creds.Username != "":
		req.SetBasicAuth(s.creds.Username, s.creds.Password)
	}

	logDebug("[pullrequest] github: GET %s", u)
	resp, err := s.httpCli.Do(req)
	if err != nil {
		return nil, &HostingAPIError{Provider: "github", Op: op, Page: page, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &HostingAPIError{Provider: "github", Op: op, Page: page, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &HostingAPIError{
			Provider:   "github",
			Op:         op,
			Page:       page,
			StatusCode: resp.StatusCode,
			Message:    githubMessage(body),
		}
	}

	return body, nil
}

// githubMessage extracts the "message" field of a GitHub error body, or
// returns the trimmed body when it is not JSON.
func githubMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}

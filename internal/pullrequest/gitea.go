package pullrequest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/OpenCSGs/gitea-go-sdk/gitea"
)

// GiteaPageSize is the number of pull requests requested per page.
const GiteaPageSize = 50

// GiteaSource lists closed pull requests of a Gitea repository through the
// Gitea SDK.
type GiteaSource struct {
	baseURL string
	owner   string
	repo    string
	httpCli *http.Client

	mu     sync.Mutex
	client *gitea.Client
}

// NewGiteaSource creates a source for owner/repo on the Gitea instance at
// baseURL. A nil client uses the SDK default.
func NewGiteaSource(baseURL, owner, repo string, httpCli *http.Client) *GiteaSource {
	return &GiteaSource{
		baseURL: baseURL,
		owner:   owner,
		repo:    repo,
		httpCli: httpCli,
	}
}

func (s *GiteaSource) connect(ctx context.Context, creds Credentials) (*gitea.Client, error) {
	opts := []gitea.ClientOption{gitea.SetContext(ctx)}
	if s.httpCli != nil {
		opts = append(opts, gitea.SetHTTPClient(s.httpCli))
	}
	switch {
	case creds.Token != "":
		opts = append(opts, gitea.SetToken(creds.Token))
	case creds.Username != "":
		opts = append(opts, gitea.SetBasicAuth(creds.Username, creds.Password))
	}

	client, err := gitea.NewClient(s.baseURL, opts...)
	if err != nil {
		return nil, &HostingAPIError{Provider: "gitea", Op: "connecting", Err: err}
	}
	return client, nil
}

// clientFor returns the authenticated client, or an anonymous one when
// Authenticate was never called.
func (s *GiteaSource) clientFor(ctx context.Context) (*gitea.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		client, err := s.connect(ctx, Credentials{})
		if err != nil {
			return nil, err
		}
		s.client = client
	}
	s.client.SetContext(ctx)
	return s.client, nil
}

// Authenticate connects with creds and checks them by reading the repository.
func (s *GiteaSource) Authenticate(ctx context.Context, creds Credentials) error {
	client, err := s.connect(ctx, creds)
	if err != nil {
		return err
	}

	_, resp, err := client.GetRepo(s.owner, s.repo)
	if err != nil {
		return giteaError("authenticate", 0, resp, err)
	}

	s.mu.Lock()
	s.client = client
	s.mu.Unlock()

	logDebug("[pullrequest] gitea: authenticated for %s/%s", s.owner, s.repo)
	return nil
}

// ListClosed fetches one page of closed pull requests.
func (s *GiteaSource) ListClosed(ctx context.Context, page int) ([]Record, error) {
	client, err := s.clientFor(ctx)
	if err != nil {
		return nil, err
	}

	pulls, resp, err := client.ListRepoPullRequests(s.owner, s.repo, gitea.ListPullRequestsOptions{
		ListOptions: gitea.ListOptions{Page: page, PageSize: GiteaPageSize},
		State:       gitea.StateClosed,
	})
	if err != nil {
		return nil, giteaError("listing closed pull requests", page, resp, err)
	}

	records := make([]Record, 0, len(pulls))
	for _, p := range pulls {
		if p == nil {
			continue
		}
		r, err := giteaRecord(p)
		if err != nil {
			return nil, &HostingAPIError{Provider: "gitea", Op: "listing closed pull requests", Page: page, Err: err}
		}
		records = append(records, r)
	}
	return records, nil
}

func giteaRecord(p *gitea.PullRequest) (Record, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return Record{}, fmt.Errorf("encoding pull request %d: %w", p.Index, err)
	}
	raw, err := rawPayload(data)
	if err != nil {
		return Record{}, fmt.Errorf("encoding pull request %d: %w", p.Index, err)
	}

	r := Record{
		Raw:      raw,
		Number:   p.Index,
		Title:    p.Title,
		Body:     p.Body,
		State:    string(p.State),
		HTMLURL:  p.HTMLURL,
		Labels:   make([]string, 0, len(p.Labels)),
		Merged:   p.HasMerged,
		MergedAt: p.Merged,
	}
	if p.Poster != nil {
		r.Author = p.Poster.UserName
	}
	for _, l := range p.Labels {
		if l != nil {
			r.Labels = append(r.Labels, l.Name)
		}
	}
	if p.Base != nil {
		r.BaseRef = p.Base.Ref
	}
	if p.Head != nil {
		r.HeadRef = p.Head.Ref
	}
	if p.MergedCommitID != nil {
		r.MergeCommitSHA = *p.MergedCommitID
	}
	return r, nil
}

func giteaError(op string, page int, resp *gitea.Response, err error) error {
	apiErr := &HostingAPIError{Provider: "gitea", Op: op, Page: page, Err: err}
	if resp != nil && resp.Response != nil {
		apiErr.StatusCode = resp.StatusCode
	}
	return apiErr
}

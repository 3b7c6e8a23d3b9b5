package pullrequest

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/ariel-frischer/changelogit/internal/changelog"
)

var mergeSubjectRe = regexp.MustCompile(`^Merge pull request #(\d+) `)

// EnrichedCommit is a commit with the pull request it merged, if resolved.
type EnrichedCommit struct {
	changelog.Commit `yaml:",inline"`
	// PullRequest is the decimal pull-request number, or nil.
	PullRequest *string `json:"pull_request" yaml:"pull_request"`
}

// EnrichedChangelog is a changelog whose commits carry pull-request references.
type EnrichedChangelog struct {
	Tags         []*changelog.Tag          `json:"tags" yaml:"tags"`
	Commits      map[string]EnrichedCommit `json:"commits" yaml:"commits"`
	PullRequests map[string]Record         `json:"pull_requests" yaml:"pull_requests"`
}

// PullRequestNumber extracts N from a "Merge pull request #N ..." subject.
func PullRequestNumber(subject string) (int64, bool) {
	m := mergeSubjectRe.FindStringSubmatch(subject)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Enricher resolves pull-request references for the commits of a changelog.
type Enricher struct {
	source     Source
	creds      Credentials
	onWarning  func(error)
	onProgress func(done, total int)
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithCredentials authenticates against the source before the first lookup.
func WithCredentials(creds Credentials) Option {
	return func(e *Enricher) {
		e.creds = creds
	}
}

// WithWarningHandler receives lookup failures that degraded a single commit.
func WithWarningHandler(fn func(error)) Option {
	return func(e *Enricher) {
		e.onWarning = fn
	}
}

// WithProgress is called after each commit with the number processed so far.
func WithProgress(fn func(done, total int)) Option {
	return func(e *Enricher) {
		e.onProgress = fn
	}
}

// NewEnricher creates an Enricher backed by source.
func NewEnricher(source Source, opts ...Option) *Enricher {
	e := &Enricher{source: source}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich is a shorthand for NewEnricher(source, opts...).Enrich.
func Enrich(ctx context.Context, cl *changelog.Changelog, source Source, opts ...Option) (*EnrichedChangelog, error) {
	return NewEnricher(source, opts...).Enrich(ctx, cl)
}

// Enrich visits every commit of cl in changelog order, one at a time. A
// commit whose subject names a pull request is looked up; every other
// commit gets a nil reference without any lookup. Lookups that fail or
// find nothing leave that commit's reference nil and processing continues.
//
// Enrich fails only when authentication is rejected or ctx is done. The
// input changelog is not modified.
func (e *Enricher) Enrich(ctx context.Context, cl *changelog.Changelog) (*EnrichedChangelog, error) {
	if !e.creds.Empty() {
		if err := e.source.Authenticate(ctx, e.creds); err != nil {
			return nil, fmt.Errorf("authenticating with hosting provider: %w", err)
		}
	}

	result := &EnrichedChangelog{
		Tags:         cl.Tags,
		Commits:      make(map[string]EnrichedCommit, len(cl.Commits)),
		PullRequests: make(map[string]Record),
	}

	seeker := NewSeeker(e.source)
	shas := cl.OrderedSHAs()

	for i, sha := range shas {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		commit := cl.Commits[sha]
		enriched := EnrichedCommit{Commit: commit}

		if number, ok := PullRequestNumber(commit.Subject); ok {
			pr, found, err := seeker.Seek(ctx, number)
			switch {
			case err != nil && ctx.Err() != nil:
				return nil, ctx.Err()
			case err != nil:
				e.warn(fmt.Errorf("commit %s: looking up pull request #%d: %w", commit.ShortSHA(), number, err))
			case found:
				id := strconv.FormatInt(number, 10)
				result.PullRequests[id] = pr
				enriched.PullRequest = &id
			default:
				logDebug("[pullrequest] #%d not found for commit %s", number, commit.ShortSHA())
			}
		}

		result.Commits[sha] = enriched
		if e.onProgress != nil {
			e.onProgress(i+1, len(shas))
		}
	}

	logDebug("[pullrequest] resolved %d pull requests over %d pages", len(result.PullRequests), seeker.PagesFetched())
	return result, nil
}

func (e *Enricher) warn(err error) {
	logDebug("[pullrequest] %v", err)
	if e.onWarning != nil {
		e.onWarning(err)
	}
}

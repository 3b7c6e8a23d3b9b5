package changelog

import "time"

// DefaultTitleTag is the name given to the synthetic head tag that collects
// commits made after the most recent release.
const DefaultTitleTag = "n.n.n"

// Person identifies an author, committer or tagger at a point in time.
// Date is kept verbatim in strict ISO 8601 form as produced by git (%aI/%cI).
type Person struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Date  string `json:"date" yaml:"date"`
}

// Time parses Date. The zero Person has no date and returns an error.
func (p Person) Time() (time.Time, error) {
	return time.Parse(time.RFC3339, p.Date)
}

// Commit is a single parsed commit. SHA is its identity.
type Commit struct {
	SHA        string   `json:"sha" yaml:"sha"`
	Author     Person   `json:"author" yaml:"author"`
	Committer  Person   `json:"committer" yaml:"committer"`
	TreeSHA    string   `json:"tree" yaml:"tree"`
	ParentSHAs []string `json:"parents" yaml:"parents"`
	Subject    string   `json:"subject" yaml:"subject"`
	Body       string   `json:"body" yaml:"body"`
}

// IsMerge reports whether the commit has more than one parent.
func (c Commit) IsMerge() bool {
	return len(c.ParentSHAs) > 1
}

// IsRoot reports whether the commit has no parents.
func (c Commit) IsRoot() bool {
	return len(c.ParentSHAs) == 0
}

// ShortSHA returns the first 7 characters of the commit SHA.
func (c Commit) ShortSHA() string {
	if len(c.SHA) < 7 {
		return c.SHA
	}
	return c.SHA[:7]
}

// Tag is a release marker together with the commits of its release window.
// Name is its identity. CommitSHAs is filled by the Builder, newest first.
type Tag struct {
	SHA        string   `json:"sha" yaml:"sha"`
	Name       string   `json:"name" yaml:"name"`
	Message    string   `json:"message" yaml:"message"`
	Tagger     Person   `json:"tagger" yaml:"tagger"`
	CommitSHAs []string `json:"commits" yaml:"commits"`
}

// IsHead reports whether this is the synthetic tag for unreleased commits.
func (t Tag) IsHead() bool {
	return t.SHA == ""
}

// Changelog is the result of a build: tags newest first and every commit
// referenced by any tag, keyed by SHA.
type Changelog struct {
	Tags    []*Tag            `json:"tags" yaml:"tags"`
	Commits map[string]Commit `json:"commits" yaml:"commits"`
}

// Options controls tag selection and commit filtering for a build.
type Options struct {
	// TitleTag names the head tag. Empty means DefaultTitleTag.
	TitleTag string `koanf:"title_tag" json:"title_tag" yaml:"title_tag"`
	// ListAll includes every tag and ignores the start and final boundaries.
	ListAll bool `koanf:"list_all" json:"list_all" yaml:"list_all"`
	// NoMerges drops merge commits.
	NoMerges bool `koanf:"no_merges" json:"no_merges" yaml:"no_merges"`
	// MergesOnly keeps only merge commits. It wins over NoMerges.
	MergesOnly bool `koanf:"merges_only" json:"merges_only" yaml:"merges_only"`
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{TitleTag: DefaultTitleTag}
}

func (o Options) titleTag() string {
	if o.TitleTag == "" {
		return DefaultTitleTag
	}
	return o.TitleTag
}

// mergeFlag returns the git log flag for the merge filter, or "" for none.
// MergesOnly is applied after NoMerges so it takes precedence.
func (o Options) mergeFlag() string {
	flag := ""
	if o.NoMerges {
		flag = "--no-merges"
	}
	if o.MergesOnly {
		flag = "--merges"
	}
	return flag
}

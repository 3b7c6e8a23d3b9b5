package changelog

import (
	"context"
)

// Runner executes git with the given arguments and returns its standard output.
// Implementations fail when git writes anything to standard error.
// Empty output is a valid result.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// Range selects a slice of history. Start is exclusive and End inclusive.
// All selects every reachable commit and ignores both boundaries.
type Range struct {
	Start string
	End   string
	All   bool
}

// Expression returns the revision range argument for git log. An empty
// expression with a nil error means the whole history.
func (r Range) Expression() (string, error) {
	switch {
	case r.All:
		return "", nil
	case r.End != "" && r.Start == "":
		return r.End, nil
	case r.End != "" && r.Start != "":
		return r.Start + ".." + r.End, nil
	case r.Start != "":
		return r.Start + "..", nil
	}
	return "", &RangeConstructionError{Start: r.Start, End: r.End}
}

// logArgs builds the git log invocation for r.
func (r Range) logArgs(opts Options) ([]string, error) {
	expr, err := r.Expression()
	if err != nil {
		return nil, err
	}

	args := []string{"log", "--date=iso"}
	if flag := opts.mergeFlag(); flag != "" {
		args = append(args, flag)
	}
	args = append(args, "--pretty=format:"+CommitFormat)
	if expr != "" {
		args = append(args, expr)
	}
	// Terminates revisions so a tag sharing a name with a path is not read as a pathspec.
	return append(args, "--"), nil
}

// RangeFetcher reads the commits of a revision range.
type RangeFetcher struct {
	runner Runner
}

// NewRangeFetcher creates a RangeFetcher backed by runner.
func NewRangeFetcher(runner Runner) *RangeFetcher {
	return &RangeFetcher{runner: runner}
}

// Fetch returns the commits of r newest first, filtered by the merge options.
// It runs git exactly once. A RangeConstructionError is returned without
// running git when r selects nothing.
func (f *RangeFetcher) Fetch(ctx context.Context, r Range, opts Options) ([]Commit, error) {
	args, err := r.logArgs(opts)
	if err != nil {
		return nil, err
	}

	expr, _ := r.Expression()
	logDebug("[changelog] fetching range %q", expr)

	out, err := f.runner.Run(ctx, args...)
	if err != nil {
		return nil, &RangeFetchError{Expression: expr, Err: err}
	}

	commits := ParseCommits(out)
	logDebug("[changelog] range %q: %d commits", expr, len(commits))
	return commits, nil
}

package changelog

import (
	"context"
)

// tagListArgs walks only decorated commits reachable from any tag, newest first.
var tagListArgs = []string{"log", "--tags", "--simplify-by-decoration", "--date=iso", "--pretty=format:" + TagFormat}

// TagLister enumerates the tags of a repository.
type TagLister struct {
	runner Runner
}

// NewTagLister creates a TagLister backed by runner.
func NewTagLister(runner Runner) *TagLister {
	return &TagLister{runner: runner}
}

// List returns one Tag per decorated tag commit, newest first, each with an
// empty commit list. It runs git exactly once.
func (l *TagLister) List(ctx context.Context) ([]*Tag, error) {
	out, err := l.runner.Run(ctx, tagListArgs...)
	if err != nil {
		return nil, &TagListError{Err: err}
	}

	tags := ParseTags(out)
	logDebug("[changelog] listed %d tags", len(tags))
	return tags, nil
}

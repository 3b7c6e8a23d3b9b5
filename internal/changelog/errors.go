package changelog

import (
	"errors"
	"fmt"
)

// RangeConstructionError is returned when a fetch is requested without
// list-all and without any boundary. It is a caller bug and is never retried.
type RangeConstructionError struct {
	Start string
	End   string
}

func (e *RangeConstructionError) Error() string {
	return fmt.Sprintf("cannot build revision range (start=%q, end=%q): at least one boundary or list-all is required", e.Start, e.End)
}

// RangeFetchError wraps a failed history read for a single revision range.
type RangeFetchError struct {
	// Expression is the revision range passed to git, empty for full history.
	Expression string
	Err        error
}

func (e *RangeFetchError) Error() string {
	expr := e.Expression
	if expr == "" {
		expr = "<all>"
	}
	return fmt.Sprintf("fetching commits for %s: %v", expr, e.Err)
}

func (e *RangeFetchError) Unwrap() error {
	return e.Err
}

// TagListError wraps a failed tag enumeration.
type TagListError struct {
	Err error
}

func (e *TagListError) Error() string {
	return fmt.Sprintf("listing tags: %v", e.Err)
}

func (e *TagListError) Unwrap() error {
	return e.Err
}

// IsRangeConstructionError returns true if err is or wraps a RangeConstructionError.
func IsRangeConstructionError(err error) bool {
	var rce *RangeConstructionError
	return errors.As(err, &rce)
}

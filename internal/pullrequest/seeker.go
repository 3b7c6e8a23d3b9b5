package pullrequest

import (
	"context"
)

// Seeker finds pull requests by number in a paginated listing. It is not
// safe for concurrent use: the page cursor only moves forward, one page per
// cache miss.
type Seeker struct {
	source    Source
	cache     map[int64]Record
	nextPage  int
	exhausted bool
}

// NewSeeker creates a Seeker that starts at the first page of source.
func NewSeeker(source Source) *Seeker {
	return &Seeker{
		source:   source,
		cache:    make(map[int64]Record),
		nextPage: 1,
	}
}

// Seek returns the pull request with the given number. Cached records are
// returned without a call. On a miss, pages are fetched in order until the
// number is found or an empty page marks the listing as exhausted, after
// which every uncached number reports not found.
//
// A failed page fetch is returned as is and leaves the cursor on that page,
// so the next Seek retries it.
func (s *Seeker) Seek(ctx context.Context, number int64) (Record, bool, error) {
	for {
		if pr, ok := s.cache[number]; ok {
			return pr, true, nil
		}
		if s.exhausted {
			return Record{}, false, nil
		}

		page := s.nextPage
		records, err := s.source.ListClosed(ctx, page)
		if err != nil {
			return Record{}, false, err
		}

		logDebug("[pullrequest] page %d: %d records", page, len(records))
		if len(records) == 0 {
			s.exhausted = true
			continue
		}

		for _, r := range records {
			s.cache[r.Number] = r
		}
		s.nextPage++
	}
}

// PagesFetched returns how many non-empty pages have been read.
func (s *Seeker) PagesFetched() int {
	return s.nextPage - 1
}

// Exhausted reports whether the listing has run out.
func (s *Seeker) Exhausted() bool {
	return s.exhausted
}

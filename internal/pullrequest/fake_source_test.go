package pullrequest

import (
	"context"
	"errors"
	"sync"
)

// fakeSource serves canned pages and records every call.
type fakeSource struct {
	pages   [][]Record
	pageErr map[int]error
	authErr error

	mu        sync.Mutex
	listCalls []int
	authCalls []Credentials
}

func (f *fakeSource) Authenticate(_ context.Context, creds Credentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authCalls = append(f.authCalls, creds)
	return f.authErr
}

func (f *fakeSource) ListClosed(_ context.Context, page int) ([]Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls = append(f.listCalls, page)

	if err, ok := f.pageErr[page]; ok {
		// Fail once, then serve normally.
		delete(f.pageErr, page)
		return nil, err
	}
	if page < 1 || page > len(f.pages) {
		return nil, nil
	}
	return f.pages[page-1], nil
}

var errUnavailable = errors.New("502 bad gateway")

func records(numbers ...int64) []Record {
	out := make([]Record, len(numbers))
	for i, n := range numbers {
		out[i] = Record{Number: n, Title: "pr", State: "closed"}
	}
	return out
}

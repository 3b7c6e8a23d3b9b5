package changelog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRange_Expression(t *testing.T) {
	tests := map[string]struct {
		rng     Range
		want    string
		wantErr bool
	}{
		"all ignores boundaries": {rng: Range{Start: "v1", End: "v2", All: true}, want: ""},
		"end only":               {rng: Range{End: "v2"}, want: "v2"},
		"start and end":          {rng: Range{Start: "v1", End: "v2"}, want: "v1..v2"},
		"start only":             {rng: Range{Start: "v1"}, want: "v1.."},
		"nothing selected":       {rng: Range{}, wantErr: true},
		"all without boundaries": {rng: Range{All: true}, want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := tt.rng.Expression()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsRangeConstructionError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRange_LogArgs(t *testing.T) {
	pretty := "--pretty=format:" + CommitFormat

	tests := map[string]struct {
		rng  Range
		opts Options
		want []string
	}{
		"full history": {
			rng:  Range{All: true},
			want: []string{"log", "--date=iso", pretty, "--"},
		},
		"bounded range": {
			rng:  Range{Start: "v1", End: "v2"},
			want: []string{"log", "--date=iso", pretty, "v1..v2", "--"},
		},
		"no merges": {
			rng:  Range{End: "v1"},
			opts: Options{NoMerges: true},
			want: []string{"log", "--date=iso", "--no-merges", pretty, "v1", "--"},
		},
		"merges only wins": {
			rng:  Range{Start: "v1"},
			opts: Options{NoMerges: true, MergesOnly: true},
			want: []string{"log", "--date=iso", "--merges", pretty, "v1..", "--"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := tt.rng.logArgs(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRangeFetcher_Fetch(t *testing.T) {
	runner := &fakeRunner{
		ranges: map[string][]Commit{"v1..v2": {testCommit("b", "a")}},
	}

	commits, err := NewRangeFetcher(runner).Fetch(context.Background(), Range{Start: "v1", End: "v2"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []Commit{testCommit("b", "a")}, commits)
	assert.Len(t, runner.calls, 1)
}

func TestRangeFetcher_EmptyOutput(t *testing.T) {
	runner := &fakeRunner{}

	commits, err := NewRangeFetcher(runner).Fetch(context.Background(), Range{End: "v1"}, Options{})
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestRangeFetcher_ConstructionErrorSkipsGit(t *testing.T) {
	runner := &fakeRunner{}

	_, err := NewRangeFetcher(runner).Fetch(context.Background(), Range{}, Options{})
	require.Error(t, err)

	var rce *RangeConstructionError
	assert.ErrorAs(t, err, &rce)
	assert.Empty(t, runner.calls)
}

func TestRangeFetcher_RunnerError(t *testing.T) {
	cause := errors.New("fatal: ambiguous argument")
	runner := &fakeRunner{errs: map[string]error{"": cause}}

	_, err := NewRangeFetcher(runner).Fetch(context.Background(), Range{All: true}, Options{})
	require.Error(t, err)

	var fetchErr *RangeFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "", fetchErr.Expression)
	assert.Contains(t, err.Error(), "<all>")
	assert.ErrorIs(t, err, cause)
}

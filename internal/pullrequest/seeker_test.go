package pullrequest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeker_Seek(t *testing.T) {
	tests := map[string]struct {
		pages         [][]Record
		seek          []int64
		wantFound     []bool
		wantListCalls []int
	}{
		"found on third page": {
			pages:         [][]Record{records(50, 49), records(48, 47), records(42, 41)},
			seek:          []int64{42},
			wantFound:     []bool{true},
			wantListCalls: []int{1, 2, 3},
		},
		"cache hit needs no call": {
			pages:         [][]Record{records(50, 49), records(42)},
			seek:          []int64{42, 49, 50},
			wantFound:     []bool{true, true, true},
			wantListCalls: []int{1, 2},
		},
		"missing number exhausts listing": {
			pages:         [][]Record{records(3), records(2)},
			seek:          []int64{99},
			wantFound:     []bool{false},
			wantListCalls: []int{1, 2, 3},
		},
		"exhausted listing is not queried again": {
			pages:         [][]Record{records(3)},
			seek:          []int64{99, 98, 3},
			wantFound:     []bool{false, false, true},
			wantListCalls: []int{1, 2},
		},
		"empty listing": {
			seek:          []int64{1},
			wantFound:     []bool{false},
			wantListCalls: []int{1},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			src := &fakeSource{pages: tt.pages}
			seeker := NewSeeker(src)

			for i, n := range tt.seek {
				pr, found, err := seeker.Seek(context.Background(), n)
				require.NoError(t, err)
				assert.Equal(t, tt.wantFound[i], found, "seek #%d", n)
				if found {
					assert.Equal(t, n, pr.Number)
				}
			}

			assert.Equal(t, tt.wantListCalls, src.listCalls)
		})
	}
}

func TestSeeker_PageErrorKeepsCursor(t *testing.T) {
	src := &fakeSource{
		pages:   [][]Record{records(10), records(9), records(8)},
		pageErr: map[int]error{2: errUnavailable},
	}
	seeker := NewSeeker(src)

	_, found, err := seeker.Seek(context.Background(), 8)
	require.ErrorIs(t, err, errUnavailable)
	assert.False(t, found)
	assert.Equal(t, 1, seeker.PagesFetched())
	assert.False(t, seeker.Exhausted())

	pr, found, err := seeker.Seek(context.Background(), 8)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(8), pr.Number)
	assert.Equal(t, []int{1, 2, 2, 3}, src.listCalls)
}

func TestSeeker_State(t *testing.T) {
	src := &fakeSource{pages: [][]Record{records(1)}}
	seeker := NewSeeker(src)

	assert.Equal(t, 0, seeker.PagesFetched())
	assert.False(t, seeker.Exhausted())

	_, _, err := seeker.Seek(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, seeker.PagesFetched())
	assert.True(t, seeker.Exhausted())
}

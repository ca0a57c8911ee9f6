package viewmodel

import (
	"context"
	"errors"
	"testing"

	"careerhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageCall struct {
	filter      models.JobFilter
	skip, limit int
}

func fakeCollection(total int, calls *[]pageCall, fail *error) PageFetcher[models.JobFilter, int] {
	return func(_ context.Context, f models.JobFilter, skip, limit int) ([]int, error) {
		*calls = append(*calls, pageCall{f, skip, limit})
		if *fail != nil {
			return nil, *fail
		}
		out := []int{}
		for i := skip; i < total && i < skip+limit; i++ {
			out = append(out, i)
		}
		return out, nil
	}
}

func TestPager_SkipLimit(t *testing.T) {
	var calls []pageCall
	var fail error
	p := NewPager(fakeCollection(45, &calls, &fail), models.JobFilter{})
	ctx := context.Background()

	require.NoError(t, p.Reset(ctx, models.JobFilter{Keyword: "go"}))
	require.NoError(t, p.LoadMore(ctx))
	require.NoError(t, p.LoadMore(ctx))

	assert.Equal(t, []pageCall{
		{models.JobFilter{Keyword: "go"}, 0, 20},
		{models.JobFilter{Keyword: "go"}, 20, 20},
		{models.JobFilter{Keyword: "go"}, 40, 20},
	}, calls)

	st := p.State()
	assert.Len(t, st.Items, 45)
	assert.Equal(t, 2, st.Page)
	assert.False(t, st.HasMore)
}

func TestPager_HasMoreBoundary(t *testing.T) {
	tests := []struct {
		name        string
		total       int
		wantHasMore bool
	}{
		{name: "short first page", total: 7, wantHasMore: false},
		{name: "exactly one page reports more", total: 20, wantHasMore: true},
		{name: "over one page", total: 21, wantHasMore: true},
		{name: "empty", total: 0, wantHasMore: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []pageCall
			var fail error
			p := NewPager(fakeCollection(tt.total, &calls, &fail), models.JobFilter{})
			require.NoError(t, p.Reset(context.Background(), models.JobFilter{}))
			assert.Equal(t, tt.wantHasMore, p.State().HasMore)
		})
	}

	// The exact-multiple case settles after fetching the empty page.
	var calls []pageCall
	var fail error
	p := NewPager(fakeCollection(20, &calls, &fail), models.JobFilter{})
	ctx := context.Background()
	require.NoError(t, p.Reset(ctx, models.JobFilter{}))
	require.NoError(t, p.LoadMore(ctx))
	st := p.State()
	assert.False(t, st.HasMore)
	assert.Len(t, st.Items, 20)
}

func TestPager_LoadMoreFailureKeepsItems(t *testing.T) {
	var calls []pageCall
	var fail error
	p := NewPager(fakeCollection(60, &calls, &fail), models.JobFilter{}, WithErrorMessage("Failed to load jobs"))
	ctx := context.Background()
	require.NoError(t, p.Reset(ctx, models.JobFilter{}))

	fail = errors.New("boom")
	require.Error(t, p.LoadMore(ctx))
	st := p.State()
	assert.Equal(t, Error, st.Status)
	assert.Equal(t, "Failed to load jobs", st.Err)
	assert.Equal(t, 0, st.Page)
	assert.Len(t, st.Items, 20)

	fail = nil
	require.NoError(t, p.LoadMore(ctx))
	st = p.State()
	assert.Equal(t, 1, st.Page)
	assert.Len(t, st.Items, 40)
}

func TestPager_ResetDropsLoadedPages(t *testing.T) {
	var calls []pageCall
	var fail error
	p := NewPager(fakeCollection(60, &calls, &fail), models.JobFilter{})
	ctx := context.Background()

	require.NoError(t, p.Reset(ctx, models.JobFilter{}))
	require.NoError(t, p.LoadMore(ctx))
	assert.Len(t, calls, 2)

	require.NoError(t, p.Reset(ctx, models.JobFilter{Location: "Remote"}))
	assert.Len(t, calls, 3)
	st := p.State()
	assert.Equal(t, 0, st.Page)
	assert.Len(t, st.Items, 20)
	assert.Equal(t, models.JobFilter{Location: "Remote"}, p.Params())
}

func TestPager_StateIsACopy(t *testing.T) {
	var calls []pageCall
	var fail error
	p := NewPager(fakeCollection(5, &calls, &fail), models.JobFilter{})
	require.NoError(t, p.Reset(context.Background(), models.JobFilter{}))

	st := p.State()
	st.Items[0] = 99
	assert.Equal(t, 0, p.State().Items[0])
}

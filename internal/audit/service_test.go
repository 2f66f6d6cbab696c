package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	rows     []TimelineRow
	lastArgs struct {
		limit  int
		offset int
	}
}

func (r *fakeRepo) TimelineWindow(ctx context.Context, filters TimelineFilters, limit, offset int) ([]TimelineRow, error) {
	r.lastArgs.limit = limit
	r.lastArgs.offset = offset
	end := offset + limit
	if offset >= len(r.rows) {
		return nil, nil
	}
	if end > len(r.rows) {
		end = len(r.rows)
	}
	return r.rows[offset:end], nil
}

func seedRows(n int) []TimelineRow {
	rows := make([]TimelineRow, n)
	for i := range rows {
		rows[i] = TimelineRow{
			ID:         int64(n - i),
			ActorID:    1,
			Action:     "course.create",
			Entity:     "course",
			EntityID:   "1",
			OccurredAt: time.Now().Add(-time.Duration(i) * time.Minute),
		}
	}
	return rows
}

func TestTimelineDefaultsAndNextPage(t *testing.T) {
	repo := &fakeRepo{rows: seedRows(25)}
	svc := NewService(repo)

	result, err := svc.Timeline(context.Background(), TimelineFilters{})
	require.NoError(t, err)
	require.Len(t, result.Rows, 20)
	require.Equal(t, 1, result.Paging.Page)
	require.True(t, result.Paging.HasNext)
	// One extra row requested for next-page detection.
	require.Equal(t, 21, repo.lastArgs.limit)

	result, err = svc.Timeline(context.Background(), TimelineFilters{Page: 2})
	require.NoError(t, err)
	require.Len(t, result.Rows, 5)
	require.False(t, result.Paging.HasNext)
	require.Equal(t, 20, repo.lastArgs.offset)
}

func TestTimelineClampsPageSize(t *testing.T) {
	repo := &fakeRepo{rows: seedRows(80)}
	svc := NewService(repo)

	result, err := svc.Timeline(context.Background(), TimelineFilters{PageSize: 500})
	require.NoError(t, err)
	require.Equal(t, 50, result.Paging.PageSize)
	require.Len(t, result.Rows, 50)
}

func TestTimelineWithoutRepository(t *testing.T) {
	svc := NewService(nil)
	_, err := svc.Timeline(context.Background(), TimelineFilters{})
	require.Error(t, err)
}

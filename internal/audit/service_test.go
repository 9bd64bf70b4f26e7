package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	rows []TimelineRow
}

func (m *memoryRepo) filtered(filters TimelineFilters) []TimelineRow {
	var out []TimelineRow
	for _, row := range m.rows {
		if filters.Action != "" && row.Action != filters.Action {
			continue
		}
		if filters.Entity != "" && row.Entity != filters.Entity {
			continue
		}
		if !filters.From.IsZero() && row.At.Before(filters.From) {
			continue
		}
		if !filters.To.IsZero() && row.At.After(filters.To) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func (m *memoryRepo) TimelineWindow(ctx context.Context, orgID int64, filters TimelineFilters, limit, offset int) ([]TimelineRow, error) {
	rows := m.filtered(filters)
	if offset >= len(rows) {
		return nil, nil
	}
	rows = rows[offset:]
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (m *memoryRepo) TimelineAll(ctx context.Context, orgID int64, filters TimelineFilters) ([]TimelineRow, error) {
	return m.filtered(filters), nil
}

func seedRows(n int) *memoryRepo {
	repo := &memoryRepo{}
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		repo.rows = append(repo.rows, TimelineRow{
			At:     base.Add(time.Duration(i) * time.Hour),
			Action: "invoices.create",
			Entity: "invoice",
		})
	}
	return repo
}

func TestTimelineDefaultPageSize(t *testing.T) {
	svc := NewService(seedRows(25))

	result, err := svc.Timeline(context.Background(), 7, TimelineFilters{})
	require.NoError(t, err)
	require.Len(t, result.Rows, 20)
	require.Equal(t, 1, result.Paging.Page)
	require.Equal(t, 20, result.Paging.PageSize)
	require.True(t, result.Paging.HasNext)
	require.Equal(t, 2, result.Paging.NextPage)
	require.Zero(t, result.Paging.PrevPage)
}

func TestTimelineLastPage(t *testing.T) {
	svc := NewService(seedRows(25))

	result, err := svc.Timeline(context.Background(), 7, TimelineFilters{Page: 2})
	require.NoError(t, err)
	require.Len(t, result.Rows, 5)
	require.False(t, result.Paging.HasNext)
	require.Equal(t, 1, result.Paging.PrevPage)
	require.Zero(t, result.Paging.NextPage)
}

func TestTimelineClampsPageSize(t *testing.T) {
	svc := NewService(seedRows(120))

	result, err := svc.Timeline(context.Background(), 7, TimelineFilters{PageSize: 500})
	require.NoError(t, err)
	require.Len(t, result.Rows, 50)
	require.Equal(t, 50, result.Paging.PageSize)

	result, err = svc.Timeline(context.Background(), 7, TimelineFilters{PageSize: -3, Page: -1})
	require.NoError(t, err)
	require.Equal(t, 20, result.Paging.PageSize)
	require.Equal(t, 1, result.Paging.Page)
}

func TestTimelineFilters(t *testing.T) {
	repo := seedRows(5)
	repo.rows[2].Action = "payroll.run"
	repo.rows[2].Entity = "payroll_run"
	svc := NewService(repo)

	result, err := svc.Timeline(context.Background(), 7, TimelineFilters{Action: "payroll.run"})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	require.Equal(t, "payroll_run", result.Rows[0].Entity)
}

func TestExportReturnsEverything(t *testing.T) {
	svc := NewService(seedRows(75))

	rows, err := svc.Export(context.Background(), 7, TimelineFilters{})
	require.NoError(t, err)
	require.Len(t, rows, 75)
}

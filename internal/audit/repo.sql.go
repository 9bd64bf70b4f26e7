package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

var _ Repository = (*PGRepository)(nil)

const timelineQuery = `
SELECT occurred_at, actor_id, action, entity, entity_id, meta
FROM audit_logs
WHERE org_id = $1
  AND ($2::timestamptz IS NULL OR occurred_at >= $2)
  AND ($3::timestamptz IS NULL OR occurred_at <= $3)
  AND ($4::text IS NULL OR action = $4)
  AND ($5::text IS NULL OR entity = $5)
ORDER BY occurred_at DESC`

// TimelineWindow returns one page of the filtered timeline.
func (r *PGRepository) TimelineWindow(ctx context.Context, orgID int64, filters TimelineFilters, limit, offset int) ([]TimelineRow, error) {
	rows, err := r.pool.Query(ctx, timelineQuery+` LIMIT $6 OFFSET $7`,
		orgID, optionalTime(filters.From), optionalTime(filters.To),
		optionalText(filters.Action), optionalText(filters.Entity), limit, offset)
	if err != nil {
		return nil, err
	}
	return collectTimeline(rows)
}

// TimelineAll returns the full filtered timeline.
func (r *PGRepository) TimelineAll(ctx context.Context, orgID int64, filters TimelineFilters) ([]TimelineRow, error) {
	rows, err := r.pool.Query(ctx, timelineQuery,
		orgID, optionalTime(filters.From), optionalTime(filters.To),
		optionalText(filters.Action), optionalText(filters.Entity))
	if err != nil {
		return nil, err
	}
	return collectTimeline(rows)
}

func collectTimeline(rows pgx.Rows) ([]TimelineRow, error) {
	defer rows.Close()
	var result []TimelineRow
	for rows.Next() {
		var row TimelineRow
		var meta []byte
		if err := rows.Scan(&row.At, &row.ActorID, &row.Action, &row.Entity, &row.EntityID, &meta); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			_ = json.Unmarshal(meta, &row.Meta)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func optionalTime(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: !t.IsZero()}
}

func optionalText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

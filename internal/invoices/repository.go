package invoices

import (
	"context"
	"time"
)

// Repository defines persistence operations for invoices.
type Repository interface {
	List(ctx context.Context, orgID int64) ([]Invoice, error)
	Get(ctx context.Context, orgID, id int64) (Invoice, error)
	InsertWithLines(ctx context.Context, inv Invoice) (Invoice, error)
	UpdateStatus(ctx context.Context, orgID, id int64, from, to Status) (bool, error)
	Delete(ctx context.Context, orgID, id int64) (bool, error)
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

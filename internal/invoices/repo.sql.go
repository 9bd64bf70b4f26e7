package invoices

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/centavo-sv/centavo/internal/platform/db"
	"github.com/centavo-sv/centavo/internal/shared"
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

const invoiceColumns = `id, org_id, number, customer_name, status, issue_date, due_date,
	subtotal, iva, total, created_at, updated_at`

// List returns invoice headers for an organization, newest first.
func (r *PGRepository) List(ctx context.Context, orgID int64) ([]Invoice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE org_id = $1 ORDER BY issue_date DESC, id DESC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.OrgID, &inv.Number, &inv.CustomerName, &inv.Status,
			&inv.IssueDate, &inv.DueDate, &inv.Subtotal, &inv.IVA, &inv.Total,
			&inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// Get fetches one invoice with its lines.
func (r *PGRepository) Get(ctx context.Context, orgID, id int64) (Invoice, error) {
	var inv Invoice
	err := r.pool.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE org_id = $1 AND id = $2`, orgID, id).
		Scan(&inv.ID, &inv.OrgID, &inv.Number, &inv.CustomerName, &inv.Status,
			&inv.IssueDate, &inv.DueDate, &inv.Subtotal, &inv.IVA, &inv.Total,
			&inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Invoice{}, shared.ErrNotFound
		}
		return Invoice{}, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, invoice_id, description, quantity, unit_price, line_total
		 FROM invoice_lines WHERE invoice_id = $1 ORDER BY id`, id)
	if err != nil {
		return Invoice{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.Description, &l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return Invoice{}, err
		}
		inv.Lines = append(inv.Lines, l)
	}
	return inv, rows.Err()
}

// InsertWithLines creates the invoice header and its lines atomically.
func (r *PGRepository) InsertWithLines(ctx context.Context, inv Invoice) (Invoice, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO invoices (org_id, number, customer_name, status, issue_date, due_date,
			        subtotal, iva, total)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 RETURNING id, created_at, updated_at`,
			inv.OrgID, inv.Number, inv.CustomerName, inv.Status, inv.IssueDate, inv.DueDate,
			inv.Subtotal, inv.IVA, inv.Total).
			Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return ErrDuplicateNumber
			}
			return err
		}
		for i := range inv.Lines {
			inv.Lines[i].InvoiceID = inv.ID
			err := tx.QueryRow(ctx,
				`INSERT INTO invoice_lines (invoice_id, description, quantity, unit_price, line_total)
				 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
				inv.ID, inv.Lines[i].Description, inv.Lines[i].Quantity,
				inv.Lines[i].UnitPrice, inv.Lines[i].LineTotal).
				Scan(&inv.Lines[i].ID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

// UpdateStatus moves an invoice between statuses, guarding the expected
// current status so concurrent transitions cannot race.
func (r *PGRepository) UpdateStatus(ctx context.Context, orgID, id int64, from, to Status) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE invoices SET status = $4, updated_at = NOW()
		 WHERE org_id = $1 AND id = $2 AND status = $3`, orgID, id, from, to)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a draft invoice and its lines.
func (r *PGRepository) Delete(ctx context.Context, orgID, id int64) (bool, error) {
	var deleted bool
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx,
			`DELETE FROM invoices WHERE org_id = $1 AND id = $2 AND status = $3`,
			orgID, id, StatusDraft)
		if err != nil {
			return err
		}
		deleted = tag.RowsAffected() > 0
		return nil
	})
	return deleted, err
}

// MarkOverdue flips issued invoices past their due date, returning the number
// of rows affected.
func (r *PGRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE invoices SET status = $1, updated_at = NOW()
		 WHERE status = $2 AND due_date < $3`, StatusOverdue, StatusIssued, asOf)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

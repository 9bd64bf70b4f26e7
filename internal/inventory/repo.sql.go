package inventory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/centavo-sv/centavo/internal/platform/db"
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

// ListLevels returns all stock levels for an organization.
func (r *PGRepository) ListLevels(ctx context.Context, orgID int64) ([]StockLevel, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT org_id, sku, quantity, updated_at FROM stock_levels
		 WHERE org_id = $1 ORDER BY sku`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var levels []StockLevel
	for rows.Next() {
		var l StockLevel
		if err := rows.Scan(&l.OrgID, &l.SKU, &l.Quantity, &l.UpdatedAt); err != nil {
			return nil, err
		}
		levels = append(levels, l)
	}
	return levels, rows.Err()
}

// ListMovements returns the movement log for one SKU, newest first.
func (r *PGRepository) ListMovements(ctx context.Context, orgID int64, sku string) ([]Movement, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, org_id, sku, type, quantity, delta, balance, note, created_by, created_at
		 FROM stock_movements WHERE org_id = $1 AND sku = $2 ORDER BY id DESC`, orgID, sku)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var movements []Movement
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.ID, &m.OrgID, &m.SKU, &m.Type, &m.Quantity, &m.Delta,
			&m.Balance, &m.Note, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

// WithTx runs fn against tx-scoped writes.
func (r *PGRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &pgTxRepository{tx: tx})
	})
}

type pgTxRepository struct {
	tx pgx.Tx
}

// GetLevelForUpdate locks the level row for the duration of the transaction.
func (r *pgTxRepository) GetLevelForUpdate(ctx context.Context, orgID int64, sku string) (StockLevel, error) {
	var l StockLevel
	err := r.tx.QueryRow(ctx,
		`SELECT org_id, sku, quantity, updated_at FROM stock_levels
		 WHERE org_id = $1 AND sku = $2 FOR UPDATE`, orgID, sku).
		Scan(&l.OrgID, &l.SKU, &l.Quantity, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StockLevel{}, ErrLevelNotFound
		}
		return StockLevel{}, err
	}
	return l, nil
}

func (r *pgTxRepository) UpsertLevel(ctx context.Context, level StockLevel) error {
	_, err := r.tx.Exec(ctx,
		`INSERT INTO stock_levels (org_id, sku, quantity, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (org_id, sku) DO UPDATE SET quantity = $3, updated_at = $4`,
		level.OrgID, level.SKU, level.Quantity, level.UpdatedAt)
	return err
}

func (r *pgTxRepository) InsertMovement(ctx context.Context, m Movement) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx,
		`INSERT INTO stock_movements (org_id, sku, type, quantity, delta, balance, note, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		m.OrgID, m.SKU, m.Type, m.Quantity, m.Delta, m.Balance, m.Note, m.CreatedBy, m.CreatedAt).
		Scan(&id)
	return id, err
}

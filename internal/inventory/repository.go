package inventory

import (
	"context"
	"errors"
)

// ErrLevelNotFound indicates no stock level row exists yet for the SKU.
var ErrLevelNotFound = errors.New("inventory: stock level not found")

// Repository defines persistence operations for inventory.
type Repository interface {
	ListLevels(ctx context.Context, orgID int64) ([]StockLevel, error)
	ListMovements(ctx context.Context, orgID int64, sku string) ([]Movement, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository groups the writes of one movement posting.
type TxRepository interface {
	GetLevelForUpdate(ctx context.Context, orgID int64, sku string) (StockLevel, error)
	UpsertLevel(ctx context.Context, level StockLevel) error
	InsertMovement(ctx context.Context, m Movement) (int64, error)
}

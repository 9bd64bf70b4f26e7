// Package inventory tracks stock levels per organization and SKU through an
// append-only movement log.
package inventory

import "time"

// MovementType classifies a stock movement.
type MovementType string

const (
	// MovementIn receives stock; quantity is a positive delta.
	MovementIn MovementType = "IN"
	// MovementOut issues stock; quantity is a positive delta subtracted
	// from the level.
	MovementOut MovementType = "OUT"
	// MovementAdjustment sets the level to an absolute quantity, e.g. after
	// a physical count. The stored movement keeps the derived delta so the
	// log stays additive.
	MovementAdjustment MovementType = "ADJUSTMENT"
)

// Movement is one recorded stock change.
type Movement struct {
	ID        int64        `json:"id"`
	OrgID     int64        `json:"org_id"`
	SKU       string       `json:"sku"`
	Type      MovementType `json:"type"`
	Quantity  float64      `json:"quantity"`
	Delta     float64      `json:"delta"`
	Balance   float64      `json:"balance"`
	Note      string       `json:"note"`
	CreatedBy int64        `json:"created_by"`
	CreatedAt time.Time    `json:"created_at"`
}

// StockLevel is the current balance for one SKU.
type StockLevel struct {
	OrgID     int64     `json:"org_id"`
	SKU       string    `json:"sku"`
	Quantity  float64   `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

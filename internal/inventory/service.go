package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/centavo-sv/centavo/internal/shared"
)

var (
	// ErrNegativeStock indicates the movement would drive the level below zero.
	ErrNegativeStock = errors.New("inventory: stock cannot go negative")
	// ErrInvalidQuantity indicates a non-positive delta or negative target.
	ErrInvalidQuantity = errors.New("inventory: invalid quantity")
)

// MovementInput describes a requested stock change.
type MovementInput struct {
	OrgID    int64
	SKU      string
	Type     MovementType
	Quantity float64
	Note     string
	ActorID  int64
}

// Service posts stock movements under a negative-stock guard.
type Service struct {
	repo   Repository
	audit  shared.Recorder
	logger *slog.Logger
}

// NewService constructs an inventory Service.
func NewService(repo Repository, audit shared.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// ListLevels returns current stock levels for an organization.
func (s *Service) ListLevels(ctx context.Context, orgID int64) ([]StockLevel, error) {
	return s.repo.ListLevels(ctx, orgID)
}

// ListMovements returns the movement log for one SKU.
func (s *Service) ListMovements(ctx context.Context, orgID int64, sku string) ([]Movement, error) {
	return s.repo.ListMovements(ctx, orgID, sku)
}

// PostMovement applies one movement atomically. IN and OUT treat Quantity as
// a positive delta; ADJUSTMENT treats it as the absolute target level and
// derives the delta.
func (s *Service) PostMovement(ctx context.Context, in MovementInput) (Movement, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	if in.SKU == "" {
		return Movement{}, errors.New("inventory: sku required")
	}
	switch in.Type {
	case MovementIn, MovementOut:
		if in.Quantity <= 0 {
			return Movement{}, fmt.Errorf("%w: delta must be positive", ErrInvalidQuantity)
		}
	case MovementAdjustment:
		if in.Quantity < 0 {
			return Movement{}, fmt.Errorf("%w: target level must be non-negative", ErrInvalidQuantity)
		}
	default:
		return Movement{}, fmt.Errorf("inventory: unknown movement type %q", in.Type)
	}

	var posted Movement
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		level, err := tx.GetLevelForUpdate(ctx, in.OrgID, in.SKU)
		if err != nil {
			if !errors.Is(err, ErrLevelNotFound) {
				return err
			}
			level = StockLevel{OrgID: in.OrgID, SKU: in.SKU}
		}

		var delta float64
		switch in.Type {
		case MovementIn:
			delta = in.Quantity
		case MovementOut:
			delta = -in.Quantity
		case MovementAdjustment:
			delta = in.Quantity - level.Quantity
		}

		newQty := level.Quantity + delta
		if newQty < 0 {
			return ErrNegativeStock
		}

		level.Quantity = newQty
		level.UpdatedAt = time.Now().UTC()
		if err := tx.UpsertLevel(ctx, level); err != nil {
			return err
		}

		posted = Movement{
			OrgID:     in.OrgID,
			SKU:       in.SKU,
			Type:      in.Type,
			Quantity:  in.Quantity,
			Delta:     delta,
			Balance:   newQty,
			Note:      in.Note,
			CreatedBy: in.ActorID,
			CreatedAt: level.UpdatedAt,
		}
		id, err := tx.InsertMovement(ctx, posted)
		if err != nil {
			return err
		}
		posted.ID = id
		return nil
	})
	if err != nil {
		return Movement{}, err
	}

	if s.audit != nil {
		auditErr := s.audit.Record(ctx, shared.AuditLog{
			OrgID:    in.OrgID,
			ActorID:  in.ActorID,
			Action:   "inventory." + strings.ToLower(string(in.Type)),
			Entity:   "stock_level",
			EntityID: in.SKU,
			Meta:     map[string]any{"delta": posted.Delta, "balance": posted.Balance},
		})
		if auditErr != nil && s.logger != nil {
			s.logger.Error("inventory audit record", slog.Any("error", auditErr))
		}
	}

	return posted, nil
}

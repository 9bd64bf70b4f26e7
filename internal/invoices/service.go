package invoices

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/centavo-sv/centavo/internal/shared"
)

var (
	// ErrDuplicateNumber indicates the invoice number is taken within the org.
	ErrDuplicateNumber = errors.New("invoices: number already used")
	// ErrInvalidTransition indicates a disallowed status change.
	ErrInvalidTransition = errors.New("invoices: invalid status transition")
	// ErrNotDraft indicates deletion of a non-draft invoice.
	ErrNotDraft = errors.New("invoices: only draft invoices can be deleted")
	// ErrNoLines indicates an invoice without line items.
	ErrNoLines = errors.New("invoices: at least one line required")
)

// Service wraps invoice business rules.
type Service struct {
	repo   Repository
	audit  shared.Recorder
	logger *slog.Logger
}

// NewService constructs an invoices Service.
func NewService(repo Repository, audit shared.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// List returns invoice headers for an organization.
func (s *Service) List(ctx context.Context, orgID int64) ([]Invoice, error) {
	return s.repo.List(ctx, orgID)
}

// Get fetches one invoice with lines.
func (s *Service) Get(ctx context.Context, orgID, id int64) (Invoice, error) {
	return s.repo.Get(ctx, orgID, id)
}

// Create stores a draft invoice, computing line and IVA totals.
func (s *Service) Create(ctx context.Context, inv Invoice, actorID int64) (Invoice, error) {
	inv.Number = strings.TrimSpace(inv.Number)
	if inv.Number == "" {
		return Invoice{}, errors.New("invoices: number required")
	}
	if len(inv.Lines) == 0 {
		return Invoice{}, ErrNoLines
	}
	for i := range inv.Lines {
		inv.Lines[i].LineTotal = CalculateLineTotal(inv.Lines[i].Quantity, inv.Lines[i].UnitPrice)
	}
	inv.Subtotal, inv.IVA, inv.Total = CalculateTotals(inv.Lines)
	inv.Status = StatusDraft
	if inv.IssueDate.IsZero() {
		inv.IssueDate = time.Now().UTC()
	}
	if inv.DueDate.IsZero() {
		inv.DueDate = inv.IssueDate.AddDate(0, 1, 0)
	}

	created, err := s.repo.InsertWithLines(ctx, inv)
	if err != nil {
		return Invoice{}, err
	}
	s.recordAudit(ctx, created.OrgID, actorID, "invoices.create", created.ID, map[string]any{
		"number": created.Number,
		"total":  created.Total,
	})
	return created, nil
}

// Transition moves an invoice through its lifecycle.
func (s *Service) Transition(ctx context.Context, orgID, id int64, to Status, actorID int64) (Invoice, error) {
	inv, err := s.repo.Get(ctx, orgID, id)
	if err != nil {
		return Invoice{}, err
	}
	if !CanTransition(inv.Status, to) {
		return Invoice{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, inv.Status, to)
	}
	moved, err := s.repo.UpdateStatus(ctx, orgID, id, inv.Status, to)
	if err != nil {
		return Invoice{}, err
	}
	if !moved {
		// Lost a race with a concurrent transition.
		return Invoice{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, inv.Status, to)
	}
	s.recordAudit(ctx, orgID, actorID, "invoices.edit", id, map[string]any{
		"from": inv.Status,
		"to":   to,
	})
	inv.Status = to
	return inv, nil
}

// Delete removes a draft invoice.
func (s *Service) Delete(ctx context.Context, orgID, id int64, actorID int64) error {
	inv, err := s.repo.Get(ctx, orgID, id)
	if err != nil {
		return err
	}
	if inv.Status != StatusDraft {
		return ErrNotDraft
	}
	deleted, err := s.repo.Delete(ctx, orgID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return shared.ErrNotFound
	}
	s.recordAudit(ctx, orgID, actorID, "invoices.delete", id, map[string]any{"number": inv.Number})
	return nil
}

// MarkOverdue flips issued invoices past due. Called from the cron job.
func (s *Service) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	return s.repo.MarkOverdue(ctx, asOf)
}

func (s *Service) recordAudit(ctx context.Context, orgID, actorID int64, action string, invoiceID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		OrgID:    orgID,
		ActorID:  actorID,
		Action:   action,
		Entity:   "invoice",
		EntityID: strconv.FormatInt(invoiceID, 10),
		Meta:     meta,
	})
	if err != nil && s.logger != nil {
		s.logger.Error("invoices audit record", slog.Any("error", err))
	}
}

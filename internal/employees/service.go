package employees

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/centavo-sv/centavo/internal/shared"
)

// ErrNegativeSalary indicates a salary below zero.
var ErrNegativeSalary = errors.New("employees: monthly salary must be non-negative")

// Service wraps employee master data rules. It enforces the non-negative
// salary precondition the payroll engine relies on.
type Service struct {
	repo   Repository
	audit  shared.Recorder
	logger *slog.Logger
}

// NewService constructs an employees Service.
func NewService(repo Repository, audit shared.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// List returns all employees of an organization.
func (s *Service) List(ctx context.Context, orgID int64) ([]Employee, error) {
	return s.repo.List(ctx, orgID)
}

// Get fetches one employee.
func (s *Service) Get(ctx context.Context, orgID, id int64) (Employee, error) {
	return s.repo.Get(ctx, orgID, id)
}

// Create inserts a new active employee.
func (s *Service) Create(ctx context.Context, e Employee, actorID int64) (Employee, error) {
	e.FullName = strings.TrimSpace(e.FullName)
	if e.FullName == "" {
		return Employee{}, errors.New("employees: full name required")
	}
	if e.MonthlySalary < 0 {
		return Employee{}, ErrNegativeSalary
	}
	created, err := s.repo.Insert(ctx, e)
	if err != nil {
		return Employee{}, err
	}
	s.recordAudit(ctx, created.OrgID, actorID, "employees.create", created.ID, map[string]any{
		"full_name": created.FullName,
	})
	return created, nil
}

// Update rewrites an employee record.
func (s *Service) Update(ctx context.Context, e Employee, actorID int64) (Employee, error) {
	e.FullName = strings.TrimSpace(e.FullName)
	if e.FullName == "" {
		return Employee{}, errors.New("employees: full name required")
	}
	if e.MonthlySalary < 0 {
		return Employee{}, ErrNegativeSalary
	}
	updated, err := s.repo.Update(ctx, e)
	if err != nil {
		return Employee{}, err
	}
	s.recordAudit(ctx, updated.OrgID, actorID, "employees.edit", updated.ID, nil)
	return updated, nil
}

// Deactivate excludes an employee from future payroll runs.
func (s *Service) Deactivate(ctx context.Context, orgID, id int64, actorID int64) error {
	if err := s.repo.Deactivate(ctx, orgID, id); err != nil {
		return err
	}
	s.recordAudit(ctx, orgID, actorID, "employees.delete", id, nil)
	return nil
}

func (s *Service) recordAudit(ctx context.Context, orgID, actorID int64, action string, employeeID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		OrgID:    orgID,
		ActorID:  actorID,
		Action:   action,
		Entity:   "employee",
		EntityID: strconv.FormatInt(employeeID, 10),
		Meta:     meta,
	})
	if err != nil && s.logger != nil {
		s.logger.Error("employees audit record", slog.Any("error", err))
	}
}

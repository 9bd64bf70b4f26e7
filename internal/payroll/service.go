package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/centavo-sv/centavo/internal/shared"
)

var (
	// ErrRunExists indicates a run already exists for the period.
	ErrRunExists = errors.New("payroll: run already exists for period")
	// ErrNoEmployees indicates the organization has no active employees.
	ErrNoEmployees = errors.New("payroll: no active employees")
	// ErrNotFound indicates the requested run does not exist.
	ErrNotFound = errors.New("payroll: run not found")
	// ErrInvalidPeriod indicates the period is not in YYYY-MM form.
	ErrInvalidPeriod = errors.New("payroll: invalid period")
)

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// Service orchestrates payroll runs on top of the pure deduction engine.
type Service struct {
	repo   Repository
	audit  shared.Recorder
	logger *slog.Logger
}

// NewService constructs a payroll Service.
func NewService(repo Repository, audit shared.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// RunPayroll computes payslips for every active employee and persists the
// run atomically with its payslips.
func (s *Service) RunPayroll(ctx context.Context, orgID int64, period string, actorID int64) (Run, []Payslip, error) {
	if !periodPattern.MatchString(period) {
		return Run{}, nil, ErrInvalidPeriod
	}

	employees, err := s.repo.ListActiveEmployees(ctx, orgID)
	if err != nil {
		return Run{}, nil, fmt.Errorf("payroll: list employees: %w", err)
	}
	if len(employees) == 0 {
		return Run{}, nil, ErrNoEmployees
	}

	run := Run{
		ID:            uuid.NewString(),
		OrgID:         orgID,
		Period:        period,
		Status:        StatusCompleted,
		EmployeeCount: len(employees),
		CreatedBy:     actorID,
		CreatedAt:     time.Now().UTC(),
	}

	slips := make([]Payslip, 0, len(employees))
	for _, emp := range employees {
		breakdown := CalculateDeductions(emp.MonthlySalary)
		slips = append(slips, Payslip{
			RunID:              run.ID,
			EmployeeID:         emp.ID,
			EmployeeName:       emp.FullName,
			DeductionBreakdown: breakdown,
		})
		run.TotalGross = round2(run.TotalGross + breakdown.GrossSalary)
		run.TotalDeductions = round2(run.TotalDeductions + breakdown.TotalDeductions)
		run.TotalNet = round2(run.TotalNet + breakdown.NetSalary)
		run.TotalEmployerCost = round2(run.TotalEmployerCost + breakdown.EmployerCost)
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		exists, err := tx.RunExistsForPeriod(ctx, orgID, period)
		if err != nil {
			return err
		}
		if exists {
			return ErrRunExists
		}
		if err := tx.InsertRun(ctx, run); err != nil {
			return err
		}
		return tx.InsertPayslips(ctx, run.ID, slips)
	})
	if err != nil {
		return Run{}, nil, err
	}

	if s.audit != nil {
		auditErr := s.audit.Record(ctx, shared.AuditLog{
			OrgID:    orgID,
			ActorID:  actorID,
			Action:   "payroll.run",
			Entity:   "payroll_run",
			EntityID: run.ID,
			Meta: map[string]any{
				"period":    period,
				"employees": run.EmployeeCount,
				"total_net": run.TotalNet,
			},
		})
		if auditErr != nil && s.logger != nil {
			s.logger.Error("payroll audit record", slog.Any("error", auditErr))
		}
	}

	return run, slips, nil
}

// GetRun fetches a run with its payslips.
func (s *Service) GetRun(ctx context.Context, orgID int64, runID string) (Run, []Payslip, error) {
	run, err := s.repo.GetRun(ctx, orgID, runID)
	if err != nil {
		return Run{}, nil, err
	}
	slips, err := s.repo.ListPayslips(ctx, runID)
	if err != nil {
		return Run{}, nil, err
	}
	return run, slips, nil
}

// ListRuns returns all runs for the organization, newest first.
func (s *Service) ListRuns(ctx context.Context, orgID int64) ([]Run, error) {
	return s.repo.ListRuns(ctx, orgID)
}

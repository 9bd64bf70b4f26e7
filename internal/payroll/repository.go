package payroll

import "context"

// Repository defines persistence operations for payroll runs.
type Repository interface {
	ListActiveEmployees(ctx context.Context, orgID int64) ([]Employee, error)
	GetRun(ctx context.Context, orgID int64, runID string) (Run, error)
	ListRuns(ctx context.Context, orgID int64) ([]Run, error)
	ListPayslips(ctx context.Context, runID string) ([]Payslip, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository groups the writes that must commit atomically with the run
// record.
type TxRepository interface {
	RunExistsForPeriod(ctx context.Context, orgID int64, period string) (bool, error)
	InsertRun(ctx context.Context, run Run) error
	InsertPayslips(ctx context.Context, runID string, slips []Payslip) error
}

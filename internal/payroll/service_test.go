package payroll

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/centavo-sv/centavo/internal/shared"
)

type memoryRepo struct {
	employees []Employee
	runs      map[string]Run
	slips     map[string][]Payslip
	periods   map[string]bool

	listErr error
}

func newMemoryRepo(employees ...Employee) *memoryRepo {
	return &memoryRepo{
		employees: employees,
		runs:      make(map[string]Run),
		slips:     make(map[string][]Payslip),
		periods:   make(map[string]bool),
	}
}

func (m *memoryRepo) ListActiveEmployees(ctx context.Context, orgID int64) ([]Employee, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.employees, nil
}

func (m *memoryRepo) GetRun(ctx context.Context, orgID int64, runID string) (Run, error) {
	run, ok := m.runs[runID]
	if !ok || run.OrgID != orgID {
		return Run{}, ErrNotFound
	}
	return run, nil
}

func (m *memoryRepo) ListRuns(ctx context.Context, orgID int64) ([]Run, error) {
	var out []Run
	for _, run := range m.runs {
		if run.OrgID == orgID {
			out = append(out, run)
		}
	}
	return out, nil
}

func (m *memoryRepo) ListPayslips(ctx context.Context, runID string) ([]Payslip, error) {
	return m.slips[runID], nil
}

func (m *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, m)
}

func (m *memoryRepo) RunExistsForPeriod(ctx context.Context, orgID int64, period string) (bool, error) {
	return m.periods[period], nil
}

func (m *memoryRepo) InsertRun(ctx context.Context, run Run) error {
	m.runs[run.ID] = run
	m.periods[run.Period] = true
	return nil
}

func (m *memoryRepo) InsertPayslips(ctx context.Context, runID string, slips []Payslip) error {
	m.slips[runID] = slips
	return nil
}

type recorderStub struct {
	logs []shared.AuditLog
}

func (r *recorderStub) Record(ctx context.Context, log shared.AuditLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func TestRunPayrollComputesTotals(t *testing.T) {
	repo := newMemoryRepo(
		Employee{ID: 1, FullName: "Ana Morales", MonthlySalary: 1000.00},
		Employee{ID: 2, FullName: "Carlos Pineda", MonthlySalary: 500.00},
	)
	recorder := &recorderStub{}
	svc := NewService(repo, recorder, nil)

	run, slips, err := svc.RunPayroll(context.Background(), 7, "2026-08", 42)
	require.NoError(t, err)
	require.Len(t, slips, 2)

	require.Equal(t, StatusCompleted, run.Status)
	require.Equal(t, 2, run.EmployeeCount)
	require.Equal(t, int64(42), run.CreatedBy)
	require.InDelta(t, 1500.00, run.TotalGross, 0.001)
	require.InDelta(t, 214.20, run.TotalDeductions, 0.001)
	require.InDelta(t, 1285.80, run.TotalNet, 0.001)

	require.InDelta(t, 837.05, slips[0].NetSalary, 0.001)
	require.InDelta(t, 448.75, slips[1].NetSalary, 0.001)

	require.Len(t, recorder.logs, 1)
	require.Equal(t, "payroll.run", recorder.logs[0].Action)
	require.Equal(t, run.ID, recorder.logs[0].EntityID)
}

func TestRunPayrollRejectsDuplicatePeriod(t *testing.T) {
	repo := newMemoryRepo(Employee{ID: 1, FullName: "Ana Morales", MonthlySalary: 800})
	svc := NewService(repo, nil, nil)

	_, _, err := svc.RunPayroll(context.Background(), 7, "2026-08", 1)
	require.NoError(t, err)

	_, _, err = svc.RunPayroll(context.Background(), 7, "2026-08", 1)
	require.ErrorIs(t, err, ErrRunExists)
}

func TestRunPayrollNoActiveEmployees(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	_, _, err := svc.RunPayroll(context.Background(), 7, "2026-08", 1)
	require.ErrorIs(t, err, ErrNoEmployees)
}

func TestRunPayrollValidatesPeriod(t *testing.T) {
	svc := NewService(newMemoryRepo(Employee{ID: 1, MonthlySalary: 500}), nil, nil)

	for _, period := range []string{"", "2026-13", "2026-00", "08-2026", "2026/08", "202608"} {
		_, _, err := svc.RunPayroll(context.Background(), 7, period, 1)
		require.ErrorIs(t, err, ErrInvalidPeriod, "period %q", period)
	}
}

func TestRunPayrollPropagatesRepositoryError(t *testing.T) {
	repo := newMemoryRepo(Employee{ID: 1, MonthlySalary: 500})
	repo.listErr = errors.New("boom")
	svc := NewService(repo, nil, nil)

	_, _, err := svc.RunPayroll(context.Background(), 7, "2026-08", 1)
	require.ErrorContains(t, err, "boom")
}

func TestGetRunReturnsPayslips(t *testing.T) {
	repo := newMemoryRepo(Employee{ID: 1, FullName: "Ana Morales", MonthlySalary: 1200})
	svc := NewService(repo, nil, nil)

	run, _, err := svc.RunPayroll(context.Background(), 7, "2026-08", 1)
	require.NoError(t, err)

	got, slips, err := svc.GetRun(context.Background(), 7, run.ID)
	require.NoError(t, err)
	require.Equal(t, run.ID, got.ID)
	require.Len(t, slips, 1)

	_, _, err = svc.GetRun(context.Background(), 99, run.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

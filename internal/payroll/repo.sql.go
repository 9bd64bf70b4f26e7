package payroll

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

// ListActiveEmployees returns active employees for an organization.
func (r *PGRepository) ListActiveEmployees(ctx context.Context, orgID int64) ([]Employee, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, full_name, monthly_salary FROM employees
		 WHERE org_id = $1 AND is_active ORDER BY full_name`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var employees []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.FullName, &e.MonthlySalary); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// GetRun fetches a run scoped by organization.
func (r *PGRepository) GetRun(ctx context.Context, orgID int64, runID string) (Run, error) {
	var run Run
	err := r.pool.QueryRow(ctx,
		`SELECT id, org_id, period, status, employee_count, total_gross, total_deductions,
		        total_net, total_employer_cost, created_by, created_at
		 FROM payroll_runs WHERE org_id = $1 AND id = $2`, orgID, runID).
		Scan(&run.ID, &run.OrgID, &run.Period, &run.Status, &run.EmployeeCount,
			&run.TotalGross, &run.TotalDeductions, &run.TotalNet, &run.TotalEmployerCost,
			&run.CreatedBy, &run.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Run{}, ErrNotFound
		}
		return Run{}, err
	}
	return run, nil
}

// ListRuns returns all runs for an organization, newest first.
func (r *PGRepository) ListRuns(ctx context.Context, orgID int64) ([]Run, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, org_id, period, status, employee_count, total_gross, total_deductions,
		        total_net, total_employer_cost, created_by, created_at
		 FROM payroll_runs WHERE org_id = $1 ORDER BY created_at DESC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.OrgID, &run.Period, &run.Status, &run.EmployeeCount,
			&run.TotalGross, &run.TotalDeductions, &run.TotalNet, &run.TotalEmployerCost,
			&run.CreatedBy, &run.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ListPayslips returns payslips for a run ordered by employee name.
func (r *PGRepository) ListPayslips(ctx context.Context, runID string) ([]Payslip, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, run_id, employee_id, employee_name, gross_salary, isss_employee,
		        isss_employer, afp_employee, afp_employer, income_tax, total_deductions,
		        net_salary, employer_cost
		 FROM payslips WHERE run_id = $1 ORDER BY employee_name`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var slips []Payslip
	for rows.Next() {
		var p Payslip
		if err := rows.Scan(&p.ID, &p.RunID, &p.EmployeeID, &p.EmployeeName,
			&p.GrossSalary, &p.ISSSEmployee, &p.ISSSEmployer, &p.AFPEmployee,
			&p.AFPEmployer, &p.IncomeTax, &p.TotalDeductions, &p.NetSalary,
			&p.EmployerCost); err != nil {
			return nil, err
		}
		slips = append(slips, p)
	}
	return slips, rows.Err()
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

func (r *pgTxRepository) RunExistsForPeriod(ctx context.Context, orgID int64, period string) (bool, error) {
	var exists bool
	err := r.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM payroll_runs WHERE org_id = $1 AND period = $2)`,
		orgID, period).Scan(&exists)
	return exists, err
}

func (r *pgTxRepository) InsertRun(ctx context.Context, run Run) error {
	_, err := r.tx.Exec(ctx,
		`INSERT INTO payroll_runs (id, org_id, period, status, employee_count, total_gross,
		        total_deductions, total_net, total_employer_cost, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		run.ID, run.OrgID, run.Period, run.Status, run.EmployeeCount, run.TotalGross,
		run.TotalDeductions, run.TotalNet, run.TotalEmployerCost, run.CreatedBy, run.CreatedAt)
	return err
}

func (r *pgTxRepository) InsertPayslips(ctx context.Context, runID string, slips []Payslip) error {
	for _, p := range slips {
		_, err := r.tx.Exec(ctx,
			`INSERT INTO payslips (run_id, employee_id, employee_name, gross_salary,
			        isss_employee, isss_employer, afp_employee, afp_employer, income_tax,
			        total_deductions, net_salary, employer_cost)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			runID, p.EmployeeID, p.EmployeeName, p.GrossSalary,
			p.ISSSEmployee, p.ISSSEmployer, p.AFPEmployee, p.AFPEmployer, p.IncomeTax,
			p.TotalDeductions, p.NetSalary, p.EmployerCost)
		if err != nil {
			return err
		}
	}
	return nil
}

package employees

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/centavo-sv/centavo/internal/shared"
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

const employeeColumns = `id, org_id, full_name, document_id, position, monthly_salary, is_active, created_at, updated_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.OrgID, &e.FullName, &e.DocumentID, &e.Position,
		&e.MonthlySalary, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Employee{}, shared.ErrNotFound
		}
		return Employee{}, err
	}
	return e, nil
}

// List returns all employees of an organization.
func (r *PGRepository) List(ctx context.Context, orgID int64) ([]Employee, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE org_id = $1 ORDER BY full_name`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.OrgID, &e.FullName, &e.DocumentID, &e.Position,
			&e.MonthlySalary, &e.IsActive, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Get fetches one employee scoped by organization.
func (r *PGRepository) Get(ctx context.Context, orgID, id int64) (Employee, error) {
	return scanEmployee(r.pool.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE org_id = $1 AND id = $2`, orgID, id))
}

// Insert creates an employee record.
func (r *PGRepository) Insert(ctx context.Context, e Employee) (Employee, error) {
	return scanEmployee(r.pool.QueryRow(ctx,
		`INSERT INTO employees (org_id, full_name, document_id, position, monthly_salary, is_active)
		 VALUES ($1, $2, $3, $4, $5, TRUE)
		 RETURNING `+employeeColumns,
		e.OrgID, e.FullName, e.DocumentID, e.Position, e.MonthlySalary))
}

// Update rewrites the mutable employee fields.
func (r *PGRepository) Update(ctx context.Context, e Employee) (Employee, error) {
	return scanEmployee(r.pool.QueryRow(ctx,
		`UPDATE employees
		 SET full_name = $3, document_id = $4, position = $5, monthly_salary = $6,
		     is_active = $7, updated_at = NOW()
		 WHERE org_id = $1 AND id = $2
		 RETURNING `+employeeColumns,
		e.OrgID, e.ID, e.FullName, e.DocumentID, e.Position, e.MonthlySalary, e.IsActive))
}

// Deactivate marks an employee inactive so future payroll runs skip them.
func (r *PGRepository) Deactivate(ctx context.Context, orgID, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE employees SET is_active = FALSE, updated_at = NOW()
		 WHERE org_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

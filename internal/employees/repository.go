package employees

import "context"

// Repository defines persistence operations for employees.
type Repository interface {
	List(ctx context.Context, orgID int64) ([]Employee, error)
	Get(ctx context.Context, orgID, id int64) (Employee, error)
	Insert(ctx context.Context, e Employee) (Employee, error)
	Update(ctx context.Context, e Employee) (Employee, error)
	Deactivate(ctx context.Context, orgID, id int64) error
}

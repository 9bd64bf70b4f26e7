// Package employees manages the employee master data payroll runs consume.
package employees

import "time"

// Employee is one employment record scoped to an organization.
type Employee struct {
	ID            int64     `json:"id"`
	OrgID         int64     `json:"org_id"`
	FullName      string    `json:"full_name"`
	DocumentID    string    `json:"document_id"`
	Position      string    `json:"position"`
	MonthlySalary float64   `json:"monthly_salary"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

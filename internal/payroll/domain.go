package payroll

import "time"

// RunStatus tracks the lifecycle of a payroll run.
type RunStatus string

const (
	// StatusPending marks a run queued for background processing.
	StatusPending RunStatus = "PENDING"
	// StatusCompleted marks a run whose payslips are persisted.
	StatusCompleted RunStatus = "COMPLETED"
)

// Run is one payroll execution for an organization and period.
type Run struct {
	ID                string    `json:"id"`
	OrgID             int64     `json:"org_id"`
	Period            string    `json:"period"`
	Status            RunStatus `json:"status"`
	EmployeeCount     int       `json:"employee_count"`
	TotalGross        float64   `json:"total_gross"`
	TotalDeductions   float64   `json:"total_deductions"`
	TotalNet          float64   `json:"total_net"`
	TotalEmployerCost float64   `json:"total_employer_cost"`
	CreatedBy         int64     `json:"created_by"`
	CreatedAt         time.Time `json:"created_at"`
}

// Payslip is the computed breakdown for one employee within a run.
type Payslip struct {
	ID           int64  `json:"id"`
	RunID        string `json:"run_id"`
	EmployeeID   int64  `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	DeductionBreakdown
}

// Employee is the slice of the employee record payroll needs.
type Employee struct {
	ID            int64
	FullName      string
	MonthlySalary float64
}

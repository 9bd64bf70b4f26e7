package shared

// Payroll and employee administration permissions.
const (
	PermEmployeesView   = "employees.view"
	PermEmployeesCreate = "employees.create"
	PermEmployeesEdit   = "employees.edit"
	PermEmployeesDelete = "employees.delete"

	PermPayrollView   = "payroll.view"
	PermPayrollRun    = "payroll.run"
	PermPayrollExport = "payroll.export"
)

// PayrollScopes lists all payroll related permissions.
func PayrollScopes() []string {
	return []string{
		PermEmployeesView,
		PermEmployeesCreate,
		PermEmployeesEdit,
		PermEmployeesDelete,
		PermPayrollView,
		PermPayrollRun,
		PermPayrollExport,
	}
}

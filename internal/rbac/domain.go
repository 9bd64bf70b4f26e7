// Package rbac is the single source of truth for authorization decisions.
// The role catalogue and the permission matrix are compiled-in constants:
// statutory for the product, changed only through code review.
package rbac

import "github.com/centavo-sv/centavo/internal/shared"

// Role is a coarse-grained authorization label assigned per organization
// membership. The set of roles is closed.
type Role string

const (
	// RoleAdmin has the full permission superset including member and role
	// management and audit access.
	RoleAdmin Role = "ADMIN"
	// RoleAccountant covers financial views and mutations but no member
	// management.
	RoleAccountant Role = "ACCOUNTANT"
	// RoleEmployee has a narrow operational subset.
	RoleEmployee Role = "EMPLOYEE"
)

// Roles returns the closed role enumeration.
func Roles() []Role {
	return []Role{RoleAdmin, RoleAccountant, RoleEmployee}
}

// ValidRole reports whether the value belongs to the role enumeration.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleAccountant, RoleEmployee:
		return true
	}
	return false
}

// PermissionInfo carries display metadata for a permission key. The label
// and category are UI concerns only and play no part in authorization.
type PermissionInfo struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Category string `json:"category"`
}

// Catalogue returns the closed set of permission keys with display metadata,
// grouped by category in a stable order.
func Catalogue() []PermissionInfo {
	out := make([]PermissionInfo, len(catalogue))
	copy(out, catalogue)
	return out
}

var catalogue = []PermissionInfo{
	{Key: shared.PermOrgsView, Label: "View organization", Category: "Organization"},
	{Key: shared.PermOrgsEdit, Label: "Edit organization", Category: "Organization"},
	{Key: shared.PermMembersView, Label: "View members", Category: "Organization"},
	{Key: shared.PermMembersInvite, Label: "Invite members", Category: "Organization"},
	{Key: shared.PermMembersRemove, Label: "Remove members", Category: "Organization"},
	{Key: shared.PermRolesAssign, Label: "Assign roles", Category: "Organization"},

	{Key: shared.PermInvoicesView, Label: "View invoices", Category: "Finance"},
	{Key: shared.PermInvoicesCreate, Label: "Create invoices", Category: "Finance"},
	{Key: shared.PermInvoicesEdit, Label: "Edit invoices", Category: "Finance"},
	{Key: shared.PermInvoicesDelete, Label: "Delete invoices", Category: "Finance"},
	{Key: shared.PermAccountsView, Label: "View ledger accounts", Category: "Finance"},
	{Key: shared.PermAccountsCreate, Label: "Create ledger accounts", Category: "Finance"},
	{Key: shared.PermAccountsEdit, Label: "Edit ledger accounts", Category: "Finance"},
	{Key: shared.PermAccountsDelete, Label: "Delete ledger accounts", Category: "Finance"},
	{Key: shared.PermBudgetsView, Label: "View budgets", Category: "Finance"},
	{Key: shared.PermBudgetsEdit, Label: "Edit budgets", Category: "Finance"},
	{Key: shared.PermTaxFilingsView, Label: "View tax filings", Category: "Finance"},
	{Key: shared.PermTaxFilingsSubmit, Label: "Submit tax filings", Category: "Finance"},

	{Key: shared.PermEmployeesView, Label: "View employees", Category: "Payroll"},
	{Key: shared.PermEmployeesCreate, Label: "Create employees", Category: "Payroll"},
	{Key: shared.PermEmployeesEdit, Label: "Edit employees", Category: "Payroll"},
	{Key: shared.PermEmployeesDelete, Label: "Delete employees", Category: "Payroll"},
	{Key: shared.PermPayrollView, Label: "View payroll runs", Category: "Payroll"},
	{Key: shared.PermPayrollRun, Label: "Run payroll", Category: "Payroll"},
	{Key: shared.PermPayrollExport, Label: "Export payroll", Category: "Payroll"},

	{Key: shared.PermInventoryView, Label: "View inventory", Category: "Inventory"},
	{Key: shared.PermInventoryMove, Label: "Record stock movements", Category: "Inventory"},
	{Key: shared.PermInventoryAdjust, Label: "Adjust stock levels", Category: "Inventory"},

	{Key: shared.PermAuditView, Label: "View audit trail", Category: "Audit"},
	{Key: shared.PermAuditExport, Label: "Export audit trail", Category: "Audit"},
}

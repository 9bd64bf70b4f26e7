package rbac

import (
	"sort"

	"github.com/centavo-sv/centavo/internal/shared"
)

// The matrix below is business policy, reviewed as a design artifact.
// ADMIN receives every catalogued permission. ACCOUNTANT receives financial
// and payroll views plus financial mutations, but nothing touching members
// or role assignment. EMPLOYEE is limited to day-to-day operational reads
// and stock movements.
var rolePermissions = map[Role][]string{
	RoleAdmin: allPermissionKeys(),
	RoleAccountant: {
		shared.PermOrgsView,
		shared.PermMembersView,

		shared.PermInvoicesView,
		shared.PermInvoicesCreate,
		shared.PermInvoicesEdit,
		shared.PermInvoicesDelete,
		shared.PermAccountsView,
		shared.PermAccountsCreate,
		shared.PermAccountsEdit,
		shared.PermAccountsDelete,
		shared.PermBudgetsView,
		shared.PermBudgetsEdit,
		shared.PermTaxFilingsView,
		shared.PermTaxFilingsSubmit,

		shared.PermEmployeesView,
		shared.PermEmployeesCreate,
		shared.PermEmployeesEdit,
		shared.PermPayrollView,
		shared.PermPayrollRun,
		shared.PermPayrollExport,

		shared.PermInventoryView,
		shared.PermInventoryAdjust,

		shared.PermAuditView,
	},
	RoleEmployee: {
		shared.PermOrgsView,
		shared.PermInvoicesView,
		shared.PermInventoryView,
		shared.PermInventoryMove,
	},
}

// matrix is the expanded role -> permission set form, built once at init
// and never mutated afterwards.
var matrix = buildMatrix()

func allPermissionKeys() []string {
	keys := make([]string, len(catalogue))
	for i, p := range catalogue {
		keys[i] = p.Key
	}
	return keys
}

func buildMatrix() map[Role]map[string]struct{} {
	m := make(map[Role]map[string]struct{}, len(rolePermissions))
	for role, perms := range rolePermissions {
		set := make(map[string]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		m[role] = set
	}
	return m
}

// HasPermission reports whether the role may perform the permission. Unknown
// roles and unknown permission keys resolve to false; the contract is total
// and never errors.
func HasPermission(role Role, permission string) bool {
	set, ok := matrix[role]
	if !ok {
		return false
	}
	_, ok = set[permission]
	return ok
}

// HasAnyPermission reports whether the role holds at least one of the given
// permissions. An empty list resolves to false.
func HasAnyPermission(role Role, permissions ...string) bool {
	for _, p := range permissions {
		if HasPermission(role, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the role holds every given permission.
// An empty list resolves to true.
func HasAllPermissions(role Role, permissions ...string) bool {
	for _, p := range permissions {
		if !HasPermission(role, p) {
			return false
		}
	}
	return true
}

// PermissionsFor returns a sorted copy of the role's permission set. Unknown
// roles yield an empty slice.
func PermissionsFor(role Role) []string {
	set, ok := matrix[role]
	if !ok {
		return nil
	}
	perms := make([]string, 0, len(set))
	for p := range set {
		perms = append(perms, p)
	}
	sort.Strings(perms)
	return perms
}

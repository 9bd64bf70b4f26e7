package shared

// Audit trail permissions.
const (
	PermAuditView   = "audit.view"
	PermAuditExport = "audit.export"
)

// AuditScopes lists all audit related permissions.
func AuditScopes() []string {
	return []string{
		PermAuditView,
		PermAuditExport,
	}
}

package shared

// Finance permissions: invoices, ledger accounts, budgets and tax filings.
const (
	PermInvoicesView   = "invoices.view"
	PermInvoicesCreate = "invoices.create"
	PermInvoicesEdit   = "invoices.edit"
	PermInvoicesDelete = "invoices.delete"

	PermAccountsView   = "accounts.view"
	PermAccountsCreate = "accounts.create"
	PermAccountsEdit   = "accounts.edit"
	PermAccountsDelete = "accounts.delete"

	PermBudgetsView = "budgets.view"
	PermBudgetsEdit = "budgets.edit"

	PermTaxFilingsView   = "taxfilings.view"
	PermTaxFilingsSubmit = "taxfilings.submit"
)

// FinanceScopes lists all finance related permissions.
func FinanceScopes() []string {
	return []string{
		PermInvoicesView,
		PermInvoicesCreate,
		PermInvoicesEdit,
		PermInvoicesDelete,
		PermAccountsView,
		PermAccountsCreate,
		PermAccountsEdit,
		PermAccountsDelete,
		PermBudgetsView,
		PermBudgetsEdit,
		PermTaxFilingsView,
		PermTaxFilingsSubmit,
	}
}

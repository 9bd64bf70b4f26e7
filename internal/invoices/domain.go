// Package invoices manages customer invoices with IVA totals and a small
// status lifecycle.
package invoices

import "time"

// Status is the invoice lifecycle state.
type Status string

const (
	StatusDraft   Status = "DRAFT"
	StatusIssued  Status = "ISSUED"
	StatusPaid    Status = "PAID"
	StatusVoid    Status = "VOID"
	StatusOverdue Status = "OVERDUE"
)

// Invoice is one customer invoice scoped to an organization.
type Invoice struct {
	ID           int64     `json:"id"`
	OrgID        int64     `json:"org_id"`
	Number       string    `json:"number"`
	CustomerName string    `json:"customer_name"`
	Status       Status    `json:"status"`
	IssueDate    time.Time `json:"issue_date"`
	DueDate      time.Time `json:"due_date"`
	Subtotal     float64   `json:"subtotal"`
	IVA          float64   `json:"iva"`
	Total        float64   `json:"total"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Lines        []Line    `json:"lines,omitempty"`
}

// Line is one invoice line item.
type Line struct {
	ID          int64   `json:"id"`
	InvoiceID   int64   `json:"invoice_id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

// transitions lists the allowed status changes.
var transitions = map[Status][]Status{
	StatusDraft:   {StatusIssued, StatusVoid},
	StatusIssued:  {StatusPaid, StatusVoid, StatusOverdue},
	StatusOverdue: {StatusPaid, StatusVoid},
}

// CanTransition reports whether an invoice may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

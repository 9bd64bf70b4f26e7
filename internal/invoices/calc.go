package invoices

import "math"

// IVARate is El Salvador's value added tax rate.
const IVARate = 0.13

func round2(v float64) float64 {
	if v < 0 {
		return -math.Floor(-v*100+0.5) / 100
	}
	return math.Floor(v*100+0.5) / 100
}

// CalculateLineTotal returns the rounded extended amount for one line.
func CalculateLineTotal(quantity, unitPrice float64) float64 {
	return round2(quantity * unitPrice)
}

// CalculateTotals sums line totals and applies IVA. Each component is rounded
// independently so the stored figures match fiscal documents.
func CalculateTotals(lines []Line) (subtotal, iva, total float64) {
	for _, l := range lines {
		subtotal = round2(subtotal + l.LineTotal)
	}
	iva = round2(subtotal * IVARate)
	total = round2(subtotal + iva)
	return subtotal, iva, total
}

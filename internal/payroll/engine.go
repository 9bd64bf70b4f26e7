// Package payroll computes statutory payroll withholdings for El Salvador
// and manages payroll runs. The deduction engine is pure computation; run
// persistence lives in the service/repository layers.
package payroll

import "math"

// Statutory contribution rates, 2024-2026 schedule. Changing these is a
// deliberate code change requiring review, not runtime configuration.
const (
	isssEmployeeRate = 0.03
	isssEmployerRate = 0.075
	// ISSS contributions are computed on at most this monthly base.
	isssContributionCeiling = 1000.00

	afpEmployeeRate = 0.0725
	afpEmployerRate = 0.0875
)

// TaxBracket is one tramo of the monthly income tax withholding table.
// UpperBound is inclusive: income exactly at the bound belongs to this
// bracket. Addend is the closed-form cumulative fee for the bracket floor,
// pre-computed so evaluation never iterates over lower brackets.
type TaxBracket struct {
	UpperBound float64
	Floor      float64
	Rate       float64
	Addend     float64
}

// taxBrackets is the monthly retención table (Ministerio de Hacienda,
// remuneraciones mensuales), ordered ascending and never mutated.
var taxBrackets = []TaxBracket{
	{UpperBound: 472.00, Floor: 0, Rate: 0, Addend: 0},
	{UpperBound: 895.24, Floor: 472.00, Rate: 0.10, Addend: 17.67},
	{UpperBound: 2038.10, Floor: 895.24, Rate: 0.20, Addend: 60.00},
	{UpperBound: math.Inf(1), Floor: 2038.10, Rate: 0.30, Addend: 288.57},
}

// DeductionBreakdown is the result of running the statutory formulas over a
// gross monthly salary. All amounts are rounded to 2 decimals. Employer
// contributions are informational and not subtracted from net pay.
type DeductionBreakdown struct {
	GrossSalary     float64 `json:"gross_salary"`
	ISSSEmployee    float64 `json:"isss_employee"`
	ISSSEmployer    float64 `json:"isss_employer"`
	AFPEmployee     float64 `json:"afp_employee"`
	AFPEmployer     float64 `json:"afp_employer"`
	IncomeTax       float64 `json:"income_tax"`
	TotalDeductions float64 `json:"total_deductions"`
	NetSalary       float64 `json:"net_salary"`
	EmployerCost    float64 `json:"employer_cost"`
}

// round2 rounds half away from zero to 2 decimal places. Applied after each
// individual multiplication, not only at the end: statutory filings expect
// per-component rounding, which can differ by a cent from rounding the total.
func round2(v float64) float64 {
	if v < 0 {
		return -math.Floor(-v*100+0.5) / 100
	}
	return math.Floor(v*100+0.5) / 100
}

// CalculateIncomeTax evaluates the monthly withholding table for the given
// taxable income. Income at or below the first bound is tax free.
func CalculateIncomeTax(taxableIncome float64) float64 {
	for _, b := range taxBrackets {
		if taxableIncome <= b.UpperBound {
			if b.Rate == 0 {
				return 0
			}
			return round2((taxableIncome-b.Floor)*b.Rate + b.Addend)
		}
	}
	return 0
}

// CalculateDeductions computes all mandatory withholdings for one gross
// monthly salary. Callers must guarantee grossSalary >= 0; negative input is
// a precondition violation and its behavior is unspecified.
func CalculateDeductions(grossSalary float64) DeductionBreakdown {
	isssBase := math.Min(grossSalary, isssContributionCeiling)
	isssEmployee := round2(isssBase * isssEmployeeRate)
	isssEmployer := round2(isssBase * isssEmployerRate)

	afpEmployee := round2(grossSalary * afpEmployeeRate)
	afpEmployer := round2(grossSalary * afpEmployerRate)

	// Both employee-side contributions are pre-tax deductions.
	taxableIncome := grossSalary - isssEmployee - afpEmployee
	incomeTax := CalculateIncomeTax(taxableIncome)

	totalDeductions := round2(isssEmployee + afpEmployee + incomeTax)
	netSalary := round2(grossSalary - totalDeductions)
	employerCost := round2(isssEmployer + afpEmployer)

	return DeductionBreakdown{
		GrossSalary:     round2(grossSalary),
		ISSSEmployee:    isssEmployee,
		ISSSEmployer:    isssEmployer,
		AFPEmployee:     afpEmployee,
		AFPEmployer:     afpEmployer,
		IncomeTax:       incomeTax,
		TotalDeductions: totalDeductions,
		NetSalary:       netSalary,
		EmployerCost:    employerCost,
	}
}

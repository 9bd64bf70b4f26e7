package payroll

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteRunCSV(t *testing.T) {
	breakdown := CalculateDeductions(1000.00)
	run := Run{
		ID:            "run-1",
		Period:        "2026-08",
		EmployeeCount: 1,
		TotalNet:      breakdown.NetSalary,
	}
	slips := []Payslip{{
		RunID:              "run-1",
		EmployeeID:         5,
		EmployeeName:       "Ana Morales",
		DeductionBreakdown: breakdown,
	}}

	var buf bytes.Buffer
	if err := WriteRunCSV(&buf, run, slips); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "# Planilla 2026-08\r\n") {
		t.Fatalf("expected period comment, got: %q", out)
	}
	if !strings.Contains(out, "# Empleados: 1") {
		t.Fatalf("expected employee count in summary, got: %q", out)
	}
	if !strings.Contains(out, "employee_id,employee_name,gross_salary") {
		t.Fatalf("expected header row, got: %q", out)
	}
	if !strings.Contains(out, "5,Ana Morales,1000.00,30.00,75.00,72.50,87.50,60.45,162.95,837.05,162.50") {
		t.Fatalf("expected payslip row, got: %q", out)
	}
}

func TestWriteRunCSVEmptyRun(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRunCSV(&buf, Run{Period: "2026-01"}, nil); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\r\n"), "\r\n")
	// Two comment lines plus the header.
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), lines)
	}
}

package payroll

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	csvFlushEvery  = 200
	csvBufferSize  = 32 * 1024
	csvMoneyFormat = "%.2f"
)

var csvPrinter = message.NewPrinter(language.LatinAmericanSpanish)

type csvStreamer struct {
	buf          *bufio.Writer
	csv          *csv.Writer
	flushEvery   int
	pendingLines int
}

func newCSVStreamer(w io.Writer) *csvStreamer {
	buf := bufio.NewWriterSize(w, csvBufferSize)
	writer := csv.NewWriter(buf)
	writer.UseCRLF = true
	return &csvStreamer{buf: buf, csv: writer, flushEvery: csvFlushEvery}
}

func (s *csvStreamer) writeComment(line string) error {
	if !strings.HasSuffix(line, "\r\n") {
		line = strings.TrimSuffix(line, "\n")
		line += "\r\n"
	}
	_, err := s.buf.WriteString(line)
	return err
}

func (s *csvStreamer) writeRow(row []string) error {
	if err := s.csv.Write(row); err != nil {
		return err
	}
	s.pendingLines++
	if s.flushEvery > 0 && s.pendingLines >= s.flushEvery {
		return s.flush()
	}
	return nil
}

func (s *csvStreamer) flush() error {
	s.csv.Flush()
	if err := s.csv.Error(); err != nil {
		return err
	}
	if err := s.buf.Flush(); err != nil {
		return err
	}
	s.pendingLines = 0
	return nil
}

// WriteRunCSV streams a payroll run as CSV: commented summary lines followed
// by one row per payslip. Amounts use plain 2-decimal formatting so the file
// round-trips through spreadsheet imports; the summary uses localized
// thousands separators for human readers.
func WriteRunCSV(w io.Writer, run Run, slips []Payslip) error {
	s := newCSVStreamer(w)

	if err := s.writeComment(fmt.Sprintf("# Planilla %s", run.Period)); err != nil {
		return err
	}
	summary := csvPrinter.Sprintf("# Empleados: %d; Neto total: US$%v",
		run.EmployeeCount,
		number.Decimal(run.TotalNet, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	if err := s.writeComment(summary); err != nil {
		return err
	}

	header := []string{
		"employee_id", "employee_name", "gross_salary",
		"isss_employee", "isss_employer", "afp_employee", "afp_employer",
		"income_tax", "total_deductions", "net_salary", "employer_cost",
	}
	if err := s.writeRow(header); err != nil {
		return err
	}

	for _, p := range slips {
		row := []string{
			fmt.Sprintf("%d", p.EmployeeID),
			p.EmployeeName,
			fmt.Sprintf(csvMoneyFormat, p.GrossSalary),
			fmt.Sprintf(csvMoneyFormat, p.ISSSEmployee),
			fmt.Sprintf(csvMoneyFormat, p.ISSSEmployer),
			fmt.Sprintf(csvMoneyFormat, p.AFPEmployee),
			fmt.Sprintf(csvMoneyFormat, p.AFPEmployer),
			fmt.Sprintf(csvMoneyFormat, p.IncomeTax),
			fmt.Sprintf(csvMoneyFormat, p.TotalDeductions),
			fmt.Sprintf(csvMoneyFormat, p.NetSalary),
			fmt.Sprintf(csvMoneyFormat, p.EmployerCost),
		}
		if err := s.writeRow(row); err != nil {
			return err
		}
	}

	return s.flush()
}

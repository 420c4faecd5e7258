package payroll

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// RenderStatement writes a one page A4 pay statement.
func RenderStatement(w io.Writer, st Statement) error {
	currency := st.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(StatementTitle))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	if st.CompanyName != "" {
		pdf.Cell(0, 8, tr(st.CompanyName))
		pdf.Ln(9)
	}
	pdf.Cell(0, 8, tr(fmt.Sprintf("Employee: %s", st.EmployeeName)))
	pdf.Ln(7)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Email: %s", st.Email)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", st.Month))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Hours worked: %.2f (%d entries)", st.Hours, st.Entries))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Hourly rate: %.2f %s", st.HourlyRate, currency))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Net: %.2f %s", st.Breakdown.Net, currency))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Deductions: %.2f %s", st.Breakdown.Deductions, currency))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Gross: %.2f %s", st.Breakdown.Gross, currency))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("%w: %v", ErrStatementRender, err)
	}
	return nil
}

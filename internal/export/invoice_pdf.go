package export

import (
	"bytes"
	"fmt"

	"servicedesk-backend/internal/models"
	"servicedesk-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// InvoicePDF renders an invoice with its status history on one A4 page.
func InvoicePDF(inv *models.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Invoice "+inv.InvoiceNo, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format(timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Billing Details", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, "Company: "+inv.CompanyName, "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, "Location: "+inv.LocationName, "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, "Status: "+inv.Status, "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, "Created: "+timeutil.ToIST(inv.CreatedAt).Format(timeutil.DisplayLayout), "RB", 1, "L", false, 0, "")
	pdf.MultiCell(190, 7, "Description: "+inv.Description, "1", "L", false)
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Amount", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(63, 8, fmt.Sprintf("Amount: Rs. %.2f", inv.Amount), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 8, fmt.Sprintf("GST: Rs. %.2f", inv.GSTAmount), "1", 0, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(64, 8, fmt.Sprintf("Total: Rs. %.2f", inv.Amount+inv.GSTAmount), "1", 1, "C", false, 0, "")

	if len(inv.History) > 0 {
		pdf.Ln(5)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(190, 8, "Status History", "1", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(70, 7, "Status", "1", 0, "C", true, 0, "")
		pdf.CellFormat(80, 7, "Date", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 7, "Updated By", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, h := range inv.History {
			pdf.CellFormat(70, 6, h.Status, "1", 0, "C", false, 0, "")
			pdf.CellFormat(80, 6, timeutil.ToIST(h.Timestamp).Format(timeutil.DisplayLayout), "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 6, optInt(h.UpdatedBy), "1", 1, "C", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

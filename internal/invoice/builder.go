// Package invoice renders paid transactions into tax-invoice PDF documents
// and persists them addressed by invoice id.
package invoice

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/Rohit-3/Ratan-agri-tech/internal/merchant"
	"github.com/Rohit-3/Ratan-agri-tech/internal/payment"
)

// Builder renders invoice documents with a fixed A4 layout.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

const dateLayout = "02 January 2006"

// Core PDF fonts are cp1252, which has no rupee sign.
const currencyPrefix = "Rs. "

var hundred = decimal.NewFromInt(100)

func money(d decimal.Decimal) string {
	return currencyPrefix + d.StringFixed(2)
}

// Render produces the invoice PDF for a transaction. The layout is
// deterministic: header, invoice metadata, bill-to block, a single line item,
// the amount breakdown, and the payment details.
func (b *Builder) Render(tx *payment.Transaction, p *merchant.Profile) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Tax Invoice %s", tx.InvoiceID), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "TAX INVOICE", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Merchant identity.
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, p.Name)
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, p.Address)
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Phone: %s    Email: %s", p.Phone, p.Email))
	pdf.Ln(5)

	if p.GSTIN != "" {
		pdf.Cell(0, 6, "GSTIN: "+p.GSTIN)
		pdf.Ln(5)
	}

	pdf.Ln(4)

	// Invoice metadata.
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Invoice No: "+tx.InvoiceID)
	pdf.Ln(6)
	pdf.Cell(0, 6, "Issue Date: "+tx.CreatedAt.Format(dateLayout))
	pdf.Ln(6)

	if tx.PaidAt != nil {
		pdf.Cell(0, 6, "Payment Date: "+tx.PaidAt.Format(dateLayout))
		pdf.Ln(6)
	}

	pdf.Ln(4)

	// Bill-to block.
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Bill To")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, tx.CustomerName)
	pdf.Ln(6)
	pdf.Cell(0, 6, tx.CustomerEmail)
	pdf.Ln(6)

	if tx.CustomerPhone != "" {
		pdf.Cell(0, 6, tx.CustomerPhone)
		pdf.Ln(6)
	}

	pdf.Ln(4)

	// Line items. A transaction carries exactly one.
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(90, 8, "Description", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, "Rate", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(90, 8, tx.ProductName, "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "1", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, money(tx.BaseAmount), "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, money(tx.BaseAmount), "1", 1, "R", false, 0, "")
	pdf.Ln(6)

	// Amount breakdown, total emphasized.
	taxPercent := tx.TaxRate.Mul(hundred).StringFixed(0)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(150, 7, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, money(tx.BaseAmount), "", 1, "R", false, 0, "")
	pdf.CellFormat(150, 7, fmt.Sprintf("GST (%s%%)", taxPercent), "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, money(tx.TaxAmount), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(150, 9, "Total Amount", "T", 0, "R", false, 0, "")
	pdf.CellFormat(40, 9, money(tx.TotalAmount), "T", 1, "R", false, 0, "")
	pdf.Ln(8)

	// Payment details.
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Payment Details")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Payment Method: "+tx.PaymentMethod)
	pdf.Ln(6)
	pdf.Cell(0, 6, "UPI ID: "+p.UPIHandle)
	pdf.Ln(6)

	if tx.PaymentRef != "" {
		pdf.Cell(0, 6, "UTR / Reference: "+tx.PaymentRef)
		pdf.Ln(6)
	}

	pdf.Ln(8)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 5, "This is a system-generated tax invoice.", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, "Thank you for your business!", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering invoice pdf: %w", err)
	}

	return buf.Bytes(), nil
}

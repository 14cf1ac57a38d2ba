// Package pdfexport lays out a document snapshot as an A4 PDF. It does no
// arithmetic of its own: every figure comes resolved from the snapshot.
package pdfexport

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/editor"
	"invoicedesk/internal/money"
)

const (
	pageWidth   = 190.0
	lineHeight  = 6.0
	totalsLabel = 140.0
)

// column of the line item table.
type column struct {
	title string
	width float64
	align string
}

var lineTable = []column{
	{"#", 8, "C"},
	{"Description", 60, "L"},
	{"HSN/SAC", 20, "L"},
	{"Qty", 14, "R"},
	{"Rate", 24, "R"},
	{"Tax %", 14, "R"},
	{"Tax", 22, "R"},
	{"Amount", 28, "R"},
}

// Render writes snap, saved under number, as a PDF to w.
func Render(w io.Writer, number string, snap *editor.Snapshot) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s %s", title(snap.Kind), number), true)
	pdf.SetMargins(10, 12, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	h := snap.Header

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(pageWidth, 9, tr(title(snap.Kind)), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(pageWidth/2, lineHeight, tr("No: "+number), "", 0, "L", false, 0, "")
	pdf.CellFormat(pageWidth/2, lineHeight, tr("Date: "+h.Date), "", 1, "R", false, 0, "")
	if h.DueDate != "" {
		pdf.CellFormat(pageWidth, lineHeight, tr("Due: "+h.DueDate), "", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	partyBlock(pdf, tr, "From", h.Company, "")
	partyBlock(pdf, tr, "Bill To", h.BillTo, h.BuyerJurisdiction)
	if h.ShipTo.Name != "" && h.ShipTo != h.BillTo {
		partyBlock(pdf, tr, "Ship To", h.ShipTo, "")
	}
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	for _, c := range lineTable {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, c.align, true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for i := range snap.LineItems {
		l := &snap.LineItems[i]
		cells := []string{
			fmt.Sprintf("%d", i+1),
			tr(l.Description),
			tr(l.HSNSAC),
			money.Format(l.Quantity),
			money.FormatIndian(l.Rate),
			money.Percent(l.TaxRatePercent),
			money.FormatIndian(l.TaxAmount),
			money.FormatIndian(l.Amount),
		}
		for j, c := range lineTable {
			pdf.CellFormat(c.width, lineHeight, cells[j], "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(2)

	t := snap.Totals
	totalsRow(pdf, tr, "Subtotal", t.Subtotal, false)
	if t.CGSTTotal != 0 || t.SGSTTotal != 0 {
		totalsRow(pdf, tr, caption(t.CGSTLabel, t.CGSTPercent), t.CGSTTotal, false)
		totalsRow(pdf, tr, caption(t.SGSTLabel, t.SGSTPercent), t.SGSTTotal, false)
	}
	if t.IGSTTotal != 0 {
		totalsRow(pdf, tr, caption(t.IGSTLabel, t.IGSTPercent), t.IGSTTotal, false)
	}
	totalsRow(pdf, tr, "Grand Total (INR)", t.GrandTotal, true)
	if snap.ReceivedAmount != 0 {
		totalsRow(pdf, tr, "Received", snap.ReceivedAmount, false)
	}
	totalsRow(pdf, tr, "Balance (INR)", t.Balance, true)
	pdf.Ln(4)

	bankBlock(pdf, tr, h.Bank)
	textBlock(pdf, tr, "Terms", h.Terms)
	textBlock(pdf, tr, "Notes", h.Notes)
	if h.Signatory != "" {
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(pageWidth, lineHeight, tr("For "+h.Company.Name), "", 1, "R", false, 0, "")
		pdf.Ln(10)
		pdf.CellFormat(pageWidth, lineHeight, tr(h.Signatory), "", 1, "R", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdfexport: %w", err)
	}
	return nil
}

func title(kind domain.DocumentKind) string {
	if kind == domain.DocumentKindQuotation {
		return "Quotation"
	}
	return "Tax Invoice"
}

func caption(label, percent string) string {
	if percent == "" {
		return label
	}
	return label + " @ " + percent
}

func partyBlock(pdf *gofpdf.Fpdf, tr func(string) string, heading string, p domain.Party, placeOfSupply string) {
	if p.Name == "" {
		return
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(pageWidth, lineHeight, tr(heading+": "+p.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	var lines []string
	if addr := formatAddress(p.Address); addr != "" {
		lines = append(lines, addr)
	}
	if p.GSTIN != "" {
		lines = append(lines, "GSTIN: "+p.GSTIN)
	}
	if placeOfSupply != "" {
		lines = append(lines, "Place of supply: "+placeOfSupply)
	}
	contact := strings.TrimSpace(strings.Join([]string{p.Phone, p.Email}, "  "))
	if contact != "" {
		lines = append(lines, contact)
	}
	for _, l := range lines {
		pdf.MultiCell(pageWidth, 5, tr(l), "", "L", false)
	}
	pdf.Ln(1)
}

func formatAddress(a domain.Address) string {
	var parts []string
	for _, s := range []string{a.Street, a.City, a.State, a.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	out := strings.Join(parts, ", ")
	if a.PostalCode != "" {
		out += " - " + a.PostalCode
	}
	return out
}

func totalsRow(pdf *gofpdf.Fpdf, tr func(string) string, label string, v float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Arial", style, 10)
	pdf.CellFormat(totalsLabel, lineHeight, tr(label), "", 0, "R", false, 0, "")
	pdf.CellFormat(pageWidth-totalsLabel, lineHeight, money.FormatIndian(v), "", 1, "R", false, 0, "")
}

func bankBlock(pdf *gofpdf.Fpdf, tr func(string) string, b domain.BankDetails) {
	if b.AccountNumber == "" {
		return
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(pageWidth, lineHeight, "Bank Details", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, l := range []string{
		"Account name: " + b.AccountName,
		"Account no: " + b.AccountNumber,
		"Bank: " + b.BankName + " " + b.Branch,
		"IFSC: " + b.IFSCCode,
	} {
		pdf.CellFormat(pageWidth, 5, tr(l), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
}

func textBlock(pdf *gofpdf.Fpdf, tr func(string) string, heading, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(pageWidth, lineHeight, heading, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.MultiCell(pageWidth, 5, tr(body), "", "L", false)
	pdf.Ln(2)
}

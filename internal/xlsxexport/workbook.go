// Package xlsxexport renders one document snapshot as an Excel workbook.
package xlsxexport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/editor"
)

// SheetName is the name of the single sheet in the workbook.
const SheetName = "Document"

// lineColumns heads the line item table.
var lineColumns = []string{
	"#", "Description", "HSN/SAC", "Quantity", "Rate", "Tax %",
	"CGST", "SGST", "IGST", "Tax", "Amount",
}

// Write renders snap, saved under number, as an XLSX workbook to w.
//
// The sheet has a header block, the line item table and a totals block.
// Amounts are written as numbers so the sheet stays usable for arithmetic.
func Write(w io.Writer, number string, snap *editor.Snapshot) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("xlsxexport: renaming sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsxexport: creating style: %w", err)
	}
	sw := &sheetWriter{f: f, bold: bold}

	h := snap.Header
	sw.row(true, titleFor(snap), number)
	sw.row(false, "Date", h.Date)
	sw.row(false, "Due Date", h.DueDate)
	sw.row(false, "Seller", h.Company.Name)
	sw.row(false, "Seller GSTIN", h.Company.GSTIN)
	sw.row(false, "Bill To", h.BillTo.Name)
	sw.row(false, "Buyer GSTIN", h.BillTo.GSTIN)
	sw.row(false, "Place of Supply", h.BuyerJurisdiction)
	sw.row(false, "Supply Type", string(snap.SupplyType))
	sw.skip()

	header := make([]interface{}, len(lineColumns))
	for i, c := range lineColumns {
		header[i] = c
	}
	sw.row(true, header...)
	for i := range snap.LineItems {
		l := &snap.LineItems[i]
		sw.row(false, i+1, l.Description, l.HSNSAC, l.Quantity, l.Rate, l.TaxRatePercent,
			l.CGSTAmount, l.SGSTAmount, l.IGSTAmount, l.TaxAmount, l.Amount)
	}
	sw.skip()

	t := snap.Totals
	sw.row(false, "Subtotal", t.Subtotal)
	sw.row(false, taxCaption(t.CGSTLabel, t.CGSTPercent), t.CGSTTotal)
	sw.row(false, taxCaption(t.SGSTLabel, t.SGSTPercent), t.SGSTTotal)
	sw.row(false, taxCaption(t.IGSTLabel, t.IGSTPercent), t.IGSTTotal)
	sw.row(true, "Grand Total", t.GrandTotal)
	sw.row(false, "Received", snap.ReceivedAmount)
	sw.row(true, "Balance", t.Balance)

	if sw.err != nil {
		return fmt.Errorf("xlsxexport: writing cells: %w", sw.err)
	}
	if err := f.SetColWidth(SheetName, "B", "B", 40); err != nil {
		return fmt.Errorf("xlsxexport: setting width: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsxexport: writing workbook: %w", err)
	}
	return nil
}

func titleFor(snap *editor.Snapshot) string {
	if snap.Kind == domain.DocumentKindQuotation {
		return "Quotation"
	}
	return "Tax Invoice"
}

func taxCaption(label, percent string) string {
	if percent == "" {
		return label
	}
	return fmt.Sprintf("%s @ %s", label, percent)
}

// sheetWriter appends rows and keeps the first error.
type sheetWriter struct {
	f    *excelize.File
	bold int
	next int
	err  error
}

func (s *sheetWriter) skip() { s.next++ }

func (s *sheetWriter) row(bold bool, values ...interface{}) {
	s.next++
	if s.err != nil {
		return
	}
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, s.next)
		if err != nil {
			s.err = err
			return
		}
		if err := s.f.SetCellValue(SheetName, cell, v); err != nil {
			s.err = err
			return
		}
	}
	if !bold || len(values) == 0 {
		return
	}
	first, _ := excelize.CoordinatesToCellName(1, s.next)
	last, _ := excelize.CoordinatesToCellName(len(values), s.next)
	s.err = s.f.SetCellStyle(SheetName, first, last, s.bold)
}

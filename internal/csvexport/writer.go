package csvexport

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/editor"
	"invoicedesk/internal/money"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Number",
	"Kind",
	"Status",
	"Date",
	"Due Date",
	"Buyer Name",
	"Buyer GSTIN",
	"Seller Jurisdiction",
	"Buyer Jurisdiction",
	"Supply Type",
	"Subtotal",
	"CGST",
	"SGST",
	"IGST",
	"Grand Total",
	"Received",
	"Balance",
	"Line Item Count",
	"Submitted At",
	"Created At",
}

// Writer wraps csv.Writer for exporting saved invoices as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteInvoices converts a batch of saved invoices to CSV rows and writes them.
func (w *Writer) WriteInvoices(invoices []domain.Invoice) error {
	for i := range invoices {
		if err := w.csv.Write(invoiceToRow(&invoices[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// invoiceToRow converts one saved invoice to a row. The record columns are
// always filled; the snapshot columns are left empty when the snapshot does
// not decode. Totals come from the record, which holds the values resolved at
// save time.
func invoiceToRow(inv *domain.Invoice) []string {
	row := make([]string, len(columns))

	row[0] = inv.Number
	row[1] = string(inv.Kind)
	row[2] = string(inv.Status)
	row[5] = inv.BuyerName
	row[10] = money.Format(inv.Subtotal)
	row[14] = money.Format(inv.GrandTotal)
	row[16] = money.Format(inv.Balance)
	row[18] = formatTime(inv.SubmittedAt)
	row[19] = inv.CreatedAt.Format(time.RFC3339)

	if len(inv.Snapshot) == 0 {
		return row
	}
	var snap editor.Snapshot
	if err := json.Unmarshal(inv.Snapshot, &snap); err != nil {
		return row
	}

	row[3] = snap.Header.Date
	row[4] = snap.Header.DueDate
	row[6] = snap.Header.BillTo.GSTIN
	row[7] = snap.Header.SellerJurisdiction
	row[8] = snap.Header.BuyerJurisdiction
	row[9] = string(snap.SupplyType)
	row[11] = money.Format(snap.Totals.CGSTTotal)
	row[12] = money.Format(snap.Totals.SGSTTotal)
	row[13] = money.Format(snap.Totals.IGSTTotal)
	row[15] = money.Format(snap.ReceivedAmount)
	row[17] = strconv.Itoa(len(snap.LineItems))

	return row
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name, ext string, now time.Time) string {
	sanitized := SanitizeFilename(name)
	if sanitized == "" {
		sanitized = "export"
	}
	return fmt.Sprintf("%s_%s.%s", sanitized, now.Format("2006-01-02"), ext)
}

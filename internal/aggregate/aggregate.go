// Package aggregate sums a document's line items into its totals, letting any
// overridden total take precedence over its formula.
package aggregate

import (
	"invoicedesk/internal/domain"
	"invoicedesk/internal/money"
	"invoicedesk/internal/override"
)

// Totals are the document-level figures shown under the line items.
type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	CGSTTotal   float64 `json:"cgst_total"`
	SGSTTotal   float64 `json:"sgst_total"`
	IGSTTotal   float64 `json:"igst_total"`
	GrandTotal  float64 `json:"grand_total"`
	Balance     float64 `json:"balance"`
	CGSTLabel   string  `json:"cgst_label"`
	SGSTLabel   string  `json:"sgst_label"`
	IGSTLabel   string  `json:"igst_label"`
	CGSTPercent string  `json:"cgst_percent"`
	SGSTPercent string  `json:"sgst_percent"`
	IGSTPercent string  `json:"igst_percent"`
}

// TaxTotal returns the sum of the three tax rows.
func (t Totals) TaxTotal() float64 {
	return t.CGSTTotal + t.SGSTTotal + t.IGSTTotal
}

// lineAmount returns the line's amount, preferring its override.
func lineAmount(i int, item *domain.LineItem, ov override.Map) float64 {
	if v, ok := ov.LineAmount(i); ok {
		return v
	}
	return item.Amount
}

// Aggregate computes the totals of lines. Each total uses its override when one
// is present. Grand total is built from the effective component totals, so an
// overridden component flows into it; an overridden grand total is final.
// Balance is the effective grand total less received.
func Aggregate(lines []domain.LineItem, ov override.Map, received float64) Totals {
	var subtotal, cgst, sgst, igst float64
	for i := range lines {
		item := &lines[i]
		subtotal += lineAmount(i, item, ov) - item.TaxAmount
		cgst += item.CGSTAmount
		sgst += item.SGSTAmount
		igst += item.IGSTAmount
	}

	t := Totals{
		Subtotal:  ov.Effective(override.KeySubtotal, subtotal),
		CGSTTotal: ov.Effective(override.KeyCGSTTotal, cgst),
		SGSTTotal: ov.Effective(override.KeySGSTTotal, sgst),
		IGSTTotal: ov.Effective(override.KeyIGSTTotal, igst),
	}
	t.GrandTotal = ov.Effective(override.KeyGrandTotal, t.Subtotal+t.CGSTTotal+t.SGSTTotal+t.IGSTTotal)
	t.Balance = ov.Effective(override.KeyBalance, t.GrandTotal-received)

	half, full := defaultPercents(lines)
	t.CGSTLabel = ov.Label(override.LabelCGST, "CGST")
	t.SGSTLabel = ov.Label(override.LabelSGST, "SGST")
	t.IGSTLabel = ov.Label(override.LabelIGST, "IGST")
	t.CGSTPercent = ov.Label(override.PercentCGST, half)
	t.SGSTPercent = ov.Label(override.PercentSGST, half)
	t.IGSTPercent = ov.Label(override.PercentIGST, full)
	return t
}

// defaultPercents returns the percentage captions for the tax rows when every
// line carries the same rate, and blanks when rates differ.
func defaultPercents(lines []domain.LineItem) (half, full string) {
	if len(lines) == 0 {
		return "", ""
	}
	rate := lines[0].TaxRatePercent
	for i := 1; i < len(lines); i++ {
		if lines[i].TaxRatePercent != rate {
			return "", ""
		}
	}
	return money.Percent(rate / 2), money.Percent(rate)
}

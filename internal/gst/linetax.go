package gst

// LineTax is the tax breakdown of a single line item.
type LineTax struct {
	Base      float64 `json:"base"`
	TaxAmount float64 `json:"tax_amount"`
	CGST      float64 `json:"cgst"`
	SGST      float64 `json:"sgst"`
	IGST      float64 `json:"igst"`
	Total     float64 `json:"total"`
}

// ComputeLineTax splits the tax on base at ratePercent. Intrastate supplies get
// half the rate as CGST and half as SGST; interstate supplies get the full rate
// as IGST. No rounding is applied.
func ComputeLineTax(base, ratePercent float64, seller, buyer string) LineTax {
	lt := LineTax{Base: base}
	if IsDomestic(seller, buyer) {
		half := ratePercent / 2
		lt.CGST = base * half / 100
		lt.SGST = base * half / 100
	} else {
		lt.IGST = base * ratePercent / 100
	}
	lt.TaxAmount = lt.CGST + lt.SGST + lt.IGST
	lt.Total = base + lt.TaxAmount
	return lt
}

// InverseLineTax derives the split from a tax-inclusive total typed by the user.
// The implied base is total/(1+rate/100) and Total stays equal to the typed
// amount. A negative total yields an all-zero result. At a zero rate no split can
// be inferred, so only the amount is kept.
func InverseLineTax(total, ratePercent float64, seller, buyer string) LineTax {
	if total < 0 {
		return LineTax{}
	}
	if ratePercent == 0 {
		return LineTax{Base: total, Total: total}
	}
	base := total / (1 + ratePercent/100)
	lt := ComputeLineTax(base, ratePercent, seller, buyer)
	lt.Total = total
	return lt
}

// Package gst implements the GST arithmetic behind the invoice editor: the
// intrastate/interstate classification of a supply and the per-line tax split.
package gst

import "strings"

// SupplyType classifies a supply by comparing seller and buyer jurisdictions.
type SupplyType string

const (
	SupplyIntrastate SupplyType = "intrastate"
	SupplyInterstate SupplyType = "interstate"
)

func normalizeJurisdiction(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsDomestic reports whether seller and buyer are in the same jurisdiction.
// Labels are compared case-insensitively after trimming. An empty label never
// matches, so two blank jurisdictions are treated as interstate.
func IsDomestic(seller, buyer string) bool {
	s := normalizeJurisdiction(seller)
	if s == "" {
		return false
	}
	return s == normalizeJurisdiction(buyer)
}

// Classify returns the supply type used for the tax split.
func Classify(seller, buyer string) SupplyType {
	if IsDomestic(seller, buyer) {
		return SupplyIntrastate
	}
	return SupplyInterstate
}

// JurisdictionKnown reports whether both labels are set. When it is false the
// split still falls through to IGST; callers use it only to flag the document.
func JurisdictionKnown(seller, buyer string) bool {
	return normalizeJurisdiction(seller) != "" && normalizeJurisdiction(buyer) != ""
}

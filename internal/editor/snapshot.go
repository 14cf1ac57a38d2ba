package editor

import (
	"invoicedesk/internal/aggregate"
	"invoicedesk/internal/domain"
	"invoicedesk/internal/gst"
	"invoicedesk/internal/override"
)

// SnapshotLine is a line item as shown, with its override flag.
type SnapshotLine struct {
	domain.LineItem
	AmountOverridden bool `json:"amount_overridden"`
}

// OverrideView lists what is currently overridden on the document.
type OverrideView struct {
	Totals map[override.Key]float64     `json:"totals"`
	Lines  []int                        `json:"lines"`
	Labels map[override.LabelKey]string `json:"labels"`
}

// Snapshot is the flat, override-resolved form of a document handed to
// persistence, submission and PDF export.
type Snapshot struct {
	Kind              domain.DocumentKind `json:"kind"`
	Mode              domain.EditorMode   `json:"mode"`
	Header            domain.Header       `json:"header"`
	SupplyType        gst.SupplyType      `json:"supply_type"`
	JurisdictionKnown bool                `json:"jurisdiction_known"`
	LineItems         []SnapshotLine      `json:"line_items"`
	ReceivedAmount    float64             `json:"received_amount"`
	Totals            aggregate.Totals    `json:"totals"`
	Overrides         OverrideView        `json:"overrides"`
}

// Snapshot resolves the working document against the override map.
func (s *Session) Snapshot() *Snapshot {
	h := s.doc.Header
	lines := make([]SnapshotLine, len(s.doc.LineItems))
	for i, item := range s.doc.LineItems {
		_, overridden := s.overrides.LineAmount(i)
		lines[i] = SnapshotLine{LineItem: item, AmountOverridden: overridden}
	}
	return &Snapshot{
		Kind:              s.doc.Kind,
		Mode:              s.mode,
		Header:            h,
		SupplyType:        gst.Classify(h.SellerJurisdiction, h.BuyerJurisdiction),
		JurisdictionKnown: gst.JurisdictionKnown(h.SellerJurisdiction, h.BuyerJurisdiction),
		LineItems:         lines,
		ReceivedAmount:    s.doc.ReceivedAmount,
		Totals:            s.Totals(),
		Overrides: OverrideView{
			Totals: s.overrides.Totals(),
			Lines:  s.overrides.OverriddenLines(),
			Labels: s.overrides.Labels(),
		},
	}
}

// Document rebuilds the editable document from a snapshot. Overrides are not
// carried over.
func (snap *Snapshot) Document() domain.Document {
	lines := make([]domain.LineItem, len(snap.LineItems))
	for i := range snap.LineItems {
		lines[i] = snap.LineItems[i].LineItem
	}
	return domain.Document{
		Kind:           snap.Kind,
		Header:         snap.Header,
		LineItems:      lines,
		ReceivedAmount: snap.ReceivedAmount,
	}
}

// BuyerName returns the bill-to name, used to label saved records.
func (snap *Snapshot) BuyerName() string {
	return snap.Header.BillTo.Name
}

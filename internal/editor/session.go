// Package editor is the reconciliation controller of a document editing
// session. It owns the document, its "original" copy for discard, and the
// override map, and recomputes line taxes after every mutation.
//
// A Session is not safe for concurrent use; callers serialise access.
package editor

import (
	"fmt"

	"invoicedesk/internal/aggregate"
	"invoicedesk/internal/domain"
	"invoicedesk/internal/gst"
	"invoicedesk/internal/override"
)

// LineField names an editable column of a line item.
type LineField string

const (
	FieldDescription LineField = "description"
	FieldHSNSAC      LineField = "hsn_sac"
	FieldQuantity    LineField = "quantity"
	FieldRate        LineField = "rate"
	FieldTaxRate     LineField = "tax_rate"
)

// Session is one editing session over a single document.
type Session struct {
	mode           domain.EditorMode
	doc            domain.Document
	original       domain.Document
	overrides      override.Map
	defaultTaxRate float64
}

// NewSession starts a session in view mode. The document is copied, given a
// line item if it has none, and every line is recomputed.
func NewSession(doc domain.Document, defaultTaxRate float64) *Session {
	s := &Session{
		mode:           domain.EditorModeView,
		doc:            doc.Clone(),
		defaultTaxRate: defaultTaxRate,
	}
	if len(s.doc.LineItems) == 0 {
		s.doc.LineItems = []domain.LineItem{domain.NewLineItem(defaultTaxRate)}
	}
	s.recompute()
	s.original = s.doc.Clone()
	return s
}

// Mode returns the current editor mode.
func (s *Session) Mode() domain.EditorMode { return s.mode }

// Document returns a copy of the working document.
func (s *Session) Document() domain.Document { return s.doc.Clone() }

// Original returns a copy of the document as it was when editing began or
// when it was last saved.
func (s *Session) Original() domain.Document { return s.original.Clone() }

// Overrides returns the current override map.
func (s *Session) Overrides() override.Map { return s.overrides }

// Totals aggregates the working document.
func (s *Session) Totals() aggregate.Totals {
	return aggregate.Aggregate(s.doc.LineItems, s.overrides, s.doc.ReceivedAmount)
}

// EnterEdit records the current document as the original and switches to edit mode.
func (s *Session) EnterEdit() error {
	if s.mode == domain.EditorModeEdit {
		return domain.ErrAlreadyEditing
	}
	s.original = s.doc.Clone()
	s.mode = domain.EditorModeEdit
	return nil
}

// ExitEdit returns to view mode. With discard, the header and line items are
// restored from the original, and the received amount and all overrides are
// cleared.
func (s *Session) ExitEdit(discard bool) error {
	if err := s.requireEdit(); err != nil {
		return err
	}
	if discard {
		s.doc = s.original.Clone()
		s.doc.ReceivedAmount = 0
		s.overrides = s.overrides.Reset()
		s.recompute()
	}
	s.mode = domain.EditorModeView
	return nil
}

// SetSellerJurisdiction changes the seller jurisdiction and recomputes every line.
// Line amount overrides are kept.
func (s *Session) SetSellerJurisdiction(v string) error {
	if err := s.requireEdit(); err != nil {
		return err
	}
	s.doc.Header.SellerJurisdiction = v
	s.recompute()
	return nil
}

// SetBuyerJurisdiction changes the buyer jurisdiction and recomputes every line.
// Line amount overrides are kept.
func (s *Session) SetBuyerJurisdiction(v string) error {
	if err := s.requireEdit(); err != nil {
		return err
	}
	s.doc.Header.BuyerJurisdiction = v
	s.recompute()
	return nil
}

// SetHeader replaces the header and recomputes every line, since the
// jurisdictions live in the header.
func (s *Session) SetHeader(h domain.Header) error {
	if err := s.requireEdit(); err != nil {
		return err
	}
	s.doc.Header = h
	s.recompute()
	return nil
}

// ApplyLead fills the bill-to party from a lead. Ship-to is filled too when it
// has no name yet, and a parsed state becomes the buyer jurisdiction.
func (s *Session) ApplyLead(lead *domain.Lead, addr domain.Address) error {
	if err := s.requireEdit(); err != nil {
		return err
	}
	party := domain.Party{
		Name:    lead.Name,
		Phone:   lead.ContactPhone,
		Email:   lead.Email,
		Address: addr,
	}
	s.doc.Header.BillTo = party
	if s.doc.Header.ShipTo.Name == "" {
		s.doc.Header.ShipTo = party
	}
	if addr.State != "" {
		s.doc.Header.BuyerJurisdiction = addr.State
	}
	s.recompute()
	return nil
}

// SetLineField updates one column of line index. Quantity, rate and tax rate
// edits clear the line's amount override and recompute it; text columns are
// stored as given. Numeric input that does not parse, or is negative, is
// stored as zero.
func (s *Session) SetLineField(index int, field LineField, value string) error {
	if err := s.requireEdit(); err != nil {
		return err
	}
	if err := s.checkIndex(index); err != nil {
		return err
	}
	item := &s.doc.LineItems[index]
	switch field {
	case FieldDescription:
		item.Description = value
		return nil
	case FieldHSNSAC:
		item.HSNSAC = value
		return nil
	case FieldQuantity:
		item.Quantity = parseNonNegative(value)
	case FieldRate:
		item.Rate = parseNonNegative(value)
	case FieldTaxRate:
		item.TaxRatePercent = parseNonNegative(value)
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownLineField, field)
	}
	s.overrides = s.overrides.ClearLine(index)
	s.recomputeLine(index)
	return nil
}

// SetLineAmount takes a tax-inclusive amount typed into line index. A valid
// amount becomes the line's override and the split is derived from it. Input
// that does not parse, or is negative, clears the override and zeroes the
// line's amount and taxes. Quantity and rate are left as they are.
func (s *Session) SetLineAmount(index int, raw string) error {
	if err := s.requireEdit(); err != nil {
		return err
	}
	if err := s.checkIndex(index); err != nil {
		return err
	}
	v, ok := override.ParseAmount(raw)
	if !ok || v < 0 {
		s.overrides = s.overrides.ClearLine(index)
		applyLineTax(&s.doc.LineItems[index], gst.LineTax{})
		return nil
	}
	s.overrides = s.overrides.SetLineAmount(index, raw)
	s.recomputeLine(index)
	return nil
}

// AddLine appends a default line item and returns its index.
func (s *Session) AddLine() (int, error) {
	if err := s.requireEdit(); err != nil {
		return 0, err
	}
	s.doc.LineItems = append(s.doc.LineItems, domain.NewLineItem(s.defaultTaxRate))
	i := len(s.doc.LineItems) - 1
	s.recomputeLine(i)
	return i, nil
}

// RemoveLine deletes line index. The last remaining line cannot be removed.
func (s *Session) RemoveLine(index int) error {
	if err := s.requireEdit(); err != nil {
		return err
	}
	if err := s.checkIndex(index); err != nil {
		return err
	}
	if len(s.doc.LineItems) == 1 {
		return domain.ErrLastLineItem
	}
	s.doc.LineItems = append(s.doc.LineItems[:index:index], s.doc.LineItems[index+1:]...)
	s.overrides = s.overrides.RemoveLine(index)
	return nil
}

// SetOverride records raw as the override of the aggregate named key. Input
// that does not parse clears the override.
func (s *Session) SetOverride(key, raw string) error {
	if err := s.requireEdit(); err != nil {
		return err
	}
	k, ok := override.ParseKey(key)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownOverrideKey, key)
	}
	s.overrides = s.overrides.Set(k, raw)
	return nil
}

// SetLabel sets a tax-row caption. Blank text restores the default.
func (s *Session) SetLabel(key, text string) error {
	if err := s.requireEdit(); err != nil {
		return err
	}
	k, ok := override.ParseLabelKey(key)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownOverrideKey, key)
	}
	s.overrides = s.overrides.SetLabel(k, text)
	return nil
}

// SetReceivedAmount records the amount already paid. Input that does not
// parse, or is negative, is stored as zero.
func (s *Session) SetReceivedAmount(raw string) error {
	if err := s.requireEdit(); err != nil {
		return err
	}
	s.doc.ReceivedAmount = parseNonNegative(raw)
	return nil
}

// SetNumber assigns the document number to both the working document and the
// original. It is allowed in any mode.
func (s *Session) SetNumber(n string) {
	s.doc.Header.Number = n
	s.original.Header.Number = n
}

// Save validates the document and freezes it as the new original. Overrides
// stay in effect. The returned snapshot is what gets persisted.
func (s *Session) Save() (*Snapshot, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.original = s.doc.Clone()
	return s.Snapshot(), nil
}

// Submit validates the document and returns the snapshot to hand to the
// submission collaborator. The mode is not changed.
func (s *Session) Submit() (*Snapshot, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s.Snapshot(), nil
}

func (s *Session) requireEdit() error {
	if s.mode != domain.EditorModeEdit {
		return domain.ErrNotEditing
	}
	return nil
}

func (s *Session) checkIndex(index int) error {
	if index < 0 || index >= len(s.doc.LineItems) {
		return fmt.Errorf("%w: %d", domain.ErrLineIndexOutOfRange, index)
	}
	return nil
}

// recompute refreshes the tax split of every line.
func (s *Session) recompute() {
	for i := range s.doc.LineItems {
		s.recomputeLine(i)
	}
}

// recomputeLine refreshes line i. A line under amount override keeps that
// amount and has its split derived from it; any other line is computed
// forward from quantity, rate and tax rate.
func (s *Session) recomputeLine(i int) {
	item := &s.doc.LineItems[i]
	seller, buyer := s.doc.Header.SellerJurisdiction, s.doc.Header.BuyerJurisdiction
	if amount, ok := s.overrides.LineAmount(i); ok {
		applyLineTax(item, gst.InverseLineTax(amount, item.TaxRatePercent, seller, buyer))
		return
	}
	applyLineTax(item, gst.ComputeLineTax(item.BaseAmount(), item.TaxRatePercent, seller, buyer))
}

func applyLineTax(item *domain.LineItem, lt gst.LineTax) {
	item.TaxAmount = lt.TaxAmount
	item.CGSTAmount = lt.CGST
	item.SGSTAmount = lt.SGST
	item.IGSTAmount = lt.IGST
	item.Amount = lt.Total
}

func parseNonNegative(raw string) float64 {
	v, ok := override.ParseAmount(raw)
	if !ok || v < 0 {
		return 0
	}
	return v
}

package editor

import (
	"fmt"
	"strings"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/gst"
)

// FieldError describes one field that failed its format check.
type FieldError struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// ValidationError blocks save and submit until every listed field is fixed.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return fmt.Sprintf("%s: %s", domain.ErrValidationFailed, strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error {
	return domain.ErrValidationFailed
}

// Validate runs the format checks on the header. It returns a
// *ValidationError listing every failing field, or nil.
func (s *Session) Validate() error {
	h := s.doc.Header
	checks := []gst.FormatCheck{
		gst.CheckGSTIN("header.company.gstin", h.Company.GSTIN),
		gst.CheckGSTIN("header.bill_to.gstin", h.BillTo.GSTIN),
		gst.CheckGSTIN("header.ship_to.gstin", h.ShipTo.GSTIN),
		gst.CheckIFSC("header.bank.ifsc_code", h.Bank.IFSCCode),
	}
	var fields []FieldError
	for _, c := range checks {
		if c.Passed {
			continue
		}
		fields = append(fields, FieldError{Field: c.FieldPath, Value: c.ActualValue, Message: c.Message})
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

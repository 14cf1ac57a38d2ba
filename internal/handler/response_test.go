package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/editor"
	"invoicedesk/internal/handler"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrSessionNotFound, http.StatusNotFound, "SESSION_NOT_FOUND"},
		{domain.ErrInvoiceNotFound, http.StatusNotFound, "INVOICE_NOT_FOUND"},
		{domain.ErrLeadNotFound, http.StatusNotFound, "LEAD_NOT_FOUND"},
		{domain.ErrDuplicateNumber, http.StatusConflict, "DUPLICATE_NUMBER"},
		{domain.ErrNotEditing, http.StatusConflict, "NOT_EDITING"},
		{domain.ErrAlreadyEditing, http.StatusConflict, "ALREADY_EDITING"},
		{domain.ErrLastLineItem, http.StatusConflict, "LAST_LINE_ITEM"},
		{domain.ErrLineIndexOutOfRange, http.StatusBadRequest, "LINE_INDEX_OUT_OF_RANGE"},
		{domain.ErrUnknownOverrideKey, http.StatusBadRequest, "UNKNOWN_OVERRIDE_KEY"},
		{&editor.ValidationError{}, http.StatusUnprocessableEntity, "VALIDATION_FAILED"},
		{domain.ErrStorageNotConfigured, http.StatusServiceUnavailable, "STORAGE_NOT_CONFIGURED"},
		{fmt.Errorf("%w: timeout", domain.ErrUploadFailed), http.StatusInternalServerError, "UPLOAD_FAILED"},
		{fmt.Errorf("storing invoice: %w", domain.ErrDuplicateNumber), http.StatusConflict, "DUPLICATE_NUMBER"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, code, msg := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
			assert.NotEmpty(t, msg)
		})
	}
}

package domain

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrSessionNotFound      = errors.New("editing session not found")
	ErrLeadNotFound         = errors.New("lead not found")
	ErrProfileNotFound      = errors.New("company profile not found")
	ErrDuplicateNumber      = errors.New("document number already exists for this tenant")
	ErrInvalidDocumentKind  = errors.New("invalid document kind")
	ErrNotEditing           = errors.New("document is not in edit mode")
	ErrAlreadyEditing       = errors.New("document is already in edit mode")
	ErrLastLineItem         = errors.New("a document must keep at least one line item")
	ErrLineIndexOutOfRange  = errors.New("line item index out of range")
	ErrUnknownLineField     = errors.New("unknown line item field")
	ErrUnknownOverrideKey   = errors.New("unknown override key")
	ErrValidationFailed     = errors.New("document has invalid fields")
	ErrUploadFailed         = errors.New("file upload to storage failed")
	ErrStorageNotConfigured = errors.New("object storage is not configured")
)

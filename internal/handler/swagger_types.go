package handler

import (
	"github.com/google/uuid"

	"invoicedesk/internal/editor"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// OpenSessionRequest represents the open session request body.
type OpenSessionRequest struct {
	Kind      string     `json:"kind" example:"invoice"`
	CompanyID *uuid.UUID `json:"company_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	InvoiceID *uuid.UUID `json:"invoice_id" example:"660e8400-e29b-41d4-a716-446655440001"`
}

// ExitEditRequest represents the exit edit mode request body.
type ExitEditRequest struct {
	Discard bool `json:"discard" example:"true"`
}

// JurisdictionRequest represents the jurisdiction update request body.
// Omitted fields are left unchanged.
type JurisdictionRequest struct {
	Seller *string `json:"seller" example:"Maharashtra"`
	Buyer  *string `json:"buyer" example:"Gujarat"`
}

// UpdateLineRequest represents a single line item field edit.
type UpdateLineRequest struct {
	Field string `json:"field" binding:"required" example:"quantity"`
	Value string `json:"value" example:"12"`
}

// ValueRequest carries one raw value as typed by the user. Values that do
// not parse as numbers clear the matching override.
type ValueRequest struct {
	Value string `json:"value" example:"1180.00"`
}

// SelectLeadRequest represents the lead selection request body.
type SelectLeadRequest struct {
	LeadID uuid.UUID `json:"lead_id" binding:"required" example:"770e8400-e29b-41d4-a716-446655440002"`
}

// --- Response Types ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"session closed"`
}

// PDFLinkResponse represents a published PDF.
type PDFLinkResponse struct {
	URL string `json:"url" example:"https://s3.amazonaws.com/invoicedesk-pdfs/...?X-Amz-Signature=..."`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}

// ValidationErrorBody is the 422 response listing the fields that block save and submit.
type ValidationErrorBody struct {
	Success bool `json:"success" example:"false"`
	Error   struct {
		Code    string              `json:"code" example:"VALIDATION_FAILED"`
		Message string              `json:"message" example:"document has invalid fields"`
		Details []editor.FieldError `json:"details"`
	} `json:"error"`
}

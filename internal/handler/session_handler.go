package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/service"
)

// SessionHandler handles document editing session endpoints.
type SessionHandler struct {
	editorService service.EditorService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(editorService service.EditorService) *SessionHandler {
	return &SessionHandler{editorService: editorService}
}

// sessionTarget resolves the caller's tenant and the :id session parameter.
// Returns false if either is missing (error response already written).
func sessionTarget(c *gin.Context) (tenantID, sessionID uuid.UUID, ok bool) {
	tenantID, _, _, ok = extractAuthContext(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid session ID")
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, sessionID, true
}

func lineIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INDEX", "line index must be an integer")
		return 0, false
	}
	return index, true
}

func respondView(c *gin.Context, view *service.SessionView, err error) {
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, view)
}

// Open handles POST /api/v1/sessions
// @Summary Open an editing session
// @Description Start a new invoice or quotation, or reopen a saved one when invoice_id is given
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body OpenSessionRequest true "Session options"
// @Success 201 {object} Response{data=service.SessionView} "Session opened"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Invoice not found"
// @Security BearerAuth
// @Router /sessions [post]
func (h *SessionHandler) Open(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	kind := domain.DocumentKind(req.Kind)
	if kind == "" {
		kind = domain.DocumentKindInvoice
	}

	view, err := h.editorService.Open(c.Request.Context(), service.OpenSessionInput{
		TenantID:  tenantID,
		UserID:    userID,
		Kind:      kind,
		CompanyID: req.CompanyID,
		InvoiceID: req.InvoiceID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, view)
}

// Get handles GET /api/v1/sessions/:id
// @Summary Get session snapshot
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Success 200 {object} Response{data=service.SessionView}
// @Failure 404 {object} ErrorResponseBody "Session not found or expired"
// @Security BearerAuth
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	tenantID, sessionID, ok := sessionTarget(c)
	if !ok {
		return
	}
	view, err := h.editorService.Get(c.Request.Context(), tenantID, sessionID)
	respondView(c, view, err)
}

// Close handles DELETE /api/v1/sessions/:id
// @Summary Close a session
// @Description Drop the session and any unsaved changes
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse}
// @Failure 404 {object} ErrorResponseBody "Session not found or expired"
// @Security BearerAuth
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Close(c *gin.Context) {
	tenantID, sessionID, ok := sessionTarget(c)
	if !ok {
		return
	}
	if err := h.editorService.Close(c.Request.Context(), tenantID, sessionID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "session closed"})
}

// EnterEdit handles POST /api/v1/sessions/:id/edit
// @Summary Enter edit mode
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Success 200 {object} Response{data=service.SessionView}
// @Failure 409 {object} ErrorResponseBody "Already editing"
// @Security BearerAuth
// @Router /sessions/{id}/edit [post]
func (h *SessionHandler) EnterEdit(c *gin.Context) {
	tenantID, sessionID, ok := sessionTarget(c)
	if !ok {
		return
	}
	view, err := h.editorService.EnterEdit(c.Request.Context(), tenantID, sessionID)
	respondView(c, view, err)
}

// ExitEdit handles POST /api/v1/sessions/:id/exit
// @Summary Leave edit mode
// @Description With discard, restore the document as it was when editing began and clear all overrides
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Param request body ExitEditRequest false "Exit options"
// @Success 200 {object} Response{data=service.SessionView}
// @Failure 409 {object} ErrorResponseBody "Not editing"
// @Security BearerAuth
// @Router /sessions/{id}/exit [post]
func (h *SessionHandler) ExitEdit(c *gin.Context) {
	tenantID, sessionID, ok := sessionTarget(c)
	if !ok {
		return
	}
	var req ExitEditRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
	}
	view, err := h.editorService.ExitEdit(c.Request.Context(), tenantID, sessionID, req.Discard)
	respondView(c, view, err)
}

// UpdateHeader handles PUT /api/v1/sessions/:id/header
// @Summary Replace header fields
// @Description Replace every non-line-item field. The document number is kept.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Param request body domain.Header true "Header"
// @Success 200 {object} Response{data=service.SessionView}
// @Failure 409 {object} ErrorResponseBody "Not editing"
// @Security BearerAuth
// @Router /sessions/{id}/header [put]
func (h *SessionHandler) UpdateHeader(c *gin.Context) {
	tenantID, sessionID, ok := sessionTarget(c)
	if !ok {
		return
	}
	var header domain.Header
	if err := c.ShouldBindJSON(&header); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	view, err := h.editorService.UpdateHeader(c.Request.Context(), tenantID, sessionID, header)
	respondView(c, view, err)
}

// SetJurisdiction handles PUT /api/v1/sessions/:id/jurisdiction
// @Summary Change seller or buyer jurisdiction
// @Description Recomputes every line. Line amount overrides are kept.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Param request body JurisdictionRequest true "Jurisdictions"
// @Success 200 {object} Response{data=service.SessionView}
// @Failure 409 {object} ErrorResponseBody "Not editing"
// @Security BearerAuth
// @Router /sessions/{id}/jurisdiction [put]
func (h *SessionHandler) SetJurisdiction(c *gin.Context) {
	tenantID, sessionID, ok := sessionTarget(c)
	if !ok {
		return
	}
	var req JurisdictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	view, err := h.editorService.SetJurisdiction(c.Request.Context(), tenantID, sessionID, service.JurisdictionInput{
		Seller: req.Seller,
		Buyer:  req.Buyer,
	})
	respondView(c, view, err)
}

// AddLine handles POST /api/v1/sessions/:id/lines
// @Summary Add a line item
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Success 200 {object} Response{data=service.SessionView}
// @Failure 409 {object} ErrorResponseBody "Not editing"
// @Security BearerAuth
// @Router /sessions/{id}/lines [post]
func (h *SessionHandler) AddLine(c *gin.Context) {
	tenantID, sessionID, ok := sessionTarget(c)
	if !ok {
		return
	}
	view, err := h.editorService.AddLine(c.Request.Context(), tenantID, sessionID)
	respondView(c, view, err)
}

// RemoveLine handles DELETE /api/v1/sessions/:id/lines/:index
// @Summary Remove a line item
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Param index path int true "Line index"
// @Success 200 {object} Response{data=service.SessionView}
// @Failure 400 {object} ErrorResponseBody "Index out of range"
// @Failure 409 {object} ErrorResponseBody "Last line item or not editing"
// @Security BearerAuth
// @Router /sessions/{id}/lines/{index} [delete]
func (h *SessionHandler) RemoveLine(c *gin.Context) {
	tenantID, sessionID, ok := sessionTarget(c)
	if !ok {
		return
	}
	index, ok := lineIndex(c)
	if !ok {
		return
	}
	view, err := h.editorService.RemoveLine(c.Request.Context(), tenantID, sessionID, index)
	respondView(c, view, err)
}

// UpdateLine handles PATCH /api/v1/sessions/:id/lines/:index
// @Summary Edit one line item field
// @Description Quantity, rate and tax_rate edits clear the line's amount override
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Param index path int true "Line index"
// @Param request body UpdateLineRequest true "Field and value"
// @Success 200 {object} Response{data=service.SessionView}
// @Failure 400 {object} ErrorResponseBody "Unknown field or index out of range"
// @Failure 409 {object} ErrorResponseBody "Not editing"
// @Security BearerAuth
// @Router /sessions/{id}/lines/{index} [patch]
func (h *SessionHandler) UpdateLine(c *gin.Context) {
	tenantID, sessionID, ok := sessionTarget(c)
	if !ok {
		return
	}
	index, ok := lineIndex(c)
	if !ok {
		return
	}
	var req UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	view, err := h.editorService.UpdateLine(c.Request.Context(), tenantID, sessionID, index, req.Field, req.Value)
	respondView(c, view, err)
}

// SetLineAmount handles PUT /api/v1/sessions/:id/lines/:index/amount
// @Summary Override a line's tax-inclusive amount
// @Description The tax split is derived from the amount. Invalid input clears the override and zeroes the line.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Param index path int true "Line index"
// @Param request body ValueRequest true "Amount"
// @Success 200 {object} Response{data=service.SessionView}
// @Failure 409 {object} ErrorResponseBody "Not editing"
// @Security BearerAuth
// @Router /sessions/{id}/lines/{index}/amount [put]
func (h *SessionHandler) SetLineAmount(c *gin.Context) {
	tenantID, sessionID, ok := sessionTarget(c)
	if !ok {
		return
	}
	index, ok := lineIndex(c)
	if !ok {
		return
	}
	var req ValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	view, err := h.editorService.SetLineAmount(c.Request.Context(), tenantID, sessionID, index, req.Value)
	respondView(c, view, err)
}

// SetOverride handles PUT /api/v1/sessions/:id/overrides/:key
// @Summary Override an aggregate total
// @Description Keys: subtotal, cgst_total, sgst_total, igst_total, grand_total, balance. Invalid input clears the override.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Param key path string true "Override key"
// @Param request body ValueRequest true "Value"
// @Success 200 {object} Response{data=service.SessionView}
// @Failure 400 {object} ErrorResponseBody "Unknown key"
// @Failure 409 {object} ErrorResponseBody "Not editing"
// @Security BearerAuth
// @Router /sessions/{id}/overrides/{key} [put]
func (h *SessionHandler) SetOverride(c *gin.Context) {
	h.setKeyed(c, h.editorService.SetOverride)
}

// SetLabel handles PUT /api/v1/sessions/:id/labels/:key
// @Summary Override a tax row caption
// @Description Keys: cgst_label, sgst_label, igst_label, cgst_percent, sgst_percent, igst_percent. Blank text restores the default.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Param key path string true "Label key"
// @Param request body ValueRequest true "Text"
// @Success 200 {object} Response{data=service.SessionView}
// @Failure 400 {object} ErrorResponseBody "Unknown key"
// @Failure 409 {object} ErrorResponseBody "Not editing"
// @Security BearerAuth
// @Router /sessions/{id}/labels/{key} [put]
func (h *SessionHandler) SetLabel(c *gin.Context) {
	h.setKeyed(c, h.editorService.SetLabel)
}

func (h *SessionHandler) setKeyed(
	c *gin.Context,
	set func(ctx context.Context, tenantID, sessionID uuid.UUID, key, value string) (*service.SessionView, error),
) {
	tenantID, sessionID, ok := sessionTarget(c)
	if !ok {
		return
	}
	var req ValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	view, err := set(c.Request.Context(), tenantID, sessionID, c.Param("key"), req.Value)
	respondView(c, view, err)
}

// SetReceivedAmount handles PUT /api/v1/sessions/:id/received
// @Summary Set the amount already received
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Param request body ValueRequest true "Amount"
// @Success 200 {object} Response{data=service.SessionView}
// @Failure 409 {object} ErrorResponseBody "Not editing"
// @Security BearerAuth
// @Router /sessions/{id}/received [put]
func (h *SessionHandler) SetReceivedAmount(c *gin.Context) {
	tenantID, sessionID, ok := sessionTarget(c)
	if !ok {
		return
	}
	var req ValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	view, err := h.editorService.SetReceivedAmount(c.Request.Context(), tenantID, sessionID, req.Value)
	respondView(c, view, err)
}

// SelectLead handles POST /api/v1/sessions/:id/lead
// @Summary Fill the buyer from a lead
// @Description Fills bill-to (and ship-to when empty) and sets the buyer jurisdiction from the lead's address
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Param request body SelectLeadRequest true "Lead"
// @Success 200 {object} Response{data=service.SessionView}
// @Failure 404 {object} ErrorResponseBody "Lead not found"
// @Failure 409 {object} ErrorResponseBody "Not editing"
// @Security BearerAuth
// @Router /sessions/{id}/lead [post]
func (h *SessionHandler) SelectLead(c *gin.Context) {
	tenantID, sessionID, ok := sessionTarget(c)
	if !ok {
		return
	}
	var req SelectLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	view, err := h.editorService.SelectLead(c.Request.Context(), tenantID, sessionID, req.LeadID)
	respondView(c, view, err)
}

// Save handles POST /api/v1/sessions/:id/save
// @Summary Save the document
// @Description Validates, assigns a number on first save and stores the snapshot
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Success 200 {object} Response{data=service.SessionView}
// @Failure 422 {object} ValidationErrorBody "Invalid fields"
// @Security BearerAuth
// @Router /sessions/{id}/save [post]
func (h *SessionHandler) Save(c *gin.Context) {
	tenantID, sessionID, ok := sessionTarget(c)
	if !ok {
		return
	}
	view, err := h.editorService.Save(c.Request.Context(), tenantID, sessionID)
	respondView(c, view, err)
}

// Submit handles POST /api/v1/sessions/:id/submit
// @Summary Submit the document
// @Description Validates, stores the snapshot as submitted and notifies the buyer
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Success 200 {object} Response{data=service.SessionView}
// @Failure 422 {object} ValidationErrorBody "Invalid fields"
// @Security BearerAuth
// @Router /sessions/{id}/submit [post]
func (h *SessionHandler) Submit(c *gin.Context) {
	tenantID, sessionID, ok := sessionTarget(c)
	if !ok {
		return
	}
	view, err := h.editorService.Submit(c.Request.Context(), tenantID, sessionID)
	respondView(c, view, err)
}

// PDF handles GET /api/v1/sessions/:id/pdf
// @Summary Export the document as PDF
// @Description Streams the PDF, or with publish=true uploads it and returns a presigned URL
// @Tags sessions
// @Produce application/pdf
// @Produce json
// @Param id path string true "Session ID (UUID)"
// @Param publish query bool false "Upload and return a link"
// @Success 200 {file} binary
// @Success 201 {object} Response{data=PDFLinkResponse}
// @Failure 503 {object} ErrorResponseBody "Storage not configured"
// @Security BearerAuth
// @Router /sessions/{id}/pdf [get]
func (h *SessionHandler) PDF(c *gin.Context) {
	tenantID, sessionID, ok := sessionTarget(c)
	if !ok {
		return
	}

	if publish, _ := strconv.ParseBool(c.Query("publish")); publish {
		url, err := h.editorService.PublishPDF(c.Request.Context(), tenantID, sessionID)
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondCreated(c, PDFLinkResponse{URL: url})
		return
	}

	file, err := h.editorService.RenderPDF(c.Request.Context(), tenantID, sessionID)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Data(http.StatusOK, "application/pdf", file.Content)
}

package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"invoicedesk/internal/csvexport"
	"invoicedesk/internal/domain"
	"invoicedesk/internal/service"
)

// InvoiceHandler handles saved invoice endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

func invoiceTarget(c *gin.Context) (tenantID, invoiceID uuid.UUID, ok bool) {
	tenantID, _, _, ok = extractAuthContext(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice ID")
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, invoiceID, true
}

// List handles GET /api/v1/invoices
// @Summary List saved invoices
// @Description List saved invoices and quotations of the tenant, newest first
// @Tags invoices
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Invoice,meta=PagMeta} "List of invoices"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	invoices, total, err := h.invoiceService.List(c.Request.Context(), tenantID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, invoices, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/invoices/:id
// @Summary Get saved invoice by ID
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID (UUID)"
// @Success 200 {object} Response{data=domain.Invoice} "Invoice"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	tenantID, invoiceID, ok := invoiceTarget(c)
	if !ok {
		return
	}

	inv, err := h.invoiceService.GetByID(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// Delete handles DELETE /api/v1/invoices/:id
// @Summary Delete a saved invoice
// @Description Delete the record and any published PDF (admin only)
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse}
// @Failure 403 {object} ErrorResponseBody "Forbidden - admin only"
// @Failure 404 {object} ErrorResponseBody "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	tenantID, invoiceID, ok := invoiceTarget(c)
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), tenantID, invoiceID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "invoice deleted"})
}

// ExportCSV handles GET /api/v1/invoices/export.csv
// @Summary Export saved invoices as CSV
// @Tags invoices
// @Produce text/csv
// @Success 200 {file} binary
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /invoices/export.csv [get]
func (h *InvoiceHandler) ExportCSV(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	// Buffer so a failure part-way can still be reported as an error response.
	var buf bytes.Buffer
	if err := h.invoiceService.ExportCSV(c.Request.Context(), tenantID, &buf); err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename("invoices", "csv", time.Now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportXLSX handles GET /api/v1/invoices/:id/export.xlsx
// @Summary Export a saved invoice as XLSX
// @Tags invoices
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Invoice ID (UUID)"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponseBody "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{id}/export.xlsx [get]
func (h *InvoiceHandler) ExportXLSX(c *gin.Context) {
	tenantID, invoiceID, ok := invoiceTarget(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	inv, err := h.invoiceService.ExportXLSX(c.Request.Context(), tenantID, invoiceID, &buf)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename(xlsxName(inv), "xlsx", time.Now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func xlsxName(inv *domain.Invoice) string {
	if inv.Number != "" {
		return inv.Number
	}
	return string(inv.Kind)
}

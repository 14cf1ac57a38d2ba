package handler

import (
	"github.com/gin-gonic/gin"

	"invoicedesk/internal/service"
)

// LeadHandler handles lead directory endpoints.
type LeadHandler struct {
	leadService service.LeadService
}

// NewLeadHandler creates a new LeadHandler.
func NewLeadHandler(leadService service.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// List handles GET /api/v1/leads
// @Summary List leads
// @Description List the tenant's leads with their addresses split into parts
// @Tags leads
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]service.LeadView,meta=PagMeta} "List of leads"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /leads [get]
func (h *LeadHandler) List(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	leads, total, err := h.leadService.List(c.Request.Context(), tenantID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, leads, PagMeta{Total: total, Offset: offset, Limit: limit})
}

package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/handler"
	"invoicedesk/internal/service"
	"invoicedesk/mocks"
)

func TestLeadHandler_List_Success(t *testing.T) {
	mockSvc := new(mocks.MockLeadService)
	h := handler.NewLeadHandler(mockSvc)
	tenantID := uuid.New()

	leads := []service.LeadView{
		{
			Lead:    domain.Lead{ID: uuid.New(), TenantID: tenantID, Name: "Acme Traders"},
			Address: domain.Address{City: "Pune", State: "Maharashtra", PostalCode: "411001"},
		},
	}
	mockSvc.On("List", mock.Anything, tenantID, 0, 20).Return(leads, 1, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/leads", http.NoBody)
	setAuthContext(c, tenantID, uuid.New(), "member")

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w.Body.Bytes())
	items := resp.Data.([]interface{})
	assert.Len(t, items, 1)
	lead := items[0].(map[string]interface{})
	assert.Equal(t, "Acme Traders", lead["name"])
	assert.Equal(t, "Maharashtra", lead["address"].(map[string]interface{})["state"])
	mockSvc.AssertExpectations(t)
}

func TestLeadHandler_List_NoAuth(t *testing.T) {
	mockSvc := new(mocks.MockLeadService)
	h := handler.NewLeadHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/leads", http.NoBody)

	h.List(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockSvc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

package handler_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/handler"
	"invoicedesk/mocks"
)

func newInvoiceHandler() (*handler.InvoiceHandler, *mocks.MockInvoiceService) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)
	return h, mockSvc
}

func TestInvoiceHandler_List_Paginated(t *testing.T) {
	h, mockSvc := newInvoiceHandler()
	tenantID := uuid.New()

	invoices := []domain.Invoice{
		{ID: uuid.New(), TenantID: tenantID, Kind: domain.DocumentKindInvoice, Number: "INV-0002"},
		{ID: uuid.New(), TenantID: tenantID, Kind: domain.DocumentKindInvoice, Number: "INV-0001"},
	}
	mockSvc.On("List", mock.Anything, tenantID, 10, 5).Return(invoices, 12, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/invoices?offset=10&limit=5", http.NoBody)
	setAuthContext(c, tenantID, uuid.New(), "member")

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w.Body.Bytes())
	assert.True(t, resp.Success)
	assert.Equal(t, 12, resp.Meta.Total)
	assert.Equal(t, 10, resp.Meta.Offset)
	assert.Equal(t, 5, resp.Meta.Limit)
	mockSvc.AssertExpectations(t)
}

func TestInvoiceHandler_List_LimitCapped(t *testing.T) {
	h, mockSvc := newInvoiceHandler()
	tenantID := uuid.New()

	mockSvc.On("List", mock.Anything, tenantID, 0, 20).Return([]domain.Invoice{}, 0, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/invoices?limit=500&offset=-3", http.NoBody)
	setAuthContext(c, tenantID, uuid.New(), "member")

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestInvoiceHandler_GetByID_NotFound(t *testing.T) {
	h, mockSvc := newInvoiceHandler()
	tenantID, invoiceID := uuid.New(), uuid.New()

	mockSvc.On("GetByID", mock.Anything, tenantID, invoiceID).Return(nil, domain.ErrInvoiceNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: invoiceID.String()}}
	setAuthContext(c, tenantID, uuid.New(), "member")

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w.Body.Bytes())
	assert.Equal(t, "INVOICE_NOT_FOUND", resp.Error.Code)
}

func TestInvoiceHandler_GetByID_InvalidID(t *testing.T) {
	h, _ := newInvoiceHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: "INV-0001"}}
	setAuthContext(c, uuid.New(), uuid.New(), "member")

	h.GetByID(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvoiceHandler_Delete_Success(t *testing.T) {
	h, mockSvc := newInvoiceHandler()
	tenantID, invoiceID := uuid.New(), uuid.New()

	mockSvc.On("Delete", mock.Anything, tenantID, invoiceID).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: invoiceID.String()}}
	setAuthContext(c, tenantID, uuid.New(), "admin")

	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestInvoiceHandler_ExportCSV_Success(t *testing.T) {
	h, mockSvc := newInvoiceHandler()
	tenantID := uuid.New()

	mockSvc.On("ExportCSV", mock.Anything, tenantID, mock.Anything).
		Run(func(args mock.Arguments) {
			w := args.Get(2).(io.Writer)
			_, _ = w.Write([]byte("number,kind\nINV-0001,invoice\n"))
		}).
		Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/invoices/export.csv", http.NoBody)
	setAuthContext(c, tenantID, uuid.New(), "member")

	h.ExportCSV(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "invoices_")
	assert.Contains(t, w.Body.String(), "INV-0001,invoice")
}

func TestInvoiceHandler_ExportCSV_FailureIsJSON(t *testing.T) {
	h, mockSvc := newInvoiceHandler()
	tenantID := uuid.New()

	mockSvc.On("ExportCSV", mock.Anything, tenantID, mock.Anything).
		Run(func(args mock.Arguments) {
			w := args.Get(2).(io.Writer)
			_, _ = w.Write([]byte("partial"))
		}).
		Return(errors.New("connection reset"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/invoices/export.csv", http.NoBody)
	setAuthContext(c, tenantID, uuid.New(), "member")

	h.ExportCSV(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "partial")
	resp := decodeResponse(t, w.Body.Bytes())
	assert.False(t, resp.Success)
}

func TestInvoiceHandler_ExportXLSX_NamesByNumber(t *testing.T) {
	h, mockSvc := newInvoiceHandler()
	tenantID, invoiceID := uuid.New(), uuid.New()

	mockSvc.On("ExportXLSX", mock.Anything, tenantID, invoiceID, mock.Anything).
		Return(&domain.Invoice{ID: invoiceID, Kind: domain.DocumentKindInvoice, Number: "INV-0007"}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: invoiceID.String()}}
	setAuthContext(c, tenantID, uuid.New(), "member")

	h.ExportXLSX(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "INV-0007_")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
}

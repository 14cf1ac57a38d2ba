package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/handler"
	"invoicedesk/internal/router"
	"invoicedesk/internal/service"
	"invoicedesk/mocks"
)

type healthyDB struct{}

func (healthyDB) PingContext(context.Context) error { return nil }

type testServer struct {
	engine   *gin.Engine
	auth     *mocks.MockAuthService
	editor   *mocks.MockEditorService
	invoices *mocks.MockInvoiceService
	leads    *mocks.MockLeadService
	tenantID uuid.UUID
	userID   uuid.UUID
}

func newTestServer(role domain.UserRole) *testServer {
	gin.SetMode(gin.TestMode)
	s := &testServer{
		auth:     new(mocks.MockAuthService),
		editor:   new(mocks.MockEditorService),
		invoices: new(mocks.MockInvoiceService),
		leads:    new(mocks.MockLeadService),
		tenantID: uuid.New(),
		userID:   uuid.New(),
	}
	s.auth.On("ValidateToken", "good-token").Return(&service.Claims{
		TenantID: s.tenantID,
		UserID:   s.userID,
		Email:    "clerk@example.com",
		Role:     role,
	}, nil)
	s.auth.On("ValidateToken", mock.Anything).Return(nil, domain.ErrUnauthorized)

	s.engine = router.Setup(
		s.auth,
		[]string{"http://localhost:3000"},
		handler.NewSessionHandler(s.editor),
		handler.NewInvoiceHandler(s.invoices),
		handler.NewLeadHandler(s.leads),
		handler.NewHealthHandler(healthyDB{}),
	)
	return s
}

func (s *testServer) do(method, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, http.NoBody)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	s.engine.ServeHTTP(w, req)
	return w
}

func TestRouter_HealthIsPublic(t *testing.T) {
	s := newTestServer(domain.RoleMember)

	w := s.do(http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_APIRequiresToken(t *testing.T) {
	s := newTestServer(domain.RoleMember)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/invoices", "").Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/invoices", "forged").Code)
}

func TestRouter_SessionRouteReachesHandler(t *testing.T) {
	s := newTestServer(domain.RoleMember)
	sessionID := uuid.New()

	s.editor.On("Get", mock.Anything, s.tenantID, sessionID).Return(&service.SessionView{
		ID:        sessionID,
		ExpiresAt: time.Now().Add(time.Minute),
	}, nil)

	w := s.do(http.MethodGet, "/api/v1/sessions/"+sessionID.String(), "good-token")

	assert.Equal(t, http.StatusOK, w.Code)
	s.editor.AssertExpectations(t)
}

func TestRouter_ExportCSVNotShadowedByID(t *testing.T) {
	s := newTestServer(domain.RoleMember)

	s.invoices.On("ExportCSV", mock.Anything, s.tenantID, mock.Anything).Return(nil)

	w := s.do(http.MethodGet, "/api/v1/invoices/export.csv", "good-token")

	assert.Equal(t, http.StatusOK, w.Code)
	s.invoices.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouter_DeleteInvoiceRequiresAdmin(t *testing.T) {
	invoiceID := uuid.New()

	member := newTestServer(domain.RoleMember)
	w := member.do(http.MethodDelete, "/api/v1/invoices/"+invoiceID.String(), "good-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	member.invoices.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)

	admin := newTestServer(domain.RoleAdmin)
	admin.invoices.On("Delete", mock.Anything, admin.tenantID, invoiceID).Return(nil)
	w = admin.do(http.MethodDelete, "/api/v1/invoices/"+invoiceID.String(), "good-token")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	s := newTestServer(domain.RoleMember)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/sessions", http.NoBody)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

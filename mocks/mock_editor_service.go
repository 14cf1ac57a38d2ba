package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/service"
)

// MockEditorService is a mock implementation of service.EditorService.
type MockEditorService struct {
	mock.Mock
}

func (m *MockEditorService) Open(ctx context.Context, input service.OpenSessionInput) (*service.SessionView, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockEditorService) Get(ctx context.Context, tenantID, sessionID uuid.UUID) (*service.SessionView, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockEditorService) Close(ctx context.Context, tenantID, sessionID uuid.UUID) error {
	args := m.Called(ctx, tenantID, sessionID)
	return args.Error(0)
}

func (m *MockEditorService) EnterEdit(ctx context.Context, tenantID, sessionID uuid.UUID) (*service.SessionView, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockEditorService) ExitEdit(ctx context.Context, tenantID, sessionID uuid.UUID, discard bool) (*service.SessionView, error) {
	args := m.Called(ctx, tenantID, sessionID, discard)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockEditorService) UpdateHeader(ctx context.Context, tenantID, sessionID uuid.UUID, header domain.Header) (*service.SessionView, error) {
	args := m.Called(ctx, tenantID, sessionID, header)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockEditorService) SetJurisdiction(ctx context.Context, tenantID, sessionID uuid.UUID, input service.JurisdictionInput) (*service.SessionView, error) {
	args := m.Called(ctx, tenantID, sessionID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockEditorService) AddLine(ctx context.Context, tenantID, sessionID uuid.UUID) (*service.SessionView, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockEditorService) RemoveLine(ctx context.Context, tenantID, sessionID uuid.UUID, index int) (*service.SessionView, error) {
	args := m.Called(ctx, tenantID, sessionID, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockEditorService) UpdateLine(ctx context.Context, tenantID, sessionID uuid.UUID, index int, field, value string) (*service.SessionView, error) {
	args := m.Called(ctx, tenantID, sessionID, index, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockEditorService) SetLineAmount(ctx context.Context, tenantID, sessionID uuid.UUID, index int, value string) (*service.SessionView, error) {
	args := m.Called(ctx, tenantID, sessionID, index, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockEditorService) SetOverride(ctx context.Context, tenantID, sessionID uuid.UUID, key, value string) (*service.SessionView, error) {
	args := m.Called(ctx, tenantID, sessionID, key, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockEditorService) SetLabel(ctx context.Context, tenantID, sessionID uuid.UUID, key, value string) (*service.SessionView, error) {
	args := m.Called(ctx, tenantID, sessionID, key, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockEditorService) SetReceivedAmount(ctx context.Context, tenantID, sessionID uuid.UUID, value string) (*service.SessionView, error) {
	args := m.Called(ctx, tenantID, sessionID, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockEditorService) SelectLead(ctx context.Context, tenantID, sessionID, leadID uuid.UUID) (*service.SessionView, error) {
	args := m.Called(ctx, tenantID, sessionID, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockEditorService) Save(ctx context.Context, tenantID, sessionID uuid.UUID) (*service.SessionView, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockEditorService) Submit(ctx context.Context, tenantID, sessionID uuid.UUID) (*service.SessionView, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockEditorService) RenderPDF(ctx context.Context, tenantID, sessionID uuid.UUID) (*service.PDFFile, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PDFFile), args.Error(1)
}

func (m *MockEditorService) PublishPDF(ctx context.Context, tenantID, sessionID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID, sessionID)
	return args.String(0), args.Error(1)
}

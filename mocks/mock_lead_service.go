package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"invoicedesk/internal/service"
)

// MockLeadService is a mock implementation of service.LeadService.
type MockLeadService struct {
	mock.Mock
}

func (m *MockLeadService) List(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]service.LeadView, int, error) {
	args := m.Called(ctx, tenantID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]service.LeadView), args.Int(1), args.Error(2)
}

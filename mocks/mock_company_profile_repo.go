package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"invoicedesk/internal/domain"
)

// MockCompanyProfileRepo is a mock implementation of port.CompanyProfileRepository.
type MockCompanyProfileRepo struct {
	mock.Mock
}

func (m *MockCompanyProfileRepo) GetByID(ctx context.Context, tenantID, profileID uuid.UUID) (*domain.CompanyProfile, error) {
	args := m.Called(ctx, tenantID, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanyProfile), args.Error(1)
}

func (m *MockCompanyProfileRepo) GetDefault(ctx context.Context, tenantID uuid.UUID) (*domain.CompanyProfile, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanyProfile), args.Error(1)
}

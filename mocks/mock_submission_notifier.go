package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoicedesk/internal/port"
)

// MockSubmissionNotifier is a mock implementation of port.SubmissionNotifier.
type MockSubmissionNotifier struct {
	mock.Mock
}

func (m *MockSubmissionNotifier) NotifySubmitted(ctx context.Context, notice port.SubmissionNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"repdf/internal/domain"
	"repdf/internal/service"
)

// MockConversionService is a mock implementation of service.ConversionService.
type MockConversionService struct {
	mock.Mock
}

func (m *MockConversionService) Submit(ctx context.Context, input service.ConversionInput) (*domain.JobSnapshot, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobSnapshot), args.Error(1)
}

func (m *MockConversionService) Status(ctx context.Context, jobID string) (*domain.JobSnapshot, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobSnapshot), args.Error(1)
}

func (m *MockConversionService) Result(ctx context.Context, jobID string) (*service.ConversionResult, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ConversionResult), args.Error(1)
}

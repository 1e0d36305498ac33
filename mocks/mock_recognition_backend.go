package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"repdf/internal/port"
)

// MockRecognitionBackend is a mock implementation of port.RecognitionBackend.
type MockRecognitionBackend struct {
	mock.Mock
}

func (m *MockRecognitionBackend) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockRecognitionBackend) Recognize(ctx context.Context, input port.RecognizeInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"repdf/internal/domain"
	"repdf/internal/port"
)

// MockPageRenderer is a mock implementation of port.PageRenderer.
type MockPageRenderer struct {
	mock.Mock
}

func (m *MockPageRenderer) Render(ctx context.Context, input port.RenderInput) ([]domain.PageImage, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PageImage), args.Error(1)
}

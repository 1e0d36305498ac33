package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"repdf/internal/domain"
)

// MockRegionExtractor is a mock implementation of port.RegionExtractor.
type MockRegionExtractor struct {
	mock.Mock
}

func (m *MockRegionExtractor) Extract(ctx context.Context, page domain.PageImage) ([]domain.TextRegion, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TextRegion), args.Error(1)
}

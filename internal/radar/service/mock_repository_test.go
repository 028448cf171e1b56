package service

import (
	"context"

	"investor-radar/internal/radar/dto"

	"github.com/stretchr/testify/mock"
)

type mockRadarRepository struct {
	mock.Mock
}

func (m *mockRadarRepository) GetStats(ctx context.Context) (*dto.PlatformStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*dto.PlatformStats)
	return stats, args.Error(1)
}

func (m *mockRadarRepository) GetTrending(ctx context.Context) ([]dto.TrendingEntry, error) {
	args := m.Called(ctx)
	entries, _ := args.Get(0).([]dto.TrendingEntry)
	return entries, args.Error(1)
}

func (m *mockRadarRepository) Search(ctx context.Context, query string) ([]dto.Company, error) {
	args := m.Called(ctx, query)
	companies, _ := args.Get(0).([]dto.Company)
	return companies, args.Error(1)
}

func (m *mockRadarRepository) Refresh(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

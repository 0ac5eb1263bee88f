package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/studymate/reviewd/internal/models"
)

// MockStatsRepository is a mock implementation of repository.StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) UpsertDaily(ctx context.Context, userID string, stats models.DailyStats) error {
	args := m.Called(ctx, userID, stats)
	return args.Error(0)
}

func (m *MockStatsRepository) GetDaily(ctx context.Context, userID string, day models.Day) (*models.DailyStats, error) {
	args := m.Called(ctx, userID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyStats), args.Error(1)
}

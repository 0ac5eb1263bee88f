package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/studymate/reviewd/internal/models"
	"github.com/studymate/reviewd/internal/repository"
)

// MockMasteryRepository is a mock implementation of repository.MasteryRepository
type MockMasteryRepository struct {
	mock.Mock
}

func (m *MockMasteryRepository) Get(ctx context.Context, id int64) (*models.MasteryState, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MasteryState), args.Error(1)
}

func (m *MockMasteryRepository) GetByUserProblem(ctx context.Context, userID, problemID string) (*models.MasteryState, error) {
	args := m.Called(ctx, userID, problemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MasteryState), args.Error(1)
}

func (m *MockMasteryRepository) Insert(ctx context.Context, state models.MasteryState) (int64, error) {
	args := m.Called(ctx, state)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMasteryRepository) UpdateVersioned(ctx context.Context, state models.MasteryState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockMasteryRepository) ListDue(ctx context.Context, f repository.DueFilter) ([]models.MasteryState, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MasteryState), args.Error(1)
}

func (m *MockMasteryRepository) CountDue(ctx context.Context, f repository.DueFilter) (int, error) {
	args := m.Called(ctx, f)
	return args.Int(0), args.Error(1)
}

func (m *MockMasteryRepository) ListByPriority(ctx context.Context, f repository.DueFilter) ([]models.MasteryState, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MasteryState), args.Error(1)
}

func (m *MockMasteryRepository) Distribution(ctx context.Context, userID string) (*models.MasteryDistribution, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MasteryDistribution), args.Error(1)
}

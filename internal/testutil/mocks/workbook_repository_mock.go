package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/studymate/reviewd/internal/models"
)

// MockWorkbookRepository is a mock implementation of repository.WorkbookRepository
type MockWorkbookRepository struct {
	mock.Mock
}

func (m *MockWorkbookRepository) Get(ctx context.Context, id int64) (*models.WorkbookReviewSchedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkbookReviewSchedule), args.Error(1)
}

func (m *MockWorkbookRepository) GetByUserSet(ctx context.Context, userID, problemSetID string) (*models.WorkbookReviewSchedule, error) {
	args := m.Called(ctx, userID, problemSetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkbookReviewSchedule), args.Error(1)
}

func (m *MockWorkbookRepository) Insert(ctx context.Context, s models.WorkbookReviewSchedule) (int64, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWorkbookRepository) UpdateVersioned(ctx context.Context, s models.WorkbookReviewSchedule) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockWorkbookRepository) List(ctx context.Context, userID string, limit, offset int) ([]models.WorkbookReviewSchedule, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WorkbookReviewSchedule), args.Error(1)
}

func (m *MockWorkbookRepository) Count(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

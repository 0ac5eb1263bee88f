package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/studymate/reviewd/internal/models"
)

// MockEventRepository is a mock implementation of repository.EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Insert(ctx context.Context, e models.ReviewCompletionEvent) (int64, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventRepository) GetBySubmissionID(ctx context.Context, userID, submissionID string) (*models.ReviewCompletionEvent, error) {
	args := m.Called(ctx, userID, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewCompletionEvent), args.Error(1)
}

func (m *MockEventRepository) ListByDayRange(ctx context.Context, userID string, from, to models.Day) ([]models.ReviewCompletionEvent, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewCompletionEvent), args.Error(1)
}

package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/studymate/reviewd/internal/models"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueStatsRecompute(userID string, from, to models.Day) error {
	args := m.Called(userID, from, to)
	return args.Error(0)
}

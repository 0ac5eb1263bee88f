package jobs

import "github.com/studymate/reviewd/internal/models"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueStatsRecompute(userID string, from, to models.Day) error
}

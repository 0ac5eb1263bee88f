package jobs

import (
	"github.com/studymate/reviewd/internal/models"
	"github.com/studymate/reviewd/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	statsPool *worker.Pool
	stats     worker.StatsRecomputer
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(statsPool *worker.Pool, stats worker.StatsRecomputer) JobQueue {
	return &WorkerQueue{
		statsPool: statsPool,
		stats:     stats,
	}
}

func (q *WorkerQueue) EnqueueStatsRecompute(userID string, from, to models.Day) error {
	return q.statsPool.Submit(&worker.RecomputeStatsJob{
		Stats:  q.stats,
		UserID: userID,
		From:   from,
		To:     to,
	})
}

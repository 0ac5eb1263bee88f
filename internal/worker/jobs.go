package worker

import (
	"context"

	"github.com/studymate/reviewd/internal/logger"
	"github.com/studymate/reviewd/internal/models"
)

// RecomputeStatsJob rebuilds the daily stats cache for one user over a day
// range. Completions keep serving reads while the cache catches up.
type RecomputeStatsJob struct {
	Stats  StatsRecomputer
	UserID string
	From   models.Day
	To     models.Day
}

func (j *RecomputeStatsJob) Name() string { return "recompute_stats" }

func (j *RecomputeStatsJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"user_id": j.UserID,
		"from":    string(j.From),
		"to":      string(j.To),
	})
	log.Info("recomputing daily stats cache")

	if err := j.Stats.RecomputeRange(ctx, j.UserID, j.From, j.To); err != nil {
		log.Error("stats recompute failed: %v", err)
		return err
	}
	return nil
}

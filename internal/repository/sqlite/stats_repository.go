package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/studymate/reviewd/internal/logger"
	"github.com/studymate/reviewd/internal/models"
	"github.com/studymate/reviewd/internal/repository"
)

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) UpsertDaily(ctx context.Context, userID string, stats models.DailyStats) error {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("upserting daily stats: user_id=%s, day=%s, total=%d", userID, stats.Date, stats.TotalReviewsCompleted)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO daily_stats (user_id, day, total_reviews, correct_answers, incorrect_answers, average_time_spent, level_increased, level_decreased, level_unchanged, computed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(user_id, day) DO UPDATE SET
    total_reviews = excluded.total_reviews,
    correct_answers = excluded.correct_answers,
    incorrect_answers = excluded.incorrect_answers,
    average_time_spent = excluded.average_time_spent,
    level_increased = excluded.level_increased,
    level_decreased = excluded.level_decreased,
    level_unchanged = excluded.level_unchanged,
    computed_at = CURRENT_TIMESTAMP
`, userID, string(stats.Date), stats.TotalReviewsCompleted, stats.CorrectAnswers, stats.IncorrectAnswers,
		stats.AverageTimeSpent, stats.MasteryLevelChanges.Increased, stats.MasteryLevelChanges.Decreased, stats.MasteryLevelChanges.Unchanged)
	if err != nil {
		log.Error("failed to upsert daily stats: %v", err)
	}
	return err
}

func (r *statsRepository) GetDaily(ctx context.Context, userID string, day models.Day) (*models.DailyStats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("getting daily stats: user_id=%s, day=%s", userID, day)

	var s models.DailyStats
	err := r.db.QueryRowContext(ctx, `
SELECT day, total_reviews, correct_answers, incorrect_answers, average_time_spent, level_increased, level_decreased, level_unchanged
FROM daily_stats
WHERE user_id = ? AND day = ?
`, userID, string(day)).Scan(&s.Date, &s.TotalReviewsCompleted, &s.CorrectAnswers, &s.IncorrectAnswers,
		&s.AverageTimeSpent, &s.MasteryLevelChanges.Increased, &s.MasteryLevelChanges.Decreased, &s.MasteryLevelChanges.Unchanged)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get daily stats: %v", err)
		return nil, err
	}
	return &s, nil
}

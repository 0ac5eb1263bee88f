package services

import (
	"context"
	"time"

	"github.com/studymate/reviewd/internal/errors"
	"github.com/studymate/reviewd/internal/logger"
	"github.com/studymate/reviewd/internal/models"
	"github.com/studymate/reviewd/internal/repository"
)

// StatsService handles review statistics business logic. Numbers are derived
// from the completion event log; the daily_stats table is only a cache of
// that derivation.
type StatsService interface {
	GetDailyStats(ctx context.Context, userID string, day models.Day) (*models.DailyStats, error)
	GetEfficiencyReport(ctx context.Context, userID string, from, to models.Day) (*models.EfficiencyReport, error)
	RecomputeRange(ctx context.Context, userID string, from, to models.Day) error
}

type statsService struct {
	eventRepo repository.EventRepository
	statsRepo repository.StatsRepository
	now       func() time.Time
}

// NewStatsService creates a new StatsService
func NewStatsService(eventRepo repository.EventRepository, statsRepo repository.StatsRepository) StatsService {
	return &statsService{
		eventRepo: eventRepo,
		statsRepo: statsRepo,
		now:       time.Now,
	}
}

func (s *statsService) GetDailyStats(ctx context.Context, userID string, day models.Day) (*models.DailyStats, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting daily stats: user_id=%s, day=%s", userID, day)

	if !day.Valid() {
		return nil, errors.NewValidationError("date", "must be formatted YYYY-MM-DD")
	}

	today := models.DayOf(s.now())

	// Past days are immutable, so a cached row is authoritative. Today keeps
	// being recomputed because completions are still arriving.
	if day.Before(today) {
		cached, err := s.statsRepo.GetDaily(ctx, userID, day)
		if err != nil {
			log.Error("failed to read stats cache: %v", err)
			return nil, errors.NewInternalError(err)
		}
		if cached != nil {
			return cached, nil
		}
	}

	events, err := s.eventRepo.ListByDayRange(ctx, userID, day, day)
	if err != nil {
		log.Error("failed to list events for day: %v", err)
		return nil, errors.NewInternalError(err)
	}

	stats := computeDailyStats(day, events)

	if day.Before(today) {
		if err := s.statsRepo.UpsertDaily(ctx, userID, stats); err != nil {
			log.Warn("failed to backfill stats cache for %s: %v", day, err)
		}
	}

	return &stats, nil
}

func (s *statsService) GetEfficiencyReport(ctx context.Context, userID string, from, to models.Day) (*models.EfficiencyReport, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting efficiency report: user_id=%s, from=%s, to=%s", userID, from, to)

	if !from.Valid() {
		return nil, errors.NewValidationError("startDate", "must be formatted YYYY-MM-DD")
	}
	if !to.Valid() {
		return nil, errors.NewValidationError("endDate", "must be formatted YYYY-MM-DD")
	}
	if to.Before(from) {
		return nil, errors.NewValidationError("endDate", "must not precede startDate")
	}

	events, err := s.eventRepo.ListByDayRange(ctx, userID, from, to)
	if err != nil {
		log.Error("failed to list events for range: %v", err)
		return nil, errors.NewInternalError(err)
	}

	report := models.EfficiencyReport{StartDate: from, EndDate: to}

	byDay := make(map[models.Day][]models.ReviewCompletionEvent)
	var order []models.Day
	for _, e := range events {
		if e.ScheduleID != nil {
			continue
		}
		if _, seen := byDay[e.OccurredDay]; !seen {
			order = append(order, e.OccurredDay)
		}
		byDay[e.OccurredDay] = append(byDay[e.OccurredDay], e)
	}

	var timeSum float64
	var timeCount int
	for _, d := range order {
		daily := computeDailyStats(d, byDay[d])
		report.DailyBreakdown = append(report.DailyBreakdown, daily)

		report.TotalReviews += daily.TotalReviewsCompleted
		report.CorrectAnswers += daily.CorrectAnswers
		report.IncorrectAnswers += daily.IncorrectAnswers
		report.MasteryLevelChanges.Increased += daily.MasteryLevelChanges.Increased
		report.MasteryLevelChanges.Decreased += daily.MasteryLevelChanges.Decreased
		report.MasteryLevelChanges.Unchanged += daily.MasteryLevelChanges.Unchanged

		for _, e := range byDay[d] {
			if e.TimeSpentSeconds != nil {
				timeSum += *e.TimeSpentSeconds
				timeCount++
			}
		}
	}

	report.ActiveDays = len(order)
	if report.TotalReviews > 0 {
		report.Accuracy = float64(report.CorrectAnswers) / float64(report.TotalReviews)
	}
	if timeCount > 0 {
		report.AverageTimeSpent = timeSum / float64(timeCount)
	}

	return &report, nil
}

func (s *statsService) RecomputeRange(ctx context.Context, userID string, from, to models.Day) error {
	log := logger.FromContext(ctx)
	log.Debug("recomputing stats: user_id=%s, from=%s, to=%s", userID, from, to)

	if !from.Valid() || !to.Valid() || to.Before(from) {
		return errors.NewValidationError("range", "must be a valid YYYY-MM-DD day range")
	}

	events, err := s.eventRepo.ListByDayRange(ctx, userID, from, to)
	if err != nil {
		log.Error("failed to list events for recompute: %v", err)
		return errors.NewInternalError(err)
	}

	byDay := make(map[models.Day][]models.ReviewCompletionEvent)
	for _, e := range events {
		byDay[e.OccurredDay] = append(byDay[e.OccurredDay], e)
	}

	for d := from; !d.After(to); d = d.AddDays(1) {
		stats := computeDailyStats(d, byDay[d])
		if err := s.statsRepo.UpsertDaily(ctx, userID, stats); err != nil {
			log.Error("failed to upsert stats for %s: %v", d, err)
			return errors.NewInternalError(err)
		}
	}
	return nil
}

// computeDailyStats folds one day's events into its aggregate. Workbook
// session events share the log but are not item reviews, so they are
// skipped. Events with no recorded time are excluded from the average, not
// counted as zero.
func computeDailyStats(day models.Day, events []models.ReviewCompletionEvent) models.DailyStats {
	stats := models.DailyStats{Date: day}

	var timeSum float64
	var timeCount int
	for _, e := range events {
		if e.ScheduleID != nil {
			continue
		}
		stats.TotalReviewsCompleted++
		if e.IsCorrect {
			stats.CorrectAnswers++
		} else {
			stats.IncorrectAnswers++
		}
		if e.TimeSpentSeconds != nil {
			timeSum += *e.TimeSpentSeconds
			timeCount++
		}
		switch e.Classify() {
		case models.LevelIncreased:
			stats.MasteryLevelChanges.Increased++
		case models.LevelDecreased:
			stats.MasteryLevelChanges.Decreased++
		default:
			stats.MasteryLevelChanges.Unchanged++
		}
	}
	if timeCount > 0 {
		stats.AverageTimeSpent = timeSum / float64(timeCount)
	}
	return stats
}

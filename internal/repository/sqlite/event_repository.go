package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/studymate/reviewd/internal/logger"
	"github.com/studymate/reviewd/internal/models"
	"github.com/studymate/reviewd/internal/repository"
)

const eventColumns = `id, submission_id, user_id, record_id, schedule_id, problem_id, problem_set_id, is_correct, time_spent_seconds, confidence_level, difficulty_perceived, prior_level, new_level, new_scheduled_date, occurred_at, occurred_day`

type eventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new EventRepository implementation
func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

func scanEvent(row interface{ Scan(...any) error }) (*models.ReviewCompletionEvent, error) {
	var e models.ReviewCompletionEvent
	var recordID, scheduleID sql.NullInt64
	var timeSpent sql.NullFloat64
	var confidence, difficulty sql.NullInt64
	var newScheduled sql.NullString
	err := row.Scan(&e.ID, &e.SubmissionID, &e.UserID, &recordID, &scheduleID,
		&e.ProblemID, &e.ProblemSetID, &e.IsCorrect, &timeSpent, &confidence,
		&difficulty, &e.PriorLevel, &e.NewLevel, &newScheduled, &e.OccurredAt, &e.OccurredDay)
	if err != nil {
		return nil, err
	}
	e.RecordID = nullID(recordID)
	e.ScheduleID = nullID(scheduleID)
	e.TimeSpentSeconds = nullFloat(timeSpent)
	e.ConfidenceLevel = nullInt(confidence)
	e.DifficultyPerceived = nullInt(difficulty)
	e.NewScheduledDate = nullDay(newScheduled)
	e.Outcome = models.OutcomeFromBool(e.IsCorrect)
	return &e, nil
}

func (r *eventRepository) Insert(ctx context.Context, e models.ReviewCompletionEvent) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("event_repo")
	log.Debug("inserting review event: user_id=%s, submission_id=%s", e.UserID, e.SubmissionID)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO review_events (submission_id, user_id, record_id, schedule_id, problem_id, problem_set_id, is_correct, time_spent_seconds, confidence_level, difficulty_perceived, prior_level, new_level, new_scheduled_date, occurred_at, occurred_day)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, e.SubmissionID, e.UserID, idArg(e.RecordID), idArg(e.ScheduleID), e.ProblemID, e.ProblemSetID,
		e.Outcome.Correct(), floatArg(e.TimeSpentSeconds), intArg(e.ConfidenceLevel), intArg(e.DifficultyPerceived),
		e.PriorLevel, e.NewLevel, dayArg(e.NewScheduledDate), e.OccurredAt, string(e.OccurredDay))
	if err != nil {
		log.Error("failed to insert review event: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get review event id: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *eventRepository) GetBySubmissionID(ctx context.Context, userID, submissionID string) (*models.ReviewCompletionEvent, error) {
	log := logger.FromContext(ctx).WithPrefix("event_repo")
	log.Debug("looking up submission: user_id=%s, submission_id=%s", userID, submissionID)

	e, err := scanEvent(r.db.QueryRowContext(ctx, `
SELECT `+eventColumns+`
FROM review_events
WHERE user_id = ? AND submission_id = ?
`, userID, submissionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to look up submission: %v", err)
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListByDayRange(ctx context.Context, userID string, from, to models.Day) ([]models.ReviewCompletionEvent, error) {
	log := logger.FromContext(ctx).WithPrefix("event_repo")
	log.Debug("listing events: user_id=%s, from=%s, to=%s", userID, from, to)

	rows, err := r.db.QueryContext(ctx, `
SELECT `+eventColumns+`
FROM review_events
WHERE user_id = ? AND occurred_day >= ? AND occurred_day <= ?
ORDER BY occurred_at ASC, id ASC
`, userID, string(from), string(to))
	if err != nil {
		log.Error("failed to list review events: %v", err)
		return nil, err
	}
	defer rows.Close()

	var events []models.ReviewCompletionEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			log.Error("failed to scan review event row: %v", err)
			return nil, err
		}
		events = append(events, *e)
	}
	log.Debug("found %d review events", len(events))
	return events, rows.Err()
}

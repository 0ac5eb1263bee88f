package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/studymate/reviewd/internal/errors"
	"github.com/studymate/reviewd/internal/logger"
	"github.com/studymate/reviewd/internal/models"
	"github.com/studymate/reviewd/internal/repository"
	"github.com/studymate/reviewd/internal/scheduler"
)

// CompleteSessionInput carries the all-or-nothing outcome of one workbook
// review session.
type CompleteSessionInput struct {
	SubmissionID     string
	Success          bool
	TimeSpentSeconds *float64
}

// SessionResult is the schedule transition a session produced.
type SessionResult struct {
	ScheduleID     int64      `json:"scheduleId"`
	ProblemSetID   string     `json:"problemSetId"`
	Success        bool       `json:"success"`
	PriorStage     int        `json:"priorStage"`
	NewStage       int        `json:"newStage"`
	NextReviewDate models.Day `json:"nextReviewDate"`
	Duplicate      bool       `json:"duplicate"`
}

// WorkbookService handles workbook-level review scheduling
type WorkbookService interface {
	EnsureSchedule(ctx context.Context, userID, problemSetID string) (*models.WorkbookReviewSchedule, error)
	ListSchedules(ctx context.Context, userID string, page, limit int) ([]models.WorkbookReviewSchedule, models.Pagination, error)
	CompleteSession(ctx context.Context, userID string, scheduleID int64, input CompleteSessionInput) (*SessionResult, error)
}

type workbookService struct {
	workbookRepo repository.WorkbookRepository
	eventRepo    repository.EventRepository
	table        scheduler.StageTable
	locks        *keyLock
	now          func() time.Time
}

// NewWorkbookService creates a new WorkbookService
func NewWorkbookService(workbookRepo repository.WorkbookRepository, eventRepo repository.EventRepository) WorkbookService {
	return &workbookService{
		workbookRepo: workbookRepo,
		eventRepo:    eventRepo,
		table:        scheduler.DefaultWorkbookTable(),
		locks:        newKeyLock(),
		now:          time.Now,
	}
}

func (s *workbookService) EnsureSchedule(ctx context.Context, userID, problemSetID string) (*models.WorkbookReviewSchedule, error) {
	log := logger.FromContext(ctx)
	log.Debug("ensuring workbook schedule: user_id=%s, problem_set_id=%s", userID, problemSetID)

	if problemSetID == "" {
		return nil, errors.NewValidationError("problemSetId", "must not be empty")
	}

	unlock := s.locks.Lock(userID + "/" + problemSetID)
	defer unlock()

	existing, err := s.workbookRepo.GetByUserSet(ctx, userID, problemSetID)
	if err != nil {
		log.Error("failed to look up workbook schedule: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if existing != nil {
		return existing, nil
	}

	sched := scheduler.NewWorkbookSchedule(userID, problemSetID, s.now(), s.table)
	id, err := s.workbookRepo.Insert(ctx, sched)
	if err != nil {
		log.Error("failed to insert workbook schedule: %v", err)
		return nil, errors.NewInternalError(err)
	}
	sched.ID = id

	log.Info("enrolled workbook for review: problem_set_id=%s, schedule_id=%d", problemSetID, id)
	return &sched, nil
}

func (s *workbookService) ListSchedules(ctx context.Context, userID string, page, limit int) ([]models.WorkbookReviewSchedule, models.Pagination, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing workbook schedules: user_id=%s, page=%d", userID, page)

	schedules, err := s.workbookRepo.List(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		log.Error("failed to list workbook schedules: %v", err)
		return nil, models.Pagination{}, errors.NewInternalError(err)
	}
	total, err := s.workbookRepo.Count(ctx, userID)
	if err != nil {
		log.Error("failed to count workbook schedules: %v", err)
		return nil, models.Pagination{}, errors.NewInternalError(err)
	}

	return schedules, models.NewPagination(page, limit, total), nil
}

func (s *workbookService) CompleteSession(ctx context.Context, userID string, scheduleID int64, input CompleteSessionInput) (*SessionResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("completing workbook session: schedule_id=%d, success=%v", scheduleID, input.Success)

	if input.TimeSpentSeconds != nil && *input.TimeSpentSeconds < 0 {
		return nil, errors.NewValidationError("timeSpent", "must not be negative")
	}

	submissionID := input.SubmissionID
	if submissionID == "" {
		submissionID = uuid.NewString()
	}

	unlock := s.locks.Lock(fmt.Sprintf("%s/schedule/%d", userID, scheduleID))
	defer unlock()

	prior, err := s.eventRepo.GetBySubmissionID(ctx, userID, submissionID)
	if err != nil {
		log.Error("failed to check for duplicate submission: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if prior != nil {
		log.Info("duplicate session replayed: submission_id=%s", submissionID)
		return sessionResultFromEvent(*prior, true), nil
	}

	sched, err := s.workbookRepo.Get(ctx, scheduleID)
	if err != nil {
		log.Error("failed to load workbook schedule: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if sched == nil || sched.UserID != userID {
		return nil, errors.NewNotFoundError("workbook schedule", scheduleID)
	}

	now := s.now()
	next := scheduler.ApplySessionOutcome(*sched, input.Success, now, s.table)

	if err := s.workbookRepo.UpdateVersioned(ctx, next); err != nil {
		if err == repository.ErrVersionConflict {
			log.Warn("lost update race on schedule %d", scheduleID)
			return nil, errors.NewConflictError("workbook schedule", scheduleID)
		}
		log.Error("failed to update workbook schedule: %v", err)
		return nil, errors.NewInternalError(err)
	}

	nextDate := next.NextReviewDate
	event := models.ReviewCompletionEvent{
		SubmissionID:     submissionID,
		UserID:           userID,
		ScheduleID:       &sched.ID,
		ProblemSetID:     sched.ProblemSetID,
		Outcome:          models.OutcomeFromBool(input.Success),
		IsCorrect:        input.Success,
		TimeSpentSeconds: input.TimeSpentSeconds,
		PriorLevel:       models.MasteryLevel(sched.ReviewStage),
		NewLevel:         models.MasteryLevel(next.ReviewStage),
		NewScheduledDate: &nextDate,
		OccurredAt:       now,
		OccurredDay:      models.DayOf(now),
	}
	if _, err := s.eventRepo.Insert(ctx, event); err != nil {
		log.Error("failed to record session event: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("workbook session completed: schedule_id=%d, stage %d -> %d", scheduleID, sched.ReviewStage, next.ReviewStage)

	return &SessionResult{
		ScheduleID:     sched.ID,
		ProblemSetID:   sched.ProblemSetID,
		Success:        input.Success,
		PriorStage:     sched.ReviewStage,
		NewStage:       next.ReviewStage,
		NextReviewDate: next.NextReviewDate,
		Duplicate:      false,
	}, nil
}

// sessionResultFromEvent rebuilds a session response from its stored event.
// Workbook events reuse the level columns for stages.
func sessionResultFromEvent(e models.ReviewCompletionEvent, duplicate bool) *SessionResult {
	var scheduleID int64
	if e.ScheduleID != nil {
		scheduleID = *e.ScheduleID
	}
	var nextDate models.Day
	if e.NewScheduledDate != nil {
		nextDate = *e.NewScheduledDate
	}
	return &SessionResult{
		ScheduleID:     scheduleID,
		ProblemSetID:   e.ProblemSetID,
		Success:        e.IsCorrect,
		PriorStage:     int(e.PriorLevel),
		NewStage:       int(e.NewLevel),
		NextReviewDate: nextDate,
		Duplicate:      duplicate,
	}
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/studymate/reviewd/internal/errors"
	"github.com/studymate/reviewd/internal/jobs"
	"github.com/studymate/reviewd/internal/logger"
	"github.com/studymate/reviewd/internal/models"
	"github.com/studymate/reviewd/internal/repository"
	"github.com/studymate/reviewd/internal/scheduler"
)

// CompleteReviewInput carries the outcome a user reported for one review.
type CompleteReviewInput struct {
	SubmissionID        string
	IsCorrect           bool
	TimeSpentSeconds    *float64
	ConfidenceLevel     *int
	DifficultyPerceived *int
}

// ReviewResult is the state transition a completion produced. Replayed
// submissions return the result computed the first time, flagged Duplicate.
type ReviewResult struct {
	RecordID         int64               `json:"recordId"`
	ProblemID        string              `json:"problemId"`
	SubmissionID     string              `json:"submissionId"`
	IsCorrect        bool                `json:"isCorrect"`
	PriorLevel       models.MasteryLevel `json:"priorLevel"`
	NewLevel         models.MasteryLevel `json:"newLevel"`
	LevelChange      string              `json:"levelChange"`
	NewScheduledDate *models.Day         `json:"newScheduledDate"`
	Completed        bool                `json:"completed"`
	Duplicate        bool                `json:"duplicate"`
}

// QueueItem is one entry of the due or priority queue.
type QueueItem struct {
	RecordID           int64               `json:"recordId"`
	ProblemID          string              `json:"problemId"`
	MasteryLevel       models.MasteryLevel `json:"masteryLevel"`
	ScheduledDate      models.Day          `json:"scheduledDate"`
	OverdueDays        int                 `json:"overdueDays"`
	ConsecutiveCorrect int                 `json:"consecutiveCorrect"`
	TotalAttempts      int                 `json:"totalAttempts"`
	LastReviewedAt     *time.Time          `json:"lastReviewedAt"`
}

// ProgressSummary is the per-user overview for the progress endpoint.
type ProgressSummary struct {
	TodayTotal          int                        `json:"todayTotal"`
	MasteryDistribution models.MasteryDistribution `json:"masteryDistribution"`
	ReviewDate          models.Day                 `json:"reviewDate"`
}

// ReviewService handles review scheduling business logic
type ReviewService interface {
	EnsureState(ctx context.Context, userID, problemID string) (*models.MasteryState, error)
	CompleteReview(ctx context.Context, userID string, recordID int64, input CompleteReviewInput) (*ReviewResult, error)
	GetDueQueue(ctx context.Context, userID string, page, limit int) ([]QueueItem, models.Pagination, error)
	GetPriorityQueue(ctx context.Context, userID string, maxOverdueDays *int, page, limit int) ([]QueueItem, models.Pagination, error)
	GetProgress(ctx context.Context, userID string) (*ProgressSummary, error)
}

type reviewService struct {
	masteryRepo repository.MasteryRepository
	eventRepo   repository.EventRepository
	jobQueue    jobs.JobQueue
	table       scheduler.StageTable
	locks       *keyLock
	now         func() time.Time
}

// NewReviewService creates a new ReviewService
func NewReviewService(masteryRepo repository.MasteryRepository, eventRepo repository.EventRepository, jobQueue jobs.JobQueue) ReviewService {
	return &reviewService{
		masteryRepo: masteryRepo,
		eventRepo:   eventRepo,
		jobQueue:    jobQueue,
		table:       scheduler.DefaultItemTable(),
		locks:       newKeyLock(),
		now:         time.Now,
	}
}

func (s *reviewService) EnsureState(ctx context.Context, userID, problemID string) (*models.MasteryState, error) {
	log := logger.FromContext(ctx)
	log.Debug("ensuring mastery state: user_id=%s, problem_id=%s", userID, problemID)

	if problemID == "" {
		return nil, errors.NewValidationError("problemId", "must not be empty")
	}

	unlock := s.locks.Lock(userID + "/" + problemID)
	defer unlock()

	existing, err := s.masteryRepo.GetByUserProblem(ctx, userID, problemID)
	if err != nil {
		log.Error("failed to look up mastery state: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if existing != nil {
		return existing, nil
	}

	state := scheduler.NewMasteryState(userID, problemID, s.now(), s.table)
	id, err := s.masteryRepo.Insert(ctx, state)
	if err != nil {
		log.Error("failed to insert mastery state: %v", err)
		return nil, errors.NewInternalError(err)
	}
	state.ID = id

	log.Info("enrolled problem for review: problem_id=%s, record_id=%d", problemID, id)
	return &state, nil
}

func (s *reviewService) CompleteReview(ctx context.Context, userID string, recordID int64, input CompleteReviewInput) (*ReviewResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("completing review: record_id=%d, correct=%v", recordID, input.IsCorrect)

	if input.TimeSpentSeconds != nil && *input.TimeSpentSeconds < 0 {
		return nil, errors.NewValidationError("timeSpent", "must not be negative")
	}
	if input.ConfidenceLevel != nil && (*input.ConfidenceLevel < 1 || *input.ConfidenceLevel > 5) {
		return nil, errors.NewValidationError("confidenceLevel", "must be between 1 and 5")
	}
	if input.DifficultyPerceived != nil && (*input.DifficultyPerceived < 1 || *input.DifficultyPerceived > 5) {
		return nil, errors.NewValidationError("difficultyPerceived", "must be between 1 and 5")
	}

	submissionID := input.SubmissionID
	if submissionID == "" {
		submissionID = uuid.NewString()
	}

	unlock := s.locks.Lock(fmt.Sprintf("%s/record/%d", userID, recordID))
	defer unlock()

	prior, err := s.eventRepo.GetBySubmissionID(ctx, userID, submissionID)
	if err != nil {
		log.Error("failed to check for duplicate submission: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if prior != nil {
		log.Info("duplicate submission replayed: submission_id=%s", submissionID)
		return resultFromEvent(*prior, true), nil
	}

	state, err := s.masteryRepo.Get(ctx, recordID)
	if err != nil {
		log.Error("failed to load mastery state: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if state == nil || state.UserID != userID {
		return nil, errors.NewNotFoundError("review record", recordID)
	}
	if err := state.CheckInvariants(); err != nil {
		log.Error("stored mastery state violates invariants: %v", err)
		return nil, errors.NewInvariantError(err)
	}

	now := s.now()
	outcome := models.OutcomeFromBool(input.IsCorrect)
	next, change := scheduler.ApplyCompletion(*state, outcome, now, s.table)

	if err := s.masteryRepo.UpdateVersioned(ctx, next); err != nil {
		if err == repository.ErrVersionConflict {
			log.Warn("lost update race on record %d", recordID)
			return nil, errors.NewConflictError("review record", recordID)
		}
		log.Error("failed to update mastery state: %v", err)
		return nil, errors.NewInternalError(err)
	}

	event := models.ReviewCompletionEvent{
		SubmissionID:        submissionID,
		UserID:              userID,
		RecordID:            &state.ID,
		ProblemID:           state.ProblemID,
		Outcome:             outcome,
		IsCorrect:           input.IsCorrect,
		TimeSpentSeconds:    input.TimeSpentSeconds,
		ConfidenceLevel:     input.ConfidenceLevel,
		DifficultyPerceived: input.DifficultyPerceived,
		PriorLevel:          state.MasteryLevel,
		NewLevel:            next.MasteryLevel,
		NewScheduledDate:    next.ScheduledDate,
		OccurredAt:          now,
		OccurredDay:         models.DayOf(now),
	}
	if _, err := s.eventRepo.Insert(ctx, event); err != nil {
		log.Error("failed to record completion event: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if err := s.jobQueue.EnqueueStatsRecompute(userID, event.OccurredDay, event.OccurredDay); err != nil {
		// Stats are rebuilt from the event log, so a full queue only delays
		// the cache refresh.
		log.Warn("failed to enqueue stats recompute: %v", err)
	}

	log.Info("review completed: record_id=%d, %d -> %d (%s)", recordID, state.MasteryLevel, next.MasteryLevel, change)

	return &ReviewResult{
		RecordID:         state.ID,
		ProblemID:        state.ProblemID,
		SubmissionID:     submissionID,
		IsCorrect:        input.IsCorrect,
		PriorLevel:       state.MasteryLevel,
		NewLevel:         next.MasteryLevel,
		LevelChange:      change.String(),
		NewScheduledDate: next.ScheduledDate,
		Completed:        next.MasteryLevel.Completed(),
		Duplicate:        false,
	}, nil
}

// resultFromEvent rebuilds a completion's response from its stored event, so
// replays answer with the transition computed the first time even if the
// state has moved on since.
func resultFromEvent(e models.ReviewCompletionEvent, duplicate bool) *ReviewResult {
	var recordID int64
	if e.RecordID != nil {
		recordID = *e.RecordID
	}
	return &ReviewResult{
		RecordID:         recordID,
		ProblemID:        e.ProblemID,
		SubmissionID:     e.SubmissionID,
		IsCorrect:        e.IsCorrect,
		PriorLevel:       e.PriorLevel,
		NewLevel:         e.NewLevel,
		LevelChange:      e.Classify().String(),
		NewScheduledDate: e.NewScheduledDate,
		Completed:        e.NewLevel.Completed(),
		Duplicate:        duplicate,
	}
}

func (s *reviewService) GetDueQueue(ctx context.Context, userID string, page, limit int) ([]QueueItem, models.Pagination, error) {
	log := logger.FromContext(ctx)
	today := models.DayOf(s.now())
	log.Debug("getting due queue: user_id=%s, as_of=%s, page=%d", userID, today, page)

	f := repository.DueFilter{
		UserID: userID,
		AsOf:   today,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	states, err := s.masteryRepo.ListDue(ctx, f)
	if err != nil {
		log.Error("failed to list due items: %v", err)
		return nil, models.Pagination{}, errors.NewInternalError(err)
	}
	total, err := s.masteryRepo.CountDue(ctx, f)
	if err != nil {
		log.Error("failed to count due items: %v", err)
		return nil, models.Pagination{}, errors.NewInternalError(err)
	}

	return queueItems(states, today), models.NewPagination(page, limit, total), nil
}

func (s *reviewService) GetPriorityQueue(ctx context.Context, userID string, maxOverdueDays *int, page, limit int) ([]QueueItem, models.Pagination, error) {
	log := logger.FromContext(ctx)

	if maxOverdueDays != nil && *maxOverdueDays < 0 {
		return nil, models.Pagination{}, errors.NewValidationError("maxOverdueDays", "must not be negative")
	}

	today := models.DayOf(s.now())
	log.Debug("getting priority queue: user_id=%s, as_of=%s, page=%d", userID, today, page)

	f := repository.DueFilter{
		UserID:         userID,
		AsOf:           today,
		MaxOverdueDays: maxOverdueDays,
		Limit:          limit,
		Offset:         (page - 1) * limit,
	}

	states, err := s.masteryRepo.ListByPriority(ctx, f)
	if err != nil {
		log.Error("failed to list priority queue: %v", err)
		return nil, models.Pagination{}, errors.NewInternalError(err)
	}
	total, err := s.masteryRepo.CountDue(ctx, f)
	if err != nil {
		log.Error("failed to count priority queue: %v", err)
		return nil, models.Pagination{}, errors.NewInternalError(err)
	}

	return queueItems(states, today), models.NewPagination(page, limit, total), nil
}

func (s *reviewService) GetProgress(ctx context.Context, userID string) (*ProgressSummary, error) {
	log := logger.FromContext(ctx)
	today := models.DayOf(s.now())
	log.Debug("getting progress: user_id=%s, as_of=%s", userID, today)

	total, err := s.masteryRepo.CountDue(ctx, repository.DueFilter{UserID: userID, AsOf: today})
	if err != nil {
		log.Error("failed to count due items: %v", err)
		return nil, errors.NewInternalError(err)
	}

	dist, err := s.masteryRepo.Distribution(ctx, userID)
	if err != nil {
		log.Error("failed to load mastery distribution: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return &ProgressSummary{
		TodayTotal:          total,
		MasteryDistribution: *dist,
		ReviewDate:          today,
	}, nil
}

func queueItems(states []models.MasteryState, asOf models.Day) []QueueItem {
	items := make([]QueueItem, 0, len(states))
	for _, st := range states {
		var scheduled models.Day
		if st.ScheduledDate != nil {
			scheduled = *st.ScheduledDate
		}
		items = append(items, QueueItem{
			RecordID:           st.ID,
			ProblemID:          st.ProblemID,
			MasteryLevel:       st.MasteryLevel,
			ScheduledDate:      scheduled,
			OverdueDays:        st.OverdueDays(asOf),
			ConsecutiveCorrect: st.ConsecutiveCorrect,
			TotalAttempts:      st.TotalAttempts,
			LastReviewedAt:     st.LastReviewedAt,
		})
	}
	return items
}

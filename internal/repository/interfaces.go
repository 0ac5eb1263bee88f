package repository

import (
	"context"
	"errors"

	"github.com/studymate/reviewd/internal/models"
)

// ErrVersionConflict is returned by versioned updates when the stored row no
// longer carries the version the caller read. The caller lost a write race
// and should retry its read-modify-write cycle.
var ErrVersionConflict = errors.New("version conflict")

// DueFilter selects and pages a user's due mastery states.
type DueFilter struct {
	UserID string
	AsOf   models.Day
	// MaxOverdueDays, when set, excludes items more than that many days past
	// due. Nil means no cap.
	MaxOverdueDays *int
	Limit          int
	Offset         int
}

// MasteryRepository handles mastery state data access.
type MasteryRepository interface {
	Get(ctx context.Context, id int64) (*models.MasteryState, error)
	GetByUserProblem(ctx context.Context, userID, problemID string) (*models.MasteryState, error)
	Insert(ctx context.Context, state models.MasteryState) (int64, error)
	// UpdateVersioned persists state only if the stored row still carries
	// state.Version; on success the stored version is incremented. Returns
	// ErrVersionConflict when the row changed underneath the caller.
	UpdateVersioned(ctx context.Context, state models.MasteryState) error
	// ListDue returns non-completed states due as of the filter day, ordered
	// by scheduled date then problem ID for stable pagination.
	ListDue(ctx context.Context, f DueFilter) ([]models.MasteryState, error)
	CountDue(ctx context.Context, f DueFilter) (int, error)
	// ListByPriority orders due states by overdue days descending, then
	// mastery level ascending, then problem ID.
	ListByPriority(ctx context.Context, f DueFilter) ([]models.MasteryState, error)
	Distribution(ctx context.Context, userID string) (*models.MasteryDistribution, error)
}

// WorkbookRepository handles workbook schedule data access.
type WorkbookRepository interface {
	Get(ctx context.Context, id int64) (*models.WorkbookReviewSchedule, error)
	GetByUserSet(ctx context.Context, userID, problemSetID string) (*models.WorkbookReviewSchedule, error)
	Insert(ctx context.Context, s models.WorkbookReviewSchedule) (int64, error)
	UpdateVersioned(ctx context.Context, s models.WorkbookReviewSchedule) error
	List(ctx context.Context, userID string, limit, offset int) ([]models.WorkbookReviewSchedule, error)
	Count(ctx context.Context, userID string) (int, error)
}

// EventRepository is the append-only completion event log plus the
// idempotency lookup over it.
type EventRepository interface {
	Insert(ctx context.Context, e models.ReviewCompletionEvent) (int64, error)
	GetBySubmissionID(ctx context.Context, userID, submissionID string) (*models.ReviewCompletionEvent, error)
	// ListByDayRange returns the user's events with occurred_day in
	// [from, to] inclusive, ordered by occurrence.
	ListByDayRange(ctx context.Context, userID string, from, to models.Day) ([]models.ReviewCompletionEvent, error)
}

// StatsRepository handles the derived daily stats cache.
type StatsRepository interface {
	UpsertDaily(ctx context.Context, userID string, stats models.DailyStats) error
	// GetDaily returns nil when no cached row exists for the day.
	GetDaily(ctx context.Context, userID string, day models.Day) (*models.DailyStats, error)
}

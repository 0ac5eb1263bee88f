package scheduler

import (
	"time"

	"github.com/studymate/reviewd/internal/models"
)

// NewWorkbookSchedule is the lazily-created schedule for a problem set's
// first exposure to a user: stage 0, due the same day.
func NewWorkbookSchedule(userID, problemSetID string, now time.Time, table StageTable) models.WorkbookReviewSchedule {
	return models.WorkbookReviewSchedule{
		UserID:            userID,
		ProblemSetID:      problemSetID,
		ReviewStage:       0,
		NextReviewDate:    models.DayOf(now),
		StageTableVersion: table.Version(),
		Version:           1,
		CreatedAt:         now,
	}
}

// ApplySessionOutcome applies one end-to-end pass through a problem set to
// its schedule. Unlike the item-level tracker this reacts to a single session
// outcome, not to each answer: success means the whole set was attempted with
// zero incorrect answers; a single incorrect answer anywhere fails the pass.
// Abandoning mid-set produces no call at all, so partial completion neither
// advances nor regresses the stage.
//
// There is no terminal stage; past the table's end the last interval repeats.
func ApplySessionOutcome(s models.WorkbookReviewSchedule, success bool, now time.Time, table StageTable) models.WorkbookReviewSchedule {
	prog := Progression{Table: table}

	s.ReviewStage = prog.Next(s.ReviewStage, success)
	s.NextReviewDate = models.DayOf(now).AddDays(table.IntervalDays(s.ReviewStage))
	s.TotalAttempts++
	reviewedAt := now
	s.LastReviewedAt = &reviewedAt
	s.StageTableVersion = table.Version()
	return s
}

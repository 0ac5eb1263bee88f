package scheduler

import (
	"time"

	"github.com/studymate/reviewd/internal/models"
)

// NewMasteryState is the lazily-created record for a problem's first exposure
// to a user: stage 0, due the same day.
func NewMasteryState(userID, problemID string, now time.Time, table StageTable) models.MasteryState {
	today := models.DayOf(now)
	return models.MasteryState{
		UserID:            userID,
		ProblemID:         problemID,
		MasteryLevel:      models.Level0,
		ScheduledDate:     &today,
		StageTableVersion: table.Version(),
		Version:           1,
		CreatedAt:         now,
	}
}

// ApplyCompletion applies one graded review to a mastery state and returns
// the next state plus the level-change classification. Pure: persistence and
// per-key serialization are the caller's concern.
//
// A correct answer advances one stage, reaching the terminal completed state
// after stage 3. An incorrect answer regresses one stage with a floor at 0;
// an incorrect answer on a completed item re-enters stage 3 and schedules
// from its interval, so a mastered item that fails never stays mastered.
func ApplyCompletion(state models.MasteryState, outcome models.ReviewOutcome, now time.Time, table StageTable) (models.MasteryState, models.LevelChange) {
	prog := Progression{Table: table, Terminal: true}

	prior := int(state.MasteryLevel)
	next := prog.Next(prior, outcome.Correct())

	state.MasteryLevel = models.MasteryLevel(next)
	if prog.Completed(next) {
		state.ScheduledDate = nil
	} else {
		due := models.DayOf(now).AddDays(table.IntervalDays(next))
		state.ScheduledDate = &due
	}

	if outcome.Correct() {
		state.ConsecutiveCorrect++
	} else {
		state.ConsecutiveCorrect = 0
	}
	state.TotalAttempts++
	reviewedAt := now
	state.LastReviewedAt = &reviewedAt
	state.StageTableVersion = table.Version()

	switch {
	case next > prior:
		return state, models.LevelIncreased
	case next < prior:
		return state, models.LevelDecreased
	default:
		return state, models.LevelUnchanged
	}
}

package models

import "time"

// ReviewCompletionEvent is one applied review, appended to the event log.
// Daily and range statistics are recomputed from these rows alone, and the
// (UserID, SubmissionID) pair is the idempotency key for completion calls.
type ReviewCompletionEvent struct {
	ID                  int64         `json:"id"`
	SubmissionID        string        `json:"submissionId"`
	UserID              string        `json:"userId"`
	RecordID            *int64        `json:"recordId,omitempty"`
	ScheduleID          *int64        `json:"scheduleId,omitempty"`
	ProblemID           string        `json:"problemId,omitempty"`
	ProblemSetID        string        `json:"problemSetId,omitempty"`
	Outcome             ReviewOutcome `json:"-"`
	IsCorrect           bool          `json:"isCorrect"`
	TimeSpentSeconds    *float64      `json:"timeSpent,omitempty"`
	ConfidenceLevel     *int          `json:"confidenceLevel,omitempty"`
	DifficultyPerceived *int          `json:"difficultyPerceived,omitempty"`
	PriorLevel          MasteryLevel  `json:"priorLevel"`
	NewLevel            MasteryLevel  `json:"newLevel"`
	NewScheduledDate    *Day          `json:"newScheduledDate"`
	OccurredAt          time.Time     `json:"occurredAt"`
	OccurredDay         Day           `json:"occurredDay"`
}

// Classify reports the mastery-level effect of the event, derived purely from
// the prior level and outcome so past days stay recomputable. A correct
// answer on an already-completed state counts as unchanged; an incorrect
// answer at the floor likewise.
func (e ReviewCompletionEvent) Classify() LevelChange {
	if e.Outcome.Correct() {
		if e.PriorLevel.Completed() {
			return LevelUnchanged
		}
		return LevelIncreased
	}
	if e.PriorLevel > Level0 {
		return LevelDecreased
	}
	return LevelUnchanged
}

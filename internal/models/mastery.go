package models

import (
	"fmt"
	"time"
)

// MasteryLevel is the discrete progress stage for one user's relationship to
// one problem. Levels 0-3 are active review stages; LevelCompleted is the
// terminal mastered state with no further scheduling.
type MasteryLevel int

const (
	Level0 MasteryLevel = iota
	Level1
	Level2
	Level3
	LevelCompleted
)

// Valid reports whether l is a representable mastery level. States read from
// storage with a level outside this range indicate a corrupted write path and
// must be surfaced, never clamped.
func (l MasteryLevel) Valid() bool {
	return l >= Level0 && l <= LevelCompleted
}

// Completed reports whether l is the terminal mastered stage.
func (l MasteryLevel) Completed() bool {
	return l == LevelCompleted
}

// ReviewOutcome is the graded result of a single review exposure.
type ReviewOutcome int

const (
	OutcomeIncorrect ReviewOutcome = iota
	OutcomeCorrect
)

// OutcomeFromBool maps the wire-level isCorrect flag to a ReviewOutcome.
func OutcomeFromBool(isCorrect bool) ReviewOutcome {
	if isCorrect {
		return OutcomeCorrect
	}
	return OutcomeIncorrect
}

func (o ReviewOutcome) Correct() bool { return o == OutcomeCorrect }

func (o ReviewOutcome) String() string {
	if o == OutcomeCorrect {
		return "correct"
	}
	return "incorrect"
}

// LevelChange classifies the effect of one applied review on the mastery
// level, for daily stats rollups.
type LevelChange int

const (
	LevelUnchanged LevelChange = iota
	LevelIncreased
	LevelDecreased
)

func (c LevelChange) String() string {
	switch c {
	case LevelIncreased:
		return "increased"
	case LevelDecreased:
		return "decreased"
	default:
		return "unchanged"
	}
}

// MasteryState is the per-(user, problem) scheduling record. ScheduledDate is
// nil exactly when MasteryLevel is completed.
type MasteryState struct {
	ID                 int64        `json:"id"`
	UserID             string       `json:"userId"`
	ProblemID          string       `json:"problemId"`
	MasteryLevel       MasteryLevel `json:"masteryLevel"`
	ScheduledDate      *Day         `json:"scheduledDate"`
	ConsecutiveCorrect int          `json:"consecutiveCorrect"`
	TotalAttempts      int          `json:"totalAttempts"`
	LastReviewedAt     *time.Time   `json:"lastReviewedAt"`
	StageTableVersion  string       `json:"stageTableVersion"`
	Version            int64        `json:"-"`
	CreatedAt          time.Time    `json:"createdAt"`
}

// CheckInvariants verifies the representation invariants of s: level within
// [0,4] and scheduledDate present iff not completed.
func (s MasteryState) CheckInvariants() error {
	if !s.MasteryLevel.Valid() {
		return fmt.Errorf("mastery level %d outside [0,4] for user=%s problem=%s", s.MasteryLevel, s.UserID, s.ProblemID)
	}
	if s.MasteryLevel.Completed() && s.ScheduledDate != nil {
		return fmt.Errorf("completed state has scheduled date for user=%s problem=%s", s.UserID, s.ProblemID)
	}
	if !s.MasteryLevel.Completed() && s.ScheduledDate == nil {
		return fmt.Errorf("active state missing scheduled date for user=%s problem=%s", s.UserID, s.ProblemID)
	}
	return nil
}

// OverdueDays returns how many days past due s is as of the given day.
// Never negative; completed states are never overdue.
func (s MasteryState) OverdueDays(asOf Day) int {
	if s.ScheduledDate == nil {
		return 0
	}
	d := asOf.DaysSince(*s.ScheduledDate)
	if d < 0 {
		return 0
	}
	return d
}

// MasteryDistribution counts a user's states per mastery level, for the
// progress view.
type MasteryDistribution struct {
	Level0    int `json:"level0"`
	Level1    int `json:"level1"`
	Level2    int `json:"level2"`
	Level3    int `json:"level3"`
	Completed int `json:"completed"`
}

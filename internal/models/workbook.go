package models

import "time"

// WorkbookReviewSchedule is the per-(user, problem set) scheduling record.
// Unlike MasteryState there is no terminal completed stage: the set keeps
// spacing indefinitely at the table's last interval, and the stage advances
// only on a full error-free pass through the set.
type WorkbookReviewSchedule struct {
	ID                int64      `json:"id"`
	UserID            string     `json:"userId"`
	ProblemSetID      string     `json:"problemSetId"`
	ReviewStage       int        `json:"reviewStage"`
	NextReviewDate    Day        `json:"nextReviewDate"`
	TotalAttempts     int        `json:"totalAttempts"`
	LastReviewedAt    *time.Time `json:"lastReviewedAt"`
	StageTableVersion string     `json:"stageTableVersion"`
	Version           int64      `json:"-"`
	CreatedAt         time.Time  `json:"createdAt"`
}

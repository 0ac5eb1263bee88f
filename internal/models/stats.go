package models

// LevelChangeCounts tallies mastery-level transitions for a set of reviews.
type LevelChangeCounts struct {
	Increased int `json:"increased"`
	Decreased int `json:"decreased"`
	Unchanged int `json:"unchanged"`
}

// DailyStats summarizes one user's completed reviews for one calendar day.
// Purely derived from the event log; never a source of truth.
type DailyStats struct {
	Date                  Day               `json:"date"`
	TotalReviewsCompleted int               `json:"totalReviewsCompleted"`
	CorrectAnswers        int               `json:"correctAnswers"`
	IncorrectAnswers      int               `json:"incorrectAnswers"`
	AverageTimeSpent      float64           `json:"averageTimeSpent"`
	MasteryLevelChanges   LevelChangeCounts `json:"masteryLevelChanges"`
}

// EfficiencyReport aggregates DailyStats across an inclusive date range.
type EfficiencyReport struct {
	StartDate           Day               `json:"startDate"`
	EndDate             Day               `json:"endDate"`
	TotalReviews        int               `json:"totalReviews"`
	CorrectAnswers      int               `json:"correctAnswers"`
	IncorrectAnswers    int               `json:"incorrectAnswers"`
	Accuracy            float64           `json:"accuracy"`
	AverageTimeSpent    float64           `json:"averageTimeSpent"`
	ActiveDays          int               `json:"activeDays"`
	MasteryLevelChanges LevelChangeCounts `json:"masteryLevelChanges"`
	DailyBreakdown      []DailyStats      `json:"dailyBreakdown"`
}

package scheduler

import "fmt"

// StageTable is a fixed, versioned mapping from review stage to interval in
// days. The version tag travels with every state a table schedules, so a
// later spacing-policy change cannot silently reinterpret historical dates.
type StageTable struct {
	version   string
	intervals []int
}

// NewStageTable builds a table from an ordered interval sequence. Panics on
// an empty sequence or non-positive interval; tables are package-level
// constants built at init, not runtime inputs.
func NewStageTable(version string, intervals []int) StageTable {
	if version == "" {
		panic("scheduler: stage table requires a version tag")
	}
	if len(intervals) == 0 {
		panic("scheduler: stage table requires at least one interval")
	}
	for i, d := range intervals {
		if d <= 0 {
			panic(fmt.Sprintf("scheduler: stage %d has non-positive interval %d", i, d))
		}
	}
	cp := make([]int, len(intervals))
	copy(cp, intervals)
	return StageTable{version: version, intervals: cp}
}

// DefaultItemTable is the item-level spacing policy: 1, 3, 7, 14 days for
// stages 0-3, with stage 4 terminal (completed, no interval).
func DefaultItemTable() StageTable {
	return NewStageTable("v1", []int{1, 3, 7, 14})
}

// DefaultWorkbookTable is the set-level spacing policy. Coarser and longer
// than the item table; stages past the end repeat the last interval.
func DefaultWorkbookTable() StageTable {
	return NewStageTable("wb-v1", []int{3, 7, 14, 30, 60})
}

// Version returns the table's policy version tag.
func (t StageTable) Version() string { return t.version }

// Stages returns the number of stages that carry an interval.
func (t StageTable) Stages() int { return len(t.intervals) }

// IntervalDays returns the review interval for stage. Stages beyond the
// table's length use the last interval. Callers must not ask for a terminal
// stage's interval; a negative stage is a programming error.
func (t StageTable) IntervalDays(stage int) int {
	if stage < 0 {
		panic(fmt.Sprintf("scheduler: negative stage %d", stage))
	}
	if stage >= len(t.intervals) {
		return t.intervals[len(t.intervals)-1]
	}
	return t.intervals[stage]
}

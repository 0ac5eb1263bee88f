package scheduler

// Progression is the staged transition rule shared by the item-level and
// workbook-level schedulers: success moves one stage up, failure one stage
// down with a floor at 0. The two schedulers differ only in their stage
// table and in whether the stage past the table's end is terminal.
//
// Keeping the rule in one place prevents the two copies from drifting apart.
type Progression struct {
	Table StageTable
	// Terminal marks the stage just past the table's end as a completed
	// state with no further scheduling. The workbook scheduler leaves this
	// false and spaces indefinitely at the last interval.
	Terminal bool
}

// Next computes the stage after one graded exposure.
func (p Progression) Next(stage int, success bool) int {
	if success {
		next := stage + 1
		if p.Terminal && next > p.Table.Stages() {
			next = p.Table.Stages()
		}
		return next
	}
	next := stage - 1
	if next < 0 {
		next = 0
	}
	// Failure out of the terminal stage re-enters the last scheduled stage.
	if p.Terminal && next >= p.Table.Stages() {
		next = p.Table.Stages() - 1
	}
	return next
}

// Completed reports whether stage is the terminal completed stage under p.
func (p Progression) Completed(stage int) bool {
	return p.Terminal && stage >= p.Table.Stages()
}

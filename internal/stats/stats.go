// Package stats computes the dashboard summary figures from materialized
// task snapshots. All figures are integer minutes; missing actuals count
// as zero and an empty input yields zero everywhere.
package stats

// TaskSnapshot is the slice of a task the summary needs. ActualMins nil
// means no time has been logged against the task yet.
type TaskSnapshot struct {
	ExpectedMins int
	ActualMins   *int
	Completed    bool
}

// SummaryStats exposes the four dashboard statistics over a fixed set of
// tasks. It never mutates the snapshots it was given.
type SummaryStats struct {
	tasks []TaskSnapshot
}

func NewSummaryStats(tasks []TaskSnapshot) SummaryStats {
	return SummaryStats{tasks: tasks}
}

// InitialEstimatedTime is the sum of the original estimates.
func (s SummaryStats) InitialEstimatedTime() int {
	total := 0
	for _, t := range s.tasks {
		total += t.ExpectedMins
	}
	return total
}

// ActualTime is the sum of logged minutes.
func (s SummaryStats) ActualTime() int {
	total := 0
	for _, t := range s.tasks {
		if t.ActualMins != nil {
			total += *t.ActualMins
		}
	}
	return total
}

// blendedMins is a task's contribution to the blended totals: the
// estimate until logged time overtakes it, the logged minutes from then
// on. A task logged at exactly its estimate counts as started and
// contributes its actual minutes.
func blendedMins(t TaskSnapshot) int {
	if t.ActualMins == nil || *t.ActualMins < t.ExpectedMins {
		return t.ExpectedMins
	}
	return *t.ActualMins
}

// CurrentEstimatedTime blends estimates with reality: a task that ran
// over its estimate counts at its logged minutes, every other task at
// its estimate.
func (s SummaryStats) CurrentEstimatedTime() int {
	total := 0
	for _, t := range s.tasks {
		total += blendedMins(t)
	}
	return total
}

// UnfinishedTime is the blended estimate restricted to incomplete tasks.
func (s SummaryStats) UnfinishedTime() int {
	total := 0
	for _, t := range s.tasks {
		if t.Completed {
			continue
		}
		total += blendedMins(t)
	}
	return total
}

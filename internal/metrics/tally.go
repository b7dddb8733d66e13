package metrics

import "sync/atomic"

// Tally counts one run's rows and skips and forwards every call to next.
// It is safe for concurrent use by extraction workers.
type Tally struct {
	next    Recorder
	shots   atomic.Int64
	skipped atomic.Int64
}

// NewTally wraps next; a nil next is treated as Nop.
func NewTally(next Recorder) *Tally {
	if next == nil {
		next = Nop{}
	}
	return &Tally{next: next}
}

func (t *Tally) ShotEmitted(season int, goal bool) {
	t.shots.Add(1)
	t.next.ShotEmitted(season, goal)
}

func (t *Tally) EventSkipped(season int, reason string) {
	t.skipped.Add(1)
	t.next.EventSkipped(season, reason)
}

func (t *Tally) GameProcessed(season int) { t.next.GameProcessed(season) }

func (t *Tally) SeasonDuration(season int, seconds float64) {
	t.next.SeasonDuration(season, seconds)
}

// Shots returns the rows emitted so far.
func (t *Tally) Shots() int { return int(t.shots.Load()) }

// Skipped returns the shot attempts skipped so far.
func (t *Tally) Skipped() int { return int(t.skipped.Load()) }

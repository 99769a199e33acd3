package globe

import (
	"time"
)

// Clock supplies the current time to everything that animates
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time {
	return time.Now()
}

// ManualClock only moves when told to. It drives frame steps in tests and
// replays without depending on real frame delivery.
type ManualClock struct {
	now time.Time
}

// NewManualClock creates a clock stopped at start
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current manual time
func (c *ManualClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward
func (c *ManualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// Scheduler runs per-frame tasks with the time read from its clock.
// Each tick re-reads the clock, so a late tick never replays missed frames.
type Scheduler struct {
	clock Clock
	tasks []func(now time.Time) bool
}

// NewScheduler creates a scheduler on the given clock
func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scheduler{clock: clock}
}

// Add registers a task. A task returns true when it changed something
// that needs redrawing.
func (s *Scheduler) Add(task func(now time.Time) bool) {
	s.tasks = append(s.tasks, task)
}

// Tick runs every task once and reports whether any of them asked for a redraw
func (s *Scheduler) Tick() bool {
	now := s.clock.Now()
	dirty := false
	for _, task := range s.tasks {
		if task(now) {
			dirty = true
		}
	}
	return dirty
}

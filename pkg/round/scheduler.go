package round

import (
	"sync"
	"time"

	"github.com/coder/quartz"
)

// Scheduler owns the single phase timer a round is allowed to hold.
//
// Schedule stops any pending timer before arming the next one, and Cancel
// invalidates anything already in flight, so a timer belonging to a phase the
// round has since left can never act. When a timer fires, its callback is
// handed to dispatch, which must run it on the same serialized loop that
// handles player actions. There is one code path for state mutation, whether
// the trigger was a player or the clock.
type Scheduler struct {
	clock    quartz.Clock
	dispatch func(func())

	mu    sync.Mutex
	timer *quartz.Timer
	gen   uint64
}

// NewScheduler returns a Scheduler firing through the given dispatch func
func NewScheduler(clock quartz.Clock, dispatch func(func())) *Scheduler {
	return &Scheduler{
		clock:    clock,
		dispatch: dispatch,
	}
}

// Schedule arms the phase timer, replacing any pending one
func (s *Scheduler) Schedule(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}

	s.gen++
	gen := s.gen

	s.timer = s.clock.AfterFunc(d, func() {
		s.dispatch(func() {
			if !s.claim(gen) {
				// the phase this timer belonged to has already ended
				return
			}

			fn()
		})
	})
}

// Cancel stops the pending phase timer, if any
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	s.gen++
}

// Pending returns true if a phase timer is armed
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.timer != nil
}

// claim reports whether a fire with the given generation is still current.
// A fire can lose the race with Stop and still be delivered; the generation
// check drops it inside the serialized dispatch.
func (s *Scheduler) claim(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return false
	}

	s.timer = nil
	return true
}

package round

import (
	"fmt"
	"time"
)

// InvalidTransitionError is returned when a transition is not in the edge table
type InvalidTransitionError struct {
	From Phase
	To   Phase
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

// DefaultEdges is the transition table shared by the ante-style games.
// SettlementDisplay loops back to Setup when enough players remain.
func DefaultEdges() map[Phase][]Phase {
	return map[Phase][]Phase{
		PhaseLobby:             {PhaseSetup, PhaseEnd},
		PhaseSetup:             {PhaseDecision, PhaseEnd},
		PhaseDecision:          {PhaseResolution, PhaseEnd},
		PhaseResolution:        {PhaseSettlementDisplay},
		PhaseSettlementDisplay: {PhaseSetup, PhaseEnd},
	}
}

// Machine tracks the current phase of a round and enforces its transition
// table. It is not safe for concurrent use; every call must come from the
// round's serialized run loop.
type Machine struct {
	phase   Phase
	edges   map[Phase][]Phase
	sched   *Scheduler
	onEnter func(from, to Phase)
}

// NewMachine returns a Machine starting in the given phase.
// onEnter may be nil; when set it runs after every successful transition.
func NewMachine(start Phase, edges map[Phase][]Phase, sched *Scheduler, onEnter func(from, to Phase)) *Machine {
	return &Machine{
		phase:   start,
		edges:   edges,
		sched:   sched,
		onEnter: onEnter,
	}
}

// Phase returns the current phase
func (m *Machine) Phase() Phase {
	return m.phase
}

// Scheduler returns the round's phase timer
func (m *Machine) Scheduler() *Scheduler {
	return m.sched
}

// Transition moves to the next phase. The pending phase timer is always
// cancelled first, even when the transition was itself timer-driven.
func (m *Machine) Transition(to Phase) error {
	if !m.canTransition(to) {
		return InvalidTransitionError{From: m.phase, To: to}
	}

	m.sched.Cancel()

	from := m.phase
	m.phase = to

	if m.onEnter != nil {
		m.onEnter(from, to)
	}

	return nil
}

// TransitionAfter schedules a transition, replacing any pending timer.
// An edge that has become invalid by fire time is dropped silently; the round
// moved on for another reason.
func (m *Machine) TransitionAfter(d time.Duration, to Phase) {
	m.sched.Schedule(d, func() {
		if !m.canTransition(to) {
			return
		}

		_ = m.Transition(to)
	})
}

func (m *Machine) canTransition(to Phase) bool {
	for _, edge := range m.edges[m.phase] {
		if edge == to {
			return true
		}
	}

	return false
}

package wizard

import (
	"context"
	"fmt"
)

// GuardFunc evaluates whether a transition should be allowed
type GuardFunc func(ctx context.Context) bool

// TransitionFunc observes a completed transition. It runs after the new
// state is already current, so an observer switching step visibility
// sees a single atomic change: the old step is gone, the new one active.
type TransitionFunc func(from, to State)

// Machine tracks the current wizard step and validates transitions.
// Only the controller mutates it; presentation layers observe.
type Machine interface {
	// State returns the current step
	State() State

	// CanFire returns true if the trigger is permitted in the current state
	CanFire(trigger Trigger) bool

	// Fire executes the trigger, moving to the target state if allowed
	Fire(ctx context.Context, trigger Trigger) error

	// PermittedTriggers returns the triggers that can fire right now
	PermittedTriggers() []Trigger
}

type transition struct {
	target State
	guard  GuardFunc
}

type machine struct {
	current      State
	transitions  map[State]map[Trigger][]transition
	onTransition TransitionFunc
}

// State returns the current step
func (m *machine) State() State {
	return m.current
}

// CanFire returns true if at least one transition is configured for the
// trigger in the current state. Guards are not evaluated here.
func (m *machine) CanFire(trigger Trigger) bool {
	return len(m.transitions[m.current][trigger]) > 0
}

// Fire executes the trigger, trying configured transitions in order
// until one's guard passes.
func (m *machine) Fire(ctx context.Context, trigger Trigger) error {
	candidates := m.transitions[m.current][trigger]
	if len(candidates) == 0 {
		return fmt.Errorf("%w: cannot fire %s from %s", ErrInvalidTransition, trigger, m.current)
	}

	for _, t := range candidates {
		if t.guard != nil && !t.guard(ctx) {
			continue
		}
		from := m.current
		m.current = t.target
		if m.onTransition != nil {
			m.onTransition(from, t.target)
		}
		return nil
	}

	return fmt.Errorf("%w: trigger %s from %s", ErrGuardFailed, trigger, m.current)
}

// PermittedTriggers returns the triggers configured for the current state
func (m *machine) PermittedTriggers() []Trigger {
	configured := m.transitions[m.current]
	triggers := make([]Trigger, 0, len(configured))
	for trigger := range configured {
		triggers = append(triggers, trigger)
	}
	return triggers
}

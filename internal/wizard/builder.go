package wizard

import "fmt"

// Builder configures wizard transitions and builds machine instances.
// Machines built from one builder are independent of each other.
type Builder struct {
	transitions map[State]map[Trigger][]transition
}

// StateConfig configures the transitions leaving one state
type StateConfig struct {
	builder *Builder
	from    State
}

// NewBuilder creates an empty machine builder
func NewBuilder() *Builder {
	return &Builder{
		transitions: make(map[State]map[Trigger][]transition),
	}
}

// Configure returns the configuration for the given state
func (b *Builder) Configure(state State) StateConfig {
	if !state.IsValid() {
		panic(fmt.Sprintf("invalid state: %s", state))
	}
	if b.transitions[state] == nil {
		b.transitions[state] = make(map[Trigger][]transition)
	}
	return StateConfig{builder: b, from: state}
}

// Permit allows a trigger to move to the target state
func (c StateConfig) Permit(trigger Trigger, target State) StateConfig {
	return c.PermitIf(trigger, target, nil)
}

// PermitIf allows a trigger to move to the target state when the guard passes
func (c StateConfig) PermitIf(trigger Trigger, target State, guard GuardFunc) StateConfig {
	if !target.IsValid() {
		panic(fmt.Sprintf("invalid target state: %s", target))
	}
	byTrigger := c.builder.transitions[c.from]
	byTrigger[trigger] = append(byTrigger[trigger], transition{target: target, guard: guard})
	return c
}

// Build creates a machine at the given initial state. The optional
// observer is notified after every completed transition.
func (b *Builder) Build(initial State, onTransition TransitionFunc) Machine {
	if !initial.IsValid() {
		panic(fmt.Sprintf("invalid initial state: %s", initial))
	}

	// Copy the configuration so later builder changes cannot leak into
	// built machines.
	copied := make(map[State]map[Trigger][]transition, len(b.transitions))
	for state, byTrigger := range b.transitions {
		copied[state] = make(map[Trigger][]transition, len(byTrigger))
		for trigger, ts := range byTrigger {
			copied[state][trigger] = append([]transition(nil), ts...)
		}
	}

	return &machine{
		current:      initial,
		transitions:  copied,
		onTransition: onTransition,
	}
}

// NewStepMachine builds the upload wizard's step machine:
//
//	upload --dispatch--> processing
//	processing --review ready--> review
//	processing --dispatch failed--> upload
//	review --approve--> success
//	review --go back--> upload
func NewStepMachine(onTransition TransitionFunc) Machine {
	b := NewBuilder()

	b.Configure(StateUpload).
		Permit(TriggerDispatch, StateProcessing)

	b.Configure(StateProcessing).
		Permit(TriggerReviewReady, StateReview).
		Permit(TriggerDispatchFailed, StateUpload)

	b.Configure(StateReview).
		Permit(TriggerApprove, StateSuccess).
		Permit(TriggerGoBack, StateUpload)

	return b.Build(StateUpload, onTransition)
}

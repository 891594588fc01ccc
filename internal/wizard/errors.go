package wizard

import "errors"

var (
	// ErrInvalidTransition is returned when a trigger is not permitted
	// in the current state
	ErrInvalidTransition = errors.New("invalid wizard transition")

	// ErrGuardFailed is returned when every candidate transition for a
	// trigger had a failing guard
	ErrGuardFailed = errors.New("guard condition failed")
)

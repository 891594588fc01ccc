package wizard

// State represents a visible step of the upload wizard.
// Exactly one state is active at any time.
type State string

const (
	StateUpload     State = "UPLOAD"
	StateProcessing State = "PROCESSING"
	StateReview     State = "REVIEW"
	StateSuccess    State = "SUCCESS"
)

var validStates = map[State]bool{
	StateUpload:     true,
	StateProcessing: true,
	StateReview:     true,
	StateSuccess:    true,
}

// Success is the only step with no way forward; a new session starts
// over at upload.
var terminalStates = map[State]bool{
	StateSuccess: true,
}

// IsTerminal returns true if no further transitions leave the state
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// IsValid returns true if the state is a known wizard step
func (s State) IsValid() bool {
	return validStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

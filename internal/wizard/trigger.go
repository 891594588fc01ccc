package wizard

// Trigger is an event that can advance the wizard
type Trigger string

const (
	// TriggerDispatch fires when the first accepted candidate starts uploading
	TriggerDispatch Trigger = "DISPATCH"

	// TriggerReviewReady fires when at least one upload result is available
	TriggerReviewReady Trigger = "REVIEW_READY"

	// TriggerDispatchFailed fires when a dispatch produced zero records
	TriggerDispatchFailed Trigger = "DISPATCH_FAILED"

	// TriggerApprove fires when the review update was accepted
	TriggerApprove Trigger = "APPROVE"

	// TriggerGoBack fires on the explicit "go back" action from review
	TriggerGoBack Trigger = "GO_BACK"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}

package wizard

import "github.com/complicopilot/ccp-cli/internal/receipt"

// NotifyLevel classifies a user-visible notification
type NotifyLevel string

const (
	NotifyInfo    NotifyLevel = "info"
	NotifySuccess NotifyLevel = "success"
	NotifyError   NotifyLevel = "error"
)

// Presenter is the capability set the controller needs from whatever
// presentation layer hosts the wizard. The controller depends only on
// this interface, never on a concrete UI.
type Presenter interface {
	// ShowStep makes the given step the single visible one
	ShowStep(s State)

	// Notify surfaces a non-blocking notification (a toast)
	Notify(title, message string, level NotifyLevel)

	// Alert surfaces a blocking message (missing credential and the like)
	Alert(message string)

	// Progress reports "file current of total" during a batch upload
	Progress(current, total int)

	// ShowReviewForm fills the review form with the populated values
	ShowReviewForm(values receipt.FormValues)

	// ShowPreview points the preview pane at a rendered file, if any
	ShowPreview(path string)
}

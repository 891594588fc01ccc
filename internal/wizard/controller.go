package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/complicopilot/ccp-cli/internal/export"
	"github.com/complicopilot/ccp-cli/internal/receipt"
	"github.com/complicopilot/ccp-cli/internal/uploader"
	"go.uber.org/zap"
)

// Dispatcher sends candidates and review edits to the backend
type Dispatcher interface {
	Upload(ctx context.Context, cand receipt.Candidate) (*receipt.Record, error)
	UploadAll(ctx context.Context, cands []receipt.Candidate, progress func(i, n int)) ([]receipt.Record, int)
	Review(ctx context.Context, id string, edits uploader.ReviewEdits) (*receipt.Record, error)
}

// Session owns the bearer credential and the current-receipt slot for
// one wizard session.
type Session interface {
	Token() string
	Current() *receipt.Record
	SetCurrent(rec *receipt.Record)
	ClearCurrent()
}

// RecordSink receives records for the local dashboard cache. Optional.
type RecordSink interface {
	Put(rec receipt.Record) error
}

// Previewer renders a candidate into a previewable image. Optional.
type Previewer interface {
	Render(cand receipt.Candidate) (string, error)
}

// ExportSink persists generated export documents. Optional.
type ExportSink interface {
	SaveExport(name string, data []byte) (string, error)
}

// Controller drives the upload wizard: it validates candidates,
// dispatches them sequentially, populates the review form and handles
// the review/export actions. It exclusively owns the step machine and
// the batch result for the lifetime of one session.
type Controller struct {
	machine    Machine
	dispatcher Dispatcher
	session    Session
	presenter  Presenter
	store      RecordSink
	previewer  Previewer
	exports    ExportSink
	logger     *zap.Logger

	batch     []receipt.Record
	batchMode bool
}

// Option configures optional controller collaborators
type Option func(*Controller)

// WithStore routes uploaded and reviewed records into the local cache
func WithStore(store RecordSink) Option {
	return func(c *Controller) { c.store = store }
}

// WithPreviewer enables receipt previews on the review step
func WithPreviewer(p Previewer) Option {
	return func(c *Controller) { c.previewer = p }
}

// WithExportSink enables CSV downloads from the wizard
func WithExportSink(sink ExportSink) Option {
	return func(c *Controller) { c.exports = sink }
}

// NewController creates a wizard controller in the upload step
func NewController(dispatcher Dispatcher, sess Session, presenter Presenter, logger *zap.Logger, opts ...Option) *Controller {
	c := &Controller{
		dispatcher: dispatcher,
		session:    sess,
		presenter:  presenter,
		logger:     logger,
	}
	c.machine = NewStepMachine(func(from, to State) {
		presenter.ShowStep(to)
	})
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the currently visible wizard step
func (c *Controller) State() State {
	return c.machine.State()
}

// Batch returns the records accumulated in the current batch run
func (c *Controller) Batch() []receipt.Record {
	return c.batch
}

// OnFileSelected handles files arriving from the drop target. Invalid
// candidates are rejected with a notification and no state change; if
// any survive validation they are dispatched sequentially.
func (c *Controller) OnFileSelected(ctx context.Context, cands ...receipt.Candidate) error {
	valid := make([]receipt.Candidate, 0, len(cands))
	for _, cand := range cands {
		if err := receipt.Validate(cand); err != nil {
			c.presenter.Notify("Validation Error", rejectionMessage(err, cand), NotifyError)
			c.logger.Info("Rejected upload candidate",
				zap.String("file", cand.Name),
				zap.String("mime_type", cand.MimeType),
				zap.Int64("size", cand.Size),
				zap.Error(err))
			continue
		}
		valid = append(valid, cand)
	}
	if len(valid) == 0 {
		return nil
	}

	// The credential check blocks the whole action before any network
	// call; the dispatcher re-checks per request.
	if c.session.Token() == "" {
		c.presenter.Alert("You are not logged in. Please log in to upload files.")
		return uploader.ErrNotLoggedIn
	}

	c.batch = nil
	c.batchMode = len(valid) > 1
	if err := c.machine.Fire(ctx, TriggerDispatch); err != nil {
		return err
	}

	if c.batchMode {
		return c.dispatchBatch(ctx, valid)
	}
	return c.dispatchSingle(ctx, valid[0])
}

func (c *Controller) dispatchSingle(ctx context.Context, cand receipt.Candidate) error {
	rec, err := c.dispatcher.Upload(ctx, cand)
	if err != nil {
		c.surfaceUploadError(cand, err)
		return c.machine.Fire(ctx, TriggerDispatchFailed)
	}

	c.session.SetCurrent(rec)
	c.cacheRecord(*rec)
	c.showPreview(cand)

	if err := c.machine.Fire(ctx, TriggerReviewReady); err != nil {
		return err
	}
	c.presenter.ShowReviewForm(receipt.Populate(*rec))
	return nil
}

func (c *Controller) dispatchBatch(ctx context.Context, cands []receipt.Candidate) error {
	records, failed := c.dispatcher.UploadAll(ctx, cands, c.presenter.Progress)
	c.batch = records

	if failed > 0 {
		c.presenter.Notify("Upload",
			fmt.Sprintf("Processed %d of %d files.", len(records), len(cands)),
			NotifyInfo)
	}

	if len(records) == 0 {
		return c.machine.Fire(ctx, TriggerDispatchFailed)
	}

	first := records[0]
	c.session.SetCurrent(&first)
	for _, rec := range records {
		c.cacheRecord(rec)
	}
	c.showPreview(cands[0])

	if err := c.machine.Fire(ctx, TriggerReviewReady); err != nil {
		return err
	}
	c.presenter.ShowReviewForm(receipt.Populate(first))
	return nil
}

// OnSubmitReview sends the edited fields as a partial update for the
// current receipt. The single-file flow then advances to success; a
// batch stays on review so the export action remains available.
func (c *Controller) OnSubmitReview(ctx context.Context, edits uploader.ReviewEdits) error {
	current := c.session.Current()
	if current == nil || current.ID == "" {
		c.presenter.Notify("Error", "No receipt ID found for update", NotifyError)
		return uploader.ErrMissingID
	}

	updated, err := c.dispatcher.Review(ctx, current.ID, edits)
	if err != nil {
		c.presenter.Notify("Update Failed", userMessage(err, "Error updating receipt"), NotifyError)
		return err
	}

	c.session.SetCurrent(updated)
	c.cacheRecord(*updated)
	c.presenter.Notify("Receipt Saved", "Receipt has been reviewed and saved!", NotifySuccess)

	if c.batchMode {
		return nil
	}

	c.downloadCSV(export.SingleCSVName(updated.ID, time.Now()), []receipt.Record{*updated})
	return c.machine.Fire(ctx, TriggerApprove)
}

// OnExport generates the batch CSV for the records uploaded in this
// session and hands it to the export sink.
func (c *Controller) OnExport() (string, error) {
	if len(c.batch) == 0 {
		return "", errors.New("no processed receipts to export")
	}
	if c.exports == nil {
		return "", errors.New("no export destination configured")
	}
	now := time.Now()
	path, err := c.exports.SaveExport(export.BatchCSVName(now), export.CSV(c.batch, now))
	if err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	c.presenter.Notify("CSV Downloaded", "All receipt data has been exported to CSV file", NotifySuccess)
	return path, nil
}

// GoBack returns from review to upload, discarding the in-progress
// record locally. The record stays persisted on the backend.
func (c *Controller) GoBack(ctx context.Context) error {
	if err := c.machine.Fire(ctx, TriggerGoBack); err != nil {
		return err
	}
	c.session.ClearCurrent()
	return nil
}

func (c *Controller) surfaceUploadError(cand receipt.Candidate, err error) {
	if errors.Is(err, uploader.ErrNotLoggedIn) {
		c.presenter.Alert("You are not logged in. Please log in to upload files.")
		return
	}
	c.presenter.Alert(fmt.Sprintf("File upload failed: %s", userMessage(err, "could not reach the server")))
	c.logger.Error("Upload dispatch failed",
		zap.String("file", cand.Name),
		zap.Error(err))
}

func (c *Controller) cacheRecord(rec receipt.Record) {
	if c.store == nil {
		return
	}
	if err := c.store.Put(rec); err != nil {
		// Cache trouble must not derail the wizard.
		c.logger.Warn("Failed to cache receipt locally",
			zap.String("receipt_id", rec.ID),
			zap.Error(err))
	}
}

func (c *Controller) showPreview(cand receipt.Candidate) {
	if c.previewer == nil {
		return
	}
	path, err := c.previewer.Render(cand)
	if err != nil {
		c.logger.Warn("Failed to render preview",
			zap.String("file", cand.Name),
			zap.Error(err))
		return
	}
	c.presenter.ShowPreview(path)
}

func (c *Controller) downloadCSV(name string, records []receipt.Record) {
	if c.exports == nil {
		return
	}
	if _, err := c.exports.SaveExport(name, export.CSV(records, time.Now())); err != nil {
		c.logger.Warn("Failed to write review CSV", zap.Error(err))
		return
	}
	c.presenter.Notify("CSV Downloaded", "Receipt data has been exported to CSV file", NotifySuccess)
}

// rejectionMessage names the policy violation for the notification toast
func rejectionMessage(err error, cand receipt.Candidate) string {
	switch {
	case errors.Is(err, receipt.ErrInvalidType):
		return fmt.Sprintf("%s: only JPEG, PNG and PDF files are accepted", cand.Name)
	case errors.Is(err, receipt.ErrTooLarge):
		return fmt.Sprintf("%s: files must be 10 MB or smaller", cand.Name)
	default:
		return err.Error()
	}
}

// userMessage prefers the server-provided detail over a generic fallback
func userMessage(err error, fallback string) string {
	var reqErr *uploader.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Detail != "" {
			return reqErr.Detail
		}
		return fmt.Sprintf("%d %s", reqErr.Status, reqErr.StatusText)
	}
	return fallback
}

package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/complicopilot/ccp-cli/internal/receipt"
	"go.uber.org/zap"
)

// HTTPClient interface for testability
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource provides the session bearer credential. An empty token
// means no credential is persisted.
type TokenSource interface {
	Token() string
}

// ReviewEdits are the user-edited fields sent with a review update.
type ReviewEdits struct {
	Vendor    string   `json:"vendor"`
	Date      string   `json:"date"`
	Amount    float64  `json:"amount"`
	Category  string   `json:"category"`
	GSTIN     string   `json:"gstin"`
	TaxAmount *float64 `json:"tax_amount,omitempty"`
}

// Client dispatches receipt uploads and review updates to the backend.
// One request is in flight at a time; there are no automatic retries,
// since a repeated POST would create a duplicate receipt.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	tokens     TokenSource
	logger     *zap.Logger
}

// NewClient creates an upload dispatcher against the given API base URL.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		logger:     logger,
	}
}

// Upload sends one candidate as a multipart POST to the receipts
// collection and returns the record the backend created from it.
func (c *Client) Upload(ctx context.Context, cand receipt.Candidate) (*receipt.Record, error) {
	token := c.tokens.Token()
	if token == "" {
		return nil, ErrNotLoggedIn
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := createFilePart(writer, cand)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(cand.Data); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/receipts/", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Upload request failed",
			zap.String("file", cand.Name),
			zap.Error(err))
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		reqErr := c.requestError(resp)
		c.logger.Warn("Upload returned non-success status",
			zap.String("file", cand.Name),
			zap.Int("status", resp.StatusCode))
		return nil, reqErr
	}

	var rec receipt.Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to parse upload response: %w", err)
	}

	c.logger.Info("Receipt uploaded",
		zap.String("file", cand.Name),
		zap.String("receipt_id", rec.ID))

	return &rec, nil
}

// UploadAll uploads candidates one at a time, awaiting each before
// starting the next. The ordering keeps "file i of N" progress accurate
// and bounds backend load; do not parallelize without re-deriving the
// progress contract. A failed file is logged and skipped, so the result
// holds exactly the records that succeeded, in order.
func (c *Client) UploadAll(ctx context.Context, cands []receipt.Candidate, progress func(i, n int)) ([]receipt.Record, int) {
	records := make([]receipt.Record, 0, len(cands))
	failed := 0

	for i, cand := range cands {
		if progress != nil {
			progress(i+1, len(cands))
		}
		rec, err := c.Upload(ctx, cand)
		if err != nil {
			failed++
			c.logger.Error("Skipping failed upload",
				zap.String("file", cand.Name),
				zap.Int("position", i+1),
				zap.Int("total", len(cands)),
				zap.Error(err))
			continue
		}
		records = append(records, *rec)
	}

	return records, failed
}

// Review issues a partial update for the record with the given id,
// carrying the user-edited fields. Requires a known id.
func (c *Client) Review(ctx context.Context, id string, edits ReviewEdits) (*receipt.Record, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	token := c.tokens.Token()
	if token == "" {
		return nil, ErrNotLoggedIn
	}

	payload, err := json.Marshal(edits)
	if err != nil {
		return nil, fmt.Errorf("failed to encode review edits: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+"/api/v1/receipts/"+id, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Review update failed",
			zap.String("receipt_id", id),
			zap.Error(err))
		return nil, fmt.Errorf("review update failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		reqErr := c.requestError(resp)
		c.logger.Warn("Review update returned non-success status",
			zap.String("receipt_id", id),
			zap.Int("status", resp.StatusCode))
		return nil, reqErr
	}

	var rec receipt.Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to parse review response: %w", err)
	}

	c.logger.Info("Receipt reviewed", zap.String("receipt_id", rec.ID))
	return &rec, nil
}

// requestError drains the response body into a RequestError, keeping the
// server-provided detail message when one is present.
func (c *Client) requestError(resp *http.Response) *RequestError {
	reqErr := &RequestError{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return reqErr
	}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		reqErr.Detail = body.message()
	}
	return reqErr
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// createFilePart adds the single "file" field, carrying the candidate's
// MIME type the way a browser upload does.
func createFilePart(w *multipart.Writer, cand receipt.Candidate) (io.Writer, error) {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(cand.Name)))
	contentType := cand.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	return w.CreatePart(header)
}

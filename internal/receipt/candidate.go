package receipt

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// Candidate is a file selected for upload, prior to validation.
// It is transient: discarded once the upload succeeds or is rejected.
type Candidate struct {
	Name     string
	MimeType string
	Size     int64
	Data     []byte
}

// CandidateFromFile reads a file into an upload candidate. The MIME type
// is derived from the extension, the same way a browser reports file.type.
func CandidateFromFile(path string) (Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Candidate{}, fmt.Errorf("failed to read file: %w", err)
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}

	return Candidate{
		Name:     filepath.Base(path),
		MimeType: mimeType,
		Size:     int64(len(data)),
		Data:     data,
	}, nil
}

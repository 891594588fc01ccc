package receipt

import (
	"errors"
	"fmt"
)

// MaxUploadSize is the upper bound for a single receipt file.
const MaxUploadSize = 10 * 1024 * 1024

var (
	// ErrInvalidType is returned for candidates that are not JPEG, PNG or PDF
	ErrInvalidType = errors.New("unsupported file type")

	// ErrTooLarge is returned for candidates above MaxUploadSize
	ErrTooLarge = errors.New("file exceeds size limit")
)

var allowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

// Validate enforces the upload policy on a candidate before any network
// call is made. It touches neither the network nor the wizard state.
func Validate(c Candidate) error {
	if !allowedMimeTypes[c.MimeType] {
		return fmt.Errorf("%w: %s (%s)", ErrInvalidType, c.Name, c.MimeType)
	}
	if c.Size > MaxUploadSize {
		return fmt.Errorf("%w: %s (%d bytes)", ErrTooLarge, c.Name, c.Size)
	}
	return nil
}

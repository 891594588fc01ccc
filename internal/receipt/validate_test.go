package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestValidate tests the upload policy on candidate type and size
func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		cand        Candidate
		expectedErr error
	}{
		{
			name: "jpeg accepted",
			cand: Candidate{Name: "lunch.jpg", MimeType: "image/jpeg", Size: 1024},
		},
		{
			name: "png accepted",
			cand: Candidate{Name: "taxi.png", MimeType: "image/png", Size: 2048},
		},
		{
			name: "pdf accepted",
			cand: Candidate{Name: "invoice.pdf", MimeType: "application/pdf", Size: 4096},
		},
		{
			name:        "gif rejected",
			cand:        Candidate{Name: "anim.gif", MimeType: "image/gif", Size: 1024},
			expectedErr: ErrInvalidType,
		},
		{
			name:        "text rejected",
			cand:        Candidate{Name: "notes.txt", MimeType: "text/plain", Size: 10},
			expectedErr: ErrInvalidType,
		},
		{
			name:        "missing type rejected",
			cand:        Candidate{Name: "blob", MimeType: "", Size: 10},
			expectedErr: ErrInvalidType,
		},
		{
			name: "exactly at the limit accepted",
			cand: Candidate{Name: "big.pdf", MimeType: "application/pdf", Size: MaxUploadSize},
		},
		{
			name:        "over the limit rejected",
			cand:        Candidate{Name: "huge.png", MimeType: "image/png", Size: 12 * 1024 * 1024},
			expectedErr: ErrTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cand)
			if tt.expectedErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

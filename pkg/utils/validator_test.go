package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestValidateGSTIN tests GSTIN format validation
func TestValidateGSTIN(t *testing.T) {
	tests := []struct {
		name    string
		gstin   string
		wantErr bool
	}{
		{name: "empty allowed", gstin: "", wantErr: false},
		{name: "valid gstin", gstin: "29ABCDE1234F1Z5", wantErr: false},
		{name: "too short", gstin: "29ABCDE1234F1Z", wantErr: true},
		{name: "too long", gstin: "29ABCDE1234F1Z55", wantErr: true},
		{name: "lowercase rejected", gstin: "29abcde1234f1z5", wantErr: true},
		{name: "missing Z marker", gstin: "29ABCDE1234F1X5", wantErr: true},
		{name: "bad state code", gstin: "XXABCDE1234F1Z5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGSTIN(tt.gstin)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestValidateAmount tests the non-negative amount rule
func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(0))
	assert.NoError(t, ValidateAmount(1200.50))
	assert.Error(t, ValidateAmount(-0.01))
}

// TestSanitizeString tests control character stripping
func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "Acme Corp", SanitizeString("Acme\x00 Corp\x1f"))
	assert.Equal(t, "plain", SanitizeString("plain"))
}

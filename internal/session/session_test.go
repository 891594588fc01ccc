package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/complicopilot/ccp-cli/internal/receipt"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

// TestTokenRoundTrip tests persisting and reloading the bearer token
func TestTokenRoundTrip(t *testing.T) {
	tokenPath := filepath.Join(t.TempDir(), "nested", "token")

	s, err := New(tokenPath, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, s.Token())

	require.NoError(t, s.SetToken("  tok-123\n"))
	assert.Equal(t, "tok-123", s.Token())

	// A fresh session sees the persisted credential.
	reloaded, err := New(tokenPath, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "tok-123", reloaded.Token())

	info, err := os.Stat(tokenPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

// TestClearToken tests forgetting the credential
func TestClearToken(t *testing.T) {
	tokenPath := filepath.Join(t.TempDir(), "token")

	s, err := New(tokenPath, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.SetToken("tok"))

	require.NoError(t, s.ClearToken())
	assert.Empty(t, s.Token())
	_, err = os.Stat(tokenPath)
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine.
	assert.NoError(t, s.ClearToken())
}

// TestExpired tests expiry detection on the token's exp claim
func TestExpired(t *testing.T) {
	tokenPath := filepath.Join(t.TempDir(), "token")
	s, err := New(tokenPath, zap.NewNop())
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		expired bool
	}{
		{name: "empty token", token: "", expired: false},
		{name: "opaque token", token: "not-a-jwt", expired: false},
		{name: "live jwt", token: signedToken(t, time.Now().Add(time.Hour)), expired: false},
		{name: "expired jwt", token: signedToken(t, time.Now().Add(-time.Hour)), expired: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, s.SetToken(tt.token))
			assert.Equal(t, tt.expired, s.Expired())
		})
	}
}

// TestCurrentReceiptSlot tests the current-receipt accessors
func TestCurrentReceiptSlot(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "token"), zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, s.Current())

	rec := &receipt.Record{ID: "r-1"}
	s.SetCurrent(rec)
	assert.Equal(t, rec, s.Current())

	s.ClearCurrent()
	assert.Nil(t, s.Current())
}

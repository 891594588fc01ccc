package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/complicopilot/ccp-cli/internal/receipt"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session is the explicit context for one upload session: the bearer
// credential and the current-receipt slot live here instead of in
// ambient globals. Created when the wizard mounts, discarded with it.
type Session struct {
	id        string
	tokenPath string
	token     string
	current   *receipt.Record
	logger    *zap.Logger
}

// New creates a session, loading any persisted bearer token. A missing
// token file is not an error; uploads are simply refused until a token
// is set.
func New(tokenPath string, logger *zap.Logger) (*Session, error) {
	s := &Session{
		id:        uuid.NewString(),
		tokenPath: tokenPath,
		logger:    logger,
	}

	data, err := os.ReadFile(tokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	s.token = strings.TrimSpace(string(data))

	if s.token != "" && s.Expired() {
		logger.Warn("Persisted session token is expired",
			zap.String("session_id", s.id))
	}

	return s, nil
}

// ID identifies this session in logs
func (s *Session) ID() string {
	return s.id
}

// Token returns the bearer credential, or empty when not logged in
func (s *Session) Token() string {
	return s.token
}

// SetToken persists the bearer credential for later sessions
func (s *Session) SetToken(token string) error {
	token = strings.TrimSpace(token)
	if err := os.MkdirAll(filepath.Dir(s.tokenPath), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(s.tokenPath, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	s.token = token
	return nil
}

// ClearToken forgets the persisted credential
func (s *Session) ClearToken() error {
	if err := os.Remove(s.tokenPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	s.token = ""
	return nil
}

// Expired inspects the token's exp claim without verifying the
// signature; verification is the backend's job. Tokens that are not
// JWTs or carry no expiry are treated as live.
func (s *Session) Expired() bool {
	token, _, err := jwt.NewParser().ParseUnverified(s.token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// Current returns the receipt being reviewed, if any
func (s *Session) Current() *receipt.Record {
	return s.current
}

// SetCurrent records the receipt the review step operates on
func (s *Session) SetCurrent(rec *receipt.Record) {
	s.current = rec
}

// ClearCurrent empties the current-receipt slot
func (s *Session) ClearCurrent() {
	s.current = nil
}

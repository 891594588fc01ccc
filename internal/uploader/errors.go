package uploader

import (
	"errors"
	"fmt"
)

var (
	// ErrNotLoggedIn is returned when no bearer credential is present.
	// Dispatch is refused before any network call is made.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrMissingID is returned when a review update is attempted for a
	// record with no server-assigned id. Detected locally, no network.
	ErrMissingID = errors.New("no receipt id for update")
)

// RequestError describes a non-2xx response from the backend.
type RequestError struct {
	Status     int
	StatusText string
	// Detail carries the server-provided message when the error body
	// could be parsed, otherwise empty.
	Detail string
}

func (e *RequestError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("request failed: %d %s: %s", e.Status, e.StatusText, e.Detail)
	}
	return fmt.Sprintf("request failed: %d %s", e.Status, e.StatusText)
}

// errorBody matches the backend's error envelope, which is either
// {"detail": "..."} or {"detail": {"message": "..."}}.
type errorBody struct {
	Detail any `json:"detail"`
}

func (b errorBody) message() string {
	switch d := b.Detail.(type) {
	case string:
		return d
	case map[string]any:
		if msg, ok := d["message"].(string); ok {
			return msg
		}
	}
	return ""
}

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors carried by Result.Err. Use errors.Is to match them.
var (
	ErrUnconfigured = errors.New("api key is not configured")
	ErrNotFound     = errors.New("not found")
	ErrRateLimited  = errors.New("rate limited")
	ErrTransport    = errors.New("transport failure")
	ErrCancelled    = errors.New("request cancelled")
	ErrTimedOut     = errors.New("request timed out")
	ErrDecode       = errors.New("decode failure")
)

// unknownErrorMessage is used when an error body carries no readable message.
const unknownErrorMessage = "Unknown error"

// APIError represents a classified PoiskKino answer.
type APIError struct {
	StatusCode int
	Outcome    Outcome
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("PoiskKino %s (status %d): %s", e.Outcome, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("PoiskKino %s (status %d)", e.Outcome, e.StatusCode)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

func newAPIError(statusCode int, outcome Outcome, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Outcome:    outcome,
		Message:    message,
		Err:        outcome.Sentinel(),
	}
}

// errorMessage extracts the "message" field from an error body.
// PoiskKino sends either a string or, for validation errors, a list of strings.
// Anything unreadable yields unknownErrorMessage.
func errorMessage(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Message) == 0 {
		return unknownErrorMessage
	}

	var msg string
	if err := json.Unmarshal(payload.Message, &msg); err == nil {
		if msg = strings.TrimSpace(msg); msg != "" {
			return msg
		}
		return unknownErrorMessage
	}

	var msgs []string
	if err := json.Unmarshal(payload.Message, &msgs); err == nil && len(msgs) > 0 {
		return strings.Join(msgs, "; ")
	}

	return unknownErrorMessage
}

package core

import "errors"

// Error codes grouping client failures by the collaborator that produced
// them.
const (
	ErrCodeAuth      = "auth_failed"
	ErrCodeDirectory = "directory_failed"
	ErrCodeChannel   = "channel_failed"
)

var (
	// ErrNotAuthenticated is returned by operations that need a logged-in
	// session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrBlankName is returned when a room name is empty or whitespace.
	ErrBlankName = errors.New("room name is blank")
)

// ChatError wraps a code and a human-readable message. None of these are
// fatal; every failure degrades to a usable session state.
type ChatError struct {
	Code    string
	Message string
	Err     error
}

func (e *ChatError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ChatError) Unwrap() error {
	return e.Err
}

// NewChatError builds a coded error around an optional cause.
func NewChatError(code, msg string, err error) *ChatError {
	return &ChatError{Code: code, Message: msg, Err: err}
}

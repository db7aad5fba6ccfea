package shared

import (
	"fmt"
	"io/fs"
)

var (
	// Configuration and input file errors
	ErrMissingFile        = fmt.Errorf("required file not found: %w", fs.ErrNotExist)
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials file")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrTrackNotFound      = fmt.Errorf("track not found")
	ErrSequenceConsumed   = fmt.Errorf("track sequence already consumed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrPromptAborted   = fmt.Errorf("prompt aborted")
)

// ParseError reports a malformed line in one of the plain-text input files.
type ParseError struct {
	Path   string
	Line   int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

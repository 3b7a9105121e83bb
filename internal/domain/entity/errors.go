package entity

import (
	"errors"
	"fmt"
)

// Standard domain errors
var (
	ErrRateLimitExceeded  = errors.New("rate limit exceeded: too many messages today")
	ErrInternalServer     = errors.New("an internal error occurred")
	ErrInvalidRequest     = errors.New("invalid request parameters")
	ErrResourceNotFound   = errors.New("the requested resource was not found")
	ErrUnauthorized       = errors.New("authentication required")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOTP         = errors.New("invalid or expired verification code")
)

// Pipeline error taxonomy
var (
	// ErrRemote marks transient failures of the embedding, search and generation services.
	ErrRemote = errors.New("remote service failure")
	// ErrMalformedCompletion is reported when a completion lacks the reasoning delimiters.
	// It never leaves the parser.
	ErrMalformedCompletion = errors.New("completion is missing reasoning delimiters")
	// ErrConfiguration is fatal at process start.
	ErrConfiguration = errors.New("invalid configuration")
)

// Remote call stages.
const (
	StageEmbed    = "embed"
	StageSearch   = "search"
	StageGenerate = "generate"
)

// RemoteError wraps a failed call to one of the remote collaborators.
type RemoteError struct {
	Stage string
	Err   error
}

func NewRemoteError(stage string, err error) *RemoteError {
	return &RemoteError{Stage: stage, Err: err}
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrRemote, e.Stage, e.Err)
}

func (e *RemoteError) Unwrap() []error {
	return []error{ErrRemote, e.Err}
}

// ConfigError returns an ErrConfiguration wrapping the given reason.
func ConfigError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

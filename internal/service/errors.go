package service

import "errors"

// Sentinel errors shared across services. Controllers map these onto HTTP
// statuses with errors.Is; everything else is treated as an internal failure.
var (
	// ErrValidation marks missing or malformed input. Not retryable.
	ErrValidation = errors.New("validation failed")
	// ErrQuizNotFound is returned when a quiz id or join code resolves to nothing.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrSubmissionNotFound is returned when a submission id resolves to nothing.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrNotOwner marks an attempt to act on a resource the caller does not own.
	// The message deliberately does not reveal whether the resource exists.
	ErrNotOwner = errors.New("not permitted")
	// ErrDependency marks a transient failure of storage or the AI backend.
	ErrDependency = errors.New("dependency unavailable")
)

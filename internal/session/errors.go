package session

import "errors"

var (
	// ErrInvalidInput reports a missing or blank argument.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound reports an unknown or already evicted session id.
	ErrNotFound = errors.New("session not found")

	// ErrInvalidState reports an operation that needs an active session.
	ErrInvalidState = errors.New("session is not active")

	// ErrNotEnoughData reports an evaluation with no unscored answer.
	ErrNotEnoughData = errors.New("not enough conversation to evaluate")

	// ErrCollaboratorUnavailable reports a scorer failure.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
)

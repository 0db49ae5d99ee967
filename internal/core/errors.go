package core

import "errors"

var (
	// ErrSessionNotFound indicates a turn arrived for an id the store does
	// not know. This is a caller bug, not a user-facing condition.
	ErrSessionNotFound = errors.New("session not found")

	// ErrDuplicateSession is returned by strict creation when the id is
	// already live.
	ErrDuplicateSession = errors.New("session already exists")

	// ErrExtractionFailed covers both an unreachable extraction oracle and
	// a response that fails schema validation. Callers must not distinguish
	// the two.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrJudgmentFailed is the adjudication counterpart of
	// ErrExtractionFailed.
	ErrJudgmentFailed = errors.New("judgment failed")
)

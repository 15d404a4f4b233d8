package session

import "errors"

var (
	// ErrSessionNotFound indicates no session exists for the given key
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrDuplicateKey indicates a session with the same key already exists
	ErrDuplicateKey = errors.New("session.duplicate_key")

	// ErrCannotCreateSession indicates key generation kept colliding
	ErrCannotCreateSession = errors.New("session.cannot_create")

	// ErrInvalidSession indicates a malformed session record
	ErrInvalidSession = errors.New("session.invalid")

	// ErrUnsupportedDataVersion indicates a stored data payload with an
	// unknown envelope version
	ErrUnsupportedDataVersion = errors.New("session.unsupported_data_version")
)

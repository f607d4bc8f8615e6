package session

import "errors"

var (
	// ErrNotFound is returned for unknown, revoked or expired tokens.
	ErrNotFound = errors.New("session not found")
	// ErrEmptyToken is returned when Create gets a session without a token.
	ErrEmptyToken = errors.New("session token is empty")
	// ErrExpired is returned when Create gets a session that has already expired.
	ErrExpired = errors.New("session already expired")
)

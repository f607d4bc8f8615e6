package rostercheck

import "errors"

var (
	// ErrUnexpectedStatus is returned when the service answers with a status
	// the check did not expect.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrRosterMismatch is returned when a roster does not hold what the
	// preceding mutations imply.
	ErrRosterMismatch = errors.New("roster mismatch")
	// ErrActivityMissing is returned when the configured activity is not listed.
	ErrActivityMissing = errors.New("activity not listed")
)

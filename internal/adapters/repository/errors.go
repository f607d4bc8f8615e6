package repository

import "errors"

// Sentinel kinds for roster errors.
var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrAlreadySignedUp  = errors.New("student is already signed up")
	ErrNotSignedUp      = errors.New("student is not signed up for this activity")
	ErrActivityFull     = errors.New("activity is full")
)

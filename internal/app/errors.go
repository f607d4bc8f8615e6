package service

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is the kind shared by every authentication failure.
var ErrUnauthorized = errors.New("unauthorized")

// Authentication failures, all matching ErrUnauthorized.
var (
	ErrMissingToken       = fmt.Errorf("%w: missing or invalid authorization token", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid or expired token", ErrUnauthorized)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
)

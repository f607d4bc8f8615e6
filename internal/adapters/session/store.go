// Package session keeps track of issued bearer tokens.
package session

import (
	"context"

	"github.com/okian/mergington/internal/domain/model"
)

// Store maps bearer tokens to teacher sessions.
type Store interface {
	// Create registers a new session under its token.
	Create(ctx context.Context, s model.Session) error

	// Lookup returns the live session for token. Returns ErrNotFound when the
	// token is unknown, revoked or expired.
	Lookup(ctx context.Context, token string) (model.Session, error)

	// Revoke removes the session and returns it. Returns ErrNotFound when the
	// token was not live.
	Revoke(ctx context.Context, token string) (model.Session, error)

	// Count returns the number of live sessions.
	Count(ctx context.Context) (int, error)
}

// Package repository holds the activity roster store.
package repository

import (
	"context"

	"github.com/okian/mergington/internal/domain/model"
)

// Store provides read/write access to activity rosters.
type Store interface {
	// List returns every activity keyed by name. The result is a deep copy.
	List(ctx context.Context) (model.Catalog, error)

	// Get returns one activity. Returns ErrActivityNotFound if unknown.
	Get(ctx context.Context, name string) (model.Activity, error)

	// Signup appends email to the roster of name and returns the updated activity.
	// Returns ErrActivityNotFound, ErrAlreadySignedUp or, when capacity is
	// enforced, ErrActivityFull.
	Signup(ctx context.Context, name, email string) (model.Activity, error)

	// Unregister removes one occurrence of email from the roster of name.
	// Returns ErrActivityNotFound or ErrNotSignedUp.
	Unregister(ctx context.Context, name, email string) (model.Activity, error)

	// Count returns the number of activities.
	Count(ctx context.Context) int
}

// Package model contains domain models passed between layers.
package model

import "slices"

// Activity is an extracurricular offering with its roster.
// Name is the store key and is not part of the JSON body; listings are
// objects keyed by name.
type Activity struct {
	Name            string   `json:"-"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Clone returns a deep copy so callers never alias store state.
func (a Activity) Clone() Activity {
	a.Participants = slices.Clone(a.Participants)
	if a.Participants == nil {
		a.Participants = []string{}
	}
	return a
}

// Has reports whether email is on the roster.
func (a Activity) Has(email string) bool {
	return slices.Contains(a.Participants, email)
}

// SpotsLeft is max_participants minus the roster size. It goes negative when
// capacity is not enforced and the roster overflows.
func (a Activity) SpotsLeft() int {
	return a.MaxParticipants - len(a.Participants)
}

// Full reports whether the roster has reached capacity.
func (a Activity) Full() bool {
	return a.SpotsLeft() <= 0
}

// Catalog maps activity name to activity, the shape of GET /activities.
type Catalog map[string]Activity

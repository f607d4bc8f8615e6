package model

import "time"

// EventKind names what happened to a roster or session.
type EventKind string

// Roster event kinds.
const (
	EventLogin      EventKind = "login"
	EventLogout     EventKind = "logout"
	EventSignup     EventKind = "signup"
	EventUnregister EventKind = "unregister"
)

// RosterEvent records one successful teacher action for the audit journal.
type RosterEvent struct {
	ID       string    `json:"id"`
	Kind     EventKind `json:"kind"`
	Teacher  string    `json:"teacher"`
	Activity string    `json:"activity,omitempty"`
	Email    string    `json:"email,omitempty"`
	At       time.Time `json:"at"`
}

package model

import "time"

// Session binds an opaque bearer token to a teacher.
type Session struct {
	Token     string
	Username  string
	CreatedAt time.Time
	// ExpiresAt is zero when the session lives until logout.
	ExpiresAt time.Time
}

// Expired reports whether the session is past its deadline at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

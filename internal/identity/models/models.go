package models

import "time"

// User is the registered account. Created once at signup, never mutated or
// deleted by this system.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Session binds an opaque token to an authenticated user for its lifetime.
// The stored fields are exactly what the middleware needs to build a
// principal; everything else is re-read from the user store on demand.
type Session struct {
	Token     string
	UserID    string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its TTL at the given instant.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Package domain holds the identity value types shared across services.
package domain

// Principal is the authenticated identity associated with the current request.
// It is resolved once per request from the session token and threaded as a
// parameter into every service operation; nothing reads it from global state.
type Principal struct {
	ID       string
	Username string
}

// IsZero reports whether no authenticated user backs this principal.
func (p Principal) IsZero() bool {
	return p.ID == ""
}

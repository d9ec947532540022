// Package guard holds the ownership decision applied to every owned-resource
// mutation. Keeping it a single pure function prevents the per-handler drift
// where one code path forgets the check.
package guard

import "askboard/pkg/domain"

// Decision is the outcome of an ownership check.
type Decision int

const (
	Denied Decision = iota
	Allowed
)

// Authorize decides whether the principal may mutate a resource owned by
// ownerID. Pure by-value comparison, re-derived on every call; never cached.
// Callers must confirm the resource exists before consulting the guard so
// not-found and forbidden stay distinguishable.
func Authorize(principal domain.Principal, ownerID string) Decision {
	if principal.IsZero() || ownerID == "" {
		return Denied
	}
	if principal.ID == ownerID {
		return Allowed
	}
	return Denied
}

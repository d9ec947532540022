package adapters

import (
	"context"

	identitymodels "askboard/internal/identity/models"
)

// UserStore is the slice of the identity user store the forum needs.
type UserStore interface {
	FindByID(ctx context.Context, id string) (identitymodels.User, error)
}

// UserDirectory adapts the identity user store to the forum service's
// author-username lookup. Store sentinels pass through unchanged.
type UserDirectory struct {
	users UserStore
}

func NewUserDirectory(users UserStore) *UserDirectory {
	return &UserDirectory{users: users}
}

func (d *UserDirectory) Username(ctx context.Context, userID string) (string, error) {
	user, err := d.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

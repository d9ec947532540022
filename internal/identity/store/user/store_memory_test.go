package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"askboard/internal/identity/models"
	"askboard/pkg/platform/sentinel"
)

func TestInMemoryStoreCreateAndFind(t *testing.T) {
	store := New()
	created, err := store.Create(context.Background(), models.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byID, err := store.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, byID)

	byEmail, err := store.FindByEmail(context.Background(), "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, created, byEmail)
}

func TestInMemoryStoreUniqueness(t *testing.T) {
	store := New()
	_, err := store.Create(context.Background(), models.User{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	_, err = store.Create(context.Background(), models.User{Username: "BOB", Email: "other@example.com"})
	assert.ErrorIs(t, err, sentinel.ErrConflict)

	_, err = store.Create(context.Background(), models.User{Username: "carol", Email: "Bob@Example.com"})
	assert.ErrorIs(t, err, sentinel.ErrConflict)
}

func TestInMemoryStoreNotFound(t *testing.T) {
	store := New()
	_, err := store.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	_, err = store.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

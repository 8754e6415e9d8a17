package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-notes-sync/internal/domain/entity"
	"github.com/oksasatya/go-notes-sync/internal/domain/repository"
)

func TestUserRepository_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	u := &entity.User{Username: "alice", Email: "alice@x.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, u))
	require.NotEmpty(t, u.ID)

	byEmail, err := repo.GetByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	require.NoError(t, repo.Create(ctx, &entity.User{Username: "a", Email: "dup@x.com"}))
	err := repo.Create(ctx, &entity.User{Username: "b", Email: "dup@x.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestUserRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	u := &entity.User{Username: "a", Email: "a@x.com", Password: "h1"}
	require.NoError(t, repo.Create(ctx, u))

	u.Username = "renamed"
	u.Password = "h2"
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Username)
	assert.Equal(t, "h2", got.Password)

	err = repo.Update(ctx, &entity.User{ID: "missing"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

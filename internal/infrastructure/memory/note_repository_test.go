package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-notes-sync/internal/domain/entity"
	"github.com/oksasatya/go-notes-sync/internal/domain/repository"
)

func TestNoteRepository_ListKeepsInsertionOrderPerOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository()

	for _, n := range []entity.Note{
		{OwnerID: "a", Title: "first", Content: "1"},
		{OwnerID: "b", Title: "other", Content: "x"},
		{OwnerID: "a", Title: "second", Content: "2"},
	} {
		n := n
		require.NoError(t, repo.Create(ctx, &n))
		require.NotEmpty(t, n.ID)
	}

	notes, err := repo.ListByOwner(ctx, "a")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "first", notes[0].Title)
	assert.Equal(t, "second", notes[1].Title)

	empty, err := repo.ListByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestNoteRepository_ForeignAccessIsNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository()

	n := entity.Note{OwnerID: "a", Title: "t", Content: "c"}
	require.NoError(t, repo.Create(ctx, &n))

	_, err := repo.GetOwned(ctx, n.ID, "b")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = repo.Update(ctx, &entity.Note{ID: n.ID, OwnerID: "b", Title: "x", Content: "y"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = repo.Delete(ctx, n.ID, "b")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := repo.GetOwned(ctx, n.ID, "a")
	require.NoError(t, err)
	assert.Equal(t, "t", got.Title)
}

func TestNoteRepository_UpdateKeepsOwnerAndCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository()

	n := entity.Note{OwnerID: "a", Title: "t", Content: "c"}
	require.NoError(t, repo.Create(ctx, &n))

	upd := entity.Note{ID: n.ID, OwnerID: "a", Title: "t2", Content: "c2"}
	require.NoError(t, repo.Update(ctx, &upd))
	assert.Equal(t, "a", upd.OwnerID)
	assert.Equal(t, n.CreatedAt, upd.CreatedAt)
	assert.Equal(t, "c2", upd.Content)
}

func TestNoteRepository_SearchByOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository()

	for _, n := range []entity.Note{
		{OwnerID: "a", Title: "Groceries", Content: "Milk"},
		{OwnerID: "a", Title: "Todo", Content: "buy MILK powder"},
		{OwnerID: "b", Title: "Milk", Content: "not yours"},
	} {
		n := n
		require.NoError(t, repo.Create(ctx, &n))
	}

	got, err := repo.SearchByOwner(ctx, "a", "milk", 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = repo.SearchByOwner(ctx, "a", "milk", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

package repository

import (
	"context"

	"github.com/oksasatya/go-notes-sync/internal/domain/entity"
)

// NoteRepository persists notes. Every read and write past Create is scoped
// by owner: a note that exists but belongs to someone else yields ErrNotFound.
type NoteRepository interface {
	// ListByOwner returns the owner's notes ordered by creation time, then id.
	ListByOwner(ctx context.Context, ownerID string) ([]entity.Note, error)
	Create(ctx context.Context, n *entity.Note) error
	GetOwned(ctx context.Context, id, ownerID string) (*entity.Note, error)
	// Update writes title and content where both id and OwnerID match.
	Update(ctx context.Context, n *entity.Note) error
	Delete(ctx context.Context, id, ownerID string) error
	// SearchByOwner does a case-insensitive substring match on title and content.
	SearchByOwner(ctx context.Context, ownerID, query string, limit int) ([]entity.Note, error)
}

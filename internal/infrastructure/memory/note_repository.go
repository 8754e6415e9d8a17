package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-notes-sync/internal/domain/entity"
	"github.com/oksasatya/go-notes-sync/internal/domain/repository"
)

// NoteRepository keeps notes in insertion order, which matches the
// created_at ordering of the postgres implementation.
type NoteRepository struct {
	mu    sync.RWMutex
	notes []entity.Note
}

func NewNoteRepository() *NoteRepository {
	return &NoteRepository{}
}

func (r *NoteRepository) ListByOwner(_ context.Context, ownerID string) ([]entity.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Note, 0)
	for _, n := range r.notes {
		if n.OwnerID == ownerID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *NoteRepository) Create(_ context.Context, n *entity.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	n.ID = uuid.NewString()
	n.CreatedAt = now
	n.UpdatedAt = now
	r.notes = append(r.notes, *n)
	return nil
}

func (r *NoteRepository) GetOwned(_ context.Context, id, ownerID string) (*entity.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id, ownerID)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	n := r.notes[i]
	return &n, nil
}

func (r *NoteRepository) Update(_ context.Context, n *entity.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(n.ID, n.OwnerID)
	if i < 0 {
		return repository.ErrNotFound
	}
	cur := &r.notes[i]
	cur.Title = n.Title
	cur.Content = n.Content
	cur.UpdatedAt = time.Now()
	*n = *cur
	return nil
}

func (r *NoteRepository) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id, ownerID)
	if i < 0 {
		return repository.ErrNotFound
	}
	r.notes = append(r.notes[:i], r.notes[i+1:]...)
	return nil
}

func (r *NoteRepository) SearchByOwner(_ context.Context, ownerID, query string, limit int) ([]entity.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	out := make([]entity.Note, 0)
	for _, n := range r.notes {
		if len(out) >= limit {
			break
		}
		if n.OwnerID != ownerID {
			continue
		}
		if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q) {
			out = append(out, n)
		}
	}
	return out, nil
}

// indexOf must be called with the lock held.
func (r *NoteRepository) indexOf(id, ownerID string) int {
	for i, n := range r.notes {
		if n.ID == id && n.OwnerID == ownerID {
			return i
		}
	}
	return -1
}

var _ repository.NoteRepository = (*NoteRepository)(nil)

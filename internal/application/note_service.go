package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-notes-sync/internal/domain/entity"
	repo "github.com/oksasatya/go-notes-sync/internal/domain/repository"
	"github.com/oksasatya/go-notes-sync/pkg/helpers"
	"github.com/oksasatya/go-notes-sync/pkg/metrics"
)

const DefaultSearchLimit = 20

// NoteService owns note semantics. Concurrent updates are last-write-wins.
type NoteService struct {
	Repo repo.NoteRepository
	// Index and Exports are optional.
	Index   NoteIndex
	Exports ObjectUploader
	Logger  *logrus.Logger

	now func() time.Time
}

func NewNoteService(notes repo.NoteRepository, index NoteIndex, exports ObjectUploader, logger *logrus.Logger) *NoteService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &NoteService{Repo: notes, Index: index, Exports: exports, Logger: logger, now: time.Now}
}

type NoteInput struct {
	Title   string
	Content string
}

func (in NoteInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return invalid("title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return invalid("content is required")
	}
	return nil
}

func (s *NoteService) List(ctx context.Context, ownerID string) ([]entity.Note, error) {
	notes, err := s.Repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (s *NoteService) Create(ctx context.Context, ownerID string, in NoteInput) (*entity.Note, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	n := &entity.Note{OwnerID: ownerID, Title: in.Title, Content: in.Content}
	err := s.Repo.Create(ctx, n)
	metrics.ObserveNote("create", err)
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	s.index(ctx, *n)
	return n, nil
}

// Update is a single write conditioned on both id and owner, so a foreign
// note and a missing note are indistinguishable.
func (s *NoteService) Update(ctx context.Context, id, ownerID string, in NoteInput) (*entity.Note, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	n := &entity.Note{ID: id, OwnerID: ownerID, Title: in.Title, Content: in.Content}
	err := s.Repo.Update(ctx, n)
	metrics.ObserveNote("update", err)
	if err != nil {
		return nil, notFoundOr(err, "update note")
	}
	s.index(ctx, *n)
	return n, nil
}

func (s *NoteService) Delete(ctx context.Context, id, ownerID string) error {
	err := s.Repo.Delete(ctx, id, ownerID)
	metrics.ObserveNote("delete", err)
	if err != nil {
		return notFoundOr(err, "delete note")
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			s.Logger.WithError(err).WithField("note_id", id).Warn("remove note from index failed")
		}
	}
	return nil
}

// Search uses the full-text index when present. Hits are re-read through the
// repository so a stale index can never surface another owner's note.
func (s *NoteService) Search(ctx context.Context, ownerID, query string) ([]entity.Note, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("query is required")
	}
	if s.Index == nil {
		return s.Repo.SearchByOwner(ctx, ownerID, query, DefaultSearchLimit)
	}

	ids, err := s.Index.Search(ctx, ownerID, query, DefaultSearchLimit)
	if err != nil {
		s.Logger.WithError(err).Warn("index search failed, falling back to repository")
		return s.Repo.SearchByOwner(ctx, ownerID, query, DefaultSearchLimit)
	}
	out := make([]entity.Note, 0, len(ids))
	for _, id := range ids {
		n, err := s.Repo.GetOwned(ctx, id, ownerID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("load note %s: %w", id, err)
		}
		out = append(out, *n)
	}
	return out, nil
}

// Export uploads a JSON snapshot of the owner's notes and returns its URL.
func (s *NoteService) Export(ctx context.Context, ownerID string) (string, error) {
	if s.Exports == nil {
		return "", ErrExportUnavailable
	}
	notes, err := s.List(ctx, ownerID)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(struct {
		OwnerID    string        `json:"owner_id"`
		ExportedAt time.Time     `json:"exported_at"`
		Notes      []entity.Note `json:"notes"`
	}{ownerID, s.now().UTC(), notes})
	if err != nil {
		return "", fmt.Errorf("encode export: %w", err)
	}
	objectPath := path.Join("exports", ownerID, uuid.NewString()+".json")
	url, err := s.Exports.Upload(ctx, objectPath, "application/json", bytes.NewReader(body))
	metrics.ObserveNote("export", err)
	if err != nil {
		return "", fmt.Errorf("upload export: %w", err)
	}
	s.Logger.WithFields(logrus.Fields{"user_id": ownerID, "notes": len(notes)}).Info("notes exported")
	return url, nil
}

func (s *NoteService) index(ctx context.Context, n entity.Note) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, n); err != nil {
		s.Logger.WithError(err).WithField("note_id", n.ID).Warn("index note failed")
	}
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNoteNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

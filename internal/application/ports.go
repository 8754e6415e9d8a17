package application

import (
	"context"
	"io"
	"time"

	"github.com/oksasatya/go-notes-sync/internal/domain/entity"
)

// PasswordHasher is satisfied by helpers.BcryptHasher.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// SessionIssuer is satisfied by helpers.JWTManager.
type SessionIssuer interface {
	Issue(userID string) (string, time.Time, error)
}

// JobPublisher is satisfied by helpers.RabbitQueue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// NoteIndex is a secondary full-text index over notes. Search returns note ids
// owned by ownerID, best match first.
type NoteIndex interface {
	Index(ctx context.Context, n entity.Note) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, ownerID, query string, size int) ([]string, error)
}

// ObjectUploader is satisfied by helpers.GCSUploader.
type ObjectUploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

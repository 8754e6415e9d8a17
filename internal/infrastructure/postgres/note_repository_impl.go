package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-notes-sync/internal/domain/entity"
	"github.com/oksasatya/go-notes-sync/internal/domain/repository"
)

type NoteRepository struct {
	pool *pgxpool.Pool
}

func NewNoteRepository(pool *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{pool: pool}
}

const noteColumns = `id, owner_id, title, content, created_at, updated_at`

func (r *NoteRepository) ListByOwner(ctx context.Context, ownerID string) ([]entity.Note, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+noteColumns+`
		FROM notes
		WHERE owner_id = $1
		ORDER BY created_at ASC, id ASC
	`, ownerID)
	if err != nil {
		return nil, mapErr(err)
	}
	return collectNotes(rows)
}

func (r *NoteRepository) Create(ctx context.Context, n *entity.Note) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO notes (owner_id, title, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, n.OwnerID, n.Title, n.Content)

	return mapErr(row.Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt))
}

func (r *NoteRepository) GetOwned(ctx context.Context, id, ownerID string) (*entity.Note, error) {
	n := &entity.Note{}
	err := r.pool.QueryRow(ctx, `
		SELECT `+noteColumns+`
		FROM notes
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID).Scan(&n.ID, &n.OwnerID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return n, nil
}

// Update is a single conditional write, so a foreign note and a missing note
// are rejected by the same statement.
func (r *NoteRepository) Update(ctx context.Context, n *entity.Note) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE notes
		SET title = $1, content = $2, updated_at = $3
		WHERE id = $4 AND owner_id = $5
		RETURNING created_at, updated_at
	`, n.Title, n.Content, time.Now(), n.ID, n.OwnerID).Scan(&n.CreatedAt, &n.UpdatedAt)
	return mapErr(err)
}

func (r *NoteRepository) Delete(ctx context.Context, id, ownerID string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *NoteRepository) SearchByOwner(ctx context.Context, ownerID, query string, limit int) ([]entity.Note, error) {
	pattern := "%" + escapeLike(query) + "%"
	rows, err := r.pool.Query(ctx, `
		SELECT `+noteColumns+`
		FROM notes
		WHERE owner_id = $1 AND (title ILIKE $2 OR content ILIKE $2)
		ORDER BY created_at ASC, id ASC
		LIMIT $3
	`, ownerID, pattern, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	return collectNotes(rows)
}

func collectNotes(rows pgx.Rows) ([]entity.Note, error) {
	notes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Note, error) {
		var n entity.Note
		err := row.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)
		return n, err
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return notes, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

var _ repository.NoteRepository = (*NoteRepository)(nil)

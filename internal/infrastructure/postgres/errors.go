package postgres

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-notes-sync/internal/domain/repository"
)

// mapErr translates driver errors into repository sentinels.
// A malformed uuid in a lookup is indistinguishable from a missing row to callers.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			if pgErr.ConstraintName == "users_email_key" {
				return repository.ErrDuplicateEmail
			}
		case pgerrcode.InvalidTextRepresentation:
			return repository.ErrNotFound
		}
	}
	return err
}

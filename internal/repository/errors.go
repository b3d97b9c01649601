package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrInUse is returned when a row cannot be deleted because others reference it.
	ErrInUse = errors.New("record referenced by other records")
	// ErrConstraint is returned when a CHECK constraint rejects a write.
	ErrConstraint = errors.New("record violates a check constraint")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicate
		case pgForeignKeyViolation:
			return ErrInUse
		case pgCheckViolation:
			return ErrConstraint
		}
	}
	return err
}

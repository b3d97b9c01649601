package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	apperrors "github.com/spec-kit/car-rental/pkg/util/errorutil"
)

// notFoundOr maps a missing row to a 404 for resource and anything else to a 500.
func notFoundOr(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return apperrors.NewInternalError(err)
}

// validID reports whether id can reference a stored row. Malformed ids are
// answered as not found without a store round trip.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

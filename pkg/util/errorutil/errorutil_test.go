package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"domain error passes through", NewConflict("taken", nil), http.StatusConflict, "CONFLICT"},
		{"wrapped domain error", fmt.Errorf("ctx: %w", NewForbidden("no")), http.StatusForbidden, "FORBIDDEN"},
		{"fiber not found", fiber.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"fiber unprocessable", fiber.ErrUnprocessableEntity, http.StatusUnprocessableEntity, "BAD_REQUEST"},
		{"missing row", fmt.Errorf("load: %w", pgx.ErrNoRows), http.StatusNotFound, "NOT_FOUND"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			de := ToDomainError(tc.err)
			assert.Equal(t, tc.status, de.HTTPStatus)
			assert.Equal(t, tc.code, de.Code)
		})
	}
	assert.Nil(t, ToDomainError(nil))
}

func TestInternalErrorHidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	de := ToDomainError(NewInternalError(cause))

	assert.Equal(t, "internal server error", de.Message)
	assert.ErrorIs(t, de, cause)
}

func TestFieldValidationErrorCarriesFields(t *testing.T) {
	fields := []FieldError{{Field: "email", Message: "Please enter a valid email"}}
	de := ToDomainError(NewFieldValidationError(fields))

	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	assert.Equal(t, fields, de.Details["errors"])
}

func TestTooManyRequestsCarriesRetryAfter(t *testing.T) {
	de := ToDomainError(NewTooManyRequests(3))
	assert.Equal(t, http.StatusTooManyRequests, de.HTTPStatus)
	assert.Equal(t, 3, de.Details["retry_after"])
}

package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/car-rental/pkg/util/errorutil"
)

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	require.Equal(t, "VALIDATION_FAILED", de.Code)
	fields, ok := de.Details["errors"].([]apperrors.FieldError)
	require.True(t, ok)
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f.Field] = f.Message
	}
	return out
}

func TestParseISO8601(t *testing.T) {
	tests := map[string]time.Time{
		"2024-01-04":                time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
		"2024-01-04T10:30:00Z":      time.Date(2024, 1, 4, 10, 30, 0, 0, time.UTC),
		"2024-01-04T10:30:00.123Z":  time.Date(2024, 1, 4, 10, 30, 0, 123000000, time.UTC),
		"2024-01-04T10:30:00+02:00": time.Date(2024, 1, 4, 8, 30, 0, 0, time.UTC),
		" 2024-01-04T10:30:00 ":     time.Date(2024, 1, 4, 10, 30, 0, 0, time.UTC),
	}
	for in, want := range tests {
		got, err := ParseISO8601(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s: got %s", in, got)
	}

	for _, bad := range []string{"", "tomorrow", "04/01/2024", "2024-13-01"} {
		_, err := ParseISO8601(bad)
		assert.Error(t, err, bad)
	}
}

func TestValidateRegisterAggregatesFields(t *testing.T) {
	fields := fieldErrors(t, Validate(&UserRegisterRequest{Email: "bad"}))
	assert.Equal(t, map[string]string{
		"name":     "Name is required",
		"email":    "Please enter a valid email",
		"password": "Password must be at least 6 characters",
	}, fields)

	assert.NoError(t, Validate(&UserRegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1"}))
}

func TestValidateUsesRuleSpecificMessage(t *testing.T) {
	fields := fieldErrors(t, Validate(&UserRegisterRequest{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: strings.Repeat("x", 80),
	}))
	assert.Equal(t, map[string]string{"password": "Password is too long"}, fields)
}

func TestValidateRejectsBlankStrings(t *testing.T) {
	year, price := 2022, 40.0
	fields := fieldErrors(t, Validate(&CreateCarRequest{
		Make: "   ", Model: "Yaris", Year: &year, Category: "\t", PricePerDay: &price,
	}))
	assert.Equal(t, map[string]string{
		"make":     "Make is required",
		"category": "Category is required",
	}, fields)

	blank := " "
	fields = fieldErrors(t, Validate(&UpdateCarRequest{Model: &blank}))
	assert.Equal(t, map[string]string{"model": "Model cannot be empty"}, fields)

	fields = fieldErrors(t, Validate(&UserRegisterRequest{Name: "  ", Email: "ana@example.com", Password: "secret1"}))
	assert.Equal(t, map[string]string{"name": "Name is required"}, fields)
}

func TestValidateCarRequests(t *testing.T) {
	fields := fieldErrors(t, Validate(&CreateCarRequest{}))
	assert.Equal(t, "Make is required", fields["make"])
	assert.Equal(t, "Model is required", fields["model"])
	assert.Equal(t, "Year must be a number", fields["year"])
	assert.Equal(t, "Category is required", fields["category"])
	assert.Contains(t, fields, "pricePerDay")

	negative := -5.0
	fields = fieldErrors(t, Validate(&UpdateCarRequest{PricePerDay: &negative}))
	assert.Equal(t, map[string]string{"pricePerDay": "Price per day must be a positive number"}, fields)

	assert.NoError(t, Validate(&UpdateCarRequest{}))
}

func TestValidateBookingRequests(t *testing.T) {
	fields := fieldErrors(t, Validate(&CreateBookingRequest{StartDate: "soon", EndDate: "2024-01-02"}))
	assert.Equal(t, map[string]string{
		"car":       "Car ID is required",
		"startDate": "Valid start date is required",
	}, fields)

	bad := "later"
	fields = fieldErrors(t, Validate(&UpdateBookingRequest{EndDate: &bad}))
	assert.Equal(t, map[string]string{"endDate": "Valid end date is required"}, fields)
}

func TestDecodeErrorNamesField(t *testing.T) {
	var req CreateCarRequest
	err := json.Unmarshal([]byte(`{"year":"new"}`), &req)
	require.Error(t, err)

	fields := fieldErrors(t, DecodeError(err))
	assert.Equal(t, map[string]string{"year": "year must be a number"}, fields)

	de := apperrors.ToDomainError(DecodeError(json.Unmarshal([]byte(`{`), &req)))
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
}

func TestCreateCarDefaultsAvailability(t *testing.T) {
	year, price := 2022, 45.0
	car := CreateCarRequest{Make: "Kia", Model: "Rio", Year: &year, Category: "compact", PricePerDay: &price}.ToDomain()
	assert.True(t, car.Availability)
	assert.Equal(t, 45.0, car.PricePerDay)

	off := false
	car = CreateCarRequest{Availability: &off}.ToDomain()
	assert.False(t, car.Availability)
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func readyResponse(t *testing.T, deps map[string]Pinger) (int, map[string]any) {
	t.Helper()
	app := fiber.New()
	app.Get("/health/ready", NewHealthHandler("car-rental", "test", deps).Ready)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestReadyReportsEveryDependency(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })

	status, body := readyResponse(t, map[string]Pinger{"postgres": ok, "redis": ok})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, map[string]any{"postgres": "ok", "redis": "ok"}, body["dependencies"])
}

func TestReadyFailsWhenADependencyIsDown(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	status, body := readyResponse(t, map[string]Pinger{"postgres": ok, "redis": down})
	assert.Equal(t, http.StatusServiceUnavailable, status)
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, "ok", details["postgres"])
	assert.Equal(t, "connection refused", details["redis"])
}

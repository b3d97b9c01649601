package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5000", cfg.App.Addr())
	assert.False(t, cfg.App.IsProduction())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, 43200, cfg.Auth.AccessTokenTTLMinutes)
	assert.Equal(t, 60*time.Second, cfg.Cache.CarListTTL)
	assert.Equal(t, "car-rental.events", cfg.Broker.Exchange)
	assert.Empty(t, cfg.Tracing.OTLPEndpoint)
}

func TestLoadReadsFlatKeys(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/cars")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("CACHE_CAR_LIST_TTL", "5m")
	t.Setenv("RATE_LIMIT_CAPACITY", "7")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "postgres://localhost/cars", cfg.Postgres.DSN)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Cache.CarListTTL)
	assert.Equal(t, 7, cfg.RateLimit.Capacity)
	assert.Zero(t, cfg.App.RequestTimeout())
}

func TestLoadRejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("AUTH_JWT_SECRET", "a-real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.App.IsProduction())
}

func TestLoadClampsRateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.RateLimit.Capacity)
	assert.Equal(t, 10*time.Second, cfg.RateLimit.TTL)
}

func TestLoadKeepsRateLimitTTLAtLeastOneSecond(t *testing.T) {
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "100ms")
	t.Setenv("RATE_LIMIT_TTL", "100ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.RateLimit.TTL)
}

func TestLoadRejectsNonPositiveTokenTTL(t *testing.T) {
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "0")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsOutOfRangeSampleRatio(t *testing.T) {
	t.Setenv("OTEL_TRACES_SAMPLE_RATIO", "1.5")

	_, err := Load()
	require.Error(t, err)
}

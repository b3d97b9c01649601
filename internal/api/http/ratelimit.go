package http

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/car-rental/internal/config"
	apperrors "github.com/spec-kit/car-rental/pkg/util/errorutil"
)

// tokenBucketScript refills a per-key bucket in whole intervals and takes one
// token. It returns {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill_tokens = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])
local ttl_seconds = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now_ms
end

if interval_ms > 0 and refill_tokens > 0 then
	local elapsed = math.max(0, now_ms - last_refill)
	local intervals = math.floor(elapsed / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + (intervals * refill_tokens))
		last_refill = last_refill + (intervals * interval_ms)
	end
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)

return { allowed, tokens, retry_after_ms }
`)

// RateLimiter guards routes with a Redis token bucket keyed by client IP and route.
type RateLimiter struct {
	cfg    config.RateLimitConfig
	client *redis.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewRateLimiter builds the limiter. A nil client or a disabled config makes
// Handle a pass-through.
func NewRateLimiter(cfg config.RateLimitConfig, client *redis.Client, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{cfg: cfg, client: client, logger: logger, now: time.Now}
}

// Handle takes one token for the request or answers 429 with Retry-After.
// Redis failures let the request through.
func (l *RateLimiter) Handle(c *fiber.Ctx) error {
	if !l.cfg.Enabled || l.client == nil {
		return c.Next()
	}

	key := l.key(c)
	vals, err := tokenBucketScript.Run(c.UserContext(), l.client, []string{key},
		l.now().UnixMilli(),
		l.cfg.Capacity,
		l.cfg.RefillTokens,
		l.cfg.RefillInterval.Milliseconds(),
		ttlSeconds(l.cfg.TTL),
	).Int64Slice()
	if err != nil || len(vals) != 3 {
		l.logger.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
		return c.Next()
	}

	c.Set("X-RateLimit-Limit", strconv.Itoa(l.cfg.Capacity))
	c.Set("X-RateLimit-Remaining", strconv.FormatInt(vals[1], 10))

	if vals[0] != 1 {
		secs := int(math.Ceil(float64(vals[2]) / 1000.0))
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(secs))
		return apperrors.NewTooManyRequests(secs)
	}
	return c.Next()
}

func (l *RateLimiter) key(c *fiber.Ctx) string {
	ip := c.IP()
	if ip == "" {
		ip = "unknown"
	}
	return strings.Join([]string{l.cfg.Prefix, "ip", ip, "route", c.Method() + " " + routePath(c)}, ":")
}

// routePath names the matched route without the /api mount, so both mounts
// share one bucket.
func routePath(c *fiber.Ctx) string {
	path := c.Route().Path
	if path == "" {
		path = c.Path()
	}
	if strings.HasPrefix(path, apiPrefix+"/") {
		path = strings.TrimPrefix(path, apiPrefix)
	}
	return path
}

// ttlSeconds rounds up; EXPIRE with 0 would delete the bucket.
func ttlSeconds(ttl time.Duration) int64 {
	secs := int64(math.Ceil(ttl.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shieldgate/internal/domain/ratelimit"
)

// fixedWindowScript applies the same rules as ratelimit.WindowState.Admit to a
// hash, atomically. Times are unix milliseconds supplied by the caller.
//
// KEYS[1] = counter hash
// ARGV    = now, per-minute limit, per-hour limit, minute ms, hour ms, grace ms
// returns {allowed, window(0 none/1 minute/2 hour), minute_count, minute_reset, hour_count, hour_reset}
var fixedWindowScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local per_minute = tonumber(ARGV[2])
local per_hour = tonumber(ARGV[3])
local minute_ms = tonumber(ARGV[4])
local hour_ms = tonumber(ARGV[5])
local grace_ms = tonumber(ARGV[6])

local s = redis.call('HMGET', KEYS[1], 'mc', 'mr', 'hc', 'hr')
local mc = tonumber(s[1]) or 0
local mr = tonumber(s[2]) or 0
local hc = tonumber(s[3]) or 0
local hr = tonumber(s[4]) or 0

if now >= mr then
  mc = 0
  mr = now + minute_ms
end
if now >= hr then
  hc = 0
  hr = now + hour_ms
end

local allowed = 0
local window = 0
if mc >= per_minute then
  window = 1
elseif hc >= per_hour then
  window = 2
else
  mc = mc + 1
  hc = hc + 1
  allowed = 1
end

redis.call('HSET', KEYS[1], 'mc', mc, 'mr', mr, 'hc', hc, 'hr', hr)
-- relative ttl: the caller's clock and the server's may disagree
redis.call('PEXPIRE', KEYS[1], math.max(1, hr + grace_ms - now))

return {allowed, window, mc, mr, hc, hr}
`)

// RedisStore keeps window counters in Redis so that several instances share
// one counting authority. Idle keys expire on their own once the hour window
// has been closed for the grace period, so no sweep is needed.
type RedisStore struct {
	client     redis.Cmdable
	prefix     string
	staleAfter time.Duration
}

type RedisStoreOption func(*RedisStore)

func WithRedisStaleAfter(d time.Duration) RedisStoreOption {
	return func(s *RedisStore) { s.staleAfter = d }
}

func NewRedisStore(client redis.Cmdable, prefix string, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client:     client,
		prefix:     prefix,
		staleAfter: DefaultStaleAfter,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check implements ratelimit.CounterStore.
func (s *RedisStore) Check(ctx context.Context, key string, limits ratelimit.Limits, now time.Time) (ratelimit.Decision, error) {
	res, err := fixedWindowScript.Run(ctx, s.client, []string{s.getKey(key)},
		now.UnixMilli(),
		limits.PerMinute,
		limits.PerHour,
		ratelimit.MinuteWindow.Milliseconds(),
		ratelimit.HourWindow.Milliseconds(),
		s.staleAfter.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return ratelimit.Decision{}, fmt.Errorf("failed to run fixed window script: %w", err)
	}
	if len(res) != 6 {
		return ratelimit.Decision{}, fmt.Errorf("unexpected fixed window script reply of length %d", len(res))
	}

	state := ratelimit.WindowState{
		MinuteCount:   int(res[2]),
		MinuteResetAt: time.UnixMilli(res[3]),
		HourCount:     int(res[4]),
		HourResetAt:   time.UnixMilli(res[5]),
	}

	switch res[1] {
	case 1:
		return ratelimit.Decision{
			Limit:      limits.PerMinute,
			ResetAt:    state.MinuteResetAt,
			RetryAfter: state.MinuteResetAt.Sub(now),
			Window:     ratelimit.WindowMinute,
		}, nil
	case 2:
		return ratelimit.Decision{
			Limit:      limits.PerHour,
			ResetAt:    state.HourResetAt,
			RetryAfter: state.HourResetAt.Sub(now),
			Window:     ratelimit.WindowHour,
		}, nil
	}

	return ratelimit.Decision{
		Allowed:   res[0] == 1,
		Limit:     limits.PerMinute,
		Remaining: limits.PerMinute - state.MinuteCount,
		ResetAt:   state.MinuteResetAt,
	}, nil
}

// Reset implements ratelimit.Resetter.
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.getKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) getKey(key string) string {
	return fmt.Sprintf("%s:%s", s.prefix, key)
}

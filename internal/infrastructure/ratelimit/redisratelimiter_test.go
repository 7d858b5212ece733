package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shieldgate/internal/domain/ratelimit"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return client, mr
}

func TestRedisStore_Check_PerMinute(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewRedisStore(client, "test")
	limits := ratelimit.Limits{PerMinute: 2, PerHour: 10}
	now := time.Now()

	var remaining []int
	var allowed []bool
	var last ratelimit.Decision
	for i := 0; i < 3; i++ {
		dec, err := store.Check(context.Background(), "ip:1.2.3.4", limits, now)
		require.NoError(t, err)
		allowed = append(allowed, dec.Allowed)
		remaining = append(remaining, dec.Remaining)
		last = dec
	}

	assert.Equal(t, []bool{true, true, false}, allowed)
	assert.Equal(t, []int{1, 0, 0}, remaining)
	assert.Equal(t, ratelimit.WindowMinute, last.Window)
	assert.Equal(t, 60, last.RetryAfterSeconds())
}

func TestRedisStore_Check_PerHour(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewRedisStore(client, "test")
	limits := ratelimit.Limits{PerMinute: 10, PerHour: 3}
	now := time.Now()

	for i := 0; i < 3; i++ {
		dec, err := store.Check(context.Background(), "k", limits, now)
		require.NoError(t, err)
		assert.True(t, dec.Allowed, "request %d should be allowed", i+1)
	}

	dec, err := store.Check(context.Background(), "k", limits, now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.False(t, dec.Allowed, "4th request should be denied by hour limit")
	assert.Equal(t, ratelimit.WindowHour, dec.Window)
	assert.Equal(t, 3, dec.Limit)
}

func TestRedisStore_Check_MinuteRollover(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewRedisStore(client, "test")
	limits := ratelimit.Limits{PerMinute: 1, PerHour: 10}
	now := time.Now()

	dec, err := store.Check(context.Background(), "k", limits, now)
	require.NoError(t, err)
	require.True(t, dec.Allowed)

	dec, err = store.Check(context.Background(), "k", limits, now.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, dec.Allowed, "minute window should have rolled over")
}

func TestRedisStore_KeyExpiresAfterGrace(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewRedisStore(client, "test", WithRedisStaleAfter(time.Hour))
	now := time.Now()

	_, err := store.Check(context.Background(), "k", ratelimit.Limits{PerMinute: 1, PerHour: 1}, now)
	require.NoError(t, err)

	ttl, err := client.PTTL(context.Background(), "test:k").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Hour+59*time.Minute)
	assert.LessOrEqual(t, ttl, 2*time.Hour)
}

func TestRedisStore_CallerClockBehindServer(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisStore(client, "test", WithRedisStaleAfter(time.Hour))
	limits := ratelimit.Limits{PerMinute: 2, PerHour: 10}
	now := time.Now().Add(-3 * time.Hour)

	var allowed []bool
	for i := 0; i < 3; i++ {
		dec, err := store.Check(context.Background(), "ip:1.2.3.4", limits, now)
		require.NoError(t, err)
		allowed = append(allowed, dec.Allowed)
	}

	assert.Equal(t, []bool{true, true, false}, allowed)
	require.True(t, mr.Exists("test:ip:1.2.3.4"))
	assert.Greater(t, mr.TTL("test:ip:1.2.3.4"), time.Hour+59*time.Minute)
}

func TestRedisStore_Reset(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewRedisStore(client, "test")
	limits := ratelimit.Limits{PerMinute: 1, PerHour: 10}
	now := time.Now()

	_, err := store.Check(context.Background(), "k", limits, now)
	require.NoError(t, err)

	dec, err := store.Check(context.Background(), "k", limits, now)
	require.NoError(t, err)
	require.False(t, dec.Allowed)

	require.NoError(t, store.Reset(context.Background(), "k"))

	dec, err = store.Check(context.Background(), "k", limits, now)
	require.NoError(t, err)
	assert.True(t, dec.Allowed, "should be allowed after reset")
}

func TestStoreFactory_NewStore(t *testing.T) {
	mem, err := StoreFactory{Backend: BackendMemory}.NewStore(ratelimit.TierFree)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, mem)

	_, err = StoreFactory{Backend: BackendRedis}.NewStore(ratelimit.TierFree)
	assert.Error(t, err, "redis backend without client must fail")

	_, err = StoreFactory{Backend: "memcached"}.NewStore(ratelimit.TierFree)
	assert.Error(t, err)

	client, _ := setupTestRedis(t)
	rs, err := StoreFactory{Backend: BackendRedis, RedisClient: client, KeyPrefix: "rl"}.NewStore(ratelimit.TierPremium)
	require.NoError(t, err)
	assert.Equal(t, "rl:premium:ip:1.2.3.4", rs.(*RedisStore).getKey("ip:1.2.3.4"))
}

func TestRedisStore_KeyExpiresAndStartsFresh(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisStore(client, "test", WithRedisStaleAfter(time.Hour))
	limits := ratelimit.Limits{PerMinute: 1, PerHour: 1}
	now := time.Now()

	_, err := store.Check(context.Background(), "k", limits, now)
	require.NoError(t, err)
	require.True(t, mr.Exists("test:k"))

	mr.FastForward(2*time.Hour + time.Second)
	assert.False(t, mr.Exists("test:k"))

	dec, err := store.Check(context.Background(), "k", limits, now.Add(2*time.Hour+time.Second))
	require.NoError(t, err)
	assert.True(t, dec.Allowed)
}

func TestRedisStore_Check_ServerDown(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisStore(client, "test")
	mr.Close()

	_, err := store.Check(context.Background(), "k", ratelimit.Limits{PerMinute: 1, PerHour: 1}, time.Now())
	assert.Error(t, err)
}

func TestRedisStore_TiersUseDisjointKeys(t *testing.T) {
	client, mr := setupTestRedis(t)
	factory := StoreFactory{Backend: BackendRedis, RedisClient: client, KeyPrefix: "rl"}
	limits := ratelimit.Limits{PerMinute: 1, PerHour: 10}
	now := time.Now()

	free, err := factory.NewStore(ratelimit.TierFree)
	require.NoError(t, err)
	basic, err := factory.NewStore(ratelimit.TierBasic)
	require.NoError(t, err)

	dec, err := free.Check(context.Background(), "user:1", limits, now)
	require.NoError(t, err)
	require.True(t, dec.Allowed)

	dec, err = basic.Check(context.Background(), "user:1", limits, now)
	require.NoError(t, err)
	assert.True(t, dec.Allowed)

	assert.True(t, mr.Exists("rl:free:user:1"))
	assert.True(t, mr.Exists("rl:basic:user:1"))
}

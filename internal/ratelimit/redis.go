package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "contact:window:"

// takeScript prunes, checks and appends in one round trip so concurrent
// attempts from the same client cannot race past the limit. Scores and the
// now/window arguments are epoch microseconds.
var takeScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call("ZREMRANGEBYSCORE", key, 0, now - window)
local count = redis.call("ZCARD", key)
if count >= limit then
  local oldestScore = 0
  local oldest = redis.call("ZRANGE", key, 0, 0, "WITHSCORES")
  if oldest[2] then
    oldestScore = tonumber(oldest[2])
  end
  return {0, count, oldestScore}
end

redis.call("ZADD", key, now, member)
redis.call("PEXPIRE", key, math.ceil(window / 1000))
return {1, count + 1, 0}
`)

// RedisStore persists sliding windows in Redis sorted sets, one set per hashed
// client identifier.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Client exposes the underlying connection so other components can share it.
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

// Ping checks if Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Take implements Store.
func (s *RedisStore) Take(ctx context.Context, identifier string, limit int, window time.Duration) (Decision, error) {
	key := redisKeyPrefix + Key(identifier)
	now := time.Now()
	member := fmt.Sprintf("%d-%s", now.UnixMicro(), uuid.NewString())

	res, err := takeScript.Run(ctx, s.client,
		[]string{key},
		now.UnixMicro(),
		window.Microseconds(),
		limit,
		member,
	).Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit script failed: %w", err)
	}
	if len(res) != 3 {
		return Decision{}, fmt.Errorf("rate limit script returned %d values, want 3", len(res))
	}

	allowed, _ := res[0].(int64)
	count, _ := res[1].(int64)
	oldest, _ := res[2].(int64)

	decision := Decision{
		Allowed: allowed == 1,
		Count:   int(count),
	}
	if !decision.Allowed {
		expiry := time.UnixMicro(oldest).Add(window)
		if retryAfter := expiry.Sub(now); retryAfter > 0 {
			decision.RetryAfter = retryAfter
		}
	}

	return decision, nil
}

// Peek implements Store.
func (s *RedisStore) Peek(ctx context.Context, identifier string, window time.Duration) ([]time.Time, error) {
	key := redisKeyPrefix + Key(identifier)
	now := time.Now()

	cutoff := now.Add(-window).UnixMicro()
	if err := s.client.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", cutoff)).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune window: %w", err)
	}

	scores, err := s.client.ZRangeWithScores(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read window: %w", err)
	}

	timestamps := make([]time.Time, 0, len(scores))
	for _, z := range scores {
		timestamps = append(timestamps, time.UnixMicro(int64(z.Score)))
	}
	return timestamps, nil
}

// Reset implements Store.
func (s *RedisStore) Reset(ctx context.Context, identifier string) error {
	return s.client.Del(ctx, redisKeyPrefix+Key(identifier)).Err()
}

package quota

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "rfa:quota:"

// incrBelow increments KEYS[1] unless it already reached ARGV[1]; a fresh
// key gets a TTL of ARGV[2] seconds so old days expire on their own.
var incrBelow = redis.NewScript(`
local n = tonumber(redis.call('GET', KEYS[1]) or '0')
if n >= tonumber(ARGV[1]) then
  return {n, 0}
end
n = redis.call('INCR', KEYS[1])
if n == 1 then
  redis.call('EXPIRE', KEYS[1], ARGV[2])
end
return {n, 1}
`)

// RedisStore keeps counters in Redis, shared by every instance.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore returns a store over rdb. Keys expire ttl after creation;
// ttl should exceed one day.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 48 * time.Hour
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, k Key) (int, error) {
	n, err := s.rdb.Get(ctx, redisPrefix+k.String()).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (s *RedisStore) IncrementBelow(ctx context.Context, k Key, limit int) (int, bool, error) {
	res, err := incrBelow.Run(ctx, s.rdb, []string{redisPrefix + k.String()}, limit, int64(s.ttl/time.Second)).Int64Slice()
	if err != nil {
		return 0, false, err
	}
	if len(res) != 2 {
		return 0, false, errors.New("quota: unexpected script reply")
	}
	return int(res[0]), res[1] == 1, nil
}

// Purge deletes counters of days before the cutoff that somehow lost their
// TTL. Expiry normally reclaims them first.
func (s *RedisStore) Purge(ctx context.Context, before time.Time) (int, error) {
	cutoff := before.Format(dayLayout)
	n := 0
	iter := s.rdb.Scan(ctx, 0, redisPrefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		parts := strings.Split(strings.TrimPrefix(key, redisPrefix), ":")
		if len(parts) < 3 {
			continue
		}
		if day := parts[len(parts)-2]; day < cutoff {
			if err := s.rdb.Del(ctx, key).Err(); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, iter.Err()
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

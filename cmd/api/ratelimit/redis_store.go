package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// admitScript 는 Limiter.Admit 과 같은 규칙을 Redis 안에서 원자적으로 수행한다.
// KEYS[1]=key, ARGV = limit, window(ms), now(ms)
// 반환: {allowed(0|1), retryAfter(ms)}
var admitScript = redis.NewScript(`
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local count = tonumber(redis.call('HGET', KEYS[1], 'count') or '0')
local start = tonumber(redis.call('HGET', KEYS[1], 'start') or ARGV[3])

if now - start > window then
  count = 0
  start = now
end

if count >= limit then
  local retry = start + window - now
  if retry < 0 then retry = 0 end
  return {0, retry}
end

count = count + 1
redis.call('HSET', KEYS[1], 'count', count, 'start', start)
redis.call('PEXPIRE', KEYS[1], window * 2)
return {1, 0}
`)

// RedisStore 는 여러 API 프로세스가 카운터를 공유할 때 사용한다.
// 엔트리는 Redis Hash(count, start[unix ms]) 로 저장되고 만료는 Redis TTL 이 담당한다.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore 는 URL(예: redis://:pass@host:6379/0)로 클라이언트를 만들고 Ping 으로 확인한다.
func NewRedisStore(ctx context.Context, redisURL, prefix string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStoreFromClient(rdb, prefix, ttl), nil
}

func NewRedisStoreFromClient(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(k string) string { return s.prefix + k }

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	m, err := s.rdb.HGetAll(ctx, s.key(key)).Result()
	if err != nil {
		return Entry{}, false, err
	}
	if len(m) == 0 {
		return Entry{}, false, nil
	}

	count, err := strconv.Atoi(m["count"])
	if err != nil {
		return Entry{}, false, fmt.Errorf("parse count: %w", err)
	}
	startMs, err := strconv.ParseInt(m["start"], 10, 64)
	if err != nil {
		return Entry{}, false, fmt.Errorf("parse start: %w", err)
	}
	return Entry{Count: count, WindowStart: time.UnixMilli(startMs)}, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, e Entry) error {
	kv := map[string]string{
		"count": strconv.Itoa(e.Count),
		"start": strconv.FormatInt(e.WindowStart.UnixMilli(), 10),
	}

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, s.key(key), kv)
	pipe.PExpire(ctx, s.key(key), s.ttl*2)

	_, err := pipe.Exec(ctx)
	return err
}

// Sweep is a no-op: Redis expires keys on its own.
func (s *RedisStore) Sweep(context.Context, time.Time) (int, error) {
	return 0, nil
}

func (s *RedisStore) Admit(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (Decision, error) {
	res, err := admitScript.Run(ctx, s.rdb, []string{s.key(key)},
		limit, window.Milliseconds(), now.UnixMilli()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("rate limit script: unexpected reply %v", res)
	}
	return Decision{
		Allowed:    res[0] == 1,
		RetryAfter: time.Duration(res[1]) * time.Millisecond,
	}, nil
}

func (s *RedisStore) Close() error { return s.rdb.Close() }

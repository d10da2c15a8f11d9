package lease

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/diamond-odds/internal/platform/id"
)

const defaultTTL = 30 * time.Minute

// releaseScript deletes the key only while it still holds our token, so an
// expired lease re-acquired by another replica is never removed.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

type redisClient interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd
}

// RedisLease is a cross-replica mutual exclusion lease on a single key.
type RedisLease struct {
	client redisClient
	key    string
	ttl    time.Duration
	ids    id.Generator
}

func NewRedisLease(client redisClient, key string, ttl time.Duration, ids id.Generator) *RedisLease {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &RedisLease{
		client: client,
		key:    strings.TrimSpace(key),
		ttl:    ttl,
		ids:    ids,
	}
}

// Acquire takes the lease when free. ok is false when another holder owns it.
// The returned release func gives the lease up early.
func (l *RedisLease) Acquire(ctx context.Context) (func(ctx context.Context) error, bool, error) {
	token, err := l.ids.NewID()
	if err != nil {
		return nil, false, fmt.Errorf("generate lease token: %w", err)
	}

	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire lease key=%s: %w", l.key, err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func(ctx context.Context) error {
		if err := l.client.Eval(ctx, releaseScript, []string{l.key}, token).Err(); err != nil {
			return fmt.Errorf("release lease key=%s: %w", l.key, err)
		}
		return nil
	}
	return release, true, nil
}

// NewRedisClient parses a redis:// URL into a client.
func NewRedisClient(rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

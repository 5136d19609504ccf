// Package cache holds the Redis-backed read cache for users.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/tasklane/internal/identity/domain"
	"github.com/felixgeelhaar/tasklane/pkg/observability"
)

const keyPrefix = "tasklane:user:"

// DefaultTTL applies when the configured TTL is not positive.
const DefaultTTL = 5 * time.Minute

// FenceTTL is how long an invalidation blocks writes of the same user. A
// read that loaded the row before a committed update must not repopulate
// the entry with the old profile.
const FenceTTL = 10 * time.Second

// setUnlessFenced writes KEYS[1] only while the fence KEYS[2] is absent.
var setUnlessFenced = redis.NewScript(`
if redis.call("EXISTS", KEYS[2]) == 1 then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
return 1
`)

type userSnapshot struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RedisUserCache stores user snapshots as JSON strings with a TTL.
type RedisUserCache struct {
	client  *redis.Client
	ttl     time.Duration
	logger  *slog.Logger
	metrics observability.Metrics
}

// NewRedisUserCache creates a cache over an existing client.
func NewRedisUserCache(client *redis.Client, ttl time.Duration, logger *slog.Logger, metrics observability.Metrics) *RedisUserCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &RedisUserCache{client: client, ttl: ttl, logger: logger, metrics: metrics}
}

func key(id int64) string {
	return keyPrefix + strconv.FormatInt(id, 10)
}

func fenceKey(id int64) string {
	return key(id) + ":fence"
}

// Get returns the cached user. Redis errors count as misses.
func (c *RedisUserCache) Get(ctx context.Context, id int64) (*domain.User, bool) {
	raw, err := c.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "user cache read failed", "user_id", id, "error", err)
		}
		c.metrics.Counter(observability.MetricUserCacheMisses, 1)
		return nil, false
	}

	var snap userSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		c.logger.WarnContext(ctx, "discarding corrupt user cache entry", "user_id", id, "error", err)
		c.Invalidate(ctx, id)
		c.metrics.Counter(observability.MetricUserCacheMisses, 1)
		return nil, false
	}

	c.metrics.Counter(observability.MetricUserCacheHits, 1)
	return domain.RehydrateUser(snap.ID, snap.Name, snap.Email, snap.CreatedAt, snap.UpdatedAt), true
}

// Set stores the user for the configured TTL unless an invalidation for the
// same id happened within FenceTTL.
func (c *RedisUserCache) Set(ctx context.Context, user *domain.User) {
	raw, err := json.Marshal(userSnapshot{
		ID:        user.ID(),
		Name:      user.Name().String(),
		Email:     user.Email().String(),
		CreatedAt: user.CreatedAt(),
		UpdatedAt: user.UpdatedAt(),
	})
	if err != nil {
		c.logger.WarnContext(ctx, "user cache encode failed", "user_id", user.ID(), "error", err)
		return
	}
	keys := []string{key(user.ID()), fenceKey(user.ID())}
	stored, err := setUnlessFenced.Run(ctx, c.client, keys, raw, c.ttl.Milliseconds()).Int()
	if err != nil {
		c.logger.WarnContext(ctx, "user cache write failed", "user_id", user.ID(), "error", err)
		return
	}
	if stored == 0 {
		c.logger.DebugContext(ctx, "user cache write skipped after invalidation", "user_id", user.ID())
	}
}

// Invalidate drops the entry for id and fences it for FenceTTL.
func (c *RedisUserCache) Invalidate(ctx context.Context, id int64) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key(id))
		pipe.Set(ctx, fenceKey(id), 1, FenceTTL)
		return nil
	})
	if err != nil {
		c.logger.WarnContext(ctx, "user cache invalidation failed", "user_id", id, "error", err)
	}
}

// Connect parses a redis:// URL and verifies the server answers.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

var _ domain.UserCache = (*RedisUserCache)(nil)

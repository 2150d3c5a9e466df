// Package cache is the Cache Layer: JSON values in Redis with per-key TTL.
//
// The cache is an optimization only. Every operation degrades to a safe default
// when Redis is unreachable (get = miss, set/del = no-op, counters = 0) and no
// error ever reaches the caller.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultOpTimeout = 500 * time.Millisecond

// Cache wraps a Redis client. A Cache with a nil client is disabled and
// behaves like a permanently unreachable store.
type Cache struct {
	client    *redis.Client
	opTimeout time.Duration
}

// New wraps client. Pass nil for a disabled cache.
func New(client *redis.Client, opTimeout time.Duration) *Cache {
	if opTimeout <= 0 {
		opTimeout = defaultOpTimeout
	}
	return &Cache{client: client, opTimeout: opTimeout}
}

// NewFromURL connects using a redis:// URL. An unreachable server is logged,
// not returned: the client reconnects on its own once Redis comes back.
func NewFromURL(ctx context.Context, url string, opTimeout time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	c := New(redis.NewClient(opts), opTimeout)
	if err := c.Ping(ctx); err != nil {
		slog.Warn("[Cache] Redis unreachable at startup, continuing degraded", "addr", opts.Addr, "error", err)
	} else {
		slog.Info("[Cache] Connected", "addr", opts.Addr)
	}
	return c, nil
}

func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *Cache) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.opTimeout)
}

func degraded(op, key string, err error) {
	slog.Warn("[Cache] Operation degraded", "op", op, "key", key, "error", err)
}

func encode(value any) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decode returns the JSON value of raw, or raw itself when it is not JSON.
func decode(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

// Get returns the decoded value stored at key.
func (c *Cache) Get(ctx context.Context, key string) (any, bool) {
	raw, ok := c.GetRaw(ctx, key)
	if !ok {
		return nil, false
	}
	return decode(raw), true
}

// GetRaw returns the stored string without decoding.
func (c *Cache) GetRaw(ctx context.Context, key string) (string, bool) {
	if !c.Enabled() {
		return "", false
	}
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	raw, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		degraded("get", key, err)
		return "", false
	}
	return raw, true
}

// GetInto decodes the value at key into dst. A value that does not decode is a miss.
func (c *Cache) GetInto(ctx context.Context, key string, dst any) bool {
	raw, ok := c.GetRaw(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		slog.Debug("[Cache] Undecodable entry treated as miss", "key", key, "error", err)
		return false
	}
	return true
}

// Set stores value under key. ttl <= 0 keeps the key without expiry.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	payload, err := encode(value)
	if err != nil {
		slog.Warn("[Cache] Value not serializable", "key", key, "error", err)
		return
	}
	if ttl < 0 {
		ttl = 0
	}

	ctx, cancel := c.opCtx(ctx)
	defer cancel()
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		degraded("set", key, err)
	}
}

func (c *Cache) Del(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	ctx, cancel := c.opCtx(ctx)
	defer cancel()
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		degraded("del", keys[0], err)
	}
}

// MGet returns one decoded value per key, nil where the key is missing.
func (c *Cache) MGet(ctx context.Context, keys ...string) []any {
	out := make([]any, len(keys))
	if !c.Enabled() || len(keys) == 0 {
		return out
	}
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		degraded("mget", keys[0], err)
		return out
	}
	for i, v := range vals {
		if s, ok := v.(string); ok {
			out[i] = decode(s)
		}
	}
	return out
}

// MSet stores all pairs in one pipeline, each with ttl.
func (c *Cache) MSet(ctx context.Context, pairs map[string]any, ttl time.Duration) {
	if !c.Enabled() || len(pairs) == 0 {
		return
	}
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	pipe := c.client.Pipeline()
	for key, value := range pairs {
		payload, err := encode(value)
		if err != nil {
			slog.Warn("[Cache] Value not serializable", "key", key, "error", err)
			continue
		}
		if ttl < 0 {
			ttl = 0
		}
		pipe.Set(ctx, key, payload, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		degraded("mset", "", err)
	}
}

func (c *Cache) Exists(ctx context.Context, key string) bool {
	if !c.Enabled() {
		return false
	}
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		degraded("exists", key, err)
		return false
	}
	return n > 0
}

// Incr increments key and refreshes its TTL, returning the new value or 0 when degraded.
func (c *Cache) Incr(ctx context.Context, key string, ttl time.Duration) int64 {
	if !c.Enabled() {
		return 0
	}
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		degraded("incr", key, err)
		return 0
	}
	return incr.Val()
}

func (c *Cache) HSet(ctx context.Context, key, field string, value any) {
	if !c.Enabled() {
		return
	}
	payload, err := encode(value)
	if err != nil {
		slog.Warn("[Cache] Value not serializable", "key", key, "field", field, "error", err)
		return
	}
	ctx, cancel := c.opCtx(ctx)
	defer cancel()
	if err := c.client.HSet(ctx, key, field, payload).Err(); err != nil {
		degraded("hset", key, err)
	}
}

func (c *Cache) HGet(ctx context.Context, key, field string) (any, bool) {
	if !c.Enabled() {
		return nil, false
	}
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	raw, err := c.client.HGet(ctx, key, field).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		degraded("hget", key, err)
		return nil, false
	}
	return decode(raw), true
}

// HGetAll returns every field of the hash decoded; empty when missing or degraded.
func (c *Cache) HGetAll(ctx context.Context, key string) map[string]any {
	out := map[string]any{}
	if !c.Enabled() {
		return out
	}
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	vals, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		degraded("hgetall", key, err)
		return out
	}
	for field, raw := range vals {
		out[field] = decode(raw)
	}
	return out
}

// Ping is the one operation that reports failure, for health checks.
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return errors.New("cache disabled")
	}
	ctx, cancel := c.opCtx(ctx)
	defer cancel()
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

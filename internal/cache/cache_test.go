package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	v1 "github.com/aevon-lab/adpulse/internal/api/v1"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := New(client, time.Second)
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return c, mr
}

type overview struct {
	Impressions int64  `json:"impressions"`
	CTR         string `json:"ctr"`
}

func TestCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c, mr := setupTestCache(t)

	c.Set(ctx, "analytics:overview:24h:all:none:none", overview{Impressions: 1000, CTR: "2.50"}, 5*time.Minute)

	var got overview
	require.True(t, c.GetInto(ctx, "analytics:overview:24h:all:none:none", &got))
	require.Equal(t, int64(1000), got.Impressions)
	require.Equal(t, 5*time.Minute, mr.TTL("analytics:overview:24h:all:none:none"))

	v, ok := c.Get(ctx, "analytics:overview:24h:all:none:none")
	require.True(t, ok)
	require.Equal(t, "2.50", v.(map[string]any)["ctr"])

	mr.FastForward(6 * time.Minute)
	_, ok = c.Get(ctx, "analytics:overview:24h:all:none:none")
	require.False(t, ok)
}

func TestCache_RawStringFallback(t *testing.T) {
	ctx := context.Background()
	c, mr := setupTestCache(t)

	require.NoError(t, mr.Set("token", "not json at all"))
	v, ok := c.Get(ctx, "token")
	require.True(t, ok)
	require.Equal(t, "not json at all", v)

	var dst overview
	require.False(t, c.GetInto(ctx, "token", &dst))
}

func TestCache_MultiKeyAndHash(t *testing.T) {
	ctx := context.Background()
	c, _ := setupTestCache(t)

	c.MSet(ctx, map[string]any{"a": 1, "b": map[string]string{"k": "v"}}, time.Minute)
	vals := c.MGet(ctx, "a", "missing", "b")
	require.Equal(t, float64(1), vals[0])
	require.Nil(t, vals[1])
	require.Equal(t, "v", vals[2].(map[string]any)["k"])
	require.True(t, c.Exists(ctx, "a"))

	c.Del(ctx, "a")
	require.False(t, c.Exists(ctx, "a"))

	c.HSet(ctx, "campaign:c-1", "name", "Spring Sale")
	c.HSet(ctx, "campaign:c-1", "clicks", 25)
	v, ok := c.HGet(ctx, "campaign:c-1", "clicks")
	require.True(t, ok)
	require.Equal(t, float64(25), v)
	require.Len(t, c.HGetAll(ctx, "campaign:c-1"), 2)
}

func TestCache_IncrRefreshesTTL(t *testing.T) {
	ctx := context.Background()
	c, mr := setupTestCache(t)

	require.Equal(t, int64(1), c.Incr(ctx, "hits", time.Minute))
	mr.FastForward(30 * time.Second)
	require.Equal(t, int64(2), c.Incr(ctx, "hits", time.Minute))
	require.Equal(t, time.Minute, mr.TTL("hits"))
}

func TestCache_UnreachableDegradesToDefaults(t *testing.T) {
	ctx := context.Background()
	c, mr := setupTestCache(t)
	mr.Close()

	require.NotPanics(t, func() {
		_, ok := c.Get(ctx, "k")
		require.False(t, ok)
		c.Set(ctx, "k", "v", time.Minute)
		c.Del(ctx, "k")
		require.Equal(t, []any{nil, nil}, c.MGet(ctx, "a", "b"))
		c.MSet(ctx, map[string]any{"a": 1}, time.Minute)
		require.False(t, c.Exists(ctx, "k"))
		require.Zero(t, c.Incr(ctx, "k", time.Minute))
		c.HSet(ctx, "h", "f", 1)
		_, ok = c.HGet(ctx, "h", "f")
		require.False(t, ok)
		require.Empty(t, c.HGetAll(ctx, "h"))
	})
	require.Error(t, c.Ping(ctx))

	ring := NewRing(c, 100, time.Hour)
	ring.Push(ctx, &v1.Event{ID: "e-1", CampaignID: "c-1"})
	_, ok := ring.Recent(ctx, "c-1", 10)
	require.False(t, ok)
}

func TestCache_Disabled(t *testing.T) {
	ctx := context.Background()
	c := New(nil, 0)

	require.False(t, c.Enabled())
	c.Set(ctx, "k", 1, time.Minute)
	_, ok := c.Get(ctx, "k")
	require.False(t, ok)
	require.Zero(t, c.Incr(ctx, "k", time.Minute))
	require.NoError(t, c.Close())
}

func TestRing_CapsAtCapacity(t *testing.T) {
	ctx := context.Background()
	c, mr := setupTestCache(t)
	ring := NewRing(c, 100, time.Hour)

	for i := 0; i < 105; i++ {
		ring.Push(ctx, &v1.Event{ID: fmt.Sprintf("e-%03d", i), CampaignID: "c-1", Type: v1.EventImpression})
	}

	events, ok := ring.Recent(ctx, "c-1", 0)
	require.True(t, ok)
	require.Len(t, events, 100)
	require.Equal(t, "e-104", events[0].ID)
	require.Equal(t, "e-005", events[99].ID)

	global, ok := ring.Recent(ctx, "", 10)
	require.True(t, ok)
	require.Len(t, global, 10)
	require.Equal(t, time.Hour, mr.TTL(RecentKey("c-1")))

	_, ok = ring.Recent(ctx, "c-2", 10)
	require.False(t, ok)
}

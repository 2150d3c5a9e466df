package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	v1 "github.com/aevon-lab/adpulse/internal/api/v1"
)

const (
	recentPrefix    = "recent_events:"
	recentGlobalKey = recentPrefix + "all"
)

// RecentKey is the ring key of one campaign.
func RecentKey(campaignID string) string {
	return recentPrefix + campaignID
}

// Ring keeps the newest events per campaign, plus one global ring, as Redis
// lists capped at a fixed capacity. Pushing past capacity drops the oldest.
type Ring struct {
	cache    *Cache
	capacity int
	ttl      time.Duration
}

func NewRing(c *Cache, capacity int, ttl time.Duration) *Ring {
	if c == nil {
		panic("cache: nil Cache")
	}
	if capacity <= 0 {
		capacity = 100
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Ring{cache: c, capacity: capacity, ttl: ttl}
}

// Push prepends the event to its campaign ring and the global ring.
func (r *Ring) Push(ctx context.Context, event *v1.Event) {
	if !r.cache.Enabled() {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("[Cache] Event not serializable for recent ring", "event_id", event.ID, "error", err)
		return
	}

	ctx, cancel := r.cache.opCtx(ctx)
	defer cancel()

	pipe := r.cache.client.TxPipeline()
	for _, key := range []string{RecentKey(event.CampaignID), recentGlobalKey} {
		pipe.LPush(ctx, key, payload)
		pipe.LTrim(ctx, key, 0, int64(r.capacity-1))
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		degraded("ring_push", RecentKey(event.CampaignID), err)
	}
}

// Recent returns up to limit events, newest first. An empty campaignID reads
// the global ring. ok is false when the ring is cold or the cache is degraded,
// so callers know to fall back to the ledger.
func (r *Ring) Recent(ctx context.Context, campaignID string, limit int) ([]*v1.Event, bool) {
	if !r.cache.Enabled() {
		return nil, false
	}
	if limit <= 0 || limit > r.capacity {
		limit = r.capacity
	}
	key := recentGlobalKey
	if campaignID != "" {
		key = RecentKey(campaignID)
	}

	ctx, cancel := r.cache.opCtx(ctx)
	defer cancel()

	raws, err := r.cache.client.LRange(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		degraded("ring_read", key, err)
		return nil, false
	}
	if len(raws) == 0 {
		return nil, false
	}

	events := make([]*v1.Event, 0, len(raws))
	for _, raw := range raws {
		var e v1.Event
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			slog.Debug("[Cache] Skipping undecodable ring entry", "key", key, "error", err)
			continue
		}
		events = append(events, &e)
	}
	return events, true
}

// Package analytics answers the dashboard aggregation queries. Reads go
// cache -> secondary index -> ledger, and every path yields the same shape.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aevon-lab/adpulse/internal/cache"
	"github.com/aevon-lab/adpulse/internal/core/aggregation"
	"github.com/aevon-lab/adpulse/internal/core/storage"
	"github.com/aevon-lab/adpulse/internal/index"
	"golang.org/x/sync/singleflight"
)

const (
	defaultResultTTL      = 5 * time.Minute
	defaultComputeTimeout = 30 * time.Second
)

// ErrInvalidQuery marks request validation errors that should return HTTP 400.
var ErrInvalidQuery = errors.New("invalid analytics query")

// Params are the shared query parameters of every report.
type Params struct {
	Range      string
	Start      *time.Time
	End        *time.Time
	CampaignID string
	Limit      int
}

// Engine serves the aggregation reports.
type Engine struct {
	ledger    storage.EventLedger
	campaigns storage.CampaignStore
	index     index.Index // nil when no secondary index is configured
	cache     *cache.Cache
	ring      *cache.Ring
	ttl       time.Duration
	group     singleflight.Group
	nowFn     func() time.Time

	// computeTimeout bounds one shared cache-miss computation.
	computeTimeout time.Duration
}

// NewEngine wires the engine. idx and ring may be nil; a nil cache behaves as a
// disabled one.
func NewEngine(ledger storage.EventLedger, campaigns storage.CampaignStore, idx index.Index, c *cache.Cache, ring *cache.Ring, ttl time.Duration) *Engine {
	if ledger == nil {
		panic("analytics: ledger must not be nil")
	}
	if campaigns == nil {
		panic("analytics: campaign store must not be nil")
	}
	if c == nil {
		c = cache.New(nil, 0)
	}
	if ttl <= 0 {
		ttl = defaultResultTTL
	}
	return &Engine{
		ledger:    ledger,
		campaigns: campaigns,
		index:     idx,
		cache:     c,
		ring:      ring,
		ttl:       ttl,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
		computeTimeout: defaultComputeTimeout,
	}
}

func (e *Engine) resolve(p Params) (aggregation.TimeRange, error) {
	tr, err := aggregation.ResolveRange(p.Range, p.Start, p.End, e.nowFn())
	if err != nil {
		return tr, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return tr, nil
}

// aggregate runs q on the secondary index and recomputes it from the ledger
// when the index is missing or fails.
func (e *Engine) aggregate(ctx context.Context, q aggregation.Query) ([]aggregation.Bucket, error) {
	if e.index != nil {
		buckets, err := e.index.Query(ctx, q)
		if err == nil {
			return buckets, nil
		}
		slog.Warn("[Analytics] Index unavailable, falling back to ledger",
			"group_by", q.GroupBy,
			"campaign_id", q.CampaignID,
			"error", err)
	}

	buckets, err := e.ledger.Aggregate(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("ledger aggregation failed: %w", err)
	}
	return buckets, nil
}

// totals runs an ungrouped query and returns its single row.
func (e *Engine) totals(ctx context.Context, q aggregation.Query) (aggregation.Bucket, error) {
	q.GroupBy = aggregation.GroupNone
	buckets, err := e.aggregate(ctx, q)
	if err != nil {
		return aggregation.Bucket{}, err
	}
	if len(buckets) == 0 {
		return aggregation.Bucket{}, nil
	}
	return buckets[0], nil
}

// cached returns the value under key, computing and storing it on a miss.
// Concurrent misses on one key share a single computation.
func cached[T any](ctx context.Context, e *Engine, key string, compute func(ctx context.Context) (T, error)) (T, error) {
	var out T
	if e.cache.GetInto(ctx, key, &out) {
		return out, nil
	}

	v, err, _ := e.group.Do(key, func() (interface{}, error) {
		// The computation outlives the caller that started it, but not the deadline.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.computeTimeout)
		defer cancel()
		res, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		e.cache.Set(ctx, key, res, e.ttl)
		return res, nil
	})
	if err != nil {
		return out, err
	}
	return v.(T), nil
}

// cacheKey builds analytics:{name}:{range}:{campaign|all}:{start|none}:{end|none}[:extra...].
func cacheKey(name string, p Params, extra ...string) string {
	rng := p.Range
	if rng == "" {
		rng = aggregation.DefaultRange
	}
	campaign := p.CampaignID
	if campaign == "" {
		campaign = "all"
	}
	parts := []string{"analytics", name, rng, campaign, timeOrNone(p.Start), timeOrNone(p.End)}
	return strings.Join(append(parts, extra...), ":")
}

func timeOrNone(t *time.Time) string {
	if t == nil {
		return "none"
	}
	return t.UTC().Format(time.RFC3339)
}

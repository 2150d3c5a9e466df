package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	v1 "github.com/aevon-lab/adpulse/internal/api/v1"
	"github.com/aevon-lab/adpulse/internal/core/aggregation"
)

// ErrUnavailable means the index did not answer within the call budget.
// It describes one call; the next call tries again.
var ErrUnavailable = errors.New("secondary index unavailable")

// GuardOptions bounds every index call.
type GuardOptions struct {
	CallTimeout time.Duration // per attempt
	Retries     int           // extra attempts after the first
	Backoff     time.Duration // linear: Backoff, 2*Backoff, ...
}

func (o GuardOptions) normalized() GuardOptions {
	if o.CallTimeout <= 0 {
		o.CallTimeout = 3 * time.Second
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.Backoff <= 0 {
		o.Backoff = 100 * time.Millisecond
	}
	return o
}

// Guarded wraps an Index so each call runs under its own timeout with a fixed
// retry budget. Exhausting the budget returns an error wrapping ErrUnavailable.
type Guarded struct {
	inner Index
	opts  GuardOptions
	sleep func(ctx context.Context, d time.Duration) error
}

var _ Index = (*Guarded)(nil)

func NewGuarded(inner Index, opts GuardOptions) *Guarded {
	if inner == nil {
		panic("index: nil Index")
	}
	return &Guarded{inner: inner, opts: opts.normalized(), sleep: sleepCtx}
}

func (g *Guarded) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= g.opts.Retries; attempt++ {
		if attempt > 0 {
			if err := g.sleep(ctx, time.Duration(attempt)*g.opts.Backoff); err != nil {
				break
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, g.opts.CallTimeout)
		err := fn(callCtx)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		slog.Debug("[Index] Call failed",
			"op", op,
			"attempt", attempt+1,
			"error", err)
	}
	if lastErr == nil {
		lastErr = ctx.Err()
	}
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, lastErr)
}

func (g *Guarded) EnsureIndex(ctx context.Context) error {
	return g.do(ctx, "ensure_index", g.inner.EnsureIndex)
}

func (g *Guarded) IndexOne(ctx context.Context, event *v1.Event) error {
	return g.do(ctx, "index_one", func(ctx context.Context) error {
		return g.inner.IndexOne(ctx, event)
	})
}

func (g *Guarded) IndexBulk(ctx context.Context, events []*v1.Event) (BulkResult, error) {
	var res BulkResult
	err := g.do(ctx, "index_bulk", func(ctx context.Context) error {
		var err error
		res, err = g.inner.IndexBulk(ctx, events)
		return err
	})
	if err != nil {
		return BulkResult{}, err
	}
	return res, nil
}

func (g *Guarded) Query(ctx context.Context, q aggregation.Query) ([]aggregation.Bucket, error) {
	var buckets []aggregation.Bucket
	err := g.do(ctx, "query", func(ctx context.Context) error {
		var err error
		buckets, err = g.inner.Query(ctx, q)
		return err
	})
	if err != nil {
		return nil, err
	}
	return buckets, nil
}

// Ping is not retried; health checks want the current state.
func (g *Guarded) Ping(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, g.opts.CallTimeout)
	defer cancel()
	return g.inner.Ping(callCtx)
}

func (g *Guarded) Close() error {
	return g.inner.Close()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package mirror

import (
	"context"
	"log/slog"
	"time"

	"github.com/aevon-lab/adpulse/internal/core/storage"
)

const maxConsecutiveBatches = 100

// Reconciler re-mirrors ledger events whose mirror never completed.
// It is stateless: each tick claims whatever the ledger still reports as unmirrored.
type Reconciler struct {
	interval   time.Duration
	batchSize  int
	staleAfter time.Duration
	queue      storage.MirrorQueue
	mirror     *Mirror
}

func NewReconciler(interval time.Duration, batchSize int, staleAfter time.Duration, queue storage.MirrorQueue, mirror *Mirror) *Reconciler {
	if queue == nil || mirror == nil {
		panic("mirror: reconciler needs a queue and a mirror")
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Reconciler{
		interval:   interval,
		batchSize:  batchSize,
		staleAfter: staleAfter,
		queue:      queue,
		mirror:     mirror,
	}
}

// Start runs reconciliation until ctx is cancelled.
func (r *Reconciler) Start(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	slog.Info("[Reconciler] Starting",
		"interval", r.interval,
		"batch_size", r.batchSize,
		"stale_after", r.staleAfter)

	r.drainBacklog(ctx)

	for {
		select {
		case <-ticker.C:
			r.drainBacklog(ctx)
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			slog.Info("[Reconciler] Running final pass before shutdown...")
			r.drainBacklog(shutdownCtx)
			slog.Info("[Reconciler] Stopped")
			return nil
		}
	}
}

// RunOnce claims and mirrors one batch, returning how many events were claimed.
func (r *Reconciler) RunOnce(ctx context.Context) (int, error) {
	events, err := r.queue.ClaimUnmirrored(ctx, r.batchSize, r.staleAfter)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}
	if _, err := r.mirror.Bulk(ctx, events); err != nil {
		return len(events), err
	}
	return len(events), nil
}

// drainBacklog keeps claiming batches until one comes back short, the index
// fails, or the consecutive-batch cap is hit.
func (r *Reconciler) drainBacklog(ctx context.Context) {
	batchCount := 0
	total := 0

	for batchCount < maxConsecutiveBatches {
		select {
		case <-ctx.Done():
			slog.Info("[Reconciler] Drain interrupted", "batches_processed", batchCount)
			return
		default:
		}

		claimed, err := r.RunOnce(ctx)
		if err != nil {
			slog.Warn("[Reconciler] Batch failed, retrying next tick",
				"batch_number", batchCount+1,
				"claimed", claimed,
				"error", err)
			return
		}

		batchCount++
		total += claimed

		if claimed < r.batchSize {
			if total > 0 {
				slog.Info("[Reconciler] Re-mirrored events",
					"events", total,
					"batches", batchCount)
			}
			return
		}
	}

	slog.Warn("[Reconciler] Max consecutive batches reached, pausing until next tick",
		"max_batches", maxConsecutiveBatches,
		"events", total)
}

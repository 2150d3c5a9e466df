// Package mirror copies ledger events into the secondary index and records the
// outcome on the ledger's processing status.
package mirror

import (
	"context"
	"log/slog"

	v1 "github.com/aevon-lab/adpulse/internal/api/v1"
	"github.com/aevon-lab/adpulse/internal/core/storage"
	"github.com/aevon-lab/adpulse/internal/index"
)

// Mirror is best-effort: errors are logged and returned for the caller's
// bookkeeping, never meant to reach an ingestion response.
type Mirror struct {
	index index.Index
	queue storage.MirrorQueue
}

// New expects a guarded index; unguarded calls have no timeout of their own.
func New(idx index.Index, queue storage.MirrorQueue) *Mirror {
	if idx == nil {
		panic("mirror: nil index")
	}
	if queue == nil {
		panic("mirror: nil MirrorQueue")
	}
	return &Mirror{index: idx, queue: queue}
}

// One mirrors a single event.
func (m *Mirror) One(ctx context.Context, event *v1.Event) error {
	if err := m.index.IndexOne(ctx, event); err != nil {
		slog.Warn("[Mirror] Failed to mirror event",
			"event_id", event.ID,
			"campaign_id", event.CampaignID,
			"error", err)
		m.mark(ctx, []string{event.ID}, v1.StatusFailed, err.Error())
		return err
	}
	m.mark(ctx, []string{event.ID}, v1.StatusCompleted, "")
	return nil
}

// Bulk mirrors events in one index operation. Rejected documents are marked
// failed individually; a whole-batch failure marks every event failed.
func (m *Mirror) Bulk(ctx context.Context, events []*v1.Event) (index.BulkResult, error) {
	if len(events) == 0 {
		return index.BulkResult{}, nil
	}

	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}

	res, err := m.index.IndexBulk(ctx, events)
	if err != nil {
		slog.Warn("[Mirror] Bulk mirror failed",
			"events", len(events),
			"error", err)
		m.mark(ctx, ids, v1.StatusFailed, err.Error())
		return res, err
	}

	if len(res.Failed) > 0 {
		rejected := make(map[string]struct{}, len(res.Failed))
		for _, id := range res.FailedIDs() {
			rejected[id] = struct{}{}
		}
		for _, f := range res.Failed {
			slog.Warn("[Mirror] Index rejected document",
				"event_id", f.EventID,
				"error", f.Err)
			m.mark(ctx, []string{f.EventID}, v1.StatusFailed, f.Err.Error())
		}
		accepted := ids[:0:0]
		for _, id := range ids {
			if _, ok := rejected[id]; !ok {
				accepted = append(accepted, id)
			}
		}
		ids = accepted
	}

	m.mark(ctx, ids, v1.StatusCompleted, "")
	return res, nil
}

func (m *Mirror) mark(ctx context.Context, ids []string, status v1.ProcessingStatus, errMsg string) {
	if len(ids) == 0 {
		return
	}
	if err := m.queue.MarkMirrored(ctx, ids, status, errMsg); err != nil {
		slog.Warn("[Mirror] Failed to record mirror status",
			"events", len(ids),
			"status", status,
			"error", err)
	}
}

package storage

import (
	"context"
	"errors"
	"time"

	v1 "github.com/aevon-lab/adpulse/internal/api/v1"
	"github.com/aevon-lab/adpulse/internal/core/aggregation"
)

var (
	// ErrDuplicate is returned when an event with the same id already exists.
	ErrDuplicate = errors.New("event already exists")

	// ErrCampaignNotFound is returned when the referenced campaign has no record.
	ErrCampaignNotFound = errors.New("campaign not found")
)

// EventLedger is the Primary Ledger for events and campaign counters.
type EventLedger interface {
	// RecordEvent persists the event and applies its counter delta to the owning
	// campaign in one transaction. Returns the campaign performance after the update.
	RecordEvent(ctx context.Context, event *v1.Event) (*v1.CampaignPerformance, error)

	// RecentEvents returns the newest events of a campaign, newest first.
	RecentEvents(ctx context.Context, campaignID string, limit int) ([]*v1.Event, error)

	// SearchEvents returns one page of events matching the filter plus the total match count.
	SearchEvents(ctx context.Context, filter EventFilter) ([]*v1.Event, int64, error)

	// Aggregate evaluates an aggregation query directly over the ledger.
	Aggregate(ctx context.Context, q aggregation.Query) ([]aggregation.Bucket, error)
}

// CampaignStore reads campaign records.
type CampaignStore interface {
	GetCampaign(ctx context.Context, id string) (*v1.Campaign, error)
	GetCampaigns(ctx context.Context, ids []string) (map[string]*v1.Campaign, error)
	CountActiveCampaigns(ctx context.Context, now time.Time) (int64, error)
	UpsertCampaign(ctx context.Context, c *v1.Campaign) error
}

// MirrorQueue exposes the processing-status transitions used to reconcile the secondary index.
type MirrorQueue interface {
	// ClaimUnmirrored moves up to limit pending/failed events, and events stuck in
	// processing for longer than staleAfter, to processing and returns them.
	ClaimUnmirrored(ctx context.Context, limit int, staleAfter time.Duration) ([]*v1.Event, error)

	// MarkMirrored sets the processing status (and error text) for the given events.
	MarkMirrored(ctx context.Context, ids []string, status v1.ProcessingStatus, errMsg string) error
}

// EventFilter scopes SearchEvents. Zero values mean "no filter".
type EventFilter struct {
	CampaignID string
	EventType  v1.EventType
	Platform   v1.Platform
	Device     v1.Device
	Start      *time.Time
	End        *time.Time
	Page       int
	Limit      int
}

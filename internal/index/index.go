// Package index defines the Secondary Index: a derived, rebuildable copy of the
// ledger's events shaped for faceted and time-bucketed aggregation.
package index

import (
	"context"
	"time"

	v1 "github.com/aevon-lab/adpulse/internal/api/v1"
	"github.com/aevon-lab/adpulse/internal/core/aggregation"
	"github.com/shopspring/decimal"
)

// Index is implemented by every secondary index backend.
//
// Callers treat any returned error as "index unavailable" for that call only.
// Implementations must be safe for concurrent use.
type Index interface {
	// EnsureIndex creates the backing store with its fixed field mapping if absent.
	// Calling it again is a no-op.
	EnsureIndex(ctx context.Context) error

	IndexOne(ctx context.Context, event *v1.Event) error

	// IndexBulk mirrors events in one round trip. Documents that were rejected
	// individually are reported in the result; err covers whole-batch failure.
	IndexBulk(ctx context.Context, events []*v1.Event) (BulkResult, error)

	Query(ctx context.Context, q aggregation.Query) ([]aggregation.Bucket, error)

	Ping(ctx context.Context) error
	Close() error
}

// BulkFailure is one document the backend refused.
type BulkFailure struct {
	EventID string
	Err     error
}

// BulkResult summarises an IndexBulk call.
type BulkResult struct {
	Indexed int
	Failed  []BulkFailure
}

// FailedIDs returns the ids of the rejected documents.
func (r BulkResult) FailedIDs() []string {
	ids := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		ids = append(ids, f.EventID)
	}
	return ids
}

// Document is the flattened per-event record held by the index.
type Document struct {
	EventID         string
	EventType       string
	CampaignID      string
	UserID          string
	SessionID       string
	Timestamp       time.Time
	Value           decimal.Decimal
	ConversionValue decimal.Decimal
	Currency        string
	Platform        string
	Device          string
	Browser         string
	OS              string
	Country         string
	Region          string
	City            string
	Referrer        string
	LandingPage     string
}

// DocumentFrom flattens an event into its index document.
func DocumentFrom(e *v1.Event) Document {
	return Document{
		EventID:         e.ID,
		EventType:       string(e.Type),
		CampaignID:      e.CampaignID,
		UserID:          e.UserID,
		SessionID:       e.SessionID,
		Timestamp:       e.Timestamp.UTC(),
		Value:           e.Value,
		ConversionValue: e.ConversionValue,
		Currency:        string(e.Currency),
		Platform:        string(e.Platform),
		Device:          string(e.Device),
		Browser:         e.Browser.Name,
		OS:              e.OS.Name,
		Country:         e.Location.Country,
		Region:          e.Location.Region,
		City:            e.Location.City,
		Referrer:        e.Referrer,
		LandingPage:     e.LandingPage,
	}
}

// Fact projects the document onto the fields aggregation reads.
func (d Document) Fact() aggregation.Fact {
	return aggregation.Fact{
		EventID:         d.EventID,
		Type:            d.EventType,
		CampaignID:      d.CampaignID,
		Device:          d.Device,
		Country:         d.Country,
		Timestamp:       d.Timestamp,
		Value:           d.Value,
		ConversionValue: d.ConversionValue,
	}
}

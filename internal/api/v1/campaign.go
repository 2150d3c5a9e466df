package v1

import (
	"time"

	"github.com/aevon-lab/adpulse/internal/core/aggregation"
	"github.com/shopspring/decimal"
)

// CampaignStatus is the lifecycle state of a campaign record.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
	CampaignArchived  CampaignStatus = "archived"
)

func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignDraft, CampaignActive, CampaignPaused, CampaignCompleted, CampaignArchived:
		return true
	}
	return false
}

// Campaign is the advertising unit events are attributed to.
// The record itself is managed elsewhere; this service only owns Performance.
type Campaign struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Platform  Platform       `json:"platform"`
	Status    CampaignStatus `json:"status"`
	Enabled   bool           `json:"isActive"`
	StartDate time.Time      `json:"startDate"`
	EndDate   *time.Time     `json:"endDate,omitempty"`
	Currency  Currency       `json:"currency"`

	Performance CampaignPerformance `json:"performance"`
}

// IsActive reports whether events may currently be attributed to the campaign:
// status active, administratively enabled, and now inside the scheduled window.
func (c *Campaign) IsActive(now time.Time) bool {
	if c.Status != CampaignActive || !c.Enabled {
		return false
	}
	if now.Before(c.StartDate) {
		return false
	}
	return c.EndDate == nil || !now.After(*c.EndDate)
}

// CampaignPerformance holds cumulative counters and the ratios derived from them.
type CampaignPerformance struct {
	Impressions int64           `json:"impressions"`
	Clicks      int64           `json:"clicks"`
	Conversions int64           `json:"conversions"`
	Spend       decimal.Decimal `json:"spend"`
	Revenue     decimal.Decimal `json:"revenue"`

	aggregation.Ratios
}

// Recompute refreshes the derived ratios from the counters.
func (p *CampaignPerformance) Recompute() {
	p.Ratios = aggregation.ComputeRatios(p.Impressions, p.Clicks, p.Conversions, p.Spend, p.Revenue)
}

// CounterDelta is the counter change implied by one event.
type CounterDelta struct {
	Impressions int64
	Clicks      int64
	Conversions int64
	Spend       decimal.Decimal
	Revenue     decimal.Decimal
}

// DeltaFor returns the counter change for an event:
// impression -> impressions+1; click -> clicks+1, spend+=value;
// conversion -> conversions+1, revenue+=conversionValue. Other kinds change nothing.
func DeltaFor(e *Event) CounterDelta {
	switch e.Type {
	case EventImpression:
		return CounterDelta{Impressions: 1}
	case EventClick:
		return CounterDelta{Clicks: 1, Spend: e.Value}
	case EventConversion:
		return CounterDelta{Conversions: 1, Revenue: e.ConversionValue}
	}
	return CounterDelta{}
}

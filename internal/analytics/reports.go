package analytics

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	v1 "github.com/aevon-lab/adpulse/internal/api/v1"
	"github.com/aevon-lab/adpulse/internal/core/aggregation"
	"github.com/shopspring/decimal"
)

const (
	defaultLimit       = 10
	maxLimit           = 100
	realtimeRecentSize = 10
	hoursPerDay        = 24
)

var deviceColors = map[string]string{
	string(v1.DeviceDesktop): "#0891b2",
	string(v1.DeviceMobile):  "#f59e0b",
	string(v1.DeviceTablet):  "#dc2626",
	string(v1.DeviceOther):   "#6b7280",
}

const fallbackDeviceColor = "#6b7280"

// money renders a monetary or ratio value with two decimals.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Overview is the headline totals of a range.
type Overview struct {
	TotalImpressions int64  `json:"totalImpressions"`
	TotalClicks      int64  `json:"totalClicks"`
	TotalConversions int64  `json:"totalConversions"`
	TotalSpend       string `json:"totalSpend"`
	TotalRevenue     string `json:"totalRevenue"`
	CTR              string `json:"ctr"`
	CPC              string `json:"cpc"`
	CPA              string `json:"cpa"`
	ROAS             string `json:"roas"`
	TotalCampaigns   int64  `json:"totalCampaigns"`
}

func overviewFrom(b aggregation.Bucket) Overview {
	r := b.Ratios()
	return Overview{
		TotalImpressions: b.Impressions,
		TotalClicks:      b.Clicks,
		TotalConversions: b.Conversions,
		TotalSpend:       money(b.Spend),
		TotalRevenue:     money(b.Revenue),
		CTR:              money(r.CTR),
		CPC:              money(r.CPC),
		CPA:              money(r.CPA),
		ROAS:             money(r.ROAS),
		TotalCampaigns:   b.Campaigns,
	}
}

// Overview returns totals and ratios for the range.
func (e *Engine) Overview(ctx context.Context, p Params) (Overview, error) {
	tr, err := e.resolve(p)
	if err != nil {
		return Overview{}, err
	}
	return cached(ctx, e, cacheKey("overview", p), func(ctx context.Context) (Overview, error) {
		b, err := e.totals(ctx, aggregation.Query{Start: tr.Start, End: tr.End, CampaignID: p.CampaignID})
		if err != nil {
			return Overview{}, err
		}
		return overviewFrom(b), nil
	})
}

// HourlyPoint is one hour of activity. Hour is the UTC hour of day, "H:00".
type HourlyPoint struct {
	Hour        string    `json:"hour"`
	Timestamp   time.Time `json:"timestamp"`
	Impressions int64     `json:"impressions"`
	Clicks      int64     `json:"clicks"`
	Conversions int64     `json:"conversions"`
	Spend       string    `json:"spend"`
}

func hourlyPoint(ts time.Time, b aggregation.Bucket) HourlyPoint {
	return HourlyPoint{
		Hour:        strconv.Itoa(ts.Hour()) + ":00",
		Timestamp:   ts,
		Impressions: b.Impressions,
		Clicks:      b.Clicks,
		Conversions: b.Conversions,
		Spend:       money(b.Spend),
	}
}

// Hourly returns hour buckets. The named 24h range always yields 24 consecutive
// slots ending at the current hour, zero-filled; other ranges are sparse and ascending.
func (e *Engine) Hourly(ctx context.Context, p Params) ([]HourlyPoint, error) {
	tr, err := e.resolve(p)
	if err != nil {
		return nil, err
	}
	fill := !tr.Explicit && tr.Name == "24h"
	if fill {
		tr.Start = aggregation.BucketFor(tr.End, time.Hour).Add(-(hoursPerDay - 1) * time.Hour)
	}

	return cached(ctx, e, cacheKey("hourly", p), func(ctx context.Context) ([]HourlyPoint, error) {
		buckets, err := e.aggregate(ctx, aggregation.Query{
			Start:      tr.Start,
			End:        tr.End,
			CampaignID: p.CampaignID,
			GroupBy:    aggregation.GroupHour,
		})
		if err != nil {
			return nil, err
		}
		if !fill {
			out := make([]HourlyPoint, len(buckets))
			for i, b := range buckets {
				out[i] = hourlyPoint(b.Time.UTC(), b)
			}
			return out, nil
		}
		return fillHours(tr.Start, buckets), nil
	})
}

// fillHours lays buckets onto 24 slots starting at first.
func fillHours(first time.Time, buckets []aggregation.Bucket) []HourlyPoint {
	byHour := make(map[int64]aggregation.Bucket, len(buckets))
	for _, b := range buckets {
		byHour[b.Time.UTC().Unix()] = b
	}
	out := make([]HourlyPoint, hoursPerDay)
	for i := range out {
		ts := first.Add(time.Duration(i) * time.Hour)
		out[i] = hourlyPoint(ts, byHour[ts.Unix()])
	}
	return out
}

// CampaignRow is one entry of the campaign ranking.
type CampaignRow struct {
	CampaignID  string            `json:"campaignId"`
	Name        string            `json:"name"`
	Platform    v1.Platform       `json:"platform"`
	Status      v1.CampaignStatus `json:"status"`
	Impressions int64             `json:"impressions"`
	Clicks      int64             `json:"clicks"`
	Conversions int64             `json:"conversions"`
	Spend       string            `json:"spend"`
	Revenue     string            `json:"revenue"`
	CTR         string            `json:"ctr"`
	CPC         string            `json:"cpc"`
	CPA         string            `json:"cpa"`
	ROAS        string            `json:"roas"`
}

// Campaigns ranks campaigns by impressions in the range and enriches them
// with their ledger records.
func (e *Engine) Campaigns(ctx context.Context, p Params) ([]CampaignRow, error) {
	tr, err := e.resolve(p)
	if err != nil {
		return nil, err
	}
	limit := clampLimit(p.Limit)

	return cached(ctx, e, cacheKey("campaigns", p, strconv.Itoa(limit)), func(ctx context.Context) ([]CampaignRow, error) {
		buckets, err := e.aggregate(ctx, aggregation.Query{
			Start:      tr.Start,
			End:        tr.End,
			CampaignID: p.CampaignID,
			GroupBy:    aggregation.GroupCampaign,
			Limit:      limit,
		})
		if err != nil {
			return nil, err
		}

		ids := make([]string, len(buckets))
		for i, b := range buckets {
			ids[i] = b.Key
		}
		records := map[string]*v1.Campaign{}
		if len(ids) > 0 {
			if records, err = e.campaigns.GetCampaigns(ctx, ids); err != nil {
				return nil, fmt.Errorf("failed to load campaigns: %w", err)
			}
		}

		out := make([]CampaignRow, len(buckets))
		for i, b := range buckets {
			r := b.Ratios()
			row := CampaignRow{
				CampaignID:  b.Key,
				Impressions: b.Impressions,
				Clicks:      b.Clicks,
				Conversions: b.Conversions,
				Spend:       money(b.Spend),
				Revenue:     money(b.Revenue),
				CTR:         money(r.CTR),
				CPC:         money(r.CPC),
				CPA:         money(r.CPA),
				ROAS:        money(r.ROAS),
			}
			if c, ok := records[b.Key]; ok {
				row.Name = c.Name
				row.Platform = c.Platform
				row.Status = c.Status
			}
			out[i] = row
		}
		return out, nil
	})
}

// DeviceShare is one slice of the device breakdown. Value is a rounded percentage of events.
type DeviceShare struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Count int64  `json:"count"`
	Color string `json:"color"`
}

// Devices returns the device breakdown, largest share first.
func (e *Engine) Devices(ctx context.Context, p Params) ([]DeviceShare, error) {
	tr, err := e.resolve(p)
	if err != nil {
		return nil, err
	}

	return cached(ctx, e, cacheKey("devices", p), func(ctx context.Context) ([]DeviceShare, error) {
		buckets, err := e.aggregate(ctx, aggregation.Query{
			Start:      tr.Start,
			End:        tr.End,
			CampaignID: p.CampaignID,
			GroupBy:    aggregation.GroupDevice,
		})
		if err != nil {
			return nil, err
		}

		var total int64
		for _, b := range buckets {
			total += b.Events
		}
		out := make([]DeviceShare, len(buckets))
		for i, b := range buckets {
			color, ok := deviceColors[b.Key]
			if !ok {
				color = fallbackDeviceColor
			}
			share := 0
			if total > 0 {
				share = int(math.Round(float64(b.Events) * 100 / float64(total)))
			}
			out[i] = DeviceShare{Name: capitalize(b.Key), Value: share, Count: b.Events, Color: color}
		}
		return out, nil
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// GeoRow is one country of the geographic breakdown.
type GeoRow struct {
	Country     string `json:"country"`
	Impressions int64  `json:"impressions"`
	Clicks      int64  `json:"clicks"`
	Conversions int64  `json:"conversions"`
}

// Geographic returns the top countries by impressions.
func (e *Engine) Geographic(ctx context.Context, p Params) ([]GeoRow, error) {
	tr, err := e.resolve(p)
	if err != nil {
		return nil, err
	}
	limit := clampLimit(p.Limit)

	return cached(ctx, e, cacheKey("geographic", p, strconv.Itoa(limit)), func(ctx context.Context) ([]GeoRow, error) {
		buckets, err := e.aggregate(ctx, aggregation.Query{
			Start:      tr.Start,
			End:        tr.End,
			CampaignID: p.CampaignID,
			GroupBy:    aggregation.GroupCountry,
			Limit:      limit,
		})
		if err != nil {
			return nil, err
		}
		out := make([]GeoRow, len(buckets))
		for i, b := range buckets {
			out[i] = GeoRow{Country: b.Key, Impressions: b.Impressions, Clicks: b.Clicks, Conversions: b.Conversions}
		}
		return out, nil
	})
}

func clampLimit(n int) int {
	if n <= 0 {
		return defaultLimit
	}
	if n > maxLimit {
		return maxLimit
	}
	return n
}

// HourStats is the running total of the current hour.
type HourStats struct {
	Impressions int64  `json:"impressions"`
	Clicks      int64  `json:"clicks"`
	Conversions int64  `json:"conversions"`
	Spend       string `json:"spend"`
}

// Realtime is the live dashboard snapshot. It is never cached.
type Realtime struct {
	RecentEvents    []v1.EventSummary `json:"recentEvents"`
	ActiveCampaigns int64             `json:"activeCampaigns"`
	CurrentHour     HourStats         `json:"currentHour"`
	LastUpdate      time.Time         `json:"lastUpdate"`
}

// Realtime reads the recent ring and the current hour. An empty campaignID covers all campaigns.
func (e *Engine) Realtime(ctx context.Context, campaignID string) (Realtime, error) {
	now := e.nowFn()

	out := Realtime{RecentEvents: []v1.EventSummary{}, LastUpdate: now}
	if e.ring != nil {
		if events, ok := e.ring.Recent(ctx, campaignID, realtimeRecentSize); ok {
			for _, evt := range events {
				out.RecentEvents = append(out.RecentEvents, evt.Summary())
			}
		}
	}

	active, err := e.campaigns.CountActiveCampaigns(ctx, now)
	if err != nil {
		return Realtime{}, fmt.Errorf("failed to count active campaigns: %w", err)
	}
	out.ActiveCampaigns = active

	b, err := e.totals(ctx, aggregation.Query{
		Start:      aggregation.BucketFor(now, time.Hour),
		End:        now,
		CampaignID: campaignID,
	})
	if err != nil {
		return Realtime{}, err
	}
	out.CurrentHour = HourStats{
		Impressions: b.Impressions,
		Clicks:      b.Clicks,
		Conversions: b.Conversions,
		Spend:       money(b.Spend),
	}
	return out, nil
}

// CampaignStats bundles the campaign-scoped overview, hourly and geographic reports.
type CampaignStats struct {
	CampaignID             string        `json:"campaignId"`
	Stats                  Overview      `json:"stats"`
	HourlyDistribution     []HourlyPoint `json:"hourlyDistribution"`
	GeographicDistribution []GeoRow      `json:"geographicDistribution"`
}

// CampaignStats reports on one campaign. The campaign must exist.
func (e *Engine) CampaignStats(ctx context.Context, p Params) (CampaignStats, error) {
	if _, err := e.campaigns.GetCampaign(ctx, p.CampaignID); err != nil {
		return CampaignStats{}, err
	}

	overview, err := e.Overview(ctx, p)
	if err != nil {
		return CampaignStats{}, err
	}
	hourly, err := e.Hourly(ctx, p)
	if err != nil {
		return CampaignStats{}, err
	}
	geo, err := e.Geographic(ctx, p)
	if err != nil {
		return CampaignStats{}, err
	}
	return CampaignStats{
		CampaignID:             p.CampaignID,
		Stats:                  overview,
		HourlyDistribution:     hourly,
		GeographicDistribution: geo,
	}, nil
}

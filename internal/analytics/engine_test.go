package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	v1 "github.com/aevon-lab/adpulse/internal/api/v1"
	"github.com/aevon-lab/adpulse/internal/cache"
	"github.com/aevon-lab/adpulse/internal/core/aggregation"
	"github.com/aevon-lab/adpulse/internal/core/storage"
	"github.com/aevon-lab/adpulse/internal/index"
	"github.com/aevon-lab/adpulse/internal/index/memory"
	indexmocks "github.com/aevon-lab/adpulse/internal/mocks/index"
	storagemocks "github.com/aevon-lab/adpulse/internal/mocks/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	campaignA = "3b0e6c55-7f0e-4d8e-9a61-5d2b8f6d0a01"
	campaignB = "3b0e6c55-7f0e-4d8e-9a61-5d2b8f6d0a02"
)

var testNow = time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)

type eventSpec struct {
	typ      v1.EventType
	campaign string
	at       time.Time
	value    string
	device   v1.Device
	country  string
}

func buildEvents(specs []eventSpec) []*v1.Event {
	out := make([]*v1.Event, len(specs))
	for i, s := range specs {
		e := &v1.Event{
			ID:         uuid.NewString(),
			Type:       s.typ,
			CampaignID: s.campaign,
			Timestamp:  s.at,
			Device:     s.device,
			Location:   v1.Location{Country: s.country},
		}
		if s.value != "" {
			switch s.typ {
			case v1.EventClick:
				e.Value = decimal.RequireFromString(s.value)
			case v1.EventConversion:
				e.ConversionValue = decimal.RequireFromString(s.value)
			}
		}
		out[i] = e
	}
	return out
}

func repeat(n int, s eventSpec) []eventSpec {
	out := make([]eventSpec, n)
	for i := range out {
		out[i] = s
	}
	return out
}

// funnel is 1000 impressions, 25 clicks at 1.20 and 3 conversions at 40 inside the last hour.
func funnel() []*v1.Event {
	at := testNow.Add(-10 * time.Minute)
	var specs []eventSpec
	specs = append(specs, repeat(1000, eventSpec{typ: v1.EventImpression, campaign: campaignA, at: at, device: v1.DeviceDesktop, country: "US"})...)
	specs = append(specs, repeat(25, eventSpec{typ: v1.EventClick, campaign: campaignA, at: at, value: "1.20", device: v1.DeviceDesktop, country: "US"})...)
	specs = append(specs, repeat(3, eventSpec{typ: v1.EventConversion, campaign: campaignA, at: at, value: "40", device: v1.DeviceDesktop, country: "US"})...)
	return buildEvents(specs)
}

func factsOf(events []*v1.Event) []aggregation.Fact {
	facts := make([]aggregation.Fact, len(events))
	for i, e := range events {
		facts[i] = index.DocumentFrom(e).Fact()
	}
	return facts
}

func memoryIndex(t *testing.T, events []*v1.Event) *memory.Index {
	t.Helper()
	idx := memory.New()
	res, err := idx.IndexBulk(context.Background(), events)
	require.NoError(t, err)
	require.Equal(t, len(events), res.Indexed)
	return idx
}

func newTestEngine(t *testing.T, ledger storage.EventLedger, campaigns storage.CampaignStore, idx index.Index, c *cache.Cache) *Engine {
	t.Helper()
	if ledger == nil {
		ledger = storagemocks.NewEventLedger(t)
	}
	if campaigns == nil {
		campaigns = storagemocks.NewCampaignStore(t)
	}
	e := NewEngine(ledger, campaigns, idx, c, nil, 0)
	e.nowFn = func() time.Time { return testNow }
	return e
}

// foldingLedger answers Aggregate by folding facts in memory, as the SQL path would.
func foldingLedger(t *testing.T, facts []aggregation.Fact) *storagemocks.EventLedger {
	ledger := storagemocks.NewEventLedger(t)
	ledger.EXPECT().Aggregate(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, q aggregation.Query) ([]aggregation.Bucket, error) {
			return aggregation.Fold(facts, q), nil
		}).Maybe()
	return ledger
}

func unavailableIndex(t *testing.T) *indexmocks.Index {
	idx := indexmocks.NewIndex(t)
	idx.EXPECT().Query(mock.Anything, mock.Anything).
		Return(nil, index.ErrUnavailable).Maybe()
	return idx
}

func setupCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return cache.New(client, time.Second), mr
}

func TestOverview_Ratios(t *testing.T) {
	events := funnel()
	e := newTestEngine(t, nil, nil, memoryIndex(t, events), nil)

	got, err := e.Overview(context.Background(), Params{})
	require.NoError(t, err)

	require.Equal(t, Overview{
		TotalImpressions: 1000,
		TotalClicks:      25,
		TotalConversions: 3,
		TotalSpend:       "30.00",
		TotalRevenue:     "120.00",
		CTR:              "2.50",
		CPC:              "1.20",
		CPA:              "10.00",
		ROAS:             "4.00",
		TotalCampaigns:   1,
	}, got)
}

func TestOverview_EmptyRangeIsZeroed(t *testing.T) {
	e := newTestEngine(t, nil, nil, memory.New(), nil)

	got, err := e.Overview(context.Background(), Params{Range: "1h"})
	require.NoError(t, err)
	require.Equal(t, int64(0), got.TotalImpressions)
	require.Equal(t, "0.00", got.CTR)
	require.Equal(t, "0.00", got.ROAS)
}

func TestFallback_MatchesIndex(t *testing.T) {
	events := funnel()
	events = append(events, buildEvents([]eventSpec{
		{typ: v1.EventImpression, campaign: campaignB, at: testNow.Add(-2 * time.Hour), device: v1.DeviceMobile, country: "DE"},
		{typ: v1.EventImpression, campaign: campaignB, at: testNow.Add(-3 * time.Hour), device: v1.DeviceTablet, country: "DE"},
		{typ: v1.EventClick, campaign: campaignB, at: testNow.Add(-3 * time.Hour), value: "0.75", device: v1.DeviceTablet, country: "FR"},
	})...)

	primary := newTestEngine(t, nil, nil, memoryIndex(t, events), nil)
	fallback := newTestEngine(t, foldingLedger(t, factsOf(events)), nil, unavailableIndex(t), nil)
	ctx := context.Background()

	for _, p := range []Params{{}, {Range: "7d"}, {CampaignID: campaignB}} {
		want, err := primary.Overview(ctx, p)
		require.NoError(t, err)
		got, err := fallback.Overview(ctx, p)
		require.NoError(t, err)
		require.Equal(t, want, got)

		wantHourly, err := primary.Hourly(ctx, p)
		require.NoError(t, err)
		gotHourly, err := fallback.Hourly(ctx, p)
		require.NoError(t, err)
		require.Equal(t, wantHourly, gotHourly)

		wantDevices, err := primary.Devices(ctx, p)
		require.NoError(t, err)
		gotDevices, err := fallback.Devices(ctx, p)
		require.NoError(t, err)
		require.Equal(t, wantDevices, gotDevices)

		wantGeo, err := primary.Geographic(ctx, p)
		require.NoError(t, err)
		gotGeo, err := fallback.Geographic(ctx, p)
		require.NoError(t, err)
		require.Equal(t, wantGeo, gotGeo)
	}

	got, err := fallback.Overview(ctx, Params{})
	require.NoError(t, err)
	require.Equal(t, int64(1002), got.TotalImpressions)
	require.Equal(t, int64(2), got.TotalCampaigns)
}

func TestFallback_NoIndexConfigured(t *testing.T) {
	e := newTestEngine(t, foldingLedger(t, factsOf(funnel())), nil, nil, nil)

	got, err := e.Overview(context.Background(), Params{})
	require.NoError(t, err)
	require.Equal(t, "2.50", got.CTR)
}

func TestAggregate_LedgerFailure(t *testing.T) {
	ledger := storagemocks.NewEventLedger(t)
	ledger.EXPECT().Aggregate(mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
	e := newTestEngine(t, ledger, nil, unavailableIndex(t), nil)

	_, err := e.Overview(context.Background(), Params{})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidQuery)
}

func TestAggregate_HungLedgerIsBounded(t *testing.T) {
	ledger := storagemocks.NewEventLedger(t)
	ledger.EXPECT().Aggregate(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, _ aggregation.Query) ([]aggregation.Bucket, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})
	e := newTestEngine(t, ledger, nil, nil, nil)
	e.computeTimeout = 100 * time.Millisecond

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := e.Overview(context.Background(), Params{})
			errs <- err
		}()
	}
	for i := 0; i < 2; i++ {
		select {
		case err := <-errs:
			require.ErrorIs(t, err, context.DeadlineExceeded)
		case <-time.After(2 * time.Second):
			t.Fatal("caller still pinned by a hung ledger")
		}
	}
}

func TestHourly_NamedDayHasEverySlot(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 10, 0, 0, time.UTC)
	var specs []eventSpec
	for h := 0; h < 24; h++ {
		if h == 3 || h == 17 {
			continue
		}
		specs = append(specs, eventSpec{typ: v1.EventImpression, campaign: campaignA, at: day.Add(time.Duration(h) * time.Hour)})
	}
	// Outside the window.
	specs = append(specs, eventSpec{typ: v1.EventImpression, campaign: campaignA, at: day.Add(-2 * time.Hour)})

	e := newTestEngine(t, nil, nil, memoryIndex(t, buildEvents(specs)), nil)

	got, err := e.Hourly(context.Background(), Params{Range: "24h"})
	require.NoError(t, err)
	require.Len(t, got, 24)

	for i, p := range got {
		require.Equal(t, day.Truncate(time.Hour).Add(time.Duration(i)*time.Hour), p.Timestamp)
		require.Equal(t, i, p.Timestamp.Hour())
		if i == 3 || i == 17 {
			require.Zero(t, p.Impressions, "hour %d", i)
			require.Equal(t, "0.00", p.Spend)
			continue
		}
		require.Equal(t, int64(1), p.Impressions, "hour %d", i)
	}
	require.Equal(t, "0:00", got[0].Hour)
	require.Equal(t, "23:00", got[23].Hour)
}

func TestHourly_ExplicitRangeIsSparse(t *testing.T) {
	base := time.Date(2026, 2, 20, 8, 5, 0, 0, time.UTC)
	events := buildEvents([]eventSpec{
		{typ: v1.EventImpression, campaign: campaignA, at: base},
		{typ: v1.EventClick, campaign: campaignA, at: base.Add(5 * time.Hour), value: "2.00"},
	})
	e := newTestEngine(t, nil, nil, memoryIndex(t, events), nil)

	start, end := base.Add(-time.Hour), base.Add(10*time.Hour)
	got, err := e.Hourly(context.Background(), Params{Start: &start, End: &end})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "8:00", got[0].Hour)
	require.Equal(t, "13:00", got[1].Hour)
	require.Equal(t, "2.00", got[1].Spend)
}

func TestDevices_SharesAndColors(t *testing.T) {
	at := testNow.Add(-time.Hour)
	var specs []eventSpec
	specs = append(specs, repeat(3, eventSpec{typ: v1.EventImpression, campaign: campaignA, at: at, device: v1.DeviceDesktop})...)
	specs = append(specs, repeat(2, eventSpec{typ: v1.EventImpression, campaign: campaignA, at: at, device: v1.DeviceMobile})...)
	specs = append(specs, eventSpec{typ: v1.EventImpression, campaign: campaignA, at: at, device: v1.DeviceTablet})

	e := newTestEngine(t, nil, nil, memoryIndex(t, buildEvents(specs)), nil)

	got, err := e.Devices(context.Background(), Params{})
	require.NoError(t, err)
	require.Equal(t, []DeviceShare{
		{Name: "Desktop", Value: 50, Count: 3, Color: "#0891b2"},
		{Name: "Mobile", Value: 33, Count: 2, Color: "#f59e0b"},
		{Name: "Tablet", Value: 17, Count: 1, Color: "#dc2626"},
	}, got)
}

func TestCampaigns_EnrichedAndLimited(t *testing.T) {
	at := testNow.Add(-time.Hour)
	var specs []eventSpec
	specs = append(specs, repeat(5, eventSpec{typ: v1.EventImpression, campaign: campaignA, at: at})...)
	specs = append(specs, repeat(8, eventSpec{typ: v1.EventImpression, campaign: campaignB, at: at})...)
	specs = append(specs, eventSpec{typ: v1.EventClick, campaign: campaignB, at: at, value: "0.40"})

	campaigns := storagemocks.NewCampaignStore(t)
	campaigns.EXPECT().GetCampaigns(mock.Anything, []string{campaignB}).
		Return(map[string]*v1.Campaign{
			campaignB: {ID: campaignB, Name: "Spring Sale", Platform: v1.PlatformGoogle, Status: v1.CampaignActive},
		}, nil).Once()

	e := newTestEngine(t, nil, campaigns, memoryIndex(t, buildEvents(specs)), nil)

	got, err := e.Campaigns(context.Background(), Params{Limit: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, CampaignRow{
		CampaignID:  campaignB,
		Name:        "Spring Sale",
		Platform:    v1.PlatformGoogle,
		Status:      v1.CampaignActive,
		Impressions: 8,
		Clicks:      1,
		Spend:       "0.40",
		Revenue:     "0.00",
		CTR:         "12.50",
		CPC:         "0.40",
		CPA:         "0.00",
		ROAS:        "0.00",
	}, got[0])
}

func TestGeographic_UnknownCountry(t *testing.T) {
	at := testNow.Add(-time.Hour)
	var specs []eventSpec
	specs = append(specs, repeat(4, eventSpec{typ: v1.EventImpression, campaign: campaignA, at: at, country: "US"})...)
	specs = append(specs, repeat(2, eventSpec{typ: v1.EventImpression, campaign: campaignA, at: at})...)

	e := newTestEngine(t, nil, nil, memoryIndex(t, buildEvents(specs)), nil)

	got, err := e.Geographic(context.Background(), Params{})
	require.NoError(t, err)
	require.Equal(t, []GeoRow{
		{Country: "US", Impressions: 4},
		{Country: aggregation.UnknownKey, Impressions: 2},
	}, got)
}

func TestCache_SecondCallSkipsCompute(t *testing.T) {
	c, mr := setupCache(t)
	facts := factsOf(funnel())

	ledger := storagemocks.NewEventLedger(t)
	ledger.EXPECT().Aggregate(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, q aggregation.Query) ([]aggregation.Bucket, error) {
			return aggregation.Fold(facts, q), nil
		}).Once()

	e := newTestEngine(t, ledger, nil, nil, c)
	ctx := context.Background()

	first, err := e.Overview(ctx, Params{})
	require.NoError(t, err)
	second, err := e.Overview(ctx, Params{})
	require.NoError(t, err)
	require.Equal(t, first, second)

	key := "analytics:overview:24h:all:none:none"
	require.True(t, mr.Exists(key))
	require.Equal(t, defaultResultTTL, mr.TTL(key))
}

func TestCache_ExpiryRecomputes(t *testing.T) {
	c, mr := setupCache(t)
	facts := factsOf(funnel())

	ledger := storagemocks.NewEventLedger(t)
	ledger.EXPECT().Aggregate(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, q aggregation.Query) ([]aggregation.Bucket, error) {
			return aggregation.Fold(facts, q), nil
		}).Times(2)

	e := newTestEngine(t, ledger, nil, nil, c)
	ctx := context.Background()

	_, err := e.Overview(ctx, Params{})
	require.NoError(t, err)
	mr.FastForward(defaultResultTTL + time.Second)
	_, err = e.Overview(ctx, Params{})
	require.NoError(t, err)
}

func TestCacheKey(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 2, 0, 0, 0, 0, time.FixedZone("CET", 3600))

	tests := []struct {
		name  string
		p     Params
		extra []string
		want  string
	}{
		{"defaults", Params{}, nil, "analytics:overview:24h:all:none:none"},
		{"named range and campaign", Params{Range: "7d", CampaignID: campaignA}, nil, "analytics:overview:7d:" + campaignA + ":none:none"},
		{"explicit bounds in utc", Params{Start: &start, End: &end}, nil, "analytics:overview:24h:all:2026-02-01T00:00:00Z:2026-02-01T23:00:00Z"},
		{"extra segment", Params{Range: "30d"}, []string{"10"}, "analytics:overview:30d:all:none:none:10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, cacheKey("overview", tt.p, tt.extra...))
		})
	}
}

func TestInvalidRange(t *testing.T) {
	e := newTestEngine(t, nil, nil, memory.New(), nil)
	ctx := context.Background()

	_, err := e.Overview(ctx, Params{Range: "2h"})
	require.ErrorIs(t, err, ErrInvalidQuery)

	start, end := testNow, testNow.Add(-time.Hour)
	_, err = e.Hourly(ctx, Params{Start: &start, End: &end})
	require.ErrorIs(t, err, ErrInvalidQuery)
}

func TestRealtime(t *testing.T) {
	c, _ := setupCache(t)
	ring := cache.NewRing(c, 100, time.Hour)
	ctx := context.Background()

	events := buildEvents([]eventSpec{
		{typ: v1.EventImpression, campaign: campaignA, at: testNow.Add(-20 * time.Minute)},
		{typ: v1.EventClick, campaign: campaignA, at: testNow.Add(-10 * time.Minute), value: "0.90"},
		{typ: v1.EventImpression, campaign: campaignA, at: testNow.Add(-2 * time.Hour)},
	})
	for _, evt := range events {
		ring.Push(ctx, evt)
	}

	campaigns := storagemocks.NewCampaignStore(t)
	campaigns.EXPECT().CountActiveCampaigns(mock.Anything, testNow).Return(int64(4), nil)

	e := NewEngine(storagemocks.NewEventLedger(t), campaigns, memoryIndex(t, events), c, ring, 0)
	e.nowFn = func() time.Time { return testNow }

	got, err := e.Realtime(ctx, "")
	require.NoError(t, err)
	require.Len(t, got.RecentEvents, 3)
	require.Equal(t, int64(4), got.ActiveCampaigns)
	require.Equal(t, HourStats{Impressions: 1, Clicks: 1, Spend: "0.90"}, got.CurrentHour)
	require.Equal(t, testNow, got.LastUpdate)
}

func TestCampaignStats_UnknownCampaign(t *testing.T) {
	campaigns := storagemocks.NewCampaignStore(t)
	campaigns.EXPECT().GetCampaign(mock.Anything, campaignA).Return(nil, storage.ErrCampaignNotFound)

	e := newTestEngine(t, nil, campaigns, memory.New(), nil)

	_, err := e.CampaignStats(context.Background(), Params{CampaignID: campaignA})
	require.ErrorIs(t, err, storage.ErrCampaignNotFound)
}

func TestNewEngine_Panics(t *testing.T) {
	require.Panics(t, func() { NewEngine(nil, storagemocks.NewCampaignStore(t), nil, nil, nil, 0) })
	require.Panics(t, func() { NewEngine(storagemocks.NewEventLedger(t), nil, nil, nil, nil, 0) })
}

package aggregation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func fact(id, typ, campaign, device, country string, ts time.Time, value, conv string) Fact {
	return Fact{
		EventID:         id,
		Type:            typ,
		CampaignID:      campaign,
		Device:          device,
		Country:         country,
		Timestamp:       ts,
		Value:           decimal.RequireFromString(value),
		ConversionValue: decimal.RequireFromString(conv),
	}
}

func TestFold_Totals(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	facts := []Fact{
		fact("e1", "impression", "c1", "desktop", "US", base, "0", "0"),
		fact("e2", "impression", "c2", "mobile", "DE", base.Add(time.Minute), "0", "0"),
		fact("e3", "click", "c1", "desktop", "US", base.Add(2*time.Minute), "1.20", "0"),
		fact("e4", "conversion", "c1", "desktop", "US", base.Add(3*time.Minute), "0", "40"),
		fact("e5", "scroll", "c1", "desktop", "US", base.Add(4*time.Minute), "0", "0"),
		fact("e6", "impression", "c1", "desktop", "US", base.Add(-time.Hour), "0", "0"),
	}

	got := Fold(facts, Query{Start: base, End: base.Add(time.Hour)})
	require.Len(t, got, 1)
	require.Equal(t, int64(5), got[0].Events)
	require.Equal(t, int64(2), got[0].Impressions)
	require.Equal(t, int64(1), got[0].Clicks)
	require.Equal(t, int64(1), got[0].Conversions)
	require.True(t, got[0].Spend.Equal(decimal.RequireFromString("1.20")))
	require.True(t, got[0].Revenue.Equal(decimal.NewFromInt(40)))
	require.Equal(t, int64(2), got[0].Campaigns)
}

func TestFold_GroupingsAndOrdering(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 15, 0, 0, time.UTC)
	facts := []Fact{
		fact("e1", "impression", "c1", "desktop", "US", base, "0", "0"),
		fact("e2", "impression", "c1", "mobile", "DE", base.Add(time.Hour), "0", "0"),
		fact("e3", "impression", "c2", "mobile", "DE", base.Add(time.Hour), "0", "0"),
		fact("e4", "click", "c2", "", "", base.Add(2*time.Hour), "2", "0"),
	}
	q := Query{Start: base.Add(-time.Hour), End: base.Add(3 * time.Hour)}

	tests := []struct {
		name    string
		groupBy GroupBy
		limit   int
		check   func(t *testing.T, got []Bucket)
	}{
		{
			name:    "hour ascending",
			groupBy: GroupHour,
			check: func(t *testing.T, got []Bucket) {
				require.Len(t, got, 3)
				require.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), got[0].Time)
				require.Equal(t, int64(2), got[1].Impressions)
				require.Equal(t, int64(1), got[2].Clicks)
			},
		},
		{
			name:    "device by event count with unknown",
			groupBy: GroupDevice,
			check: func(t *testing.T, got []Bucket) {
				require.Len(t, got, 3)
				require.Equal(t, "mobile", got[0].Key)
				require.Equal(t, int64(2), got[0].Events)
				require.Equal(t, "desktop", got[1].Key)
				require.Equal(t, UnknownKey, got[2].Key)
			},
		},
		{
			name:    "country limited",
			groupBy: GroupCountry,
			limit:   1,
			check: func(t *testing.T, got []Bucket) {
				require.Len(t, got, 1)
				require.Equal(t, "DE", got[0].Key)
				require.Equal(t, int64(2), got[0].Impressions)
			},
		},
		{
			name:    "campaign",
			groupBy: GroupCampaign,
			check: func(t *testing.T, got []Bucket) {
				require.Len(t, got, 2)
				require.Equal(t, "c1", got[0].Key)
				require.Equal(t, "c2", got[1].Key)
				require.True(t, got[1].Spend.Equal(decimal.NewFromInt(2)))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := q
			q.GroupBy = tc.groupBy
			q.Limit = tc.limit
			tc.check(t, Fold(facts, q))
		})
	}
}

func TestFold_CampaignFilter(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	facts := []Fact{
		fact("e1", "impression", "c1", "desktop", "US", base, "0", "0"),
		fact("e2", "impression", "c2", "desktop", "US", base, "0", "0"),
	}
	got := Fold(facts, Query{Start: base, End: base, CampaignID: "c2"})
	require.Len(t, got, 1)
	require.Equal(t, int64(1), got[0].Impressions)
	require.Equal(t, int64(1), got[0].Campaigns)
}

func TestFold_EmptyInput(t *testing.T) {
	totals := Fold(nil, Query{GroupBy: GroupNone})
	require.Len(t, totals, 1)
	require.Zero(t, totals[0].Events)
	require.True(t, totals[0].Spend.IsZero())

	require.Empty(t, Fold(nil, Query{GroupBy: GroupDevice}))
}

func TestSortBuckets_DeviceTiesBreakOnKey(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	facts := []Fact{
		fact("e1", "impression", "c1", "mobile", "US", base, "0", "0"),
		fact("e2", "impression", "c1", "mobile", "US", base, "0", "0"),
		fact("e3", "scroll", "c1", "desktop", "US", base, "0", "0"),
		fact("e4", "scroll", "c1", "desktop", "US", base, "0", "0"),
		fact("e5", "click", "c1", "tablet", "US", base, "1", "0"),
	}

	got := Fold(facts, Query{Start: base, End: base.Add(time.Hour), GroupBy: GroupDevice})
	keys := make([]string, len(got))
	for i, b := range got {
		keys[i] = b.Key
	}
	// events DESC, bucket_key ASC, as the SQL backends order them
	require.Equal(t, []string{"desktop", "mobile", "tablet"}, keys)
}

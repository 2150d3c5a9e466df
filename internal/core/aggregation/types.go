package aggregation

import (
	"time"

	"github.com/shopspring/decimal"
)

// GroupBy selects the facet an aggregation query buckets on.
type GroupBy string

const (
	GroupNone     GroupBy = ""
	GroupHour     GroupBy = "hour"
	GroupDevice   GroupBy = "device"
	GroupCountry  GroupBy = "country"
	GroupCampaign GroupBy = "campaign"
)

func (g GroupBy) Valid() bool {
	switch g {
	case GroupNone, GroupHour, GroupDevice, GroupCountry, GroupCampaign:
		return true
	}
	return false
}

// Query is the structured aggregation request understood by both the
// secondary index and the ledger fallback. Start is inclusive, End inclusive.
type Query struct {
	Start      time.Time
	End        time.Time
	CampaignID string // empty = all campaigns
	GroupBy    GroupBy
	Limit      int // 0 = unlimited; only applied to device/country/campaign groupings
}

// Bucket is one row of an aggregation result.
// Key holds the facet value (device, country, campaign id); Time is set for hour buckets.
type Bucket struct {
	Key         string          `json:"key,omitempty"`
	Time        time.Time       `json:"time,omitempty"`
	Events      int64           `json:"events"`
	Impressions int64           `json:"impressions"`
	Clicks      int64           `json:"clicks"`
	Conversions int64           `json:"conversions"`
	Spend       decimal.Decimal `json:"spend"`
	Revenue     decimal.Decimal `json:"revenue"`
	Campaigns   int64           `json:"campaigns"`
}

// Fact is the flattened projection of an event that aggregation needs.
type Fact struct {
	EventID         string
	Type            string
	CampaignID      string
	Device          string
	Country         string
	Timestamp       time.Time
	Value           decimal.Decimal
	ConversionValue decimal.Decimal
}

// UnknownKey labels facet values that were never captured.
const UnknownKey = "unknown"

package clickhouse

import (
	"fmt"
	"strings"

	"github.com/aevon-lab/adpulse/internal/core/aggregation"
)

// createTableTemplate is the fixed field mapping: LowCardinality keyword facets,
// Decimal money and a millisecond timestamp. ReplacingMergeTree keyed on event_id
// keeps re-mirrored events from double counting once reads use FINAL.
const createTableTemplate = `
	CREATE TABLE IF NOT EXISTS %s (
		event_id         String,
		event_type       LowCardinality(String),
		campaign_id      LowCardinality(String),
		user_id          String,
		session_id       String,
		occurred_at      DateTime64(3, 'UTC'),
		value            Decimal(18, 4),
		conversion_value Decimal(18, 4),
		currency         LowCardinality(String),
		platform         LowCardinality(String),
		device           LowCardinality(String),
		browser          LowCardinality(String),
		os               LowCardinality(String),
		country          LowCardinality(String),
		region           LowCardinality(String),
		city             LowCardinality(String),
		referrer         String,
		landing_page     String,
		version          UInt64
	) ENGINE = ReplacingMergeTree(version)
	PARTITION BY toYYYYMM(occurred_at)
	ORDER BY (event_id)
	SETTINGS index_granularity = 8192
`

const insertColumns = `event_id, event_type, campaign_id, user_id, session_id, occurred_at,
		value, conversion_value, currency, platform, device, browser, os,
		country, region, city, referrer, landing_page, version`

func createTableSQL(table string) string {
	return fmt.Sprintf(createTableTemplate, table)
}

func insertSQL(table string) string {
	return fmt.Sprintf("INSERT INTO %s (%s)", table, insertColumns)
}

var groupKeyExpr = map[aggregation.GroupBy]string{
	aggregation.GroupNone:     `''`,
	aggregation.GroupHour:     `formatDateTime(toStartOfHour(occurred_at), '%Y-%m-%dT%H:00:00Z', 'UTC')`,
	aggregation.GroupDevice:   `if(device = '', 'unknown', device)`,
	aggregation.GroupCountry:  `if(country = '', 'unknown', country)`,
	aggregation.GroupCampaign: `toString(campaign_id)`,
}

var groupOrder = map[aggregation.GroupBy]string{
	aggregation.GroupHour:     `ORDER BY bucket_key ASC`,
	aggregation.GroupDevice:   `ORDER BY events DESC, bucket_key ASC`,
	aggregation.GroupCountry:  `ORDER BY impressions DESC, bucket_key ASC`,
	aggregation.GroupCampaign: `ORDER BY impressions DESC, bucket_key ASC`,
}

// buildQuery renders q against table. Money sums are returned as strings so they
// scan into decimal.Decimal without float rounding.
func buildQuery(table string, q aggregation.Query) (string, []any, error) {
	keyExpr, ok := groupKeyExpr[q.GroupBy]
	if !ok {
		return "", nil, fmt.Errorf("unsupported group by %q", q.GroupBy)
	}

	args := []any{q.Start, q.End}
	where := "WHERE occurred_at >= ? AND occurred_at <= ?"
	if q.CampaignID != "" {
		where += " AND campaign_id = ?"
		args = append(args, q.CampaignID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `
		SELECT
			%s AS bucket_key,
			toInt64(count()) AS events,
			toInt64(countIf(event_type = 'impression')) AS impressions,
			toInt64(countIf(event_type = 'click')) AS clicks,
			toInt64(countIf(event_type = 'conversion')) AS conversions,
			toString(sumIf(value, event_type = 'click')) AS spend,
			toString(sumIf(conversion_value, event_type = 'conversion')) AS revenue,
			toInt64(uniqExact(campaign_id)) AS campaigns
		FROM %s FINAL
		%s`, keyExpr, table, where)

	if q.GroupBy != aggregation.GroupNone {
		fmt.Fprintf(&b, "\n\t\tGROUP BY bucket_key\n\t\t%s", groupOrder[q.GroupBy])
		if q.Limit > 0 && q.GroupBy != aggregation.GroupHour {
			fmt.Fprintf(&b, "\n\t\tLIMIT %d", q.Limit)
		}
	}

	return b.String(), args, nil
}

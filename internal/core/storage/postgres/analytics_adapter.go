package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	v1 "github.com/aevon-lab/adpulse/internal/api/v1"
	"github.com/aevon-lab/adpulse/internal/core/aggregation"
	"github.com/aevon-lab/adpulse/internal/core/storage"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 500
	hourKeyLayout      = time.RFC3339
)

// groupKeyExpr whitelists the bucket expression per grouping. Nothing from the
// request is ever interpolated into SQL.
var groupKeyExpr = map[aggregation.GroupBy]string{
	aggregation.GroupNone:     `''`,
	aggregation.GroupHour:     `to_char(date_trunc('hour', occurred_at AT TIME ZONE 'UTC'), 'YYYY-MM-DD"T"HH24:00:00"Z"')`,
	aggregation.GroupDevice:   `COALESCE(NULLIF(device, ''), 'unknown')`,
	aggregation.GroupCountry:  `COALESCE(NULLIF(country, ''), 'unknown')`,
	aggregation.GroupCampaign: `campaign_id::text`,
}

var groupOrder = map[aggregation.GroupBy]string{
	aggregation.GroupHour:     `ORDER BY bucket_key ASC`,
	aggregation.GroupDevice:   `ORDER BY events DESC, bucket_key ASC`,
	aggregation.GroupCountry:  `ORDER BY impressions DESC, bucket_key ASC`,
	aggregation.GroupCampaign: `ORDER BY impressions DESC, bucket_key ASC`,
}

// buildAggregateQuery renders the fallback aggregation SQL for q.
func buildAggregateQuery(q aggregation.Query) (string, []any, error) {
	keyExpr, ok := groupKeyExpr[q.GroupBy]
	if !ok {
		return "", nil, fmt.Errorf("unsupported group by %q", q.GroupBy)
	}

	args := []any{q.Start, q.End}
	where := "WHERE occurred_at >= $1 AND occurred_at <= $2"
	if q.CampaignID != "" {
		args = append(args, q.CampaignID)
		where += fmt.Sprintf(" AND campaign_id = $%d", len(args))
	}

	var b strings.Builder
	fmt.Fprintf(&b, `
		SELECT
			%s AS bucket_key,
			COUNT(*) AS events,
			COUNT(*) FILTER (WHERE event_type = 'impression') AS impressions,
			COUNT(*) FILTER (WHERE event_type = 'click') AS clicks,
			COUNT(*) FILTER (WHERE event_type = 'conversion') AS conversions,
			COALESCE(SUM(value) FILTER (WHERE event_type = 'click'), 0) AS spend,
			COALESCE(SUM(conversion_value) FILTER (WHERE event_type = 'conversion'), 0) AS revenue,
			COUNT(DISTINCT campaign_id) AS campaigns
		FROM ad_events
		%s`, keyExpr, where)

	if q.GroupBy != aggregation.GroupNone {
		fmt.Fprintf(&b, "\n\t\tGROUP BY bucket_key\n\t\t%s", groupOrder[q.GroupBy])
		if q.Limit > 0 && q.GroupBy != aggregation.GroupHour {
			args = append(args, q.Limit)
			fmt.Fprintf(&b, "\n\t\tLIMIT $%d", len(args))
		}
	}

	return b.String(), args, nil
}

// Aggregate evaluates q over the ledger. It returns the same bucket shape as the
// secondary index so callers cannot tell which store answered.
func (a *Adapter) Aggregate(ctx context.Context, q aggregation.Query) ([]aggregation.Bucket, error) {
	query, args, err := buildAggregateQuery(q)
	if err != nil {
		return nil, err
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate events: %w", err)
	}
	defer rows.Close()

	var buckets []aggregation.Bucket
	for rows.Next() {
		var (
			b   aggregation.Bucket
			key string
		)
		if err := rows.Scan(&key, &b.Events, &b.Impressions, &b.Clicks, &b.Conversions, &b.Spend, &b.Revenue, &b.Campaigns); err != nil {
			return nil, fmt.Errorf("failed to scan aggregate row: %w", err)
		}
		switch q.GroupBy {
		case aggregation.GroupNone:
		case aggregation.GroupHour:
			ts, err := time.Parse(hourKeyLayout, key)
			if err != nil {
				return nil, fmt.Errorf("failed to parse hour bucket %q: %w", key, err)
			}
			b.Time = ts.UTC()
		default:
			b.Key = key
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating aggregate rows: %w", err)
	}
	return buckets, nil
}

// buildSearchWhere renders the filter shared by the page and count queries.
func buildSearchWhere(f storage.EventFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	add := func(clause string, v any) {
		args = append(args, v)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if f.CampaignID != "" {
		add("campaign_id = $%d", f.CampaignID)
	}
	if f.EventType != "" {
		add("event_type = $%d", string(f.EventType))
	}
	if f.Platform != "" {
		add("platform = $%d", string(f.Platform))
	}
	if f.Device != "" {
		add("device = $%d", string(f.Device))
	}
	if f.Start != nil && f.End != nil {
		add("occurred_at >= $%d", *f.Start)
		add("occurred_at <= $%d", *f.End)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// normalizePage clamps page and limit to sane values.
func normalizePage(f storage.EventFilter) (page, limit int) {
	page, limit = f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	return page, limit
}

// SearchEvents returns one page of matching events, newest first, and the total match count.
func (a *Adapter) SearchEvents(ctx context.Context, f storage.EventFilter) ([]*v1.Event, int64, error) {
	where, args := buildSearchWhere(f)
	page, limit := normalizePage(f)

	var total int64
	if err := a.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM ad_events "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	pageArgs := append(append([]any{}, args...), limit, (page-1)*limit)
	query := fmt.Sprintf("SELECT%s\n\t\tFROM ad_events %s\n\t\tORDER BY occurred_at DESC, ingest_seq DESC\n\t\tLIMIT $%d OFFSET $%d",
		eventColumns, where, len(pageArgs)-1, len(pageArgs))

	rows, err := a.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search events: %w", err)
	}
	events, err := scanEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	v1 "github.com/aevon-lab/adpulse/internal/api/v1"
	"github.com/aevon-lab/adpulse/internal/core/storage"
	"github.com/lib/pq"
)

// GetCampaign returns the campaign record with its current performance counters.
func (a *Adapter) GetCampaign(ctx context.Context, id string) (*v1.Campaign, error) {
	c, err := scanCampaignRow(a.stmtGetCampaign.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrCampaignNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load campaign %s: %w", id, err)
	}
	return c, nil
}

// GetCampaigns loads several campaigns by id. Unknown ids are absent from the result.
func (a *Adapter) GetCampaigns(ctx context.Context, ids []string) (map[string]*v1.Campaign, error) {
	out := make(map[string]*v1.Campaign, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := a.db.QueryContext(ctx, queryGetCampaigns, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query campaigns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCampaignRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign row: %w", err)
		}
		out[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating campaigns: %w", err)
	}
	return out, nil
}

// CountActiveCampaigns counts campaigns that accept events at now.
func (a *Adapter) CountActiveCampaigns(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	if err := a.stmtCountActive.QueryRowContext(ctx, now).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active campaigns: %w", err)
	}
	return count, nil
}

// UpsertCampaign writes the campaign record without touching its counters.
func (a *Adapter) UpsertCampaign(ctx context.Context, c *v1.Campaign) error {
	var endDate sql.NullTime
	if c.EndDate != nil {
		endDate = sql.NullTime{Time: *c.EndDate, Valid: true}
	}
	currency := c.Currency
	if currency == "" {
		currency = v1.DefaultCurrency
	}

	_, err := a.db.ExecContext(ctx, queryUpsertCampaign,
		c.ID,
		c.Name,
		string(c.Platform),
		string(c.Status),
		c.Enabled,
		c.StartDate,
		endDate,
		string(currency),
		a.nowFn(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert campaign %s: %w", c.ID, err)
	}
	return nil
}

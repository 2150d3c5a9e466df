package postgres

// SQL for the ad-event ledger and campaign counters.

const (
	// eventColumns is the select list every event read scans with scanEventRow.
	eventColumns = `
			id, event_type, campaign_id,
			COALESCE(user_id, ''), COALESCE(session_id, ''), occurred_at,
			value, conversion_value, currency, platform, device,
			COALESCE(browser_name, ''), COALESCE(browser_version, ''), COALESCE(browser_engine, ''),
			COALESCE(os_name, ''), COALESCE(os_version, ''), COALESCE(os_platform, ''),
			COALESCE(ip_address, ''), COALESCE(user_agent, ''),
			COALESCE(country, ''), COALESCE(region, ''), COALESCE(city, ''),
			COALESCE(referrer, ''), COALESCE(landing_page, ''),
			details, metadata, processing_status, COALESCE(error_message, ''), ingest_seq`

	// queryInsertEvent inserts one immutable event row.
	// ON CONFLICT DO NOTHING returns no rows (sql.ErrNoRows) for a duplicate id.
	queryInsertEvent = `
		INSERT INTO ad_events (
			id, event_type, campaign_id, user_id, session_id, occurred_at,
			value, conversion_value, currency, platform, device,
			browser_name, browser_version, browser_engine,
			os_name, os_version, os_platform,
			ip_address, user_agent, country, region, city,
			referrer, landing_page, details, metadata, processing_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)
		ON CONFLICT (id) DO NOTHING
		RETURNING ingest_seq
	`

	// queryApplyCounterDelta is an atomic numeric delta. The row lock it takes is
	// held until commit, which serialises concurrent events of one campaign.
	queryApplyCounterDelta = `
		UPDATE campaigns
		SET impressions = impressions + $2,
			clicks      = clicks + $3,
			conversions = conversions + $4,
			spend       = spend + $5,
			revenue     = revenue + $6,
			updated_at  = $7
		WHERE id = $1
		RETURNING impressions, clicks, conversions, spend, revenue
	`

	queryUpdateRatios = `
		UPDATE campaigns
		SET ctr = $2, cpc = $3, cpa = $4, roas = $5
		WHERE id = $1
	`

	queryRecentEvents = `
		SELECT` + eventColumns + `
		FROM ad_events
		WHERE campaign_id = $1
		ORDER BY occurred_at DESC, ingest_seq DESC
		LIMIT $2
	`

	// queryClaimUnmirrored moves unmirrored events that have sat untouched for
	// staleAfter into processing. SKIP LOCKED lets several reconcilers share the table.
	queryClaimUnmirrored = `
		UPDATE ad_events
		SET processing_status = 'processing', status_updated_at = $1
		WHERE id IN (
			SELECT id
			FROM ad_events
			WHERE processing_status <> 'completed'
			  AND status_updated_at < $2
			ORDER BY ingest_seq ASC
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING` + eventColumns + `
	`

	queryMarkMirrored = `
		UPDATE ad_events
		SET processing_status = $2, error_message = NULLIF($3, ''), status_updated_at = $4
		WHERE id = ANY($1)
	`

	campaignColumns = `
			id, name, platform, status, is_active, start_date, end_date, currency,
			impressions, clicks, conversions, spend, revenue, ctr, cpc, cpa, roas`

	queryGetCampaign = `
		SELECT` + campaignColumns + `
		FROM campaigns
		WHERE id = $1
	`

	queryGetCampaigns = `
		SELECT` + campaignColumns + `
		FROM campaigns
		WHERE id = ANY($1)
	`

	queryCountActiveCampaigns = `
		SELECT COUNT(*)
		FROM campaigns
		WHERE status = 'active'
		  AND is_active
		  AND start_date <= $1
		  AND (end_date IS NULL OR end_date >= $1)
	`

	// queryUpsertCampaign writes the externally owned campaign record and never
	// touches the counters.
	queryUpsertCampaign = `
		INSERT INTO campaigns (id, name, platform, status, is_active, start_date, end_date, currency, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name       = EXCLUDED.name,
			platform   = EXCLUDED.platform,
			status     = EXCLUDED.status,
			is_active  = EXCLUDED.is_active,
			start_date = EXCLUDED.start_date,
			end_date   = EXCLUDED.end_date,
			currency   = EXCLUDED.currency,
			updated_at = EXCLUDED.updated_at
	`
)

package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"

	v1 "github.com/aevon-lab/adpulse/internal/api/v1"
)

// eventDetails is the JSONB shape of the optional event sub-objects.
type eventDetails struct {
	ConversionData *v1.ConversionData `json:"conversionData,omitempty"`
	AdData         *v1.AdData         `json:"adData,omitempty"`
	PageData       *v1.PageData       `json:"pageData,omitempty"`
	UserData       *v1.UserData       `json:"userData,omitempty"`
	TechnicalData  *v1.TechnicalData  `json:"technicalData,omitempty"`
}

func (d eventDetails) empty() bool {
	return d.ConversionData == nil && d.AdData == nil && d.PageData == nil && d.UserData == nil && d.TechnicalData == nil
}

// marshalEventJSON marshals the sub-objects and metadata of an event.
// Absent values produce nil (SQL NULL) rather than JSON "null".
func marshalEventJSON(event *v1.Event) (detailsJSON, metadataJSON []byte, err error) {
	details := eventDetails{
		ConversionData: event.ConversionData,
		AdData:         event.AdData,
		PageData:       event.PageData,
		UserData:       event.UserData,
		TechnicalData:  event.TechnicalData,
	}
	if !details.empty() {
		detailsJSON, err = json.Marshal(details)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal event details: %w", err)
		}
	}

	if len(event.Metadata) > 0 {
		metadataJSON, err = json.Marshal(event.Metadata)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
	}

	return detailsJSON, metadataJSON, nil
}

// insertEventArgs returns the positional arguments of queryInsertEvent.
func insertEventArgs(event *v1.Event) ([]any, error) {
	detailsJSON, metadataJSON, err := marshalEventJSON(event)
	if err != nil {
		return nil, err
	}
	return []any{
		event.ID,
		string(event.Type),
		event.CampaignID,
		event.UserID,
		event.SessionID,
		event.Timestamp,
		event.Value,
		event.ConversionValue,
		string(event.Currency),
		string(event.Platform),
		string(event.Device),
		event.Browser.Name,
		event.Browser.Version,
		event.Browser.Engine,
		event.OS.Name,
		event.OS.Version,
		event.OS.Platform,
		event.IPAddress,
		event.UserAgent,
		event.Location.Country,
		event.Location.Region,
		event.Location.City,
		event.Referrer,
		event.LandingPage,
		detailsJSON,
		metadataJSON,
		string(event.ProcessingStatus),
	}, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanEventRow scans a row selected with eventColumns.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanEventRow(row scanner) (*v1.Event, error) {
	var (
		evt                      v1.Event
		detailsJSON, metadataRaw []byte
	)

	err := row.Scan(
		&evt.ID,
		&evt.Type,
		&evt.CampaignID,
		&evt.UserID,
		&evt.SessionID,
		&evt.Timestamp,
		&evt.Value,
		&evt.ConversionValue,
		&evt.Currency,
		&evt.Platform,
		&evt.Device,
		&evt.Browser.Name,
		&evt.Browser.Version,
		&evt.Browser.Engine,
		&evt.OS.Name,
		&evt.OS.Version,
		&evt.OS.Platform,
		&evt.IPAddress,
		&evt.UserAgent,
		&evt.Location.Country,
		&evt.Location.Region,
		&evt.Location.City,
		&evt.Referrer,
		&evt.LandingPage,
		&detailsJSON,
		&metadataRaw,
		&evt.ProcessingStatus,
		&evt.ErrorMessage,
		&evt.IngestSeq,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan event row: %w", err)
	}
	evt.Timestamp = evt.Timestamp.UTC()

	if len(detailsJSON) > 0 {
		var details eventDetails
		if err := json.Unmarshal(detailsJSON, &details); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event details: %w", err)
		}
		evt.ConversionData = details.ConversionData
		evt.AdData = details.AdData
		evt.PageData = details.PageData
		evt.UserData = details.UserData
		evt.TechnicalData = details.TechnicalData
	}

	if len(metadataRaw) > 0 {
		if err := json.Unmarshal(metadataRaw, &evt.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return &evt, nil
}

// scanEvents drains rows selected with eventColumns.
func scanEvents(rows *sql.Rows) ([]*v1.Event, error) {
	defer rows.Close()

	var events []*v1.Event
	for rows.Next() {
		event, err := scanEventRow(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}
	return events, nil
}

// scanCampaignRow scans a row selected with campaignColumns.
func scanCampaignRow(row scanner) (*v1.Campaign, error) {
	var (
		c       v1.Campaign
		endDate sql.NullTime
	)
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Platform,
		&c.Status,
		&c.Enabled,
		&c.StartDate,
		&endDate,
		&c.Currency,
		&c.Performance.Impressions,
		&c.Performance.Clicks,
		&c.Performance.Conversions,
		&c.Performance.Spend,
		&c.Performance.Revenue,
		&c.Performance.CTR,
		&c.Performance.CPC,
		&c.Performance.CPA,
		&c.Performance.ROAS,
	)
	if err != nil {
		return nil, err
	}
	if endDate.Valid {
		end := endDate.Time
		c.EndDate = &end
	}
	return &c, nil
}

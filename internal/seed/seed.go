// Package seed loads campaign fixtures for local runs.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	v1 "github.com/aevon-lab/adpulse/internal/api/v1"
	"github.com/aevon-lab/adpulse/internal/core/storage"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// rawCampaign is the on-disk YAML shape. Dates are RFC3339 strings.
type rawCampaign struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Platform  string `yaml:"platform"`
	Status    string `yaml:"status"`
	IsActive  *bool  `yaml:"is_active"`
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`
	Currency  string `yaml:"currency"`
}

type rawFile struct {
	Campaigns []rawCampaign `yaml:"campaigns"`
}

// Load reads and validates a fixture file. A malformed entry fails the whole file.
func Load(path string) ([]*v1.Campaign, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes fixture YAML.
func Parse(data []byte) ([]*v1.Campaign, error) {
	var raw rawFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}

	seen := make(map[string]struct{}, len(raw.Campaigns))
	out := make([]*v1.Campaign, 0, len(raw.Campaigns))
	for i, rc := range raw.Campaigns {
		c, err := rc.toCampaign()
		if err != nil {
			return nil, fmt.Errorf("campaign %d: %w", i, err)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("campaign %d: duplicate id %s", i, c.ID)
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}

func (rc rawCampaign) toCampaign() (*v1.Campaign, error) {
	if _, err := uuid.Parse(rc.ID); err != nil {
		return nil, fmt.Errorf("id %q is not a uuid", rc.ID)
	}
	if rc.Name == "" {
		return nil, fmt.Errorf("name must not be empty")
	}

	c := &v1.Campaign{
		ID:       rc.ID,
		Name:     rc.Name,
		Platform: v1.Platform(rc.Platform),
		Status:   v1.CampaignStatus(rc.Status),
		Enabled:  rc.IsActive == nil || *rc.IsActive,
		Currency: v1.Currency(rc.Currency),
	}
	if c.Platform == "" {
		c.Platform = v1.PlatformOther
	}
	if !c.Platform.Valid() {
		return nil, fmt.Errorf("unsupported platform %q", rc.Platform)
	}
	if c.Status == "" {
		c.Status = v1.CampaignDraft
	}
	if !c.Status.Valid() {
		return nil, fmt.Errorf("unsupported status %q", rc.Status)
	}
	if c.Currency == "" {
		c.Currency = v1.DefaultCurrency
	}
	if !c.Currency.Valid() {
		return nil, fmt.Errorf("unsupported currency %q", rc.Currency)
	}

	if rc.StartDate == "" {
		return nil, fmt.Errorf("start_date is required")
	}
	start, err := time.Parse(time.RFC3339, rc.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start_date: %w", err)
	}
	c.StartDate = start.UTC()

	if rc.EndDate != "" {
		end, err := time.Parse(time.RFC3339, rc.EndDate)
		if err != nil {
			return nil, fmt.Errorf("end_date: %w", err)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("end_date is before start_date")
		}
		end = end.UTC()
		c.EndDate = &end
	}
	return c, nil
}

// Apply upserts every campaign. Counters of existing rows are left alone.
func Apply(ctx context.Context, store storage.CampaignStore, campaigns []*v1.Campaign) error {
	for _, c := range campaigns {
		if err := store.UpsertCampaign(ctx, c); err != nil {
			return err
		}
	}
	slog.Info("[Seed] Campaigns loaded", "count", len(campaigns))
	return nil
}

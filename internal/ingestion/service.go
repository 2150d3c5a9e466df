// Package ingestion accepts ad events, records them in the ledger and hands the
// best-effort side effects (mirror, broadcast, recent ring) to the dispatcher.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	v1 "github.com/aevon-lab/adpulse/internal/api/v1"
	"github.com/aevon-lab/adpulse/internal/cache"
	"github.com/aevon-lab/adpulse/internal/core/storage"
	"github.com/aevon-lab/adpulse/internal/dispatch"
	"github.com/aevon-lab/adpulse/internal/mirror"
	"github.com/aevon-lab/adpulse/internal/realtime"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultMaxBatch        = 1000
	defaultMaxMetadataKeys = 50
	defaultRecentLimit     = 50
	maxRecentLimit         = 100
)

var (
	// ErrCampaignInactive is returned when the campaign exists but does not accept events now.
	ErrCampaignInactive = errors.New("campaign is not active")

	// ErrBatchTooLarge is returned when a batch exceeds the configured cap.
	ErrBatchTooLarge = errors.New("batch too large")

	// ErrPersistence wraps every ledger failure on the synchronous path.
	ErrPersistence = errors.New("failed to persist event")
)

// Each sink runs in its own dispatch pool so a slow index never holds up live
// delivery.
const (
	poolIndex     = "index"
	poolBroadcast = "broadcast"
	poolRing      = "recent_ring"
)

// Submitter hands tasks to a fire-and-forget executor.
type Submitter interface {
	Submit(t dispatch.Task) bool
}

// Sinks are the best-effort destinations of an accepted event. A nil sink is skipped.
type Sinks struct {
	Mirror *mirror.Mirror
	Hub    *realtime.Hub
	Ring   *cache.Ring
}

type Options struct {
	MaxBatch        int
	MaxMetadataKeys int
	MaxBodySizeMB   int
}

type Service struct {
	ledger           storage.EventLedger
	campaigns        storage.CampaignStore
	dispatcher       Submitter
	sinks            Sinks
	maxBatch         int
	maxMetadataKeys  int
	maxBodySizeBytes int64

	nowFn func() time.Time
	newID func() string
}

func NewService(ledger storage.EventLedger, campaigns storage.CampaignStore, dispatcher Submitter, sinks Sinks, opts Options) *Service {
	if ledger == nil {
		panic("ingestion: ledger must not be nil")
	}
	if campaigns == nil {
		panic("ingestion: campaign store must not be nil")
	}
	if dispatcher == nil {
		panic("ingestion: dispatcher must not be nil")
	}
	if opts.MaxBatch <= 0 {
		opts.MaxBatch = defaultMaxBatch
	}
	if opts.MaxMetadataKeys <= 0 {
		opts.MaxMetadataKeys = defaultMaxMetadataKeys
	}
	if opts.MaxBodySizeMB <= 0 {
		opts.MaxBodySizeMB = 1
	}
	return &Service{
		ledger:           ledger,
		campaigns:        campaigns,
		dispatcher:       dispatcher,
		sinks:            sinks,
		maxBatch:         opts.MaxBatch,
		maxMetadataKeys:  opts.MaxMetadataKeys,
		maxBodySizeBytes: int64(opts.MaxBodySizeMB) * 1024 * 1024,
		nowFn:            func() time.Time { return time.Now().UTC() },
		newID:            uuid.NewString,
	}
}

// RegisterRoutes registers the event routes on the /api/v1 group.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/events/track", s.TrackHandler)
	r.POST("/events/bulk", s.BulkHandler)
	r.GET("/events/recent/:campaignId", s.RecentHandler)
	r.GET("/events/search", s.SearchHandler)
}

// Track validates, records and fans out a single event.
func (s *Service) Track(ctx context.Context, req *v1.TrackRequest, facets ClientFacets) (*v1.Event, error) {
	if err := req.Validate(s.maxMetadataKeys); err != nil {
		return nil, err
	}

	campaign, err := s.campaigns.GetCampaign(ctx, req.CampaignID)
	if err != nil {
		if errors.Is(err, storage.ErrCampaignNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	now := s.nowFn()
	if !campaign.IsActive(now) {
		return nil, ErrCampaignInactive
	}

	evt := s.newEvent(req, facets, campaign, now)
	if err := s.record(ctx, evt); err != nil {
		return nil, err
	}

	slog.Info("[Ingestion] Event tracked",
		"event_id", evt.ID,
		"event_type", evt.Type,
		"campaign_id", evt.CampaignID,
		"platform", evt.Platform,
		"device", evt.Device)

	s.fanOut(evt)
	if s.sinks.Mirror != nil {
		s.submit("mirror", poolIndex, evt.CampaignID, func(ctx context.Context) error {
			return s.sinks.Mirror.One(ctx, evt)
		})
	}
	return evt, nil
}

// BatchError is the failure of one batch element.
type BatchError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// BatchResult summarises a batch. EventIDs are in submission order of the successes.
type BatchResult struct {
	Successful int          `json:"successful"`
	Failed     int          `json:"failed"`
	Errors     []BatchError `json:"errors,omitempty"`
	EventIDs   []string     `json:"eventIds"`
}

// TrackBatch applies Track semantics to each element independently. Only a
// malformed batch or a campaign store outage fails the whole call.
func (s *Service) TrackBatch(ctx context.Context, reqs []v1.TrackRequest, facets ClientFacets) (*BatchResult, error) {
	if len(reqs) == 0 {
		return nil, &v1.ValidationError{Field: "events", Message: "Events array is required and must not be empty"}
	}
	if len(reqs) > s.maxBatch {
		return nil, fmt.Errorf("%w: maximum %d events allowed per request, got %d", ErrBatchTooLarge, s.maxBatch, len(reqs))
	}

	res := &BatchResult{EventIDs: make([]string, 0, len(reqs))}
	fail := func(i int, msg string) {
		res.Failed++
		res.Errors = append(res.Errors, BatchError{Index: i, Error: msg})
	}

	invalid := make([]error, len(reqs))
	ids := make([]string, 0, len(reqs))
	seen := make(map[string]struct{}, len(reqs))
	for i := range reqs {
		if err := reqs[i].Validate(s.maxMetadataKeys); err != nil {
			invalid[i] = err
			continue
		}
		if _, ok := seen[reqs[i].CampaignID]; !ok {
			seen[reqs[i].CampaignID] = struct{}{}
			ids = append(ids, reqs[i].CampaignID)
		}
	}

	campaigns := map[string]*v1.Campaign{}
	if len(ids) > 0 {
		var err error
		campaigns, err = s.campaigns.GetCampaigns(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	accepted := make([]*v1.Event, 0, len(reqs))
	for i := range reqs {
		req := &reqs[i]
		if invalid[i] != nil {
			fail(i, invalid[i].Error())
			continue
		}

		now := s.nowFn()
		campaign, ok := campaigns[req.CampaignID]
		if !ok || !campaign.IsActive(now) {
			fail(i, "Campaign not found or inactive")
			continue
		}

		evt := s.newEvent(req, facets, campaign, now)
		if err := s.record(ctx, evt); err != nil {
			if errors.Is(err, storage.ErrCampaignNotFound) {
				fail(i, "Campaign not found or inactive")
			} else {
				fail(i, ErrPersistence.Error())
			}
			continue
		}

		res.Successful++
		res.EventIDs = append(res.EventIDs, evt.ID)
		accepted = append(accepted, evt)
		s.fanOut(evt)
	}

	if len(accepted) > 0 && s.sinks.Mirror != nil {
		s.submit("mirror_bulk", poolIndex, accepted[0].CampaignID, func(ctx context.Context) error {
			_, err := s.sinks.Mirror.Bulk(ctx, accepted)
			return err
		})
	}

	slog.Info("[Ingestion] Batch processed",
		"total", len(reqs),
		"successful", res.Successful,
		"failed", res.Failed)
	return res, nil
}

// newEvent builds the event the ledger will store. Timestamps are always server-assigned.
func (s *Service) newEvent(req *v1.TrackRequest, facets ClientFacets, campaign *v1.Campaign, now time.Time) *v1.Event {
	evt := req.ToEvent()
	evt.ID = s.newID()
	evt.Timestamp = now
	applyFacets(evt, facets, campaign)
	return evt
}

// record persists the event and its counter delta. This is the only step the
// caller waits on.
func (s *Service) record(ctx context.Context, evt *v1.Event) error {
	if _, err := s.ledger.RecordEvent(ctx, evt); err != nil {
		if errors.Is(err, storage.ErrCampaignNotFound) {
			return err
		}
		slog.Error("[Ingestion] Failed to persist event",
			"event_id", evt.ID,
			"campaign_id", evt.CampaignID,
			"error", err)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// fanOut schedules the broadcast and recent-ring side effects as separate tasks.
func (s *Service) fanOut(evt *v1.Event) {
	if s.sinks.Hub != nil {
		summary := evt.Summary()
		s.submit("broadcast", poolBroadcast, evt.CampaignID, func(context.Context) error {
			s.sinks.Hub.Publish(evt.CampaignID, summary)
			return nil
		})
	}
	if s.sinks.Ring != nil {
		s.submit("recent_ring", poolRing, evt.CampaignID, func(ctx context.Context) error {
			s.sinks.Ring.Push(ctx, evt)
			return nil
		})
	}
}

func (s *Service) submit(name, pool, key string, run func(ctx context.Context) error) {
	s.dispatcher.Submit(dispatch.Task{Name: name, Pool: pool, Key: key, Run: run})
}

// Package realtime fans newly ingested events out to live subscribers,
// one logical channel per campaign.
package realtime

import (
	"log/slog"
	"sync"
	"sync/atomic"

	v1 "github.com/aevon-lab/adpulse/internal/api/v1"
)

const defaultClientBuffer = 32

// Hub is fire-and-forget: no acknowledgment, no persistence, no redelivery.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[*Subscription]struct{}
	all      map[*Subscription]struct{}
	buffer   int
	closed   bool

	delivered atomic.Int64
	dropped   atomic.Int64
}

func NewHub(clientBuffer int) *Hub {
	if clientBuffer <= 0 {
		clientBuffer = defaultClientBuffer
	}
	return &Hub{
		channels: make(map[string]map[*Subscription]struct{}),
		all:      make(map[*Subscription]struct{}),
		buffer:   clientBuffer,
	}
}

// Subscription is one subscriber. It can sit in several campaign channels and
// receives every message on C until it is closed.
type Subscription struct {
	hub       *Hub
	ch        chan v1.EventSummary
	campaigns map[string]struct{} // guarded by hub.mu
	closed    bool                // guarded by hub.mu
}

// NewSubscription returns a subscriber that has not joined any campaign yet.
func (h *Hub) NewSubscription() *Subscription {
	s := &Subscription{
		hub:       h,
		ch:        make(chan v1.EventSummary, h.buffer),
		campaigns: make(map[string]struct{}),
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		s.closed = true
		close(s.ch)
		return s
	}
	h.all[s] = struct{}{}
	return s
}

// Subscribe joins a new subscriber to campaignID.
func (h *Hub) Subscribe(campaignID string) *Subscription {
	s := h.NewSubscription()
	s.Join(campaignID)
	return s
}

// C delivers published messages. It is closed when the subscription ends.
func (s *Subscription) C() <-chan v1.EventSummary {
	return s.ch
}

func (s *Subscription) Join(campaignID string) {
	h := s.hub
	h.mu.Lock()
	defer h.mu.Unlock()
	if s.closed {
		return
	}
	subs, ok := h.channels[campaignID]
	if !ok {
		subs = make(map[*Subscription]struct{})
		h.channels[campaignID] = subs
	}
	subs[s] = struct{}{}
	s.campaigns[campaignID] = struct{}{}
}

func (s *Subscription) Leave(campaignID string) {
	h := s.hub
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detach(s, campaignID)
}

// Close removes the subscriber from every channel and closes C. Safe to call twice.
func (s *Subscription) Close() {
	h := s.hub
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closeLocked(s)
}

func (h *Hub) closeLocked(s *Subscription) {
	if s.closed {
		return
	}
	for campaignID := range s.campaigns {
		h.detach(s, campaignID)
	}
	delete(h.all, s)
	s.closed = true
	close(s.ch)
}

func (h *Hub) detach(s *Subscription, campaignID string) {
	delete(s.campaigns, campaignID)
	subs, ok := h.channels[campaignID]
	if !ok {
		return
	}
	delete(subs, s)
	if len(subs) == 0 {
		delete(h.channels, campaignID)
	}
}

// Publish delivers msg to every current subscriber of campaignID without
// blocking. A subscriber whose buffer is full misses the message.
// Returns the number of subscribers that received it.
func (h *Hub) Publish(campaignID string, msg v1.EventSummary) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for s := range h.channels[campaignID] {
		select {
		case s.ch <- msg:
			sent++
		default:
			h.dropped.Add(1)
			slog.Debug("[Realtime] Subscriber buffer full, dropping message",
				"campaign_id", campaignID,
				"event_id", msg.EventID)
		}
	}
	h.delivered.Add(int64(sent))
	return sent
}

// Subscribers returns the current subscriber count of campaignID.
func (h *Hub) Subscribers(campaignID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[campaignID])
}

// Stats returns delivered and dropped message totals.
func (h *Hub) Stats() (delivered, dropped int64) {
	return h.delivered.Load(), h.dropped.Load()
}

// Shutdown ends every subscription so that transports can return.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true

	n := len(h.all)
	for s := range h.all {
		h.closeLocked(s)
	}
	delivered, dropped := h.Stats()
	slog.Info("[Realtime] Hub shut down",
		"subscribers", n,
		"delivered", delivered,
		"dropped", dropped)
}

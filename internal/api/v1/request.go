package v1

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MsgMissingFields is the validation message for requests without eventType or campaignId.
const MsgMissingFields = "Missing required fields: eventType, campaignId"

// ValidationError describes malformed or out-of-range input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// TrackRequest is the client-supplied part of an event.
// Network and user-agent facets come from the transport, never the body.
type TrackRequest struct {
	EventType       EventType        `json:"eventType"`
	CampaignID      string           `json:"campaignId"`
	Value           *decimal.Decimal `json:"value,omitempty"`
	ConversionValue *decimal.Decimal `json:"conversionValue,omitempty"`
	Currency        Currency         `json:"currency,omitempty"`
	Platform        Platform         `json:"platform,omitempty"`
	Device          Device           `json:"device,omitempty"`
	SessionID       string           `json:"sessionId,omitempty"`
	UserID          string           `json:"userId,omitempty"`
	Referrer        string           `json:"referrer,omitempty"`
	LandingPage     string           `json:"landingPage,omitempty"`
	Location        *Location        `json:"location,omitempty"`

	ConversionData *ConversionData `json:"conversionData,omitempty"`
	AdData         *AdData         `json:"adData,omitempty"`
	PageData       *PageData       `json:"pageData,omitempty"`
	UserData       *UserData       `json:"userData,omitempty"`
	TechnicalData  *TechnicalData  `json:"technicalData,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

// Validate checks the request at the ingestion boundary.
// maxMetadataKeys <= 0 disables the metadata bound.
func (r *TrackRequest) Validate(maxMetadataKeys int) error {
	if r.EventType == "" || r.CampaignID == "" {
		return &ValidationError{Message: MsgMissingFields}
	}
	if !r.EventType.Valid() {
		return invalid("eventType", "unsupported event type %q", r.EventType)
	}
	if _, err := uuid.Parse(r.CampaignID); err != nil {
		return invalid("campaignId", "must be a valid campaign id")
	}
	if r.Value != nil && r.Value.IsNegative() {
		return invalid("value", "must be non-negative")
	}
	if r.ConversionValue != nil && r.ConversionValue.IsNegative() {
		return invalid("conversionValue", "must be non-negative")
	}
	if r.Currency != "" && !r.Currency.Valid() {
		return invalid("currency", "unsupported currency %q", r.Currency)
	}
	if r.Platform != "" && !r.Platform.Valid() {
		return invalid("platform", "unsupported platform %q", r.Platform)
	}
	if r.Device != "" && !r.Device.Valid() {
		return invalid("device", "unsupported device %q", r.Device)
	}
	if r.TechnicalData != nil && r.TechnicalData.LoadTime < 0 {
		return invalid("technicalData.loadTime", "must be non-negative")
	}
	if maxMetadataKeys > 0 && len(r.Metadata) > maxMetadataKeys {
		return invalid("metadata", "at most %d keys allowed, got %d", maxMetadataKeys, len(r.Metadata))
	}
	return nil
}

// ToEvent builds the event core from a validated request. Identity, time and
// client facets are filled in by the ingestion service.
func (r *TrackRequest) ToEvent() *Event {
	evt := &Event{
		Type:             r.EventType,
		CampaignID:       r.CampaignID,
		UserID:           r.UserID,
		SessionID:        r.SessionID,
		Currency:         r.Currency,
		Platform:         r.Platform,
		Device:           r.Device,
		Referrer:         r.Referrer,
		LandingPage:      r.LandingPage,
		ConversionData:   r.ConversionData,
		AdData:           r.AdData,
		PageData:         r.PageData,
		UserData:         r.UserData,
		TechnicalData:    r.TechnicalData,
		Metadata:         r.Metadata,
		ProcessingStatus: StatusPending,
	}
	if r.Value != nil {
		evt.Value = *r.Value
	}
	if r.ConversionValue != nil {
		evt.ConversionValue = *r.ConversionValue
	}
	if r.Location != nil {
		evt.Location = *r.Location
	}
	return evt
}

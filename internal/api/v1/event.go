package v1

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType is the kind of ad interaction an Event records.
type EventType string

const (
	EventImpression EventType = "impression"
	EventClick      EventType = "click"
	EventConversion EventType = "conversion"
	EventView       EventType = "view"
	EventScroll     EventType = "scroll"
	EventHover      EventType = "hover"
	EventFormSubmit EventType = "form_submit"
	EventPurchase   EventType = "purchase"
)

var eventTypes = map[EventType]struct{}{
	EventImpression: {}, EventClick: {}, EventConversion: {}, EventView: {},
	EventScroll: {}, EventHover: {}, EventFormSubmit: {}, EventPurchase: {},
}

func (t EventType) Valid() bool {
	_, ok := eventTypes[t]
	return ok
}

// Platform is the ad network an event was served on.
type Platform string

const (
	PlatformGoogle    Platform = "google"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTwitter   Platform = "twitter"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
	PlatformOther     Platform = "other"
)

func (p Platform) Valid() bool {
	switch p {
	case PlatformGoogle, PlatformFacebook, PlatformInstagram, PlatformLinkedIn,
		PlatformTwitter, PlatformTikTok, PlatformYouTube, PlatformOther:
		return true
	}
	return false
}

// Device is the coarse device class of the client.
type Device string

const (
	DeviceDesktop Device = "desktop"
	DeviceMobile  Device = "mobile"
	DeviceTablet  Device = "tablet"
	DeviceOther   Device = "other"
)

func (d Device) Valid() bool {
	switch d {
	case DeviceDesktop, DeviceMobile, DeviceTablet, DeviceOther:
		return true
	}
	return false
}

// Currency is an ISO 4217 code accepted for monetary values.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyCAD Currency = "CAD"
	CurrencyAUD Currency = "AUD"

	DefaultCurrency = CurrencyUSD
)

func (c Currency) Valid() bool {
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyCAD, CurrencyAUD:
		return true
	}
	return false
}

// ProcessingStatus tracks whether an event has been mirrored into the secondary index.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

type ConversionData struct {
	ConversionID       string `json:"conversionId,omitempty"`
	ConversionType     string `json:"conversionType,omitempty"`
	ConversionCategory string `json:"conversionCategory,omitempty"`
	ConversionLabel    string `json:"conversionLabel,omitempty"`
}

type AdData struct {
	AdID       string `json:"adId,omitempty"`
	AdGroupID  string `json:"adGroupId,omitempty"`
	Keyword    string `json:"keyword,omitempty"`
	Placement  string `json:"placement,omitempty"`
	CreativeID string `json:"creativeId,omitempty"`
	AdFormat   string `json:"adFormat,omitempty"`
}

type PageData struct {
	PageURL      string `json:"pageUrl,omitempty"`
	PageTitle    string `json:"pageTitle,omitempty"`
	PageCategory string `json:"pageCategory,omitempty"`
	PageType     string `json:"pageType,omitempty"`
}

type UserData struct {
	IsNewUser    bool     `json:"isNewUser"`
	UserSegment  string   `json:"userSegment,omitempty"`
	UserInterest []string `json:"userInterest,omitempty"`
	UserBehavior []string `json:"userBehavior,omitempty"`
}

type TechnicalData struct {
	LoadTime          float64 `json:"loadTime,omitempty"`
	ConnectionType    string  `json:"connectionType,omitempty"`
	ScreenResolution  string  `json:"screenResolution,omitempty"`
	ViewportSize      string  `json:"viewportSize,omitempty"`
	Language          string  `json:"language,omitempty"`
	CookiesEnabled    *bool   `json:"cookiesEnabled,omitempty"`
	JavascriptEnabled *bool   `json:"javascriptEnabled,omitempty"`
}

type Location struct {
	Country string `json:"country,omitempty"`
	Region  string `json:"region,omitempty"`
	City    string `json:"city,omitempty"`
}

type Browser struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
	Engine  string `json:"engine,omitempty"`
}

type OS struct {
	Name     string `json:"name,omitempty"`
	Version  string `json:"version,omitempty"`
	Platform string `json:"platform,omitempty"`
}

// Event is one immutable fact about ad delivery or interaction.
//
// The typed core covers everything the analytics path reads. Anything else a
// client wants to attach goes into Metadata, whose size is bounded at ingestion.
// After creation only ProcessingStatus and ErrorMessage ever change.
type Event struct {
	ID         string    `json:"eventId"`
	Type       EventType `json:"eventType"`
	CampaignID string    `json:"campaignId"`
	UserID     string    `json:"userId,omitempty"`
	SessionID  string    `json:"sessionId,omitempty"`

	// Timestamp is assigned by the ingestion service, never taken from the client.
	Timestamp time.Time `json:"timestamp"`

	Value           decimal.Decimal `json:"value"`
	ConversionValue decimal.Decimal `json:"conversionValue"`
	Currency        Currency        `json:"currency"`
	Platform        Platform        `json:"platform"`
	Device          Device          `json:"device"`

	Browser   Browser  `json:"browser"`
	OS        OS       `json:"os"`
	IPAddress string   `json:"ipAddress,omitempty"`
	UserAgent string   `json:"userAgent,omitempty"`
	Location  Location `json:"location"`

	Referrer    string `json:"referrer,omitempty"`
	LandingPage string `json:"landingPage,omitempty"`

	ConversionData *ConversionData `json:"conversionData,omitempty"`
	AdData         *AdData         `json:"adData,omitempty"`
	PageData       *PageData       `json:"pageData,omitempty"`
	UserData       *UserData       `json:"userData,omitempty"`
	TechnicalData  *TechnicalData  `json:"technicalData,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`

	ProcessingStatus ProcessingStatus `json:"processingStatus"`
	ErrorMessage     string           `json:"errorMessage,omitempty"`

	// IngestSeq is the ledger's monotonic sequence, set by the database.
	IngestSeq int64 `json:"-"`
}

// Summary returns the compact form pushed to live subscribers and the recent ring.
func (e *Event) Summary() EventSummary {
	return EventSummary{
		EventID:         e.ID,
		Type:            e.Type,
		CampaignID:      e.CampaignID,
		Timestamp:       e.Timestamp,
		Value:           e.Value,
		ConversionValue: e.ConversionValue,
	}
}

// EventSummary is the shape of broadcast messages and recent-ring entries.
type EventSummary struct {
	EventID         string          `json:"eventId,omitempty"`
	Type            EventType       `json:"type"`
	CampaignID      string          `json:"campaignId"`
	Timestamp       time.Time       `json:"timestamp"`
	Value           decimal.Decimal `json:"value"`
	ConversionValue decimal.Decimal `json:"conversionValue"`
}

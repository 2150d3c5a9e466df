package ingestion

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	v1 "github.com/aevon-lab/adpulse/internal/api/v1"
	httperr "github.com/aevon-lab/adpulse/internal/core/errors"
	"github.com/aevon-lab/adpulse/internal/core/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgReadBodyFailed   = "Failed to read request body"
	msgInvalidJSON      = "Invalid JSON body"
	msgPersistFailed    = "Failed to persist event"
	msgCampaignNotFound = "Campaign not found"
	msgCampaignInactive = "Campaign is not active"
	msgLookupFailed     = "Failed to load events"
	msgInternal         = "Internal server error"
)

const (
	defaultSearchPage  = 1
	defaultSearchLimit = 50
	maxSearchLimit     = 500
)

// ingestionError carries the structured HTTP error shape from a helper back to the orchestrator.
// Helpers return this instead of writing to gin.Context directly, keeping them decoupled from HTTP.
type ingestionError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *ingestionError) Error() string {
	return e.message
}

// TrackHandler handles POST /events/track.
func (s *Service) TrackHandler(c *gin.Context) {
	var req v1.TrackRequest
	if err := s.parseBody(c, &req); err != nil {
		writeError(c, err)
		return
	}

	evt, err := s.Track(c.Request.Context(), &req, FacetsFromRequest(c.Request))
	if err != nil {
		writeError(c, classify(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Event tracked successfully",
		"data": gin.H{
			"eventId":   evt.ID,
			"timestamp": evt.Timestamp,
		},
	})
}

// bulkRequest is the body of POST /events/bulk.
type bulkRequest struct {
	Events []v1.TrackRequest `json:"events"`
}

// BulkHandler handles POST /events/bulk.
func (s *Service) BulkHandler(c *gin.Context) {
	var req bulkRequest
	if err := s.parseBody(c, &req); err != nil {
		writeError(c, err)
		return
	}

	res, err := s.TrackBatch(c.Request.Context(), req.Events, FacetsFromRequest(c.Request))
	if err != nil {
		writeError(c, classify(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Processed " + strconv.Itoa(len(req.Events)) + " events",
		"data":    res,
	})
}

// RecentHandler serves the recent ring of a campaign, falling back to the
// ledger when the ring is cold or the cache is down.
func (s *Service) RecentHandler(c *gin.Context) {
	ctx := c.Request.Context()
	campaignID := c.Param("campaignId")

	limit, ierr := intQuery(c, "limit", defaultRecentLimit)
	if ierr != nil {
		writeError(c, ierr)
		return
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	if _, err := uuid.Parse(campaignID); err != nil {
		writeError(c, &ingestionError{
			statusCode: http.StatusNotFound,
			errorType:  httperr.HttpCampaignNotFound,
			message:    msgCampaignNotFound,
		})
		return
	}
	if _, err := s.campaigns.GetCampaign(ctx, campaignID); err != nil {
		writeError(c, classify(err))
		return
	}

	var events []*v1.Event
	if s.sinks.Ring != nil {
		if cached, ok := s.sinks.Ring.Recent(ctx, campaignID, limit); ok {
			events = cached
		}
	}
	if events == nil {
		fromLedger, err := s.ledger.RecentEvents(ctx, campaignID, limit)
		if err != nil {
			slog.Error("[Ingestion] Failed to load recent events", "campaign_id", campaignID, "error", err)
			writeError(c, &ingestionError{
				statusCode: http.StatusInternalServerError,
				errorType:  httperr.HttpInternalError,
				message:    msgLookupFailed,
			})
			return
		}
		events = fromLedger
	}
	if events == nil {
		events = []*v1.Event{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"campaignId": campaignID,
			"events":     events,
		},
	})
}

// SearchHandler handles GET /events/search with ledger pagination.
func (s *Service) SearchHandler(c *gin.Context) {
	filter, ierr := parseSearchFilter(c)
	if ierr != nil {
		writeError(c, ierr)
		return
	}

	events, total, err := s.ledger.SearchEvents(c.Request.Context(), filter)
	if err != nil {
		slog.Error("[Ingestion] Event search failed", "error", err)
		writeError(c, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgLookupFailed,
		})
		return
	}
	if events == nil {
		events = []*v1.Event{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"events": events,
			"pagination": gin.H{
				"page":  filter.Page,
				"limit": filter.Limit,
				"total": total,
				"pages": int64(math.Ceil(float64(total) / float64(filter.Limit))),
			},
		},
	})
}

func parseSearchFilter(c *gin.Context) (storage.EventFilter, *ingestionError) {
	f := storage.EventFilter{
		CampaignID: c.Query("campaignId"),
		EventType:  v1.EventType(c.Query("eventType")),
		Platform:   v1.Platform(c.Query("platform")),
		Device:     v1.Device(c.Query("device")),
	}

	if f.CampaignID != "" {
		if _, err := uuid.Parse(f.CampaignID); err != nil {
			return f, invalidQuery("campaignId must be a valid campaign id")
		}
	}
	if f.EventType != "" && !f.EventType.Valid() {
		return f, invalidQuery("unsupported eventType " + strconv.Quote(string(f.EventType)))
	}
	if f.Platform != "" && !f.Platform.Valid() {
		return f, invalidQuery("unsupported platform " + strconv.Quote(string(f.Platform)))
	}
	if f.Device != "" && !f.Device.Valid() {
		return f, invalidQuery("unsupported device " + strconv.Quote(string(f.Device)))
	}

	start, ierr := timeQuery(c, "startDate")
	if ierr != nil {
		return f, ierr
	}
	end, ierr := timeQuery(c, "endDate")
	if ierr != nil {
		return f, ierr
	}
	// Dates only filter as a pair.
	if start != nil && end != nil {
		if end.Before(*start) {
			return f, invalidQuery("endDate must not be before startDate")
		}
		f.Start, f.End = start, end
	}

	if f.Page, ierr = intQuery(c, "page", defaultSearchPage); ierr != nil {
		return f, ierr
	}
	if f.Limit, ierr = intQuery(c, "limit", defaultSearchLimit); ierr != nil {
		return f, ierr
	}
	if f.Page < 1 {
		f.Page = defaultSearchPage
	}
	if f.Limit <= 0 {
		f.Limit = defaultSearchLimit
	}
	if f.Limit > maxSearchLimit {
		f.Limit = maxSearchLimit
	}
	return f, nil
}

func intQuery(c *gin.Context, key string, def int) (int, *ingestionError) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidQuery(key + " must be an integer")
	}
	return n, nil
}

func timeQuery(c *gin.Context, key string) (*time.Time, *ingestionError) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, invalidQuery(key + " must be an RFC3339 timestamp")
	}
	return &t, nil
}

func invalidQuery(msg string) *ingestionError {
	return &ingestionError{
		statusCode: http.StatusBadRequest,
		errorType:  httperr.HttpInvalidQueryError,
		message:    msg,
	}
}

// parseBody reads the raw request body under the size limit and binds it into dst.
func (s *Service) parseBody(c *gin.Context, dst any) *ingestionError {
	limitedBody := io.LimitReader(c.Request.Body, s.maxBodySizeBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("[Ingestion] Failed to read request body", "error", err)
		return &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > s.maxBodySizeBytes {
		slog.Warn("[Ingestion] Request body exceeds maximum size", "size", len(bodyBytes), "max", s.maxBodySizeBytes)
		return &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpInvalidJsonError,
			message:    "Request body exceeds maximum allowed size",
			details: map[string]interface{}{
				"max_size_mb": s.maxBodySizeBytes / (1024 * 1024),
			},
		}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	if err := c.ShouldBindJSON(dst); err != nil {
		slog.Warn("[Ingestion] Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    msgInvalidJSON,
		}
	}
	return nil
}

// classify maps a service error onto its HTTP shape.
func classify(err error) *ingestionError {
	var verr *v1.ValidationError
	switch {
	case errors.As(err, &verr):
		details := map[string]interface{}{}
		if verr.Field != "" {
			details["field"] = verr.Field
		}
		ierr := &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpValidationError,
			message:    verr.Error(),
		}
		if len(details) > 0 {
			ierr.details = details
		}
		return ierr
	case errors.Is(err, storage.ErrCampaignNotFound):
		return &ingestionError{
			statusCode: http.StatusNotFound,
			errorType:  httperr.HttpCampaignNotFound,
			message:    msgCampaignNotFound,
		}
	case errors.Is(err, ErrCampaignInactive):
		return &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpCampaignInactive,
			message:    msgCampaignInactive,
		}
	case errors.Is(err, ErrBatchTooLarge):
		return &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpBatchTooLarge,
			message:    err.Error(),
		}
	case errors.Is(err, ErrPersistence):
		return &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpPersistenceFailed,
			message:    msgPersistFailed,
		}
	default:
		slog.Error("[Ingestion] Unclassified error", "error", err)
		return &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgInternal,
		}
	}
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}

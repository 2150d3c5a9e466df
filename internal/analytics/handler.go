package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	httperr "github.com/aevon-lab/adpulse/internal/core/errors"
	"github.com/aevon-lab/adpulse/internal/core/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterRoutes registers the analytics routes and the campaign stats route on the /api/v1 group.
func (e *Engine) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/analytics")
	g.GET("/overview", report(e.Overview))
	g.GET("/hourly", report(e.Hourly))
	g.GET("/campaigns", report(e.Campaigns))
	g.GET("/devices", report(e.Devices))
	g.GET("/geographic", report(e.Geographic))
	g.GET("/realtime", e.HandleRealtime)

	r.GET("/events/stats/:campaignId", e.HandleCampaignStats)
}

// report adapts an engine report to a gin handler.
func report[T any](fn func(ctx context.Context, p Params) (T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := bindParams(c)
		if err != nil {
			writeQueryError(c, err)
			return
		}
		out, err := fn(c.Request.Context(), p)
		if err != nil {
			writeQueryError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": out})
	}
}

// HandleRealtime handles GET /analytics/realtime?campaignId.
func (e *Engine) HandleRealtime(c *gin.Context) {
	campaignID := c.Query("campaignId")
	if campaignID != "" {
		if _, err := uuid.Parse(campaignID); err != nil {
			writeQueryError(c, invalidParam("campaignId must be a valid campaign id"))
			return
		}
	}

	out, err := e.Realtime(c.Request.Context(), campaignID)
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": out})
}

// HandleCampaignStats handles GET /events/stats/:campaignId?startDate&endDate.
func (e *Engine) HandleCampaignStats(c *gin.Context) {
	p, err := bindParams(c)
	if err != nil {
		writeQueryError(c, err)
		return
	}
	p.CampaignID = c.Param("campaignId")
	if _, err := uuid.Parse(p.CampaignID); err != nil {
		writeQueryError(c, storage.ErrCampaignNotFound)
		return
	}

	out, err := e.CampaignStats(c.Request.Context(), p)
	if err != nil {
		writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": out})
}

type queryParams struct {
	TimeRange  string `form:"timeRange"`
	StartDate  string `form:"startDate"`
	EndDate    string `form:"endDate"`
	CampaignID string `form:"campaignId"`
	Limit      string `form:"limit"`
}

func bindParams(c *gin.Context) (Params, error) {
	var q queryParams
	if err := c.ShouldBindQuery(&q); err != nil {
		return Params{}, invalidParam("Invalid query parameters")
	}

	p := Params{Range: q.TimeRange, CampaignID: q.CampaignID}
	if p.CampaignID != "" {
		if _, err := uuid.Parse(p.CampaignID); err != nil {
			return Params{}, invalidParam("campaignId must be a valid campaign id")
		}
	}

	var err error
	if p.Start, err = parseTime("startDate", q.StartDate); err != nil {
		return Params{}, err
	}
	if p.End, err = parseTime("endDate", q.EndDate); err != nil {
		return Params{}, err
	}

	if q.Limit != "" {
		if p.Limit, err = strconv.Atoi(q.Limit); err != nil {
			return Params{}, invalidParam("limit must be an integer")
		}
	}
	return p, nil
}

func parseTime(name, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, invalidParam(name + " must be an RFC3339 timestamp")
	}
	return &t, nil
}

func invalidParam(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, msg)
}

func writeQueryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid analytics query",
			Details:   err.Error(),
		})
	case errors.Is(err, storage.ErrCampaignNotFound):
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpCampaignNotFound,
			Message:   "Campaign not found",
		})
	default:
		slog.Error("[Analytics] Query failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to query analytics",
		})
	}
}

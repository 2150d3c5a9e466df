package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	v1 "github.com/aevon-lab/adpulse/internal/api/v1"
	"github.com/aevon-lab/adpulse/internal/cache"
	httperr "github.com/aevon-lab/adpulse/internal/core/errors"
	"github.com/aevon-lab/adpulse/internal/core/storage"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRouter(f *fixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	f.svc.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func doJSON(r http.Handler, method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, resp *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	require.True(t, env.Success)
	return env
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) httperr.ErrorResponse {
	t.Helper()
	var errResp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errResp))
	return errResp
}

func TestTrackHandler_Success(t *testing.T) {
	f := newFixture(t, Sinks{})
	f.campaigns.EXPECT().GetCampaign(mock.Anything, activeCampaignID).Return(activeCampaign(), nil).Once()
	f.ledger.EXPECT().
		RecordEvent(mock.Anything, mock.MatchedBy(func(e *v1.Event) bool {
			return e.Type == v1.EventClick &&
				e.IPAddress == "198.51.100.4" &&
				e.Location.Country == "US" &&
				e.Device == v1.DeviceTablet
		})).
		Return(&v1.CampaignPerformance{Clicks: 1}, nil).
		Once()

	body := []byte(`{"eventType":"click","campaignId":"` + activeCampaignID + `","value":1.2,"sessionId":"s-1"}`)
	resp := doJSON(newRouter(f), http.MethodPost, "/api/v1/events/track", body, map[string]string{
		"User-Agent":      "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
		"X-Forwarded-For": "198.51.100.4, 10.0.0.1",
		"X-Country-Code":  "US",
	})

	require.Equal(t, http.StatusCreated, resp.Code)
	env := decodeEnvelope(t, resp)
	require.Equal(t, "Event tracked successfully", env.Message)

	var data struct {
		EventID   string    `json:"eventId"`
		Timestamp time.Time `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, "evt-1", data.EventID)
	require.True(t, fixedNow.Equal(data.Timestamp))
}

func TestTrackHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(f *fixture)
		wantStatus int
		wantType   string
	}{
		{
			name:       "malformed json",
			body:       "not json",
			wantStatus: http.StatusBadRequest,
			wantType:   httperr.HttpInvalidJsonError,
		},
		{
			name:       "missing fields",
			body:       `{"value":1}`,
			wantStatus: http.StatusBadRequest,
			wantType:   httperr.HttpValidationError,
		},
		{
			name:       "unknown event type",
			body:       `{"eventType":"download","campaignId":"` + activeCampaignID + `"}`,
			wantStatus: http.StatusBadRequest,
			wantType:   httperr.HttpValidationError,
		},
		{
			name: "campaign not found",
			body: `{"eventType":"impression","campaignId":"` + missingCampaignID + `"}`,
			setup: func(f *fixture) {
				f.campaigns.EXPECT().GetCampaign(mock.Anything, missingCampaignID).Return(nil, storage.ErrCampaignNotFound).Once()
			},
			wantStatus: http.StatusNotFound,
			wantType:   httperr.HttpCampaignNotFound,
		},
		{
			name: "campaign inactive",
			body: `{"eventType":"impression","campaignId":"` + inactiveCampaignID + `"}`,
			setup: func(f *fixture) {
				f.campaigns.EXPECT().GetCampaign(mock.Anything, inactiveCampaignID).Return(pausedCampaign(), nil).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantType:   httperr.HttpCampaignInactive,
		},
		{
			name: "ledger down",
			body: `{"eventType":"impression","campaignId":"` + activeCampaignID + `"}`,
			setup: func(f *fixture) {
				f.campaigns.EXPECT().GetCampaign(mock.Anything, activeCampaignID).Return(activeCampaign(), nil).Once()
				f.ledger.EXPECT().RecordEvent(mock.Anything, mock.Anything).Return(nil, errors.New("broken pipe")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantType:   httperr.HttpPersistenceFailed,
		},
		{
			name:       "body too large",
			body:       `{"eventType":"impression","metadata":{"blob":"` + strings.Repeat("x", 1024*1024) + `"}}`,
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   httperr.HttpInvalidJsonError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Sinks{})
			if tt.setup != nil {
				tt.setup(f)
			}
			resp := doJSON(newRouter(f), http.MethodPost, "/api/v1/events/track", []byte(tt.body), nil)
			require.Equal(t, tt.wantStatus, resp.Code)
			require.Equal(t, tt.wantType, decodeError(t, resp).ErrorType)
		})
	}
}

func TestBulkHandler_PartialSuccess(t *testing.T) {
	f := newFixture(t, Sinks{})
	f.campaigns.EXPECT().
		GetCampaigns(mock.Anything, []string{activeCampaignID, missingCampaignID}).
		Return(map[string]*v1.Campaign{activeCampaignID: activeCampaign()}, nil).
		Once()
	f.ledger.EXPECT().RecordEvent(mock.Anything, mock.Anything).Return(&v1.CampaignPerformance{}, nil).Once()

	body := []byte(`{"events":[
		{"eventType":"impression","campaignId":"` + activeCampaignID + `"},
		{"eventType":"impression","campaignId":"` + missingCampaignID + `"}
	]}`)
	resp := doJSON(newRouter(f), http.MethodPost, "/api/v1/events/bulk", body, nil)

	require.Equal(t, http.StatusCreated, resp.Code)
	env := decodeEnvelope(t, resp)
	require.Equal(t, "Processed 2 events", env.Message)

	var res BatchResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.Equal(t, 1, res.Successful)
	require.Equal(t, 1, res.Failed)
	require.Equal(t, []BatchError{{Index: 1, Error: "Campaign not found or inactive"}}, res.Errors)
	require.Equal(t, []string{"evt-1"}, res.EventIDs)
}

func TestBulkHandler_RejectsBatch(t *testing.T) {
	tooMany := make([]map[string]string, 1001)
	for i := range tooMany {
		tooMany[i] = map[string]string{"eventType": "impression", "campaignId": activeCampaignID}
	}
	big, err := json.Marshal(map[string]any{"events": tooMany})
	require.NoError(t, err)

	tests := []struct {
		name     string
		body     []byte
		wantType string
	}{
		{name: "empty array", body: []byte(`{"events":[]}`), wantType: httperr.HttpValidationError},
		{name: "missing array", body: []byte(`{}`), wantType: httperr.HttpValidationError},
		{name: "over 1000", body: big, wantType: httperr.HttpBatchTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Sinks{})
			resp := doJSON(newRouter(f), http.MethodPost, "/api/v1/events/bulk", tt.body, nil)
			require.Equal(t, http.StatusBadRequest, resp.Code)
			require.Equal(t, tt.wantType, decodeError(t, resp).ErrorType)
		})
	}
}

func TestRecentHandler(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	ring := cache.NewRing(cache.New(client, time.Second), 100, time.Hour)

	type recentData struct {
		CampaignID string      `json:"campaignId"`
		Events     []*v1.Event `json:"events"`
	}

	t.Run("served from the ring", func(t *testing.T) {
		mr.FlushAll()
		for _, id := range []string{"evt-a", "evt-b", "evt-c"} {
			ring.Push(context.Background(), &v1.Event{ID: id, CampaignID: activeCampaignID, Type: v1.EventImpression})
		}

		f := newFixture(t, Sinks{Ring: ring})
		f.campaigns.EXPECT().GetCampaign(mock.Anything, activeCampaignID).Return(activeCampaign(), nil).Once()

		resp := doJSON(newRouter(f), http.MethodGet, "/api/v1/events/recent/"+activeCampaignID+"?limit=2", nil, nil)
		require.Equal(t, http.StatusOK, resp.Code)

		var data recentData
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &data))
		require.Equal(t, activeCampaignID, data.CampaignID)
		require.Len(t, data.Events, 2)
		require.Equal(t, "evt-c", data.Events[0].ID)
	})

	t.Run("cold ring falls back to the ledger", func(t *testing.T) {
		mr.FlushAll()
		f := newFixture(t, Sinks{Ring: ring})
		f.campaigns.EXPECT().GetCampaign(mock.Anything, activeCampaignID).Return(activeCampaign(), nil).Once()
		f.ledger.EXPECT().RecentEvents(mock.Anything, activeCampaignID, defaultRecentLimit).
			Return([]*v1.Event{{ID: "evt-db", CampaignID: activeCampaignID}}, nil).Once()

		resp := doJSON(newRouter(f), http.MethodGet, "/api/v1/events/recent/"+activeCampaignID, nil, nil)
		require.Equal(t, http.StatusOK, resp.Code)

		var data recentData
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &data))
		require.Len(t, data.Events, 1)
		require.Equal(t, "evt-db", data.Events[0].ID)
	})

	t.Run("unknown campaign", func(t *testing.T) {
		f := newFixture(t, Sinks{Ring: ring})
		f.campaigns.EXPECT().GetCampaign(mock.Anything, missingCampaignID).Return(nil, storage.ErrCampaignNotFound).Once()

		resp := doJSON(newRouter(f), http.MethodGet, "/api/v1/events/recent/"+missingCampaignID, nil, nil)
		require.Equal(t, http.StatusNotFound, resp.Code)
		require.Equal(t, httperr.HttpCampaignNotFound, decodeError(t, resp).ErrorType)
	})

	t.Run("malformed campaign id", func(t *testing.T) {
		f := newFixture(t, Sinks{})
		resp := doJSON(newRouter(f), http.MethodGet, "/api/v1/events/recent/not-a-uuid", nil, nil)
		require.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestSearchHandler(t *testing.T) {
	f := newFixture(t, Sinks{})
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	f.ledger.EXPECT().
		SearchEvents(mock.Anything, mock.MatchedBy(func(filter storage.EventFilter) bool {
			return filter.CampaignID == activeCampaignID &&
				filter.EventType == v1.EventClick &&
				filter.Device == v1.DeviceMobile &&
				filter.Start != nil && filter.Start.Equal(start) &&
				filter.End != nil && filter.End.Equal(end) &&
				filter.Page == 2 && filter.Limit == 20
		})).
		Return([]*v1.Event{{ID: "evt-1"}}, int64(45), nil).
		Once()

	path := "/api/v1/events/search?campaignId=" + activeCampaignID +
		"&eventType=click&device=mobile&startDate=2026-03-01T00:00:00Z&endDate=2026-03-02T00:00:00Z&page=2&limit=20"
	resp := doJSON(newRouter(f), http.MethodGet, path, nil, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var data struct {
		Events     []*v1.Event `json:"events"`
		Pagination struct {
			Page  int   `json:"page"`
			Limit int   `json:"limit"`
			Total int64 `json:"total"`
			Pages int64 `json:"pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &data))
	require.Len(t, data.Events, 1)
	require.Equal(t, 2, data.Pagination.Page)
	require.Equal(t, int64(45), data.Pagination.Total)
	require.Equal(t, int64(3), data.Pagination.Pages)
}

func TestSearchHandler_InvalidQuery(t *testing.T) {
	for _, query := range []string{
		"?eventType=download",
		"?device=watch",
		"?campaignId=42",
		"?startDate=yesterday&endDate=2026-03-02T00:00:00Z",
		"?startDate=2026-03-02T00:00:00Z&endDate=2026-03-01T00:00:00Z",
		"?page=two",
	} {
		t.Run(query, func(t *testing.T) {
			f := newFixture(t, Sinks{})
			resp := doJSON(newRouter(f), http.MethodGet, "/api/v1/events/search"+query, nil, nil)
			require.Equal(t, http.StatusBadRequest, resp.Code)
			require.Equal(t, httperr.HttpInvalidQueryError, decodeError(t, resp).ErrorType)
		})
	}
}

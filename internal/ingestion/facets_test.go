package ingestion

import (
	"net/http/httptest"
	"testing"

	v1 "github.com/aevon-lab/adpulse/internal/api/v1"
	"github.com/stretchr/testify/require"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{
			name:    "first forwarded hop wins",
			headers: map[string]string{"X-Forwarded-For": " 203.0.113.9 , 10.0.0.2", "X-Real-IP": "10.0.0.3"},
			remote:  "10.0.0.4:5555",
			want:    "203.0.113.9",
		},
		{
			name:    "real ip when not forwarded",
			headers: map[string]string{"X-Real-IP": "198.51.100.1"},
			remote:  "10.0.0.4:5555",
			want:    "198.51.100.1",
		},
		{
			name:   "socket peer",
			remote: "192.0.2.10:41000",
			want:   "192.0.2.10",
		},
		{
			name:   "peer without port",
			remote: "192.0.2.11",
			want:   "192.0.2.11",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/v1/events/track", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			require.Equal(t, tt.want, clientIP(req))
		})
	}
}

func TestDetectDevice(t *testing.T) {
	tests := []struct {
		ua   string
		want v1.Device
	}{
		{"", v1.DeviceDesktop},
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36", v1.DeviceDesktop},
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1", v1.DeviceMobile},
		{"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36", v1.DeviceMobile},
		{"Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1", v1.DeviceTablet},
		{"Mozilla/5.0 (Linux; Android 13; SM-X700) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36", v1.DeviceTablet},
		{"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", v1.DeviceOther},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			require.Equal(t, tt.want, parseUserAgent(tt.ua).device)
		})
	}
}

func TestParseUserAgent_Browser(t *testing.T) {
	got := parseUserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	require.Equal(t, "Chrome", got.browser.Name)
	require.Equal(t, "120.0.0.0", got.browser.Version)
	require.Equal(t, string(v1.DeviceDesktop), got.os.Platform)

	empty := parseUserAgent("")
	require.Equal(t, unknownFacet, empty.browser.Name)
	require.Equal(t, unknownFacet, empty.os.Name)
}

func TestApplyFacets_BodyWins(t *testing.T) {
	campaign := &v1.Campaign{Platform: v1.PlatformFacebook}
	evt := &v1.Event{
		Device:   v1.DeviceOther,
		Platform: v1.PlatformTikTok,
		Location: v1.Location{Country: "FR"},
	}
	applyFacets(evt, ClientFacets{IP: "192.0.2.1", Location: v1.Location{Country: "US"}}, campaign)

	require.Equal(t, v1.DeviceOther, evt.Device)
	require.Equal(t, v1.PlatformTikTok, evt.Platform)
	require.Equal(t, "FR", evt.Location.Country)
	require.Equal(t, v1.DefaultCurrency, evt.Currency)
	require.Equal(t, "192.0.2.1", evt.IPAddress)
}

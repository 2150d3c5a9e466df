package ingestion

import (
	"net"
	"net/http"
	"strings"

	v1 "github.com/aevon-lab/adpulse/internal/api/v1"
	"github.com/mssola/useragent"
)

const unknownFacet = "unknown"

// ClientFacets is what the transport knows about the caller. It never comes
// from the request body.
type ClientFacets struct {
	IP        string
	UserAgent string
	Location  v1.Location
}

// FacetsFromRequest extracts client facets from transport headers.
func FacetsFromRequest(r *http.Request) ClientFacets {
	return ClientFacets{
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		Location: v1.Location{
			Country: strings.TrimSpace(r.Header.Get("X-Country-Code")),
			Region:  strings.TrimSpace(r.Header.Get("X-Region")),
			City:    strings.TrimSpace(r.Header.Get("X-City")),
		},
	}
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// socket peer.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// uaFacets is the parsed user agent.
type uaFacets struct {
	browser v1.Browser
	os      v1.OS
	device  v1.Device
}

func parseUserAgent(raw string) uaFacets {
	ua := useragent.New(raw)
	device := detectDevice(raw, ua)

	name, version := ua.Browser()
	engine, _ := ua.Engine()
	osInfo := ua.OSInfo()

	return uaFacets{
		browser: v1.Browser{
			Name:    orUnknown(name),
			Version: orUnknown(version),
			Engine:  orUnknown(engine),
		},
		os: v1.OS{
			Name:     orUnknown(osInfo.Name),
			Version:  orUnknown(osInfo.Version),
			Platform: string(device),
		},
		device: device,
	}
}

// detectDevice classifies tablets first: iPads and Android builds without the
// "Mobile" token are tablets even though some parsers report them as mobile.
func detectDevice(raw string, ua *useragent.UserAgent) v1.Device {
	switch {
	case raw == "":
		return v1.DeviceDesktop
	case ua.Bot():
		return v1.DeviceOther
	case strings.Contains(raw, "iPad"), strings.Contains(raw, "Tablet"),
		strings.Contains(raw, "Android") && !strings.Contains(raw, "Mobile"):
		return v1.DeviceTablet
	case ua.Mobile():
		return v1.DeviceMobile
	case strings.Contains(raw, "SmartTV"), strings.Contains(raw, "PlayStation"), strings.Contains(raw, "Xbox"):
		return v1.DeviceOther
	default:
		return v1.DeviceDesktop
	}
}

func orUnknown(s string) string {
	if s == "" {
		return unknownFacet
	}
	return s
}

// applyFacets fills transport-derived facets and campaign defaults into evt.
// Body-supplied device and location win over derived ones.
func applyFacets(evt *v1.Event, facets ClientFacets, campaign *v1.Campaign) {
	ua := parseUserAgent(facets.UserAgent)
	evt.Browser = ua.browser
	evt.OS = ua.os
	evt.IPAddress = facets.IP
	evt.UserAgent = facets.UserAgent

	if evt.Device == "" {
		evt.Device = ua.device
	}
	if evt.Location == (v1.Location{}) {
		evt.Location = facets.Location
	}
	if evt.Platform == "" {
		evt.Platform = campaign.Platform
	}
	if evt.Currency == "" {
		evt.Currency = campaign.Currency
	}
	if evt.Currency == "" {
		evt.Currency = v1.DefaultCurrency
	}
}

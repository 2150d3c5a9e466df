package realtime

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sseHeartbeat   = 30 * time.Second
)

// clientMessage is what subscribers send over the websocket.
type clientMessage struct {
	Type       string `json:"type"`
	CampaignID string `json:"campaignId"`
}

type controlMessage struct {
	Type       string `json:"type"`
	CampaignID string `json:"campaignId,omitempty"`
}

// Transport exposes the hub over websocket and server-sent events.
type Transport struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewTransport builds the transports. An empty allowedOrigins, or one containing
// "*", accepts any origin.
func NewTransport(hub *Hub, allowedOrigins []string) *Transport {
	if hub == nil {
		panic("realtime: nil Hub")
	}
	return &Transport{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		if len(set) == 0 {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// RegisterRoutes mounts GET /ws and GET /api/v1/events/stream/:campaignId.
func (t *Transport) RegisterRoutes(r gin.IRouter) {
	r.GET("/ws", t.handleWebsocket)
	r.GET("/api/v1/events/stream/:campaignId", t.handleStream)
}

func (t *Transport) handleWebsocket(c *gin.Context) {
	conn, err := t.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("[Realtime] Websocket upgrade failed", "remote_addr", c.Request.RemoteAddr, "error", err)
		return
	}

	sub := t.hub.NewSubscription()
	if campaignID := c.Query("campaignId"); campaignID != "" {
		sub.Join(campaignID)
	}
	slog.Debug("[Realtime] Websocket connected", "remote_addr", c.Request.RemoteAddr)

	control := make(chan controlMessage, 8)
	done := make(chan struct{})
	go t.writeLoop(conn, sub, control, done)

	t.readLoop(conn, sub, control)

	sub.Close()
	close(done)
	slog.Debug("[Realtime] Websocket disconnected", "remote_addr", c.Request.RemoteAddr)
}

// readLoop handles join/leave/ping until the client goes away.
func (t *Transport) readLoop(conn *websocket.Conn, sub *Subscription, control chan<- controlMessage) {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	reply := func(m controlMessage) {
		select {
		case control <- m:
		default:
		}
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("[Realtime] Websocket read error", "error", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			slog.Debug("[Realtime] Invalid websocket message", "error", err)
			continue
		}

		switch msg.Type {
		case "join-campaign":
			if msg.CampaignID == "" {
				continue
			}
			sub.Join(msg.CampaignID)
			reply(controlMessage{Type: "joined", CampaignID: msg.CampaignID})
		case "leave-campaign":
			sub.Leave(msg.CampaignID)
			reply(controlMessage{Type: "left", CampaignID: msg.CampaignID})
		case "ping":
			reply(controlMessage{Type: "pong"})
		default:
			slog.Debug("[Realtime] Unknown websocket message type", "type", msg.Type)
		}
	}
}

// writeLoop is the only goroutine that writes to conn.
func (t *Transport) writeLoop(conn *websocket.Conn, sub *Subscription, control <-chan controlMessage, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	write := func(v any) bool {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(v); err != nil {
			slog.Debug("[Realtime] Websocket write failed", "error", err)
			return false
		}
		return true
	}

	for {
		select {
		case msg, ok := <-sub.C():
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
					time.Now().Add(writeWait))
				return
			}
			if !write(msg) {
				return
			}
		case m := <-control:
			if !write(m) {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// handleStream serves one campaign channel as server-sent events.
func (t *Transport) handleStream(c *gin.Context) {
	campaignID := c.Param("campaignId")
	sub := t.hub.Subscribe(campaignID)
	defer sub.Close()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("connected", controlMessage{Type: "connected", CampaignID: campaignID})
	c.Writer.Flush()

	heartbeat := time.NewTicker(sseHeartbeat)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-sub.C():
			if !ok {
				return false
			}
			c.SSEvent("event", msg)
			return true
		case <-heartbeat.C:
			c.SSEvent("heartbeat", controlMessage{Type: "heartbeat"})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

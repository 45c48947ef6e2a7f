// Package session binds live fields to websocket connections. Each
// connection is one Session: the client streams key, change and blur
// events for the fields it mounted and receives display text and canonical
// value notifications back.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/mbd888/numerics/internal/idgen"
	"github.com/mbd888/numerics/internal/logging"
	"github.com/mbd888/numerics/internal/metrics"
)

// normalCloseCodes are WebSocket close codes that indicate an expected disconnect.
var normalCloseCodes = []int{
	websocket.CloseNormalClosure,
	websocket.CloseGoingAway,
	websocket.CloseNoStatusReceived,
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 16 * 1024
	sendBuffer     = 256
)

// DefaultMaxSessions is the connection limit when none is configured.
const DefaultMaxSessions = 1000

// HubConfig configures a Hub.
type HubConfig struct {
	Session     Config
	MaxSessions int
	CheckOrigin func(r *http.Request) bool
}

// Hub accepts websocket connections and tracks their sessions.
type Hub struct {
	cfg        HubConfig
	presets    PresetResolver
	upgrader   websocket.Upgrader
	logger     *slog.Logger
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	mu         sync.RWMutex
	done       chan struct{} // closed when Run exits
	running    atomic.Bool

	totalSessions atomic.Int64
	totalEvents   atomic.Int64
}

type client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	closed  chan struct{}
	session *Session
	once    sync.Once
}

// NewHub creates a hub. resolver may be nil when presets are unavailable.
func NewHub(cfg HubConfig, resolver PresetResolver, logger *slog.Logger) *Hub {
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	return &Hub{
		cfg:     cfg,
		presets: resolver,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     cfg.CheckOrigin,
		},
		logger:     logger.With("component", "session"),
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// Run processes registrations until ctx is done, then closes every
// connection.
func (h *Hub) Run(ctx context.Context) {
	h.running.Store(true)
	h.logger.Info("session hub started")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("session hub shutting down, closing connections")
			h.mu.Lock()
			for c := range h.clients {
				c.closeSend()
				delete(h.clients, c)
			}
			h.mu.Unlock()
			metrics.ActiveSessions.Set(0)
			h.logger.Info("session hub stopped")
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			n := len(h.clients)
			h.mu.Unlock()
			h.totalSessions.Add(1)
			metrics.ActiveSessions.Set(float64(n))
			h.logger.Info("session connected", "session_id", c.session.ID(), "total", n)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.closeSend()
			}
			n := len(h.clients)
			h.mu.Unlock()
			metrics.ActiveSessions.Set(float64(n))
			h.logger.Info("session disconnected", "session_id", c.session.ID(), "total", n)
		}
	}
}

// Stats returns hub statistics.
func (h *Hub) Stats() map[string]any {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return map[string]any{
		"connectedSessions": len(h.clients),
		"totalSessions":     h.totalSessions.Load(),
		"totalEvents":       h.totalEvents.Load(),
	}
}

// Handler returns the gin handler for GET /v1/ws.
func (h *Hub) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		h.HandleWebSocket(c.Writer, c.Request)
	}
}

// HandleWebSocket upgrades the request and starts the connection's pumps.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	select {
	case <-h.done:
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	default:
	}
	if !h.running.Load() {
		http.Error(w, "session hub not running", http.StatusServiceUnavailable)
		return
	}

	h.mu.RLock()
	n := len(h.clients)
	h.mu.RUnlock()
	if n >= h.cfg.MaxSessions {
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		closed: make(chan struct{}),
	}
	id := idgen.Session()
	c.session = NewSession(id, h.cfg.Session, h.presets, c.enqueue, h.logger)

	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	ctx := logging.WithSessionID(context.Background(), id)
	go c.writePump()
	go c.readPump(ctx)
}

// enqueue serializes a message for the write pump. A client too slow to
// drain its buffer is disconnected.
func (c *client) enqueue(msg Outbound) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case <-c.closed:
		return
	case c.send <- data:
	default:
		c.hub.logger.Warn("session send buffer full, disconnecting", "session_id", c.session.ID())
		_ = c.conn.Close()
	}
}

// closeSend tells the write pump to send a close frame and stop.
func (c *client) closeSend() {
	c.once.Do(func() { close(c.closed) })
}

// readPump handles inbound events on a single goroutine, in arrival order.
func (c *client) readPump(ctx context.Context) {
	defer func() {
		c.session.Close()
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, normalCloseCodes...) {
				c.hub.logger.Debug("websocket read error", "session_id", c.session.ID(), "error", err)
			}
			return
		}
		c.hub.totalEvents.Add(1)
		c.session.HandleRaw(ctx, message)
	}
}

// writePump writes queued messages and keeps the connection alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.closed:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.logger.Debug("websocket write error", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

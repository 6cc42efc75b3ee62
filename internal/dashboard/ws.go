package dashboard

import (
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/soyeahso/scoredeck/internal/logging"
)

var ErrClientClosed = errors.New("client connection closed")

// Event is a server-pushed message on the live update stream.
type Event struct {
	Type string `json:"type"`
	Seq  int64  `json:"seq"`
	TS   int64  `json:"ts"`
	Data any    `json:"data,omitempty"`
}

// Event types pushed over the WebSocket stream.
const (
	EventEvaluation  = "evaluation"
	EventSimProgress = "simulation.progress"
	EventSimFinished = "simulation.finished"
	EventPortfolio   = "portfolio.updated"
)

// wsClient represents one connected WebSocket subscriber.
type wsClient struct {
	ConnID string
	Socket *websocket.Conn

	mu     sync.Mutex
	closed bool
}

// Send writes an event to the client. Thread-safe.
func (c *wsClient) Send(ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	c.Socket.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.Socket.WriteJSON(ev)
}

// Close closes the underlying connection once.
func (c *wsClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.Socket.Close()
}

// Hub manages WebSocket subscribers and fans events out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*wsClient
	seq     atomic.Int64
	log     *logging.Logger
	metrics *Metrics
}

// NewHub creates an empty hub.
func NewHub(log *logging.Logger, metrics *Metrics) *Hub {
	return &Hub{
		clients: make(map[string]*wsClient),
		log:     log.Sub("ws"),
		metrics: metrics,
	}
}

// Add registers a connected client.
func (h *Hub) Add(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ConnID] = c
	h.metrics.wsClients.Set(float64(len(h.clients)))
	h.log.Info().Str("connId", c.ConnID).Msg("client connected")
}

// Remove unregisters a client by connection ID.
func (h *Hub) Remove(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, connID)
	h.metrics.wsClients.Set(float64(len(h.clients)))
	h.log.Info().Str("connId", connID).Msg("client disconnected")
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends an event to all connected clients.
func (h *Hub) Broadcast(eventType string, data any) {
	ev := Event{
		Type: eventType,
		Seq:  h.seq.Add(1),
		TS:   time.Now().UnixMilli(),
		Data: data,
	}

	// Snapshot under the lock, send outside it. A client stuck on a slow
	// write must not stall other broadcasts or Add/Remove.
	h.mu.RLock()
	clients := make([]*wsClient, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.Send(ev); err != nil {
			h.log.Warn().Err(err).Str("connId", c.ConnID).Msg("broadcast send failed")
		}
	}
}

// CloseAll closes all connected clients.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.Close()
		delete(h.clients, id)
	}
	h.metrics.wsClients.Set(0)
}

// checkWebSocketOrigin returns a function that validates WebSocket Origin headers.
// If no origins are configured, only same-origin (no Origin header) or non-browser
// clients are allowed. If origins are configured, the Origin must match one of them.
func checkWebSocketOrigin(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Same-origin or non-browser clients
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// handleWebSocket upgrades HTTP to WebSocket and keeps the connection
// open until the client disconnects. The stream is push-only; inbound
// messages are read and discarded to process control frames.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.auth.Authorize(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	conn.SetReadLimit(64 * 1024)

	client := &wsClient{ConnID: uuid.New().String(), Socket: conn}
	s.hub.Add(client)
	defer func() {
		s.hub.Remove(client.ConnID)
		client.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug().Str("connId", client.ConnID).Msg("client closed connection")
			}
			return
		}
	}
}

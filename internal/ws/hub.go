package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vestadash/vesta/internal/api"
	"github.com/vestadash/vesta/internal/dashboard"
	"github.com/vestadash/vesta/internal/metrics"
	"github.com/vestadash/vesta/internal/store"
)

const (
	// writeTimeout is the deadline for a single write to a client.
	writeTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong response before treating
	// the connection as dead.
	pongWait = 60 * time.Second

	// pingPeriod controls how often the server sends WebSocket ping
	// frames. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBufSize is the per-client outgoing message buffer depth.
	sendBufSize = 4
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Allow all origins; callers should apply CORS at the reverse-proxy level.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message is the JSON envelope sent to clients: the redacted dashboard
// document, pushed on connect and after every successful reload.
type Message struct {
	Event string             `json:"event"`
	Data  api.ConfigResponse `json:"data"`
}

// Hub manages WebSocket client connections. Open dashboards receive
// the new document the moment the config file is reloaded, so the page
// re-renders without polling.
type Hub struct {
	store   *store.Store
	metrics *metrics.Metrics
	sub     chan *store.Snapshot

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// client represents one connected WebSocket client.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// New creates a Hub reading snapshots from st. The reload subscription
// is taken here, not in Run, so a reload racing the Run goroutine's
// startup is never missed.
func New(st *store.Store, m *metrics.Metrics) *Hub {
	return &Hub{
		store:   st,
		metrics: m,
		sub:     st.Subscribe(),
		clients: make(map[*client]struct{}),
	}
}

// Run broadcasts each newly published snapshot to all connected
// clients. It blocks until ctx is cancelled, then closes all active
// connections.
func (h *Hub) Run(ctx context.Context) {
	defer h.store.Unsubscribe(h.sub)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case snap, ok := <-h.sub:
			if !ok {
				h.closeAll()
				return
			}
			h.broadcast(snap)
		}
	}
}

// ServeHTTP upgrades the HTTP connection to WebSocket and serves the
// client. It sends the current document immediately on connect, then
// receives broadcasts from Run. Blocks until the connection closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBufSize),
	}
	h.register(c)
	defer h.unregister(c)

	// Push the current document right away so the page renders without
	// waiting for the next reload.
	if data, err := buildMessage(h.store.Current()); err == nil {
		select {
		case c.send <- data:
		default:
		}
	}

	go c.writePump()
	c.readPump() // blocks until connection closes
}

// Count returns the number of currently connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// --- internal ---------------------------------------------------------------

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.metrics.WSClients.Inc()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		h.metrics.WSClients.Dec()
	}
	h.mu.Unlock()
}

func (h *Hub) broadcast(snap *store.Snapshot) {
	data, err := buildMessage(snap)
	if err != nil {
		return
	}

	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.send <- data:
		default:
			// Client's outgoing buffer is full, disconnect it.
			h.unregister(c)
		}
	}
}

func buildMessage(snap *store.Snapshot) ([]byte, error) {
	msg := Message{
		Event: "config",
		Data: api.ConfigResponse{
			Groups:      dashboard.Redact(snap.Doc).Groups,
			GeneratedAt: snap.LoadedAt.Format(time.RFC3339),
		},
	}
	return json.Marshal(msg)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
		h.metrics.WSClients.Dec()
	}
}

// writePump drains the client's send channel and forwards messages to
// the WebSocket connection. It also sends periodic ping frames. Runs in
// its own goroutine per client.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				// Channel was closed (hub shutdown or client removed).
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads frames from the connection to process control messages
// (pong, close) and detect disconnects. Blocks until the connection
// closes.
func (c *client) readPump() {
	defer c.conn.Close()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

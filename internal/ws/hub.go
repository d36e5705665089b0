package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/riverwatch/riverwatch/internal/metrics"
	"github.com/riverwatch/riverwatch/internal/model"
)

const (
	// writeTimeout bounds each individual write to a client.
	writeTimeout = 10 * time.Second

	// pongWait is the silence threshold after which a connection counts as
	// dead.
	pongWait = 60 * time.Second

	// pingPeriod is the ping frame interval; keep it under pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBufSize is how many pending messages a client may buffer before
	// it is considered too slow.
	sendBufSize = 16

	maxInboundSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Allow all origins; apply CORS at the reverse-proxy level.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub holds the set of currently open real-time connections and fans events
// out to all of them. Delivery is best effort and at most once: a client
// whose outgoing buffer is full is dropped rather than slowing the rest.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
}

// client represents one connected WebSocket observer.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// New creates a Hub with no connections.
func New() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Run blocks until ctx is cancelled, then closes all active connections.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

// Broadcast serializes ev once and delivers it to every open connection.
// Connections that are gone or backed up are skipped; broadcasting with
// zero connections is a no-op.
func (h *Hub) Broadcast(ev model.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Error("ws: marshal event", "type", ev.Type, "err", err)
		return
	}
	metrics.BroadcastsTotal.WithLabelValues(ev.Type).Inc()

	// Sends happen under the read lock so a concurrent unregister (which
	// takes the write lock and closes the channel) cannot race a send.
	var slow []*client
	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		slog.Warn("ws: client send buffer full, dropping connection",
			"remote", c.conn.RemoteAddr())
		h.unregister(c)
	}
}

// ServeHTTP upgrades the HTTP connection to WebSocket and serves the client
// until it disconnects.
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

	slog.Info("ws: client connected", "remote", conn.RemoteAddr())

	go c.writePump()
	c.readPump() // blocks until the connection closes

	slog.Info("ws: client disconnected", "remote", conn.RemoteAddr())
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
	metrics.ConnectedClients.Inc()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	if ok {
		metrics.ConnectedClients.Dec()
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	n := len(h.clients)
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
	h.mu.Unlock()
	metrics.ConnectedClients.Sub(float64(n))
}

// writePump drains the client's send channel to the connection and keeps it
// alive with periodic pings. Runs in its own goroutine per client.
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
				// Hub removed this client or is shutting down.
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

// readPump consumes frames from the connection to process control messages
// and detect disconnects. The channel is read-mostly from the client's side;
// inbound payloads are accepted for forward compatibility and discarded.
func (c *client) readPump() {
	defer c.conn.Close()
	c.conn.SetReadLimit(maxInboundSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		slog.Debug("ws: inbound message ignored", "remote", c.conn.RemoteAddr(), "bytes", len(msg))
	}
}

// Package relay broadcasts hub terminal traffic to every connected browser
// so multiple tabs see the same output. Frames pass through verbatim.
package relay

import (
	"context"
	"net/http"
	"sync"
	"time"

	"log/slog"

	"github.com/gorilla/websocket"

	"hubportal/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 64
)

// Hub fans text frames out to every connected client.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

// NewHub constructs an empty relay hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logging.NewComponentLogger(logger, "relay"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The portal binds to localhost and same-host tooling connects
			// from file:// and dev-server origins, so origin is not checked.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// ClientCount reports how many clients are currently connected.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues a text frame for every connected client. Slow clients
// that cannot drain their send buffer are dropped rather than stalling the
// rest.
func (h *Hub) Broadcast(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- message:
		default:
			h.removeLocked(c)
		}
	}
}

// ServeHTTP upgrades the request and joins the client to the hub.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", logging.Error(err))
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client connected",
		logging.String("remote", r.RemoteAddr),
		logging.Int("clients", count))

	go c.writeLoop()
	c.readLoop()
}

// Close disconnects every client and rejects future joins.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}

// Run blocks until ctx is done, then closes the hub. It exists so the hub
// can ride the server's shutdown lifecycle.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.Close()
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) detach(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// readLoop rebroadcasts incoming frames to the other clients. The relay is
// symmetric: any connected client may feed terminal traffic in.
func (c *client) readLoop() {
	defer func() {
		c.hub.detach(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		c.hub.broadcastFrom(c, message)
	}
}

func (h *Hub) broadcastFrom(sender *client, message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if c == sender {
			continue
		}
		select {
		case c.send <- message:
		default:
			h.removeLocked(c)
		}
	}
}

func (c *client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

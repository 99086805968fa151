package api

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/pdie/internal/metrics"
	"github.com/wonny/pdie/pkg/logger"
)

const (
	maxStreamClients = 1000
	sendBuffer       = 16
	pongWait         = 60 * time.Second
	pingPeriod       = 30 * time.Second
	writeWait        = 10 * time.Second
)

var normalCloseCodes = []int{
	websocket.CloseNormalClosure,
	websocket.CloseGoingAway,
	websocket.CloseNoStatusReceived,
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return origin == "http://"+r.Host || origin == "https://"+r.Host
	},
}

// Event is one message on the snapshot stream
type Event struct {
	Kind      string      `json:"kind"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// subscription selects event kinds; empty means all
type subscription struct {
	Kinds []string `json:"kinds"`
}

type streamClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu  sync.RWMutex
	sub subscription
}

func (c *streamClient) wants(kind string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sub.Kinds) == 0 || slices.Contains(c.sub.Kinds, kind)
}

// Hub fans scoring-run events out to websocket clients
type Hub struct {
	clients    map[*streamClient]bool
	broadcast  chan Event
	register   chan *streamClient
	unregister chan *streamClient
	done       chan struct{}
	mu         sync.RWMutex
	logger     *logger.Logger
}

// NewHub creates a hub; call Run before serving
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		clients:    make(map[*streamClient]bool),
		broadcast:  make(chan Event, 64),
		register:   make(chan *streamClient),
		unregister: make(chan *streamClient),
		done:       make(chan struct{}),
		logger:     log.WithComponent("stream"),
	}
}

// Run owns the client set until ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			metrics.ActiveStreamClients.Set(0)
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			n := len(h.clients)
			h.mu.Unlock()
			metrics.ActiveStreamClients.Set(float64(n))
			h.logger.WithField("clients", n).Debug("stream client connected")

		case c := <-h.unregister:
			h.mu.Lock()
			if h.clients[c] {
				delete(h.clients, c)
				close(c.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			metrics.ActiveStreamClients.Set(float64(n))

		case ev := <-h.broadcast:
			data, err := json.Marshal(ev)
			if err != nil {
				h.logger.WithError(err).Error("stream event encode failed")
				continue
			}
			h.mu.Lock()
			for c := range h.clients {
				if !c.wants(ev.Kind) {
					continue
				}
				select {
				case c.send <- data:
				default:
					// slow consumer
					close(c.send)
					delete(h.clients, c)
				}
			}
			metrics.ActiveStreamClients.Set(float64(len(h.clients)))
			h.mu.Unlock()
		}
	}
}

// Publish queues an event; drops it when the buffer is full
func (h *Hub) Publish(kind string, payload interface{}) {
	select {
	case h.broadcast <- Event{Kind: kind, Timestamp: time.Now().UTC(), Data: payload}:
	default:
		h.logger.WithField("kind", kind).Warn("stream buffer full, dropping event")
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and streams events
// GET /api/stream
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	select {
	case <-h.done:
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	default:
	}
	if h.Clients() >= maxStreamClients {
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	c := &streamClient{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump accepts subscription updates: {"kinds": ["snapshot"]}
func (c *streamClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, normalCloseCodes...) {
				c.hub.logger.WithError(err).Debug("websocket read error")
			}
			return
		}
		var sub subscription
		if err := json.Unmarshal(msg, &sub); err == nil {
			c.mu.Lock()
			c.sub = sub
			c.mu.Unlock()
		}
	}
}

func (c *streamClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

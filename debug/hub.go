package debug

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// maxClients bounds concurrent stats stream connections.
	maxClients = 32

	writeWait = 2 * time.Second
)

// Message is the envelope broadcast to stats stream clients.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub fans stats messages out to WebSocket clients. The latest message is
// kept and sent to each client as it connects. All client state is owned by
// the Run goroutine.
type Hub struct {
	upgrader   websocket.Upgrader
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
	count      chan chan int

	metrics *Metrics
}

// NewHub creates a hub accepting connections from origins. A "*" entry
// allows any origin.
func NewHub(origins []string, m *Metrics) *Hub {
	h := &Hub{
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 16),
		count:      make(chan chan int),
		metrics:    m,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  512,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(origins, "*") || slices.Contains(origins, origin)
		},
	}
	return h
}

// Run services the hub until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	clients := make(map[*websocket.Conn]struct{})
	var latest []byte

	send := func(conn *websocket.Conn, msg []byte) bool {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			delete(clients, conn)
			conn.Close()
			return false
		}
		return true
	}

	for {
		select {
		case <-ctx.Done():
			for conn := range clients {
				conn.Close()
			}
			h.metrics.wsClients.Set(0)
			return

		case conn := <-h.register:
			if len(clients) >= maxClients {
				conn.Close()
				continue
			}
			clients[conn] = struct{}{}
			if latest != nil {
				send(conn, latest)
			}
			h.metrics.wsClients.Set(float64(len(clients)))
			slog.Debug("stats client connected", "remote", conn.RemoteAddr().String(), "clients", len(clients))

		case conn := <-h.unregister:
			if _, ok := clients[conn]; ok {
				delete(clients, conn)
				conn.Close()
			}
			h.metrics.wsClients.Set(float64(len(clients)))

		case msg := <-h.broadcast:
			latest = msg
			for conn := range clients {
				if send(conn, msg) {
					h.metrics.wsSent.Inc()
				}
			}
			h.metrics.wsClients.Set(float64(len(clients)))

		case reply := <-h.count:
			reply <- len(clients)
		}
	}
}

// Broadcast queues a message for all clients. It never blocks: when the
// queue is full the message is dropped.
func (h *Hub) Broadcast(event string, data any) {
	b, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		slog.Warn("encoding stats message", "event", event, "error", err)
		return
	}
	select {
	case h.broadcast <- b:
	default:
	}
}

// ClientCount returns the number of connected clients. It must only be
// called while Run is active.
func (h *Hub) ClientCount() int {
	reply := make(chan int)
	h.count <- reply
	return <-reply
}

// ServeHTTP upgrades the request and registers the connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("stats upgrade failed", "error", err)
		return
	}

	select {
	case h.register <- conn:
	case <-r.Context().Done():
		conn.Close()
		return
	}

	// Clients only listen; reading detects the close.
	go func() {
		defer func() {
			select {
			case h.unregister <- conn:
			case <-time.After(writeWait):
			}
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

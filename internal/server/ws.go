package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/logger"
)

const (
	writeWait   = time.Second
	eventBuffer = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Event is the message sent to /api/events clients for each accepted gesture.
type Event struct {
	Type    string    `json:"type"`
	ID      string    `json:"id"`
	Session string    `json:"session,omitempty"`
	Gesture string    `json:"gesture"`
	Key     string    `json:"key"`
	Action  string    `json:"action"`
	Time    time.Time `json:"time"`
}

// Hub broadcasts accepted gestures to WebSocket clients.
type Hub struct {
	session string
	clients map[*websocket.Conn]bool
	mu      sync.Mutex

	events    chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewHub creates an empty Hub tagging events with session and starts its broadcaster.
func NewHub(session string) *Hub {
	h := &Hub{
		session: session,
		clients: make(map[*websocket.Conn]bool),
		events:  make(chan []byte, eventBuffer),
		done:    make(chan struct{}),
	}
	go h.broadcast()
	return h
}

// ServeHTTP upgrades the request and keeps the client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Clients never send; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Publish queues an accepted result for every client and returns at once.
// When the queue is full the event is dropped. Its signature matches app.Listener.
func (h *Hub) Publish(res app.Result) {
	msg, err := json.Marshal(Event{
		Type:    "gesture",
		ID:      res.EventID,
		Session: h.session,
		Gesture: res.Gesture.String(),
		Key:     res.Binding.Key,
		Action:  res.Binding.Description,
		Time:    res.Time,
	})
	if err != nil {
		logger.WithError(err).Warn("Failed to encode event")
		return
	}

	select {
	case <-h.done:
	case h.events <- msg:
	default:
		logger.WithField("event_id", res.EventID).Warn("Event queue full, event dropped")
	}
}

// broadcast writes queued events to the connected clients until Close.
func (h *Hub) broadcast() {
	for {
		select {
		case <-h.done:
			return
		case msg := <-h.events:
			h.send(msg)
		}
	}
}

func (h *Hub) send(msg []byte) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.WithError(err).Debug("Dropping event client")
			conn.Close()
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close stops the broadcaster and disconnects every client.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

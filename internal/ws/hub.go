package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// broadcastBuffer bounds how many events may wait for the hub loop; past it
// Publish drops events instead of stalling the request.
const broadcastBuffer = 256

// Event is the JSON frame pushed to every connected client.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
	At   time.Time   `json:"at"`
}

// Client is the part of a websocket connection the hub writes to.
type Client interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub fans change events out to websocket clients. All client bookkeeping
// happens on the Run goroutine.
type Hub struct {
	register   chan Client
	unregister chan Client
	broadcast  chan []byte
	clients    map[Client]bool
	log        *slog.Logger
	now        func() time.Time
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		register:   make(chan Client),
		unregister: make(chan Client),
		broadcast:  make(chan []byte, broadcastBuffer),
		clients:    make(map[Client]bool),
		log:        log,
		now:        time.Now,
	}
}

// Run serves the hub until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			return

		case conn := <-h.register:
			h.clients[conn] = true
			h.log.Debug("ws client connected", "clients", len(h.clients))

		case conn := <-h.unregister:
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
				h.log.Debug("ws client disconnected", "clients", len(h.clients))
			}

		case message := <-h.broadcast:
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
		}
	}
}

// Publish queues an event for broadcast. It never blocks.
func (h *Hub) Publish(eventType string, data interface{}) {
	message, err := json.Marshal(Event{Type: eventType, Data: data, At: h.now().UTC()})
	if err != nil {
		h.log.Error("ws encode event", "type", eventType, "error", err)
		return
	}
	select {
	case h.broadcast <- message:
	default:
		h.log.Warn("ws broadcast buffer full, event dropped", "type", eventType)
	}
}

// Register adds a client; it blocks until the hub loop accepts it.
func (h *Hub) Register(ctx context.Context, conn Client) bool {
	select {
	case h.register <- conn:
		return true
	case <-ctx.Done():
		return false
	}
}

func (h *Hub) Unregister(ctx context.Context, conn Client) {
	select {
	case h.unregister <- conn:
	case <-ctx.Done():
	}
}

// Upgrade rejects plain HTTP requests to the websocket route.
func Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler registers each connection with the hub and reads until the client
// goes away. Incoming messages are ignored.
func (h *Hub) Handler(ctx context.Context) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		if !h.Register(ctx, c) {
			c.Close()
			return
		}
		defer h.Unregister(ctx, c)

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	})
}

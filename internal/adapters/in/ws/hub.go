package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"

	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/core/ports"
)

const broadcastBuffer = 256

// Hub fans wizard events out to the websocket clients watching a session.
// It implements ports.EventPublisher.
type Hub struct {
	// Registered clients by session ID
	rooms map[kernel.UUID]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan ports.Event
	// closed when Run returns
	done chan struct{}

	mu      sync.RWMutex
	dropped atomic.Int64
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		rooms:      make(map[kernel.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan ports.Event, broadcastBuffer),
		done:       make(chan struct{}),
		logger:     logger.With("component", "ws_hub"),
	}
}

// Run is the hub's main loop. It returns when ctx is done, closing every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, clients := range h.rooms {
				for c := range clients {
					close(c.send)
				}
				delete(h.rooms, id)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			if h.rooms[c.sessionID] == nil {
				h.rooms[c.sessionID] = make(map[*Client]bool)
			}
			h.rooms[c.sessionID][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			h.remove(c)
			h.mu.Unlock()

		case event := <-h.broadcast:
			message, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("Failed to encode event", "type", event.Type, "error", err)
				continue
			}

			h.mu.Lock()
			for c := range h.rooms[event.SessionID] {
				select {
				case c.send <- message:
				default:
					// slow consumer
					h.remove(c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues an event for the session's room. It never blocks: when the
// queue is full the event is dropped and counted.
func (h *Hub) Publish(_ context.Context, event ports.Event) {
	select {
	case h.broadcast <- event:
	default:
		h.dropped.Add(1)
		h.logger.Warn("Event queue full, event dropped",
			"session_id", event.SessionID.String(), "type", event.Type)
	}
}

func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Dropped is the number of events lost to a full queue.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Subscribers returns how many clients watch a session.
func (h *Hub) Subscribers(sessionID kernel.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[sessionID])
}

// remove must be called with h.mu held.
func (h *Hub) remove(c *Client) {
	clients, ok := h.rooms[c.sessionID]
	if !ok {
		return
	}
	if _, exists := clients[c]; !exists {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.rooms, c.sessionID)
	}
}

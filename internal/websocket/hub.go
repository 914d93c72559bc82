package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dennisdiepolder/monti/dashboard/internal/metrics"
	"github.com/dennisdiepolder/monti/dashboard/internal/types"
	"github.com/rs/zerolog"
)

// envelope is a queued outbound message. An empty entity reaches every
// client regardless of subscription.
type envelope struct {
	entity types.Kind
	data   []byte
}

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Outbound messages for the clients
	broadcast chan envelope

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	// Mutex to protect clients map
	mu sync.RWMutex

	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewHub creates a new Hub. m may be nil.
func NewHub(logger zerolog.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		broadcast:  make(chan envelope, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
		logger:     logger.With().Str("component", "hub").Logger(),
		metrics:    m,
	}
}

// Run starts the hub's main loop. It returns when ctx is done, after
// closing every client's send channel.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.metrics.RecordWebSocketConnect()
			h.logger.Info().
				Str("client_id", client.id).
				Int("total_clients", total).
				Msg("client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				h.remove(client)
				h.logger.Info().
					Str("client_id", client.id).
					Int("total_clients", len(h.clients)).
					Msg("client disconnected")
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.fanOut(msg)
		}
	}
}

// Publish forwards a committed mutation to clients subscribed to its entity.
// It never blocks the caller; when the queue is full the change is dropped.
func (h *Hub) Publish(change types.Change) {
	data, err := json.Marshal(change)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to marshal change")
		return
	}
	h.enqueue(envelope{entity: change.Entity, data: data})
}

// PublishSnapshot sends a dashboard summary to every client
func (h *Hub) PublishSnapshot(s types.DashboardSnapshot) {
	data, err := json.Marshal(s)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to marshal snapshot")
		return
	}
	h.enqueue(envelope{data: data})
}

// Register adds a client. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client and closes its send channel
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) enqueue(msg envelope) {
	select {
	case h.broadcast <- msg:
	default:
		h.metrics.RecordWebSocketError()
		h.logger.Warn().Str("entity", string(msg.entity)).Msg("broadcast queue full, dropping message")
	}
}

func (h *Hub) fanOut(msg envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if !client.Wants(msg.entity) {
			continue
		}
		select {
		case client.send <- msg.data:
			h.metrics.RecordWebSocketMessage()
		default:
			// Client's send buffer is full, close and remove it
			h.remove(client)
			h.logger.Warn().
				Str("client_id", client.id).
				Msg("client send buffer full, closing connection")
		}
	}
}

// remove must be called with mu held
func (h *Hub) remove(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.metrics.RecordWebSocketDisconnect()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		h.remove(client)
	}
	h.logger.Info().Msg("hub stopped")
}

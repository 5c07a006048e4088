package ws

import (
	"log/slog"
	"sync"
	"time"

	"github.com/regattadev/boatrace/internal/model"
	"github.com/regattadev/boatrace/internal/session"
)

// Hub manages the websocket clients subscribed to a single race
type Hub struct {
	raceID  model.RaceID
	clients map[*Client]bool
	mu      sync.RWMutex
	logger  *slog.Logger

	// Channels for managing clients
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
}

// NewHub creates a new Hub for a race
func NewHub(raceID model.RaceID, logger *slog.Logger) *Hub {
	return &Hub{
		raceID:     raceID,
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("race_id", string(raceID))),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Info("ws hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("ws client registered",
				slog.String("user_id", string(client.userID)),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				clientCount := len(h.clients)
				h.mu.Unlock()
				duration := time.Since(client.connectedAt)
				h.logger.Info("ws client unregistered",
					slog.String("user_id", string(client.userID)),
					slog.Duration("connection_duration", duration),
					slog.Int("total_clients", clientCount))
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			droppedCount := 0
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					droppedCount++
					h.logger.Warn("ws message dropped - client buffer full",
						slog.String("user_id", string(client.userID)))
				}
			}
			h.mu.RUnlock()
			if droppedCount > 0 {
				h.logger.Warn("ws broadcast partial failure",
					slog.Int("dropped", droppedCount))
			}

		case <-h.done:
			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("ws hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

// Register adds a client to the hub. It reports false if the hub has been
// closed, in which case the caller must fetch a fresh hub.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client from the hub. On a closed hub this is a
// no-op: shutdown already closed every registered client's send channel.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast sends a message to all clients without blocking the caller
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("ws broadcast dropped - hub buffer full")
	}
}

// Close shuts down the hub
func (h *Hub) Close() {
	close(h.done)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HubManager manages hubs for all races. It is the broadcast sink for
// session events: Publish encodes each event and fans it out to the race's
// hub without blocking command processing.
type HubManager struct {
	hubs   map[model.RaceID]*Hub
	mu     sync.RWMutex
	logger *slog.Logger
}

// Ensure HubManager can serve as the sessions' event sink
var _ session.Sink = (*HubManager)(nil)

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.RaceID]*Hub),
		logger: logger.With(slog.String("component", "ws")),
	}
}

// GetOrCreateHub returns the hub for a race, creating one if it doesn't exist
func (m *HubManager) GetOrCreateHub(raceID model.RaceID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[raceID]; ok {
		return hub
	}

	hub := NewHub(raceID, m.logger)
	m.hubs[raceID] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for a race, or nil if it doesn't exist
func (m *HubManager) GetHub(raceID model.RaceID) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[raceID]
}

// Publish implements session.Sink
func (m *HubManager) Publish(raceID model.RaceID, events []model.Event) {
	hub := m.GetHub(raceID)
	if hub == nil {
		return
	}

	for _, ev := range events {
		data, err := EncodeEvent(ev)
		if err != nil {
			m.logger.Error("ws failed to encode event",
				slog.String("race_id", string(raceID)),
				slog.String("event", string(ev.Type)),
				slog.Any("error", err))
			continue
		}
		hub.Broadcast(data)
	}
}

// RemoveHub removes and closes a hub
func (m *HubManager) RemoveHub(raceID model.RaceID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[raceID]; ok {
		hub.Close()
		delete(m.hubs, raceID)
		m.logger.Info("ws hub removed", slog.String("race_id", string(raceID)))
	}
}

// CleanupEmptyHubs removes hubs with no clients
func (m *HubManager) CleanupEmptyHubs() {
	m.mu.Lock()
	defer m.mu.Unlock()

	removedCount := 0
	for id, hub := range m.hubs {
		if hub.ClientCount() == 0 {
			hub.Close()
			delete(m.hubs, id)
			removedCount++
		}
	}
	if removedCount > 0 {
		m.logger.Info("ws empty hubs cleaned up", slog.Int("removed", removedCount))
	}
}

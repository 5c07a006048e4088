package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/regattadev/boatrace/internal/dependencies/clock"
	"github.com/regattadev/boatrace/internal/model"
	"github.com/regattadev/boatrace/internal/services/auth"
	"github.com/regattadev/boatrace/internal/session"
)

// Gateway accepts websocket connections for races, validates and decodes
// inbound commands at the boundary, and routes them into the registry's
// serialized dispatch. Broadcast events reach clients through the
// HubManager; errors and the initial state snapshot go only to the
// originating connection.
type Gateway struct {
	registry *session.Registry
	hubs     *HubManager
	auth     *auth.Service
	clock    clock.Clock
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewGateway creates a new Gateway
func NewGateway(registry *session.Registry, hubs *HubManager, authService *auth.Service, clk clock.Clock, logger *slog.Logger) *Gateway {
	return &Gateway{
		registry: registry,
		hubs:     hubs,
		auth:     authService,
		clock:    clk,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Cross-origin clients are expected; commands are still
				// authenticated per connection
				return true
			},
		},
		logger: logger.With(slog.String("component", "gateway")),
	}
}

// ServeWS handles GET /ws/races/{id}: authenticates, upgrades, joins the
// race, and starts the connection's pumps
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	raceID := model.RaceID(mux.Vars(r)["id"])

	sess, err := g.auth.ValidateSession(extractToken(r))
	if err != nil {
		http.Error(w, "invalid or expired session", http.StatusUnauthorized)
		return
	}
	userID := sess.UserID

	if _, err := g.registry.Get(raceID); err != nil {
		http.Error(w, "race not found", http.StatusNotFound)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("ws upgrade failed",
			slog.String("race_id", string(raceID)),
			slog.Any("error", err))
		return
	}

	connID := model.ConnID(uuid.NewString())
	client := newClient(g.hubs.GetOrCreateHub(raceID), g, conn, connID, userID, raceID, g.logger)
	// The hub may be closed by empty-hub cleanup between lookup and
	// registration; fetch a fresh one until registration lands
	for !client.hub.Register(client) {
		client.hub = g.hubs.GetOrCreateHub(raceID)
	}

	go client.writePump()

	// Joining is implicit at connect: record the player, then send the
	// full snapshot to this connection only. The join announcement itself
	// is broadcast through the hub by the session's sink.
	snapshot, _, err := g.registry.Dispatch(r.Context(), raceID, model.JoinCommand{
		UserID: userID,
		ConnID: connID,
	})
	if err != nil {
		g.sendError(client, raceID, err.Error())
	} else {
		g.sendSyncState(client, snapshot)
	}

	client.readPump()
}

// handleMessage decodes and dispatches one inbound command from a client
func (g *Gateway) handleMessage(c *Client, data []byte) {
	var msg InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		g.sendError(c, c.raceID, "malformed message")
		return
	}

	cmd, err := DecodeCommand(c.userID, msg)
	if err != nil {
		g.sendError(c, c.raceID, err.Error())
		return
	}

	if _, _, err := g.registry.Dispatch(context.Background(), c.raceID, cmd); err != nil {
		g.sendError(c, c.raceID, err.Error())
	}
}

// handleDisconnect clears the player's readiness when the read side ends
func (g *Gateway) handleDisconnect(c *Client) {
	if _, _, err := g.registry.Dispatch(context.Background(), c.raceID, model.DisconnectCommand{ConnID: c.connID}); err != nil {
		// Race may already be gone; disconnects are best-effort
		c.logger.Debug("disconnect dispatch failed", slog.Any("error", err))
	}
}

// sendSyncState sends a full race snapshot to one connection
func (g *Gateway) sendSyncState(c *Client, snapshot *model.Race) {
	data, err := EncodeEvent(model.Event{
		Type:      model.EventSyncState,
		Timestamp: g.clock.Now(),
		RaceID:    snapshot.ID,
		Payload:   model.SyncStatePayload{Race: snapshot},
	})
	if err != nil {
		c.logger.Error("ws failed to encode sync state", slog.Any("error", err))
		return
	}
	c.enqueue(data)
}

// sendError delivers an error event to the originating connection only
func (g *Gateway) sendError(c *Client, raceID model.RaceID, message string) {
	data, err := EncodeEvent(model.Event{
		Type:      model.EventError,
		Timestamp: g.clock.Now(),
		RaceID:    raceID,
		Payload:   model.ErrorPayload{Message: message},
	})
	if err != nil {
		return
	}
	c.enqueue(data)
}

// extractToken pulls the session token from the Authorization header or,
// for browser websocket clients that cannot set headers, the query string
func extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

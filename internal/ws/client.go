package ws

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/regattadev/boatrace/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size in bytes
	maxMessageSize = 1024

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client represents one websocket connection bound to a race
type Client struct {
	hub     *Hub
	gateway *Gateway
	conn    *websocket.Conn

	connID      model.ConnID
	userID      model.UserID
	raceID      model.RaceID
	send        chan []byte
	connectedAt time.Time
	logger      *slog.Logger
}

func newClient(hub *Hub, gateway *Gateway, conn *websocket.Conn, connID model.ConnID, userID model.UserID, raceID model.RaceID, logger *slog.Logger) *Client {
	return &Client{
		hub:     hub,
		gateway: gateway,
		conn:    conn,
		connID:  connID,
		userID:  userID,
		raceID:  raceID,
		send:    make(chan []byte, sendBufferSize),
		logger: logger.With(
			slog.String("conn_id", string(connID)),
			slog.String("user_id", string(userID)),
		),
		connectedAt: time.Now(),
	}
}

// enqueue hands a message to the client's writer without blocking
func (c *Client) enqueue(message []byte) {
	select {
	case c.send <- message:
	default:
		c.logger.Warn("ws message dropped - client buffer full")
	}
}

// readPump reads inbound messages and forwards them to the gateway. It runs
// in the connection's goroutine and owns teardown: when the read side ends,
// the player's readiness is cleared and the client leaves the hub.
func (c *Client) readPump() {
	defer func() {
		c.gateway.handleDisconnect(c)
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("ws unexpected close", slog.Any("error", err))
			}
			return
		}
		c.gateway.handleMessage(c, data)
	}
}

// writePump writes queued messages and keepalive pings to the connection
func (c *Client) writePump() {
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
				// Hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
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

package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// wsEvent is a server event as received over the websocket
type wsEvent struct {
	Event     string          `json:"event"`
	RaceID    string          `json:"race_id,omitempty"`
	Timestamp time.Time       `json:"ts"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// dialRace opens a websocket connection to a race. Joining happens
// implicitly server-side on connect.
func dialRace(raceID string) (*websocket.Conn, error) {
	u, err := url.Parse(strings.TrimSuffix(cfg.ServerURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws/races/" + raceID

	header := http.Header{}
	if cfg.Token != "" {
		header.Set("Authorization", "Bearer "+cfg.Token)
	}

	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("connection failed: %s", resp.Status)
		}
		return nil, fmt.Errorf("connection failed: %w", err)
	}
	return conn, nil
}

// sendAction dials the race, issues one action, and waits for the server's
// reaction. Errors arrive as dedicated error events on the same connection.
func sendAction(raceID string, msg map[string]any, waitFor ...string) error {
	conn, err := dialRace(raceID)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}

	wanted := make(map[string]bool, len(waitFor))
	for _, ev := range waitFor {
		wanted[ev] = true
	}

	deadline := time.Now().Add(5 * time.Second)
	_ = conn.SetReadDeadline(deadline)

	out := NewOutput(cfg.Output)
	for {
		var ev wsEvent
		if err := conn.ReadJSON(&ev); err != nil {
			return fmt.Errorf("no response from server: %w", err)
		}

		if ev.Event == "error" {
			var payload struct {
				Message string `json:"message"`
			}
			_ = json.Unmarshal(ev.Payload, &payload)
			return fmt.Errorf("%s", payload.Message)
		}

		if wanted[ev.Event] {
			printWSEvent(out, ev)
			return nil
		}
	}
}

// sendFireAndForget dials the race, issues one action, and closes without
// waiting for a confirmation event
func sendFireAndForget(raceID string, msg map[string]any) error {
	conn, err := dialRace(raceID)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}

	// Give the server a moment to read the frame before closing
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return nil
}

func printWSEvent(out *Output, ev wsEvent) {
	if cfg.Output == "json" {
		out.Print(ev)
		return
	}

	timestamp := ev.Timestamp.Format("2006-01-02 15:04:05")
	display := string(ev.Payload)
	if len(display) > 100 {
		display = display[:100] + "..."
	}
	fmt.Printf("[%s] %s: %s\n", timestamp, ev.Event, display)
}

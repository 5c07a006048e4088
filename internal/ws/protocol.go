package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/regattadev/boatrace/internal/model"
)

// Inbound actions accepted over an established race connection. Joining is
// implicit at connect; disconnects are observed, not sent.
const (
	ActionChooseScreen = "choose_screen"
	ActionStart        = "start"
	ActionClickBoat    = "click_boat"
	ActionLeave        = "leave"
)

// InboundMessage is the envelope for client commands
type InboundMessage struct {
	Action string `json:"action"`
	Screen int    `json:"screen,omitempty"`
}

// OutboundMessage is the envelope for server events
type OutboundMessage struct {
	Event     string    `json:"event"`
	RaceID    string    `json:"race_id,omitempty"`
	Timestamp time.Time `json:"ts"`
	Payload   any       `json:"payload,omitempty"`
}

// Wire representations of domain state

// PlayerWire is a player as sent on the wire
type PlayerWire struct {
	UserID    string    `json:"user_id"`
	Connected bool      `json:"connected"`
	Screen    int       `json:"screen,omitempty"`
	Ready     bool      `json:"ready"`
	JoinedAt  time.Time `json:"joined_at"`
}

// BoatWire is a boat as sent on the wire
type BoatWire struct {
	Position  int    `json:"position"`
	OwnerID   string `json:"owner_id"`
	Direction string `json:"direction"`
}

// RaceWire is a full race snapshot as sent on the wire
type RaceWire struct {
	ID        string       `json:"id"`
	CreatorID string       `json:"creator_id"`
	Status    string       `json:"status"`
	WinnerID  string       `json:"winner_id,omitempty"`
	Players   []PlayerWire `json:"players"`
	Boat      *BoatWire    `json:"boat,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// PlayerToWire converts a model player
func PlayerToWire(p model.Player) PlayerWire {
	return PlayerWire{
		UserID:    string(p.UserID),
		Connected: p.ConnID != "",
		Screen:    p.Screen,
		Ready:     p.Ready,
		JoinedAt:  p.JoinedAt,
	}
}

// BoatToWire converts a model boat
func BoatToWire(b model.Boat) *BoatWire {
	return &BoatWire{
		Position:  b.Position,
		OwnerID:   string(b.OwnerID),
		Direction: string(b.Direction),
	}
}

// RaceToWire converts a model race snapshot
func RaceToWire(r *model.Race) RaceWire {
	players := make([]PlayerWire, len(r.Players))
	for i, p := range r.Players {
		players[i] = PlayerToWire(p)
	}
	wire := RaceWire{
		ID:        string(r.ID),
		CreatorID: string(r.CreatorID),
		Status:    string(r.Status),
		WinnerID:  string(r.WinnerID),
		Players:   players,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Boat != nil {
		wire.Boat = BoatToWire(*r.Boat)
	}
	return wire
}

// EncodeEvent converts a domain event to its wire form
func EncodeEvent(ev model.Event) ([]byte, error) {
	msg := OutboundMessage{
		Event:     string(ev.Type),
		RaceID:    string(ev.RaceID),
		Timestamp: ev.Timestamp,
	}

	switch p := ev.Payload.(type) {
	case model.SyncStatePayload:
		race := RaceToWire(p.Race)
		msg.Payload = struct {
			Race RaceWire `json:"race"`
		}{Race: race}
	case model.PlayerJoinedPayload:
		msg.Payload = struct {
			UserID string `json:"user_id"`
		}{UserID: string(p.UserID)}
	case model.PlayerReadyPayload:
		msg.Payload = struct {
			UserID string `json:"user_id"`
			Screen int    `json:"screen"`
		}{UserID: string(p.UserID), Screen: p.Screen}
	case model.PlayerNotReadyPayload:
		msg.Payload = struct {
			UserID string `json:"user_id"`
		}{UserID: string(p.UserID)}
	case model.RaceReadyPayload:
		msg.Payload = struct {
			RaceID string `json:"race_id"`
		}{RaceID: string(p.RaceID)}
	case model.RaceWaitingPayload:
		msg.Payload = struct {
			RaceID string `json:"race_id"`
		}{RaceID: string(p.RaceID)}
	case model.RaceStartedPayload:
		msg.Payload = struct {
			Boat *BoatWire `json:"boat"`
		}{Boat: BoatToWire(p.Boat)}
	case model.BoatUpdatedPayload:
		msg.Payload = struct {
			Boat *BoatWire `json:"boat"`
		}{Boat: BoatToWire(p.Boat)}
	case model.WinnerPayload:
		msg.Payload = struct {
			UserID string `json:"user_id"`
		}{UserID: string(p.UserID)}
	case model.ErrorPayload:
		msg.Payload = struct {
			Message string `json:"message"`
		}{Message: p.Message}
	case nil:
		// No payload
	default:
		return nil, fmt.Errorf("unknown event payload type %T", ev.Payload)
	}

	return json.Marshal(msg)
}

// DecodeCommand maps an inbound message to a typed command for userID.
// Unknown actions are rejected here so the state machine only ever sees
// well-formed input.
func DecodeCommand(userID model.UserID, msg InboundMessage) (model.Command, error) {
	switch msg.Action {
	case ActionChooseScreen:
		return model.ChooseScreenCommand{UserID: userID, Screen: msg.Screen}, nil
	case ActionStart:
		return model.StartCommand{UserID: userID}, nil
	case ActionClickBoat:
		return model.ClickBoatCommand{UserID: userID}, nil
	case ActionLeave:
		return model.LeaveCommand{UserID: userID}, nil
	default:
		return nil, fmt.Errorf("unknown action %q", msg.Action)
	}
}

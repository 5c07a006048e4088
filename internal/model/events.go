package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventSyncState      EventType = "sync_state"
	EventPlayerJoined   EventType = "player_joined"
	EventPlayerReady    EventType = "player_ready"
	EventPlayerNotReady EventType = "player_not_ready"
	EventRaceReady      EventType = "race_ready"
	EventRaceWaiting    EventType = "race_waiting"
	EventRaceStarted    EventType = "race_started"
	EventBoatUpdated    EventType = "boat_updated"
	EventWinner         EventType = "winner"
	EventError          EventType = "error"
)

// Event is the base structure for all outbound events
type Event struct {
	Type      EventType
	Timestamp time.Time
	RaceID    RaceID
	Payload   any // Type-specific data
}

// SyncStatePayload carries a full race snapshot, sent to a joining connection
type SyncStatePayload struct {
	Race *Race
}

// PlayerJoinedPayload contains data for player joined events
type PlayerJoinedPayload struct {
	UserID UserID
}

// PlayerReadyPayload contains data for player ready events
type PlayerReadyPayload struct {
	UserID UserID
	Screen int
}

// PlayerNotReadyPayload contains data for player not ready events
type PlayerNotReadyPayload struct {
	UserID UserID
}

// RaceReadyPayload contains data for race ready events
type RaceReadyPayload struct {
	RaceID RaceID
}

// RaceWaitingPayload contains data for race waiting events
type RaceWaitingPayload struct {
	RaceID RaceID
}

// RaceStartedPayload contains data for race started events
type RaceStartedPayload struct {
	Boat Boat
}

// BoatUpdatedPayload contains data for boat update events
type BoatUpdatedPayload struct {
	Boat Boat
}

// WinnerPayload contains data for winner events
type WinnerPayload struct {
	UserID UserID
}

// ErrorPayload carries an error message delivered to one connection only
type ErrorPayload struct {
	Message string
}

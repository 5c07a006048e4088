package model

import (
	"sort"
	"time"
)

// RaceID is a human-readable identifier for joining races
type RaceID string

// RaceStatus represents the current state of a race
type RaceStatus string

const (
	RaceStatusWaiting    RaceStatus = "waiting"     // Players joining and picking screens
	RaceStatusReady      RaceStatus = "ready"       // Everyone ready, creator may start
	RaceStatusInProgress RaceStatus = "in_progress" // Boat loop running
	RaceStatusFinished   RaceStatus = "finished"    // Terminal
)

// Race represents one race instance with its player set, status and boat
type Race struct {
	ID        RaceID
	CreatorID UserID
	Status    RaceStatus
	WinnerID  UserID // empty until finished
	Players   []Player
	Boat      *Boat // nil until the race starts
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetPlayer returns the player with the given user ID, or nil if not found
func (r *Race) GetPlayer(userID UserID) *Player {
	for i := range r.Players {
		if r.Players[i].UserID == userID {
			return &r.Players[i]
		}
	}
	return nil
}

// GetPlayerByConn returns the player bound to the given connection, or nil
func (r *Race) GetPlayerByConn(connID ConnID) *Player {
	if connID == "" {
		return nil
	}
	for i := range r.Players {
		if r.Players[i].ConnID == connID {
			return &r.Players[i]
		}
	}
	return nil
}

// ScreenTaken reports whether a player other than userID holds the screen
func (r *Race) ScreenTaken(screen int, userID UserID) bool {
	for i := range r.Players {
		if r.Players[i].UserID != userID && r.Players[i].Screen == screen {
			return true
		}
	}
	return false
}

// TurnOrder returns user IDs ordered ascending by screen number, with players
// lacking a screen appended afterward in join order. Recomputed on every call
// so it stays consistent with the current player set.
func (r *Race) TurnOrder() []UserID {
	withScreen := make([]Player, 0, len(r.Players))
	var withoutScreen []UserID
	for _, p := range r.Players {
		if p.HasScreen() {
			withScreen = append(withScreen, p)
		} else {
			withoutScreen = append(withoutScreen, p.UserID)
		}
	}
	sort.SliceStable(withScreen, func(i, j int) bool {
		return withScreen[i].Screen < withScreen[j].Screen
	})

	order := make([]UserID, 0, len(r.Players))
	for _, p := range withScreen {
		order = append(order, p.UserID)
	}
	return append(order, withoutScreen...)
}

// Clone returns a deep copy of the race, safe to hand outside the owning
// session's lock.
func (r *Race) Clone() *Race {
	cp := *r
	cp.Players = make([]Player, len(r.Players))
	copy(cp.Players, r.Players)
	if r.Boat != nil {
		boat := *r.Boat
		cp.Boat = &boat
	}
	return &cp
}

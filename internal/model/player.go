package model

import "time"

// UserID uniquely identifies a user account across the system
type UserID string

// ConnID identifies a live websocket connection
type ConnID string

// Player represents a user's participation in one race
type Player struct {
	RaceID   RaceID
	UserID   UserID
	ConnID   ConnID // empty when the player has no live connection
	Screen   int    // chosen turn slot, 0 until assigned
	Ready    bool
	JoinedAt time.Time
}

// HasScreen reports whether the player has chosen a turn slot
func (p *Player) HasScreen() bool {
	return p.Screen > 0
}

// Account represents a registered or guest user
type Account struct {
	ID          UserID
	DisplayName string
	IsGuest     bool // true for unregistered users
	CreatedAt   time.Time
}

// Credentials extends Account with authentication data
// Stored separately so password hashes never travel with race state
type Credentials struct {
	UserID       UserID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

package response

import (
	"time"

	"github.com/regattadev/boatrace/internal/model"
	"github.com/regattadev/boatrace/internal/services/auth"
)

// Account represents a user account in API responses
type Account struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AccountFromModel converts a model.Account to a response Account
func AccountFromModel(a *model.Account) Account {
	return Account{
		ID:          string(a.ID),
		DisplayName: a.DisplayName,
		IsGuest:     a.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Account      Account `json:"account"`
	SessionToken string  `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Account:      AccountFromModel(&s.Account),
		SessionToken: s.Token,
	}
}

// Player represents a race participant
type Player struct {
	UserID    string    `json:"user_id"`
	Connected bool      `json:"connected"`
	Screen    int       `json:"screen,omitempty"`
	Ready     bool      `json:"ready"`
	JoinedAt  time.Time `json:"joined_at"`
}

// Boat represents the race's turn token
type Boat struct {
	Position  int    `json:"position"`
	OwnerID   string `json:"owner_id"`
	Direction string `json:"direction"`
}

// Race represents a race in API responses
type Race struct {
	ID        string    `json:"id"`
	CreatorID string    `json:"creator_id"`
	Status    string    `json:"status"`
	WinnerID  string    `json:"winner_id,omitempty"`
	Players   []Player  `json:"players"`
	Boat      *Boat     `json:"boat,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RaceFromModel converts a model.Race to a response Race
func RaceFromModel(r *model.Race) Race {
	players := make([]Player, len(r.Players))
	for i, p := range r.Players {
		players[i] = Player{
			UserID:    string(p.UserID),
			Connected: p.ConnID != "",
			Screen:    p.Screen,
			Ready:     p.Ready,
			JoinedAt:  p.JoinedAt,
		}
	}
	race := Race{
		ID:        string(r.ID),
		CreatorID: string(r.CreatorID),
		Status:    string(r.Status),
		WinnerID:  string(r.WinnerID),
		Players:   players,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Boat != nil {
		race.Boat = &Boat{
			Position:  r.Boat.Position,
			OwnerID:   string(r.Boat.OwnerID),
			Direction: string(r.Boat.Direction),
		}
	}
	return race
}

// RaceList is the response for race listing
type RaceList struct {
	Races []Race `json:"races"`
}

// RaceListFromModels converts race snapshots to a RaceList
func RaceListFromModels(races []*model.Race) RaceList {
	out := RaceList{Races: make([]Race, len(races))}
	for i, r := range races {
		out.Races[i] = RaceFromModel(r)
	}
	return out
}

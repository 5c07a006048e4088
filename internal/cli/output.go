package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Account:
		o.printAccount(v)
	case AuthResult:
		o.printAuthResult(v)
	case Race:
		o.printRace(v)
	case RaceList:
		o.printRaceList(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Account response type (matches API)
type Account struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AuthResult combines account and token
type AuthResult struct {
	Account      Account `json:"account"`
	SessionToken string  `json:"session_token"`
}

// Player response type
type Player struct {
	UserID    string    `json:"user_id"`
	Connected bool      `json:"connected"`
	Screen    int       `json:"screen,omitempty"`
	Ready     bool      `json:"ready"`
	JoinedAt  time.Time `json:"joined_at"`
}

// Boat response type
type Boat struct {
	Position  int    `json:"position"`
	OwnerID   string `json:"owner_id"`
	Direction string `json:"direction"`
}

// Race response type
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

// RaceList response type
type RaceList struct {
	Races []Race `json:"races"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printAccount(a Account) {
	guestStr := "no"
	if a.IsGuest {
		guestStr = "yes"
	}
	fmt.Printf("Account: %s (%s)\n", a.DisplayName, a.ID)
	fmt.Printf("Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printAccount(a.Account)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printRace(r Race) {
	fmt.Printf("Race: %s\n", r.ID)
	fmt.Printf("Status: %s\n", r.Status)
	fmt.Printf("Creator: %s\n", r.CreatorID)
	if r.WinnerID != "" {
		fmt.Printf("Winner: %s\n", r.WinnerID)
	}
	if r.Boat != nil {
		fmt.Printf("Boat: position %d, owner %s, heading %s\n",
			r.Boat.Position, r.Boat.OwnerID, r.Boat.Direction)
	}
	fmt.Printf("Players (%d):\n", len(r.Players))
	for _, p := range r.Players {
		flags := []string{}
		if p.Screen > 0 {
			flags = append(flags, fmt.Sprintf("screen %d", p.Screen))
		}
		if p.Ready {
			flags = append(flags, "ready")
		}
		if !p.Connected {
			flags = append(flags, "disconnected")
		}
		suffix := ""
		if len(flags) > 0 {
			suffix = " [" + strings.Join(flags, ", ") + "]"
		}
		fmt.Printf("  - %s%s\n", p.UserID, suffix)
	}
}

func (o *Output) printRaceList(l RaceList) {
	if len(l.Races) == 0 {
		fmt.Println("No races")
		return
	}
	fmt.Printf("Races (%d):\n", len(l.Races))
	for _, r := range l.Races {
		fmt.Printf("  %s  %-11s  %d players  created %s\n",
			r.ID, r.Status, len(r.Players), r.CreatedAt.Format(time.RFC3339))
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

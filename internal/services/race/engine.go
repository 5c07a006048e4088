package race

import (
	"log/slog"

	"github.com/regattadev/boatrace/internal/dependencies/clock"
	"github.com/regattadev/boatrace/internal/model"
	"github.com/regattadev/boatrace/internal/services/readiness"
)

// Config holds tunables for the race state machine
type Config struct {
	// TickStep is the boat position advance per tick, on a 0..TrackLength scale
	TickStep int
}

// DefaultConfig returns the default engine configuration
func DefaultConfig() Config {
	return Config{
		TickStep: 5,
	}
}

// Engine owns the transition rules for a single race's state. It mutates the
// race it is given and returns the events to broadcast; callers are
// responsible for serializing access to any one race.
type Engine struct {
	cfg    Config
	clock  clock.Clock
	logger *slog.Logger
}

// NewEngine creates a new Engine
func NewEngine(cfg Config, clk clock.Clock, logger *slog.Logger) *Engine {
	if cfg.TickStep <= 0 {
		cfg.TickStep = DefaultConfig().TickStep
	}
	return &Engine{
		cfg:    cfg,
		clock:  clk,
		logger: logger,
	}
}

// NewRace creates a race in the waiting state with an empty roster
func (e *Engine) NewRace(id model.RaceID, creator model.UserID) *model.Race {
	now := e.clock.Now()
	return &model.Race{
		ID:        id,
		CreatorID: creator,
		Status:    model.RaceStatusWaiting,
		Players:   []model.Player{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply dispatches a command to the matching operation
func (e *Engine) Apply(r *model.Race, cmd model.Command) ([]model.Event, error) {
	switch c := cmd.(type) {
	case model.JoinCommand:
		return e.Join(r, c.UserID, c.ConnID), nil
	case model.ChooseScreenCommand:
		return e.ChooseScreen(r, c.UserID, c.Screen)
	case model.StartCommand:
		return e.Start(r, c.UserID)
	case model.ClickBoatCommand:
		return e.ClickBoat(r, c.UserID), nil
	case model.LeaveCommand:
		return e.Leave(r, c.UserID), nil
	case model.DisconnectCommand:
		return e.Disconnect(r, c.ConnID), nil
	case model.TickCommand:
		return e.Tick(r), nil
	default:
		return nil, model.ErrInvalidTransition
	}
}

// Join creates or refreshes the player record for userID. Re-joining with a
// connection updates the connection identity and resets readiness rather than
// duplicating; an empty connID is a roster-only join and leaves an existing
// record untouched.
func (e *Engine) Join(r *model.Race, userID model.UserID, connID model.ConnID) []model.Event {
	now := e.clock.Now()

	if p := r.GetPlayer(userID); p != nil {
		if connID == "" {
			// Roster join for a player already present changes nothing
			return nil
		}
		p.ConnID = connID
		p.Ready = false
	} else {
		r.Players = append(r.Players, model.Player{
			RaceID:   r.ID,
			UserID:   userID,
			ConnID:   connID,
			Ready:    false,
			JoinedAt: now,
		})
	}
	r.UpdatedAt = now

	events := []model.Event{e.event(r, model.EventPlayerJoined, model.PlayerJoinedPayload{UserID: userID})}
	return append(events, e.evaluate(r)...)
}

// ChooseScreen assigns a turn slot to the caller and marks them ready.
// Re-submitting the same valid value is a no-op on the stored fields.
func (e *Engine) ChooseScreen(r *model.Race, userID model.UserID, screen int) ([]model.Event, error) {
	p := r.GetPlayer(userID)
	if p == nil {
		return nil, model.ErrPlayerNotFound
	}
	if screen < 1 || screen > len(r.Players) {
		return nil, model.ErrInvalidScreen
	}
	if r.ScreenTaken(screen, userID) {
		return nil, model.ErrScreenTaken
	}

	p.Screen = screen
	p.Ready = true
	r.UpdatedAt = e.clock.Now()

	events := []model.Event{e.event(r, model.EventPlayerReady, model.PlayerReadyPayload{
		UserID: userID,
		Screen: screen,
	})}
	return append(events, e.evaluate(r)...), nil
}

// Start begins the race. Only the creator may call it, the race must be
// ready, and at least two players must be recorded. All validation completes
// before any field is written.
func (e *Engine) Start(r *model.Race, requester model.UserID) ([]model.Event, error) {
	if requester != r.CreatorID {
		return nil, model.ErrNotCreator
	}
	if r.Status != model.RaceStatusReady {
		return nil, model.ErrInvalidTransition
	}
	if len(r.Players) < readiness.MinPlayers {
		return nil, model.ErrNotEnoughPlayers
	}

	owner := r.TurnOrder()[0]

	r.Status = model.RaceStatusInProgress
	if r.Boat == nil {
		r.Boat = &model.Boat{RaceID: r.ID}
	}
	r.Boat.Position = 0
	r.Boat.OwnerID = owner
	r.Boat.Direction = model.DirectionForward
	r.UpdatedAt = e.clock.Now()

	e.logger.Info("race started",
		slog.String("race_id", string(r.ID)),
		slog.Int("player_count", len(r.Players)),
		slog.String("first_owner", string(owner)),
	)

	return []model.Event{e.event(r, model.EventRaceStarted, model.RaceStartedPayload{Boat: *r.Boat})}, nil
}

// Tick advances the boat. It is a silent no-op unless the race is in
// progress with a boat; on reaching the end of the track the position wraps
// to zero and ownership rotates to the next player in turn order.
func (e *Engine) Tick(r *model.Race) []model.Event {
	if r.Status != model.RaceStatusInProgress || r.Boat == nil {
		return nil
	}

	r.Boat.Position += e.cfg.TickStep
	if r.Boat.Position >= model.TrackLength {
		order := r.TurnOrder()
		if len(order) == 0 {
			return nil
		}
		current := -1
		for i, id := range order {
			if id == r.Boat.OwnerID {
				current = i
				break
			}
		}
		r.Boat.Position = 0
		r.Boat.OwnerID = order[(current+1)%len(order)]
	}
	r.UpdatedAt = e.clock.Now()

	return []model.Event{e.event(r, model.EventBoatUpdated, model.BoatUpdatedPayload{Boat: *r.Boat})}
}

// ClickBoat claims victory. Clicks from anyone but the boat's current owner
// are rejected silently with no state change.
func (e *Engine) ClickBoat(r *model.Race, userID model.UserID) []model.Event {
	if r.Status != model.RaceStatusInProgress || r.Boat == nil {
		return nil
	}
	if userID != r.Boat.OwnerID {
		return nil
	}

	r.Status = model.RaceStatusFinished
	r.WinnerID = userID
	r.UpdatedAt = e.clock.Now()

	e.logger.Info("race won",
		slog.String("race_id", string(r.ID)),
		slog.String("winner", string(userID)),
	)

	return []model.Event{e.event(r, model.EventWinner, model.WinnerPayload{UserID: userID})}
}

// Disconnect clears readiness for the player bound to connID. Unknown
// connections are ignored.
func (e *Engine) Disconnect(r *model.Race, connID model.ConnID) []model.Event {
	p := r.GetPlayerByConn(connID)
	if p == nil {
		return nil
	}

	p.Ready = false
	r.UpdatedAt = e.clock.Now()

	events := []model.Event{e.event(r, model.EventPlayerNotReady, model.PlayerNotReadyPayload{UserID: p.UserID})}
	return append(events, e.evaluate(r)...)
}

// Leave forfeits an in-progress race: the race finishes and victory is
// awarded to the creator, regardless of who left. Outside of play it does
// nothing; players are never removed from the roster.
func (e *Engine) Leave(r *model.Race, userID model.UserID) []model.Event {
	if r.Status != model.RaceStatusInProgress {
		return nil
	}

	r.Status = model.RaceStatusFinished
	r.WinnerID = r.CreatorID
	r.UpdatedAt = e.clock.Now()

	e.logger.Info("race forfeited",
		slog.String("race_id", string(r.ID)),
		slog.String("left", string(userID)),
		slog.String("winner", string(r.CreatorID)),
	)

	return []model.Event{e.event(r, model.EventWinner, model.WinnerPayload{UserID: r.CreatorID})}
}

// evaluate re-runs readiness aggregation after a readiness-affecting
// mutation and emits the transition event if the aggregate status changed
func (e *Engine) evaluate(r *model.Race) []model.Event {
	allReady := readiness.Evaluate(r.Players)
	switch {
	case allReady && r.Status == model.RaceStatusWaiting:
		r.Status = model.RaceStatusReady
		return []model.Event{e.event(r, model.EventRaceReady, model.RaceReadyPayload{RaceID: r.ID})}
	case !allReady && r.Status == model.RaceStatusReady:
		r.Status = model.RaceStatusWaiting
		return []model.Event{e.event(r, model.EventRaceWaiting, model.RaceWaitingPayload{RaceID: r.ID})}
	}
	return nil
}

func (e *Engine) event(r *model.Race, t model.EventType, payload any) model.Event {
	return model.Event{
		Type:      t,
		Timestamp: e.clock.Now(),
		RaceID:    r.ID,
		Payload:   payload,
	}
}

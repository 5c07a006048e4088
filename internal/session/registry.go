package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/regattadev/boatrace/internal/dependencies/clock"
	"github.com/regattadev/boatrace/internal/dependencies/random"
	"github.com/regattadev/boatrace/internal/model"
	"github.com/regattadev/boatrace/internal/services/race"
	"github.com/regattadev/boatrace/internal/storage"
)

const (
	// RaceIDLength is the length of generated race ids
	RaceIDLength = 6
	// RaceIDAlphabet is the characters used in race ids (avoid confusing chars)
	RaceIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Registry is the concurrency-safe directory of active race sessions. It
// guarantees exactly one session per race id. Its structural lock is never
// held while a session processes a command, so unrelated races never
// contend.
type Registry struct {
	engine       *race.Engine
	tickInterval time.Duration
	clock        clock.Clock
	random       random.Random
	store        storage.Storage
	sink         Sink
	logger       *slog.Logger

	mu       sync.RWMutex
	sessions map[model.RaceID]*Session
}

// RegistryConfig holds configuration for the registry
type RegistryConfig struct {
	// TickInterval is the boat loop period for every race
	TickInterval time.Duration
	// Engine configuration
	Race race.Config
}

// DefaultRegistryConfig returns the default registry configuration
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		TickInterval: 500 * time.Millisecond,
		Race:         race.DefaultConfig(),
	}
}

// NewRegistry creates a new Registry
func NewRegistry(
	cfg RegistryConfig,
	clk clock.Clock,
	rnd random.Random,
	store storage.Storage,
	sink Sink,
	logger *slog.Logger,
) *Registry {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultRegistryConfig().TickInterval
	}
	return &Registry{
		engine:       race.NewEngine(cfg.Race, clk, logger),
		tickInterval: cfg.TickInterval,
		clock:        clk,
		random:       rnd,
		store:        store,
		sink:         sink,
		logger:       logger.With(slog.String("component", "registry")),
		sessions:     make(map[model.RaceID]*Session),
	}
}

// Create allocates a new race owned by creator and returns its snapshot.
// Drawing an id and claiming the directory slot are separate steps, so a
// concurrent Create may claim the same draw first; the loop simply redraws
// until a claim lands.
func (r *Registry) Create(ctx context.Context, creator model.UserID) (*model.Race, error) {
	var (
		id   model.RaceID
		sess *Session
	)
	for {
		id = model.RaceID(r.random.String(RaceIDLength, RaceIDAlphabet))
		exists, err := r.store.RaceExists(ctx, id)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		raceState := r.engine.NewRace(id, creator)
		sess = newSession(raceState, r.engine, r.tickInterval, r.clock, r.store, r.sink, r.logger)

		r.mu.Lock()
		if _, ok := r.sessions[id]; ok {
			r.mu.Unlock()
			continue
		}
		r.sessions[id] = sess
		r.mu.Unlock()
		break
	}

	snapshot := sess.Snapshot()
	if err := r.store.SaveRace(ctx, snapshot); err != nil {
		r.logger.Warn("initial race snapshot save failed",
			slog.String("race_id", string(id)),
			slog.String("error", err.Error()),
		)
	}

	r.logger.Info("race created",
		slog.String("race_id", string(id)),
		slog.String("creator", string(creator)),
	)

	return snapshot, nil
}

// Get returns the session for a race id
func (r *Registry) Get(id model.RaceID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[id]
	if !ok {
		return nil, model.ErrRaceNotFound
	}
	return sess, nil
}

// Dispatch locates a session and applies one command to it. The registry
// lock is released before the command is processed.
func (r *Registry) Dispatch(ctx context.Context, id model.RaceID, cmd model.Command) (*model.Race, []model.Event, error) {
	sess, err := r.Get(id)
	if err != nil {
		return nil, nil, err
	}
	return sess.Dispatch(ctx, cmd)
}

// Remove stops a session's scheduler and drops it from the directory. The
// stored snapshot is kept; removal is for lifecycle cleanup, not deletion
// of results.
func (r *Registry) Remove(id model.RaceID) {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	if ok {
		sess.Close()
		r.logger.Info("race removed", slog.String("race_id", string(id)))
	}
}

// CleanupFinished removes sessions for races that have reached the
// finished state. Their stored snapshots stay fetchable over the API.
// Returns the number of sessions removed.
func (r *Registry) CleanupFinished() int {
	r.mu.RLock()
	candidates := make(map[model.RaceID]*Session, len(r.sessions))
	for id, sess := range r.sessions {
		candidates[id] = sess
	}
	r.mu.RUnlock()

	removed := 0
	for id, sess := range candidates {
		if sess.Snapshot().Status == model.RaceStatusFinished {
			r.Remove(id)
			removed++
		}
	}
	return removed
}

// Len returns the number of active sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/regattadev/boatrace/internal/dependencies/clock"
	"github.com/regattadev/boatrace/internal/model"
	"github.com/regattadev/boatrace/internal/services/race"
	"github.com/regattadev/boatrace/internal/storage"
)

// persistTimeout bounds each best-effort snapshot write
const persistTimeout = 5 * time.Second

// Sink receives events emitted by a session for broadcast. Publish must not
// block; a slow consumer must never stall command processing.
type Sink interface {
	Publish(raceID model.RaceID, events []model.Event)
}

// Session is the exclusive owner of one race's mutable state. Every
// mutation, whether from a client command or the scheduler's tick, goes
// through Dispatch and is applied under the session's lock, one command at
// a time.
type Session struct {
	id     model.RaceID
	engine *race.Engine
	sched  *Scheduler
	store  storage.Storage
	sink   Sink
	logger *slog.Logger

	mu   sync.Mutex
	race *model.Race
}

func newSession(
	r *model.Race,
	engine *race.Engine,
	tickInterval time.Duration,
	clk clock.Clock,
	store storage.Storage,
	sink Sink,
	logger *slog.Logger,
) *Session {
	logger = logger.With(slog.String("race_id", string(r.ID)))
	return &Session{
		id:     r.ID,
		engine: engine,
		sched:  NewScheduler(tickInterval, clk, logger),
		store:  store,
		sink:   sink,
		logger: logger,
		race:   r,
	}
}

// ID returns the race id this session owns
func (s *Session) ID() model.RaceID {
	return s.id
}

// Snapshot returns a copy of the current race state
func (s *Session) Snapshot() *model.Race {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.race.Clone()
}

// Dispatch applies one command to the race. On success it returns the
// post-command snapshot and the events that were handed to the sink for
// broadcast. Validation failures return an error and leave the race
// untouched.
func (s *Session) Dispatch(ctx context.Context, cmd model.Command) (*model.Race, []model.Event, error) {
	s.mu.Lock()
	events, err := s.engine.Apply(s.race, cmd)
	snapshot := s.race.Clone()
	if err == nil {
		// The scheduler runs exactly while the race is in progress.
		// The decision stays inside the critical section so it is
		// ordered with concurrent status transitions.
		if snapshot.Status == model.RaceStatusInProgress {
			s.sched.Start(s.tick)
		} else {
			s.sched.Stop()
		}
	}
	s.mu.Unlock()

	if err != nil {
		return nil, nil, err
	}

	if len(events) > 0 {
		s.sink.Publish(s.id, events)
		s.persist(snapshot)
	}

	return snapshot, events, nil
}

// SchedulerRunning reports whether this session's boat loop is active
func (s *Session) SchedulerRunning() bool {
	return s.sched.Running()
}

// Close stops the session's scheduler
func (s *Session) Close() {
	s.sched.Stop()
}

// tick is the scheduler callback. It injects a Tick through the same
// serialized entry point as client commands and tells the scheduler to stop
// once the race has left the in-progress state.
func (s *Session) tick() bool {
	snapshot, _, err := s.Dispatch(context.Background(), model.TickCommand{})
	if err != nil {
		return false
	}
	return snapshot.Status == model.RaceStatusInProgress
}

// persist writes the snapshot asynchronously. Failures are logged, never
// surfaced: in-memory state is authoritative and writes are idempotent.
func (s *Session) persist(snapshot *model.Race) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.store.SaveRace(ctx, snapshot); err != nil {
			s.logger.Warn("race snapshot save failed", slog.String("error", err.Error()))
		}
	}()
}

package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/regattadev/boatrace/internal/dependencies/clock"
)

// Scheduler drives one race's boat loop. It feeds ticks through the same
// serialized dispatch path as client commands and never touches race state
// directly. At most one timer runs per race.
type Scheduler struct {
	interval time.Duration
	clock    clock.Clock
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	stop    chan struct{}
}

// NewScheduler creates a stopped scheduler
func NewScheduler(interval time.Duration, clk clock.Clock, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		interval: interval,
		clock:    clk,
		logger:   logger,
	}
}

// Start launches the tick loop. Idempotent: a second call while the loop is
// already running is a no-op. The ticker is created before Start returns, so
// at most one ticker ever exists per running loop. The tick callback returns
// false when the loop should stop.
func (s *Scheduler) Start(tick func() bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	t := s.clock.NewTicker(s.interval)
	go s.run(t, s.stop, tick)
}

func (s *Scheduler) run(t clock.Ticker, stop chan struct{}, tick func() bool) {
	defer t.Stop()

	for {
		select {
		case <-t.C():
			if !tick() {
				s.Stop()
				return
			}
		case <-stop:
			return
		}
	}
}

// Stop cancels the timer. Idempotent and safe to call from any goroutine,
// including the tick callback itself.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.stop)
}

// Running reports whether the tick loop is active
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

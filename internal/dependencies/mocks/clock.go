package mocks

import (
	"sync"
	"time"

	"github.com/regattadev/boatrace/internal/dependencies/clock"
)

// MockClock is a manually driven Clock. It is safe for concurrent use: the
// code under test reads it from its own goroutines while the test advances
// it.
type MockClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*MockTicker
}

var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by the given duration
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set sets the clock to the given time
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// NewTicker returns a manually driven MockTicker
func (c *MockClock) NewTicker(d time.Duration) clock.Ticker {
	t := NewMockTicker()
	c.mu.Lock()
	c.tickers = append(c.tickers, t)
	c.mu.Unlock()
	return t
}

// TickerCount returns how many tickers have been created
func (c *MockClock) TickerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

// Ticker returns the i-th created ticker
func (c *MockClock) Ticker(i int) *MockTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tickers[i]
}

// MockTicker is a ticker driven by explicit Tick calls
type MockTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

var _ clock.Ticker = (*MockTicker)(nil)

// NewMockTicker creates a MockTicker
func NewMockTicker() *MockTicker {
	return &MockTicker{ch: make(chan time.Time, 1)}
}

// C returns the tick channel
func (t *MockTicker) C() <-chan time.Time {
	return t.ch
}

// Stop marks the ticker stopped
func (t *MockTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

// Stopped reports whether Stop has been called
func (t *MockTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Tick fires the ticker once, blocking until the consumer receives it
func (t *MockTicker) Tick(at time.Time) {
	t.ch <- at
}

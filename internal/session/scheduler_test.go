package session

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/regattadev/boatrace/internal/dependencies/mocks"
	"github.com/regattadev/boatrace/internal/testutil"
)

type SchedulerSuite struct {
	suite.Suite
	clock *mocks.MockClock
	sched *Scheduler
}

func TestSchedulerSuite(t *testing.T) {
	suite.Run(t, new(SchedulerSuite))
}

func (s *SchedulerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.sched = NewScheduler(500*time.Millisecond, s.clock, testutil.NopLogger())
}

func (s *SchedulerSuite) TearDownTest() {
	s.sched.Stop()
}

func (s *SchedulerSuite) TestStartsStopped() {
	s.False(s.sched.Running())
}

func (s *SchedulerSuite) TestStartRunsTickOnTimer() {
	var ticks atomic.Int64
	s.sched.Start(func() bool {
		ticks.Add(1)
		return true
	})
	s.True(s.sched.Running())

	s.Require().Equal(1, s.clock.TickerCount())
	s.clock.Ticker(0).Tick(s.clock.Now())

	s.Eventually(func() bool { return ticks.Load() == 1 }, time.Second, time.Millisecond)
}

func (s *SchedulerSuite) TestStartIsIdempotent() {
	s.sched.Start(func() bool { return true })
	s.sched.Start(func() bool { return true })

	// A second Start while running must not spawn a second loop
	s.Equal(1, s.clock.TickerCount())
}

func (s *SchedulerSuite) TestStopsWhenCallbackReturnsFalse() {
	var ticks atomic.Int64
	s.sched.Start(func() bool {
		ticks.Add(1)
		return false
	})

	s.clock.Ticker(0).Tick(s.clock.Now())

	s.Eventually(func() bool { return !s.sched.Running() }, time.Second, time.Millisecond)
	s.Equal(int64(1), ticks.Load())
}

func (s *SchedulerSuite) TestStopIsIdempotent() {
	s.sched.Start(func() bool { return true })

	s.sched.Stop()
	s.sched.Stop()

	s.False(s.sched.Running())
}

func (s *SchedulerSuite) TestRestartAfterStop() {
	var ticks atomic.Int64
	s.sched.Start(func() bool {
		ticks.Add(1)
		return true
	})
	s.sched.Stop()

	s.sched.Start(func() bool {
		ticks.Add(1)
		return true
	})
	s.True(s.sched.Running())

	s.Require().Equal(2, s.clock.TickerCount())
	s.clock.Ticker(1).Tick(s.clock.Now())
	s.Eventually(func() bool { return ticks.Load() >= 1 }, time.Second, time.Millisecond)
}

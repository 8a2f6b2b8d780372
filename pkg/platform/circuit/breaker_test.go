package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type BreakerSuite struct {
	suite.Suite
	now time.Time
}

func TestBreakerSuite(t *testing.T) {
	suite.Run(t, new(BreakerSuite))
}

func (s *BreakerSuite) SetupTest() {
	s.now = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (s *BreakerSuite) breaker(opts ...Option) *Breaker {
	return New("name-resolver", append([]Option{WithClock(func() time.Time { return s.now })}, opts...)...)
}

// call simulates one guarded call and returns whether it was attempted.
func (s *BreakerSuite) call(b *Breaker, ok bool) bool {
	if !b.Allow() {
		return false
	}
	if ok {
		b.RecordSuccess()
	} else {
		b.RecordFailure()
	}
	return true
}

// =============================================================================
// Opening
// =============================================================================

func (s *BreakerSuite) TestStartsClosed() {
	b := s.breaker()
	s.Equal("name-resolver", b.Name())
	s.Equal(StateClosed, b.State())
	s.True(b.Allow())
}

func (s *BreakerSuite) TestOpensOnConsecutiveFailures() {
	b := s.breaker(WithFailureThreshold(3))

	for range 2 {
		fallback, change := b.RecordFailure()
		s.False(fallback)
		s.False(change.Opened)
	}
	fallback, change := b.RecordFailure()
	s.True(fallback)
	s.True(change.Opened, "third failure reports the transition")
	s.True(b.IsOpen())

	fallback, change = b.RecordFailure()
	s.True(fallback)
	s.False(change.Opened, "already open")
}

func (s *BreakerSuite) TestInterleavedSuccessKeepsItClosed() {
	b := s.breaker(WithFailureThreshold(3))
	for _, ok := range []bool{false, false, true, false, false} {
		s.True(s.call(b, ok))
	}
	s.False(b.IsOpen())

	s.call(b, false)
	s.True(b.IsOpen())
}

// =============================================================================
// Cooldown and recovery
// =============================================================================

func (s *BreakerSuite) TestRejectsDuringCooldown() {
	b := s.breaker(WithFailureThreshold(1), WithCooldown(30*time.Second))
	s.call(b, false)

	s.now = s.now.Add(29 * time.Second)
	s.False(s.call(b, true), "calls are short-circuited while cooling down")

	s.now = s.now.Add(time.Second)
	s.True(s.call(b, true), "probe goes through after the cooldown")
	s.False(b.IsOpen())
}

func (s *BreakerSuite) TestFailedProbeRestartsCooldown() {
	b := s.breaker(WithFailureThreshold(1), WithCooldown(time.Minute))
	s.call(b, false)

	s.now = s.now.Add(time.Minute)
	s.True(s.call(b, false))
	s.True(b.IsOpen())

	s.now = s.now.Add(30 * time.Second)
	s.False(b.Allow())
}

func (s *BreakerSuite) TestSuccessThresholdNeedsAnUnbrokenRun() {
	b := s.breaker(WithFailureThreshold(1), WithSuccessThreshold(2))
	b.RecordFailure()

	primary, change := b.RecordSuccess()
	s.False(primary)
	s.False(change.Closed)

	b.RecordFailure()
	b.RecordSuccess()
	s.True(b.IsOpen(), "the failure reset the success run")

	primary, change = b.RecordSuccess()
	s.True(primary)
	s.True(change.Closed)
	s.Equal(StateClosed, b.State())
}

func (s *BreakerSuite) TestReset() {
	b := s.breaker(WithFailureThreshold(1))
	b.RecordFailure()
	b.Reset()
	s.False(b.IsOpen())
	s.True(b.Allow())
}

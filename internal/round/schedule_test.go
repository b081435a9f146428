package round

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/winpay/platform/internal/domain"
)

func mustSchedule(t *testing.T, mode domain.GameMode) *Schedule {
	t.Helper()
	s, err := NewSchedule(mode, 5*time.Second)
	require.NoError(t, err)
	return s
}

func TestNewScheduleUnknownMode(t *testing.T) {
	_, err := NewSchedule("wingo_10s", 5*time.Second)
	assert.Error(t, err)
}

func TestNewScheduleLockMarginFallback(t *testing.T) {
	s, err := NewSchedule(domain.ModeWingo30s, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultLockMargin, s.LockMargin)

	// A margin longer than the round makes every instant locked, so it
	// falls back too.
	s, err = NewSchedule(domain.ModeWingo30s, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, DefaultLockMargin, s.LockMargin)
}

func TestPeriodIDDeterministic(t *testing.T) {
	s := mustSchedule(t, domain.ModeWingo1m)
	at := time.Date(2025, 6, 15, 10, 30, 42, 0, time.UTC)

	id1 := s.PeriodID(at)
	id2 := s.PeriodID(at)
	assert.Equal(t, id1, id2)

	// Any instant within the same round maps to the same identifier.
	assert.Equal(t, id1, s.PeriodID(time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)))
	assert.Equal(t, id1, s.PeriodID(time.Date(2025, 6, 15, 10, 30, 59, 0, time.UTC)))
	assert.NotEqual(t, id1, s.PeriodID(time.Date(2025, 6, 15, 10, 31, 0, 0, time.UTC)))
}

func TestPeriodIDStartsWithRoundStartDate(t *testing.T) {
	s := mustSchedule(t, domain.ModeWingo5m)

	// A round that starts before midnight keeps the previous day's prefix
	// even for instants after midnight.
	beforeMidnight := time.Date(2025, 6, 15, 23, 57, 0, 0, time.UTC)
	afterMidnight := time.Date(2025, 6, 15, 23, 59, 59, 0, time.UTC)
	id := s.PeriodID(beforeMidnight)
	assert.Equal(t, id, s.PeriodID(afterMidnight))
	assert.Equal(t, "20250615", id[:8])
}

func TestPeriodIDMonotonic(t *testing.T) {
	for _, mode := range domain.GameModes {
		s := mustSchedule(t, mode)
		at := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
		prev := s.PeriodID(at)
		for i := 0; i < 50; i++ {
			at = at.Add(s.Duration)
			next := s.PeriodID(at)
			assert.Greater(t, next, prev, "mode %s step %d", mode, i)
			prev = next
		}
	}
}

func TestWindow(t *testing.T) {
	s := mustSchedule(t, domain.ModeWingo1m)
	at := time.Date(2025, 6, 15, 10, 30, 42, 0, time.UTC)

	start, lock, close := s.Window(at)
	assert.Equal(t, time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 6, 15, 10, 31, 0, 0, time.UTC), close)
	assert.Equal(t, close.Add(-5*time.Second), lock)
}

func TestAcceptsBets(t *testing.T) {
	s := mustSchedule(t, domain.ModeWingo1m)
	start := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	assert.True(t, s.AcceptsBets(start))
	assert.True(t, s.AcceptsBets(start.Add(54*time.Second)))
	assert.False(t, s.AcceptsBets(start.Add(55*time.Second)))
	assert.False(t, s.AcceptsBets(start.Add(59*time.Second)))
}

func TestPreviousAndNextPeriodID(t *testing.T) {
	s := mustSchedule(t, domain.ModeWingo3m)
	at := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	cur := s.PeriodID(at)
	prev := s.PreviousPeriodID(at)
	next := s.NextPeriodID(at)

	assert.Less(t, prev, cur)
	assert.Greater(t, next, cur)
	assert.Equal(t, cur, s.NextPeriodID(at.Add(-s.Duration)))
	assert.Equal(t, cur, s.PreviousPeriodID(at.Add(s.Duration)))
}

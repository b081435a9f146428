package round

import (
	"fmt"
	"strconv"
	"time"

	"github.com/winpay/platform/internal/domain"
)

// Durations maps each game mode to its round length.
var Durations = map[domain.GameMode]time.Duration{
	domain.ModeWingo30s: 30 * time.Second,
	domain.ModeWingo1m:  60 * time.Second,
	domain.ModeWingo3m:  180 * time.Second,
	domain.ModeWingo5m:  300 * time.Second,
}

// DefaultLockMargin is how long before round close betting locks.
const DefaultLockMargin = 5 * time.Second

// Schedule maps wall-clock time to round identity for one game mode.
// All methods are pure functions of the supplied time.
type Schedule struct {
	Mode       domain.GameMode
	Duration   time.Duration
	LockMargin time.Duration
}

// NewSchedule builds the schedule for a game mode.
func NewSchedule(mode domain.GameMode, lockMargin time.Duration) (*Schedule, error) {
	d, ok := Durations[mode]
	if !ok {
		return nil, fmt.Errorf("unknown game mode: %s", mode)
	}
	if lockMargin <= 0 || lockMargin >= d {
		lockMargin = DefaultLockMargin
	}
	return &Schedule{Mode: mode, Duration: d, LockMargin: lockMargin}, nil
}

// PeriodID returns the round identifier containing t: the round start date
// (UTC, YYYYMMDD) concatenated with floor(unix/duration). The same instant
// always yields the same identifier, and identifiers increase with time.
func (s *Schedule) PeriodID(t time.Time) string {
	secs := int64(s.Duration / time.Second)
	seq := t.Unix() / secs
	start := time.Unix(seq*secs, 0).UTC()
	return start.Format("20060102") + strconv.FormatInt(seq, 10)
}

// Window returns the start, betting lock and close instants of the round
// containing t.
func (s *Schedule) Window(t time.Time) (start, lock, close time.Time) {
	secs := int64(s.Duration / time.Second)
	startUnix := t.Unix() / secs * secs
	start = time.Unix(startUnix, 0).UTC()
	close = start.Add(s.Duration)
	lock = close.Add(-s.LockMargin)
	return start, lock, close
}

// AcceptsBets reports whether bets may still be placed at t for the round
// containing t.
func (s *Schedule) AcceptsBets(t time.Time) bool {
	_, lock, _ := s.Window(t)
	return t.Before(lock)
}

// PreviousPeriodID returns the identifier of the round that closed most
// recently before the round containing t.
func (s *Schedule) PreviousPeriodID(t time.Time) string {
	return s.PeriodID(t.Add(-s.Duration))
}

// NextPeriodID returns the identifier of the round after the one
// containing t.
func (s *Schedule) NextPeriodID(t time.Time) string {
	return s.PeriodID(t.Add(s.Duration))
}

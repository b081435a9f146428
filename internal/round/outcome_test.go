package round

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/winpay/platform/internal/domain"
)

func TestOutcomeDeterministic(t *testing.T) {
	g := NewGenerator("test-seed")

	n1, c1 := g.Outcome(domain.ModeWingo1m, "20250615100")
	n2, c2 := g.Outcome(domain.ModeWingo1m, "20250615100")
	assert.Equal(t, n1, n2)
	assert.Equal(t, c1, c2)
}

func TestOutcomeInRange(t *testing.T) {
	g := NewGenerator("test-seed")

	for i := 0; i < 200; i++ {
		n, colors := g.Outcome(domain.ModeWingo30s, fmt.Sprintf("20250615%d", i))
		assert.GreaterOrEqual(t, n, 0)
		assert.LessOrEqual(t, n, 9)
		assert.Equal(t, domain.ColorsFor(n), colors)
	}
}

func TestOutcomeVariesByModeAndPeriod(t *testing.T) {
	g := NewGenerator("test-seed")

	// The same period in different modes is a different HMAC input; over
	// enough periods both dimensions must produce differing outcomes.
	sawModeDiff := false
	sawPeriodDiff := false
	prev, _ := g.Outcome(domain.ModeWingo1m, "p0")
	for i := 0; i < 100; i++ {
		period := fmt.Sprintf("p%d", i)
		a, _ := g.Outcome(domain.ModeWingo1m, period)
		b, _ := g.Outcome(domain.ModeWingo5m, period)
		if a != b {
			sawModeDiff = true
		}
		if a != prev {
			sawPeriodDiff = true
		}
		prev = a
	}
	assert.True(t, sawModeDiff)
	assert.True(t, sawPeriodDiff)
}

func TestOutcomeVariesBySeed(t *testing.T) {
	g1 := NewGenerator("seed-one")
	g2 := NewGenerator("seed-two")

	diff := 0
	for i := 0; i < 50; i++ {
		period := fmt.Sprintf("p%d", i)
		a, _ := g1.Outcome(domain.ModeWingo1m, period)
		b, _ := g2.Outcome(domain.ModeWingo1m, period)
		if a != b {
			diff++
		}
	}
	assert.Greater(t, diff, 0)
}

func TestOutcomeCoversAllDigits(t *testing.T) {
	g := NewGenerator("distribution-seed")

	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		n, _ := g.Outcome(domain.ModeWingo1m, fmt.Sprintf("p%d", i))
		seen[n] = true
	}
	assert.Len(t, seen, 10)
}

func TestDigestStable(t *testing.T) {
	g := NewGenerator("test-seed")

	d1 := g.Digest(domain.ModeWingo1m, "20250615100")
	d2 := g.Digest(domain.ModeWingo1m, "20250615100")
	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 64) // hex sha256

	d3 := g.Digest(domain.ModeWingo1m, "20250615101")
	assert.NotEqual(t, d1, d3)
}

package provider

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() *RandomOrgClient {
	// No API key, so all draws use the CSPRNG fallback.
	return NewRandomOrgClient("", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestMinePositions_DistinctAndInRange(t *testing.T) {
	c := newTestClient()

	for _, n := range []int{1, 3, 12, 24} {
		mines, err := c.MinePositions(context.Background(), n, 25)
		require.NoError(t, err, "n=%d", n)
		require.Len(t, mines, n)

		seen := make(map[int]bool)
		for _, m := range mines {
			assert.GreaterOrEqual(t, m, 0)
			assert.Less(t, m, 25)
			assert.False(t, seen[m], "duplicate mine %d", m)
			seen[m] = true
		}
	}
}

func TestMinePositions_OutOfRange(t *testing.T) {
	c := newTestClient()

	_, err := c.MinePositions(context.Background(), 0, 25)
	assert.Error(t, err)
	_, err = c.MinePositions(context.Background(), 25, 25)
	assert.Error(t, err)
	_, err = c.MinePositions(context.Background(), -1, 25)
	assert.Error(t, err)
}

func TestRandomIntegers_InRange(t *testing.T) {
	c := newTestClient()

	values, err := c.RandomIntegers(context.Background(), 100, 0, 9)
	require.NoError(t, err)
	require.Len(t, values, 100)
	for _, v := range values {
		assert.GreaterOrEqual(t, v, 0)
		assert.LessOrEqual(t, v, 9)
	}
}

func TestRandomIntegers_SingleValueRange(t *testing.T) {
	c := newTestClient()

	values, err := c.RandomIntegers(context.Background(), 5, 7, 7)
	require.NoError(t, err)
	for _, v := range values {
		assert.Equal(t, 7, v)
	}
}

func TestCSPRNGIntegers_InvalidRange(t *testing.T) {
	_, err := csprngIntegers(3, 10, 5)
	assert.Error(t, err)
}

func TestValidateDraw(t *testing.T) {
	tests := []struct {
		name     string
		data     []int
		n        int
		min, max int
		distinct bool
		wantErr  string
	}{
		{"valid distinct", []int{3, 7, 21}, 3, 0, 24, true, ""},
		{"valid with repeats allowed", []int{5, 5, 5}, 3, 0, 9, false, ""},
		{"too few values", []int{1, 2}, 3, 0, 24, true, "expected 3 values"},
		{"too many values", []int{1, 2, 3, 4}, 3, 0, 24, true, "expected 3 values"},
		{"value below min", []int{-1, 2, 3}, 3, 0, 24, true, "outside"},
		{"value above max", []int{1, 2, 25}, 3, 0, 24, true, "outside"},
		{"duplicate in distinct draw", []int{4, 9, 4}, 3, 0, 24, true, "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateDraw(tt.data, tt.n, tt.min, tt.max, tt.distinct)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

package infra

import (
	"math"
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericToInt64_Roundtrip(t *testing.T) {
	values := []int64{0, 1, -1, 100_000, 999_999_999_999_999, math.MaxInt64, math.MinInt64}
	for _, v := range values {
		got, err := NumericToInt64(Int64ToNumeric(v))
		require.NoError(t, err, "value: %d", v)
		assert.Equal(t, v, got, "value: %d", v)
	}
}

func TestNumericToInt64_NullReturnsError(t *testing.T) {
	_, err := NumericToInt64(pgtype.Numeric{Valid: false})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NULL")
}

func TestNumericToInt64_PositiveExponent(t *testing.T) {
	// 42 * 10^3 = 42000
	n := pgtype.Numeric{Int: big.NewInt(42), Exp: 3, Valid: true}
	v, err := NumericToInt64(n)
	require.NoError(t, err)
	assert.Equal(t, int64(42000), v)
}

func TestNumericToInt64_NegativeExponentTruncates(t *testing.T) {
	// 123456 * 10^-2 = 1234 (truncated)
	n := pgtype.Numeric{Int: big.NewInt(123456), Exp: -2, Valid: true}
	v, err := NumericToInt64(n)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), v)
}

func TestNumericToInt64_Overflow(t *testing.T) {
	over := new(big.Int).Add(big.NewInt(math.MaxInt64), big.NewInt(1))
	_, err := NumericToInt64(pgtype.Numeric{Int: over, Exp: 0, Valid: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overflows")
}

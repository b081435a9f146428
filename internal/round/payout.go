package round

import (
	"strconv"

	"github.com/winpay/platform/internal/domain"
)

// Payout multipliers, expressed as rationals over stake so all arithmetic
// stays in int64 paise. Violet pays 4.5x (stake*9/2, floored).
const (
	colorMultiplier    = 2
	numberMultiplier   = 9
	bigSmallMultiplier = 2
)

// Payout computes the gross return for a settled bet. A losing bet returns
// (false, 0); a winning bet returns the full credit including the stake.
func Payout(betType domain.BetType, betValue string, stake int64, resultNumber int) (bool, int64) {
	switch betType {
	case domain.BetColor:
		picked := domain.Color(betValue)
		for _, c := range domain.ColorsFor(resultNumber) {
			if c != picked {
				continue
			}
			if picked == domain.ColorViolet {
				return true, stake * 9 / 2
			}
			return true, stake * colorMultiplier
		}
		return false, 0
	case domain.BetNumber:
		n, err := strconv.Atoi(betValue)
		if err != nil {
			return false, 0
		}
		if n == resultNumber {
			return true, stake * numberMultiplier
		}
		return false, 0
	case domain.BetBigSmall:
		big := resultNumber >= 5
		if (betValue == "big" && big) || (betValue == "small" && !big) {
			return true, stake * bigSmallMultiplier
		}
		return false, 0
	}
	return false, 0
}

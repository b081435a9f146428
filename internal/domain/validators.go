package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	utrRegex   = regexp.MustCompile(`^[0-9]{12}$`)
	upiRegex   = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,}@[a-zA-Z]{2,}$`)
)

// ValidateEmail checks if an email address is valid.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateUTR checks that a bank transaction reference is exactly 12 digits.
func ValidateUTR(utr string) error {
	if !utrRegex.MatchString(utr) {
		return fmt.Errorf("UTR must be exactly 12 digits")
	}
	return nil
}

// ValidateUPI checks the sender UPI handle shape (user@bank).
func ValidateUPI(upi string) error {
	if !upiRegex.MatchString(upi) {
		return fmt.Errorf("invalid UPI handle: %s", upi)
	}
	return nil
}

// ValidatePositiveAmount checks that an amount is positive (in paise).
func ValidatePositiveAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %d", amount)
	}
	return nil
}

// ValidateBetSelection validates a (bet_type, bet_value) pair at the
// boundary, so only well-formed selections reach the settlement core.
func ValidateBetSelection(betType BetType, value string) error {
	switch betType {
	case BetColor:
		switch Color(value) {
		case ColorGreen, ColorRed, ColorViolet:
			return nil
		}
		return fmt.Errorf("color bet value must be green, red or violet")
	case BetNumber:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n > 9 {
			return fmt.Errorf("number bet value must be a digit 0-9")
		}
		return nil
	case BetBigSmall:
		if value == "big" || value == "small" {
			return nil
		}
		return fmt.Errorf("big_small bet value must be big or small")
	}
	return fmt.Errorf("unknown bet type: %s", betType)
}

// ValidateMineCount checks the mine count bounds for a 25-cell grid.
func ValidateMineCount(n int) error {
	if n < MinMineCount || n > MaxMineCount {
		return fmt.Errorf("mine count must be between %d and %d", MinMineCount, MaxMineCount)
	}
	return nil
}

// ValidateCellIndex checks that a grid cell index is on the board.
func ValidateCellIndex(cell int) error {
	if cell < 0 || cell >= GridCells {
		return fmt.Errorf("cell index must be between 0 and %d", GridCells-1)
	}
	return nil
}

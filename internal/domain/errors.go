package domain

import "fmt"

// AppError is the base domain error type.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Standard domain error constructors.

func ErrNotFound(entity, id string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: fmt.Sprintf("%s %s not found", entity, id), Status: 404}
}

func ErrConflict(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Message: msg, Status: 409}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: msg, Status: 400}
}

func ErrUnauthorized(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: msg, Status: 401}
}

func ErrForbidden(msg string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: msg, Status: 403}
}

func ErrInsufficientFunds() *AppError {
	return &AppError{Code: "INSUFFICIENT_FUNDS", Message: "insufficient funds", Status: 400}
}

func ErrAccountFrozen() *AppError {
	return &AppError{Code: "ACCOUNT_FROZEN", Message: "account is frozen", Status: 403}
}

func ErrBelowMinimumBet(minimum int64) *AppError {
	return &AppError{Code: "BELOW_MINIMUM_BET", Message: fmt.Sprintf("bet amount is below the minimum of %d", minimum), Status: 400}
}

func ErrRoundLocked(periodID string) *AppError {
	return &AppError{Code: "ROUND_LOCKED", Message: fmt.Sprintf("betting is locked for round %s", periodID), Status: 409}
}

func ErrGameAlreadyActive() *AppError {
	return &AppError{Code: "GAME_ALREADY_ACTIVE", Message: "an active grid game already exists", Status: 409}
}

func ErrGameNotActive(id string) *AppError {
	return &AppError{Code: "GAME_NOT_ACTIVE", Message: fmt.Sprintf("grid game %s is not active", id), Status: 409}
}

func ErrCellAlreadyRevealed(cell int) *AppError {
	return &AppError{Code: "CELL_ALREADY_REVEALED", Message: fmt.Sprintf("cell %d is already revealed", cell), Status: 409}
}

func ErrNothingRevealed() *AppError {
	return &AppError{Code: "NOTHING_REVEALED", Message: "cannot cash out before revealing a cell", Status: 400}
}

func ErrAlreadyDecided(id string) *AppError {
	return &AppError{Code: "ALREADY_DECIDED", Message: fmt.Sprintf("request %s has already been decided", id), Status: 409}
}

func ErrWagerNotMet(wagered, required int64) *AppError {
	return &AppError{Code: "WAGER_NOT_MET", Message: fmt.Sprintf("wager requirement not met: %d of %d wagered", wagered, required), Status: 422}
}

func ErrDuplicateUTR(utr string) *AppError {
	return &AppError{Code: "DUPLICATE_UTR", Message: fmt.Sprintf("UTR %s has already been submitted", utr), Status: 409}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: msg, Status: 500, Cause: cause}
}

package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NewEntryPostedEvent creates the standard ledger event for a posted entry.
func NewEntryPostedEvent(entry *LedgerEntry) OutboxDraft {
	payload, _ := json.Marshal(entry)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateLedger,
		AggregateID:   entry.AccountID.String(),
		EventType:     EventEntryPosted,
		PartitionKey:  entry.AccountID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewAccountCreatedEvent creates an account lifecycle event.
func NewAccountCreatedEvent(accountID uuid.UUID, email, currency string) OutboxDraft {
	payload, _ := json.Marshal(map[string]string{
		"account_id": accountID.String(),
		"email":      email,
		"currency":   currency,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateAccount,
		AggregateID:   accountID.String(),
		EventType:     EventAccountCreated,
		PartitionKey:  accountID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewRoundSettledEvent records that a round outcome was generated and its
// bets settled.
func NewRoundSettledEvent(mode GameMode, periodID string, number int, colors []Color, betCount int) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"game_mode":     mode,
		"period_id":     periodID,
		"result_number": number,
		"result_color":  colors,
		"bet_count":     betCount,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateRound,
		AggregateID:   string(mode) + ":" + periodID,
		EventType:     EventRoundSettled,
		PartitionKey:  string(mode),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewGridGameFinishedEvent records a grid game reaching a terminal state.
func NewGridGameFinishedEvent(game *GridGame) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"game_id":    game.ID.String(),
		"account_id": game.AccountID.String(),
		"status":     game.Status,
		"bet_amount": game.BetAmount,
		"payout":     game.Payout,
		"revealed":   len(game.RevealedCells),
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateGrid,
		AggregateID:   game.ID.String(),
		EventType:     EventGridGameFinished,
		PartitionKey:  game.AccountID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewRequestDecidedEvent records an admin decision on a deposit or
// withdrawal request.
func NewRequestDecidedEvent(evtType EventType, requestID, accountID uuid.UUID, status RequestStatus, amount int64) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"request_id": requestID.String(),
		"account_id": accountID.String(),
		"status":     status,
		"amount":     amount,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregatePayment,
		AggregateID:   requestID.String(),
		EventType:     evtType,
		PartitionKey:  accountID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

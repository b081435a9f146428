package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates all domain event types.
type EventType string

const (
	EventAccountCreated     EventType = "wingo.account.created"
	EventEntryPosted        EventType = "wingo.ledger.entry.posted"
	EventRoundSettled       EventType = "wingo.round.settled"
	EventGridGameFinished   EventType = "wingo.grid.finished"
	EventDepositDecided     EventType = "wingo.deposit.decided"
	EventWithdrawalDecided  EventType = "wingo.withdrawal.decided"
	EventAccountFrozen      EventType = "wingo.account.frozen"
	EventAccountUnfrozen    EventType = "wingo.account.unfrozen"
)

// AggregateType enumerates the aggregate root types for outbox events.
type AggregateType string

const (
	AggregateAccount AggregateType = "account"
	AggregateLedger  AggregateType = "ledger"
	AggregateRound   AggregateType = "round"
	AggregateGrid    AggregateType = "grid"
	AggregatePayment AggregateType = "payment"
)

// OutboxDraft is the payload written to the event_outbox table.
type OutboxDraft struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateType AggregateType   `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     EventType       `json:"event_type"`
	PartitionKey  string          `json:"partition_key"`
	Headers       json.RawMessage `json:"headers"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

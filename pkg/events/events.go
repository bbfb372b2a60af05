// Package events publishes settlement lifecycle events to WebSocket
// subscribers so dashboards can follow balances live.
package events

import (
	"context"
)

// EventType defines the type of a settlement event.
type EventType string

const (
	// EventTickSettled is emitted each time a tick's payment is confirmed.
	EventTickSettled EventType = "tickSettled"
	// EventSessionEnded is emitted when a session settles cleanly.
	EventSessionEnded EventType = "sessionEnded"
	// EventSessionFailed is emitted when a session terminates with a fail reason.
	EventSessionFailed EventType = "sessionFailed"
	// EventWithdrawalCompleted is emitted when a creator payout completes.
	EventWithdrawalCompleted EventType = "withdrawalCompleted"
)

// Event represents a generic settlement event.
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload"`
}

// TickSettledPayload is the payload for a tickSettled event.
type TickSettledPayload struct {
	SessionId      string `json:"session_id"`
	StreamId       string `json:"stream_id"`
	Sequence       uint64 `json:"sequence"`
	Amount         int64  `json:"amount"`
	CreatorAccount string `json:"creator_account"`
	LockedBalance  int64  `json:"locked_balance"`
}

// SessionEndedPayload is the payload for a sessionEnded event.
type SessionEndedPayload struct {
	SessionId      string `json:"session_id"`
	StreamId       string `json:"stream_id"`
	ConsumedTicks  uint64 `json:"consumed_ticks"`
	SettledAmount  int64  `json:"settled_amount"`
	ReturnedAmount int64  `json:"returned_amount"`
}

// SessionFailedPayload is the payload for a sessionFailed event.
type SessionFailedPayload struct {
	SessionId string `json:"session_id"`
	StreamId  string `json:"stream_id"`
	Reason    string `json:"reason"`
}

// WithdrawalCompletedPayload is the payload for a withdrawalCompleted event.
type WithdrawalCompletedPayload struct {
	CreatorAccount string `json:"creator_account"`
	Amount         int64  `json:"amount"`
	IdempotencyKey string `json:"idempotency_key"`
	LedgerTxRef    string `json:"ledger_tx_ref"`
}

// Publisher defines the interface for publishing settlement events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// ConnectionManager defines the interface for managing WebSocket connections.
type ConnectionManager interface {
	AddConnection(ctx context.Context, connectionID string) error
	RemoveConnection(ctx context.Context, connectionID string) error
}

// NopPublisher is a publisher that drops every event. Used in local
// development and in tests that do not observe events.
type NopPublisher struct{}

// Publish does nothing.
func (p *NopPublisher) Publish(ctx context.Context, event Event) error {
	return nil
}

package models

import (
	"time"
)

// SessionState defines the lifecycle states of a viewing session.
type SessionState string

const (
	IDLE     SessionState = "IDLE"
	LOCKING  SessionState = "LOCKING"
	ACTIVE   SessionState = "ACTIVE"
	SETTLING SessionState = "SETTLING"
	ENDED    SessionState = "ENDED"
	FAILED   SessionState = "FAILED"
)

// Terminal reports whether the state is final. Terminal sessions are never
// reused; a new join always creates a fresh session.
func (s SessionState) Terminal() bool {
	return s == ENDED || s == FAILED
}

// Fail reasons recorded on sessions that end in FAILED.
const (
	ReasonAbandoned           = "abandoned"
	ReasonInsufficientBalance = "insufficient_balance"
	ReasonLedgerPermanent     = "ledger_permanent"
	ReasonLedgerUnavailable   = "ledger_unavailable"
	ReasonSequenceGap         = "sequence_gap"
)

// Stream is a live broadcast that viewers pay to watch, priced per tick.
type Stream struct {
	Id             string    `json:"id" dynamodbav:"id"`
	CreatorAccount string    `json:"creator_account" dynamodbav:"creator_account"`
	PricePerTick   int64     `json:"price_per_tick" dynamodbav:"price_per_tick"`
	Live           bool      `json:"live" dynamodbav:"live"`
	CreatedAt      time.Time `json:"created_at" dynamodbav:"created_at"`
}

// Session represents one viewer watching one stream. All amounts are integers
// in the ledger's smallest unit; settlement arithmetic never touches floats.
//
// Conservation invariant, held at every instant from the moment the lock
// confirms:
//
//	LockedBalance + ConsumedTicks*PricePerTick == InitialLocked
//
// On ENDED the remainder has been returned to the viewer; LockedBalance keeps
// its final value so the invariant stays checkable on archived sessions.
type Session struct {
	Id             string       `json:"id" dynamodbav:"id"`
	StreamId       string       `json:"stream_id" dynamodbav:"stream_id"`
	ViewerAccount  string       `json:"viewer_account" dynamodbav:"viewer_account"`
	CreatorAccount string       `json:"creator_account" dynamodbav:"creator_account"`
	PricePerTick   int64        `json:"price_per_tick" dynamodbav:"price_per_tick"`
	InitialLocked  int64        `json:"initial_locked" dynamodbav:"initial_locked"`
	LockedBalance  int64        `json:"locked_balance" dynamodbav:"locked_balance"`
	ConsumedTicks  uint64       `json:"consumed_ticks" dynamodbav:"consumed_ticks"`
	State          SessionState `json:"state" dynamodbav:"state"`
	FailReason     string       `json:"fail_reason,omitempty" dynamodbav:"fail_reason,omitempty"`
	ReservationRef string       `json:"reservation_ref" dynamodbav:"reservation_ref"`
	CreatedAt      time.Time    `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" dynamodbav:"updated_at"`
}

// TickEvent is one unit of billable viewing time. Sequence numbers are
// per-session, start at 1 and are strictly increasing with no gaps.
type TickEvent struct {
	SessionId string    `json:"session_id"`
	Sequence  uint64    `json:"sequence"`
	At        time.Time `json:"at"`
}

// SettlementRecord is the immutable audit entry appended once a tick's payment
// has been confirmed by the ledger. Keyed by (session_id, sequence); the journal
// rejects duplicates so a replayed append is detectable rather than silent.
//
// GSI1PK is a constant partition key that lets the most recent records across
// all sessions be listed from a single index partition.
type SettlementRecord struct {
	SessionId      string    `json:"session_id" dynamodbav:"session_id"`
	Sequence       uint64    `json:"sequence" dynamodbav:"sequence"`
	StreamId       string    `json:"stream_id" dynamodbav:"stream_id"`
	CreatorAccount string    `json:"creator_account" dynamodbav:"creator_account"`
	Amount         int64     `json:"amount" dynamodbav:"amount"`
	LedgerTxRef    string    `json:"ledger_tx_ref" dynamodbav:"ledger_tx_ref"`
	SettledAt      time.Time `json:"settled_at" dynamodbav:"settled_at"`
	GSI1PK         string    `json:"-" dynamodbav:"gsi1pk"`
}

// WithdrawalStatus defines the states of a creator payout request.
type WithdrawalStatus string

const (
	WithdrawalPending   WithdrawalStatus = "PENDING"
	WithdrawalCompleted WithdrawalStatus = "COMPLETED"
	WithdrawalFailed    WithdrawalStatus = "FAILED"
)

// Withdrawal is a creator payout, idempotency-keyed so a retried request after
// a timeout re-drives the same withdrawal instead of paying twice.
type Withdrawal struct {
	IdempotencyKey string           `json:"idempotency_key" dynamodbav:"idempotency_key"`
	CreatorAccount string           `json:"creator_account" dynamodbav:"creator_account"`
	Amount         int64            `json:"amount" dynamodbav:"amount"`
	Status         WithdrawalStatus `json:"status" dynamodbav:"status"`
	LedgerTxRef    string           `json:"ledger_tx_ref,omitempty" dynamodbav:"ledger_tx_ref,omitempty"`
	CreatedAt      time.Time        `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at" dynamodbav:"updated_at"`
}

// CreatorBalance is the derived aggregate view of a creator's funds. It is
// always recomputed from the settlement journal and withdrawal records, never
// stored as a mutable counter, so it cannot drift from the audit trail.
type CreatorBalance struct {
	CreatorAccount string `json:"creator_account"`
	SettledTotal   int64  `json:"settled_total"`
	WithdrawnTotal int64  `json:"withdrawn_total"`
}

// Available returns the amount the creator can still withdraw.
func (b CreatorBalance) Available() int64 {
	return b.SettledTotal - b.WithdrawnTotal
}

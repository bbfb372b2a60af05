// Package ledger defines the client interface to the external value-transfer
// ledger that backs tick settlement: locking a viewer's funds, moving one
// tick's payment from the locked reserve to a creator, returning the unspent
// remainder, and paying out settled creator earnings.
//
// The metering engine only ever talks to this interface. Everything behind it
// (the chain runtime, the account store) is an opaque collaborator.
package ledger

import (
	"context"
)

// ReservationRef identifies a lock placed on a viewer's funds. It is issued by
// Lock and consumed by Debit and Unlock.
type ReservationRef string

// TxRef identifies a confirmed ledger transfer. Settlement records and
// withdrawal receipts carry it for reconciliation against the ledger.
type TxRef string

// Ledger is the value-transfer interface the settlement core consumes.
//
// All amounts are int64 in the ledger's smallest unit. Every call is a
// potentially slow, fallible I/O operation: callers must pass a context and
// must not hold other sessions up while waiting.
type Ledger interface {
	// Lock reserves amount from the account's spendable balance and returns a
	// reference to the reservation. Fails with ErrInsufficientBalance when the
	// account cannot cover it.
	Lock(ctx context.Context, account string, amount int64) (ReservationRef, error)

	// Debit moves amount from the reservation to toAccount and returns the
	// transfer reference. The reservation's remainder shrinks by amount.
	Debit(ctx context.Context, ref ReservationRef, amount int64, toAccount string) (TxRef, error)

	// Unlock releases the reservation, returning its unspent remainder to the
	// owning account's spendable balance. Unlock is idempotent: releasing an
	// already-released reservation is not an error. The remaining argument is
	// the caller's view of the remainder; the ledger's own bookkeeping is
	// authoritative for the amount actually returned.
	Unlock(ctx context.Context, ref ReservationRef, remaining int64) error

	// Withdraw transfers amount out of the account's spendable balance,
	// executing at most once per idempotency key. A repeat call with the same
	// key returns the original TxRef without a second transfer.
	Withdraw(ctx context.Context, account string, amount int64, idempotencyKey string) (TxRef, error)
}

// Account is the ledger's view of one account: the spendable balance plus the
// total currently held under reservations.
type Account struct {
	AccountId string `json:"account_id"`
	Balance   int64  `json:"balance"`
	Reserved  int64  `json:"reserved"`
}

// Accounts is the administrative surface of a ledger: creating, funding and
// inspecting accounts. Both implementations in this module provide it; an
// implementation fronting an external chain would not, so it stays separate
// from the settlement operations above.
type Accounts interface {
	// CreateAccount creates an account with an opening balance. Fails with
	// ErrAccountExists when the account already exists.
	CreateAccount(ctx context.Context, account string, balance int64) (*Account, error)

	// GetAccount returns the current balances for an account.
	GetAccount(ctx context.Context, account string) (*Account, error)

	// Credit adds amount to an account's spendable balance, creating the
	// account when it does not exist yet.
	Credit(ctx context.Context, account string, amount int64) (*Account, error)
}

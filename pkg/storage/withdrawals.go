package storage

import (
	"context"

	"github.com/vilokanam/tickmeter/pkg/models"
)

// WithdrawalReader defines the interface for reading withdrawal records.
type WithdrawalReader interface {
	// GetWithdrawal retrieves a withdrawal by its idempotency key. It returns
	// ErrWithdrawalNotFound when the key has never been used.
	GetWithdrawal(ctx context.Context, idempotencyKey string) (*models.Withdrawal, error)

	// SumWithdrawnByCreator returns the total amount held by a creator's
	// pending and completed withdrawals. Pending rows count so that an
	// in-flight payout cannot be spent a second time; failed rows do not.
	SumWithdrawnByCreator(ctx context.Context, creatorAccount string) (int64, error)
}

// WithdrawalManager defines the interface for driving a withdrawal through its
// lifecycle: created pending, then completed with a ledger receipt or failed.
type WithdrawalManager interface {
	// CreateWithdrawal records a new pending withdrawal. It returns
	// ErrWithdrawalExists when the idempotency key is already taken.
	CreateWithdrawal(ctx context.Context, withdrawal *models.Withdrawal) error

	// CompleteWithdrawal marks a pending withdrawal completed and attaches the
	// ledger transfer reference. It returns ErrWithdrawalNotPending when the
	// row is not pending.
	CompleteWithdrawal(ctx context.Context, idempotencyKey string, ledgerTxRef string) (*models.Withdrawal, error)

	// FailWithdrawal marks a pending withdrawal failed, releasing its hold on
	// the creator's settled funds.
	FailWithdrawal(ctx context.Context, idempotencyKey string) error
}

// WithdrawalStore combines the reader and manager interfaces.
type WithdrawalStore interface {
	WithdrawalReader
	WithdrawalManager
}

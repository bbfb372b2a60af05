// Package payout implements the withdrawal coordinator. A creator's
// withdrawable funds are always derived from the settlement journal minus
// prior withdrawals, never kept as a mutable counter, and every payout is
// idempotency-keyed end to end so a retried request re-drives the original
// withdrawal instead of paying twice.
package payout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/vilokanam/tickmeter/pkg/events"
	"github.com/vilokanam/tickmeter/pkg/ledger"
	"github.com/vilokanam/tickmeter/pkg/models"
	"github.com/vilokanam/tickmeter/pkg/storage"
)

// ErrInsufficientSettledFunds is returned when a withdrawal asks for more than
// the creator's settled-but-unwithdrawn total.
var ErrInsufficientSettledFunds = errors.New("insufficient settled funds")

// Store is the storage surface the coordinator needs: withdrawal rows plus the
// journal aggregates the balance is derived from.
type Store interface {
	storage.WithdrawalStore
	storage.JournalReader
}

// Service is the coordinator interface the HTTP layer consumes.
type Service interface {
	// RequestWithdrawal pays out amount from the creator's settled funds,
	// executing at most once per idempotency key. An empty key gets a
	// generated one. A repeat call with a known key returns that withdrawal's
	// receipt, resuming it first if an earlier attempt was cut short.
	RequestWithdrawal(ctx context.Context, creatorAccount string, amount int64, idempotencyKey string) (*models.Withdrawal, error)

	// GetWithdrawal returns the receipt recorded under an idempotency key.
	GetWithdrawal(ctx context.Context, idempotencyKey string) (*models.Withdrawal, error)

	// CreatorBalance returns the creator's derived settled and withdrawn
	// totals.
	CreatorBalance(ctx context.Context, creatorAccount string) (*models.CreatorBalance, error)
}

// Coordinator serializes withdrawals per creator so the available-funds check
// and the ledger transfer never interleave with a concurrent request's.
type Coordinator struct {
	ledger    ledger.Ledger
	store     Store
	publisher events.Publisher
	logger    *slog.Logger

	mu       sync.Mutex
	creators map[string]*sync.Mutex
}

// Make sure we conform to the interface
var _ Service = (*Coordinator)(nil)

// NewCoordinator creates a withdrawal coordinator around its collaborators.
func NewCoordinator(l ledger.Ledger, store Store, publisher events.Publisher) *Coordinator {
	return &Coordinator{
		ledger:    l,
		store:     store,
		publisher: publisher,
		logger:    slog.Default(),
		creators:  make(map[string]*sync.Mutex),
	}
}

// creatorLock returns the mutex serializing one creator's withdrawals.
func (c *Coordinator) creatorLock(creatorAccount string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.creators[creatorAccount]
	if !ok {
		m = &sync.Mutex{}
		c.creators[creatorAccount] = m
	}
	return m
}

// RequestWithdrawal pays out settled funds to the creator.
func (c *Coordinator) RequestWithdrawal(ctx context.Context, creatorAccount string, amount int64, idempotencyKey string) (*models.Withdrawal, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("withdrawal amount must be positive, got %d", amount)
	}
	if idempotencyKey == "" {
		idempotencyKey = uuid.New().String()
	}

	lock := c.creatorLock(creatorAccount)
	lock.Lock()
	defer lock.Unlock()

	// 1. A key that has been seen before re-drives that withdrawal. A fresh
	// key is never minted for a retry; that is the double-payment hazard.
	existing, err := c.store.GetWithdrawal(ctx, idempotencyKey)
	if err != nil && !errors.Is(err, storage.ErrWithdrawalNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.Status == models.WithdrawalPending {
			return c.execute(ctx, existing)
		}
		return existing, nil
	}

	// 2. Available funds are whatever the journal says was settled, minus the
	// holds of every prior non-failed withdrawal.
	balance, err := c.balance(ctx, creatorAccount)
	if err != nil {
		return nil, err
	}
	if amount > balance.Available() {
		return nil, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientSettledFunds, amount, balance.Available())
	}

	// 3. The pending row lands before the ledger call so a crash between the
	// two leaves a resumable key behind, never an untracked transfer.
	withdrawal := &models.Withdrawal{
		IdempotencyKey: idempotencyKey,
		CreatorAccount: creatorAccount,
		Amount:         amount,
	}
	if err := c.store.CreateWithdrawal(ctx, withdrawal); err != nil {
		return nil, err
	}

	return c.execute(ctx, withdrawal)
}

// execute issues the ledger transfer for a pending withdrawal and records the
// outcome. The ledger applies its own idempotency on the key, so executing a
// resumed row again cannot pay twice.
func (c *Coordinator) execute(ctx context.Context, withdrawal *models.Withdrawal) (*models.Withdrawal, error) {
	txRef, err := c.ledger.Withdraw(ctx, withdrawal.CreatorAccount, withdrawal.Amount, withdrawal.IdempotencyKey)
	if err != nil {
		if ledger.IsTransient(err) {
			// The transfer may or may not have landed. The row stays pending,
			// holding the funds, until a retry under the same key resolves it.
			c.logger.Warn("withdrawal left pending after ledger error",
				"idempotency_key", withdrawal.IdempotencyKey, "creator_account", withdrawal.CreatorAccount, "error", err)
			return nil, err
		}
		// A permanent refusal will not change on retry. Failing the row
		// releases its hold on the creator's settled funds.
		if failErr := c.store.FailWithdrawal(ctx, withdrawal.IdempotencyKey); failErr != nil {
			c.logger.Error("could not mark withdrawal failed",
				"idempotency_key", withdrawal.IdempotencyKey, "error", failErr)
		}
		return nil, err
	}

	// If this write fails the transfer is still confirmed; a retry under the
	// same key gets the original TxRef back and completes the row then.
	completed, err := c.store.CompleteWithdrawal(ctx, withdrawal.IdempotencyKey, string(txRef))
	if err != nil {
		return nil, err
	}

	c.logger.Info("withdrawal completed",
		"idempotency_key", completed.IdempotencyKey, "creator_account", completed.CreatorAccount,
		"amount", completed.Amount, "ledger_tx_ref", completed.LedgerTxRef)
	c.publish(ctx, events.Event{
		Type: events.EventWithdrawalCompleted,
		Payload: events.WithdrawalCompletedPayload{
			CreatorAccount: completed.CreatorAccount,
			Amount:         completed.Amount,
			IdempotencyKey: completed.IdempotencyKey,
			LedgerTxRef:    completed.LedgerTxRef,
		},
	})
	return completed, nil
}

// GetWithdrawal returns the receipt recorded under an idempotency key.
func (c *Coordinator) GetWithdrawal(ctx context.Context, idempotencyKey string) (*models.Withdrawal, error) {
	return c.store.GetWithdrawal(ctx, idempotencyKey)
}

// CreatorBalance returns the creator's derived aggregate view. It reads
// without the creator lock: the journal only grows, so a racing read can only
// understate what is available, never overstate it.
func (c *Coordinator) CreatorBalance(ctx context.Context, creatorAccount string) (*models.CreatorBalance, error) {
	return c.balance(ctx, creatorAccount)
}

func (c *Coordinator) balance(ctx context.Context, creatorAccount string) (*models.CreatorBalance, error) {
	settled, err := c.store.SumSettledByCreator(ctx, creatorAccount)
	if err != nil {
		return nil, err
	}
	withdrawn, err := c.store.SumWithdrawnByCreator(ctx, creatorAccount)
	if err != nil {
		return nil, err
	}
	return &models.CreatorBalance{
		CreatorAccount: creatorAccount,
		SettledTotal:   settled,
		WithdrawnTotal: withdrawn,
	}, nil
}

func (c *Coordinator) publish(ctx context.Context, event events.Event) {
	if err := c.publisher.Publish(ctx, event); err != nil {
		c.logger.Error("failed to publish event", "type", event.Type, "error", err)
	}
}

package payout

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilokanam/tickmeter/pkg/events"
	"github.com/vilokanam/tickmeter/pkg/ledger"
	ledgermem "github.com/vilokanam/tickmeter/pkg/ledger/memory"
	"github.com/vilokanam/tickmeter/pkg/models"
	"github.com/vilokanam/tickmeter/pkg/storage"
	storagemem "github.com/vilokanam/tickmeter/pkg/storage/memory"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) all() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

type payoutEnv struct {
	coord  *Coordinator
	ledger *ledgermem.Store
	store  *storagemem.Store
	pub    *capturePublisher
}

func newPayoutEnv() *payoutEnv {
	env := &payoutEnv{
		ledger: ledgermem.New(),
		store:  storagemem.New(),
		pub:    &capturePublisher{},
	}
	env.coord = NewCoordinator(env.ledger, env.store, env.pub)
	return env
}

// seedSettled journals ticks settled records of amount each for the creator.
func (env *payoutEnv) seedSettled(t *testing.T, creator, sessionID string, amount int64, ticks int) {
	t.Helper()
	for i := 1; i <= ticks; i++ {
		err := env.store.AppendRecord(context.Background(), &models.SettlementRecord{
			SessionId:      sessionID,
			Sequence:       uint64(i),
			StreamId:       "stream-1",
			CreatorAccount: creator,
			Amount:         amount,
			LedgerTxRef:    uuid.New().String(),
			SettledAt:      time.Now(),
		})
		require.NoError(t, err)
	}
}

func (env *payoutEnv) withdrawCount() int {
	var n int
	for _, tr := range env.ledger.Transfers() {
		if tr.Kind == "withdraw" {
			n++
		}
	}
	return n
}

func TestRequestWithdrawal(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		env := newPayoutEnv()
		env.ledger.Seed("creator-1", 100)
		// Settled funds aggregate across sessions.
		env.seedSettled(t, "creator-1", "session-1", 1, 60)
		env.seedSettled(t, "creator-1", "session-2", 1, 40)

		withdrawal, err := env.coord.RequestWithdrawal(ctx, "creator-1", 80, "key-1")
		require.NoError(t, err)

		assert.Equal(t, models.WithdrawalCompleted, withdrawal.Status)
		assert.Equal(t, int64(80), withdrawal.Amount)
		assert.NotEmpty(t, withdrawal.LedgerTxRef)

		balance, _ := env.ledger.Balance("creator-1")
		assert.Equal(t, int64(20), balance)

		view, err := env.coord.CreatorBalance(ctx, "creator-1")
		require.NoError(t, err)
		assert.Equal(t, int64(100), view.SettledTotal)
		assert.Equal(t, int64(80), view.WithdrawnTotal)
		assert.Equal(t, int64(20), view.Available())

		published := env.pub.all()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventWithdrawalCompleted, published[0].Type)
		payload := published[0].Payload.(events.WithdrawalCompletedPayload)
		assert.Equal(t, int64(80), payload.Amount)
		assert.Equal(t, "key-1", payload.IdempotencyKey)
	})

	t.Run("Insufficient Settled Funds", func(t *testing.T) {
		env := newPayoutEnv()
		// A rich ledger account does not help: only journaled settlements count.
		env.ledger.Seed("creator-1", 100000)
		env.seedSettled(t, "creator-1", "session-1", 1, 50)

		_, err := env.coord.RequestWithdrawal(ctx, "creator-1", 60, "key-1")
		assert.ErrorIs(t, err, ErrInsufficientSettledFunds)

		_, err = env.store.GetWithdrawal(ctx, "key-1")
		assert.ErrorIs(t, err, storage.ErrWithdrawalNotFound)
		assert.Equal(t, 0, env.withdrawCount())
	})

	t.Run("Amount Must Be Positive", func(t *testing.T) {
		env := newPayoutEnv()

		_, err := env.coord.RequestWithdrawal(ctx, "creator-1", 0, "key-1")
		assert.Error(t, err)
		_, err = env.coord.RequestWithdrawal(ctx, "creator-1", -5, "key-2")
		assert.Error(t, err)
	})

	t.Run("Generates Key When Missing", func(t *testing.T) {
		env := newPayoutEnv()
		env.ledger.Seed("creator-1", 100)
		env.seedSettled(t, "creator-1", "session-1", 1, 50)

		withdrawal, err := env.coord.RequestWithdrawal(ctx, "creator-1", 30, "")
		require.NoError(t, err)
		assert.NotEmpty(t, withdrawal.IdempotencyKey)
	})
}

func TestWithdrawalIdempotency(t *testing.T) {
	ctx := context.Background()

	t.Run("Replay Returns Original Receipt", func(t *testing.T) {
		env := newPayoutEnv()
		env.ledger.Seed("creator-1", 100)
		env.seedSettled(t, "creator-1", "session-1", 1, 100)

		first, err := env.coord.RequestWithdrawal(ctx, "creator-1", 30, "key-1")
		require.NoError(t, err)
		second, err := env.coord.RequestWithdrawal(ctx, "creator-1", 30, "key-1")
		require.NoError(t, err)

		assert.Equal(t, first.LedgerTxRef, second.LedgerTxRef)
		assert.Equal(t, 1, env.withdrawCount())

		view, err := env.coord.CreatorBalance(ctx, "creator-1")
		require.NoError(t, err)
		assert.Equal(t, int64(30), view.WithdrawnTotal)
	})

	t.Run("Resume After Transient Failure", func(t *testing.T) {
		env := newPayoutEnv()
		env.ledger.Seed("creator-1", 100)
		env.seedSettled(t, "creator-1", "session-1", 1, 100)

		var calls atomic.Int64
		env.ledger.WithdrawHook = func(string, int64, string) error {
			if calls.Add(1) == 1 {
				return ledger.Transient(errors.New("ledger timeout"))
			}
			return nil
		}

		_, err := env.coord.RequestWithdrawal(ctx, "creator-1", 70, "key-1")
		require.Error(t, err)

		// The row stays pending and keeps holding the funds.
		row, err := env.store.GetWithdrawal(ctx, "key-1")
		require.NoError(t, err)
		assert.Equal(t, models.WithdrawalPending, row.Status)
		_, err = env.coord.RequestWithdrawal(ctx, "creator-1", 40, "key-other")
		assert.ErrorIs(t, err, ErrInsufficientSettledFunds)

		// The same key resumes the withdrawal instead of starting a new one.
		resumed, err := env.coord.RequestWithdrawal(ctx, "creator-1", 70, "key-1")
		require.NoError(t, err)
		assert.Equal(t, models.WithdrawalCompleted, resumed.Status)
		assert.Equal(t, 1, env.withdrawCount())
	})

	t.Run("Permanent Failure Releases Hold", func(t *testing.T) {
		env := newPayoutEnv()
		env.ledger.Seed("creator-1", 100)
		env.seedSettled(t, "creator-1", "session-1", 1, 100)

		env.ledger.WithdrawHook = func(_ string, _ int64, key string) error {
			if key == "key-frozen" {
				return ledger.Permanent(errors.New("payout destination rejected"))
			}
			return nil
		}

		_, err := env.coord.RequestWithdrawal(ctx, "creator-1", 60, "key-frozen")
		require.Error(t, err)
		row, err := env.store.GetWithdrawal(ctx, "key-frozen")
		require.NoError(t, err)
		assert.Equal(t, models.WithdrawalFailed, row.Status)

		// The failed row no longer holds funds; the full amount is available
		// under a fresh key.
		withdrawal, err := env.coord.RequestWithdrawal(ctx, "creator-1", 100, "key-2")
		require.NoError(t, err)
		assert.Equal(t, models.WithdrawalCompleted, withdrawal.Status)
	})
}

func TestConcurrentWithdrawals(t *testing.T) {
	ctx := context.Background()
	env := newPayoutEnv()
	env.ledger.Seed("creator-1", 100)
	env.seedSettled(t, "creator-1", "session-1", 1, 100)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for _, key := range []string{"key-a", "key-b"} {
		wg.Add(1)
		go func(k string) {
			defer wg.Done()
			_, err := env.coord.RequestWithdrawal(ctx, "creator-1", 60, k)
			results <- err
		}(key)
	}
	wg.Wait()
	close(results)

	var succeeded, insufficient int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInsufficientSettledFunds):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// 60 + 60 from 100 settled: exactly one side wins.
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, 1, env.withdrawCount())

	view, err := env.coord.CreatorBalance(ctx, "creator-1")
	require.NoError(t, err)
	assert.Equal(t, int64(60), view.WithdrawnTotal)
}

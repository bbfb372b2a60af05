package metering

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vilokanam/tickmeter/pkg/ledger"
	"github.com/vilokanam/tickmeter/pkg/models"
	"github.com/vilokanam/tickmeter/pkg/storage"
)

// FinalizerStore is the storage surface finalization needs: the session
// archive and the journal records that prove how far settlement got.
type FinalizerStore interface {
	storage.SessionArchive
	storage.JournalReader
}

// Finalizer completes a session's settlement outside the engine. The engine
// hands a session over, through the scheduler, when its own settle path could
// not return the locked remainder; the reconciler re-enqueues sessions whose
// owning process crashed. Finalize recomputes the consumed tick count from
// the journal, which is the authority on progress, and completes the unlock.
//
// Finalize is idempotent. The ledger treats a repeated unlock as a no-op and
// a session that already reached Ended is left untouched, so redelivered
// queue messages are harmless.
type Finalizer struct {
	ledger ledger.Ledger
	store  FinalizerStore
	logger *slog.Logger
}

// NewFinalizer creates a new Finalizer.
func NewFinalizer(l ledger.Ledger, store FinalizerStore) *Finalizer {
	return &Finalizer{ledger: l, store: store, logger: slog.Default()}
}

// Finalize returns a session's unspent locked remainder to the viewer and
// archives the outcome.
func (f *Finalizer) Finalize(ctx context.Context, sessionID string) error {
	session, err := f.store.GetSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load session %s: %w", sessionID, err)
	}

	if session.State == models.ENDED {
		f.logger.Info("session already finalized", "session_id", sessionID)
		return nil
	}
	if session.ReservationRef == "" {
		// Nothing was ever locked, so there is nothing to return. A crash
		// between the ledger lock and the archive of its reference leaves any
		// reservation orphaned; only ledger-side reconciliation can release
		// it. The session itself must still reach a terminal state, or the
		// stuck-session sweep would re-enqueue it forever.
		if !session.State.Terminal() {
			session.State = models.FAILED
			session.FailReason = models.ReasonAbandoned
			session.UpdatedAt = time.Now()
			if err := f.store.PutSession(ctx, session); err != nil {
				return fmt.Errorf("archive session %s: %w", sessionID, err)
			}
		}
		f.logger.Info("session closed with no reservation", "session_id", sessionID, "state", session.State)
		return nil
	}

	records, err := f.store.ListSessionRecords(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("list records for session %s: %w", sessionID, err)
	}

	// The archived snapshot may be stale; the journal is not.
	consumed := uint64(len(records))
	remaining := session.InitialLocked - int64(consumed)*session.PricePerTick

	if err := f.ledger.Unlock(ctx, ledger.ReservationRef(session.ReservationRef), remaining); err != nil {
		return fmt.Errorf("unlock session %s: %w", sessionID, err)
	}

	session.ConsumedTicks = consumed
	session.LockedBalance = remaining
	if session.State != models.FAILED {
		// Failed is terminal. A failed session keeps its state and reason
		// even after its remainder comes back.
		session.State = models.ENDED
	}
	session.UpdatedAt = time.Now()
	if err := f.store.PutSession(ctx, session); err != nil {
		return fmt.Errorf("archive session %s: %w", sessionID, err)
	}

	f.logger.Info("session finalized",
		"session_id", sessionID, "state", session.State,
		"consumed_ticks", consumed, "returned", remaining)
	return nil
}

package metering

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vilokanam/tickmeter/pkg/ledger"
	"github.com/vilokanam/tickmeter/pkg/models"
	"github.com/vilokanam/tickmeter/pkg/storage"
)

// pendingTick tracks the tick currently being settled. txRef is recorded as
// soon as the debit confirms so a resumed settlement never pays twice.
type pendingTick struct {
	event models.TickEvent
	txRef ledger.TxRef
}

// session is a single-writer state machine. After registration the run
// goroutine is the only mutator of model; every other goroutine reads through
// snapshot and signals through the leave channel.
type session struct {
	id       string
	streamID string

	engine *Engine

	mu    sync.RWMutex
	model models.Session

	emitter   *emitter
	leave     chan struct{}
	leaveOnce sync.Once
	done      chan struct{}

	// pending is only touched by the join/run goroutine.
	pending *pendingTick
}

func newSession(engine *Engine, stream *models.Stream, viewerAccount string, maxLockTicks int64) *session {
	id := uuid.New().String()
	now := time.Now()
	return &session{
		id:       id,
		streamID: stream.Id,
		engine:   engine,
		model: models.Session{
			Id:             id,
			StreamId:       stream.Id,
			ViewerAccount:  viewerAccount,
			CreatorAccount: stream.CreatorAccount,
			PricePerTick:   stream.PricePerTick,
			InitialLocked:  maxLockTicks * stream.PricePerTick,
			State:          models.IDLE,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		emitter: newEmitter(engine.cfg.TickInterval),
		leave:   make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *session) snapshot() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// signalLeave asks the run loop to settle. Safe to call from any goroutine,
// any number of times.
func (s *session) signalLeave() {
	s.leaveOnce.Do(func() { close(s.leave) })
}

func (s *session) leaving() bool {
	select {
	case <-s.leave:
		return true
	default:
		return false
	}
}

func (s *session) setState(state models.SessionState) {
	s.mu.Lock()
	s.model.State = state
	s.model.UpdatedAt = time.Now()
	s.mu.Unlock()
}

// lock reserves the session's full tick budget from the viewer. It runs
// synchronously inside Join, before the run loop starts, so a viewer who
// cannot fund the lock is rejected on the spot.
func (s *session) lock(ctx context.Context) error {
	s.setState(models.LOCKING)
	s.engine.archive(ctx, s)

	var ref ledger.ReservationRef
	err := s.retry(ctx, "lock", nil, func(callCtx context.Context) error {
		var lockErr error
		ref, lockErr = s.engine.ledger.Lock(callCtx, s.model.ViewerAccount, s.model.InitialLocked)
		return lockErr
	})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInsufficientBalance):
			s.fail(ctx, models.ReasonInsufficientBalance)
		case ledger.IsTransient(err):
			s.fail(ctx, models.ReasonLedgerUnavailable)
		default:
			s.fail(ctx, models.ReasonLedgerPermanent)
		}
		return err
	}

	s.mu.Lock()
	s.model.ReservationRef = string(ref)
	s.model.LockedBalance = s.model.InitialLocked
	s.model.State = models.ACTIVE
	s.model.UpdatedAt = time.Now()
	s.mu.Unlock()
	s.engine.archive(ctx, s)
	return nil
}

// run drives the session from Active to a terminal state. Ticks, leave
// requests and stream-end signals all funnel through this loop.
func (s *session) run() {
	ctx := s.engine.baseCtx
	defer close(s.done)
	defer s.engine.deregister(s)

	s.emitter.start(s.id)

	for {
		select {
		case <-s.leave:
			s.settle(ctx)
			return
		case event := <-s.emitter.ticks:
			if s.model.LockedBalance < s.model.PricePerTick {
				// Lock budget exhausted: settle rather than overdraw the
				// reserve. The arriving tick is never billed.
				s.settle(ctx)
				return
			}
			if !s.settleTick(ctx, event) {
				return
			}
		}
	}
}

// settleTick pays for one tick. It returns false when the session has moved
// to a terminal or settling path and the run loop must exit.
func (s *session) settleTick(ctx context.Context, event models.TickEvent) bool {
	pending := &pendingTick{event: event}
	for {
		err := s.completePending(ctx, pending, s.leave)
		if err == nil {
			return true
		}

		if s.leaving() {
			// The retry loop was cut short by a leave or stream end. Settle
			// now; any confirmed debit is resolved there.
			s.pending = pending
			s.settle(ctx)
			return false
		}

		var gap *SequenceGapError
		switch {
		case errors.As(err, &gap):
			s.engine.logger.Error("sequence gap detected", "session_id", s.id, "sequence", event.Sequence)
			s.fail(ctx, models.ReasonSequenceGap)
			return false
		case errors.Is(err, ledger.ErrInsufficientBalance):
			// The reserve drained out from under the session.
			s.fail(ctx, models.ReasonInsufficientBalance)
			return false
		case ledger.IsTransient(err):
			if s.engine.cfg.Stall == StallFail {
				s.fail(ctx, models.ReasonLedgerUnavailable)
				return false
			}
			// StallPause: park the session. No new ticks are consumed while
			// the pending one waits for the ledger to come back.
			s.engine.logger.Warn("ledger unavailable, session paused",
				"session_id", s.id, "sequence", event.Sequence, "retry_in", s.engine.cfg.PauseInterval)
			select {
			case <-time.After(s.engine.cfg.PauseInterval):
			case <-s.leave:
				s.pending = pending
				s.settle(ctx)
				return false
			}
		default:
			s.engine.logger.Error("permanent ledger failure", "session_id", s.id, "sequence", event.Sequence, "error", err)
			s.fail(ctx, models.ReasonLedgerPermanent)
			return false
		}
	}
}

// completePending drives a tick's two-phase settlement: confirm the debit,
// then the journal record. A phase already done is skipped, so re-entry after
// a pause or a leave resumes exactly where it stopped. cancel cuts the sleeps
// between attempts short; the settle path passes nil so its completion gets
// the full retry budget.
func (s *session) completePending(ctx context.Context, pending *pendingTick, cancel <-chan struct{}) error {
	if pending.txRef == "" {
		err := s.retry(ctx, "debit", cancel, func(callCtx context.Context) error {
			ref, debitErr := s.engine.ledger.Debit(callCtx,
				ledger.ReservationRef(s.model.ReservationRef), s.model.PricePerTick, s.model.CreatorAccount)
			if debitErr == nil {
				pending.txRef = ref
			}
			return debitErr
		})
		if err != nil {
			return err
		}
	}

	record := &models.SettlementRecord{
		SessionId:      s.id,
		Sequence:       pending.event.Sequence,
		StreamId:       s.streamID,
		CreatorAccount: s.model.CreatorAccount,
		Amount:         s.model.PricePerTick,
		LedgerTxRef:    string(pending.txRef),
		SettledAt:      time.Now(),
	}
	err := s.retry(ctx, "journal append", cancel, func(callCtx context.Context) error {
		appendErr := s.engine.store.AppendRecord(callCtx, record)
		if appendErr == nil {
			return nil
		}
		if errors.Is(appendErr, storage.ErrDuplicateRecord) {
			return &SequenceGapError{SessionId: s.id, Sequence: pending.event.Sequence}
		}
		// Journal transport faults ride the same retry and stall machinery
		// as ledger ones.
		return ledger.Transient(appendErr)
	})
	if err != nil {
		return err
	}

	// Move the tick's value from reserved to paid in one step so the
	// conservation invariant holds at every observable instant.
	s.mu.Lock()
	s.model.LockedBalance -= s.model.PricePerTick
	s.model.ConsumedTicks++
	s.model.UpdatedAt = time.Now()
	s.mu.Unlock()

	s.engine.tickSettled(ctx, s, record)
	return nil
}

// settle drains the session out of Active: stops the meter, finishes any
// half-settled tick, returns the locked remainder to the viewer and archives
// the outcome. A remainder that cannot be returned here is handed to the
// finalizer through the scheduler.
func (s *session) settle(ctx context.Context) {
	s.emitter.stop()
	s.setState(models.SETTLING)
	s.engine.archive(ctx, s)

	if s.pending != nil {
		if s.pending.txRef == "" {
			// The debit never confirmed; the tick is simply not billed.
			s.pending = nil
		} else if err := s.completePending(ctx, s.pending, nil); err != nil {
			// The viewer paid for this tick; its record must land before the
			// unlock or the creator's settled total loses a paid tick.
			var gap *SequenceGapError
			if errors.As(err, &gap) {
				s.fail(ctx, models.ReasonSequenceGap)
				return
			}
			s.engine.logger.Error("could not record settled tick, handing off",
				"session_id", s.id, "sequence", s.pending.event.Sequence, "error", err)
			s.engine.enqueueFinalize(ctx, s.id)
			return
		} else {
			s.pending = nil
		}
	}

	err := s.retry(ctx, "unlock", nil, func(callCtx context.Context) error {
		return s.engine.ledger.Unlock(callCtx,
			ledger.ReservationRef(s.model.ReservationRef), s.model.LockedBalance)
	})
	if err != nil {
		s.engine.logger.Error("final unlock failed, handing off", "session_id", s.id, "error", err)
		s.engine.enqueueFinalize(ctx, s.id)
		return
	}

	// LockedBalance keeps its final value on Ended: it now reads as the
	// amount returned to the viewer, and conservation stays checkable.
	s.setState(models.ENDED)
	s.engine.archive(ctx, s)
	s.engine.publishSessionEnded(ctx, s)
	s.engine.logger.Info("session settled",
		"session_id", s.id, "stream_id", s.streamID,
		"consumed_ticks", s.model.ConsumedTicks, "returned", s.model.LockedBalance)
}

// fail moves the session to Failed and archives it. An outstanding
// reservation is not unlocked here; the finalizer owns it once the fault has
// been recorded.
func (s *session) fail(ctx context.Context, reason string) {
	s.emitter.stop()
	s.mu.Lock()
	s.model.State = models.FAILED
	s.model.FailReason = reason
	s.model.UpdatedAt = time.Now()
	s.mu.Unlock()
	s.engine.archive(ctx, s)

	if s.model.ReservationRef != "" {
		s.engine.enqueueFinalize(ctx, s.id)
	}
	s.engine.publishSessionFailed(ctx, s, reason)
	s.engine.logger.Error("session failed", "session_id", s.id, "stream_id", s.streamID, "reason", reason)
}

// retry runs call under the engine's bounded backoff policy. Only transient
// failures are retried. A started call always runs to completion; only the
// sleeps between attempts abort early, when the cancel channel fires or the
// context ends, surfacing the last error.
func (s *session) retry(ctx context.Context, op string, cancel <-chan struct{}, call func(context.Context) error) error {
	policy := s.engine.cfg.Retry
	var err error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		err = call(ctx)
		if err == nil || !ledger.IsTransient(err) {
			return err
		}
		if attempt == policy.MaxAttempts {
			break
		}
		s.engine.logger.Warn("transient failure, backing off",
			"op", op, "session_id", s.id, "attempt", attempt, "error", err)
		timer := time.NewTimer(policy.Backoff(attempt))
		select {
		case <-timer.C:
		case <-cancel:
			timer.Stop()
			return err
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%s aborted: %w", op, ctx.Err())
		}
	}
	return err
}

package metering

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vilokanam/tickmeter/pkg/events"
	"github.com/vilokanam/tickmeter/pkg/ledger"
	ledgermem "github.com/vilokanam/tickmeter/pkg/ledger/memory"
	"github.com/vilokanam/tickmeter/pkg/models"
	schedmocks "github.com/vilokanam/tickmeter/pkg/scheduler/mocks"
	"github.com/vilokanam/tickmeter/pkg/storage"
	storagemem "github.com/vilokanam/tickmeter/pkg/storage/memory"
)

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) byType(eventType events.EventType) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, ev := range p.events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

type testEnv struct {
	engine *Engine
	ledger *ledgermem.Store
	store  *storagemem.Store
	sched  *schedmocks.Scheduler
	pub    *recordingPublisher
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	env := &testEnv{
		ledger: ledgermem.New(),
		store:  storagemem.New(),
		sched:  new(schedmocks.Scheduler),
		pub:    &recordingPublisher{},
	}
	base := []Option{
		WithTickInterval(3 * time.Millisecond),
		WithRetryPolicy(RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, Multiplier: 2}),
	}
	env.engine = NewEngine(env.ledger, env.store, env.sched, env.pub, append(base, opts...)...)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = env.engine.Shutdown(ctx)
	})
	return env
}

// liveStream registers a stream and puts it on air.
func (env *testEnv) liveStream(t *testing.T, creator string, pricePerTick int64) *models.Stream {
	t.Helper()
	ctx := context.Background()
	stream, err := env.engine.RegisterStream(ctx, creator, pricePerTick)
	require.NoError(t, err)
	stream, err = env.engine.SetLive(ctx, stream.Id, true)
	require.NoError(t, err)
	return stream
}

// waitState polls until the session reaches the wanted state.
func (env *testEnv) waitState(t *testing.T, sessionID string, state models.SessionState) *models.Session {
	t.Helper()
	var snap *models.Session
	require.Eventually(t, func() bool {
		s, err := env.engine.Snapshot(context.Background(), sessionID)
		if err != nil {
			return false
		}
		snap = s
		return s.State == state
	}, 2*time.Second, time.Millisecond, "session %s never reached %s", sessionID, state)
	return snap
}

func assertConservation(t *testing.T, s *models.Session) {
	t.Helper()
	assert.Equal(t, s.InitialLocked, s.LockedBalance+int64(s.ConsumedTicks)*s.PricePerTick,
		"conservation broken: locked %d consumed %d price %d initial %d",
		s.LockedBalance, s.ConsumedTicks, s.PricePerTick, s.InitialLocked)
}

func TestJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		env := newTestEnv(t)
		env.ledger.Seed("viewer-1", 5000)
		stream := env.liveStream(t, "creator-1", 2)

		session, err := env.engine.Join(ctx, stream.Id, "viewer-1", 100)
		require.NoError(t, err)

		assert.Equal(t, models.ACTIVE, session.State)
		assert.Equal(t, int64(200), session.InitialLocked)
		assert.Equal(t, int64(200), session.LockedBalance)
		assert.Equal(t, "creator-1", session.CreatorAccount)
		assert.NotEmpty(t, session.ReservationRef)

		balance, reserved := env.ledger.Balance("viewer-1")
		assert.Equal(t, int64(4800), balance)
		assert.Equal(t, int64(200), reserved)
	})

	t.Run("Insufficient Balance", func(t *testing.T) {
		env := newTestEnv(t)
		env.ledger.Seed("viewer-poor", 10)
		stream := env.liveStream(t, "creator-1", 1)

		_, err := env.engine.Join(ctx, stream.Id, "viewer-poor", 3600)
		assert.ErrorIs(t, err, ledger.ErrInsufficientBalance)

		time.Sleep(2 * time.Millisecond)
		failed, err := env.store.GetStuckSessions(ctx, models.FAILED, time.Millisecond)
		require.NoError(t, err)
		require.Len(t, failed, 1)
		assert.Equal(t, models.ReasonInsufficientBalance, failed[0].FailReason)

		balance, reserved := env.ledger.Balance("viewer-poor")
		assert.Equal(t, int64(10), balance)
		assert.Equal(t, int64(0), reserved)
	})

	t.Run("Stream Not Live", func(t *testing.T) {
		env := newTestEnv(t)
		env.ledger.Seed("viewer-1", 5000)
		stream, err := env.engine.RegisterStream(ctx, "creator-1", 1)
		require.NoError(t, err)

		_, err = env.engine.Join(ctx, stream.Id, "viewer-1", 100)
		assert.ErrorIs(t, err, ErrStreamNotLive)
	})

	t.Run("Stream Not Found", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.engine.Join(ctx, "no-such-stream", "viewer-1", 100)
		assert.ErrorIs(t, err, storage.ErrStreamNotFound)
	})

	t.Run("Clamps Lock Budget", func(t *testing.T) {
		env := newTestEnv(t, WithMaxLockTicks(50))
		env.ledger.Seed("viewer-1", 5000)
		stream := env.liveStream(t, "creator-1", 3)

		session, err := env.engine.Join(ctx, stream.Id, "viewer-1", 1000000)
		require.NoError(t, err)
		assert.Equal(t, int64(150), session.InitialLocked)

		session, err = env.engine.Join(ctx, stream.Id, "viewer-1", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(150), session.InitialLocked)
	})
}

func TestMetering(t *testing.T) {
	ctx := context.Background()

	t.Run("Settles Ticks While Active", func(t *testing.T) {
		env := newTestEnv(t)
		env.ledger.Seed("viewer-1", 3600)
		stream := env.liveStream(t, "creator-1", 1)

		session, err := env.engine.Join(ctx, stream.Id, "viewer-1", 3600)
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			snap, err := env.engine.Snapshot(ctx, session.Id)
			return err == nil && snap.ConsumedTicks >= 5
		}, 2*time.Second, time.Millisecond)

		mid, err := env.engine.Snapshot(ctx, session.Id)
		require.NoError(t, err)
		assertConservation(t, mid)

		_, err = env.engine.Leave(ctx, session.Id)
		require.NoError(t, err)
		final := env.waitState(t, session.Id, models.ENDED)
		assertConservation(t, final)

		records, err := env.store.ListSessionRecords(ctx, session.Id)
		require.NoError(t, err)
		require.Len(t, records, int(final.ConsumedTicks))
		for i, record := range records {
			assert.Equal(t, uint64(i+1), record.Sequence)
			assert.Equal(t, int64(1), record.Amount)
			assert.Equal(t, "creator-1", record.CreatorAccount)
			assert.NotEmpty(t, record.LedgerTxRef)
		}

		// The remainder went back to the viewer, the settled part to the creator.
		consumed := int64(final.ConsumedTicks)
		viewerBalance, viewerReserved := env.ledger.Balance("viewer-1")
		assert.Equal(t, 3600-consumed, viewerBalance)
		assert.Equal(t, int64(0), viewerReserved)
		creatorBalance, _ := env.ledger.Balance("creator-1")
		assert.Equal(t, consumed, creatorBalance)

		assert.Len(t, env.pub.byType(events.EventTickSettled), int(final.ConsumedTicks))
		ended := env.pub.byType(events.EventSessionEnded)
		require.Len(t, ended, 1)
		payload := ended[0].Payload.(events.SessionEndedPayload)
		assert.Equal(t, final.LockedBalance, payload.ReturnedAmount)
		assert.Equal(t, consumed, payload.SettledAmount)
	})

	t.Run("Budget Exhaustion Settles", func(t *testing.T) {
		env := newTestEnv(t)
		env.ledger.Seed("viewer-1", 100)
		stream := env.liveStream(t, "creator-1", 5)

		session, err := env.engine.Join(ctx, stream.Id, "viewer-1", 10)
		require.NoError(t, err)
		require.Equal(t, int64(50), session.InitialLocked)

		final := env.waitState(t, session.Id, models.ENDED)
		assert.Equal(t, uint64(10), final.ConsumedTicks)
		assert.Equal(t, int64(0), final.LockedBalance)
		assertConservation(t, final)

		records, err := env.store.ListSessionRecords(ctx, session.Id)
		require.NoError(t, err)
		assert.Len(t, records, 10)

		viewerBalance, viewerReserved := env.ledger.Balance("viewer-1")
		assert.Equal(t, int64(50), viewerBalance)
		assert.Equal(t, int64(0), viewerReserved)
		creatorBalance, _ := env.ledger.Balance("creator-1")
		assert.Equal(t, int64(50), creatorBalance)
	})
}

func TestPermanentDebitFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.ledger.Seed("viewer-1", 3600)
	stream := env.liveStream(t, "creator-1", 1)

	var calls atomic.Int64
	env.ledger.DebitHook = func(ledger.ReservationRef, int64, string) error {
		if calls.Add(1) == 5 {
			return ledger.Permanent(errors.New("account frozen"))
		}
		return nil
	}
	env.sched.On("ScheduleFinalize", mock.Anything, mock.AnythingOfType("string")).Return(nil).Once()

	session, err := env.engine.Join(ctx, stream.Id, "viewer-1", 3600)
	require.NoError(t, err)

	final := env.waitState(t, session.Id, models.FAILED)
	assert.Equal(t, models.ReasonLedgerPermanent, final.FailReason)
	assert.Equal(t, uint64(4), final.ConsumedTicks)
	assertConservation(t, final)

	// Four ticks settled, none for the failed fifth.
	records, err := env.store.ListSessionRecords(ctx, session.Id)
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, uint64(4), records[3].Sequence)

	// The remainder stays reserved for the finalizer, not silently returned.
	_, reserved := env.ledger.Balance("viewer-1")
	assert.Equal(t, int64(3596), reserved)

	failed := env.pub.byType(events.EventSessionFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, models.ReasonLedgerPermanent, failed[0].Payload.(events.SessionFailedPayload).Reason)
	env.sched.AssertExpectations(t)
}

func TestTransientDebitRetry(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.ledger.Seed("viewer-1", 3600)
	stream := env.liveStream(t, "creator-1", 1)

	var calls atomic.Int64
	env.ledger.DebitHook = func(ledger.ReservationRef, int64, string) error {
		if calls.Add(1) <= 2 {
			return ledger.Transient(errors.New("ledger briefly down"))
		}
		return nil
	}

	session, err := env.engine.Join(ctx, stream.Id, "viewer-1", 3600)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		snap, err := env.engine.Snapshot(ctx, session.Id)
		return err == nil && snap.ConsumedTicks >= 1
	}, 2*time.Second, time.Millisecond)

	// Two transient failures, then success, all inside one tick's settlement.
	assert.GreaterOrEqual(t, calls.Load(), int64(3))
	records, err := env.store.ListSessionRecords(ctx, session.Id)
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, uint64(1), records[0].Sequence)
}

func TestStallPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("Fail", func(t *testing.T) {
		env := newTestEnv(t, WithRetryPolicy(RetryPolicy{MaxAttempts: 2, BaseDelay: time.Millisecond, Multiplier: 2}))
		env.ledger.Seed("viewer-1", 3600)
		stream := env.liveStream(t, "creator-1", 1)

		env.ledger.DebitHook = func(ledger.ReservationRef, int64, string) error {
			return ledger.Transient(errors.New("ledger down"))
		}
		env.sched.On("ScheduleFinalize", mock.Anything, mock.AnythingOfType("string")).Return(nil).Once()

		session, err := env.engine.Join(ctx, stream.Id, "viewer-1", 3600)
		require.NoError(t, err)

		final := env.waitState(t, session.Id, models.FAILED)
		assert.Equal(t, models.ReasonLedgerUnavailable, final.FailReason)
		assert.Equal(t, uint64(0), final.ConsumedTicks)

		records, err := env.store.ListSessionRecords(ctx, session.Id)
		require.NoError(t, err)
		assert.Empty(t, records)
		env.sched.AssertExpectations(t)
	})

	t.Run("Pause And Recover", func(t *testing.T) {
		env := newTestEnv(t,
			WithStallPolicy(StallPause),
			WithPauseInterval(3*time.Millisecond),
			WithRetryPolicy(RetryPolicy{MaxAttempts: 2, BaseDelay: time.Millisecond, Multiplier: 2}))
		env.ledger.Seed("viewer-1", 3600)
		stream := env.liveStream(t, "creator-1", 1)

		var down atomic.Bool
		down.Store(true)
		env.ledger.DebitHook = func(ledger.ReservationRef, int64, string) error {
			if down.Load() {
				return ledger.Transient(errors.New("ledger down"))
			}
			return nil
		}

		session, err := env.engine.Join(ctx, stream.Id, "viewer-1", 3600)
		require.NoError(t, err)

		// Long past the retry budget the session is parked, not failed.
		time.Sleep(30 * time.Millisecond)
		parked, err := env.engine.Snapshot(ctx, session.Id)
		require.NoError(t, err)
		assert.Equal(t, models.ACTIVE, parked.State)
		assert.Equal(t, uint64(0), parked.ConsumedTicks)

		down.Store(false)
		require.Eventually(t, func() bool {
			snap, err := env.engine.Snapshot(ctx, session.Id)
			return err == nil && snap.ConsumedTicks >= 1
		}, 2*time.Second, time.Millisecond)

		// The parked tick settled under its original sequence number.
		records, err := env.store.ListSessionRecords(ctx, session.Id)
		require.NoError(t, err)
		require.NotEmpty(t, records)
		assert.Equal(t, uint64(1), records[0].Sequence)

		_, err = env.engine.Leave(ctx, session.Id)
		require.NoError(t, err)
		final := env.waitState(t, session.Id, models.ENDED)
		assertConservation(t, final)
	})
}

func TestSequenceGap(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, WithTickInterval(50*time.Millisecond))
	env.ledger.Seed("viewer-1", 3600)
	stream := env.liveStream(t, "creator-1", 1)

	session, err := env.engine.Join(ctx, stream.Id, "viewer-1", 3600)
	require.NoError(t, err)

	// Plant a record where the session's first tick will land.
	err = env.store.AppendRecord(ctx, &models.SettlementRecord{
		SessionId:      session.Id,
		Sequence:       1,
		StreamId:       stream.Id,
		CreatorAccount: "creator-1",
		Amount:         1,
		SettledAt:      time.Now(),
	})
	require.NoError(t, err)
	env.sched.On("ScheduleFinalize", mock.Anything, session.Id).Return(nil).Once()

	final := env.waitState(t, session.Id, models.FAILED)
	assert.Equal(t, models.ReasonSequenceGap, final.FailReason)
	assert.Equal(t, uint64(0), final.ConsumedTicks)

	records, err := env.store.ListSessionRecords(ctx, session.Id)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	env.sched.AssertExpectations(t)
}

func TestLeave(t *testing.T) {
	ctx := context.Background()

	t.Run("During Retry Settles Clean", func(t *testing.T) {
		env := newTestEnv(t, WithRetryPolicy(RetryPolicy{MaxAttempts: 5, BaseDelay: 20 * time.Millisecond, Multiplier: 2}))
		env.ledger.Seed("viewer-1", 3600)
		stream := env.liveStream(t, "creator-1", 1)

		var calls atomic.Int64
		env.ledger.DebitHook = func(ledger.ReservationRef, int64, string) error {
			calls.Add(1)
			return ledger.Transient(errors.New("ledger down"))
		}

		session, err := env.engine.Join(ctx, stream.Id, "viewer-1", 3600)
		require.NoError(t, err)

		require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, time.Millisecond)

		// Leaving mid-retry abandons the backoff and settles immediately.
		_, err = env.engine.Leave(ctx, session.Id)
		require.NoError(t, err)
		final := env.waitState(t, session.Id, models.ENDED)

		assert.Equal(t, uint64(0), final.ConsumedTicks)
		balance, reserved := env.ledger.Balance("viewer-1")
		assert.Equal(t, int64(3600), balance)
		assert.Equal(t, int64(0), reserved)
	})

	t.Run("Idempotent", func(t *testing.T) {
		env := newTestEnv(t)
		env.ledger.Seed("viewer-1", 3600)
		stream := env.liveStream(t, "creator-1", 1)

		session, err := env.engine.Join(ctx, stream.Id, "viewer-1", 100)
		require.NoError(t, err)

		_, err = env.engine.Leave(ctx, session.Id)
		require.NoError(t, err)
		_, err = env.engine.Leave(ctx, session.Id)
		require.NoError(t, err)

		env.waitState(t, session.Id, models.ENDED)
		after, err := env.engine.Leave(ctx, session.Id)
		require.NoError(t, err)
		assert.Equal(t, models.ENDED, after.State)
	})

	t.Run("Unknown Session", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.engine.Leave(ctx, "no-such-session")
		assert.ErrorIs(t, err, storage.ErrSessionNotFound)
	})
}

func TestEndStream(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.ledger.Seed("viewer-1", 3600)
	env.ledger.Seed("viewer-2", 3600)
	env.ledger.Seed("viewer-3", 3600)
	streamA := env.liveStream(t, "creator-a", 1)
	streamB := env.liveStream(t, "creator-b", 1)

	s1, err := env.engine.Join(ctx, streamA.Id, "viewer-1", 3600)
	require.NoError(t, err)
	s2, err := env.engine.Join(ctx, streamA.Id, "viewer-2", 3600)
	require.NoError(t, err)
	s3, err := env.engine.Join(ctx, streamB.Id, "viewer-3", 3600)
	require.NoError(t, err)

	assert.Equal(t, 2, env.engine.Viewers(streamA.Id))

	stream, settling, err := env.engine.EndStream(ctx, streamA.Id)
	require.NoError(t, err)
	assert.False(t, stream.Live)
	assert.Equal(t, 2, settling)

	final1 := env.waitState(t, s1.Id, models.ENDED)
	final2 := env.waitState(t, s2.Id, models.ENDED)

	// The other stream's session keeps running.
	snap3, err := env.engine.Snapshot(ctx, s3.Id)
	require.NoError(t, err)
	assert.Equal(t, models.ACTIVE, snap3.State)

	_, err = env.engine.Join(ctx, streamA.Id, "viewer-1", 100)
	assert.ErrorIs(t, err, ErrStreamNotLive)

	require.Eventually(t, func() bool { return env.engine.Viewers(streamA.Id) == 0 }, 2*time.Second, time.Millisecond)
	assert.Equal(t, final1.ConsumedTicks+final2.ConsumedTicks, env.engine.TickCount(streamA.Id))
}

func TestShutdown(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.ledger.Seed("viewer-1", 3600)
	env.ledger.Seed("viewer-2", 3600)
	stream := env.liveStream(t, "creator-1", 1)

	s1, err := env.engine.Join(ctx, stream.Id, "viewer-1", 3600)
	require.NoError(t, err)
	s2, err := env.engine.Join(ctx, stream.Id, "viewer-2", 3600)
	require.NoError(t, err)

	shCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, env.engine.Shutdown(shCtx))

	archived1, err := env.store.GetSession(ctx, s1.Id)
	require.NoError(t, err)
	assert.Equal(t, models.ENDED, archived1.State)
	archived2, err := env.store.GetSession(ctx, s2.Id)
	require.NoError(t, err)
	assert.Equal(t, models.ENDED, archived2.State)

	_, err = env.engine.Join(ctx, stream.Id, "viewer-1", 100)
	assert.ErrorIs(t, err, ErrEngineStopped)
}

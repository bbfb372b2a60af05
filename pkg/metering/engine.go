// Package metering converts elapsed viewing time into settled, individually
// audited tick payments. It hosts one state machine per viewer session,
// meters it on a fixed interval and drives the ledger so that a viewer is
// charged exactly once per tick and every charge is durably recorded.
package metering

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/vilokanam/tickmeter/pkg/events"
	"github.com/vilokanam/tickmeter/pkg/ledger"
	"github.com/vilokanam/tickmeter/pkg/models"
	"github.com/vilokanam/tickmeter/pkg/scheduler"
	"github.com/vilokanam/tickmeter/pkg/storage"
)

// Store is the durable state the engine touches: the stream directory, the
// append-only settlement journal and the session archive.
type Store interface {
	storage.StreamStore
	storage.JournalWriter
	storage.SessionArchive
}

// Service is the engine surface the HTTP handlers drive.
type Service interface {
	// Join authorizes nothing itself; callers resolve identity first. It
	// creates a session on a live stream, locks the viewer's tick budget and
	// starts metering. Fails with ledger.ErrInsufficientBalance when the
	// viewer cannot fund the lock and ErrStreamNotLive when the stream is off
	// air.
	Join(ctx context.Context, streamID string, viewerAccount string, maxLockTicks int64) (*models.Session, error)

	// Leave asks a live session to settle and returns its snapshot. For a
	// session that already reached the archive it returns the archived state.
	Leave(ctx context.Context, sessionID string) (*models.Session, error)

	// Snapshot returns the session's current state, live or archived.
	Snapshot(ctx context.Context, sessionID string) (*models.Session, error)

	// RegisterStream creates a stream in the directory, not yet live.
	RegisterStream(ctx context.Context, creatorAccount string, pricePerTick int64) (*models.Stream, error)

	// SetLive flips a stream's live flag. Taking a stream off air blocks new
	// joins; running sessions are only settled by EndStream.
	SetLive(ctx context.Context, streamID string, live bool) (*models.Stream, error)

	// EndStream takes the stream off air and settles every one of its live
	// sessions. It returns the stream and the number of sessions asked to
	// settle.
	EndStream(ctx context.Context, streamID string) (*models.Stream, int, error)

	// TickCount returns the number of ticks settled for a stream since the
	// engine started.
	TickCount(streamID string) uint64

	// Viewers returns the stream's live session count.
	Viewers(streamID string) int
}

// Engine hosts every active session. Sessions run as independent goroutines;
// the engine joins viewers, fans stream-wide signals out and owns the shared
// collaborators.
type Engine struct {
	ledger    ledger.Ledger
	store     Store
	scheduler scheduler.Scheduler
	publisher events.Publisher
	logger    *slog.Logger
	cfg       Config

	registry *registry

	countMu    sync.RWMutex
	tickCounts map[string]uint64

	baseCtx context.Context
	cancel  context.CancelFunc
	stopped atomic.Bool
	wg      sync.WaitGroup
}

// Make sure we conform to the interface
var _ Service = (*Engine)(nil)

// NewEngine creates an engine around its collaborators. Options override the
// DefaultConfig knobs.
func NewEngine(l ledger.Ledger, store Store, sched scheduler.Scheduler, publisher events.Publisher, opts ...Option) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		ledger:     l,
		store:      store,
		scheduler:  sched,
		publisher:  publisher,
		logger:     slog.Default(),
		cfg:        DefaultConfig(),
		registry:   newRegistry(),
		tickCounts: make(map[string]uint64),
		baseCtx:    ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Join creates a session for a viewer on a live stream, locks the viewer's
// tick budget and starts metering. The lock runs synchronously so the caller
// learns immediately whether the viewer could fund it.
func (e *Engine) Join(ctx context.Context, streamID string, viewerAccount string, maxLockTicks int64) (*models.Session, error) {
	if e.stopped.Load() {
		return nil, ErrEngineStopped
	}

	stream, err := e.store.GetStream(ctx, streamID)
	if err != nil {
		return nil, err
	}
	if !stream.Live {
		return nil, fmt.Errorf("%w: %s", ErrStreamNotLive, streamID)
	}

	if maxLockTicks <= 0 || maxLockTicks > e.cfg.MaxLockTicks {
		maxLockTicks = e.cfg.MaxLockTicks
	}

	s := newSession(e, stream, viewerAccount, maxLockTicks)
	if err := s.lock(ctx); err != nil {
		return nil, err
	}

	e.registry.add(s)
	if e.stopped.Load() {
		// Shutdown began while we were locking; settle straight away.
		s.signalLeave()
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		s.run()
	}()

	snap := s.snapshot()
	e.logger.Info("viewer joined",
		"session_id", s.id, "stream_id", streamID, "viewer", viewerAccount, "locked", snap.InitialLocked)
	return &snap, nil
}

// Leave asks a live session to settle. The settlement itself completes
// asynchronously; the returned snapshot shows the state at signal time.
func (e *Engine) Leave(ctx context.Context, sessionID string) (*models.Session, error) {
	if s, ok := e.registry.get(sessionID); ok {
		s.signalLeave()
		snap := s.snapshot()
		return &snap, nil
	}
	// Not live: the archive has the last word. Leaving an already-settled
	// session is a no-op, not an error.
	return e.store.GetSession(ctx, sessionID)
}

// Snapshot returns the session's current state, preferring the live registry
// over the archive.
func (e *Engine) Snapshot(ctx context.Context, sessionID string) (*models.Session, error) {
	if s, ok := e.registry.get(sessionID); ok {
		snap := s.snapshot()
		return &snap, nil
	}
	return e.store.GetSession(ctx, sessionID)
}

// RegisterStream creates a stream in the directory. Streams start off air.
func (e *Engine) RegisterStream(ctx context.Context, creatorAccount string, pricePerTick int64) (*models.Stream, error) {
	stream := &models.Stream{
		Id:             uuid.New().String(),
		CreatorAccount: creatorAccount,
		PricePerTick:   pricePerTick,
		Live:           false,
	}
	created, err := e.store.CreateStream(ctx, stream)
	if err != nil {
		return nil, err
	}
	e.logger.Info("stream registered", "stream_id", created.Id, "creator", creatorAccount, "price_per_tick", pricePerTick)
	return created, nil
}

// SetLive flips the stream's live flag.
func (e *Engine) SetLive(ctx context.Context, streamID string, live bool) (*models.Stream, error) {
	return e.store.SetStreamLive(ctx, streamID, live)
}

// EndStream takes the stream off air and settles all of its live sessions.
func (e *Engine) EndStream(ctx context.Context, streamID string) (*models.Stream, int, error) {
	stream, err := e.store.SetStreamLive(ctx, streamID, false)
	if err != nil {
		return nil, 0, err
	}

	sessions := e.registry.byStreamID(streamID)
	for _, s := range sessions {
		s.signalLeave()
	}
	e.logger.Info("stream ended", "stream_id", streamID, "sessions_settling", len(sessions))
	return stream, len(sessions), nil
}

// TickCount returns the ticks settled for a stream since the engine started.
// It mirrors the journal for the running process; historical totals live in
// the journal itself.
func (e *Engine) TickCount(streamID string) uint64 {
	e.countMu.RLock()
	defer e.countMu.RUnlock()
	return e.tickCounts[streamID]
}

// Viewers returns the stream's live session count.
func (e *Engine) Viewers(streamID string) int {
	return e.registry.viewers(streamID)
}

// Shutdown settles every live session and stops the engine. New joins are
// rejected as soon as it begins. Sessions that cannot finish before ctx
// expires are cut off; their archived state hands them to reconciliation.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.stopped.Store(true)
	for _, s := range e.registry.all() {
		s.signalLeave()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.cancel()
		return nil
	case <-ctx.Done():
		e.cancel()
		<-done
		return ctx.Err()
	}
}

func (e *Engine) deregister(s *session) {
	e.registry.remove(s)
}

// archive persists the session snapshot. Failures are logged, not fatal: the
// journal, not the archive, is the authority on settled value.
func (e *Engine) archive(ctx context.Context, s *session) {
	snap := s.snapshot()
	if err := e.store.PutSession(ctx, &snap); err != nil {
		e.logger.Error("failed to archive session", "session_id", s.id, "state", snap.State, "error", err)
	}
}

// enqueueFinalize hands the session to the finalizer worker. If even the
// enqueue fails, the archived non-terminal state still gets the session swept
// up by reconciliation.
func (e *Engine) enqueueFinalize(ctx context.Context, sessionID string) {
	if err := e.scheduler.ScheduleFinalize(ctx, sessionID); err != nil {
		e.logger.Error("failed to enqueue finalize", "session_id", sessionID, "error", err)
	}
}

// tickSettled folds a confirmed tick into the per-stream aggregate and
// publishes it.
func (e *Engine) tickSettled(ctx context.Context, s *session, record *models.SettlementRecord) {
	e.countMu.Lock()
	e.tickCounts[s.streamID]++
	e.countMu.Unlock()

	snap := s.snapshot()
	e.logger.Log(ctx, slog.LevelDebug, "tick settled",
		"session_id", s.id, "sequence", record.Sequence, "locked_balance", snap.LockedBalance)

	e.publish(ctx, events.Event{
		Type: events.EventTickSettled,
		Payload: events.TickSettledPayload{
			SessionId:      s.id,
			StreamId:       s.streamID,
			Sequence:       record.Sequence,
			Amount:         record.Amount,
			CreatorAccount: record.CreatorAccount,
			LockedBalance:  snap.LockedBalance,
		},
	})
}

func (e *Engine) publishSessionEnded(ctx context.Context, s *session) {
	snap := s.snapshot()
	e.publish(ctx, events.Event{
		Type: events.EventSessionEnded,
		Payload: events.SessionEndedPayload{
			SessionId:      s.id,
			StreamId:       s.streamID,
			ConsumedTicks:  snap.ConsumedTicks,
			SettledAmount:  int64(snap.ConsumedTicks) * snap.PricePerTick,
			ReturnedAmount: snap.LockedBalance,
		},
	})
}

func (e *Engine) publishSessionFailed(ctx context.Context, s *session, reason string) {
	e.publish(ctx, events.Event{
		Type: events.EventSessionFailed,
		Payload: events.SessionFailedPayload{
			SessionId: s.id,
			StreamId:  s.streamID,
			Reason:    reason,
		},
	})
}

// publish sends an event to subscribers. Log the error but don't fail the
// operation; settlement never hinges on a dashboard.
func (e *Engine) publish(ctx context.Context, event events.Event) {
	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.Error("failed to publish event", "type", event.Type, "error", err)
	}
}

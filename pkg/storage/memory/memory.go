// Package memory provides an in-memory Storage implementation for tests and
// local development, with the same conditional-write semantics as the DynamoDB
// implementation.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vilokanam/tickmeter/pkg/models"
	"github.com/vilokanam/tickmeter/pkg/storage"
)

type journalKey struct {
	sessionID string
	sequence  uint64
}

// Store implements storage.Storage with mutex-guarded maps.
//
// AppendHook, when set, runs before each journal append; a non-nil return
// aborts the append with that error. Assign it before any concurrent use.
type Store struct {
	mu          sync.RWMutex
	journal     map[journalKey]models.SettlementRecord
	order       []journalKey
	withdrawals map[string]models.Withdrawal
	sessions    map[string]models.Session
	streams     map[string]models.Stream
	connections map[string]struct{}

	AppendHook func(record *models.SettlementRecord) error
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		journal:     make(map[journalKey]models.SettlementRecord),
		withdrawals: make(map[string]models.Withdrawal),
		sessions:    make(map[string]models.Session),
		streams:     make(map[string]models.Stream),
		connections: make(map[string]struct{}),
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// AppendRecord appends a settlement record, rejecting duplicate keys.
func (s *Store) AppendRecord(_ context.Context, record *models.SettlementRecord) error {
	if s.AppendHook != nil {
		if err := s.AppendHook(record); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := journalKey{sessionID: record.SessionId, sequence: record.Sequence}
	if _, ok := s.journal[key]; ok {
		return fmt.Errorf("%w: session %s sequence %d", storage.ErrDuplicateRecord, record.SessionId, record.Sequence)
	}
	s.journal[key] = *record
	s.order = append(s.order, key)
	return nil
}

// ListSessionRecords returns a session's records in sequence order.
func (s *Store) ListSessionRecords(_ context.Context, sessionID string) ([]models.SettlementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []models.SettlementRecord
	for key, record := range s.journal {
		if key.sessionID == sessionID {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Sequence < records[j].Sequence })
	return records, nil
}

// ListRecentRecords returns the most recently appended records, newest first.
func (s *Store) ListRecentRecords(_ context.Context, limit int32) ([]models.SettlementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []models.SettlementRecord
	for i := len(s.order) - 1; i >= 0 && len(records) < int(limit); i-- {
		records = append(records, s.journal[s.order[i]])
	}
	return records, nil
}

// SumSettledByCreator totals every record settled to a creator.
func (s *Store) SumSettledByCreator(_ context.Context, creatorAccount string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, record := range s.journal {
		if record.CreatorAccount == creatorAccount {
			total += record.Amount
		}
	}
	return total, nil
}

// CreateWithdrawal records a new pending withdrawal under its idempotency key.
func (s *Store) CreateWithdrawal(_ context.Context, withdrawal *models.Withdrawal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.withdrawals[withdrawal.IdempotencyKey]; ok {
		return fmt.Errorf("%w: key %s", storage.ErrWithdrawalExists, withdrawal.IdempotencyKey)
	}
	now := time.Now()
	withdrawal.Status = models.WithdrawalPending
	withdrawal.CreatedAt = now
	withdrawal.UpdatedAt = now
	s.withdrawals[withdrawal.IdempotencyKey] = *withdrawal
	return nil
}

// GetWithdrawal retrieves a withdrawal by its idempotency key.
func (s *Store) GetWithdrawal(_ context.Context, idempotencyKey string) (*models.Withdrawal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.withdrawals[idempotencyKey]
	if !ok {
		return nil, fmt.Errorf("%w: key %s", storage.ErrWithdrawalNotFound, idempotencyKey)
	}
	return &w, nil
}

// CompleteWithdrawal marks a pending withdrawal completed.
func (s *Store) CompleteWithdrawal(_ context.Context, idempotencyKey string, ledgerTxRef string) (*models.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.withdrawals[idempotencyKey]
	if !ok || w.Status != models.WithdrawalPending {
		return nil, fmt.Errorf("%w: key %s", storage.ErrWithdrawalNotPending, idempotencyKey)
	}
	w.Status = models.WithdrawalCompleted
	w.LedgerTxRef = ledgerTxRef
	w.UpdatedAt = time.Now()
	s.withdrawals[idempotencyKey] = w
	return &w, nil
}

// FailWithdrawal marks a pending withdrawal failed.
func (s *Store) FailWithdrawal(_ context.Context, idempotencyKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.withdrawals[idempotencyKey]
	if !ok || w.Status != models.WithdrawalPending {
		return fmt.Errorf("%w: key %s", storage.ErrWithdrawalNotPending, idempotencyKey)
	}
	w.Status = models.WithdrawalFailed
	w.UpdatedAt = time.Now()
	s.withdrawals[idempotencyKey] = w
	return nil
}

// SumWithdrawnByCreator totals a creator's pending and completed withdrawals.
func (s *Store) SumWithdrawnByCreator(_ context.Context, creatorAccount string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, w := range s.withdrawals {
		if w.CreatorAccount == creatorAccount && w.Status != models.WithdrawalFailed {
			total += w.Amount
		}
	}
	return total, nil
}

// PutSession upserts a session snapshot.
func (s *Store) PutSession(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Id] = *session
	return nil
}

// GetSession retrieves a session snapshot by its id.
func (s *Store) GetSession(_ context.Context, sessionID string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrSessionNotFound, sessionID)
	}
	return &session, nil
}

// GetStuckSessions returns sessions sitting in state for longer than maxAge.
func (s *Store) GetStuckSessions(_ context.Context, state models.SessionState, maxAge time.Duration) ([]models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := time.Now().Add(-maxAge)
	var stuck []models.Session
	for _, session := range s.sessions {
		if session.State == state && session.UpdatedAt.Before(cutoff) {
			stuck = append(stuck, session)
		}
	}
	return stuck, nil
}

// CreateStream registers a new stream.
func (s *Store) CreateStream(_ context.Context, stream *models.Stream) (*models.Stream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.streams[stream.Id]; ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrStreamExists, stream.Id)
	}
	stream.CreatedAt = time.Now()
	s.streams[stream.Id] = *stream
	return stream, nil
}

// GetStream retrieves a stream by its id.
func (s *Store) GetStream(_ context.Context, streamID string) (*models.Stream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream, ok := s.streams[streamID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrStreamNotFound, streamID)
	}
	return &stream, nil
}

// SetStreamLive flips a stream's live flag.
func (s *Store) SetStreamLive(_ context.Context, streamID string, live bool) (*models.Stream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream, ok := s.streams[streamID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrStreamNotFound, streamID)
	}
	stream.Live = live
	s.streams[streamID] = stream
	return &stream, nil
}

// ListStreams returns all registered streams.
func (s *Store) ListStreams(_ context.Context) ([]models.Stream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	streams := make([]models.Stream, 0, len(s.streams))
	for _, stream := range s.streams {
		streams = append(streams, stream)
	}
	sort.Slice(streams, func(i, j int) bool { return streams[i].Id < streams[j].Id })
	return streams, nil
}

// AddConnection saves a WebSocket connection id.
func (s *Store) AddConnection(_ context.Context, connectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections[connectionID] = struct{}{}
	return nil
}

// RemoveConnection deletes a WebSocket connection id.
func (s *Store) RemoveConnection(_ context.Context, connectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.connections, connectionID)
	return nil
}

// GetAllConnections returns every registered connection id.
func (s *Store) GetAllConnections(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.connections))
	for id := range s.connections {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

package storage

import (
	"context"
	"time"

	"github.com/vilokanam/tickmeter/pkg/models"
)

// SessionReader defines the interface for reading archived session snapshots.
type SessionReader interface {
	// GetSession retrieves a session snapshot by its id. It returns
	// ErrSessionNotFound when the session was never archived.
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)

	// GetStuckSessions retrieves sessions that have sat in the given state for
	// longer than maxAge. Reconciliation uses it to find sessions whose owner
	// crashed mid-settlement.
	GetStuckSessions(ctx context.Context, state models.SessionState, maxAge time.Duration) ([]models.Session, error)
}

// SessionWriter defines the interface for writing session snapshots.
type SessionWriter interface {
	// PutSession upserts a session snapshot. The engine writes one on every
	// state transition, not on every tick; within a state the journal is the
	// authority on progress.
	PutSession(ctx context.Context, session *models.Session) error
}

// SessionArchive combines the session reader and writer interfaces.
type SessionArchive interface {
	SessionReader
	SessionWriter
}

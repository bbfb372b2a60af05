package storage

import (
	"context"

	"github.com/vilokanam/tickmeter/pkg/models"
)

// JournalWriter defines the interface for appending to the settlement journal.
// The journal is append-only: records are never updated or deleted, and the
// (session id, sequence) key space admits each entry exactly once.
type JournalWriter interface {
	// AppendRecord appends a confirmed settlement. It returns
	// ErrDuplicateRecord when a record with the same session id and sequence
	// number already exists, which callers must treat as a sequence fault
	// rather than a success.
	AppendRecord(ctx context.Context, record *models.SettlementRecord) error
}

// JournalReader defines the interface for reading settlement records.
type JournalReader interface {
	// ListSessionRecords retrieves all settlement records for a session in
	// sequence order.
	ListSessionRecords(ctx context.Context, sessionID string) ([]models.SettlementRecord, error)

	// ListRecentRecords retrieves the most recent settlement records across
	// all sessions, newest first.
	ListRecentRecords(ctx context.Context, limit int32) ([]models.SettlementRecord, error)

	// SumSettledByCreator returns the total amount ever settled to a creator.
	SumSettledByCreator(ctx context.Context, creatorAccount string) (int64, error)
}

// SettlementJournal combines the journal writer and reader interfaces.
type SettlementJournal interface {
	JournalWriter
	JournalReader
}

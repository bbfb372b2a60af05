package scheduler

import (
	"context"
)

// FinalizeMessage is the payload enqueued when a session's final settlement
// could not be completed in process and must be driven by the finalizer
// worker instead.
type FinalizeMessage struct {
	SessionId string `json:"session_id"`
}

// Scheduler defines the interface for a component that hands session
// finalization to an asynchronous worker.
type Scheduler interface {
	// ScheduleFinalize enqueues a finalize message for the session.
	ScheduleFinalize(ctx context.Context, sessionID string) error
}

// NopScheduler drops finalize messages. It is used in local development where
// no finalizer worker runs; stuck sessions remain visible in the session
// archive.
type NopScheduler struct{}

// ScheduleFinalize does nothing.
func (NopScheduler) ScheduleFinalize(ctx context.Context, sessionID string) error {
	return nil
}

package metering

import (
	"errors"
	"fmt"
)

// ErrStreamNotLive is returned by Join when the stream exists but is not
// currently broadcasting.
var ErrStreamNotLive = errors.New("stream is not live")

// ErrEngineStopped is returned by Join once shutdown has begun.
var ErrEngineStopped = errors.New("engine is stopped")

// SequenceGapError reports a journal append that collided with an existing
// (session, sequence) record. The journal holds an entry this session never
// confirmed, so the tick stream has a gap that must be reconciled rather than
// papered over.
type SequenceGapError struct {
	SessionId string
	Sequence  uint64
}

func (e *SequenceGapError) Error() string {
	return fmt.Sprintf("sequence gap: journal already holds session %s sequence %d", e.SessionId, e.Sequence)
}

package storage

import (
	"context"

	"github.com/vilokanam/tickmeter/pkg/models"
)

// StreamStore defines the interface for the stream directory.
type StreamStore interface {
	// CreateStream registers a new stream. It returns ErrStreamExists when the
	// stream id is already taken.
	CreateStream(ctx context.Context, stream *models.Stream) (*models.Stream, error)

	// GetStream retrieves a stream by its id. It returns ErrStreamNotFound
	// when the stream does not exist.
	GetStream(ctx context.Context, streamID string) (*models.Stream, error)

	// SetStreamLive flips a stream's live flag and returns the updated stream.
	SetStreamLive(ctx context.Context, streamID string, live bool) (*models.Stream, error)

	// ListStreams retrieves all registered streams.
	ListStreams(ctx context.Context) ([]models.Stream, error)
}

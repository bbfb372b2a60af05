package storage

import "context"

// WebSocketManager defines the interface for storing and retrieving the
// WebSocket connection ids that settlement events fan out to.
type WebSocketManager interface {
	AddConnection(ctx context.Context, connectionID string) error
	RemoveConnection(ctx context.Context, connectionID string) error
	GetAllConnections(ctx context.Context) ([]string, error)
}

package websockets

import (
	"context"
	"log/slog"
	"net/http"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vilokanam/tickmeter/pkg/events"
)

// Handler manages the WebSocket subscriptions that settlement events fan out
// to. Subscribers are passive; the server never processes inbound messages.
type Handler struct {
	connManager events.ConnectionManager
}

// NewHandler creates a new Handler.
func NewHandler(connManager events.ConnectionManager) *Handler {
	return &Handler{
		connManager: connManager,
	}
}

// HandleConnect handles new subscriber connections via API Gateway.
func (h *Handler) HandleConnect(ctx context.Context, request lambdaevents.APIGatewayWebsocketProxyRequest) (lambdaevents.APIGatewayProxyResponse, error) {
	slog.Info("subscriber connected", "connectionId", request.RequestContext.ConnectionID)

	if err := h.connManager.AddConnection(ctx, request.RequestContext.ConnectionID); err != nil {
		slog.Error("failed to save connection ID", "error", err)
		return lambdaevents.APIGatewayProxyResponse{StatusCode: 500}, err
	}

	return lambdaevents.APIGatewayProxyResponse{StatusCode: 200}, nil
}

// HandleDisconnect handles subscriber disconnections via API Gateway.
func (h *Handler) HandleDisconnect(ctx context.Context, request lambdaevents.APIGatewayWebsocketProxyRequest) (lambdaevents.APIGatewayProxyResponse, error) {
	slog.Info("subscriber disconnected", "connectionId", request.RequestContext.ConnectionID)

	if err := h.connManager.RemoveConnection(ctx, request.RequestContext.ConnectionID); err != nil {
		slog.Error("failed to delete connection ID", "error", err)
		return lambdaevents.APIGatewayProxyResponse{StatusCode: 500}, err
	}

	return lambdaevents.APIGatewayProxyResponse{StatusCode: 200}, nil
}

// HandleDefault handles messages sent from a subscriber. Settlement events
// flow one way; inbound messages are logged and dropped.
func (h *Handler) HandleDefault(ctx context.Context, request lambdaevents.APIGatewayWebsocketProxyRequest) (lambdaevents.APIGatewayProxyResponse, error) {
	slog.Info("received message", "connectionId", request.RequestContext.ConnectionID, "body", request.Body)
	return lambdaevents.APIGatewayProxyResponse{StatusCode: 200}, nil
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all connections by default for local development.
		return true
	},
}

// ServeHTTP handles WebSocket requests for the local development server.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	// Local connections get a synthetic connection ID.
	connectionID := uuid.New().String()
	slog.Info("subscriber connected locally", "connectionId", connectionID)

	ctx := r.Context()
	if err := h.connManager.AddConnection(ctx, connectionID); err != nil {
		slog.Error("failed to save local connection ID", "error", err)
		return
	}

	defer func() {
		slog.Info("subscriber disconnected locally", "connectionId", connectionID)
		if err := h.connManager.RemoveConnection(ctx, connectionID); err != nil {
			slog.Error("failed to delete local connection ID", "error", err)
		}
	}()

	// Block until the subscriber closes the connection. Reading is the only
	// way to observe the close frame.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("unexpected close error", "error", err)
			}
			break
		}
	}
}

package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/oapi-codegen/runtime/types"

	"github.com/vilokanam/tickmeter/pkg/api"
	"github.com/vilokanam/tickmeter/pkg/ledger"
	"github.com/vilokanam/tickmeter/pkg/mapping"
	"github.com/vilokanam/tickmeter/pkg/metering"
	"github.com/vilokanam/tickmeter/pkg/storage"
)

// Authorizer decides whether a viewer may join a stream. The metering engine
// performs no authorization of its own; identity is resolved at this boundary
// before any funds are locked.
type Authorizer interface {
	AuthorizeJoin(ctx context.Context, viewerAccount string, streamID string) error
}

// AllowAll authorizes every join. Deployments front the API with their own
// authorizer; this is the default for development and tests.
type AllowAll struct{}

func (AllowAll) AuthorizeJoin(ctx context.Context, viewerAccount string, streamID string) error {
	return nil
}

// SessionsHandler holds the dependencies for session-related handlers.
type SessionsHandler struct {
	Engine metering.Service
	Store  storage.ApiStore
	Auth   Authorizer
}

// NewSessionsHandler creates a new SessionsHandler. A nil authorizer allows
// every join.
func NewSessionsHandler(engine metering.Service, store storage.ApiStore, auth Authorizer) *SessionsHandler {
	if auth == nil {
		auth = AllowAll{}
	}
	return &SessionsHandler{Engine: engine, Store: store, Auth: auth}
}

// JoinStream handles the logic for a viewer joining a stream. On success the
// viewer's tick budget is already locked and metering has started.
func (h *SessionsHandler) JoinStream(w http.ResponseWriter, r *http.Request) {
	var newSession api.NewSession
	if err := json.NewDecoder(r.Body).Decode(&newSession); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	streamID := newSession.StreamId.String()
	if err := h.Auth.AuthorizeJoin(r.Context(), newSession.ViewerAccount, streamID); err != nil {
		http.Error(w, "Not authorized to join this stream", http.StatusForbidden)
		return
	}

	var maxLockTicks int64
	if newSession.MaxLockTicks != nil {
		maxLockTicks = *newSession.MaxLockTicks
	}

	session, err := h.Engine.Join(r.Context(), streamID, newSession.ViewerAccount, maxLockTicks)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrStreamNotFound):
			http.Error(w, "Stream not found", http.StatusNotFound)
		case errors.Is(err, metering.ErrStreamNotLive):
			http.Error(w, "Stream is not live", http.StatusConflict)
		case errors.Is(err, ledger.ErrInsufficientBalance):
			http.Error(w, "Insufficient balance", http.StatusUnprocessableEntity)
		case errors.Is(err, metering.ErrEngineStopped):
			http.Error(w, "Server is shutting down", http.StatusServiceUnavailable)
		default:
			log.Printf("ERROR: Failed to join stream: %v\n", err)
			http.Error(w, fmt.Sprintf("Failed to join stream: %v", err), http.StatusInternalServerError)
		}
		return
	}

	apiSession := mapping.ToApiSession(session)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(apiSession); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// GetSessionById handles the logic for retrieving a session snapshot.
func (h *SessionsHandler) GetSessionById(w http.ResponseWriter, r *http.Request, sessionId types.UUID) {
	session, err := h.Engine.Snapshot(r.Context(), sessionId.String())
	if err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	apiSession := mapping.ToApiSession(session)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiSession); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// LeaveSession handles the logic for a viewer leaving a stream. Leaving is
// idempotent: leaving a session that already settled returns its final state.
func (h *SessionsHandler) LeaveSession(w http.ResponseWriter, r *http.Request, sessionId types.UUID) {
	session, err := h.Engine.Leave(r.Context(), sessionId.String())
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: Failed to leave session: %v\n", err)
		http.Error(w, fmt.Sprintf("Failed to leave session: %v", err), http.StatusInternalServerError)
		return
	}

	apiSession := mapping.ToApiSession(session)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiSession); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ListSessionRecords handles the logic for retrieving a session's settlement
// records in sequence order.
func (h *SessionsHandler) ListSessionRecords(w http.ResponseWriter, r *http.Request, sessionId types.UUID) {
	domainRecords, err := h.Store.ListSessionRecords(r.Context(), sessionId.String())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve settlement records: %v", err), http.StatusInternalServerError)
		return
	}

	apiRecords := make([]*api.SettlementRecord, len(domainRecords))
	for i, rec := range domainRecords {
		apiRecords[i] = mapping.ToApiSettlementRecord(&rec)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiRecords); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

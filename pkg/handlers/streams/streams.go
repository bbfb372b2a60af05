package streams

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/oapi-codegen/runtime/types"

	"github.com/vilokanam/tickmeter/pkg/api"
	"github.com/vilokanam/tickmeter/pkg/mapping"
	"github.com/vilokanam/tickmeter/pkg/metering"
	"github.com/vilokanam/tickmeter/pkg/storage"
)

// StreamsHandler holds the dependencies for stream-related handlers.
type StreamsHandler struct {
	Engine metering.Service
	Store  storage.ApiStore
}

// NewStreamsHandler creates a new StreamsHandler.
func NewStreamsHandler(engine metering.Service, store storage.ApiStore) *StreamsHandler {
	return &StreamsHandler{Engine: engine, Store: store}
}

// RegisterStream handles the logic for registering a new stream. Streams are
// registered off air; SetStreamLive opens them for joins.
func (h *StreamsHandler) RegisterStream(w http.ResponseWriter, r *http.Request) {
	var newStream api.NewStream
	if err := json.NewDecoder(r.Body).Decode(&newStream); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if newStream.CreatorAccount == "" {
		http.Error(w, "creator_account is required", http.StatusBadRequest)
		return
	}
	if newStream.PricePerTick <= 0 {
		http.Error(w, "price_per_tick must be positive", http.StatusBadRequest)
		return
	}

	stream, err := h.Engine.RegisterStream(r.Context(), newStream.CreatorAccount, newStream.PricePerTick)
	if err != nil {
		log.Printf("ERROR: Failed to register stream: %v\n", err)
		http.Error(w, fmt.Sprintf("Failed to register stream: %v", err), http.StatusInternalServerError)
		return
	}

	apiStream := mapping.ToApiStream(stream)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(apiStream); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// GetStreamById handles the logic for retrieving a stream, enriched with the
// engine's live viewer count and settled tick total.
func (h *StreamsHandler) GetStreamById(w http.ResponseWriter, r *http.Request, streamId types.UUID) {
	stream, err := h.Store.GetStream(r.Context(), streamId.String())
	if err != nil {
		http.Error(w, "Stream not found", http.StatusNotFound)
		return
	}

	apiStream := mapping.ToApiStream(stream)
	tickCount := h.Engine.TickCount(stream.Id)
	viewers := h.Engine.Viewers(stream.Id)
	apiStream.TickCount = &tickCount
	apiStream.Viewers = &viewers

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiStream); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ListStreams handles the logic for retrieving all registered streams.
func (h *StreamsHandler) ListStreams(w http.ResponseWriter, r *http.Request) {
	domainStreams, err := h.Store.ListStreams(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve streams: %v", err), http.StatusInternalServerError)
		return
	}

	apiStreams := make([]*api.Stream, len(domainStreams))
	for i, stream := range domainStreams {
		apiStreams[i] = mapping.ToApiStream(&stream)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiStreams); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// SetStreamLive handles the logic for flipping a stream's live flag. Taking a
// stream off air blocks new joins without settling running sessions.
func (h *StreamsHandler) SetStreamLive(w http.ResponseWriter, r *http.Request, streamId types.UUID) {
	var req api.SetLiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	stream, err := h.Engine.SetLive(r.Context(), streamId.String(), req.Live)
	if err != nil {
		if errors.Is(err, storage.ErrStreamNotFound) {
			http.Error(w, "Stream not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: Failed to set stream live flag: %v\n", err)
		http.Error(w, fmt.Sprintf("Failed to set stream live flag: %v", err), http.StatusInternalServerError)
		return
	}

	apiStream := mapping.ToApiStream(stream)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiStream); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// EndStream handles the logic for ending a broadcast: the stream goes off air
// and every live session on it is asked to settle.
func (h *StreamsHandler) EndStream(w http.ResponseWriter, r *http.Request, streamId types.UUID) {
	stream, settling, err := h.Engine.EndStream(r.Context(), streamId.String())
	if err != nil {
		if errors.Is(err, storage.ErrStreamNotFound) {
			http.Error(w, "Stream not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: Failed to end stream: %v\n", err)
		http.Error(w, fmt.Sprintf("Failed to end stream: %v", err), http.StatusInternalServerError)
		return
	}

	result := api.EndStreamResult{
		Stream:           *mapping.ToApiStream(stream),
		SessionsSettling: settling,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

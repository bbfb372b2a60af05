package ledger

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vilokanam/tickmeter/pkg/api"
	"github.com/vilokanam/tickmeter/pkg/mapping"
	"github.com/vilokanam/tickmeter/pkg/storage"
)

// LedgerHandler holds the dependencies for settlement journal handlers.
type LedgerHandler struct {
	Store storage.JournalReader
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(store storage.JournalReader) *LedgerHandler {
	return &LedgerHandler{Store: store}
}

func (h *LedgerHandler) ListSettlementRecords(w http.ResponseWriter, r *http.Request, params api.ListSettlementRecordsParams) {
	limit := int32(20)
	if params.Limit != nil {
		limit = int32(*params.Limit)
	}

	domainRecords, err := h.Store.ListRecentRecords(r.Context(), limit)
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

package withdrawals

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/vilokanam/tickmeter/pkg/api"
	"github.com/vilokanam/tickmeter/pkg/mapping"
	"github.com/vilokanam/tickmeter/pkg/payout"
	"github.com/vilokanam/tickmeter/pkg/storage"
)

// WithdrawalsHandler holds the dependencies for creator payout handlers.
type WithdrawalsHandler struct {
	Payouts payout.Service
}

// NewWithdrawalsHandler creates a new WithdrawalsHandler.
func NewWithdrawalsHandler(payouts payout.Service) *WithdrawalsHandler {
	return &WithdrawalsHandler{Payouts: payouts}
}

// RequestWithdrawal handles the logic for a creator withdrawal. Replaying a
// request under the same idempotency key returns the original receipt.
func (h *WithdrawalsHandler) RequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	var newWd api.NewWithdrawal
	if err := json.NewDecoder(r.Body).Decode(&newWd); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if newWd.Amount <= 0 {
		http.Error(w, "Withdrawal amount must be positive", http.StatusBadRequest)
		return
	}

	var key string
	if newWd.IdempotencyKey != nil {
		key = *newWd.IdempotencyKey
	}

	wd, err := h.Payouts.RequestWithdrawal(r.Context(), newWd.CreatorAccount, newWd.Amount, key)
	if err != nil {
		if errors.Is(err, payout.ErrInsufficientSettledFunds) {
			http.Error(w, "Insufficient settled funds", http.StatusUnprocessableEntity)
			return
		}
		log.Printf("ERROR: Failed to process withdrawal: %v\n", err)
		http.Error(w, fmt.Sprintf("Failed to process withdrawal: %v", err), http.StatusInternalServerError)
		return
	}

	apiWd := mapping.ToApiWithdrawal(wd)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(apiWd); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// GetWithdrawalByKey handles the logic for looking up a withdrawal receipt.
func (h *WithdrawalsHandler) GetWithdrawalByKey(w http.ResponseWriter, r *http.Request, idempotencyKey string) {
	wd, err := h.Payouts.GetWithdrawal(r.Context(), idempotencyKey)
	if err != nil {
		if errors.Is(err, storage.ErrWithdrawalNotFound) {
			http.Error(w, "Withdrawal not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to retrieve withdrawal: %v", err), http.StatusInternalServerError)
		return
	}

	apiWd := mapping.ToApiWithdrawal(wd)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiWd); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// GetCreatorBalance handles the logic for a creator's derived balance view.
func (h *WithdrawalsHandler) GetCreatorBalance(w http.ResponseWriter, r *http.Request, creatorAccount string) {
	balance, err := h.Payouts.CreatorBalance(r.Context(), creatorAccount)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to compute creator balance: %v", err), http.StatusInternalServerError)
		return
	}

	apiBalance := mapping.ToApiCreatorBalance(balance)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiBalance); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

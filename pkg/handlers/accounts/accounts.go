package accounts

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/vilokanam/tickmeter/pkg/api"
	"github.com/vilokanam/tickmeter/pkg/ledger"
	"github.com/vilokanam/tickmeter/pkg/mapping"
)

// AccountsHandler holds the dependencies for ledger account handlers. It only
// exists for ledger backends that expose account administration; a deployment
// fronting an external chain would not mount these routes.
type AccountsHandler struct {
	Accounts ledger.Accounts
}

// NewAccountsHandler creates a new AccountsHandler.
func NewAccountsHandler(accounts ledger.Accounts) *AccountsHandler {
	return &AccountsHandler{Accounts: accounts}
}

// CreateAccount handles the logic for creating a ledger account.
func (h *AccountsHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var newAccount api.NewAccount
	if err := json.NewDecoder(r.Body).Decode(&newAccount); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if newAccount.AccountId == "" {
		http.Error(w, "account_id is required", http.StatusBadRequest)
		return
	}
	if newAccount.Balance < 0 {
		http.Error(w, "balance must not be negative", http.StatusBadRequest)
		return
	}

	acct, err := h.Accounts.CreateAccount(r.Context(), newAccount.AccountId, newAccount.Balance)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountExists) {
			http.Error(w, "Account already exists", http.StatusConflict)
			return
		}
		log.Printf("ERROR: Failed to create account: %v\n", err)
		http.Error(w, fmt.Sprintf("Failed to create account: %v", err), http.StatusInternalServerError)
		return
	}

	apiAccount := mapping.ToApiAccount(acct)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(apiAccount); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// GetAccountById handles the logic for retrieving an account's balances.
func (h *AccountsHandler) GetAccountById(w http.ResponseWriter, r *http.Request, accountId string) {
	acct, err := h.Accounts.GetAccount(r.Context(), accountId)
	if err != nil {
		http.Error(w, "Account not found", http.StatusNotFound)
		return
	}

	apiAccount := mapping.ToApiAccount(acct)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiAccount); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// DepositToAccount handles the logic for crediting an account.
func (h *AccountsHandler) DepositToAccount(w http.ResponseWriter, r *http.Request, accountId string) {
	var req api.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if req.Amount <= 0 {
		http.Error(w, "Deposit amount must be positive", http.StatusBadRequest)
		return
	}

	acct, err := h.Accounts.Credit(r.Context(), accountId, req.Amount)
	if err != nil {
		log.Printf("ERROR: Failed to credit account: %v\n", err)
		http.Error(w, fmt.Sprintf("Failed to credit account: %v", err), http.StatusInternalServerError)
		return
	}

	apiAccount := mapping.ToApiAccount(acct)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiAccount); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

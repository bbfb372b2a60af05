package handlers

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/vilokanam/tickmeter/pkg/api"
	"github.com/vilokanam/tickmeter/pkg/handlers/accounts"
	ledgerhandlers "github.com/vilokanam/tickmeter/pkg/handlers/ledger"
	"github.com/vilokanam/tickmeter/pkg/handlers/sessions"
	"github.com/vilokanam/tickmeter/pkg/handlers/streams"
	"github.com/vilokanam/tickmeter/pkg/handlers/withdrawals"
	"github.com/vilokanam/tickmeter/pkg/ledger"
	"github.com/vilokanam/tickmeter/pkg/metering"
	"github.com/vilokanam/tickmeter/pkg/payout"
	"github.com/vilokanam/tickmeter/pkg/storage"
)

// ApiHandler implements the generated server interface by composing the
// per-resource handlers. It owns no logic of its own; every operation
// delegates to the handler that holds the right dependencies.
type ApiHandler struct {
	Sessions    *sessions.SessionsHandler
	Streams     *streams.StreamsHandler
	Withdrawals *withdrawals.WithdrawalsHandler
	Ledger      *ledgerhandlers.LedgerHandler
	Accounts    *accounts.AccountsHandler
}

// NewApiHandler wires the resource handlers around the shared collaborators.
// A nil authorizer allows every join.
func NewApiHandler(engine metering.Service, payouts payout.Service, store storage.ApiStore, accts ledger.Accounts, auth sessions.Authorizer) *ApiHandler {
	return &ApiHandler{
		Sessions:    sessions.NewSessionsHandler(engine, store, auth),
		Streams:     streams.NewStreamsHandler(engine, store),
		Withdrawals: withdrawals.NewWithdrawalsHandler(payouts),
		Ledger:      ledgerhandlers.NewLedgerHandler(store),
		Accounts:    accounts.NewAccountsHandler(accts),
	}
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)

func (h *ApiHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	h.Accounts.CreateAccount(w, r)
}

func (h *ApiHandler) GetAccountById(w http.ResponseWriter, r *http.Request, accountId string) {
	h.Accounts.GetAccountById(w, r, accountId)
}

func (h *ApiHandler) DepositToAccount(w http.ResponseWriter, r *http.Request, accountId string) {
	h.Accounts.DepositToAccount(w, r, accountId)
}

func (h *ApiHandler) GetCreatorBalance(w http.ResponseWriter, r *http.Request, creatorAccount string) {
	h.Withdrawals.GetCreatorBalance(w, r, creatorAccount)
}

func (h *ApiHandler) ListSettlementRecords(w http.ResponseWriter, r *http.Request, params api.ListSettlementRecordsParams) {
	h.Ledger.ListSettlementRecords(w, r, params)
}

func (h *ApiHandler) JoinStream(w http.ResponseWriter, r *http.Request) {
	h.Sessions.JoinStream(w, r)
}

func (h *ApiHandler) LeaveSession(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID) {
	h.Sessions.LeaveSession(w, r, sessionId)
}

func (h *ApiHandler) GetSessionById(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID) {
	h.Sessions.GetSessionById(w, r, sessionId)
}

func (h *ApiHandler) ListSessionRecords(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID) {
	h.Sessions.ListSessionRecords(w, r, sessionId)
}

func (h *ApiHandler) ListStreams(w http.ResponseWriter, r *http.Request) {
	h.Streams.ListStreams(w, r)
}

func (h *ApiHandler) RegisterStream(w http.ResponseWriter, r *http.Request) {
	h.Streams.RegisterStream(w, r)
}

func (h *ApiHandler) GetStreamById(w http.ResponseWriter, r *http.Request, streamId openapi_types.UUID) {
	h.Streams.GetStreamById(w, r, streamId)
}

func (h *ApiHandler) EndStream(w http.ResponseWriter, r *http.Request, streamId openapi_types.UUID) {
	h.Streams.EndStream(w, r, streamId)
}

func (h *ApiHandler) SetStreamLive(w http.ResponseWriter, r *http.Request, streamId openapi_types.UUID) {
	h.Streams.SetStreamLive(w, r, streamId)
}

func (h *ApiHandler) RequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	h.Withdrawals.RequestWithdrawal(w, r)
}

func (h *ApiHandler) GetWithdrawalByKey(w http.ResponseWriter, r *http.Request, idempotencyKey string) {
	h.Withdrawals.GetWithdrawalByKey(w, r, idempotencyKey)
}

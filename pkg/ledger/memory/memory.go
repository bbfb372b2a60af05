// Package memory provides an in-memory Ledger implementation for tests and
// local development. It keeps the same semantics as the DynamoDB-backed
// implementation (reservations, idempotent payouts, account-not-found rules)
// and adds per-operation hooks for injecting failures.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/vilokanam/tickmeter/pkg/ledger"
)

type account struct {
	balance  int64
	reserved int64
}

type reservation struct {
	account   string
	remaining int64
	released  bool
}

type payout struct {
	txRef  ledger.TxRef
	amount int64
}

// Transfer is one confirmed movement of value, kept for test assertions.
type Transfer struct {
	TxRef  ledger.TxRef
	From   string
	To     string
	Amount int64
	Kind   string // "debit" or "withdraw"
}

// Store implements ledger.Ledger with mutex-guarded maps.
//
// The hook fields, when set, run before the corresponding operation; a non-nil
// return aborts the call with that error. Assign them before any concurrent
// use of the store.
type Store struct {
	mu           sync.Mutex
	accounts     map[string]*account
	reservations map[ledger.ReservationRef]*reservation
	payouts      map[string]payout
	transfers    []Transfer

	LockHook     func(account string, amount int64) error
	DebitHook    func(ref ledger.ReservationRef, amount int64, toAccount string) error
	UnlockHook   func(ref ledger.ReservationRef) error
	WithdrawHook func(account string, amount int64, idempotencyKey string) error
}

// New creates an empty in-memory ledger.
func New() *Store {
	return &Store{
		accounts:     make(map[string]*account),
		reservations: make(map[ledger.ReservationRef]*reservation),
		payouts:      make(map[string]payout),
	}
}

// Make sure we conform to the interfaces
var _ ledger.Ledger = (*Store)(nil)
var _ ledger.Accounts = (*Store)(nil)

// Seed creates (or resets) an account with the given spendable balance.
func (s *Store) Seed(acct string, balance int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[acct] = &account{balance: balance}
}

// CreateAccount creates an account with an opening balance.
func (s *Store) CreateAccount(_ context.Context, acct string, balance int64) (*ledger.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[acct]; ok {
		return nil, ledger.Permanent(ledger.ErrAccountExists)
	}
	s.accounts[acct] = &account{balance: balance}
	return &ledger.Account{AccountId: acct, Balance: balance}, nil
}

// GetAccount returns the current balances for an account.
func (s *Store) GetAccount(_ context.Context, acct string) (*ledger.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[acct]
	if !ok {
		return nil, ledger.Permanent(ledger.ErrAccountNotFound)
	}
	return &ledger.Account{AccountId: acct, Balance: a.balance, Reserved: a.reserved}, nil
}

// Credit adds amount to an account's balance, creating it when missing.
func (s *Store) Credit(_ context.Context, acct string, amount int64) (*ledger.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[acct]
	if !ok {
		a = &account{}
		s.accounts[acct] = a
	}
	a.balance += amount
	return &ledger.Account{AccountId: acct, Balance: a.balance, Reserved: a.reserved}, nil
}

// Balance returns an account's spendable and reserved amounts.
func (s *Store) Balance(acct string) (balance, reserved int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[acct]
	if !ok {
		return 0, 0
	}
	return a.balance, a.reserved
}

// Transfers returns a copy of every confirmed transfer so far.
func (s *Store) Transfers() []Transfer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Transfer, len(s.transfers))
	copy(out, s.transfers)
	return out
}

func (s *Store) Lock(_ context.Context, acct string, amount int64) (ledger.ReservationRef, error) {
	if s.LockHook != nil {
		if err := s.LockHook(acct, amount); err != nil {
			return "", err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[acct]
	if !ok {
		return "", ledger.Permanent(ledger.ErrAccountNotFound)
	}
	if a.balance < amount {
		return "", ledger.ErrInsufficientBalance
	}

	a.balance -= amount
	a.reserved += amount

	ref := ledger.ReservationRef(uuid.New().String())
	s.reservations[ref] = &reservation{account: acct, remaining: amount}
	return ref, nil
}

func (s *Store) Debit(_ context.Context, ref ledger.ReservationRef, amount int64, toAccount string) (ledger.TxRef, error) {
	if s.DebitHook != nil {
		if err := s.DebitHook(ref, amount, toAccount); err != nil {
			return "", err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.reservations[ref]
	if !ok {
		return "", ledger.Permanent(ledger.ErrReservationNotFound)
	}
	if res.released {
		return "", ledger.Permanent(ledger.ErrReservationNotFound)
	}
	if res.remaining < amount {
		return "", ledger.Permanent(ledger.ErrInsufficientBalance)
	}
	to, ok := s.accounts[toAccount]
	if !ok {
		// Credits create the destination account, like a chain transfer.
		to = &account{}
		s.accounts[toAccount] = to
	}
	from := s.accounts[res.account]

	res.remaining -= amount
	from.reserved -= amount
	to.balance += amount

	txRef := ledger.TxRef(uuid.New().String())
	s.transfers = append(s.transfers, Transfer{TxRef: txRef, From: res.account, To: toAccount, Amount: amount, Kind: "debit"})
	return txRef, nil
}

func (s *Store) Unlock(_ context.Context, ref ledger.ReservationRef, _ int64) error {
	if s.UnlockHook != nil {
		if err := s.UnlockHook(ref); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.reservations[ref]
	if !ok {
		return ledger.Permanent(ledger.ErrReservationNotFound)
	}
	if res.released {
		// Already released; unlock is idempotent.
		return nil
	}

	// The ledger's own remainder is authoritative for the amount returned.
	a := s.accounts[res.account]
	a.balance += res.remaining
	a.reserved -= res.remaining
	res.remaining = 0
	res.released = true
	return nil
}

func (s *Store) Withdraw(_ context.Context, acct string, amount int64, idempotencyKey string) (ledger.TxRef, error) {
	if s.WithdrawHook != nil {
		if err := s.WithdrawHook(acct, amount, idempotencyKey); err != nil {
			return "", err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.payouts[idempotencyKey]; ok {
		// Repeat of a completed withdrawal: same receipt, no second transfer.
		return p.txRef, nil
	}

	a, ok := s.accounts[acct]
	if !ok {
		return "", ledger.Permanent(ledger.ErrAccountNotFound)
	}
	if a.balance < amount {
		return "", ledger.ErrInsufficientBalance
	}

	a.balance -= amount
	txRef := ledger.TxRef(uuid.New().String())
	s.payouts[idempotencyKey] = payout{txRef: txRef, amount: amount}
	s.transfers = append(s.transfers, Transfer{TxRef: txRef, From: acct, To: "external", Amount: amount, Kind: "withdraw"})
	return txRef, nil
}

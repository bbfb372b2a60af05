package ledger

import (
	"errors"
	"fmt"
)

// ErrInsufficientBalance is returned by Lock when the account cannot cover the
// requested reservation, and by Withdraw when settled funds have already left
// the account.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrReservationNotFound is returned when a reservation reference does not
// resolve. It is always permanent; the session holding the reference cannot
// recover.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrAccountNotFound is returned when an account handle does not resolve.
var ErrAccountNotFound = errors.New("account not found")

// ErrAccountExists is returned by CreateAccount when the account id is taken.
var ErrAccountExists = errors.New("account already exists")

// Error classifies a ledger failure as transient (worth retrying with backoff)
// or permanent (fatal to the operation, and to the session when it occurs
// mid-settlement). Errors from the underlying transport that carry no
// classification are treated as permanent.
type Error struct {
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	if e.Retryable {
		return fmt.Sprintf("ledger: transient: %v", e.Err)
	}
	return fmt.Sprintf("ledger: permanent: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Transient wraps err as a retryable ledger failure.
func Transient(err error) error {
	return &Error{Retryable: true, Err: err}
}

// Permanent wraps err as a non-retryable ledger failure.
func Permanent(err error) error {
	return &Error{Retryable: false, Err: err}
}

// IsTransient reports whether err is classified as retryable.
func IsTransient(err error) bool {
	var le *Error
	if errors.As(err, &le) {
		return le.Retryable
	}
	return false
}

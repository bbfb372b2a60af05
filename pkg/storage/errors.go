package storage

import "errors"

// ErrDuplicateRecord is returned when a settlement record with the same
// session id and sequence number has already been journaled. A duplicate means
// the tick sequence replayed or forked; it is never silently absorbed.
var ErrDuplicateRecord = errors.New("settlement record already journaled")

// ErrWithdrawalExists is returned when a withdrawal idempotency key is already taken.
var ErrWithdrawalExists = errors.New("withdrawal already exists")

// ErrWithdrawalNotFound is returned when no withdrawal exists under a key.
var ErrWithdrawalNotFound = errors.New("withdrawal not found")

// ErrWithdrawalNotPending is returned when completing or failing a withdrawal
// that is not in the PENDING state.
var ErrWithdrawalNotPending = errors.New("withdrawal not in a pending state")

// ErrSessionNotFound is returned when a session id resolves to nothing.
var ErrSessionNotFound = errors.New("session not found")

// ErrStreamNotFound is returned when a stream id resolves to nothing.
var ErrStreamNotFound = errors.New("stream not found")

// ErrStreamExists is returned when registering a stream id that is taken.
var ErrStreamExists = errors.New("stream already exists")

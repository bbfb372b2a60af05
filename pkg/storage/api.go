package storage

// ApiStore defines the complete set of operations needed by the HTTP API.
// It composes other interfaces to provide a clear boundary for the API's data
// access; the privileged journal writer is deliberately absent, only the
// settlement engine appends.
type ApiStore interface {
	StreamStore
	JournalReader
	WithdrawalReader
	SessionReader
}

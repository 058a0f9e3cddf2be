package domain

import "errors"

// Usage errors: caller/protocol violations, surfaced synchronously and
// never retried.
var (
	ErrInvalidSpreadCount = errors.New("spread count must be between 1 and 10")
	ErrIndexOutOfRange    = errors.New("card index out of range")
	ErrInsufficientCards  = errors.New("not enough cards remain in the deck")
	ErrWrongPhase         = errors.New("operation not allowed in current phase")
	ErrInterpretInFlight  = errors.New("an interpretation request is already in flight")
)

// ErrStaleInterpretation marks a relay outcome belonging to a
// superseded request cycle. The outcome is dropped, never stored.
var ErrStaleInterpretation = errors.New("interpretation outcome is stale")

// Lookup errors.
var (
	ErrSpreadNotFound  = errors.New("spread not found")
	ErrSessionNotFound = errors.New("session not found")
)

// Relay errors: transient failures of the interpretation boundary,
// captured as an InterpretationFailed phase rather than propagated.
var (
	ErrRelayClient   = errors.New("relay rejected the request")
	ErrRelayUpstream = errors.New("upstream model failure")
	ErrRelayInternal = errors.New("relay internal failure")
)

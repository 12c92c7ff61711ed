package store

import "errors"

// Common store errors used across all store implementations.
var (
	// ErrEmptyThreadID is returned when an operation names no thread.
	ErrEmptyThreadID = errors.New("thread ID cannot be empty")

	// ErrAcquireTimeout is returned when a store connection could not be
	// acquired within the caller's deadline. The request is safe to retry;
	// no state was touched.
	ErrAcquireTimeout = errors.New("store connection acquisition timed out")

	// ErrPoolOverloaded is returned when the connection pool already has
	// its maximum number of waiting callers. Distinct from a timeout so
	// the gateway can answer with a too-many-requests class.
	ErrPoolOverloaded = errors.New("store connection pool overloaded")

	// ErrTransactionFailed is returned when a thread update could not be
	// committed. No partial mutation is visible afterwards.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrInvalidState is returned when a persisted conversation state
	// cannot be decoded or an update produces an invalid state.
	ErrInvalidState = errors.New("invalid conversation state")
)

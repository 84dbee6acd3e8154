package errors

import "fmt"

var (
	// ErrAuthentication rejects a connection attempt; no session state
	// may exist once it is returned.
	ErrAuthentication = fmt.Errorf("authentication failed")

	// ErrUnknownSession means an operation referenced a session that is
	// not registered. Non-fatal, reported to the caller.
	ErrUnknownSession = fmt.Errorf("unknown session")

	// ErrDelivery means a single session's transport write failed or its
	// buffer was full. Isolated and logged, never propagated past the
	// dispatcher.
	ErrDelivery = fmt.Errorf("delivery failed")

	// ErrDurability means a datastore commit failed inside the outbox.
	// Propagated; no live event may be emitted for the failed record.
	ErrDurability = fmt.Errorf("datastore commit failed")

	// ErrSinkClosed means the session's outbound buffer was torn down
	// while a delivery was in flight.
	ErrSinkClosed = fmt.Errorf("%w: sink closed", ErrDelivery)

	// ErrSinkFull means the session's outbound buffer had no capacity;
	// the frame is dropped rather than blocking the broadcast.
	ErrSinkFull = fmt.Errorf("%w: sink buffer full", ErrDelivery)

	ErrWorkerPanic     = fmt.Errorf("worker panic")
	ErrRecordNotFound  = fmt.Errorf("record not found")
	ErrTokenGeneration = fmt.Errorf("unable to generate token")
)

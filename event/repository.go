package event

import (
	"context"
)

/* Small, focused interfaces following "The Go Way"
 * Interfaces abstract behavior, not things
 * Written for users of the API, not just for testing
 */

// Reader provides read operations for inbound events
type Reader interface {
	/* Context is always the first parameter in functions that do I/O
	 * This allows for cancellation, timeouts, and shared values
	 */
	Get(ctx context.Context, id string) (InboundEvent, error)

	// Count returns the total number of persisted events, used by the
	// health endpoint as a cheap datastore liveness check
	Count(ctx context.Context) (int64, error)
}

// Writer provides write operations for inbound events
type Writer interface {
	/* Store persists an event and returns its ID
	 * Persistence failure is terminal for the request: no side effects
	 * run for an event that was not stored
	 */
	Store(ctx context.Context, ev InboundEvent) (string, error)
}

/* Interface composition - combining small interfaces into larger ones
 * This is preferred over large monolithic interfaces
 */
type Repository interface {
	Reader
	Writer
	Close(ctx context.Context) error
}

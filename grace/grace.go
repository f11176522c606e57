// Package grace defines the grace-period capability consumed by
// readmostly. A Domain tracks registered readers and guarantees that a
// retired destructor runs only after every read region that was active
// at retirement (or racing with it) has exited.
//
// Package rcu provides the default epoch-based implementation.
package grace

import "context"

// Domain is a grace-period engine. Implementations must support
// concurrent use from any goroutine.
type Domain interface {
	// Register adds a reader to the domain. The returned Reader is
	// owned by a single goroutine and must be unregistered when that
	// goroutine is done with it.
	Register() (Reader, error)

	// Retire schedules fn to run once no read region that could still
	// observe state from before the call remains active. fn runs at
	// most a short, bounded time after the last such region exits, on
	// an unspecified goroutine.
	Retire(fn func())

	// Synchronize blocks until every read region active on entry has
	// exited, or ctx is done. On success, any state unreachable before
	// the call is unreachable by every reader.
	Synchronize(ctx context.Context) error

	// Close stops the domain's background work and drains pending
	// retirements. After Close, Register fails.
	Close(ctx context.Context) error
}

// Reader is one registered reader's read-side handle. Enter/Exit
// delimit a read region and may nest; both are cheap and never block.
// A Reader must not be used from more than one goroutine at a time,
// and misuse after Unregister panics rather than silently dropping
// protection.
type Reader interface {
	Enter()
	Exit()
	Unregister()
}

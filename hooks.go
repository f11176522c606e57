package readmostly

// Hooks are lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking - the pointer calls
// them on hot paths. ptr is the Main's identity (stable for its
// lifetime, unique within the process).
type Hooks interface {
	// A GetShared was served from the calling thread's cache.
	CacheHit(ptr uint64)

	// A GetShared performed a fresh acquisition and replaced the
	// calling thread's cache entry.
	CacheRefresh(ptr uint64)

	// A GetShared observed an empty slot and dropped the calling
	// thread's stale cache entry.
	CacheEvict(ptr uint64)

	// Reset handed a superseded payload to the grace-period domain.
	Retired(ptr uint64)

	// A payload's release callback ran (reference count hit zero).
	Released(ptr uint64)

	// Close could not prove reader quiescence before its context
	// expired; the owner reference went to the deferred path.
	SyncTimeout(ptr uint64, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) CacheHit(uint64)           {}
func (NopHooks) CacheRefresh(uint64)       {}
func (NopHooks) CacheEvict(uint64)         {}
func (NopHooks) Retired(uint64)            {}
func (NopHooks) Released(uint64)           {}
func (NopHooks) SyncTimeout(uint64, error) {}

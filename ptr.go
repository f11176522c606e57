package readmostly

import (
	"context"
	"sync/atomic"
)

// Main is the owning pointer: the single source of truth for the
// current payload. Exactly one logical writer may call Reset/Close at a
// time (serialize externally if needed); any number of goroutines may
// read concurrently through Get, GetShared and Weak.
type Main[T any] struct {
	id      uint64
	cur     atomic.Pointer[cell[T]]
	domain  Domain
	log     Logger
	hooks   Hooks
	release func(*T)
	closed  atomic.Bool
}

// Reset installs v (which may be nil) as the current payload and hands
// the superseded one to the grace-period domain. It returns
// immediately: the old payload's release is deferred until no read
// region that could still acquire it remains active, and further until
// every shared handle and thread cache entry holding it is dropped.
func (m *Main[T]) Reset(v *T) {
	if m.closed.Load() {
		panic("readmostly: Reset on closed Main")
	}
	var nc *cell[T]
	if v != nil {
		nc = newCell(m, v)
	}
	old := m.cur.Swap(nc)
	if old == nil {
		return
	}
	m.hooks.Retired(m.id)
	m.log.Debug("payload retired", Fields{"ptr": m.id})
	m.domain.Retire(old.drop)
}

// Get returns a raw, non-owning observation of the current payload, or
// nil. No reference is retained: the result is for immediate, bounded,
// non-escaping use only. A concurrent Reset may release the referent's
// resources once its grace period elapses.
func (m *Main[T]) Get() *T {
	c := m.cur.Load()
	if c == nil {
		return nil
	}
	return c.val
}

// GetShared returns a snapshot handle to the current payload, or an
// empty handle when the slot is nil. th must be the calling goroutine's
// registered Thread.
//
// The hot path is a cache hit: when th's cached cell for this Main is
// still current, the handle shares the cached reference and no read
// region is entered. On a miss the acquisition happens inside the
// domain's read protection and replaces th's cache entry.
func (m *Main[T]) GetShared(th *Thread) Shared[T] {
	th.check()

	cur := m.cur.Load()
	if cur != nil {
		// The cache entry's own reference keeps hit alive, so the
		// retain is safe outside read protection.
		if hit, ok := th.lookup(m.id).(*cell[T]); ok && hit == cur {
			m.hooks.CacheHit(m.id)
			hit.retain()
			return Shared[T]{c: hit}
		}
	}

	// Fresh acquisition. Both the handle's reference and the cache
	// entry's reference are taken inside the read region: the owner
	// contribution of whatever cell we load cannot be dropped until we
	// leave it.
	th.reader.Enter()
	c := m.cur.Load()
	if c != nil {
		c.retain() // returned handle
		c.retain() // cache entry
	}
	th.reader.Exit()

	if c == nil {
		if th.evict(m.id) {
			m.hooks.CacheEvict(m.id)
		}
		return Shared[T]{}
	}
	th.store(m.id, c)
	m.hooks.CacheRefresh(m.id)
	return Shared[T]{c: c}
}

// Weak returns an observer of this Main's identity. It keeps no payload
// alive and remains valid after Close (Lock then yields empty handles).
func (m *Main[T]) Weak() Weak[T] {
	return Weak[T]{m: m}
}

// Close tears the Main down: it clears the slot, synchronizes with the
// domain so no in-flight acquisition is still mid-read, then drops the
// owner reference directly. The payload is released on the calling
// goroutine unless outstanding handles or cache entries still hold it.
// Idempotent; later calls return nil.
//
// If ctx expires before quiescence is proven, the owner reference is
// handed to the deferred path instead (nothing leaks) and a
// *TeardownError is returned.
func (m *Main[T]) Close(ctx context.Context) error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	old := m.cur.Swap(nil)
	err := m.domain.Synchronize(ctx)
	if old != nil {
		if err != nil {
			m.domain.Retire(old.drop)
		} else {
			old.drop()
		}
	}
	if err != nil {
		m.hooks.SyncTimeout(m.id, err)
		m.log.Warn("close could not prove quiescence", Fields{"ptr": m.id, "err": err})
		return &TeardownError{Ptr: m.id, SyncErr: err}
	}
	m.log.Debug("closed", Fields{"ptr": m.id})
	return nil
}

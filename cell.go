package readmostly

import "sync/atomic"

// cell carries one payload plus its reference count. The Main slot, the
// domain's retire queue, shared handles and thread cache entries each
// own one count contribution; the count is the only coordination
// between them.
type cell[T any] struct {
	val     *T
	refs    atomic.Int64
	ptrID   uint64
	release func(*T)
	hooks   Hooks
	done    atomic.Bool
}

func newCell[T any](m *Main[T], v *T) *cell[T] {
	c := &cell[T]{val: v, ptrID: m.id, release: m.release, hooks: m.hooks}
	c.refs.Store(1) // owner contribution
	return c
}

// retain must only be called while the caller already holds (or is
// read-protected against the drop of) another contribution.
func (c *cell[T]) retain() {
	if c.refs.Add(1) <= 1 {
		panic("readmostly: retain of released payload")
	}
}

func (c *cell[T]) drop() {
	n := c.refs.Add(-1)
	if n > 0 {
		return
	}
	if n < 0 || !c.done.CompareAndSwap(false, true) {
		panic("readmostly: payload released twice")
	}
	if c.release != nil {
		c.release(c.val)
	}
	c.hooks.Released(c.ptrID)
}

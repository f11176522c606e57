package readmostly

import (
	"sync/atomic"

	gp "github.com/unkn0wn-root/readmostly/grace"
)

// Re-exported so callers that only plug in an engine don't need a
// second import. readmostly.Domain and grace.Domain are the same type.
type (
	Domain = gp.Domain
	Reader = gp.Reader
)

// Options tune a Main pointer. All fields are optional.
type Options[T any] struct {
	Domain  Domain   // nil => process-wide default rcu domain
	Logger  Logger   // nil => NopLogger
	Hooks   Hooks    // nil => NopHooks
	Release func(*T) // run exactly once per payload when its last reference drops
	Initial *T       // pre-populate the slot
}

// nextPtrID hands out Main identities; thread caches key on them.
var nextPtrID atomic.Uint64

// New constructs a Main pointer. The caller owns the write side:
// Reset and Close must be externally serialized, reads are always safe.
func New[T any](opts Options[T]) *Main[T] {
	m := &Main[T]{
		id:      nextPtrID.Add(1),
		domain:  opts.Domain,
		log:     coalesce[Logger](opts.Logger, NopLogger{}),
		hooks:   coalesce[Hooks](opts.Hooks, NopHooks{}),
		release: opts.Release,
	}
	if m.domain == nil {
		m.domain = DefaultDomain()
	}
	if opts.Initial != nil {
		m.cur.Store(newCell(m, opts.Initial))
	}
	return m
}

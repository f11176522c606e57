package readmostly

// Weak observes a Main's identity, not any specific payload. Holding a
// Weak never keeps a payload alive and never delays Close.
type Weak[T any] struct {
	m *Main[T]
}

// Lock upgrades to a snapshot handle of whatever payload is current at
// call time. It returns an empty handle when the Main holds nil, has
// been closed, or the Weak is the zero value.
func (w Weak[T]) Lock(th *Thread) Shared[T] {
	if w.m == nil || w.m.closed.Load() {
		return Shared[T]{}
	}
	return w.m.GetShared(th)
}

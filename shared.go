package readmostly

// Shared is a snapshot handle: an independent strong reference to one
// specific payload, obtained at a point in time. It stays valid for its
// entire lifetime regardless of later writes to the Main it came from.
//
// The zero value is empty. Duplicate with Clone, not by assignment:
// a plain copy aliases the same reference count contribution.
type Shared[T any] struct {
	c *cell[T]
}

// Get returns the payload, or nil for an empty handle.
func (s *Shared[T]) Get() *T {
	if s.c == nil {
		return nil
	}
	return s.c.val
}

// Deref returns the payload value. Dereferencing an empty handle is a
// precondition violation and panics.
func (s *Shared[T]) Deref() T {
	if s.c == nil {
		panic("readmostly: nil dereference")
	}
	return *s.c.val
}

// Empty reports whether the handle references no payload.
func (s *Shared[T]) Empty() bool {
	return s.c == nil
}

// Clone returns a new handle owning its own reference to the same
// payload.
func (s *Shared[T]) Clone() Shared[T] {
	if s.c == nil {
		return Shared[T]{}
	}
	s.c.retain()
	return Shared[T]{c: s.c}
}

// Release drops the handle's reference and empties it. The goroutine
// that drops the last reference runs the payload's release callback.
// Releasing an empty handle is a no-op.
func (s *Shared[T]) Release() {
	if s.c == nil {
		return
	}
	c := s.c
	s.c = nil
	c.drop()
}

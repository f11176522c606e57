// Package readmostly implements a read-mostly concurrent pointer: a
// single logical slot holding a pointer to an immutable payload,
// written rarely by one owner and read frequently by many goroutines.
// Readers never block writers and writers never block readers.
//
// Components:
//   - Main[T]: the owning pointer. Reset atomically installs a new
//     payload and retires the old one to the grace-period domain.
//   - Shared[T]: a snapshot handle; an independent strong reference to
//     one specific payload, valid across later writes.
//   - Weak[T]: observes a Main's identity without keeping any payload
//     alive; Lock upgrades to a Shared of whatever is current.
//   - Thread: per-goroutine registration with the domain plus a cache
//     holding one strong reference per Main, so repeated reads with no
//     intervening write skip the acquisition cost.
//   - grace.Domain: the pluggable grace-period engine. Package rcu is
//     the default epoch-based implementation.
//
// A payload is owned only through its reference count: the Main slot,
// the domain's retire queue, shared handles and thread cache entries
// each hold one contribution, and the release callback runs exactly
// once when the count reaches zero.
//
// Read pattern:
//
//	th, _ := readmostly.Register(nil) // once per goroutine
//	defer th.Close()
//
//	s := ptr.GetShared(th)
//	defer s.Release()
//	use(s.Get())
//
// Writes never invalidate other goroutines' caches eagerly; a thread
// that cached a superseded payload keeps it alive until its next
// acquisition or until Thread.Close, whichever comes first.
package readmostly

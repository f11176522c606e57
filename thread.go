package readmostly

// Thread is a goroutine's registration with the grace-period domain
// plus its acquisition cache: at most one strong reference per Main,
// keyed by the Main's identity. It is a capability object, not ambient
// state - every read path takes it explicitly.
//
// A Thread is owned by a single goroutine. Using a nil or closed Thread
// on a read path panics: silently skipping registration would trade a
// loud failure for a use-after-release.
type Thread struct {
	domain Domain
	reader Reader
	slots  map[uint64]cacheSlot
	closed bool
}

// cacheSlot is the type-erased cache entry; *cell[T] implements it.
// Each stored slot owns one reference count contribution.
type cacheSlot interface {
	drop()
}

// Register registers the calling goroutine with d (nil => the
// process-wide default domain) and returns its Thread. Call Close when
// the goroutine is done reading; until then the cache may keep
// superseded payloads alive.
func Register(d Domain) (*Thread, error) {
	if d == nil {
		d = DefaultDomain()
	}
	r, err := d.Register()
	if err != nil {
		return nil, err
	}
	return &Thread{
		domain: d,
		reader: r,
		slots:  make(map[uint64]cacheSlot),
	}, nil
}

// Close releases every cache entry this thread owns and unregisters it
// from the domain. Idempotent.
func (t *Thread) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	for id, s := range t.slots {
		delete(t.slots, id)
		s.drop()
	}
	t.reader.Unregister()
	return nil
}

func (t *Thread) check() {
	if t == nil || t.closed {
		panic("readmostly: goroutine not registered (nil or closed Thread)")
	}
}

func (t *Thread) lookup(id uint64) cacheSlot {
	return t.slots[id]
}

// store replaces the cache entry for id, dropping the previous entry's
// reference. s must already carry the cache's reference.
func (t *Thread) store(id uint64, s cacheSlot) {
	if old, ok := t.slots[id]; ok {
		old.drop()
	}
	t.slots[id] = s
}

func (t *Thread) evict(id uint64) bool {
	old, ok := t.slots[id]
	if !ok {
		return false
	}
	delete(t.slots, id)
	old.drop()
	return true
}

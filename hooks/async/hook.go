// Package asynchook decorates a readmostly.Hooks with a bounded queue
// and worker pool so slow sinks never stall Reset/GetShared. Events
// that do not fit in the queue are dropped.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    CacheHitEvery: 1000, // sample the hot path
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	ptr := readmostly.New(readmostly.Options[Config]{
//	    Hooks: hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/readmostly"
)

type Hooks struct {
	inner readmostly.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ readmostly.Hooks = (*Hooks)(nil)

func New(inner readmostly.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) CacheHit(ptr uint64)     { h.try(func() { h.inner.CacheHit(ptr) }) }
func (h *Hooks) CacheRefresh(ptr uint64) { h.try(func() { h.inner.CacheRefresh(ptr) }) }
func (h *Hooks) CacheEvict(ptr uint64)   { h.try(func() { h.inner.CacheEvict(ptr) }) }
func (h *Hooks) Retired(ptr uint64)      { h.try(func() { h.inner.Retired(ptr) }) }
func (h *Hooks) Released(ptr uint64)     { h.try(func() { h.inner.Released(ptr) }) }
func (h *Hooks) SyncTimeout(ptr uint64, err error) {
	h.try(func() { h.inner.SyncTimeout(ptr, err) })
}

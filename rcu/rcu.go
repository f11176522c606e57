// Package rcu is the default grace-period engine for readmostly:
// epoch-based quiescent-state tracking with deferred reclamation.
//
// Readers pin the global epoch while inside a read region. A retired
// destructor is stamped with the epoch at retirement; it runs once
// every active reader has moved past that epoch. Reclamation happens on
// a background goroutine, kicked after each retirement and backstopped
// by a ticker, so a retired payload with no readers is released within
// microseconds, not a full tick.
package rcu

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/readmostly/grace"
)

const defaultReclaimInterval = 10 * time.Millisecond

// ErrClosed is returned by Register on a closed domain.
var ErrClosed = errors.New("rcu: domain closed")

// Options tune a Domain. The zero value is usable.
type Options struct {
	// ReclaimInterval is the period of the background reclaim pass.
	// Retire kicks the reclaimer directly, so this is only a backstop
	// for readers that go quiescent without further retirements.
	// 0 => 10ms.
	ReclaimInterval time.Duration
}

type retired struct {
	epoch uint64
	fn    func()
}

// Domain implements grace.Domain.
type Domain struct {
	// epoch starts at 1 so a reader pin of 0 can mean quiescent.
	epoch atomic.Uint64

	mu      sync.Mutex
	readers map[*reader]struct{}
	queue   []retired
	closed  bool

	kick      chan struct{}
	ticker    *time.Ticker
	stopCh    chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

var _ grace.Domain = (*Domain)(nil)

func New(opts Options) *Domain {
	d := &Domain{
		readers: make(map[*reader]struct{}),
		kick:    make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
	}
	d.epoch.Store(1)

	interval := opts.ReclaimInterval
	if interval <= 0 {
		interval = defaultReclaimInterval
	}
	d.ticker = time.NewTicker(interval)
	d.wg.Add(1)
	go d.reclaimLoop()
	return d
}

func (d *Domain) Register() (grace.Reader, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrClosed
	}
	r := &reader{d: d}
	d.readers[r] = struct{}{}
	return r, nil
}

// Retire stamps fn with the current epoch and advances it. fn becomes
// runnable once every reader pin is above the stamp: a reader that
// loaded pre-retirement state pinned at or below it (the epoch only
// moves after the stamp is recorded), so it holds fn back until Exit.
func (d *Domain) Retire(fn func()) {
	d.mu.Lock()
	if d.closed {
		// No new read regions can start on a closed domain; run inline.
		d.mu.Unlock()
		fn()
		return
	}
	d.queue = append(d.queue, retired{epoch: d.epoch.Load(), fn: fn})
	d.epoch.Add(1)
	d.mu.Unlock()

	select {
	case d.kick <- struct{}{}:
	default:
	}
}

// Synchronize advances the epoch and waits until no reader pins an
// epoch at or below the pre-advance value, i.e. until every read region
// active on entry has exited. The wait spins briefly, then backs off to
// microsecond sleeps.
func (d *Domain) Synchronize(ctx context.Context) error {
	target := d.epoch.Add(1) - 1
	spin := 0
	for d.minPinned() <= target {
		if err := ctx.Err(); err != nil {
			return err
		}
		if spin < 64 {
			spin++
			runtime.Gosched()
			continue
		}
		time.Sleep(time.Microsecond)
	}
	d.reclaim()
	return nil
}

// Close stops the reclaimer, waits for reader quiescence and drains the
// retire queue. Draining proceeds even when ctx expires first: pending
// destructors are owed exactly one invocation and there is no later
// point to run them.
func (d *Domain) Close(ctx context.Context) (err error) {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()

		close(d.stopCh)
		d.wg.Wait()
		d.ticker.Stop()

		err = d.Synchronize(ctx)

		d.mu.Lock()
		pending := d.queue
		d.queue = nil
		d.mu.Unlock()
		for _, it := range pending {
			it.fn()
		}
	})
	return err
}

func (d *Domain) reclaimLoop() {
	defer d.wg.Done()
	for {
		select {
		case <-d.ticker.C:
			d.reclaim()
		case <-d.kick:
			d.reclaim()
		case <-d.stopCh:
			return
		}
	}
}

// reclaim runs every queued destructor whose stamp is below the minimum
// pinned epoch. The minimum and the queue split are taken under the
// same lock so a reader registered mid-pass cannot be missed.
func (d *Domain) reclaim() {
	d.mu.Lock()
	min := minPinnedLocked(d.readers)
	var run []func()
	keep := d.queue[:0]
	for _, it := range d.queue {
		if it.epoch < min {
			run = append(run, it.fn)
		} else {
			keep = append(keep, it)
		}
	}
	d.queue = keep
	d.mu.Unlock()

	for _, fn := range run {
		fn()
	}
}

func (d *Domain) minPinned() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return minPinnedLocked(d.readers)
}

func minPinnedLocked(readers map[*reader]struct{}) uint64 {
	min := ^uint64(0)
	for r := range readers {
		if e := r.pinned.Load(); e != 0 && e < min {
			min = e
		}
	}
	return min
}

// reader pins the domain epoch while inside a read region. depth is
// touched only by the owning goroutine; pinned is read concurrently by
// the reclaimer.
type reader struct {
	d      *Domain
	pinned atomic.Uint64 // 0 => quiescent
	depth  int
	gone   atomic.Bool
}

var _ grace.Reader = (*reader)(nil)

func (r *reader) Enter() {
	if r.gone.Load() {
		panic("rcu: Enter on unregistered reader")
	}
	if r.depth == 0 {
		r.pinned.Store(r.d.epoch.Load())
	}
	r.depth++
}

func (r *reader) Exit() {
	if r.depth == 0 {
		panic("rcu: Exit without matching Enter")
	}
	r.depth--
	if r.depth == 0 {
		r.pinned.Store(0)
	}
}

func (r *reader) Unregister() {
	if r.depth != 0 {
		panic("rcu: Unregister inside read region")
	}
	if !r.gone.CompareAndSwap(false, true) {
		panic("rcu: reader unregistered twice")
	}
	r.d.mu.Lock()
	delete(r.d.readers, r)
	r.d.mu.Unlock()
}

package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/readmostly"
)

type Options struct {
	// Sampling for the hot-path events to avoid floods; 0/1 = log all.
	CacheHitEvery     uint64
	CacheRefreshEvery uint64
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	hitCtr     atomic.Uint64
	refreshCtr atomic.Uint64
}

var _ readmostly.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) CacheHit(ptr uint64) {
	if h.l == nil || !sample(h.opts.CacheHitEvery, &h.hitCtr) {
		return
	}
	h.l.Debug("readmostly.cache_hit", "ptr", ptr)
}

func (h *Hooks) CacheRefresh(ptr uint64) {
	if h.l == nil || !sample(h.opts.CacheRefreshEvery, &h.refreshCtr) {
		return
	}
	h.l.Debug("readmostly.cache_refresh", "ptr", ptr)
}

func (h *Hooks) CacheEvict(ptr uint64) {
	if h.l == nil {
		return
	}
	h.l.Debug("readmostly.cache_evict", "ptr", ptr)
}

func (h *Hooks) Retired(ptr uint64) {
	if h.l == nil {
		return
	}
	h.l.Debug("readmostly.retired", "ptr", ptr)
}

func (h *Hooks) Released(ptr uint64) {
	if h.l == nil {
		return
	}
	h.l.Debug("readmostly.released", "ptr", ptr)
}

func (h *Hooks) SyncTimeout(ptr uint64, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("readmostly.sync_timeout", "ptr", ptr, "err", err)
}

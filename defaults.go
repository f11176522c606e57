package readmostly

import (
	"sync"

	"github.com/unkn0wn-root/readmostly/rcu"
)

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

var (
	defaultDomainOnce sync.Once
	defaultDomain     Domain
)

// DefaultDomain returns the process-wide rcu domain backing Mains and
// Registers that were not given one. It lives for the process; it is
// never closed.
func DefaultDomain() Domain {
	defaultDomainOnce.Do(func() {
		defaultDomain = rcu.New(rcu.Options{})
	})
	return defaultDomain
}

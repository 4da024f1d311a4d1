package store

import (
	"slices"
	"strings"
)

// Lockable is any pool that can take part in WithLock.
type Lockable interface {
	lockName() string
	lock()
	unlock()
}

// WithLock write-locks every given pool in alphabetical name order, runs fn and releases
// them. Two callers that share pools always acquire them in the same order.
func WithLock(fn func() error, pools ...Lockable) error {
	ordered := make([]Lockable, 0, len(pools))
	for _, p := range pools {
		if p == nil || slices.Contains(ordered, p) {
			continue
		}
		ordered = append(ordered, p)
	}
	slices.SortFunc(ordered, func(a, b Lockable) int {
		return strings.Compare(a.lockName(), b.lockName())
	})

	for _, p := range ordered {
		p.lock()
	}
	defer func() {
		for i := len(ordered) - 1; i >= 0; i-- {
			ordered[i].unlock()
		}
	}()
	return fn()
}

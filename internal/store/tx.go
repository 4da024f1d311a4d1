package store

import (
	"cmp"
	"fmt"
)

// Tx is the unlocked view of a pool held by WithLock. Every call panics when the pool is not
// currently locked, which turns a missing WithLock into a test failure instead of a race.
type Tx[K cmp.Ordered, T any, P Record[K, T]] struct {
	p *Pool[K, T, P]
}

func (t Tx[K, T, P]) check() {
	if !t.p.held.Load() {
		panic(fmt.Sprintf("store: %s used outside WithLock", t.p.name))
	}
}

func (t Tx[K, T, P]) Get(key K) (T, error) {
	t.check()
	return t.p.get(key)
}

func (t Tx[K, T, P]) Exists(key K) bool {
	t.check()
	_, ok := t.p.index[key]
	return ok
}

func (t Tx[K, T, P]) List() []T {
	t.check()
	return t.p.filter(nil)
}

func (t Tx[K, T, P]) Filter(pred func(T) bool) []T {
	t.check()
	return t.p.filter(pred)
}

// Any reports whether at least one record matches pred without copying the collection.
func (t Tx[K, T, P]) Any(pred func(T) bool) bool {
	t.check()
	for i := range t.p.records {
		if pred(t.p.records[i]) {
			return true
		}
	}
	return false
}

func (t Tx[K, T, P]) Add(rec T) (T, error) {
	t.check()
	out, err := t.p.add(rec)
	t.p.observe("add", err)
	return out, err
}

func (t Tx[K, T, P]) Update(key K, rec T) (T, error) {
	t.check()
	out, err := t.p.update(key, rec)
	t.p.observe("update", err)
	return out, err
}

func (t Tx[K, T, P]) Replace(key K, apply func(*T) error) (T, error) {
	t.check()
	out, err := t.p.replace(key, apply)
	t.p.observe("replace", err)
	return out, err
}

func (t Tx[K, T, P]) Remove(key K) error {
	t.check()
	err := t.p.remove(key)
	t.p.observe("remove", err)
	return err
}

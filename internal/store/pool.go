package store

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/angelmondragon/warehouse-backend/internal/model"
	pkgerrors "github.com/angelmondragon/warehouse-backend/pkg/errors"
	"github.com/angelmondragon/warehouse-backend/pkg/pagination"
)

// Record is implemented by pointers to the entity types held in a pool.
type Record[K cmp.Ordered, T any] interface {
	*T
	RecordKey() K
	AssignKey(K)
	Stamps() *model.Timestamps
	Clone() T
}

// Observer is told about every pool operation; metrics hang off it.
type Observer func(pool, op string, size int, err error)

// Pool is the in-memory repository for one entity type. Records keep insertion order.
// Reads hand out copies; nothing outside the pool holds a reference into its storage.
type Pool[K cmp.Ordered, T any, P Record[K, T]] struct {
	name string

	mu      sync.RWMutex
	held    atomic.Bool
	records []T
	index   map[K]int
	seq     Sequence[K]

	dirty   bool
	version uint64

	clock    func() time.Time
	observer Observer
}

func NewPool[K cmp.Ordered, T any, P Record[K, T]](name string, seq Sequence[K]) *Pool[K, T, P] {
	return &Pool[K, T, P]{
		name:  name,
		index: make(map[K]int),
		seq:   seq,
		clock: func() time.Time { return time.Now().UTC() },
	}
}

func (p *Pool[K, T, P]) Name() string { return p.name }

// SetClock replaces the timestamp source.
func (p *Pool[K, T, P]) SetClock(clock func() time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock = clock
}

func (p *Pool[K, T, P]) SetObserver(o Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observer = o
}

func (p *Pool[K, T, P]) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.records)
}

func (p *Pool[K, T, P]) List() []T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.filter(nil)
}

func (p *Pool[K, T, P]) Get(key K) (T, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.get(key)
}

func (p *Pool[K, T, P]) Exists(key K) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.index[key]
	return ok
}

// Filter returns copies of every record matching pred, in insertion order.
func (p *Pool[K, T, P]) Filter(pred func(T) bool) []T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.filter(pred)
}

// Page filters, sorts and slices the collection. It returns the page and the number of
// records that matched before slicing.
func (p *Pool[K, T, P]) Page(params pagination.Params, pred func(T) bool) ([]T, int) {
	matched := p.Filter(pred)
	sortRecords[K, T, P](matched, params.Sort)
	start, end := params.Bounds(len(matched))
	return matched[start:end], len(matched)
}

func (p *Pool[K, T, P]) Add(rec T) (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out, err := p.add(rec)
	p.observe("add", err)
	return out, err
}

func (p *Pool[K, T, P]) Update(key K, rec T) (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out, err := p.update(key, rec)
	p.observe("update", err)
	return out, err
}

func (p *Pool[K, T, P]) Replace(key K, apply func(*T) error) (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out, err := p.replace(key, apply)
	p.observe("replace", err)
	return out, err
}

func (p *Pool[K, T, P]) Remove(key K) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.remove(key)
	p.observe("remove", err)
	return err
}

// Tx returns the unlocked view of the pool. It may only be used inside a WithLock callback
// that holds this pool.
func (p *Pool[K, T, P]) Tx() Tx[K, T, P] {
	return Tx[K, T, P]{p: p}
}

func (p *Pool[K, T, P]) lockName() string { return p.name }

func (p *Pool[K, T, P]) lock() {
	p.mu.Lock()
	p.held.Store(true)
}

func (p *Pool[K, T, P]) unlock() {
	p.held.Store(false)
	p.mu.Unlock()
}

func (p *Pool[K, T, P]) get(key K) (T, error) {
	idx, ok := p.index[key]
	if !ok {
		var zero T
		return zero, pkgerrors.Newf(pkgerrors.CodeNotFound, "%s %v not found", p.name, key)
	}
	return P(&p.records[idx]).Clone(), nil
}

func (p *Pool[K, T, P]) filter(pred func(T) bool) []T {
	out := make([]T, 0, len(p.records))
	for i := range p.records {
		if pred != nil && !pred(p.records[i]) {
			continue
		}
		out = append(out, P(&p.records[i]).Clone())
	}
	return out
}

func (p *Pool[K, T, P]) add(rec T) (T, error) {
	ptr := P(&rec)
	key := ptr.RecordKey()

	var zeroKey K
	if key == zeroKey {
		next, err := p.seq.Next(func(k K) bool {
			_, taken := p.index[k]
			return taken
		})
		if err != nil {
			var zero T
			return zero, err
		}
		ptr.AssignKey(next)
		key = next
	} else {
		if _, exists := p.index[key]; exists {
			var zero T
			return zero, pkgerrors.Newf(pkgerrors.CodeConflict, "%s %v already exists", p.name, key)
		}
		p.seq.Observe(key)
	}

	now := p.clock()
	stamps := ptr.Stamps()
	if stamps.CreatedAt.IsZero() {
		stamps.CreatedAt = now
	}
	if stamps.UpdatedAt.IsZero() {
		stamps.UpdatedAt = now
	}

	stored := ptr.Clone()
	p.records = append(p.records, stored)
	p.index[key] = len(p.records) - 1
	p.touch()
	return ptr.Clone(), nil
}

func (p *Pool[K, T, P]) update(key K, rec T) (T, error) {
	idx, ok := p.index[key]
	if !ok {
		var zero T
		return zero, pkgerrors.Newf(pkgerrors.CodeNotFound, "%s %v not found", p.name, key)
	}
	ptr := P(&rec)
	ptr.AssignKey(key)
	stamps := ptr.Stamps()
	stamps.CreatedAt = P(&p.records[idx]).Stamps().CreatedAt
	stamps.UpdatedAt = p.clock()

	p.records[idx] = ptr.Clone()
	p.touch()
	return ptr.Clone(), nil
}

func (p *Pool[K, T, P]) replace(key K, apply func(*T) error) (T, error) {
	idx, ok := p.index[key]
	if !ok {
		var zero T
		return zero, pkgerrors.Newf(pkgerrors.CodeNotFound, "%s %v not found", p.name, key)
	}
	original := P(&p.records[idx])
	next := original.Clone()
	if apply != nil {
		if err := apply(&next); err != nil {
			var zero T
			return zero, err
		}
	}
	ptr := P(&next)
	ptr.AssignKey(key)
	stamps := ptr.Stamps()
	stamps.CreatedAt = original.Stamps().CreatedAt
	stamps.UpdatedAt = p.clock()

	p.records[idx] = ptr.Clone()
	p.touch()
	return ptr.Clone(), nil
}

func (p *Pool[K, T, P]) remove(key K) error {
	idx, ok := p.index[key]
	if !ok {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "%s %v not found", p.name, key)
	}
	p.records = slices.Delete(p.records, idx, idx+1)
	delete(p.index, key)
	for i := idx; i < len(p.records); i++ {
		p.index[P(&p.records[i]).RecordKey()] = i
	}
	p.touch()
	return nil
}

func (p *Pool[K, T, P]) touch() {
	p.dirty = true
	p.version++
}

func (p *Pool[K, T, P]) observe(op string, err error) {
	if p.observer != nil {
		p.observer(p.name, op, len(p.records), err)
	}
}

// Dirty reports whether the pool changed since it was last flushed.
func (p *Pool[K, T, P]) Dirty() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dirty
}

func (p *Pool[K, T, P]) poolName() string { return p.name }

func (p *Pool[K, T, P]) isDirty() bool { return p.Dirty() }

// snapshot encodes the collection together with the version it reflects.
func (p *Pool[K, T, P]) snapshot() ([]byte, uint64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	records := p.records
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, 0, fmt.Errorf("encode %s: %w", p.name, err)
	}
	return data, p.version, nil
}

// markClean clears the dirty flag unless the pool changed after the snapshot was taken.
func (p *Pool[K, T, P]) markClean(version uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.version == version {
		p.dirty = false
	}
}

// load replaces the collection with a persisted document. Duplicate keys are malformed data.
func (p *Pool[K, T, P]) load(data []byte) error {
	var records []T
	if len(data) > 0 {
		if err := json.Unmarshal(data, &records); err != nil {
			return fmt.Errorf("decode %s: %w", p.name, err)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	index := make(map[K]int, len(records))
	var zeroKey K
	for i := range records {
		key := P(&records[i]).RecordKey()
		if key == zeroKey {
			return fmt.Errorf("decode %s: record %d has no key", p.name, i)
		}
		if _, dup := index[key]; dup {
			return fmt.Errorf("decode %s: duplicate key %v", p.name, key)
		}
		index[key] = i
		p.seq.Observe(key)
	}
	p.records = records
	p.index = index
	p.dirty = false
	return nil
}

func (p *Pool[K, T, P]) sequenceValue() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.seq.Current()
}

func (p *Pool[K, T, P]) restoreSequence(v int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq.Reset(v)
}

func sortRecords[K cmp.Ordered, T any, P Record[K, T]](records []T, s pagination.Sort) {
	if s.Field == "" {
		return
	}
	slices.SortStableFunc(records, func(a, b T) int {
		pa, pb := P(&a), P(&b)
		var c int
		switch s.Field {
		case pagination.SortCreatedAt:
			c = pa.Stamps().CreatedAt.Compare(pb.Stamps().CreatedAt)
		case pagination.SortUpdatedAt:
			c = pa.Stamps().UpdatedAt.Compare(pb.Stamps().UpdatedAt)
		default:
			c = cmp.Compare(pa.RecordKey(), pb.RecordKey())
		}
		if s.Desc {
			return -c
		}
		return c
	})
}

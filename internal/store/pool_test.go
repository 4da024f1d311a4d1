package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/warehouse-backend/internal/model"
	pkgerrors "github.com/angelmondragon/warehouse-backend/pkg/errors"
	"github.com/angelmondragon/warehouse-backend/pkg/pagination"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClientPool(clock *fakeClock) *ClientPool {
	p := NewPool[int, model.Client](NameClients, &IntSequence{})
	p.SetClock(clock.Now)
	return p
}

func TestPoolAddAssignsIDAndTimestamps(t *testing.T) {
	clock := newFakeClock()
	p := newClientPool(clock)

	got, err := p.Add(model.Client{Name: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, 1, got.ID)
	assert.Equal(t, clock.Now(), got.CreatedAt)
	assert.Equal(t, clock.Now(), got.UpdatedAt)

	stored, err := p.Get(got.ID)
	require.NoError(t, err)
	assert.Equal(t, got, stored)
	assert.True(t, p.Dirty())
}

func TestPoolAddKeepsSuppliedTimestamps(t *testing.T) {
	p := newClientPool(newFakeClock())
	created := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := p.Add(model.Client{Name: "Acme", Timestamps: model.Timestamps{CreatedAt: created, UpdatedAt: created}})
	require.NoError(t, err)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, created, got.UpdatedAt)
}

func TestPoolAddExplicitID(t *testing.T) {
	p := newClientPool(newFakeClock())

	_, err := p.Add(model.Client{ID: 7, Name: "Seven"})
	require.NoError(t, err)

	_, err = p.Add(model.Client{ID: 7, Name: "Again"})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeConflict))

	next, err := p.Add(model.Client{Name: "Next"})
	require.NoError(t, err)
	assert.Equal(t, 8, next.ID)
}

func TestPoolIDsAreNotReused(t *testing.T) {
	p := newClientPool(newFakeClock())
	for range 3 {
		_, err := p.Add(model.Client{Name: "c"})
		require.NoError(t, err)
	}
	require.NoError(t, p.Remove(3))

	got, err := p.Add(model.Client{Name: "d"})
	require.NoError(t, err)
	assert.Equal(t, 4, got.ID)
}

func TestPoolUpdatePreservesIdentity(t *testing.T) {
	clock := newFakeClock()
	p := newClientPool(clock)
	created, err := p.Add(model.Client{Name: "Acme", City: "Rotterdam"})
	require.NoError(t, err)

	clock.Advance(time.Hour)
	got, err := p.Update(created.ID, model.Client{ID: 99, Name: "Acme BV"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
	assert.Equal(t, clock.Now(), got.UpdatedAt)
	assert.Empty(t, got.City)

	_, err = p.Update(42, model.Client{Name: "nobody"})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestPoolReplaceMerges(t *testing.T) {
	clock := newFakeClock()
	p := newClientPool(clock)
	created, err := p.Add(model.Client{Name: "Acme", City: "Rotterdam", Country: "NL"})
	require.NoError(t, err)

	clock.Advance(time.Minute)
	patch := model.ClientPatch{City: model.Some("Delft")}
	got, err := p.Replace(created.ID, func(c *model.Client) error {
		patch.Apply(c)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, "Delft", got.City)
	assert.Equal(t, "NL", got.Country)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(created.UpdatedAt))
}

func TestPoolReplaceErrorLeavesRecord(t *testing.T) {
	p := newClientPool(newFakeClock())
	created, err := p.Add(model.Client{Name: "Acme"})
	require.NoError(t, err)

	_, err = p.Replace(created.ID, func(c *model.Client) error {
		c.Name = "changed"
		return pkgerrors.New(pkgerrors.CodeValidation, "nope")
	})
	require.Error(t, err)

	stored, err := p.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", stored.Name)
}

func TestPoolGetReturnsCopies(t *testing.T) {
	p := NewPool[int, model.Order](NameOrders, &IntSequence{})
	created, err := p.Add(model.Order{WarehouseID: 1, Items: []model.ItemAmount{{ItemID: "P000001", Amount: 1}}})
	require.NoError(t, err)

	got, err := p.Get(created.ID)
	require.NoError(t, err)
	got.Items[0].Amount = 100

	again, err := p.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Items[0].Amount)
}

func TestPoolRemoveKeepsOrder(t *testing.T) {
	p := newClientPool(newFakeClock())
	for _, name := range []string{"a", "b", "c", "d"} {
		_, err := p.Add(model.Client{Name: name})
		require.NoError(t, err)
	}
	require.NoError(t, p.Remove(2))

	var names []string
	for _, c := range p.List() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"a", "c", "d"}, names)

	got, err := p.Get(4)
	require.NoError(t, err)
	assert.Equal(t, "d", got.Name)

	err = p.Remove(2)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestPoolPage(t *testing.T) {
	clock := newFakeClock()
	p := newClientPool(clock)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		_, err := p.Add(model.Client{Name: name})
		require.NoError(t, err)
		clock.Advance(time.Second)
	}

	page, total := p.Page(pagination.Params{Page: 2, PageSize: 2}, nil)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, "c", page[0].Name)

	sort, err := pagination.ParseSort("-created_at")
	require.NoError(t, err)
	page, total = p.Page(pagination.Params{Page: 1, PageSize: 3, Sort: sort}, func(c model.Client) bool {
		return c.Name != "e"
	})
	assert.Equal(t, 4, total)
	require.Len(t, page, 3)
	assert.Equal(t, "d", page[0].Name)
	assert.Equal(t, "b", page[2].Name)
}

func TestPoolItemCodes(t *testing.T) {
	p := NewPool[string, model.Item](NameItems, &CodeSequence{})

	first, err := p.Add(model.Item{Code: "A"})
	require.NoError(t, err)
	assert.Equal(t, "P000001", first.UID)

	_, err = p.Add(model.Item{UID: "P000005", Code: "B"})
	require.NoError(t, err)

	next, err := p.Add(model.Item{Code: "C"})
	require.NoError(t, err)
	assert.Equal(t, "P000006", next.UID)
}

func TestPoolObserver(t *testing.T) {
	p := newClientPool(newFakeClock())
	var ops []string
	p.SetObserver(func(pool, op string, size int, err error) {
		ops = append(ops, op)
		assert.Equal(t, NameClients, pool)
	})

	created, err := p.Add(model.Client{Name: "a"})
	require.NoError(t, err)
	require.NoError(t, p.Remove(created.ID))
	assert.Equal(t, []string{"add", "remove"}, ops)
}

func TestPoolLoadRejectsMalformedData(t *testing.T) {
	p := newClientPool(newFakeClock())

	require.Error(t, p.load([]byte(`{"id":1}`)))
	require.Error(t, p.load([]byte(`[{"id":1},{"id":1}]`)))
	require.Error(t, p.load([]byte(`[{"name":"no id"}]`)))

	require.NoError(t, p.load([]byte(`[{"id":4,"name":"x"},{"id":2,"name":"y"}]`)))
	assert.Equal(t, 2, p.Len())
	assert.False(t, p.Dirty())

	got, err := p.Add(model.Client{Name: "z"})
	require.NoError(t, err)
	assert.Equal(t, 5, got.ID)
}

func TestPoolMarkCleanAfterConcurrentWrite(t *testing.T) {
	p := newClientPool(newFakeClock())
	_, err := p.Add(model.Client{Name: "a"})
	require.NoError(t, err)

	_, version, err := p.snapshot()
	require.NoError(t, err)
	_, err = p.Add(model.Client{Name: "b"})
	require.NoError(t, err)

	p.markClean(version)
	assert.True(t, p.Dirty())
}

func TestPoolConcurrentAdds(t *testing.T) {
	p := newClientPool(newFakeClock())
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.Add(model.Client{Name: "c"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	seen := map[int]bool{}
	for _, c := range p.List() {
		assert.False(t, seen[c.ID], "duplicate id %d", c.ID)
		seen[c.ID] = true
	}
	assert.Len(t, seen, 50)
}

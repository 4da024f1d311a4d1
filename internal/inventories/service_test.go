package inventories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/warehouse-backend/internal/access"
	"github.com/angelmondragon/warehouse-backend/internal/model"
	"github.com/angelmondragon/warehouse-backend/internal/store"
	"github.com/angelmondragon/warehouse-backend/pkg/docstore"
	pkgerrors "github.com/angelmondragon/warehouse-backend/pkg/errors"
	"github.com/angelmondragon/warehouse-backend/pkg/pagination"
)

type fixture struct {
	svc   Service
	repos *store.Repositories
	item  model.Item
	locA  model.Location
	locB  model.Location
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	repos := store.New(docstore.NewMemory())
	svc, err := NewService(repos, nil)
	require.NoError(t, err)

	item, err := repos.Items.Add(model.Item{Code: "sjQ23408K"})
	require.NoError(t, err)
	locA, err := repos.Locations.Add(model.Location{WarehouseID: 1, Code: "A.1.0"})
	require.NoError(t, err)
	locB, err := repos.Locations.Add(model.Location{WarehouseID: 2, Code: "B.1.0"})
	require.NoError(t, err)
	return fixture{svc: svc, repos: repos, item: item, locA: locA, locB: locB}
}

func TestCreateRecomputesExpected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	inv, err := f.svc.Create(ctx, model.Inventory{
		ItemID:        f.item.UID,
		ItemReference: f.item.Code,
		Locations:     []int{f.locA.ID},
		TotalOnHand:   10,
		TotalOrdered:  4,
		TotalExpected: 999,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 14, inv.TotalExpected)

	patched, err := f.svc.Replace(ctx, inv.ID, model.InventoryPatch{TotalOnHand: model.Some(20)}, nil)
	require.NoError(t, err)
	assert.Equal(t, 24, patched.TotalExpected)
}

func TestItemReferenceMustMatchCode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Create(ctx, model.Inventory{ItemID: f.item.UID, ItemReference: "other", Locations: []int{f.locA.ID}}, nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	assert.Zero(t, f.repos.Inventories.Len())

	// unknown items are accepted as-is
	_, err = f.svc.Create(ctx, model.Inventory{ItemID: "P999999", ItemReference: "anything"}, nil)
	require.NoError(t, err)

	inv, err := f.svc.Create(ctx, model.Inventory{ItemID: f.item.UID, ItemReference: f.item.Code}, nil)
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, inv.ID, model.Inventory{ItemID: f.item.UID, ItemReference: "changed"}, nil)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	stored, err := f.svc.Get(ctx, inv.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, f.item.Code, stored.ItemReference)
}

func TestTotalsForItem(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	totals, err := f.svc.TotalsForItem(ctx, f.item.UID, nil)
	require.NoError(t, err)
	assert.Equal(t, model.InventoryTotals{}, totals)

	for _, loc := range []model.Location{f.locA, f.locB} {
		_, err := f.svc.Create(ctx, model.Inventory{
			ItemID:         f.item.UID,
			ItemReference:  f.item.Code,
			Locations:      []int{loc.ID},
			TotalOnHand:    10,
			TotalOrdered:   2,
			TotalAllocated: 3,
			TotalAvailable: 7,
		}, nil)
		require.NoError(t, err)
	}

	totals, err = f.svc.TotalsForItem(ctx, f.item.UID, nil)
	require.NoError(t, err)
	assert.Equal(t, model.InventoryTotals{TotalExpected: 24, TotalOrdered: 4, TotalAllocated: 6, TotalAvailable: 14}, totals)

	totals, err = f.svc.TotalsForItem(ctx, f.item.UID, access.ForWarehouses([]int{2}))
	require.NoError(t, err)
	assert.Equal(t, 7, totals.TotalAvailable)

	records, err := f.svc.ForLocations(ctx, []int{f.locB.ID}, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []int{f.locB.ID}, records[0].Locations)
}

func TestScopedWrites(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	scope := access.ForWarehouses([]int{1})

	_, err := f.svc.Create(ctx, model.Inventory{ItemID: "P000100", Locations: []int{f.locB.ID}}, scope)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForbidden))

	inv, err := f.svc.Create(ctx, model.Inventory{ItemID: "P000100", Locations: []int{f.locA.ID}}, scope)
	require.NoError(t, err)

	_, err = f.svc.Replace(ctx, inv.ID, model.InventoryPatch{Locations: model.Some([]int{f.locB.ID})}, scope)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForbidden))

	other, err := f.svc.Create(ctx, model.Inventory{ItemID: "P000101", Locations: []int{f.locB.ID}}, nil)
	require.NoError(t, err)
	_, err = f.svc.Get(ctx, other.ID, scope)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForbidden))

	page, err := f.svc.List(ctx, pagination.Params{}, scope)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestDeleteBlockedWhileItemExists(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	inv, err := f.svc.Create(ctx, model.Inventory{ItemID: f.item.UID, ItemReference: f.item.Code}, nil)
	require.NoError(t, err)

	err = f.svc.Delete(ctx, inv.ID, false, nil)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeDependencyConflict))

	require.NoError(t, f.repos.Items.Remove(f.item.UID))
	require.NoError(t, f.svc.Delete(ctx, inv.ID, false, nil))

	err = f.svc.Delete(ctx, inv.ID, false, nil)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestSearchNeedsCriteria(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.Search(ctx, model.InventoryCriteria{}, nil)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = f.svc.Create(ctx, model.Inventory{ItemID: f.item.UID, ItemReference: f.item.Code, Locations: []int{f.locA.ID}}, nil)
	require.NoError(t, err)
	loc := f.locA.ID
	found, err := f.svc.Search(ctx, model.InventoryCriteria{LocationID: &loc, ItemReference: "SJQ"}, nil)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

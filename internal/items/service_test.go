package items

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/warehouse-backend/internal/access"
	"github.com/angelmondragon/warehouse-backend/internal/inventories"
	"github.com/angelmondragon/warehouse-backend/internal/model"
	"github.com/angelmondragon/warehouse-backend/internal/store"
	"github.com/angelmondragon/warehouse-backend/pkg/docstore"
	pkgerrors "github.com/angelmondragon/warehouse-backend/pkg/errors"
	"github.com/angelmondragon/warehouse-backend/pkg/pagination"
)

func newTestService(t *testing.T) (Service, *store.Repositories) {
	t.Helper()
	repos := store.New(docstore.NewMemory())
	ledger, err := inventories.NewService(repos, nil)
	require.NoError(t, err)
	svc, err := NewService(repos, ledger, nil)
	require.NoError(t, err)
	return svc, repos
}

func TestCreateAssignsItemCodes(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	first, err := svc.Create(ctx, model.Item{Code: "sjQ23408K"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, model.Item{Code: "ZdX73546L"})
	require.NoError(t, err)
	assert.Equal(t, "P000001", first.UID)
	assert.Equal(t, "P000002", second.UID)

	got, err := svc.Get(ctx, "P000002", nil)
	require.NoError(t, err)
	assert.Equal(t, "ZdX73546L", got.Code)
}

func TestDeleteItemGuard(t *testing.T) {
	ctx := context.Background()
	svc, repos := newTestService(t)

	item, err := svc.Create(ctx, model.Item{Code: "X"})
	require.NoError(t, err)
	_, err = repos.Orders.Add(model.Order{WarehouseID: 1, Items: []model.ItemAmount{{ItemID: item.UID, Amount: 1}}})
	require.NoError(t, err)
	_, err = repos.Transfers.Add(model.Transfer{TransferTo: 1, Items: []model.ItemAmount{{ItemID: item.UID, Amount: 1}}})
	require.NoError(t, err)

	err = svc.Delete(ctx, item.UID, false, nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeDependencyConflict))
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	details, ok := appErr.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{store.NameOrders, store.NameTransfers}, details["dependents"])
	assert.True(t, repos.Items.Exists(item.UID))

	require.NoError(t, svc.Delete(ctx, item.UID, true, nil))
	assert.False(t, repos.Items.Exists(item.UID))
}

func TestScopedItems(t *testing.T) {
	ctx := context.Background()
	svc, repos := newTestService(t)

	stocked, err := svc.Create(ctx, model.Item{Code: "A"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, model.Item{Code: "B"})
	require.NoError(t, err)
	loc, err := repos.Locations.Add(model.Location{WarehouseID: 3, Code: "C.1"})
	require.NoError(t, err)
	_, err = repos.Inventories.Add(model.Inventory{ItemID: stocked.UID, ItemReference: "A", Locations: []int{loc.ID}, TotalOnHand: 5, TotalAvailable: 5})
	require.NoError(t, err)

	scope := access.ForWarehouses([]int{3})
	page, err := svc.List(ctx, pagination.Params{}, scope)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, stocked.UID, page.Items[0].UID)

	_, err = svc.Get(ctx, "P000002", scope)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForbidden))
	_, err = svc.Replace(ctx, "P000002", model.ItemPatch{Description: model.Some("x")}, scope)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForbidden))

	totals, err := svc.InventoryTotals(ctx, stocked.UID, scope)
	require.NoError(t, err)
	assert.Equal(t, 5, totals.TotalAvailable)

	records, err := svc.Inventory(ctx, stocked.UID, nil)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = svc.Inventory(ctx, "P000404", nil)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestSearchItems(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	_, err := svc.Create(ctx, model.Item{Code: "sjQ23408K", Description: "Face-to-face clear-thinking complexity", SupplierID: 34})
	require.NoError(t, err)
	_, err = svc.Create(ctx, model.Item{Code: "ZdX73546L", SupplierID: 34})
	require.NoError(t, err)

	supplier := 34
	found, err := svc.Search(ctx, model.ItemCriteria{SupplierID: &supplier, Description: "CLEAR"}, nil)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "sjQ23408K", found[0].Code)

	_, err = svc.Search(ctx, model.ItemCriteria{}, nil)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

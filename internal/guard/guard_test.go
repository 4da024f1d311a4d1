package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/warehouse-backend/internal/model"
	"github.com/angelmondragon/warehouse-backend/internal/store"
	"github.com/angelmondragon/warehouse-backend/pkg/docstore"
	pkgerrors "github.com/angelmondragon/warehouse-backend/pkg/errors"
)

func locked(t *testing.T, fn func() error, pools ...store.Lockable) error {
	t.Helper()
	return store.WithLock(fn, pools...)
}

func requireBlocked(t *testing.T, err error, dependents ...string) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependencyConflict, typed.Code())
	assert.Contains(t, typed.Message(), "dependent data exists")
	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, dependents, details["dependents"])
}

func TestClientGuard(t *testing.T) {
	repos := store.New(docstore.NewMemory())
	_, err := repos.Orders.Add(model.Order{WarehouseID: 1, ShipTo: 3, BillTo: 4})
	require.NoError(t, err)

	for _, id := range []int{3, 4} {
		err := locked(t, func() error { return Client(id, repos.Orders.Tx()) }, repos.Orders)
		requireBlocked(t, err, store.NameOrders)
	}
	assert.NoError(t, locked(t, func() error { return Client(5, repos.Orders.Tx()) }, repos.Orders))
}

func TestItemGuard(t *testing.T) {
	repos := store.New(docstore.NewMemory())
	_, err := repos.Shipments.Add(model.Shipment{SourceID: 1, Items: []model.ItemAmount{{ItemID: "P000001", Amount: 1}}})
	require.NoError(t, err)
	_, err = repos.Inventories.Add(model.Inventory{ItemID: "P000001"})
	require.NoError(t, err)
	_, err = repos.Transfers.Add(model.Transfer{TransferTo: 2, Items: []model.ItemAmount{{ItemID: "P000002", Amount: 1}}})
	require.NoError(t, err)

	check := func(uid string) error {
		return locked(t, func() error {
			return Item(uid, repos.Orders.Tx(), repos.Shipments.Tx(), repos.Transfers.Tx(), repos.Inventories.Tx())
		}, repos.Orders, repos.Shipments, repos.Transfers, repos.Inventories)
	}

	requireBlocked(t, check("P000001"), store.NameInventories, store.NameShipments)
	requireBlocked(t, check("P000002"), store.NameTransfers)
	assert.NoError(t, check("P000003"))
}

func TestSupplierLocationWarehouseGuards(t *testing.T) {
	repos := store.New(docstore.NewMemory())
	_, err := repos.Items.Add(model.Item{Code: "A", SupplierID: 7, ItemLine: 1, ItemGroup: 2, ItemType: 3})
	require.NoError(t, err)
	_, err = repos.Inventories.Add(model.Inventory{ItemID: "P000009", Locations: []int{11, 12}})
	require.NoError(t, err)
	_, err = repos.Orders.Add(model.Order{WarehouseID: 5})
	require.NoError(t, err)

	err = locked(t, func() error {
		requireBlocked(t, Supplier(7, repos.Items.Tx()), store.NameItems)
		assert.NoError(t, Supplier(8, repos.Items.Tx()))

		requireBlocked(t, Location(12, repos.Inventories.Tx()), store.NameInventories)
		assert.NoError(t, Location(13, repos.Inventories.Tx()))

		requireBlocked(t, Warehouse(5, repos.Orders.Tx()), store.NameOrders)
		assert.NoError(t, Warehouse(6, repos.Orders.Tx()))

		requireBlocked(t, Classification(KindItemLine, 1, repos.Items.Tx()), store.NameItems)
		requireBlocked(t, Classification(KindItemGroup, 2, repos.Items.Tx()), store.NameItems)
		requireBlocked(t, Classification(KindItemType, 3, repos.Items.Tx()), store.NameItems)
		assert.NoError(t, Classification(KindItemGroup, 1, repos.Items.Tx()))
		return nil
	}, repos.Items, repos.Inventories, repos.Orders)
	require.NoError(t, err)
}

func TestInventoryAndShipmentGuards(t *testing.T) {
	repos := store.New(docstore.NewMemory())
	item, err := repos.Items.Add(model.Item{Code: "A"})
	require.NoError(t, err)
	_, err = repos.Orders.Add(model.Order{WarehouseID: 1, ShipmentID: 2})
	require.NoError(t, err)

	err = locked(t, func() error {
		requireBlocked(t, Inventory(model.Inventory{ID: 1, ItemID: item.UID}, repos.Items.Tx()), store.NameItems)
		assert.NoError(t, Inventory(model.Inventory{ID: 2, ItemID: "P999999"}, repos.Items.Tx()))

		requireBlocked(t, Shipment(2, repos.Orders.Tx()), store.NameOrders)
		assert.NoError(t, Shipment(3, repos.Orders.Tx()))
		return nil
	}, repos.Items, repos.Orders)
	require.NoError(t, err)
}

// Package guard holds the pre-delete checks that refuse removing a record while other
// collections still point at it. Every check reads pool views that the caller has locked
// through store.WithLock.
package guard

import (
	"slices"

	"github.com/angelmondragon/warehouse-backend/internal/model"
	"github.com/angelmondragon/warehouse-backend/internal/store"
	pkgerrors "github.com/angelmondragon/warehouse-backend/pkg/errors"
)

// Classification kinds share one check against the items collection.
type Kind string

const (
	KindItemLine  Kind = store.NameItemLines
	KindItemGroup Kind = store.NameItemGroups
	KindItemType  Kind = store.NameItemTypes
)

// Blocked builds the DependencyConflict returned for a refused delete.
func Blocked(entity string, id any, dependents ...string) error {
	dependents = slices.Compact(slices.Sorted(slices.Values(dependents)))
	return pkgerrors.Newf(pkgerrors.CodeDependencyConflict, "%s %v cannot be deleted: dependent data exists", entity, id).
		WithDetails(map[string]any{
			"entity":     entity,
			"id":         id,
			"dependents": dependents,
		})
}

// Client is referenced by orders through ship_to and bill_to.
func Client(id int, orders store.OrderTx) error {
	if orders.Any(func(o model.Order) bool { return o.ShipTo == id || o.BillTo == id }) {
		return Blocked(store.NameClients, id, store.NameOrders)
	}
	return nil
}

// Item is referenced by the item lists of orders, shipments and transfers, and by its own
// inventory records.
func Item(uid string, orders store.OrderTx, shipments store.ShipmentTx, transfers store.TransferTx, inventories store.InventoryTx) error {
	var dependents []string
	if orders.Any(func(o model.Order) bool { return model.ContainsItem(o.Items, uid) }) {
		dependents = append(dependents, store.NameOrders)
	}
	if shipments.Any(func(s model.Shipment) bool { return model.ContainsItem(s.Items, uid) }) {
		dependents = append(dependents, store.NameShipments)
	}
	if transfers.Any(func(t model.Transfer) bool { return model.ContainsItem(t.Items, uid) }) {
		dependents = append(dependents, store.NameTransfers)
	}
	if inventories.Any(func(i model.Inventory) bool { return i.ItemID == uid }) {
		dependents = append(dependents, store.NameInventories)
	}
	if len(dependents) > 0 {
		return Blocked(store.NameItems, uid, dependents...)
	}
	return nil
}

func Supplier(id int, items store.ItemTx) error {
	if items.Any(func(i model.Item) bool { return i.SupplierID == id }) {
		return Blocked(store.NameSuppliers, id, store.NameItems)
	}
	return nil
}

func Location(id int, inventories store.InventoryTx) error {
	if inventories.Any(func(i model.Inventory) bool { return i.InLocation(id) }) {
		return Blocked(store.NameLocations, id, store.NameInventories)
	}
	return nil
}

// Warehouse only checks orders; locations of a warehouse do not block its removal.
func Warehouse(id int, orders store.OrderTx) error {
	if orders.Any(func(o model.Order) bool { return o.WarehouseID == id }) {
		return Blocked(store.NameWarehouses, id, store.NameOrders)
	}
	return nil
}

func Classification(kind Kind, id int, items store.ItemTx) error {
	field := classificationField(kind)
	if items.Any(func(i model.Item) bool { return field(i) == id }) {
		return Blocked(string(kind), id, store.NameItems)
	}
	return nil
}

func classificationField(kind Kind) func(model.Item) int {
	switch kind {
	case KindItemGroup:
		return func(i model.Item) int { return i.ItemGroup }
	case KindItemType:
		return func(i model.Item) int { return i.ItemType }
	default:
		return func(i model.Item) int { return i.ItemLine }
	}
}

// Inventory cannot be removed while the item it counts still exists.
func Inventory(inv model.Inventory, items store.ItemTx) error {
	if items.Exists(inv.ItemID) {
		return Blocked(store.NameInventories, inv.ID, store.NameItems)
	}
	return nil
}

// Shipment cannot be removed while an order points at it through shipment_id.
func Shipment(id int, orders store.OrderTx) error {
	if orders.Any(func(o model.Order) bool { return o.ShipmentID == id }) {
		return Blocked(store.NameShipments, id, store.NameOrders)
	}
	return nil
}

package access

import (
	"github.com/angelmondragon/warehouse-backend/internal/model"
	"github.com/angelmondragon/warehouse-backend/internal/store"
	pkgerrors "github.com/angelmondragon/warehouse-backend/pkg/errors"
)

// Scope restricts results to a set of warehouses. A nil *Scope is unrestricted, so services
// can take one unconditionally.
type Scope struct {
	warehouses map[int]struct{}
}

func ForWarehouses(ids []int) *Scope {
	s := &Scope{warehouses: make(map[int]struct{}, len(ids))}
	for _, id := range ids {
		s.warehouses[id] = struct{}{}
	}
	return s
}

func (s *Scope) Restricted() bool { return s != nil }

func (s *Scope) HasWarehouse(id int) bool {
	if s == nil {
		return true
	}
	_, ok := s.warehouses[id]
	return ok
}

// LocationIDs maps the scoped warehouses to their locations.
func (s *Scope) LocationIDs(locations *store.LocationPool) map[int]struct{} {
	ids := map[int]struct{}{}
	if s == nil {
		return ids
	}
	for _, l := range locations.Filter(func(l model.Location) bool { return s.HasWarehouse(l.WarehouseID) }) {
		ids[l.ID] = struct{}{}
	}
	return ids
}

func (s *Scope) Location(l model.Location) bool {
	return s.HasWarehouse(l.WarehouseID)
}

func (s *Scope) Order(o model.Order) bool {
	return s.HasWarehouse(o.WarehouseID)
}

// InventoryFilter keeps records held in at least one scoped location.
func (s *Scope) InventoryFilter(locations *store.LocationPool) func(model.Inventory) bool {
	if s == nil {
		return func(model.Inventory) bool { return true }
	}
	ids := s.LocationIDs(locations)
	return func(inv model.Inventory) bool { return inv.InAnyLocation(ids) }
}

// ItemFilter keeps items with an inventory record in a scoped location.
func (s *Scope) ItemFilter(locations *store.LocationPool, inventories *store.InventoryPool) func(model.Item) bool {
	if s == nil {
		return func(model.Item) bool { return true }
	}
	keep := s.InventoryFilter(locations)
	items := map[string]struct{}{}
	for _, inv := range inventories.Filter(keep) {
		items[inv.ItemID] = struct{}{}
	}
	return func(i model.Item) bool {
		_, ok := items[i.UID]
		return ok
	}
}

// Deny is returned when a scoped caller addresses a record outside its warehouses.
func Deny(resource string, id any) error {
	return pkgerrors.Newf(pkgerrors.CodeForbidden, "%s %v is outside your warehouses", resource, id)
}

// And combines a scope filter with an optional search predicate.
func And[T any](preds ...func(T) bool) func(T) bool {
	return func(v T) bool {
		for _, pred := range preds {
			if pred != nil && !pred(v) {
				return false
			}
		}
		return true
	}
}

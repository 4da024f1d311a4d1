// Package inventories is the inventory ledger: per item, per location quantity records plus
// the lookups the commit workflows and the item endpoints build on.
package inventories

import (
	"context"
	"fmt"

	"github.com/angelmondragon/warehouse-backend/internal/access"
	"github.com/angelmondragon/warehouse-backend/internal/guard"
	"github.com/angelmondragon/warehouse-backend/internal/model"
	"github.com/angelmondragon/warehouse-backend/internal/resource"
	"github.com/angelmondragon/warehouse-backend/internal/store"
	pkgerrors "github.com/angelmondragon/warehouse-backend/pkg/errors"
	"github.com/angelmondragon/warehouse-backend/pkg/logger"
	"github.com/angelmondragon/warehouse-backend/pkg/pagination"
)

type Service interface {
	List(ctx context.Context, params pagination.Params, scope *access.Scope) (resource.Page[model.Inventory], error)
	Get(ctx context.Context, id int, scope *access.Scope) (model.Inventory, error)
	Search(ctx context.Context, criteria model.InventoryCriteria, scope *access.Scope) ([]model.Inventory, error)
	Create(ctx context.Context, inv model.Inventory, scope *access.Scope) (model.Inventory, error)
	Update(ctx context.Context, id int, inv model.Inventory, scope *access.Scope) (model.Inventory, error)
	Replace(ctx context.Context, id int, patch model.InventoryPatch, scope *access.Scope) (model.Inventory, error)
	Delete(ctx context.Context, id int, force bool, scope *access.Scope) error

	ForItem(ctx context.Context, itemID string, scope *access.Scope) ([]model.Inventory, error)
	// TotalsForItem sums the records of one item; no records sum to zero.
	TotalsForItem(ctx context.Context, itemID string, scope *access.Scope) (model.InventoryTotals, error)
	ForLocations(ctx context.Context, locationIDs []int, scope *access.Scope) ([]model.Inventory, error)
}

type service struct {
	repos *store.Repositories
	logg  *logger.Logger
}

func NewService(repos *store.Repositories, logg *logger.Logger) (Service, error) {
	if repos == nil {
		return nil, fmt.Errorf("repositories required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repos: repos, logg: logg}, nil
}

func (s *service) visible(scope *access.Scope) func(model.Inventory) bool {
	if !scope.Restricted() {
		return nil
	}
	return scope.InventoryFilter(s.repos.Locations)
}

func (s *service) List(_ context.Context, params pagination.Params, scope *access.Scope) (resource.Page[model.Inventory], error) {
	items, total := s.repos.Inventories.Page(params, s.visible(scope))
	return resource.NewPage(items, total, params), nil
}

func (s *service) Get(_ context.Context, id int, scope *access.Scope) (model.Inventory, error) {
	inv, err := s.repos.Inventories.Get(id)
	if err != nil {
		return model.Inventory{}, err
	}
	return resource.Visible(inv, s.visible(scope), access.ResourceInventories, id)
}

func (s *service) Search(_ context.Context, criteria model.InventoryCriteria, scope *access.Scope) ([]model.Inventory, error) {
	if err := resource.RequireCriteria(criteria.Empty()); err != nil {
		return nil, err
	}
	return s.repos.Inventories.Filter(access.And(criteria.Match, s.visible(scope))), nil
}

// checkItemReference rejects a record whose item exists under a different code. Records for
// unknown items pass.
func checkItemReference(items store.ItemTx, inv model.Inventory) error {
	item, err := items.Get(inv.ItemID)
	if err != nil {
		return nil
	}
	if item.Code != inv.ItemReference {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "item_reference %q does not match code %q of item %s", inv.ItemReference, item.Code, inv.ItemID).
			WithDetails(map[string]any{"item_id": inv.ItemID, "item_reference": inv.ItemReference, "code": item.Code})
	}
	return nil
}

func (s *service) Create(ctx context.Context, inv model.Inventory, scope *access.Scope) (model.Inventory, error) {
	keep := s.visible(scope)
	if keep != nil && !keep(inv) {
		return model.Inventory{}, access.Deny(access.ResourceLocations, inv.Locations)
	}

	var created model.Inventory
	err := store.WithLock(func() error {
		if err := checkItemReference(s.repos.Items.Tx(), inv); err != nil {
			return err
		}
		inv.RecomputeExpected()
		var err error
		created, err = s.repos.Inventories.Tx().Add(inv)
		return err
	}, s.repos.Inventories, s.repos.Items)
	if err != nil {
		return model.Inventory{}, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"inventory_id": created.ID, "item_id": created.ItemID}), "inventory created")
	return created, s.flush(ctx)
}

func (s *service) Update(ctx context.Context, id int, inv model.Inventory, scope *access.Scope) (model.Inventory, error) {
	return s.write(ctx, id, scope, "inventory updated", func(current *model.Inventory) {
		inv.Timestamps = current.Timestamps
		*current = inv
	})
}

func (s *service) Replace(ctx context.Context, id int, patch model.InventoryPatch, scope *access.Scope) (model.Inventory, error) {
	return s.write(ctx, id, scope, "inventory patched", func(current *model.Inventory) {
		patch.Apply(current)
	})
}

func (s *service) write(ctx context.Context, id int, scope *access.Scope, msg string, mutate func(*model.Inventory)) (model.Inventory, error) {
	keep := s.visible(scope)

	var updated model.Inventory
	err := store.WithLock(func() error {
		items := s.repos.Items.Tx()
		var err error
		updated, err = s.repos.Inventories.Tx().Replace(id, func(current *model.Inventory) error {
			if keep != nil && !keep(*current) {
				return access.Deny(access.ResourceInventories, id)
			}
			mutate(current)
			if keep != nil && !keep(*current) {
				return access.Deny(access.ResourceLocations, current.Locations)
			}
			if err := checkItemReference(items, *current); err != nil {
				return err
			}
			current.RecomputeExpected()
			return nil
		})
		return err
	}, s.repos.Inventories, s.repos.Items)
	if err != nil {
		return model.Inventory{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "inventory_id", id), msg)
	return updated, s.flush(ctx)
}

func (s *service) Delete(ctx context.Context, id int, force bool, scope *access.Scope) error {
	keep := s.visible(scope)
	err := store.WithLock(func() error {
		inventories := s.repos.Inventories.Tx()
		inv, err := inventories.Get(id)
		if err != nil {
			return err
		}
		if keep != nil && !keep(inv) {
			return access.Deny(access.ResourceInventories, id)
		}
		if !force {
			if err := guard.Inventory(inv, s.repos.Items.Tx()); err != nil {
				return err
			}
		}
		return inventories.Remove(id)
	}, s.repos.Inventories, s.repos.Items)
	if err != nil {
		return err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"inventory_id": id, "force": force}), "inventory deleted")
	return s.flush(ctx)
}

func (s *service) ForItem(_ context.Context, itemID string, scope *access.Scope) ([]model.Inventory, error) {
	return s.repos.Inventories.Filter(access.And(
		func(inv model.Inventory) bool { return inv.ItemID == itemID },
		s.visible(scope),
	)), nil
}

func (s *service) TotalsForItem(ctx context.Context, itemID string, scope *access.Scope) (model.InventoryTotals, error) {
	records, err := s.ForItem(ctx, itemID, scope)
	if err != nil {
		return model.InventoryTotals{}, err
	}
	var totals model.InventoryTotals
	for _, inv := range records {
		totals.Add(inv)
	}
	return totals, nil
}

func (s *service) ForLocations(_ context.Context, locationIDs []int, scope *access.Scope) ([]model.Inventory, error) {
	set := make(map[int]struct{}, len(locationIDs))
	for _, id := range locationIDs {
		set[id] = struct{}{}
	}
	return s.repos.Inventories.Filter(access.And(
		func(inv model.Inventory) bool { return inv.InAnyLocation(set) },
		s.visible(scope),
	)), nil
}

func (s *service) flush(ctx context.Context) error {
	return s.repos.Flush(ctx, s.repos.Inventories)
}

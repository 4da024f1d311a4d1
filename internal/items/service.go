package items

import (
	"context"
	"fmt"

	"github.com/angelmondragon/warehouse-backend/internal/access"
	"github.com/angelmondragon/warehouse-backend/internal/guard"
	"github.com/angelmondragon/warehouse-backend/internal/inventories"
	"github.com/angelmondragon/warehouse-backend/internal/model"
	"github.com/angelmondragon/warehouse-backend/internal/resource"
	"github.com/angelmondragon/warehouse-backend/internal/store"
	"github.com/angelmondragon/warehouse-backend/pkg/logger"
	"github.com/angelmondragon/warehouse-backend/pkg/pagination"
)

// Service manages the item catalogue. Scoped callers only see items stocked in one of their
// warehouses; creating an item is never scoped since a new item has no stock yet.
type Service interface {
	List(ctx context.Context, params pagination.Params, scope *access.Scope) (resource.Page[model.Item], error)
	Get(ctx context.Context, uid string, scope *access.Scope) (model.Item, error)
	Search(ctx context.Context, criteria model.ItemCriteria, scope *access.Scope) ([]model.Item, error)
	Create(ctx context.Context, item model.Item) (model.Item, error)
	Update(ctx context.Context, uid string, item model.Item, scope *access.Scope) (model.Item, error)
	Replace(ctx context.Context, uid string, patch model.ItemPatch, scope *access.Scope) (model.Item, error)
	Delete(ctx context.Context, uid string, force bool, scope *access.Scope) error

	Inventory(ctx context.Context, uid string, scope *access.Scope) ([]model.Inventory, error)
	InventoryTotals(ctx context.Context, uid string, scope *access.Scope) (model.InventoryTotals, error)
}

type service struct {
	repos  *store.Repositories
	ledger inventories.Service
	logg   *logger.Logger
}

func NewService(repos *store.Repositories, ledger inventories.Service, logg *logger.Logger) (Service, error) {
	if repos == nil {
		return nil, fmt.Errorf("repositories required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("inventory ledger required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repos: repos, ledger: ledger, logg: logg}, nil
}

func (s *service) visible(scope *access.Scope) func(model.Item) bool {
	if !scope.Restricted() {
		return nil
	}
	return scope.ItemFilter(s.repos.Locations, s.repos.Inventories)
}

func (s *service) List(_ context.Context, params pagination.Params, scope *access.Scope) (resource.Page[model.Item], error) {
	items, total := s.repos.Items.Page(params, s.visible(scope))
	return resource.NewPage(items, total, params), nil
}

func (s *service) Get(_ context.Context, uid string, scope *access.Scope) (model.Item, error) {
	item, err := s.repos.Items.Get(uid)
	if err != nil {
		return model.Item{}, err
	}
	return resource.Visible(item, s.visible(scope), access.ResourceItems, uid)
}

func (s *service) Search(_ context.Context, criteria model.ItemCriteria, scope *access.Scope) ([]model.Item, error) {
	if err := resource.RequireCriteria(criteria.Empty()); err != nil {
		return nil, err
	}
	return s.repos.Items.Filter(access.And(criteria.Match, s.visible(scope))), nil
}

func (s *service) Create(ctx context.Context, item model.Item) (model.Item, error) {
	created, err := s.repos.Items.Add(item)
	if err != nil {
		return model.Item{}, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"item_uid": created.UID, "code": created.Code}), "item created")
	return created, s.flush(ctx)
}

func (s *service) Update(ctx context.Context, uid string, item model.Item, scope *access.Scope) (model.Item, error) {
	return s.write(ctx, uid, scope, "item updated", func(current *model.Item) {
		item.Timestamps = current.Timestamps
		*current = item
	})
}

func (s *service) Replace(ctx context.Context, uid string, patch model.ItemPatch, scope *access.Scope) (model.Item, error) {
	return s.write(ctx, uid, scope, "item patched", func(current *model.Item) {
		patch.Apply(current)
	})
}

func (s *service) write(ctx context.Context, uid string, scope *access.Scope, msg string, mutate func(*model.Item)) (model.Item, error) {
	keep := s.visible(scope)
	updated, err := s.repos.Items.Replace(uid, func(current *model.Item) error {
		if keep != nil && !keep(*current) {
			return access.Deny(access.ResourceItems, uid)
		}
		mutate(current)
		return nil
	})
	if err != nil {
		return model.Item{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "item_uid", uid), msg)
	return updated, s.flush(ctx)
}

func (s *service) Delete(ctx context.Context, uid string, force bool, scope *access.Scope) error {
	keep := s.visible(scope)
	r := s.repos
	err := store.WithLock(func() error {
		items := r.Items.Tx()
		item, err := items.Get(uid)
		if err != nil {
			return err
		}
		if keep != nil && !keep(item) {
			return access.Deny(access.ResourceItems, uid)
		}
		if !force {
			if err := guard.Item(uid, r.Orders.Tx(), r.Shipments.Tx(), r.Transfers.Tx(), r.Inventories.Tx()); err != nil {
				return err
			}
		}
		return items.Remove(uid)
	}, r.Items, r.Orders, r.Shipments, r.Transfers, r.Inventories)
	if err != nil {
		return err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"item_uid": uid, "force": force}), "item deleted")
	return s.flush(ctx)
}

func (s *service) Inventory(ctx context.Context, uid string, scope *access.Scope) ([]model.Inventory, error) {
	if _, err := s.Get(ctx, uid, scope); err != nil {
		return nil, err
	}
	return s.ledger.ForItem(ctx, uid, scope)
}

func (s *service) InventoryTotals(ctx context.Context, uid string, scope *access.Scope) (model.InventoryTotals, error) {
	if _, err := s.Get(ctx, uid, scope); err != nil {
		return model.InventoryTotals{}, err
	}
	return s.ledger.TotalsForItem(ctx, uid, scope)
}

func (s *service) flush(ctx context.Context) error {
	return s.repos.Flush(ctx, s.repos.Items)
}

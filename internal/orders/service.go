package orders

import (
	"context"
	"fmt"

	"github.com/angelmondragon/warehouse-backend/internal/access"
	"github.com/angelmondragon/warehouse-backend/internal/commit"
	"github.com/angelmondragon/warehouse-backend/internal/model"
	"github.com/angelmondragon/warehouse-backend/internal/resource"
	"github.com/angelmondragon/warehouse-backend/internal/store"
	"github.com/angelmondragon/warehouse-backend/pkg/enums"
	"github.com/angelmondragon/warehouse-backend/pkg/logger"
	"github.com/angelmondragon/warehouse-backend/pkg/pagination"
)

const aggregate = "order"

type Service interface {
	List(ctx context.Context, params pagination.Params, scope *access.Scope) (resource.Page[model.Order], error)
	Get(ctx context.Context, id int, scope *access.Scope) (model.Order, error)
	Search(ctx context.Context, criteria model.OrderCriteria, scope *access.Scope) ([]model.Order, error)
	// Create always opens the order, whatever status the caller sent.
	Create(ctx context.Context, o model.Order, scope *access.Scope) (model.Order, error)
	Update(ctx context.Context, id int, o model.Order, scope *access.Scope) (model.Order, error)
	Replace(ctx context.Context, id int, patch model.OrderPatch, scope *access.Scope) (model.Order, error)
	Delete(ctx context.Context, id int, scope *access.Scope) error

	Items(ctx context.Context, id int, scope *access.Scope) ([]model.ItemAmount, error)
	// SetItems replaces the item lines and books the change per item into the allocation of
	// one inventory record.
	SetItems(ctx context.Context, id int, items []model.ItemAmount, scope *access.Scope) (model.Order, error)
	// Commit deducts every line from the stock at the order's source location and marks the
	// order processed.
	Commit(ctx context.Context, id int, scope *access.Scope) (model.Order, error)
}

type service struct {
	repos  *store.Repositories
	runner *commit.Runner
	logg   *logger.Logger
}

func NewService(repos *store.Repositories, runner *commit.Runner, logg *logger.Logger) (Service, error) {
	if repos == nil {
		return nil, fmt.Errorf("repositories required")
	}
	if runner == nil {
		return nil, fmt.Errorf("commit runner required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repos: repos, runner: runner, logg: logg}, nil
}

func (s *service) List(_ context.Context, params pagination.Params, scope *access.Scope) (resource.Page[model.Order], error) {
	items, total := s.repos.Orders.Page(params, scope.Order)
	return resource.NewPage(items, total, params), nil
}

func (s *service) Get(_ context.Context, id int, scope *access.Scope) (model.Order, error) {
	o, err := s.repos.Orders.Get(id)
	if err != nil {
		return model.Order{}, err
	}
	return resource.Visible(o, scope.Order, access.ResourceOrders, id)
}

func (s *service) Search(_ context.Context, criteria model.OrderCriteria, scope *access.Scope) ([]model.Order, error) {
	if err := resource.RequireCriteria(criteria.Empty()); err != nil {
		return nil, err
	}
	return s.repos.Orders.Filter(access.And(criteria.Match, scope.Order)), nil
}

func (s *service) Create(ctx context.Context, o model.Order, scope *access.Scope) (model.Order, error) {
	if !scope.Order(o) {
		return model.Order{}, access.Deny(access.ResourceWarehouses, o.WarehouseID)
	}
	o.OrderStatus = enums.OrderStatusOpen

	r := s.repos
	var (
		created   model.Order
		allocated int
	)
	err := store.WithLock(func() error {
		orders := r.Orders.Tx()
		var err error
		created, err = orders.Add(o)
		if err != nil {
			return err
		}
		allocated, err = allocate(r.Inventories.Tx(), r.Locations.Tx(), created.WarehouseID, nil, created.Items)
		if err != nil {
			_ = orders.Remove(created.ID)
		}
		return err
	}, r.Orders, r.Inventories, r.Locations)
	if err != nil {
		return model.Order{}, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id":         created.ID,
		"warehouse_id":     created.WarehouseID,
		"adjusted_records": allocated,
	}), "order created")
	return created, s.flush(ctx)
}

func (s *service) Update(ctx context.Context, id int, o model.Order, scope *access.Scope) (model.Order, error) {
	return s.write(ctx, id, scope, "order updated", func(current *model.Order) {
		o.Timestamps = current.Timestamps
		*current = o
	})
}

func (s *service) Replace(ctx context.Context, id int, patch model.OrderPatch, scope *access.Scope) (model.Order, error) {
	return s.write(ctx, id, scope, "order patched", func(current *model.Order) {
		patch.Apply(current)
	})
}

// write applies mutate under the order, inventory and location locks. While the order is
// open, any change to its lines or warehouse is booked into the allocation ledger.
func (s *service) write(ctx context.Context, id int, scope *access.Scope, msg string, mutate func(*model.Order)) (model.Order, error) {
	r := s.repos
	var (
		updated   model.Order
		allocated int
	)
	err := store.WithLock(func() error {
		var err error
		updated, err = r.Orders.Tx().Replace(id, func(current *model.Order) error {
			if !scope.Order(*current) {
				return access.Deny(access.ResourceOrders, id)
			}
			before := *current
			mutate(current)
			if !scope.Order(*current) {
				return access.Deny(access.ResourceWarehouses, current.WarehouseID)
			}
			if before.OrderStatus == enums.OrderStatusProcessed {
				return nil
			}
			var allocErr error
			allocated, allocErr = rebook(r.Inventories.Tx(), r.Locations.Tx(), before, *current)
			return allocErr
		})
		return err
	}, r.Orders, r.Inventories, r.Locations)
	if err != nil {
		return model.Order{}, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"order_id": id, "adjusted_records": allocated}), msg)
	return updated, s.flush(ctx)
}

// Delete releases the allocation of an open order before removing it.
func (s *service) Delete(ctx context.Context, id int, scope *access.Scope) error {
	r := s.repos
	err := store.WithLock(func() error {
		orders := r.Orders.Tx()
		o, err := orders.Get(id)
		if err != nil {
			return err
		}
		if !scope.Order(o) {
			return access.Deny(access.ResourceOrders, id)
		}
		if o.OrderStatus != enums.OrderStatusProcessed {
			if _, err := allocate(r.Inventories.Tx(), r.Locations.Tx(), o.WarehouseID, o.Items, nil); err != nil {
				return err
			}
		}
		return orders.Remove(id)
	}, r.Orders, r.Inventories, r.Locations)
	if err != nil {
		return err
	}
	s.logg.Info(s.logg.WithField(ctx, "order_id", id), "order deleted")
	return s.flush(ctx)
}

func (s *service) Items(ctx context.Context, id int, scope *access.Scope) ([]model.ItemAmount, error) {
	o, err := s.Get(ctx, id, scope)
	if err != nil {
		return nil, err
	}
	if o.Items == nil {
		return []model.ItemAmount{}, nil
	}
	return o.Items, nil
}

func (s *service) SetItems(ctx context.Context, id int, items []model.ItemAmount, scope *access.Scope) (model.Order, error) {
	r := s.repos
	var (
		updated   model.Order
		allocated int
	)
	err := store.WithLock(func() error {
		orders := r.Orders.Tx()
		current, err := orders.Get(id)
		if err != nil {
			return err
		}
		if !scope.Order(current) {
			return access.Deny(access.ResourceOrders, id)
		}
		if err := commit.EnsureOpen(aggregate, id, current.OrderStatus, enums.OrderStatusProcessed); err != nil {
			return err
		}

		allocated, err = allocate(r.Inventories.Tx(), r.Locations.Tx(), current.WarehouseID, current.Items, items)
		if err != nil {
			return err
		}
		updated, err = orders.Replace(id, func(o *model.Order) error {
			o.Items = items
			return nil
		})
		return err
	}, r.Orders, r.Inventories, r.Locations)
	if err != nil {
		return model.Order{}, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id":         id,
		"lines":            len(items),
		"adjusted_records": allocated,
	}), "order items replaced")
	return updated, s.flush(ctx)
}

func (s *service) Commit(ctx context.Context, id int, scope *access.Scope) (model.Order, error) {
	var committed model.Order
	_, err := s.runner.Run(ctx, aggregate, id, s.repos.Orders, func(inventories store.InventoryTx) (commit.Outcome, error) {
		orders := s.repos.Orders.Tx()
		o, err := orders.Get(id)
		if err != nil {
			return commit.Outcome{}, err
		}
		if !scope.Order(o) {
			return commit.Outcome{}, access.Deny(access.ResourceOrders, id)
		}
		if err := commit.EnsureOpen(aggregate, id, o.OrderStatus, enums.OrderStatusProcessed); err != nil {
			return commit.Outcome{}, err
		}
		adjusted, err := commit.Adjust(inventories, o.Items, commit.Deduct(o.CommitLocation()))
		if err != nil {
			return commit.Outcome{}, err
		}
		committed, err = orders.Replace(id, func(o *model.Order) error {
			o.OrderStatus = enums.OrderStatusProcessed
			return nil
		})
		if err != nil {
			return commit.Outcome{}, err
		}
		return commit.Outcome{
			Adjusted: adjusted,
			Message:  fmt.Sprintf("Order with id: %d has been processed.", id),
		}, nil
	})
	if committed.ID == 0 {
		return model.Order{}, err
	}
	return committed, err
}

func (s *service) flush(ctx context.Context) error {
	return s.repos.Flush(ctx, s.repos.Orders, s.repos.Inventories)
}

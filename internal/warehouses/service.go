package warehouses

import (
	"context"
	"fmt"

	"github.com/angelmondragon/warehouse-backend/internal/access"
	"github.com/angelmondragon/warehouse-backend/internal/guard"
	"github.com/angelmondragon/warehouse-backend/internal/model"
	"github.com/angelmondragon/warehouse-backend/internal/resource"
	"github.com/angelmondragon/warehouse-backend/internal/store"
	"github.com/angelmondragon/warehouse-backend/pkg/logger"
	"github.com/angelmondragon/warehouse-backend/pkg/pagination"
)

// Service exposes warehouse management operations.
type Service interface {
	List(ctx context.Context, params pagination.Params) (resource.Page[model.Warehouse], error)
	Get(ctx context.Context, id int) (model.Warehouse, error)
	Search(ctx context.Context, criteria model.WarehouseCriteria) ([]model.Warehouse, error)
	Create(ctx context.Context, w model.Warehouse) (model.Warehouse, error)
	Update(ctx context.Context, id int, w model.Warehouse) (model.Warehouse, error)
	Replace(ctx context.Context, id int, patch model.WarehousePatch) (model.Warehouse, error)
	Delete(ctx context.Context, id int, force bool) error
	Locations(ctx context.Context, id int, scope *access.Scope) ([]model.Location, error)
	Orders(ctx context.Context, id int, scope *access.Scope) ([]model.Order, error)
}

type service struct {
	repos *store.Repositories
	logg  *logger.Logger
}

// NewService constructs the warehouse service.
func NewService(repos *store.Repositories, logg *logger.Logger) (Service, error) {
	if repos == nil {
		return nil, fmt.Errorf("repositories required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repos: repos, logg: logg}, nil
}

func (s *service) List(_ context.Context, params pagination.Params) (resource.Page[model.Warehouse], error) {
	items, total := s.repos.Warehouses.Page(params, nil)
	return resource.NewPage(items, total, params), nil
}

func (s *service) Get(_ context.Context, id int) (model.Warehouse, error) {
	return s.repos.Warehouses.Get(id)
}

func (s *service) Search(_ context.Context, criteria model.WarehouseCriteria) ([]model.Warehouse, error) {
	if err := resource.RequireCriteria(criteria.Empty()); err != nil {
		return nil, err
	}
	return s.repos.Warehouses.Filter(criteria.Match), nil
}

func (s *service) Create(ctx context.Context, w model.Warehouse) (model.Warehouse, error) {
	created, err := s.repos.Warehouses.Add(w)
	if err != nil {
		return model.Warehouse{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "warehouse_id", created.ID), "warehouse created")
	return created, s.flush(ctx)
}

func (s *service) Update(ctx context.Context, id int, w model.Warehouse) (model.Warehouse, error) {
	updated, err := s.repos.Warehouses.Update(id, w)
	if err != nil {
		return model.Warehouse{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "warehouse_id", id), "warehouse updated")
	return updated, s.flush(ctx)
}

func (s *service) Replace(ctx context.Context, id int, patch model.WarehousePatch) (model.Warehouse, error) {
	updated, err := s.repos.Warehouses.Replace(id, func(w *model.Warehouse) error {
		patch.Apply(w)
		return nil
	})
	if err != nil {
		return model.Warehouse{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "warehouse_id", id), "warehouse patched")
	return updated, s.flush(ctx)
}

func (s *service) Delete(ctx context.Context, id int, force bool) error {
	err := store.WithLock(func() error {
		warehouses := s.repos.Warehouses.Tx()
		if _, err := warehouses.Get(id); err != nil {
			return err
		}
		if !force {
			if err := guard.Warehouse(id, s.repos.Orders.Tx()); err != nil {
				return err
			}
		}
		return warehouses.Remove(id)
	}, s.repos.Warehouses, s.repos.Orders)
	if err != nil {
		return err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"warehouse_id": id, "force": force}), "warehouse deleted")
	return s.flush(ctx)
}

func (s *service) Locations(_ context.Context, id int, scope *access.Scope) ([]model.Location, error) {
	if _, err := s.repos.Warehouses.Get(id); err != nil {
		return nil, err
	}
	if !scope.HasWarehouse(id) {
		return nil, access.Deny(access.ResourceWarehouses, id)
	}
	return s.repos.Locations.Filter(func(l model.Location) bool { return l.WarehouseID == id }), nil
}

func (s *service) Orders(_ context.Context, id int, scope *access.Scope) ([]model.Order, error) {
	if _, err := s.repos.Warehouses.Get(id); err != nil {
		return nil, err
	}
	if !scope.HasWarehouse(id) {
		return nil, access.Deny(access.ResourceWarehouses, id)
	}
	return s.repos.Orders.Filter(func(o model.Order) bool { return o.WarehouseID == id }), nil
}

func (s *service) flush(ctx context.Context) error {
	return s.repos.Flush(ctx, s.repos.Warehouses)
}

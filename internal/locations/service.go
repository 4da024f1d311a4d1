package locations

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

// Service exposes location management. Every call takes the caller's warehouse scope; a nil
// scope is unrestricted.
type Service interface {
	List(ctx context.Context, params pagination.Params, scope *access.Scope) (resource.Page[model.Location], error)
	Get(ctx context.Context, id int, scope *access.Scope) (model.Location, error)
	Search(ctx context.Context, criteria model.LocationCriteria, scope *access.Scope) ([]model.Location, error)
	Create(ctx context.Context, l model.Location, scope *access.Scope) (model.Location, error)
	Update(ctx context.Context, id int, l model.Location, scope *access.Scope) (model.Location, error)
	Replace(ctx context.Context, id int, patch model.LocationPatch, scope *access.Scope) (model.Location, error)
	Delete(ctx context.Context, id int, force bool, scope *access.Scope) error
	Inventories(ctx context.Context, id int, scope *access.Scope) ([]model.Inventory, error)
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

func (s *service) List(_ context.Context, params pagination.Params, scope *access.Scope) (resource.Page[model.Location], error) {
	var keep func(model.Location) bool
	if scope.Restricted() {
		keep = scope.Location
	}
	items, total := s.repos.Locations.Page(params, keep)
	return resource.NewPage(items, total, params), nil
}

func (s *service) Get(_ context.Context, id int, scope *access.Scope) (model.Location, error) {
	l, err := s.repos.Locations.Get(id)
	if err != nil {
		return model.Location{}, err
	}
	return resource.Visible(l, scope.Location, access.ResourceLocations, id)
}

func (s *service) Search(_ context.Context, criteria model.LocationCriteria, scope *access.Scope) ([]model.Location, error) {
	if err := resource.RequireCriteria(criteria.Empty()); err != nil {
		return nil, err
	}
	return s.repos.Locations.Filter(access.And(criteria.Match, scope.Location)), nil
}

func (s *service) Create(ctx context.Context, l model.Location, scope *access.Scope) (model.Location, error) {
	if !scope.HasWarehouse(l.WarehouseID) {
		return model.Location{}, access.Deny(access.ResourceWarehouses, l.WarehouseID)
	}
	created, err := s.repos.Locations.Add(l)
	if err != nil {
		return model.Location{}, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"location_id": created.ID, "warehouse_id": created.WarehouseID}), "location created")
	return created, s.flush(ctx)
}

func (s *service) Update(ctx context.Context, id int, l model.Location, scope *access.Scope) (model.Location, error) {
	updated, err := s.repos.Locations.Replace(id, func(current *model.Location) error {
		if !scope.Location(*current) {
			return access.Deny(access.ResourceLocations, id)
		}
		if !scope.HasWarehouse(l.WarehouseID) {
			return access.Deny(access.ResourceWarehouses, l.WarehouseID)
		}
		l.Timestamps = current.Timestamps
		*current = l
		return nil
	})
	if err != nil {
		return model.Location{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "location_id", id), "location updated")
	return updated, s.flush(ctx)
}

func (s *service) Replace(ctx context.Context, id int, patch model.LocationPatch, scope *access.Scope) (model.Location, error) {
	updated, err := s.repos.Locations.Replace(id, func(current *model.Location) error {
		if !scope.Location(*current) {
			return access.Deny(access.ResourceLocations, id)
		}
		patch.Apply(current)
		if !scope.Location(*current) {
			return access.Deny(access.ResourceWarehouses, current.WarehouseID)
		}
		return nil
	})
	if err != nil {
		return model.Location{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "location_id", id), "location patched")
	return updated, s.flush(ctx)
}

func (s *service) Delete(ctx context.Context, id int, force bool, scope *access.Scope) error {
	err := store.WithLock(func() error {
		locations := s.repos.Locations.Tx()
		l, err := locations.Get(id)
		if err != nil {
			return err
		}
		if !scope.Location(l) {
			return access.Deny(access.ResourceLocations, id)
		}
		if !force {
			if err := guard.Location(id, s.repos.Inventories.Tx()); err != nil {
				return err
			}
		}
		return locations.Remove(id)
	}, s.repos.Locations, s.repos.Inventories)
	if err != nil {
		return err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"location_id": id, "force": force}), "location deleted")
	return s.flush(ctx)
}

func (s *service) Inventories(ctx context.Context, id int, scope *access.Scope) ([]model.Inventory, error) {
	if _, err := s.Get(ctx, id, scope); err != nil {
		return nil, err
	}
	return s.repos.Inventories.Filter(func(inv model.Inventory) bool { return inv.InLocation(id) }), nil
}

func (s *service) flush(ctx context.Context) error {
	return s.repos.Flush(ctx, s.repos.Locations)
}

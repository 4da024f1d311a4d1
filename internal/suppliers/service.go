package suppliers

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

type Service interface {
	List(ctx context.Context, params pagination.Params) (resource.Page[model.Supplier], error)
	Get(ctx context.Context, id int) (model.Supplier, error)
	Search(ctx context.Context, criteria model.SupplierCriteria) ([]model.Supplier, error)
	Create(ctx context.Context, sup model.Supplier) (model.Supplier, error)
	Update(ctx context.Context, id int, sup model.Supplier) (model.Supplier, error)
	Replace(ctx context.Context, id int, patch model.SupplierPatch) (model.Supplier, error)
	Delete(ctx context.Context, id int, force bool) error
	Items(ctx context.Context, id int, scope *access.Scope) ([]model.Item, error)
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

func (s *service) List(_ context.Context, params pagination.Params) (resource.Page[model.Supplier], error) {
	items, total := s.repos.Suppliers.Page(params, nil)
	return resource.NewPage(items, total, params), nil
}

func (s *service) Get(_ context.Context, id int) (model.Supplier, error) {
	return s.repos.Suppliers.Get(id)
}

func (s *service) Search(_ context.Context, criteria model.SupplierCriteria) ([]model.Supplier, error) {
	if err := resource.RequireCriteria(criteria.Empty()); err != nil {
		return nil, err
	}
	return s.repos.Suppliers.Filter(criteria.Match), nil
}

func (s *service) Create(ctx context.Context, sup model.Supplier) (model.Supplier, error) {
	created, err := s.repos.Suppliers.Add(sup)
	if err != nil {
		return model.Supplier{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "supplier_id", created.ID), "supplier created")
	return created, s.flush(ctx)
}

func (s *service) Update(ctx context.Context, id int, sup model.Supplier) (model.Supplier, error) {
	updated, err := s.repos.Suppliers.Update(id, sup)
	if err != nil {
		return model.Supplier{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "supplier_id", id), "supplier updated")
	return updated, s.flush(ctx)
}

func (s *service) Replace(ctx context.Context, id int, patch model.SupplierPatch) (model.Supplier, error) {
	updated, err := s.repos.Suppliers.Replace(id, func(sup *model.Supplier) error {
		patch.Apply(sup)
		return nil
	})
	if err != nil {
		return model.Supplier{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "supplier_id", id), "supplier patched")
	return updated, s.flush(ctx)
}

func (s *service) Delete(ctx context.Context, id int, force bool) error {
	err := store.WithLock(func() error {
		suppliers := s.repos.Suppliers.Tx()
		if _, err := suppliers.Get(id); err != nil {
			return err
		}
		if !force {
			if err := guard.Supplier(id, s.repos.Items.Tx()); err != nil {
				return err
			}
		}
		return suppliers.Remove(id)
	}, s.repos.Suppliers, s.repos.Items)
	if err != nil {
		return err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"supplier_id": id, "force": force}), "supplier deleted")
	return s.flush(ctx)
}

func (s *service) Items(_ context.Context, id int, scope *access.Scope) ([]model.Item, error) {
	if _, err := s.repos.Suppliers.Get(id); err != nil {
		return nil, err
	}
	return s.repos.Items.Filter(access.And(
		func(i model.Item) bool { return i.SupplierID == id },
		scope.ItemFilter(s.repos.Locations, s.repos.Inventories),
	)), nil
}

func (s *service) flush(ctx context.Context) error {
	return s.repos.Flush(ctx, s.repos.Suppliers)
}

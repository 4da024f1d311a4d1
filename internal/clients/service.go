package clients

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
	List(ctx context.Context, params pagination.Params) (resource.Page[model.Client], error)
	Get(ctx context.Context, id int) (model.Client, error)
	Search(ctx context.Context, criteria model.ClientCriteria) ([]model.Client, error)
	Create(ctx context.Context, c model.Client) (model.Client, error)
	Update(ctx context.Context, id int, c model.Client) (model.Client, error)
	Replace(ctx context.Context, id int, patch model.ClientPatch) (model.Client, error)
	Delete(ctx context.Context, id int, force bool) error
	// Orders lists orders shipped or billed to the client.
	Orders(ctx context.Context, id int, scope *access.Scope) ([]model.Order, error)
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

func (s *service) List(_ context.Context, params pagination.Params) (resource.Page[model.Client], error) {
	items, total := s.repos.Clients.Page(params, nil)
	return resource.NewPage(items, total, params), nil
}

func (s *service) Get(_ context.Context, id int) (model.Client, error) {
	return s.repos.Clients.Get(id)
}

func (s *service) Search(_ context.Context, criteria model.ClientCriteria) ([]model.Client, error) {
	if err := resource.RequireCriteria(criteria.Empty()); err != nil {
		return nil, err
	}
	return s.repos.Clients.Filter(criteria.Match), nil
}

func (s *service) Create(ctx context.Context, c model.Client) (model.Client, error) {
	created, err := s.repos.Clients.Add(c)
	if err != nil {
		return model.Client{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "client_id", created.ID), "client created")
	return created, s.flush(ctx)
}

func (s *service) Update(ctx context.Context, id int, c model.Client) (model.Client, error) {
	updated, err := s.repos.Clients.Update(id, c)
	if err != nil {
		return model.Client{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "client_id", id), "client updated")
	return updated, s.flush(ctx)
}

func (s *service) Replace(ctx context.Context, id int, patch model.ClientPatch) (model.Client, error) {
	updated, err := s.repos.Clients.Replace(id, func(c *model.Client) error {
		patch.Apply(c)
		return nil
	})
	if err != nil {
		return model.Client{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "client_id", id), "client patched")
	return updated, s.flush(ctx)
}

func (s *service) Delete(ctx context.Context, id int, force bool) error {
	err := store.WithLock(func() error {
		clients := s.repos.Clients.Tx()
		if _, err := clients.Get(id); err != nil {
			return err
		}
		if !force {
			if err := guard.Client(id, s.repos.Orders.Tx()); err != nil {
				return err
			}
		}
		return clients.Remove(id)
	}, s.repos.Clients, s.repos.Orders)
	if err != nil {
		return err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"client_id": id, "force": force}), "client deleted")
	return s.flush(ctx)
}

func (s *service) Orders(_ context.Context, id int, scope *access.Scope) ([]model.Order, error) {
	if _, err := s.repos.Clients.Get(id); err != nil {
		return nil, err
	}
	return s.repos.Orders.Filter(access.And(
		func(o model.Order) bool { return o.ShipTo == id || o.BillTo == id },
		scope.Order,
	)), nil
}

func (s *service) flush(ctx context.Context) error {
	return s.repos.Flush(ctx, s.repos.Clients)
}

// Package classifications serves item lines, item groups and item types. The three share a
// record shape and differ only in which item field points at them.
package classifications

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
	Kind() guard.Kind
	List(ctx context.Context, params pagination.Params) (resource.Page[model.Classification], error)
	Get(ctx context.Context, id int) (model.Classification, error)
	Search(ctx context.Context, criteria model.ClassificationCriteria) ([]model.Classification, error)
	Create(ctx context.Context, c model.Classification) (model.Classification, error)
	Update(ctx context.Context, id int, c model.Classification) (model.Classification, error)
	Replace(ctx context.Context, id int, patch model.ClassificationPatch) (model.Classification, error)
	Delete(ctx context.Context, id int, force bool) error
	Items(ctx context.Context, id int, scope *access.Scope) ([]model.Item, error)
}

type service struct {
	kind  guard.Kind
	pool  *store.ClassificationPool
	repos *store.Repositories
	logg  *logger.Logger
}

// NewService builds the service for one kind.
func NewService(kind guard.Kind, repos *store.Repositories, logg *logger.Logger) (Service, error) {
	if repos == nil {
		return nil, fmt.Errorf("repositories required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	var pool *store.ClassificationPool
	switch kind {
	case guard.KindItemLine:
		pool = repos.ItemLines
	case guard.KindItemGroup:
		pool = repos.ItemGroups
	case guard.KindItemType:
		pool = repos.ItemTypes
	default:
		return nil, fmt.Errorf("unknown classification kind %q", kind)
	}
	return &service{kind: kind, pool: pool, repos: repos, logg: logg}, nil
}

func (s *service) Kind() guard.Kind { return s.kind }

func (s *service) List(_ context.Context, params pagination.Params) (resource.Page[model.Classification], error) {
	items, total := s.pool.Page(params, nil)
	return resource.NewPage(items, total, params), nil
}

func (s *service) Get(_ context.Context, id int) (model.Classification, error) {
	return s.pool.Get(id)
}

func (s *service) Search(_ context.Context, criteria model.ClassificationCriteria) ([]model.Classification, error) {
	if err := resource.RequireCriteria(criteria.Empty()); err != nil {
		return nil, err
	}
	return s.pool.Filter(criteria.Match), nil
}

func (s *service) Create(ctx context.Context, c model.Classification) (model.Classification, error) {
	created, err := s.pool.Add(c)
	if err != nil {
		return model.Classification{}, err
	}
	s.log(ctx, created.ID, "created")
	return created, s.flush(ctx)
}

func (s *service) Update(ctx context.Context, id int, c model.Classification) (model.Classification, error) {
	updated, err := s.pool.Update(id, c)
	if err != nil {
		return model.Classification{}, err
	}
	s.log(ctx, id, "updated")
	return updated, s.flush(ctx)
}

func (s *service) Replace(ctx context.Context, id int, patch model.ClassificationPatch) (model.Classification, error) {
	updated, err := s.pool.Replace(id, func(c *model.Classification) error {
		patch.Apply(c)
		return nil
	})
	if err != nil {
		return model.Classification{}, err
	}
	s.log(ctx, id, "patched")
	return updated, s.flush(ctx)
}

func (s *service) Delete(ctx context.Context, id int, force bool) error {
	err := store.WithLock(func() error {
		tx := s.pool.Tx()
		if _, err := tx.Get(id); err != nil {
			return err
		}
		if !force {
			if err := guard.Classification(s.kind, id, s.repos.Items.Tx()); err != nil {
				return err
			}
		}
		return tx.Remove(id)
	}, s.pool, s.repos.Items)
	if err != nil {
		return err
	}
	s.log(ctx, id, "deleted")
	return s.flush(ctx)
}

func (s *service) Items(_ context.Context, id int, scope *access.Scope) ([]model.Item, error) {
	if _, err := s.pool.Get(id); err != nil {
		return nil, err
	}
	var field func(model.Item) int
	switch s.kind {
	case guard.KindItemGroup:
		field = func(i model.Item) int { return i.ItemGroup }
	case guard.KindItemType:
		field = func(i model.Item) int { return i.ItemType }
	default:
		field = func(i model.Item) int { return i.ItemLine }
	}
	return s.repos.Items.Filter(access.And(
		func(i model.Item) bool { return field(i) == id },
		scope.ItemFilter(s.repos.Locations, s.repos.Inventories),
	)), nil
}

func (s *service) log(ctx context.Context, id int, action string) {
	ctx = s.logg.WithFields(ctx, map[string]any{"kind": string(s.kind), "classification_id": id})
	s.logg.Info(ctx, "classification "+action)
}

func (s *service) flush(ctx context.Context) error {
	return s.repos.Flush(ctx, s.pool)
}

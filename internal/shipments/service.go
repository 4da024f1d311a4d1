package shipments

import (
	"context"
	"fmt"

	"github.com/angelmondragon/warehouse-backend/internal/access"
	"github.com/angelmondragon/warehouse-backend/internal/commit"
	"github.com/angelmondragon/warehouse-backend/internal/guard"
	"github.com/angelmondragon/warehouse-backend/internal/model"
	"github.com/angelmondragon/warehouse-backend/internal/resource"
	"github.com/angelmondragon/warehouse-backend/internal/store"
	"github.com/angelmondragon/warehouse-backend/pkg/enums"
	"github.com/angelmondragon/warehouse-backend/pkg/logger"
	"github.com/angelmondragon/warehouse-backend/pkg/pagination"
)

const aggregate = "shipment"

type Service interface {
	List(ctx context.Context, params pagination.Params) (resource.Page[model.Shipment], error)
	Get(ctx context.Context, id int) (model.Shipment, error)
	Search(ctx context.Context, criteria model.ShipmentCriteria) ([]model.Shipment, error)
	Create(ctx context.Context, sh model.Shipment) (model.Shipment, error)
	Update(ctx context.Context, id int, sh model.Shipment) (model.Shipment, error)
	Replace(ctx context.Context, id int, patch model.ShipmentPatch) (model.Shipment, error)
	Delete(ctx context.Context, id int, force bool) error

	Orders(ctx context.Context, id int, scope *access.Scope) ([]model.Order, error)
	Items(ctx context.Context, id int) ([]model.ItemAmount, error)
	SetItems(ctx context.Context, id int, items []model.ItemAmount) (model.Shipment, error)
	Commit(ctx context.Context, id int) (model.Shipment, error)
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

func (s *service) List(_ context.Context, params pagination.Params) (resource.Page[model.Shipment], error) {
	items, total := s.repos.Shipments.Page(params, nil)
	return resource.NewPage(items, total, params), nil
}

func (s *service) Get(_ context.Context, id int) (model.Shipment, error) {
	return s.repos.Shipments.Get(id)
}

func (s *service) Search(_ context.Context, criteria model.ShipmentCriteria) ([]model.Shipment, error) {
	if err := resource.RequireCriteria(criteria.Empty()); err != nil {
		return nil, err
	}
	return s.repos.Shipments.Filter(criteria.Match), nil
}

func (s *service) Create(ctx context.Context, sh model.Shipment) (model.Shipment, error) {
	if sh.ShipmentStatus == "" {
		sh.ShipmentStatus = enums.ShipmentStatusPending
	}
	created, err := s.repos.Shipments.Add(sh)
	if err != nil {
		return model.Shipment{}, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"shipment_id": created.ID, "order_id": created.OrderID}), "shipment created")
	return created, s.flush(ctx)
}

func (s *service) Update(ctx context.Context, id int, sh model.Shipment) (model.Shipment, error) {
	updated, err := s.repos.Shipments.Update(id, sh)
	if err != nil {
		return model.Shipment{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "shipment_id", id), "shipment updated")
	return updated, s.flush(ctx)
}

func (s *service) Replace(ctx context.Context, id int, patch model.ShipmentPatch) (model.Shipment, error) {
	updated, err := s.repos.Shipments.Replace(id, func(sh *model.Shipment) error {
		patch.Apply(sh)
		return nil
	})
	if err != nil {
		return model.Shipment{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "shipment_id", id), "shipment patched")
	return updated, s.flush(ctx)
}

func (s *service) Delete(ctx context.Context, id int, force bool) error {
	err := store.WithLock(func() error {
		shipments := s.repos.Shipments.Tx()
		if _, err := shipments.Get(id); err != nil {
			return err
		}
		if !force {
			if err := guard.Shipment(id, s.repos.Orders.Tx()); err != nil {
				return err
			}
		}
		return shipments.Remove(id)
	}, s.repos.Shipments, s.repos.Orders)
	if err != nil {
		return err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"shipment_id": id, "force": force}), "shipment deleted")
	return s.flush(ctx)
}

func (s *service) Orders(_ context.Context, id int, scope *access.Scope) ([]model.Order, error) {
	if _, err := s.repos.Shipments.Get(id); err != nil {
		return nil, err
	}
	return s.repos.Orders.Filter(access.And(
		func(o model.Order) bool { return o.ShipmentID == id },
		scope.Order,
	)), nil
}

func (s *service) Items(_ context.Context, id int) ([]model.ItemAmount, error) {
	sh, err := s.repos.Shipments.Get(id)
	if err != nil {
		return nil, err
	}
	if sh.Items == nil {
		return []model.ItemAmount{}, nil
	}
	return sh.Items, nil
}

func (s *service) SetItems(ctx context.Context, id int, items []model.ItemAmount) (model.Shipment, error) {
	updated, err := s.repos.Shipments.Replace(id, func(sh *model.Shipment) error {
		sh.Items = items
		return nil
	})
	if err != nil {
		return model.Shipment{}, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"shipment_id": id, "lines": len(items)}), "shipment items replaced")
	return updated, s.flush(ctx)
}

func (s *service) Commit(ctx context.Context, id int) (model.Shipment, error) {
	var committed model.Shipment
	_, err := s.runner.Run(ctx, aggregate, id, s.repos.Shipments, func(inventories store.InventoryTx) (commit.Outcome, error) {
		shipments := s.repos.Shipments.Tx()
		sh, err := shipments.Get(id)
		if err != nil {
			return commit.Outcome{}, err
		}
		if err := commit.EnsureOpen(aggregate, id, sh.ShipmentStatus, enums.ShipmentStatusShipped); err != nil {
			return commit.Outcome{}, err
		}
		adjusted, err := commit.Adjust(inventories, sh.Items, commit.Deduct(sh.SourceID))
		if err != nil {
			return commit.Outcome{}, err
		}
		committed, err = shipments.Replace(id, func(sh *model.Shipment) error {
			sh.ShipmentStatus = enums.ShipmentStatusShipped
			return nil
		})
		if err != nil {
			return commit.Outcome{}, err
		}
		return commit.Outcome{
			Adjusted: adjusted,
			Message:  fmt.Sprintf("Shipment with id: %d has been processed.", id),
		}, nil
	})
	if committed.ID == 0 {
		return model.Shipment{}, err
	}
	return committed, err
}

func (s *service) flush(ctx context.Context) error {
	return s.repos.Flush(ctx, s.repos.Shipments)
}

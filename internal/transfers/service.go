package transfers

import (
	"context"
	"fmt"

	"github.com/angelmondragon/warehouse-backend/internal/commit"
	"github.com/angelmondragon/warehouse-backend/internal/model"
	"github.com/angelmondragon/warehouse-backend/internal/resource"
	"github.com/angelmondragon/warehouse-backend/internal/store"
	"github.com/angelmondragon/warehouse-backend/pkg/enums"
	"github.com/angelmondragon/warehouse-backend/pkg/logger"
	"github.com/angelmondragon/warehouse-backend/pkg/pagination"
)

const aggregate = "transfer"

type Service interface {
	List(ctx context.Context, params pagination.Params) (resource.Page[model.Transfer], error)
	Get(ctx context.Context, id int) (model.Transfer, error)
	Search(ctx context.Context, criteria model.TransferCriteria) ([]model.Transfer, error)
	Create(ctx context.Context, tr model.Transfer) (model.Transfer, error)
	Update(ctx context.Context, id int, tr model.Transfer) (model.Transfer, error)
	Replace(ctx context.Context, id int, patch model.TransferPatch) (model.Transfer, error)
	Delete(ctx context.Context, id int) error

	Items(ctx context.Context, id int) ([]model.ItemAmount, error)
	SetItems(ctx context.Context, id int, items []model.ItemAmount) (model.Transfer, error)
	// Commit moves every line from transfer_from to transfer_to.
	Commit(ctx context.Context, id int) (model.Transfer, error)
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

func (s *service) List(_ context.Context, params pagination.Params) (resource.Page[model.Transfer], error) {
	items, total := s.repos.Transfers.Page(params, nil)
	return resource.NewPage(items, total, params), nil
}

func (s *service) Get(_ context.Context, id int) (model.Transfer, error) {
	return s.repos.Transfers.Get(id)
}

func (s *service) Search(_ context.Context, criteria model.TransferCriteria) ([]model.Transfer, error) {
	if err := resource.RequireCriteria(criteria.Empty()); err != nil {
		return nil, err
	}
	return s.repos.Transfers.Filter(criteria.Match), nil
}

func (s *service) Create(ctx context.Context, tr model.Transfer) (model.Transfer, error) {
	tr.TransferStatus = enums.TransferStatusScheduled
	created, err := s.repos.Transfers.Add(tr)
	if err != nil {
		return model.Transfer{}, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"transfer_id": created.ID,
		"from":        created.TransferFrom,
		"to":          created.TransferTo,
	}), "transfer created")
	return created, s.flush(ctx)
}

func (s *service) Update(ctx context.Context, id int, tr model.Transfer) (model.Transfer, error) {
	updated, err := s.repos.Transfers.Update(id, tr)
	if err != nil {
		return model.Transfer{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "transfer_id", id), "transfer updated")
	return updated, s.flush(ctx)
}

func (s *service) Replace(ctx context.Context, id int, patch model.TransferPatch) (model.Transfer, error) {
	updated, err := s.repos.Transfers.Replace(id, func(tr *model.Transfer) error {
		patch.Apply(tr)
		return nil
	})
	if err != nil {
		return model.Transfer{}, err
	}
	s.logg.Info(s.logg.WithField(ctx, "transfer_id", id), "transfer patched")
	return updated, s.flush(ctx)
}

func (s *service) Delete(ctx context.Context, id int) error {
	if err := s.repos.Transfers.Remove(id); err != nil {
		return err
	}
	s.logg.Info(s.logg.WithField(ctx, "transfer_id", id), "transfer deleted")
	return s.flush(ctx)
}

func (s *service) Items(_ context.Context, id int) ([]model.ItemAmount, error) {
	tr, err := s.repos.Transfers.Get(id)
	if err != nil {
		return nil, err
	}
	if tr.Items == nil {
		return []model.ItemAmount{}, nil
	}
	return tr.Items, nil
}

func (s *service) SetItems(ctx context.Context, id int, items []model.ItemAmount) (model.Transfer, error) {
	updated, err := s.repos.Transfers.Replace(id, func(tr *model.Transfer) error {
		tr.Items = items
		return nil
	})
	if err != nil {
		return model.Transfer{}, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"transfer_id": id, "lines": len(items)}), "transfer items replaced")
	return updated, s.flush(ctx)
}

func (s *service) Commit(ctx context.Context, id int) (model.Transfer, error) {
	var committed model.Transfer
	_, err := s.runner.Run(ctx, aggregate, id, s.repos.Transfers, func(inventories store.InventoryTx) (commit.Outcome, error) {
		transfers := s.repos.Transfers.Tx()
		tr, err := transfers.Get(id)
		if err != nil {
			return commit.Outcome{}, err
		}
		if err := commit.EnsureOpen(aggregate, id, tr.TransferStatus, enums.TransferStatusProcessed); err != nil {
			return commit.Outcome{}, err
		}
		adjusted, err := commit.Adjust(inventories, tr.Items, commit.Move(tr.TransferFrom, tr.TransferTo))
		if err != nil {
			return commit.Outcome{}, err
		}
		committed, err = transfers.Replace(id, func(tr *model.Transfer) error {
			tr.TransferStatus = enums.TransferStatusProcessed
			return nil
		})
		if err != nil {
			return commit.Outcome{}, err
		}
		return commit.Outcome{
			Adjusted: adjusted,
			Message:  fmt.Sprintf("Processed batch transfer with id: %d", id),
		}, nil
	})
	if committed.ID == 0 {
		return model.Transfer{}, err
	}
	return committed, err
}

func (s *service) flush(ctx context.Context) error {
	return s.repos.Flush(ctx, s.repos.Transfers)
}

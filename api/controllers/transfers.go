package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/warehouse-backend/internal/access"
	"github.com/angelmondragon/warehouse-backend/internal/model"
	"github.com/angelmondragon/warehouse-backend/internal/resource"
	"github.com/angelmondragon/warehouse-backend/internal/transfers"
	"github.com/angelmondragon/warehouse-backend/pkg/logger"
	"github.com/angelmondragon/warehouse-backend/pkg/pagination"
)

type TransferEndpoints = Endpoints[int, model.Transfer, model.TransferPatch, model.TransferCriteria]

func Transfers(svc transfers.Service) TransferEndpoints {
	return TransferEndpoints{
		Resource: access.ResourceTransfers,
		ParseID:  intID,
		Criteria: transferCriteria,
		List: func(ctx context.Context, p pagination.Params, _ *access.Scope) (resource.Page[model.Transfer], error) {
			return svc.List(ctx, p)
		},
		Get: func(ctx context.Context, id int, _ *access.Scope) (model.Transfer, error) {
			return svc.Get(ctx, id)
		},
		Search: func(ctx context.Context, c model.TransferCriteria, _ *access.Scope) ([]model.Transfer, error) {
			return svc.Search(ctx, c)
		},
		Create: func(ctx context.Context, tr model.Transfer, _ *access.Scope) (model.Transfer, error) {
			return svc.Create(ctx, tr)
		},
		Update: func(ctx context.Context, id int, tr model.Transfer, _ *access.Scope) (model.Transfer, error) {
			return svc.Update(ctx, id, tr)
		},
		Patch: func(ctx context.Context, id int, p model.TransferPatch, _ *access.Scope) (model.Transfer, error) {
			return svc.Replace(ctx, id, p)
		},
		Delete: func(ctx context.Context, id int, _ bool, _ *access.Scope) error {
			return svc.Delete(ctx, id)
		},
	}
}

func transferCriteria(r *http.Request) (model.TransferCriteria, error) {
	q := query{r: r}
	c := model.TransferCriteria{
		Reference:      q.str("reference"),
		TransferFrom:   q.int("transfer_from"),
		TransferTo:     q.int("transfer_to"),
		TransferStatus: q.str("transfer_status"),
	}
	return c, q.err
}

func TransferItems(svc transfers.Service, logg *logger.Logger) http.HandlerFunc {
	return Related(intID, func(ctx context.Context, id int, _ *access.Scope) ([]model.ItemAmount, error) {
		return svc.Items(ctx, id)
	}, logg)
}

func TransferSetItems(svc transfers.Service, logg *logger.Logger) http.HandlerFunc {
	return SetItems(func(ctx context.Context, id int, lines []model.ItemAmount, _ *access.Scope) (model.Transfer, error) {
		return svc.SetItems(ctx, id, lines)
	}, logg)
}

// TransferCommit moves every line from transfer_from to transfer_to.
func TransferCommit(svc transfers.Service, logg *logger.Logger) http.HandlerFunc {
	return Commit(func(ctx context.Context, id int, _ *access.Scope) (model.Transfer, error) {
		return svc.Commit(ctx, id)
	}, logg)
}

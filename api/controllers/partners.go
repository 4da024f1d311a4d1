package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/warehouse-backend/internal/access"
	"github.com/angelmondragon/warehouse-backend/internal/clients"
	"github.com/angelmondragon/warehouse-backend/internal/model"
	"github.com/angelmondragon/warehouse-backend/internal/resource"
	"github.com/angelmondragon/warehouse-backend/internal/suppliers"
	"github.com/angelmondragon/warehouse-backend/pkg/logger"
	"github.com/angelmondragon/warehouse-backend/pkg/pagination"
)

type SupplierEndpoints = Endpoints[int, model.Supplier, model.SupplierPatch, model.SupplierCriteria]

func Suppliers(svc suppliers.Service) SupplierEndpoints {
	return SupplierEndpoints{
		Resource: access.ResourceSuppliers,
		ParseID:  intID,
		Criteria: supplierCriteria,
		List: func(ctx context.Context, p pagination.Params, _ *access.Scope) (resource.Page[model.Supplier], error) {
			return svc.List(ctx, p)
		},
		Get: func(ctx context.Context, id int, _ *access.Scope) (model.Supplier, error) {
			return svc.Get(ctx, id)
		},
		Search: func(ctx context.Context, c model.SupplierCriteria, _ *access.Scope) ([]model.Supplier, error) {
			return svc.Search(ctx, c)
		},
		Create: func(ctx context.Context, sup model.Supplier, _ *access.Scope) (model.Supplier, error) {
			return svc.Create(ctx, sup)
		},
		Update: func(ctx context.Context, id int, sup model.Supplier, _ *access.Scope) (model.Supplier, error) {
			return svc.Update(ctx, id, sup)
		},
		Patch: func(ctx context.Context, id int, p model.SupplierPatch, _ *access.Scope) (model.Supplier, error) {
			return svc.Replace(ctx, id, p)
		},
		Delete: func(ctx context.Context, id int, force bool, _ *access.Scope) error {
			return svc.Delete(ctx, id, force)
		},
	}
}

func supplierCriteria(r *http.Request) (model.SupplierCriteria, error) {
	q := query{r: r}
	return model.SupplierCriteria{
		Code:      q.str("code"),
		Name:      q.str("name"),
		City:      q.str("city"),
		Country:   q.str("country"),
		Reference: q.str("reference"),
	}, nil
}

func SupplierItems(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return Related(intID, svc.Items, logg)
}

type ClientEndpoints = Endpoints[int, model.Client, model.ClientPatch, model.ClientCriteria]

func Clients(svc clients.Service) ClientEndpoints {
	return ClientEndpoints{
		Resource: access.ResourceClients,
		ParseID:  intID,
		Criteria: clientCriteria,
		List: func(ctx context.Context, p pagination.Params, _ *access.Scope) (resource.Page[model.Client], error) {
			return svc.List(ctx, p)
		},
		Get: func(ctx context.Context, id int, _ *access.Scope) (model.Client, error) {
			return svc.Get(ctx, id)
		},
		Search: func(ctx context.Context, c model.ClientCriteria, _ *access.Scope) ([]model.Client, error) {
			return svc.Search(ctx, c)
		},
		Create: func(ctx context.Context, c model.Client, _ *access.Scope) (model.Client, error) {
			return svc.Create(ctx, c)
		},
		Update: func(ctx context.Context, id int, c model.Client, _ *access.Scope) (model.Client, error) {
			return svc.Update(ctx, id, c)
		},
		Patch: func(ctx context.Context, id int, p model.ClientPatch, _ *access.Scope) (model.Client, error) {
			return svc.Replace(ctx, id, p)
		},
		Delete: func(ctx context.Context, id int, force bool, _ *access.Scope) error {
			return svc.Delete(ctx, id, force)
		},
	}
}

func clientCriteria(r *http.Request) (model.ClientCriteria, error) {
	q := query{r: r}
	return model.ClientCriteria{
		Name:         q.str("name"),
		City:         q.str("city"),
		Country:      q.str("country"),
		ContactEmail: q.str("contact_email"),
	}, nil
}

// ClientOrders lists orders shipped or billed to the client.
func ClientOrders(svc clients.Service, logg *logger.Logger) http.HandlerFunc {
	return Related(intID, svc.Orders, logg)
}

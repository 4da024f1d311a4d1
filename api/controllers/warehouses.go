package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/warehouse-backend/internal/access"
	"github.com/angelmondragon/warehouse-backend/internal/locations"
	"github.com/angelmondragon/warehouse-backend/internal/model"
	"github.com/angelmondragon/warehouse-backend/internal/resource"
	"github.com/angelmondragon/warehouse-backend/internal/warehouses"
	"github.com/angelmondragon/warehouse-backend/pkg/logger"
	"github.com/angelmondragon/warehouse-backend/pkg/pagination"
)

type WarehouseEndpoints = Endpoints[int, model.Warehouse, model.WarehousePatch, model.WarehouseCriteria]

// Warehouses is not warehouse scoped: every caller allowed to read sees every warehouse.
func Warehouses(svc warehouses.Service) WarehouseEndpoints {
	return WarehouseEndpoints{
		Resource: access.ResourceWarehouses,
		ParseID:  intID,
		Criteria: warehouseCriteria,
		List: func(ctx context.Context, p pagination.Params, _ *access.Scope) (resource.Page[model.Warehouse], error) {
			return svc.List(ctx, p)
		},
		Get: func(ctx context.Context, id int, _ *access.Scope) (model.Warehouse, error) {
			return svc.Get(ctx, id)
		},
		Search: func(ctx context.Context, c model.WarehouseCriteria, _ *access.Scope) ([]model.Warehouse, error) {
			return svc.Search(ctx, c)
		},
		Create: func(ctx context.Context, w model.Warehouse, _ *access.Scope) (model.Warehouse, error) {
			return svc.Create(ctx, w)
		},
		Update: func(ctx context.Context, id int, w model.Warehouse, _ *access.Scope) (model.Warehouse, error) {
			return svc.Update(ctx, id, w)
		},
		Patch: func(ctx context.Context, id int, p model.WarehousePatch, _ *access.Scope) (model.Warehouse, error) {
			return svc.Replace(ctx, id, p)
		},
		Delete: func(ctx context.Context, id int, force bool, _ *access.Scope) error {
			return svc.Delete(ctx, id, force)
		},
	}
}

func warehouseCriteria(r *http.Request) (model.WarehouseCriteria, error) {
	q := query{r: r}
	return model.WarehouseCriteria{
		Code:    q.str("code"),
		Name:    q.str("name"),
		City:    q.str("city"),
		Country: q.str("country"),
	}, nil
}

// WarehouseLocations lists the locations inside a warehouse.
func WarehouseLocations(svc warehouses.Service, logg *logger.Logger) http.HandlerFunc {
	return Related(intID, svc.Locations, logg)
}

func WarehouseOrders(svc warehouses.Service, logg *logger.Logger) http.HandlerFunc {
	return Related(intID, svc.Orders, logg)
}

type LocationEndpoints = Endpoints[int, model.Location, model.LocationPatch, model.LocationCriteria]

func Locations(svc locations.Service) LocationEndpoints {
	return LocationEndpoints{
		Resource: access.ResourceLocations,
		ParseID:  intID,
		Criteria: locationCriteria,
		List:     svc.List,
		Get:      svc.Get,
		Search:   svc.Search,
		Create:   svc.Create,
		Update:   svc.Update,
		Patch:    svc.Replace,
		Delete:   svc.Delete,
	}
}

func locationCriteria(r *http.Request) (model.LocationCriteria, error) {
	q := query{r: r}
	c := model.LocationCriteria{
		WarehouseID: q.int("warehouse_id"),
		Code:        q.str("code"),
		Name:        q.str("name"),
	}
	return c, q.err
}

func LocationInventories(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return Related(intID, svc.Inventories, logg)
}

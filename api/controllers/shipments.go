package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/warehouse-backend/internal/access"
	"github.com/angelmondragon/warehouse-backend/internal/model"
	"github.com/angelmondragon/warehouse-backend/internal/resource"
	"github.com/angelmondragon/warehouse-backend/internal/shipments"
	"github.com/angelmondragon/warehouse-backend/pkg/logger"
	"github.com/angelmondragon/warehouse-backend/pkg/pagination"
)

type ShipmentEndpoints = Endpoints[int, model.Shipment, model.ShipmentPatch, model.ShipmentCriteria]

func Shipments(svc shipments.Service) ShipmentEndpoints {
	return ShipmentEndpoints{
		Resource: access.ResourceShipments,
		ParseID:  intID,
		Criteria: shipmentCriteria,
		List: func(ctx context.Context, p pagination.Params, _ *access.Scope) (resource.Page[model.Shipment], error) {
			return svc.List(ctx, p)
		},
		Get: func(ctx context.Context, id int, _ *access.Scope) (model.Shipment, error) {
			return svc.Get(ctx, id)
		},
		Search: func(ctx context.Context, c model.ShipmentCriteria, _ *access.Scope) ([]model.Shipment, error) {
			return svc.Search(ctx, c)
		},
		Create: func(ctx context.Context, sh model.Shipment, _ *access.Scope) (model.Shipment, error) {
			return svc.Create(ctx, sh)
		},
		Update: func(ctx context.Context, id int, sh model.Shipment, _ *access.Scope) (model.Shipment, error) {
			return svc.Update(ctx, id, sh)
		},
		Patch: func(ctx context.Context, id int, p model.ShipmentPatch, _ *access.Scope) (model.Shipment, error) {
			return svc.Replace(ctx, id, p)
		},
		Delete: func(ctx context.Context, id int, force bool, _ *access.Scope) error {
			return svc.Delete(ctx, id, force)
		},
	}
}

func shipmentCriteria(r *http.Request) (model.ShipmentCriteria, error) {
	q := query{r: r}
	c := model.ShipmentCriteria{
		OrderID:        q.int("order_id"),
		SourceID:       q.int("source_id"),
		ShipmentStatus: q.str("shipment_status"),
		CarrierCode:    q.str("carrier_code"),
	}
	return c, q.err
}

// ShipmentOrders lists the orders assigned to the shipment that the caller may see.
func ShipmentOrders(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return Related(intID, svc.Orders, logg)
}

func ShipmentItems(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return Related(intID, func(ctx context.Context, id int, _ *access.Scope) ([]model.ItemAmount, error) {
		return svc.Items(ctx, id)
	}, logg)
}

func ShipmentSetItems(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return SetItems(func(ctx context.Context, id int, lines []model.ItemAmount, _ *access.Scope) (model.Shipment, error) {
		return svc.SetItems(ctx, id, lines)
	}, logg)
}

func ShipmentCommit(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return Commit(func(ctx context.Context, id int, _ *access.Scope) (model.Shipment, error) {
		return svc.Commit(ctx, id)
	}, logg)
}

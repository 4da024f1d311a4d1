package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/warehouse-backend/internal/access"
	"github.com/angelmondragon/warehouse-backend/internal/model"
	"github.com/angelmondragon/warehouse-backend/internal/orders"
	"github.com/angelmondragon/warehouse-backend/pkg/logger"
)

type OrderEndpoints = Endpoints[int, model.Order, model.OrderPatch, model.OrderCriteria]

// Orders are leaf records, so force has no effect on delete.
func Orders(svc orders.Service) OrderEndpoints {
	return OrderEndpoints{
		Resource: access.ResourceOrders,
		ParseID:  intID,
		Criteria: orderCriteria,
		List:     svc.List,
		Get:      svc.Get,
		Search:   svc.Search,
		Create:   svc.Create,
		Update:   svc.Update,
		Patch:    svc.Replace,
		Delete: func(ctx context.Context, id int, _ bool, scope *access.Scope) error {
			return svc.Delete(ctx, id, scope)
		},
	}
}

func orderCriteria(r *http.Request) (model.OrderCriteria, error) {
	q := query{r: r}
	c := model.OrderCriteria{
		WarehouseID: q.int("warehouse_id"),
		OrderStatus: q.str("order_status"),
		Reference:   q.str("reference"),
		ShipTo:      q.int("ship_to"),
		BillTo:      q.int("bill_to"),
		ShipmentID:  q.int("shipment_id"),
	}
	return c, q.err
}

func OrderItems(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return Related(intID, svc.Items, logg)
}

// OrderSetItems replaces the order lines and rebooks the allocated stock.
func OrderSetItems(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return SetItems(svc.SetItems, logg)
}

func OrderCommit(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return Commit(svc.Commit, logg)
}

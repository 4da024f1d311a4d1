package controllers

import (
	"net/http"

	"github.com/angelmondragon/warehouse-backend/internal/access"
	"github.com/angelmondragon/warehouse-backend/internal/inventories"
	"github.com/angelmondragon/warehouse-backend/internal/model"
)

type InventoryEndpoints = Endpoints[int, model.Inventory, model.InventoryPatch, model.InventoryCriteria]

func Inventories(svc inventories.Service) InventoryEndpoints {
	return InventoryEndpoints{
		Resource: access.ResourceInventories,
		ParseID:  intID,
		Criteria: inventoryCriteria,
		List:     svc.List,
		Get:      svc.Get,
		Search:   svc.Search,
		Create:   svc.Create,
		Update:   svc.Update,
		Patch:    svc.Replace,
		Delete:   svc.Delete,
	}
}

func inventoryCriteria(r *http.Request) (model.InventoryCriteria, error) {
	q := query{r: r}
	c := model.InventoryCriteria{
		ItemID:        q.str("item_id"),
		ItemReference: q.str("item_reference"),
		LocationID:    q.int("location_id"),
	}
	return c, q.err
}

package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/warehouse-backend/internal/access"
	"github.com/angelmondragon/warehouse-backend/internal/classifications"
	"github.com/angelmondragon/warehouse-backend/internal/items"
	"github.com/angelmondragon/warehouse-backend/internal/model"
	"github.com/angelmondragon/warehouse-backend/internal/resource"
	"github.com/angelmondragon/warehouse-backend/pkg/logger"
	"github.com/angelmondragon/warehouse-backend/pkg/pagination"
)

type ItemEndpoints = Endpoints[string, model.Item, model.ItemPatch, model.ItemCriteria]

// Items are keyed by their uid. Creation is not scoped: a new item has no stock yet.
func Items(svc items.Service) ItemEndpoints {
	return ItemEndpoints{
		Resource: access.ResourceItems,
		ParseID:  stringID,
		Criteria: itemCriteria,
		List:     svc.List,
		Get:      svc.Get,
		Search:   svc.Search,
		Create: func(ctx context.Context, item model.Item, _ *access.Scope) (model.Item, error) {
			return svc.Create(ctx, item)
		},
		Update: svc.Update,
		Patch:  svc.Replace,
		Delete: svc.Delete,
	}
}

func itemCriteria(r *http.Request) (model.ItemCriteria, error) {
	q := query{r: r}
	c := model.ItemCriteria{
		Code:               q.str("code"),
		Description:        q.str("description"),
		UPCCode:            q.str("upc_code"),
		ModelNumber:        q.str("model_number"),
		CommodityCode:      q.str("commodity_code"),
		SupplierID:         q.int("supplier_id"),
		SupplierCode:       q.str("supplier_code"),
		SupplierPartNumber: q.str("supplier_part_number"),
		ItemLine:           q.int("item_line"),
		ItemGroup:          q.int("item_group"),
		ItemType:           q.int("item_type"),
	}
	return c, q.err
}

// ItemInventory lists the inventory records held for an item.
func ItemInventory(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return Related(stringID, svc.Inventory, logg)
}

// ItemInventoryTotals sums the item's inventory records visible to the caller.
func ItemInventoryTotals(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return Related(stringID, svc.InventoryTotals, logg)
}

type ClassificationEndpoints = Endpoints[int, model.Classification, model.ClassificationPatch, model.ClassificationCriteria]

// Classifications serves item_lines, item_groups or item_types depending on the service kind.
func Classifications(svc classifications.Service) ClassificationEndpoints {
	return ClassificationEndpoints{
		Resource: string(svc.Kind()),
		ParseID:  intID,
		Criteria: classificationCriteria,
		List: func(ctx context.Context, p pagination.Params, _ *access.Scope) (resource.Page[model.Classification], error) {
			return svc.List(ctx, p)
		},
		Get: func(ctx context.Context, id int, _ *access.Scope) (model.Classification, error) {
			return svc.Get(ctx, id)
		},
		Search: func(ctx context.Context, c model.ClassificationCriteria, _ *access.Scope) ([]model.Classification, error) {
			return svc.Search(ctx, c)
		},
		Create: func(ctx context.Context, c model.Classification, _ *access.Scope) (model.Classification, error) {
			return svc.Create(ctx, c)
		},
		Update: func(ctx context.Context, id int, c model.Classification, _ *access.Scope) (model.Classification, error) {
			return svc.Update(ctx, id, c)
		},
		Patch: func(ctx context.Context, id int, p model.ClassificationPatch, _ *access.Scope) (model.Classification, error) {
			return svc.Replace(ctx, id, p)
		},
		Delete: func(ctx context.Context, id int, force bool, _ *access.Scope) error {
			return svc.Delete(ctx, id, force)
		},
	}
}

func classificationCriteria(r *http.Request) (model.ClassificationCriteria, error) {
	q := query{r: r}
	return model.ClassificationCriteria{
		Name:        q.str("name"),
		Description: q.str("description"),
	}, nil
}

func ClassificationItems(svc classifications.Service, logg *logger.Logger) http.HandlerFunc {
	return Related(intID, svc.Items, logg)
}

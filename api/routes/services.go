package routes

import (
	"github.com/angelmondragon/warehouse-backend/internal/classifications"
	"github.com/angelmondragon/warehouse-backend/internal/clients"
	"github.com/angelmondragon/warehouse-backend/internal/commit"
	"github.com/angelmondragon/warehouse-backend/internal/guard"
	"github.com/angelmondragon/warehouse-backend/internal/inventories"
	"github.com/angelmondragon/warehouse-backend/internal/items"
	"github.com/angelmondragon/warehouse-backend/internal/locations"
	"github.com/angelmondragon/warehouse-backend/internal/orders"
	"github.com/angelmondragon/warehouse-backend/internal/shipments"
	"github.com/angelmondragon/warehouse-backend/internal/store"
	"github.com/angelmondragon/warehouse-backend/internal/suppliers"
	"github.com/angelmondragon/warehouse-backend/internal/transfers"
	"github.com/angelmondragon/warehouse-backend/internal/warehouses"
	"github.com/angelmondragon/warehouse-backend/pkg/logger"
)

// NewServices builds every domain service over one set of repositories.
func NewServices(repos *store.Repositories, runner *commit.Runner, logg *logger.Logger) (Services, error) {
	var (
		svc Services
		err error
	)

	if svc.Warehouses, err = warehouses.NewService(repos, logg); err != nil {
		return Services{}, err
	}
	if svc.Locations, err = locations.NewService(repos, logg); err != nil {
		return Services{}, err
	}
	if svc.Inventories, err = inventories.NewService(repos, logg); err != nil {
		return Services{}, err
	}
	if svc.Items, err = items.NewService(repos, svc.Inventories, logg); err != nil {
		return Services{}, err
	}
	if svc.ItemLines, err = classifications.NewService(guard.KindItemLine, repos, logg); err != nil {
		return Services{}, err
	}
	if svc.ItemGroups, err = classifications.NewService(guard.KindItemGroup, repos, logg); err != nil {
		return Services{}, err
	}
	if svc.ItemTypes, err = classifications.NewService(guard.KindItemType, repos, logg); err != nil {
		return Services{}, err
	}
	if svc.Suppliers, err = suppliers.NewService(repos, logg); err != nil {
		return Services{}, err
	}
	if svc.Clients, err = clients.NewService(repos, logg); err != nil {
		return Services{}, err
	}
	if svc.Orders, err = orders.NewService(repos, runner, logg); err != nil {
		return Services{}, err
	}
	if svc.Shipments, err = shipments.NewService(repos, runner, logg); err != nil {
		return Services{}, err
	}
	if svc.Transfers, err = transfers.NewService(repos, runner, logg); err != nil {
		return Services{}, err
	}
	return svc, nil
}

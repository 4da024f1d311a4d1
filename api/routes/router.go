package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/warehouse-backend/api/controllers"
	"github.com/angelmondragon/warehouse-backend/api/middleware"
	"github.com/angelmondragon/warehouse-backend/internal/access"
	"github.com/angelmondragon/warehouse-backend/internal/classifications"
	"github.com/angelmondragon/warehouse-backend/internal/clients"
	"github.com/angelmondragon/warehouse-backend/internal/inventories"
	"github.com/angelmondragon/warehouse-backend/internal/items"
	"github.com/angelmondragon/warehouse-backend/internal/locations"
	"github.com/angelmondragon/warehouse-backend/internal/orders"
	"github.com/angelmondragon/warehouse-backend/internal/shipments"
	"github.com/angelmondragon/warehouse-backend/internal/suppliers"
	"github.com/angelmondragon/warehouse-backend/internal/transfers"
	"github.com/angelmondragon/warehouse-backend/internal/warehouses"
	"github.com/angelmondragon/warehouse-backend/pkg/config"
	"github.com/angelmondragon/warehouse-backend/pkg/logger"
	"github.com/angelmondragon/warehouse-backend/pkg/metrics"
	"github.com/angelmondragon/warehouse-backend/pkg/redis"
)

// Services are the domain services behind /api/v1.
type Services struct {
	Warehouses  warehouses.Service
	Locations   locations.Service
	Items       items.Service
	ItemLines   classifications.Service
	ItemGroups  classifications.Service
	ItemTypes   classifications.Service
	Suppliers   suppliers.Service
	Clients     clients.Service
	Inventories inventories.Service
	Orders      orders.Service
	Shipments   shipments.Service
	Transfers   transfers.Service
}

// Security holds what the gate needs to authenticate and authorize a request.
type Security struct {
	Policy *access.Policy
	Keys   *access.KeyTable
}

type capability func(access.Operation) func(http.Handler) http.Handler

// reader authorizes a read of a related collection. The caller must be able to read the
// mounted collection and the related one; the related collection's scope reaches the service.
type reader func(resource string) chi.Middlewares

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	sec Security,
	docs controllers.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	svc Services,
) http.Handler {
	r := chi.NewRouter()
	var httpMetrics *metrics.HTTPMetrics
	if registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(registry)
	}
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	ready := map[string]controllers.Pinger{}
	if docs != nil {
		ready["storage"] = docs
	}
	var idempotency redis.IdempotencyStore
	if redisClient != nil {
		ready["redis"] = redisClient
		idempotency = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, ready))
	})
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	}

	commitGuard := middleware.Idempotency(idempotency, cfg.Redis.IdempotencyTTL, logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(sec.Keys, cfg.JWT, logg))
		r.Get("/ping", controllers.Ping())

		mount(r, sec.Policy, logg, controllers.Warehouses(svc.Warehouses), func(r chi.Router, _ capability, read reader) {
			r.With(read(access.ResourceLocations)...).Get("/locations", controllers.WarehouseLocations(svc.Warehouses, logg))
			r.With(read(access.ResourceOrders)...).Get("/orders", controllers.WarehouseOrders(svc.Warehouses, logg))
		})
		mount(r, sec.Policy, logg, controllers.Locations(svc.Locations), func(r chi.Router, _ capability, read reader) {
			r.With(read(access.ResourceInventories)...).Get("/inventories", controllers.LocationInventories(svc.Locations, logg))
		})
		mount(r, sec.Policy, logg, controllers.Items(svc.Items), func(r chi.Router, _ capability, read reader) {
			r.With(read(access.ResourceInventories)...).Get("/inventory", controllers.ItemInventory(svc.Items, logg))
			r.With(read(access.ResourceInventories)...).Get("/inventory/totals", controllers.ItemInventoryTotals(svc.Items, logg))
		})
		for _, c := range []classifications.Service{svc.ItemLines, svc.ItemGroups, svc.ItemTypes} {
			mount(r, sec.Policy, logg, controllers.Classifications(c), func(r chi.Router, _ capability, read reader) {
				r.With(read(access.ResourceItems)...).Get("/items", controllers.ClassificationItems(c, logg))
			})
		}
		mount(r, sec.Policy, logg, controllers.Suppliers(svc.Suppliers), func(r chi.Router, _ capability, read reader) {
			r.With(read(access.ResourceItems)...).Get("/items", controllers.SupplierItems(svc.Suppliers, logg))
		})
		mount(r, sec.Policy, logg, controllers.Clients(svc.Clients), func(r chi.Router, _ capability, read reader) {
			r.With(read(access.ResourceOrders)...).Get("/orders", controllers.ClientOrders(svc.Clients, logg))
		})
		mount(r, sec.Policy, logg, controllers.Inventories(svc.Inventories), nil)
		mount(r, sec.Policy, logg, controllers.Orders(svc.Orders), func(r chi.Router, can capability, _ reader) {
			r.With(can(access.OpGet)).Get("/items", controllers.OrderItems(svc.Orders, logg))
			r.With(can(access.OpPut)).Put("/items", controllers.OrderSetItems(svc.Orders, logg))
			r.With(can(access.OpCommit), commitGuard).Post("/commit", controllers.OrderCommit(svc.Orders, logg))
		})
		mount(r, sec.Policy, logg, controllers.Shipments(svc.Shipments), func(r chi.Router, can capability, read reader) {
			r.With(read(access.ResourceOrders)...).Get("/orders", controllers.ShipmentOrders(svc.Shipments, logg))
			r.With(can(access.OpGet)).Get("/items", controllers.ShipmentItems(svc.Shipments, logg))
			r.With(can(access.OpPut)).Put("/items", controllers.ShipmentSetItems(svc.Shipments, logg))
			r.With(can(access.OpCommit), commitGuard).Post("/commit", controllers.ShipmentCommit(svc.Shipments, logg))
		})
		mount(r, sec.Policy, logg, controllers.Transfers(svc.Transfers), func(r chi.Router, can capability, _ reader) {
			r.With(can(access.OpGet)).Get("/items", controllers.TransferItems(svc.Transfers, logg))
			r.With(can(access.OpPut)).Put("/items", controllers.TransferSetItems(svc.Transfers, logg))
			r.With(can(access.OpCommit), commitGuard).Post("/commit", controllers.TransferCommit(svc.Transfers, logg))
		})
	})

	return r
}

// mount registers the standard routes of one collection. relations, when set, adds routes
// under /{id}.
func mount[K comparable, T, P, C any](
	r chi.Router,
	policy *access.Policy,
	logg *logger.Logger,
	e controllers.Endpoints[K, T, P, C],
	relations func(chi.Router, capability, reader),
) {
	can := func(op access.Operation) func(http.Handler) http.Handler {
		return middleware.Require(policy, e.Resource, op, logg)
	}
	read := func(resource string) chi.Middlewares {
		return chi.Middlewares{can(access.OpGet), middleware.Require(policy, resource, access.OpGet, logg)}
	}

	r.Route("/"+e.Resource, func(r chi.Router) {
		r.With(can(access.OpGet)).Get("/", e.HandleList(logg))
		r.With(can(access.OpGet)).Get("/search", e.HandleSearch(logg))
		r.With(can(access.OpPost)).Post("/", e.HandleCreate(logg))

		r.Route("/{id}", func(r chi.Router) {
			r.With(can(access.OpGet)).Get("/", e.HandleGet(logg))
			r.With(can(access.OpPut)).Put("/", e.HandleUpdate(logg))
			r.With(can(access.OpPut)).Patch("/", e.HandlePatch(logg))
			r.With(can(access.OpDelete)).Delete("/", e.HandleDelete(logg))
			if relations != nil {
				relations(r, can, read)
			}
		})
	})
}

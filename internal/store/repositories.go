package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/warehouse-backend/internal/model"
	"github.com/angelmondragon/warehouse-backend/pkg/docstore"
	pkgerrors "github.com/angelmondragon/warehouse-backend/pkg/errors"
	"github.com/angelmondragon/warehouse-backend/pkg/logger"
	"github.com/angelmondragon/warehouse-backend/pkg/metrics"
)

// Collection names double as document names and as the global lock order.
const (
	NameClients     = "clients"
	NameInventories = "inventories"
	NameItemGroups  = "item_groups"
	NameItemLines   = "item_lines"
	NameItemTypes   = "item_types"
	NameItems       = "items"
	NameLocations   = "locations"
	NameOrders      = "orders"
	NameShipments   = "shipments"
	NameSuppliers   = "suppliers"
	NameTransfers   = "transfers"
	NameWarehouses  = "warehouses"

	sequencesDocument = "_sequences"
)

type (
	WarehousePool      = Pool[int, model.Warehouse, *model.Warehouse]
	LocationPool       = Pool[int, model.Location, *model.Location]
	ItemPool           = Pool[string, model.Item, *model.Item]
	ClassificationPool = Pool[int, model.Classification, *model.Classification]
	SupplierPool       = Pool[int, model.Supplier, *model.Supplier]
	ClientPool         = Pool[int, model.Client, *model.Client]
	InventoryPool      = Pool[int, model.Inventory, *model.Inventory]
	OrderPool          = Pool[int, model.Order, *model.Order]
	ShipmentPool       = Pool[int, model.Shipment, *model.Shipment]
	TransferPool       = Pool[int, model.Transfer, *model.Transfer]

	WarehouseTx      = Tx[int, model.Warehouse, *model.Warehouse]
	LocationTx       = Tx[int, model.Location, *model.Location]
	ItemTx           = Tx[string, model.Item, *model.Item]
	ClassificationTx = Tx[int, model.Classification, *model.Classification]
	SupplierTx       = Tx[int, model.Supplier, *model.Supplier]
	ClientTx         = Tx[int, model.Client, *model.Client]
	InventoryTx      = Tx[int, model.Inventory, *model.Inventory]
	OrderTx          = Tx[int, model.Order, *model.Order]
	ShipmentTx       = Tx[int, model.Shipment, *model.Shipment]
	TransferTx       = Tx[int, model.Transfer, *model.Transfer]
)

// Collection is a pool that can be locked, loaded and flushed.
type Collection interface {
	Lockable
	poolName() string
	isDirty() bool
	snapshot() ([]byte, uint64, error)
	markClean(version uint64)
	load(data []byte) error
	sequenceValue() int
	restoreSequence(v int)
}

// Repositories is the repository context: every pool plus the document store behind them.
// It is built once at startup and handed to the services.
type Repositories struct {
	Warehouses  *WarehousePool
	Locations   *LocationPool
	Items       *ItemPool
	ItemLines   *ClassificationPool
	ItemGroups  *ClassificationPool
	ItemTypes   *ClassificationPool
	Suppliers   *SupplierPool
	Clients     *ClientPool
	Inventories *InventoryPool
	Orders      *OrderPool
	Shipments   *ShipmentPool
	Transfers   *TransferPool

	docs    docstore.Store
	logg    *logger.Logger
	metrics *metrics.EngineMetrics

	flushMu sync.Mutex
}

type Option func(*Repositories)

func WithLogger(logg *logger.Logger) Option {
	return func(r *Repositories) { r.logg = logg }
}

func WithMetrics(m *metrics.EngineMetrics) Option {
	return func(r *Repositories) { r.metrics = m }
}

// WithClock sets the timestamp source of every pool.
func WithClock(clock func() time.Time) Option {
	return func(r *Repositories) {
		r.Warehouses.SetClock(clock)
		r.Locations.SetClock(clock)
		r.Items.SetClock(clock)
		r.ItemLines.SetClock(clock)
		r.ItemGroups.SetClock(clock)
		r.ItemTypes.SetClock(clock)
		r.Suppliers.SetClock(clock)
		r.Clients.SetClock(clock)
		r.Inventories.SetClock(clock)
		r.Orders.SetClock(clock)
		r.Shipments.SetClock(clock)
		r.Transfers.SetClock(clock)
	}
}

func New(docs docstore.Store, opts ...Option) *Repositories {
	r := &Repositories{
		Warehouses:  NewPool[int, model.Warehouse](NameWarehouses, &IntSequence{}),
		Locations:   NewPool[int, model.Location](NameLocations, &IntSequence{}),
		Items:       NewPool[string, model.Item](NameItems, &CodeSequence{}),
		ItemLines:   NewPool[int, model.Classification](NameItemLines, &IntSequence{}),
		ItemGroups:  NewPool[int, model.Classification](NameItemGroups, &IntSequence{}),
		ItemTypes:   NewPool[int, model.Classification](NameItemTypes, &IntSequence{}),
		Suppliers:   NewPool[int, model.Supplier](NameSuppliers, &IntSequence{}),
		Clients:     NewPool[int, model.Client](NameClients, &IntSequence{}),
		Inventories: NewPool[int, model.Inventory](NameInventories, &IntSequence{}),
		Orders:      NewPool[int, model.Order](NameOrders, &IntSequence{}),
		Shipments:   NewPool[int, model.Shipment](NameShipments, &IntSequence{}),
		Transfers:   NewPool[int, model.Transfer](NameTransfers, &IntSequence{}),
		docs:        docs,
		logg:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics != nil {
		observer := Observer(r.metrics.PoolOp)
		r.Warehouses.SetObserver(observer)
		r.Locations.SetObserver(observer)
		r.Items.SetObserver(observer)
		r.ItemLines.SetObserver(observer)
		r.ItemGroups.SetObserver(observer)
		r.ItemTypes.SetObserver(observer)
		r.Suppliers.SetObserver(observer)
		r.Clients.SetObserver(observer)
		r.Inventories.SetObserver(observer)
		r.Orders.SetObserver(observer)
		r.Shipments.SetObserver(observer)
		r.Transfers.SetObserver(observer)
	}
	return r
}

// All returns every pool in lock order.
func (r *Repositories) All() []Collection {
	return []Collection{
		r.Clients, r.Inventories, r.ItemGroups, r.ItemLines, r.ItemTypes, r.Items,
		r.Locations, r.Orders, r.Shipments, r.Suppliers, r.Transfers, r.Warehouses,
	}
}

// Load reads every collection and the id counters from the document store. A missing
// document is an empty collection; a malformed one is returned as an error and the caller
// is expected to stop.
func (r *Repositories) Load(ctx context.Context) error {
	for _, c := range r.All() {
		data, err := r.docs.Load(ctx, c.poolName())
		if errors.Is(err, docstore.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("load %s: %w", c.poolName(), err)
		}
		if err := c.load(data); err != nil {
			return err
		}
	}

	data, err := r.docs.Load(ctx, sequencesDocument)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
	case err != nil:
		return fmt.Errorf("load %s: %w", sequencesDocument, err)
	default:
		counters := map[string]int{}
		if err := json.Unmarshal(data, &counters); err != nil {
			return fmt.Errorf("decode %s: %w", sequencesDocument, err)
		}
		for _, c := range r.All() {
			if v, ok := counters[c.poolName()]; ok {
				c.restoreSequence(v)
			}
		}
	}

	counts := map[string]any{}
	for _, c := range r.All() {
		counts[c.poolName()] = c.sequenceValue()
	}
	r.logg.Info(r.logg.WithFields(ctx, map[string]any{"sequences": counts}), "collections loaded")
	return nil
}

// Flush writes the given pools, or every pool when none are named, to the document store.
// Pools without changes since their last flush are skipped. Failures of individual pools
// are combined; the pools that did get written are marked clean.
func (r *Repositories) Flush(ctx context.Context, collections ...Collection) error {
	r.flushMu.Lock()
	defer r.flushMu.Unlock()

	if len(collections) == 0 {
		collections = r.All()
	}

	var errs error
	written := 0
	for _, c := range collections {
		if c == nil || !c.isDirty() {
			continue
		}
		if err := r.flushOne(ctx, c); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		written++
	}

	if written > 0 {
		if err := r.saveSequences(ctx); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	if errs != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "persist collections")
	}
	return nil
}

func (r *Repositories) flushOne(ctx context.Context, c Collection) error {
	start := time.Now()
	data, version, err := c.snapshot()
	if err == nil {
		err = r.docs.Save(ctx, c.poolName(), data)
	}
	r.metrics.Flush(c.poolName(), time.Since(start), err)
	if err != nil {
		return fmt.Errorf("save %s: %w", c.poolName(), err)
	}
	c.markClean(version)
	return nil
}

func (r *Repositories) saveSequences(ctx context.Context) error {
	counters := make(map[string]int, 12)
	for _, c := range r.All() {
		counters[c.poolName()] = c.sequenceValue()
	}
	data, err := json.Marshal(counters)
	if err != nil {
		return fmt.Errorf("encode %s: %w", sequencesDocument, err)
	}
	if err := r.docs.Save(ctx, sequencesDocument, data); err != nil {
		return fmt.Errorf("save %s: %w", sequencesDocument, err)
	}
	return nil
}

// Ping reports whether the document store is reachable.
func (r *Repositories) Ping(ctx context.Context) error {
	return r.docs.Ping(ctx)
}

// Logger is shared with the services built on top of the repositories.
func (r *Repositories) Logger() *logger.Logger {
	return r.logg
}

// Package commit runs the workflow shared by order, shipment and transfer commits: adjust
// the on-hand quantity of every matching inventory record, advance the aggregate's status,
// persist both collections and announce the result.
package commit

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/warehouse-backend/internal/model"
	"github.com/angelmondragon/warehouse-backend/internal/notifications"
	"github.com/angelmondragon/warehouse-backend/internal/store"
	pkgerrors "github.com/angelmondragon/warehouse-backend/pkg/errors"
	"github.com/angelmondragon/warehouse-backend/pkg/logger"
	"github.com/angelmondragon/warehouse-backend/pkg/metrics"
)

// Delta decides the signed change applied to one inventory record: -1 takes the line amount
// off the record, +1 adds it and 0 leaves the record alone.
type Delta func(inv model.Inventory) int

// Deduct takes stock from records held in location.
func Deduct(location int) Delta {
	return func(inv model.Inventory) int {
		if inv.InLocation(location) {
			return -1
		}
		return 0
	}
}

// Move takes stock from records in from and adds it to records in to. A record holding both
// locations is only decremented.
func Move(from, to int) Delta {
	return func(inv model.Inventory) int {
		switch {
		case inv.InLocation(from):
			return -1
		case inv.InLocation(to):
			return 1
		default:
			return 0
		}
	}
}

// Adjust applies delta to every inventory record of every line and returns how many record
// updates it made. The inventories pool must be held by WithLock.
func Adjust(inventories store.InventoryTx, lines []model.ItemAmount, delta Delta) (int, error) {
	adjusted := 0
	for _, line := range lines {
		records := inventories.Filter(func(inv model.Inventory) bool { return inv.ItemID == line.ItemID })
		for _, rec := range records {
			sign := delta(rec)
			if sign == 0 {
				continue
			}
			_, err := inventories.Replace(rec.ID, func(inv *model.Inventory) error {
				inv.TotalOnHand += sign * line.Amount
				inv.Recompute()
				return nil
			})
			if err != nil {
				return adjusted, err
			}
			adjusted++
		}
	}
	return adjusted, nil
}

// EnsureOpen refuses to commit an aggregate that already reached its terminal status.
func EnsureOpen(aggregate string, id int, status, terminal string) error {
	if status == terminal {
		return pkgerrors.Newf(pkgerrors.CodeStateConflict, "%s %d is already %s", aggregate, id, terminal).
			WithDetails(map[string]any{"id": id, "status": status})
	}
	return nil
}

// Outcome is what an aggregate-specific step reports back to the runner.
type Outcome struct {
	Adjusted int
	Message  string
}

// Step runs with the aggregate pool and the inventories pool locked.
type Step func(inventories store.InventoryTx) (Outcome, error)

// Runner owns the collaborators every commit needs.
type Runner struct {
	repos   *store.Repositories
	sink    notifications.Sink
	metrics *metrics.EngineMetrics
	logg    *logger.Logger
}

func NewRunner(repos *store.Repositories, sink notifications.Sink, m *metrics.EngineMetrics, logg *logger.Logger) (*Runner, error) {
	if repos == nil {
		return nil, fmt.Errorf("repositories required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Runner{repos: repos, sink: sink, metrics: m, logg: logg}, nil
}

// Run executes step under the locks of the aggregate pool and the inventories pool, then
// flushes both and emits one notification. A flush failure is returned after the in-memory
// commit already happened; the next successful flush persists it.
func (r *Runner) Run(ctx context.Context, aggregate string, id int, pool store.Collection, step Step) (Outcome, error) {
	start := time.Now()
	var out Outcome
	err := store.WithLock(func() error {
		var err error
		out, err = step(r.repos.Inventories.Tx())
		return err
	}, pool, r.repos.Inventories)
	r.metrics.Commit(aggregate, out.Adjusted, err)

	ctx = r.logg.WithFields(ctx, map[string]any{
		"aggregate":    aggregate,
		"aggregate_id": id,
	})
	if err != nil {
		r.logg.Warn(r.logg.WithField(ctx, "error", err.Error()), "commit rejected")
		return Outcome{}, err
	}

	ctx = r.logg.WithFields(ctx, map[string]any{
		"adjusted_records": out.Adjusted,
		"duration_ms":      time.Since(start).Milliseconds(),
	})
	r.logg.Info(ctx, "commit applied")

	flushErr := r.repos.Flush(ctx, pool, r.repos.Inventories)
	if flushErr != nil {
		r.logg.Error(ctx, "persist commit", flushErr)
	}

	if r.sink != nil && out.Message != "" {
		r.sink.Notify(ctx, notifications.Message{
			Aggregate:  aggregate,
			ID:         id,
			Text:       out.Message,
			OccurredAt: time.Now().UTC(),
		})
	}
	return out, flushErr
}

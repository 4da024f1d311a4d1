package orders

import (
	"github.com/angelmondragon/warehouse-backend/internal/model"
	"github.com/angelmondragon/warehouse-backend/internal/store"
)

// amounts sums the lines per item. Items keep their first-seen order.
func amounts(lines []model.ItemAmount) (map[string]int, []string) {
	sums := make(map[string]int, len(lines))
	var order []string
	for _, line := range lines {
		if _, seen := sums[line.ItemID]; !seen {
			order = append(order, line.ItemID)
		}
		sums[line.ItemID] += line.Amount
	}
	return sums, order
}

// allocate books the per-item difference between the old and new lines into
// total_allocated, taking it out of total_available. The record charged is the first one
// held in a location of the order's warehouse, else the one with the most stock available.
// Items without any inventory record are skipped.
func allocate(inventories store.InventoryTx, locations store.LocationTx, warehouseID int, before, after []model.ItemAmount) (int, error) {
	oldAmounts, oldOrder := amounts(before)
	newAmounts, newOrder := amounts(after)

	deltas := make(map[string]int, len(newAmounts))
	var touched []string
	for _, id := range newOrder {
		deltas[id] = newAmounts[id] - oldAmounts[id]
		touched = append(touched, id)
	}
	for _, id := range oldOrder {
		if _, kept := newAmounts[id]; !kept {
			deltas[id] = -oldAmounts[id]
			touched = append(touched, id)
		}
	}

	warehouse := map[int]struct{}{}
	for _, l := range locations.Filter(func(l model.Location) bool { return l.WarehouseID == warehouseID }) {
		warehouse[l.ID] = struct{}{}
	}

	adjusted := 0
	for _, itemID := range touched {
		delta := deltas[itemID]
		if delta == 0 {
			continue
		}
		target, ok := pickRecord(inventories.Filter(func(inv model.Inventory) bool { return inv.ItemID == itemID }), warehouse)
		if !ok {
			continue
		}
		_, err := inventories.Replace(target, func(inv *model.Inventory) error {
			inv.TotalAllocated += delta
			inv.TotalAvailable -= delta
			inv.RecomputeExpected()
			return nil
		})
		if err != nil {
			return adjusted, err
		}
		adjusted++
	}
	return adjusted, nil
}

// rebook moves the allocation of before onto after. A warehouse change releases every line
// against the old warehouse and books the new lines against the new one.
func rebook(inventories store.InventoryTx, locations store.LocationTx, before, after model.Order) (int, error) {
	if before.WarehouseID == after.WarehouseID {
		return allocate(inventories, locations, after.WarehouseID, before.Items, after.Items)
	}
	released, err := allocate(inventories, locations, before.WarehouseID, before.Items, nil)
	if err != nil {
		return released, err
	}
	booked, err := allocate(inventories, locations, after.WarehouseID, nil, after.Items)
	return released + booked, err
}

func pickRecord(records []model.Inventory, warehouse map[int]struct{}) (int, bool) {
	if len(records) == 0 {
		return 0, false
	}
	for _, inv := range records {
		if inv.InAnyLocation(warehouse) {
			return inv.ID, true
		}
	}
	best := records[0]
	for _, inv := range records[1:] {
		if inv.TotalAvailable > best.TotalAvailable {
			best = inv
		}
	}
	return best.ID, true
}

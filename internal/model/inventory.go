package model

import "slices"

type Inventory struct {
	ID             int    `json:"id"`
	ItemID         string `json:"item_id" validate:"required"`
	Description    string `json:"description"`
	ItemReference  string `json:"item_reference"`
	Locations      []int  `json:"locations"`
	TotalOnHand    int    `json:"total_on_hand"`
	TotalExpected  int    `json:"total_expected"`
	TotalOrdered   int    `json:"total_ordered"`
	TotalAllocated int    `json:"total_allocated"`
	TotalAvailable int    `json:"total_available"`
	Timestamps
}

func (i *Inventory) RecordKey() int { return i.ID }
func (i *Inventory) AssignKey(id int) { i.ID = id }

func (i *Inventory) Clone() Inventory {
	out := *i
	out.Locations = cloneInts(i.Locations)
	return out
}

// InLocation reports whether the record sits in location id.
func (i *Inventory) InLocation(id int) bool {
	return slices.Contains(i.Locations, id)
}

// InAnyLocation reports whether the record sits in one of the given locations.
func (i *Inventory) InAnyLocation(set map[int]struct{}) bool {
	for _, id := range i.Locations {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

// RecomputeExpected restores total_expected = total_on_hand + total_ordered.
func (i *Inventory) RecomputeExpected() {
	i.TotalExpected = i.TotalOnHand + i.TotalOrdered
}

// Recompute refreshes both derived totals after a quantity adjustment.
func (i *Inventory) Recompute() {
	i.RecomputeExpected()
	i.TotalAvailable = i.TotalOnHand - i.TotalAllocated
}

type InventoryPatch struct {
	ItemID         Optional[string] `json:"item_id"`
	Description    Optional[string] `json:"description"`
	ItemReference  Optional[string] `json:"item_reference"`
	Locations      Optional[[]int]  `json:"locations"`
	TotalOnHand    Optional[int]    `json:"total_on_hand"`
	TotalExpected  Optional[int]    `json:"total_expected"`
	TotalOrdered   Optional[int]    `json:"total_ordered"`
	TotalAllocated Optional[int]    `json:"total_allocated"`
	TotalAvailable Optional[int]    `json:"total_available"`
}

func (p InventoryPatch) Apply(i *Inventory) {
	p.ItemID.ApplyTo(&i.ItemID)
	p.Description.ApplyTo(&i.Description)
	p.ItemReference.ApplyTo(&i.ItemReference)
	if p.Locations.Set {
		i.Locations = cloneInts(p.Locations.Value)
	}
	p.TotalOnHand.ApplyTo(&i.TotalOnHand)
	p.TotalExpected.ApplyTo(&i.TotalExpected)
	p.TotalOrdered.ApplyTo(&i.TotalOrdered)
	p.TotalAllocated.ApplyTo(&i.TotalAllocated)
	p.TotalAvailable.ApplyTo(&i.TotalAvailable)
}

type InventoryCriteria struct {
	ItemID        string
	ItemReference string
	LocationID    *int
}

func (c InventoryCriteria) Empty() bool {
	return blank(c.ItemID, c.ItemReference) && unset(c.LocationID)
}

func (c InventoryCriteria) Match(i Inventory) bool {
	if c.LocationID != nil && !i.InLocation(*c.LocationID) {
		return false
	}
	return matchString(i.ItemID, c.ItemID) && matchString(i.ItemReference, c.ItemReference)
}

// InventoryTotals sums the quantity columns across the records of one item.
type InventoryTotals struct {
	TotalExpected  int `json:"total_expected"`
	TotalOrdered   int `json:"total_ordered"`
	TotalAllocated int `json:"total_allocated"`
	TotalAvailable int `json:"total_available"`
}

func (t *InventoryTotals) Add(i Inventory) {
	t.TotalExpected += i.TotalExpected
	t.TotalOrdered += i.TotalOrdered
	t.TotalAllocated += i.TotalAllocated
	t.TotalAvailable += i.TotalAvailable
}

// Package model holds the warehouse entities as they are stored in the pools and persisted
// to the document store, plus the patch and search criteria types for each of them.
package model

import (
	"strings"
	"time"
)

// Timestamps is embedded in every entity.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Timestamps) Stamps() *Timestamps { return t }

// ItemAmount is one line of an order, shipment or transfer.
type ItemAmount struct {
	ItemID string `json:"item_id" validate:"required"`
	Amount int    `json:"amount" validate:"gt=0"`
}

func cloneInts(in []int) []int {
	if in == nil {
		return nil
	}
	return append([]int(nil), in...)
}

func cloneItems(in []ItemAmount) []ItemAmount {
	if in == nil {
		return nil
	}
	return append([]ItemAmount(nil), in...)
}

// ContainsItem reports whether lines reference itemID.
func ContainsItem(lines []ItemAmount, itemID string) bool {
	for _, line := range lines {
		if line.ItemID == itemID {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// matchString treats an empty criterion as "not given".
func matchString(value, criterion string) bool {
	return criterion == "" || containsFold(value, criterion)
}

func matchInt(value int, criterion *int) bool {
	return criterion == nil || value == *criterion
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func unset(values ...*int) bool {
	for _, v := range values {
		if v != nil {
			return false
		}
	}
	return true
}

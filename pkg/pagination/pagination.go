package pagination

import (
	"fmt"
	"strings"
)

const (
	// DefaultPageSize is the standard page size when none is provided.
	DefaultPageSize = 25
	// MaxPageSize caps how many records any list call can request.
	MaxPageSize = 100
)

const (
	SortID        = "id"
	SortCreatedAt = "created_at"
	SortUpdatedAt = "updated_at"
)

// Params holds offset pagination inputs from controllers or services.
// Page is 1-based; a zero PageSize returns the whole collection.
type Params struct {
	Page     int
	PageSize int
	Sort     Sort
}

// Sort names a record attribute; the zero value keeps insertion order.
type Sort struct {
	Field string
	Desc  bool
}

// ParseSort accepts "field" or "-field" for descending order.
func ParseSort(value string) (Sort, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Sort{}, nil
	}
	s := Sort{}
	if strings.HasPrefix(value, "-") {
		s.Desc = true
		value = value[1:]
	}
	switch strings.ToLower(value) {
	case SortID, SortCreatedAt, SortUpdatedAt:
		s.Field = strings.ToLower(value)
	default:
		return Sort{}, fmt.Errorf("unsupported sort field %q", value)
	}
	return s, nil
}

// All reports whether the caller asked for the unpaged collection.
func (p Params) All() bool {
	return p.PageSize == 0
}

// Normalize fills defaults and clamps the page size.
func (p Params) Normalize() Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize < 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Bounds returns the [start, end) slice window for a collection of total records.
func (p Params) Bounds(total int) (int, int) {
	p = p.Normalize()
	if p.All() {
		return 0, total
	}
	start := (p.Page - 1) * p.PageSize
	if start > total {
		start = total
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}
	return start, end
}

// TotalPages reports how many pages the collection spans.
func (p Params) TotalPages(total int) int {
	p = p.Normalize()
	if total == 0 {
		return 0
	}
	if p.All() {
		return 1
	}
	return (total + p.PageSize - 1) / p.PageSize
}

// Package resource holds the pieces every entity service shares: paged results, the search
// criteria rule and the scoped lookups.
package resource

import (
	"github.com/angelmondragon/warehouse-backend/internal/access"
	pkgerrors "github.com/angelmondragon/warehouse-backend/pkg/errors"
	"github.com/angelmondragon/warehouse-backend/pkg/pagination"
)

// Page is one slice of a listing plus the number of records that matched.
type Page[T any] struct {
	Items  []T
	Total  int
	Params pagination.Params
}

func NewPage[T any](items []T, total int, params pagination.Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Params: params.Normalize()}
}

// ErrNoCriteria is returned by every Search called without a criterion.
func ErrNoCriteria() error {
	return pkgerrors.New(pkgerrors.CodeValidation, "at least one search criterion is required")
}

// RequireCriteria fails when the criteria are all empty.
func RequireCriteria(empty bool) error {
	if empty {
		return ErrNoCriteria()
	}
	return nil
}

// Visible returns v when keep admits it, and Forbidden otherwise.
func Visible[T any](v T, keep func(T) bool, name string, id any) (T, error) {
	if keep != nil && !keep(v) {
		var zero T
		return zero, access.Deny(name, id)
	}
	return v, nil
}

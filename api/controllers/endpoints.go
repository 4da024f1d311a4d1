package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/warehouse-backend/api/middleware"
	"github.com/angelmondragon/warehouse-backend/api/responses"
	"github.com/angelmondragon/warehouse-backend/api/validators"
	"github.com/angelmondragon/warehouse-backend/internal/access"
	"github.com/angelmondragon/warehouse-backend/internal/model"
	"github.com/angelmondragon/warehouse-backend/internal/resource"
	pkgerrors "github.com/angelmondragon/warehouse-backend/pkg/errors"
	"github.com/angelmondragon/warehouse-backend/pkg/logger"
	"github.com/angelmondragon/warehouse-backend/pkg/pagination"
)

// Endpoints binds one collection's service to the standard resource handlers. Every func
// receives the caller's warehouse scope; services that are not scoped ignore it.
type Endpoints[K comparable, T any, P any, C any] struct {
	Resource string
	ParseID  func(string) (K, error)
	Criteria func(*http.Request) (C, error)

	List   func(context.Context, pagination.Params, *access.Scope) (resource.Page[T], error)
	Get    func(context.Context, K, *access.Scope) (T, error)
	Search func(context.Context, C, *access.Scope) ([]T, error)
	Create func(context.Context, T, *access.Scope) (T, error)
	Update func(context.Context, K, T, *access.Scope) (T, error)
	Patch  func(context.Context, K, P, *access.Scope) (T, error)
	Delete func(context.Context, K, bool, *access.Scope) error
}

func (e Endpoints[K, T, P, C]) unavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.Newf(pkgerrors.CodeInternal, "%s service unavailable", e.Resource))
}

func (e Endpoints[K, T, P, C]) id(r *http.Request) (K, error) {
	return e.ParseID(chi.URLParam(r, "id"))
}

// HandleList pages through the collection.
func (e Endpoints[K, T, P, C]) HandleList(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if e.List == nil {
			e.unavailable(w, r, logg)
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := e.List(r.Context(), params, middleware.ScopeFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, page)
	}
}

func (e Endpoints[K, T, P, C]) HandleSearch(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if e.Search == nil || e.Criteria == nil {
			e.unavailable(w, r, logg)
			return
		}
		criteria, err := e.Criteria(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		found, err := e.Search(r.Context(), criteria, middleware.ScopeFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, found)
	}
}

func (e Endpoints[K, T, P, C]) HandleGet(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if e.Get == nil {
			e.unavailable(w, r, logg)
			return
		}
		id, err := e.id(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := e.Get(r.Context(), id, middleware.ScopeFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

func (e Endpoints[K, T, P, C]) HandleCreate(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if e.Create == nil {
			e.unavailable(w, r, logg)
			return
		}
		var body T
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := e.Create(r.Context(), body, middleware.ScopeFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// HandleUpdate overwrites the record with the full body.
func (e Endpoints[K, T, P, C]) HandleUpdate(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if e.Update == nil {
			e.unavailable(w, r, logg)
			return
		}
		id, err := e.id(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body T
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := e.Update(r.Context(), id, body, middleware.ScopeFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// HandlePatch applies only the fields present in the body.
func (e Endpoints[K, T, P, C]) HandlePatch(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if e.Patch == nil {
			e.unavailable(w, r, logg)
			return
		}
		id, err := e.id(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var patch P
		if err := validators.DecodeJSONBody(r, &patch); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := e.Patch(r.Context(), id, patch, middleware.ScopeFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// HandleDelete removes the record; ?force=true skips the dependency check where the
// collection has one.
func (e Endpoints[K, T, P, C]) HandleDelete(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if e.Delete == nil {
			e.unavailable(w, r, logg)
			return
		}
		id, err := e.id(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		force, err := validators.ParseQueryBool(r, "force")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := e.Delete(r.Context(), id, force, middleware.ScopeFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// Related serves GET /{id}/{relation}.
func Related[K comparable, R any](parse func(string) (K, error), fetch func(context.Context, K, *access.Scope) (R, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if fetch == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "relation unavailable"))
			return
		}
		id, err := parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		related, err := fetch(r.Context(), id, middleware.ScopeFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, related)
	}
}

type setItemsRequest struct {
	Items []model.ItemAmount `json:"items" validate:"required,dive"`
}

// SetItems serves PUT /{id}/items with a body of {"items": [...]}.
func SetItems[T any](set func(context.Context, int, []model.ItemAmount, *access.Scope) (T, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if set == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items unavailable"))
			return
		}
		id, err := intID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body setItemsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := set(r.Context(), id, body.Items, middleware.ScopeFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// Commit serves POST /{id}/commit and returns the processed aggregate.
func Commit[T any](run func(context.Context, int, *access.Scope) (T, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if run == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "commit unavailable"))
			return
		}
		id, err := intID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		committed, err := run(r.Context(), id, middleware.ScopeFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, committed)
	}
}

func intID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid id %q", raw)
	}
	return id, nil
}

func stringID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "id is required")
	}
	return id, nil
}

// query collects search parameters and keeps the first parse failure.
type query struct {
	r   *http.Request
	err error
}

func (q *query) str(key string) string {
	return validators.QueryString(q.r, key)
}

func (q *query) int(key string) *int {
	if q.err != nil {
		return nil
	}
	v, err := validators.QueryIntPtr(q.r, key)
	if err != nil {
		q.err = err
	}
	return v
}

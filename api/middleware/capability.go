package middleware

import (
	"net/http"

	"github.com/angelmondragon/warehouse-backend/api/responses"
	"github.com/angelmondragon/warehouse-backend/internal/access"
	pkgerrors "github.com/angelmondragon/warehouse-backend/pkg/errors"
	"github.com/angelmondragon/warehouse-backend/pkg/logger"
)

// Require checks the caller's capability for op on resource. Own-warehouse grants put the
// caller's scope in the context for the handler to pass on.
func Require(policy *access.Policy, resource string, op access.Operation, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			decision := policy.CheckAccess(principal, resource, op)
			if !decision.Allowed {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Newf(pkgerrors.CodeForbidden, "role %s may not %s %s", principal.Role, op, resource))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithScope(r.Context(), principal.Scope(decision))))
		})
	}
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/warehouse-backend/api/responses"
	"github.com/angelmondragon/warehouse-backend/internal/access"
	pkgAuth "github.com/angelmondragon/warehouse-backend/pkg/auth"
	"github.com/angelmondragon/warehouse-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/warehouse-backend/pkg/errors"
	"github.com/angelmondragon/warehouse-backend/pkg/logger"
)

const apiKeyHeader = "API_KEY"

// Authenticate resolves the caller from the API_KEY header or, when JWT is configured, a
// bearer token, and seeds the request context with the principal.
func Authenticate(keys *access.KeyTable, cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := resolvePrincipal(r, keys, cfg)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithPrincipal(r.Context(), principal)
			if logg != nil {
				ctx = logg.WithUser(ctx, principal.User)
				ctx = logg.WithRole(ctx, principal.Role.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolvePrincipal(r *http.Request, keys *access.KeyTable, cfg config.JWTConfig) (access.Principal, error) {
	if key := strings.TrimSpace(r.Header.Get(apiKeyHeader)); key != "" {
		p, ok := keys.Lookup(key)
		if !ok {
			return access.Principal{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid api key")
		}
		return p, nil
	}

	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return access.Principal{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	if !cfg.Enabled() {
		return access.Principal{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "bearer tokens are not accepted")
	}

	token := raw
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return access.Principal{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, token)
	if err != nil {
		return access.Principal{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	return access.FromClaims(claims), nil
}

package middleware

import (
	"context"

	"github.com/angelmondragon/warehouse-backend/internal/access"
)

type contextKey string

const (
	ctxPrincipal contextKey = "principal"
	ctxScope     contextKey = "scope"
)

// PrincipalFromContext returns the caller resolved by Authenticate.
func PrincipalFromContext(ctx context.Context) (access.Principal, bool) {
	if ctx == nil {
		return access.Principal{}, false
	}
	p, ok := ctx.Value(ctxPrincipal).(access.Principal)
	return p, ok
}

func WithPrincipal(ctx context.Context, p access.Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, p)
}

// ScopeFromContext returns the warehouse restriction set by Require. Nil means the caller
// sees everything.
func ScopeFromContext(ctx context.Context) *access.Scope {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(ctxScope).(*access.Scope)
	return s
}

func WithScope(ctx context.Context, s *access.Scope) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxScope, s)
}

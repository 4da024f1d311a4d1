package controllers

import (
	"net/http"

	"github.com/angelmondragon/warehouse-backend/api/middleware"
	"github.com/angelmondragon/warehouse-backend/api/responses"
)

// Ping echoes the authenticated caller.
func Ping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{"scope": "private", "status": "ok"}
		if p, ok := middleware.PrincipalFromContext(r.Context()); ok {
			payload["user"] = p.User
			payload["role"] = p.Role.String()
			if len(p.Warehouses) > 0 {
				payload["warehouses"] = p.Warehouses
			}
		}
		responses.WriteSuccess(w, payload)
	}
}

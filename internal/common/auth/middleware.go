package auth

import (
	"context"
	"net/http"

	"restaurant-system/internal/common/httpx"
)

const HeaderAPIKey = "X-API-Key"

type ctxKey struct{}

// RoleFrom returns the role resolved by Middleware.
func RoleFrom(ctx context.Context) (Role, bool) {
	r, ok := ctx.Value(ctxKey{}).(Role)
	return r, ok
}

// Keys maps API keys to roles. Unknown role names are dropped.
func Keys(raw map[string]string) map[string]Role {
	out := make(map[string]Role, len(raw))
	for key, name := range raw {
		if r, ok := ParseRole(name); ok {
			out[key] = r
		}
	}
	return out
}

// Middleware resolves the caller's role from the API key and consults the
// policy for the request.
func Middleware(p Policy, keys map[string]Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(HeaderAPIKey)
			if key == "" {
				httpx.WriteProblem(w, http.StatusUnauthorized, "unauthorized", "API key required")
				return
			}
			role, ok := keys[key]
			if !ok {
				httpx.WriteProblem(w, http.StatusUnauthorized, "unauthorized", "invalid API key")
				return
			}
			if !p.Authorize(role, r.Method, r.URL.Path) {
				httpx.WriteProblem(w, http.StatusForbidden, "forbidden", "role "+string(role)+" may not access this resource")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, role)))
		})
	}
}

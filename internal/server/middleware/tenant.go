package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequireTenant rejects requests whose credentials carry no tenant. Placed
// after Auth on panel routes; super-admin tokens have a nil tenant and are
// kept out of tenant-scoped surfaces by this check.
func RequireTenant() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tid, ok := TenantIDFromContext(r.Context())
			if !ok || tid == uuid.Nil {
				writeError(w, http.StatusForbidden, "Forbidden", "valid tenant required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

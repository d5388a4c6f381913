package middleware

import "net/http"

// Role constants define the supported staff roles, from most to least
// privileged.
const (
	RoleSuperAdmin = "superadmin"
	RoleOwner      = "owner"
	RoleManager    = "manager"
	RoleStaff      = "staff"
)

// roleRank orders roles for hierarchy checks. Unknown roles rank below staff.
var roleRank = map[string]int{
	RoleSuperAdmin: 3,
	RoleOwner:      2,
	RoleManager:    1,
	RoleStaff:      0,
}

// RequireRole returns middleware that checks if the authenticated user has one
// of the allowed roles. It must be chained after the Auth middleware, which
// stores the user role in the request context via ContextKeyUserRole.
//
// Returns 401 Unauthorized when no user is found in context (Auth middleware
// not applied or authentication failed). Returns 403 Forbidden when the user
// role does not match any of the allowed roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok || role == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
				return
			}

			if _, match := allowed[role]; !match {
				writeError(w, http.StatusForbidden, "Forbidden", "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoleAtLeast allows any role ranked at or above the given minimum.
func RequireRoleAtLeast(minimum string) func(http.Handler) http.Handler {
	minRank, known := roleRank[minimum]

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok || role == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
				return
			}

			rank, roleKnown := roleRank[role]
			if !known || !roleKnown || rank < minRank {
				writeError(w, http.StatusForbidden, "Forbidden", "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperAdmin is a convenience wrapper for the console routes.
func RequireSuperAdmin() func(http.Handler) http.Handler {
	return RequireRole(RoleSuperAdmin)
}

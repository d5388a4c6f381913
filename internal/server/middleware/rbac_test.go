package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tably/tably/internal/server/middleware"
)

// setRole injects a role into the request context using the same context key
// that the Auth middleware uses.
func setRole(r *http.Request, role string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.ContextKeyUserRole, role)
	return r.WithContext(ctx)
}

// okHandler is a simple handler that writes 200 OK.
var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRequireRole_AllowsMatchingRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		allowedRoles []string
		userRole     string
	}{
		{name: "owner allowed for owner-only", allowedRoles: []string{middleware.RoleOwner}, userRole: middleware.RoleOwner},
		{name: "manager allowed for manager-only", allowedRoles: []string{middleware.RoleManager}, userRole: middleware.RoleManager},
		{name: "staff allowed for staff-only", allowedRoles: []string{middleware.RoleStaff}, userRole: middleware.RoleStaff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := middleware.RequireRole(tt.allowedRoles...)(okHandler)
			req := setRole(httptest.NewRequest(http.MethodGet, "/", http.NoBody), tt.userRole)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestRequireRole_BlocksNonMatchingRole(t *testing.T) {
	t.Parallel()

	handler := middleware.RequireRole(middleware.RoleOwner)(okHandler)
	req := setRole(httptest.NewRequest(http.MethodGet, "/", http.NoBody), middleware.RoleStaff)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "insufficient permissions")
}

func TestRequireRole_MissingRole(t *testing.T) {
	t.Parallel()

	handler := middleware.RequireRole(middleware.RoleOwner)(okHandler)
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleAtLeast(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		minimum    string
		role       string
		wantStatus int
	}{
		{name: "superadmin passes owner check", minimum: middleware.RoleOwner, role: middleware.RoleSuperAdmin, wantStatus: http.StatusOK},
		{name: "owner passes owner check", minimum: middleware.RoleOwner, role: middleware.RoleOwner, wantStatus: http.StatusOK},
		{name: "manager blocked by owner check", minimum: middleware.RoleOwner, role: middleware.RoleManager, wantStatus: http.StatusForbidden},
		{name: "staff passes staff check", minimum: middleware.RoleStaff, role: middleware.RoleStaff, wantStatus: http.StatusOK},
		{name: "unknown role blocked", minimum: middleware.RoleStaff, role: "intern", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := middleware.RequireRoleAtLeast(tt.minimum)(okHandler)
			req := setRole(httptest.NewRequest(http.MethodGet, "/", http.NoBody), tt.role)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRequireSuperAdmin(t *testing.T) {
	t.Parallel()

	handler := middleware.RequireSuperAdmin()(okHandler)

	req := setRole(httptest.NewRequest(http.MethodGet, "/", http.NoBody), middleware.RoleSuperAdmin)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = setRole(httptest.NewRequest(http.MethodGet, "/", http.NoBody), middleware.RoleOwner)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

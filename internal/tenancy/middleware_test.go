package tenancy_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tably/tably/internal/domain"
	"github.com/tably/tably/internal/server/middleware"
	"github.com/tably/tably/internal/tenancy"
)

type mockTenantRepo struct {
	getBySlugFunc func(ctx context.Context, slug string) (*domain.Tenant, error)
}

func (m *mockTenantRepo) Create(_ context.Context, _ *domain.Tenant) error {
	panic("not implemented")
}

func (m *mockTenantRepo) GetByID(_ context.Context, _ uuid.UUID) (*domain.Tenant, error) {
	panic("not implemented")
}

func (m *mockTenantRepo) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	return m.getBySlugFunc(ctx, slug)
}

func (m *mockTenantRepo) Update(_ context.Context, _ *domain.Tenant) error {
	panic("not implemented")
}

func (m *mockTenantRepo) SetActive(_ context.Context, _ uuid.UUID, _ bool) error {
	panic("not implemented")
}

func (m *mockTenantRepo) List(_ context.Context) ([]*domain.Tenant, error) {
	panic("not implemented")
}

func (m *mockTenantRepo) ListPaginated(_ context.Context, _, _ int) ([]*domain.Tenant, error) {
	panic("not implemented")
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	resolver := tenancy.NewResolver("example.com")
	tenantID := uuid.New()

	serve := func(t *testing.T, tenants domain.TenantRepository, host string) (*httptest.ResponseRecorder, uuid.UUID, bool) {
		t.Helper()

		var gotID uuid.UUID
		var gotOK bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotID, gotOK = middleware.TenantIDFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = host
		rec := httptest.NewRecorder()
		tenancy.Middleware(resolver, tenants)(next).ServeHTTP(rec, req)
		return rec, gotID, gotOK
	}

	t.Run("active_tenant", func(t *testing.T) {
		t.Parallel()

		tenants := &mockTenantRepo{
			getBySlugFunc: func(_ context.Context, slug string) (*domain.Tenant, error) {
				assert.Equal(t, "demo-kafe", slug)
				return &domain.Tenant{ID: tenantID, Slug: slug, Active: true}, nil
			},
		}

		rec, gotID, gotOK := serve(t, tenants, "demo-kafe.example.com")

		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, gotOK)
		assert.Equal(t, tenantID, gotID)
	})

	t.Run("root_domain_passes_through", func(t *testing.T) {
		t.Parallel()

		tenants := &mockTenantRepo{
			getBySlugFunc: func(_ context.Context, _ string) (*domain.Tenant, error) {
				t.Fatal("root requests must not hit the tenant store")
				return nil, nil
			},
		}

		rec, _, gotOK := serve(t, tenants, "example.com")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, gotOK)
	})

	t.Run("inactive_looks_like_unknown", func(t *testing.T) {
		t.Parallel()

		inactive := &mockTenantRepo{
			getBySlugFunc: func(_ context.Context, slug string) (*domain.Tenant, error) {
				return &domain.Tenant{ID: tenantID, Slug: slug, Active: false}, nil
			},
		}
		unknown := &mockTenantRepo{
			getBySlugFunc: func(_ context.Context, _ string) (*domain.Tenant, error) {
				return nil, domain.ErrNotFound
			},
		}

		inactiveRec, _, inactiveOK := serve(t, inactive, "suspended.example.com")
		unknownRec, _, unknownOK := serve(t, unknown, "no-such-place.example.com")

		assert.False(t, inactiveOK, "suspended tenants must not be resolved")
		assert.False(t, unknownOK)
		assert.Equal(t, unknownRec.Code, inactiveRec.Code,
			"a suspended slug must be indistinguishable from a missing one")
		assert.Equal(t, unknownRec.Body.String(), inactiveRec.Body.String())
		assert.Equal(t, unknownRec.Header().Get("Content-Type"), inactiveRec.Header().Get("Content-Type"))
	})
}

package tenancy

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/tably/tably/internal/domain"
	"github.com/tably/tably/internal/server/middleware"
)

// Middleware resolves the tenant for customer-facing routes and stores its ID
// in the request context. Requests that resolve to the root site or a
// reserved subdomain pass through without a tenant; handlers that require one
// reject those via middleware.RequireTenant.
func Middleware(resolver *Resolver, tenants domain.TenantRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := resolver.Resolve(r.Host, r.URL.Path, r.URL.RawQuery)
			if res.Type != ResolutionTenant {
				next.ServeHTTP(w, r)
				return
			}

			t, err := tenants.GetBySlug(r.Context(), res.Slug)
			if err != nil {
				if !errors.Is(err, domain.ErrNotFound) {
					log.Warn().Err(err).Str("slug", res.Slug).Msg("tenancy: tenant lookup failed")
				}
				next.ServeHTTP(w, r)
				return
			}
			// A suspended restaurant is indistinguishable from an unknown
			// slug; the public surface must not confirm that a slug exists.
			if !t.Active {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), middleware.ContextKeyTenantID, t.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

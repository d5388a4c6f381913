package tenancy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tably/tably/internal/tenancy"
)

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	r := tenancy.NewResolver("example.com")

	tests := []struct {
		name     string
		host     string
		path     string
		query    string
		wantType tenancy.ResolutionType
		wantSlug string
	}{
		{
			name:     "subdomain_tenant",
			host:     "demo-kafe.example.com",
			path:     "/",
			wantType: tenancy.ResolutionTenant,
			wantSlug: "demo-kafe",
		},
		{
			name:     "subdomain_with_port",
			host:     "demo-kafe.example.com:8080",
			path:     "/",
			wantType: tenancy.ResolutionTenant,
			wantSlug: "demo-kafe",
		},
		{
			name:     "reserved_panel",
			host:     "panel.example.com",
			path:     "/",
			wantType: tenancy.ResolutionReserved,
			wantSlug: "panel",
		},
		{
			name:     "reserved_www",
			host:     "www.example.com",
			path:     "/",
			wantType: tenancy.ResolutionReserved,
			wantSlug: "www",
		},
		{
			name:     "root_domain",
			host:     "example.com",
			path:     "/",
			wantType: tenancy.ResolutionRoot,
		},
		{
			name:     "foreign_host",
			host:     "other.io",
			path:     "/",
			wantType: tenancy.ResolutionRoot,
		},
		{
			name:     "nested_subdomain_ignored",
			host:     "a.b.example.com",
			path:     "/",
			wantType: tenancy.ResolutionRoot,
		},
		{
			name:     "path_s_prefix",
			host:     "example.com",
			path:     "/s/demo-kafe",
			wantType: tenancy.ResolutionTenant,
			wantSlug: "demo-kafe",
		},
		{
			name:     "path_tenant_prefix_with_rest",
			host:     "example.com",
			path:     "/tenant/demo-kafe/menu",
			wantType: tenancy.ResolutionTenant,
			wantSlug: "demo-kafe",
		},
		{
			name:     "path_customer_menu_prefix",
			host:     "example.com",
			path:     "/customer/menu/demo-kafe",
			wantType: tenancy.ResolutionTenant,
			wantSlug: "demo-kafe",
		},
		{
			name:     "query_param_fallback",
			host:     "example.com",
			path:     "/",
			query:    "tenant=demo-kafe",
			wantType: tenancy.ResolutionTenant,
			wantSlug: "demo-kafe",
		},
		{
			name:     "subdomain_beats_path_and_query",
			host:     "alpha.example.com",
			path:     "/s/beta",
			query:    "tenant=gamma",
			wantType: tenancy.ResolutionTenant,
			wantSlug: "alpha",
		},
		{
			name:     "path_beats_query",
			host:     "example.com",
			path:     "/s/beta",
			query:    "tenant=gamma",
			wantType: tenancy.ResolutionTenant,
			wantSlug: "beta",
		},
		{
			name:     "empty_path_slug_falls_through",
			host:     "example.com",
			path:     "/s/",
			wantType: tenancy.ResolutionRoot,
		},
		{
			name:     "nothing_matches",
			host:     "example.com",
			path:     "/pricing",
			query:    "utm_source=x",
			wantType: tenancy.ResolutionRoot,
		},
		{
			name:     "host_case_insensitive",
			host:     "Demo-Kafe.Example.COM",
			path:     "/",
			wantType: tenancy.ResolutionTenant,
			wantSlug: "demo-kafe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := r.Resolve(tt.host, tt.path, tt.query)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantSlug, got.Slug)
		})
	}
}

func TestResolver_EmptyRootDomain(t *testing.T) {
	t.Parallel()

	r := tenancy.NewResolver("")
	got := r.Resolve("demo-kafe.example.com", "/", "")
	assert.Equal(t, tenancy.ResolutionRoot, got.Type)
}

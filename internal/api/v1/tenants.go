package v1

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/tably/tably/internal/domain"
	"github.com/tably/tably/internal/server/middleware"
)

// slugPattern keeps slugs usable as subdomain labels.
var slugPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

type CreateTenantInput struct {
	Body struct {
		Name       string `json:"name" minLength:"1" maxLength:"255" doc:"Restaurant name"`
		Slug       string `json:"slug" minLength:"1" maxLength:"63" doc:"Subdomain slug"`
		OwnerEmail string `json:"owner_email" minLength:"3" maxLength:"255" doc:"Owner account email"`
		OwnerName  string `json:"owner_name" minLength:"1" maxLength:"255" doc:"Owner display name"`
	}
}

type CreateTenantOutput struct {
	Body *domain.Tenant
}

type GetTenantInput struct {
	ID uuid.UUID `path:"id" doc:"Tenant ID"`
}

type GetTenantOutput struct {
	Body *domain.Tenant
}

type ListTenantsInput struct {
	Limit  int `query:"limit" minimum:"1" maximum:"200" default:"50" doc:"Page size"`
	Offset int `query:"offset" minimum:"0" default:"0" doc:"Page offset"`
}

type ListTenantsOutput struct {
	Body []*domain.Tenant
}

type UpdateTenantInput struct {
	ID   uuid.UUID `path:"id" doc:"Tenant ID"`
	Body struct {
		Name     string         `json:"name,omitempty" maxLength:"255" doc:"Restaurant name"`
		Settings map[string]any `json:"settings,omitempty" doc:"Tenant settings"`
	}
}

type UpdateTenantOutput struct {
	Body *domain.Tenant
}

type SetTenantActiveInput struct {
	ID   uuid.UUID `path:"id" doc:"Tenant ID"`
	Body struct {
		Active bool `json:"active" doc:"Whether the tenant is active"`
	}
}

func requireSuperAdmin(ctx context.Context) error {
	role, ok := middleware.RoleFromContext(ctx)
	if !ok || role != middleware.RoleSuperAdmin {
		return huma.Error403Forbidden("super admin access required")
	}
	return nil
}

// RegisterTenantRoutes wires the super-admin console endpoints. These operate
// across tenants and are gated on the superadmin role.
func RegisterTenantRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-tenant",
		Method:      http.MethodPost,
		Path:        "/tenants",
		Summary:     "Onboard a new restaurant",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *CreateTenantInput) (*CreateTenantOutput, error) {
		if err := requireSuperAdmin(ctx); err != nil {
			return nil, err
		}

		if !slugPattern.MatchString(input.Body.Slug) {
			return nil, huma.Error400BadRequest("slug must contain only lowercase letters, digits, and hyphens")
		}

		if _, err := store.Tenants().GetBySlug(ctx, input.Body.Slug); err == nil {
			return nil, huma.Error409Conflict("slug already in use")
		}

		now := time.Now()
		tenant := &domain.Tenant{
			ID:        uuid.New(),
			Name:      input.Body.Name,
			Slug:      input.Body.Slug,
			Active:    true,
			Settings:  map[string]any{},
			CreatedAt: now,
			UpdatedAt: now,
		}

		// The owner signs in via OAuth or a password reset flow; no password
		// is set at onboarding time.
		owner := &domain.User{
			ID:        uuid.New(),
			TenantID:  tenant.ID,
			Email:     input.Body.OwnerEmail,
			Name:      input.Body.OwnerName,
			Role:      middleware.RoleOwner,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := store.RegisterTenant(ctx, tenant, owner); err != nil {
			return nil, huma.Error500InternalServerError("failed to create tenant", err)
		}

		return &CreateTenantOutput{Body: tenant}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tenants",
		Method:      http.MethodGet,
		Path:        "/tenants",
		Summary:     "List restaurants",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *ListTenantsInput) (*ListTenantsOutput, error) {
		if err := requireSuperAdmin(ctx); err != nil {
			return nil, err
		}

		tenants, err := store.Tenants().ListPaginated(ctx, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list tenants", err)
		}

		return &ListTenantsOutput{Body: tenants}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-tenant",
		Method:      http.MethodGet,
		Path:        "/tenants/{id}",
		Summary:     "Get a restaurant by ID",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *GetTenantInput) (*GetTenantOutput, error) {
		if err := requireSuperAdmin(ctx); err != nil {
			return nil, err
		}

		tenant, err := store.Tenants().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("tenant not found")
			}
			return nil, huma.Error500InternalServerError("failed to get tenant", err)
		}

		return &GetTenantOutput{Body: tenant}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-tenant",
		Method:      http.MethodPut,
		Path:        "/tenants/{id}",
		Summary:     "Update a restaurant",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *UpdateTenantInput) (*UpdateTenantOutput, error) {
		if err := requireSuperAdmin(ctx); err != nil {
			return nil, err
		}

		existing, err := store.Tenants().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("tenant not found")
			}
			return nil, huma.Error500InternalServerError("failed to get tenant", err)
		}

		if input.Body.Name != "" {
			existing.Name = input.Body.Name
		}
		if input.Body.Settings != nil {
			existing.Settings = input.Body.Settings
		}
		existing.UpdatedAt = time.Now()

		if err := store.Tenants().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update tenant", err)
		}

		return &UpdateTenantOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-tenant-active",
		Method:      http.MethodPatch,
		Path:        "/tenants/{id}/active",
		Summary:     "Activate or suspend a restaurant",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *SetTenantActiveInput) (*struct{}, error) {
		if err := requireSuperAdmin(ctx); err != nil {
			return nil, err
		}

		if err := store.Tenants().SetActive(ctx, input.ID, input.Body.Active); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("tenant not found")
			}
			return nil, huma.Error500InternalServerError("failed to update tenant", err)
		}

		return nil, nil
	})
}

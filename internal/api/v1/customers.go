package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/tably/tably/internal/domain"
	"github.com/tably/tably/internal/loyalty"
	"github.com/tably/tably/internal/server/middleware"
)

type CreateCustomerInput struct {
	Body struct {
		Name     string     `json:"name" minLength:"1" maxLength:"255" doc:"Customer name"`
		Phone    string     `json:"phone,omitempty" maxLength:"32" doc:"Phone number"`
		Email    string     `json:"email,omitempty" maxLength:"255" doc:"Email"`
		Birthday *time.Time `json:"birthday,omitempty" doc:"Birthday"`
	}
}

type CreateCustomerOutput struct {
	Body *domain.Customer
}

type GetCustomerInput struct {
	ID uuid.UUID `path:"id" doc:"Customer ID"`
}

type GetCustomerOutput struct {
	Body *domain.Customer
}

type ListCustomersInput struct {
	Limit  int `query:"limit" minimum:"1" maximum:"200" default:"50" doc:"Page size"`
	Offset int `query:"offset" minimum:"0" default:"0" doc:"Page offset"`
}

type ListCustomersOutput struct {
	Body []*domain.Customer
}

type UpdateCustomerInput struct {
	ID   uuid.UUID `path:"id" doc:"Customer ID"`
	Body struct {
		Name     string     `json:"name,omitempty" maxLength:"255" doc:"Customer name"`
		Phone    string     `json:"phone,omitempty" maxLength:"32" doc:"Phone number"`
		Email    string     `json:"email,omitempty" maxLength:"255" doc:"Email"`
		Birthday *time.Time `json:"birthday,omitempty" doc:"Birthday"`
	}
}

type UpdateCustomerOutput struct {
	Body *domain.Customer
}

type DeleteCustomerInput struct {
	ID uuid.UUID `path:"id" doc:"Customer ID"`
}

type BirthdayBonusInput struct {
	ID uuid.UUID `path:"id" doc:"Customer ID"`
}

type BirthdayBonusOutput struct {
	Body struct {
		Points     int `json:"points" doc:"Points granted, zero when not the customer's birthday"`
		NewBalance int `json:"new_balance"`
	}
}

func RegisterCustomerRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-customer",
		Method:      http.MethodPost,
		Path:        "/customers",
		Summary:     "Create a customer",
		Tags:        []string{"Customers"},
	}, func(ctx context.Context, input *CreateCustomerInput) (*CreateCustomerOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		if input.Body.Phone != "" {
			if _, err := store.Customers().GetByPhone(ctx, tenantID, input.Body.Phone); err == nil {
				return nil, huma.Error409Conflict("a customer with this phone number already exists")
			}
		}

		now := time.Now()
		c := &domain.Customer{
			ID:          uuid.New(),
			TenantID:    tenantID,
			Name:        input.Body.Name,
			Phone:       input.Body.Phone,
			Email:       input.Body.Email,
			Birthday:    input.Body.Birthday,
			LoyaltyTier: domain.TierBronze,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := store.Customers().Create(ctx, c); err != nil {
			return nil, huma.Error500InternalServerError("failed to create customer", err)
		}

		return &CreateCustomerOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-customers",
		Method:      http.MethodGet,
		Path:        "/customers",
		Summary:     "List customers",
		Tags:        []string{"Customers"},
	}, func(ctx context.Context, input *ListCustomersInput) (*ListCustomersOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		customers, err := store.Customers().List(ctx, tenantID, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list customers", err)
		}

		return &ListCustomersOutput{Body: customers}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-customer",
		Method:      http.MethodGet,
		Path:        "/customers/{id}",
		Summary:     "Get a customer by ID",
		Tags:        []string{"Customers"},
	}, func(ctx context.Context, input *GetCustomerInput) (*GetCustomerOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		c, err := store.Customers().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("customer not found")
			}
			return nil, huma.Error500InternalServerError("failed to get customer", err)
		}

		return &GetCustomerOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-customer",
		Method:      http.MethodPut,
		Path:        "/customers/{id}",
		Summary:     "Update a customer",
		Tags:        []string{"Customers"},
	}, func(ctx context.Context, input *UpdateCustomerInput) (*UpdateCustomerOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		existing, err := store.Customers().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("customer not found")
			}
			return nil, huma.Error500InternalServerError("failed to get customer", err)
		}

		if input.Body.Name != "" {
			existing.Name = input.Body.Name
		}
		if input.Body.Phone != "" {
			existing.Phone = input.Body.Phone
		}
		if input.Body.Email != "" {
			existing.Email = input.Body.Email
		}
		if input.Body.Birthday != nil {
			existing.Birthday = input.Body.Birthday
		}
		existing.UpdatedAt = time.Now()

		if err := store.Customers().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update customer", err)
		}

		return &UpdateCustomerOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-customer",
		Method:      http.MethodDelete,
		Path:        "/customers/{id}",
		Summary:     "Delete a customer",
		Tags:        []string{"Customers"},
	}, func(ctx context.Context, input *DeleteCustomerInput) (*struct{}, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		if err := store.Customers().Delete(ctx, tenantID, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("customer not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete customer", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "grant-birthday-bonus",
		Method:      http.MethodPost,
		Path:        "/customers/{id}/birthday-bonus",
		Summary:     "Grant the birthday bonus",
		Description: "Awards the configured flat bonus when today is the customer's birthday. Returns zero points otherwise.",
		Tags:        []string{"Customers"},
	}, func(ctx context.Context, input *BirthdayBonusInput) (*BirthdayBonusOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		c, err := store.Customers().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("customer not found")
			}
			return nil, huma.Error500InternalServerError("failed to get customer", err)
		}

		cfg, err := store.LoyaltyConfigs().GetByTenant(ctx, tenantID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("loyalty program is not configured")
			}
			return nil, huma.Error500InternalServerError("failed to get loyalty config", err)
		}

		out := &BirthdayBonusOutput{}
		bonus := loyalty.BirthdayBonus(cfg, c, time.Now())
		if bonus == 0 {
			out.Body.NewBalance = c.LoyaltyPoints
			return out, nil
		}

		c.LoyaltyPoints += bonus
		c.UpdatedAt = time.Now()
		if err := store.Customers().Update(ctx, c); err != nil {
			return nil, huma.Error500InternalServerError("failed to grant bonus", err)
		}

		out.Body.Points = bonus
		out.Body.NewBalance = c.LoyaltyPoints
		return out, nil
	})
}

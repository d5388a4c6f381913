package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/tably/tably/internal/domain"
	"github.com/tably/tably/internal/promo"
	"github.com/tably/tably/internal/server/middleware"
)

type CreateCampaignInput struct {
	Body struct {
		Name             string              `json:"name" minLength:"1" maxLength:"255" doc:"Campaign name"`
		Description      string              `json:"description,omitempty" doc:"Campaign description"`
		DiscountType     domain.DiscountType `json:"discount_type" enum:"percent,amount" doc:"Discount kind"`
		DiscountValue    float64             `json:"discount_value" minimum:"0" doc:"Percent or amount"`
		MinOrderAmount   float64             `json:"min_order_amount,omitempty" minimum:"0" doc:"Minimum order total"`
		MaxDiscount      float64             `json:"max_discount,omitempty" minimum:"0" doc:"Discount cap, 0 for uncapped"`
		StartDate        time.Time           `json:"start_date" doc:"Start of validity"`
		EndDate          *time.Time          `json:"end_date,omitempty" doc:"End of validity, open-ended when omitted"`
		UsageLimit       int                 `json:"usage_limit,omitempty" minimum:"0" doc:"Total usage cap, 0 for unlimited"`
		PerCustomerLimit int                 `json:"per_customer_limit,omitempty" minimum:"0" doc:"Per-customer cap, 0 for unlimited"`
		Weekdays         []time.Weekday      `json:"weekdays,omitempty" doc:"Allowed weekdays, empty for every day"`
		HourFrom         int                 `json:"hour_from,omitempty" minimum:"0" maximum:"23" doc:"Daily window start hour"`
		HourTo           int                 `json:"hour_to,omitempty" minimum:"0" maximum:"23" doc:"Daily window end hour"`
		TargetTiers      []domain.Tier       `json:"target_tiers,omitempty" doc:"Eligible loyalty tiers, empty for all"`
	}
}

type CampaignOutput struct {
	Body *domain.Campaign
}

type ListCampaignsOutput struct {
	Body []*domain.Campaign
}

type GetCampaignInput struct {
	ID uuid.UUID `path:"id" doc:"Campaign ID"`
}

type UpdateCampaignInput struct {
	ID   uuid.UUID `path:"id" doc:"Campaign ID"`
	Body struct {
		Name             string         `json:"name,omitempty" maxLength:"255" doc:"Campaign name"`
		Description      string         `json:"description,omitempty" doc:"Campaign description"`
		DiscountValue    *float64       `json:"discount_value,omitempty" minimum:"0" doc:"Percent or amount"`
		MinOrderAmount   *float64       `json:"min_order_amount,omitempty" minimum:"0" doc:"Minimum order total"`
		MaxDiscount      *float64       `json:"max_discount,omitempty" minimum:"0" doc:"Discount cap"`
		EndDate          *time.Time     `json:"end_date,omitempty" doc:"End of validity"`
		UsageLimit       *int           `json:"usage_limit,omitempty" minimum:"0" doc:"Total usage cap"`
		PerCustomerLimit *int           `json:"per_customer_limit,omitempty" minimum:"0" doc:"Per-customer cap"`
		Weekdays         []time.Weekday `json:"weekdays,omitempty" doc:"Allowed weekdays"`
		HourFrom         *int           `json:"hour_from,omitempty" minimum:"0" maximum:"23" doc:"Daily window start hour"`
		HourTo           *int           `json:"hour_to,omitempty" minimum:"0" maximum:"23" doc:"Daily window end hour"`
		TargetTiers      []domain.Tier  `json:"target_tiers,omitempty" doc:"Eligible loyalty tiers"`
	}
}

type UpdateCampaignStatusInput struct {
	ID   uuid.UUID `path:"id" doc:"Campaign ID"`
	Body struct {
		Status domain.CampaignStatus `json:"status" enum:"draft,active,paused,ended" doc:"New status"`
	}
}

type DeleteCampaignInput struct {
	ID uuid.UUID `path:"id" doc:"Campaign ID"`
}

type CreateCouponInput struct {
	Body struct {
		Code             string              `json:"code" minLength:"1" maxLength:"64" doc:"Coupon code, stored upper-case"`
		CampaignID       *uuid.UUID          `json:"campaign_id,omitempty" doc:"Linked campaign"`
		DiscountType     domain.DiscountType `json:"discount_type" enum:"percent,amount" doc:"Discount kind"`
		DiscountValue    float64             `json:"discount_value" minimum:"0" doc:"Percent or amount"`
		MinOrderAmount   float64             `json:"min_order_amount,omitempty" minimum:"0" doc:"Minimum order total"`
		MaxDiscount      float64             `json:"max_discount,omitempty" minimum:"0" doc:"Discount cap, 0 for uncapped"`
		StartDate        time.Time           `json:"start_date" doc:"Start of validity"`
		EndDate          *time.Time          `json:"end_date,omitempty" doc:"End of validity"`
		UsageLimit       int                 `json:"usage_limit,omitempty" minimum:"0" doc:"Total usage cap, 0 for unlimited"`
		PerCustomerLimit int                 `json:"per_customer_limit,omitempty" minimum:"0" doc:"Per-customer cap, 0 for unlimited"`
	}
}

type CouponOutput struct {
	Body *domain.Coupon
}

type ListCouponsOutput struct {
	Body []*domain.Coupon
}

type GetCouponInput struct {
	ID uuid.UUID `path:"id" doc:"Coupon ID"`
}

type UpdateCouponInput struct {
	ID   uuid.UUID `path:"id" doc:"Coupon ID"`
	Body struct {
		DiscountValue    *float64   `json:"discount_value,omitempty" minimum:"0" doc:"Percent or amount"`
		MinOrderAmount   *float64   `json:"min_order_amount,omitempty" minimum:"0" doc:"Minimum order total"`
		MaxDiscount      *float64   `json:"max_discount,omitempty" minimum:"0" doc:"Discount cap"`
		EndDate          *time.Time `json:"end_date,omitempty" doc:"End of validity"`
		UsageLimit       *int       `json:"usage_limit,omitempty" minimum:"0" doc:"Total usage cap"`
		PerCustomerLimit *int       `json:"per_customer_limit,omitempty" minimum:"0" doc:"Per-customer cap"`
		Active           *bool      `json:"active,omitempty" doc:"Whether the coupon is redeemable"`
	}
}

type DeleteCouponInput struct {
	ID uuid.UUID `path:"id" doc:"Coupon ID"`
}

type ValidateCouponInput struct {
	Body struct {
		Code       string     `json:"code" minLength:"1" maxLength:"64" doc:"Coupon code"`
		OrderTotal float64    `json:"order_total" minimum:"0" doc:"Order total to validate against"`
		CustomerID *uuid.UUID `json:"customer_id,omitempty" doc:"Customer for per-customer caps"`
	}
}

type ValidateCouponOutput struct {
	Body promo.Result
}

func RegisterPromoRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-campaign",
		Method:      http.MethodPost,
		Path:        "/campaigns",
		Summary:     "Create a campaign",
		Tags:        []string{"Promotions"},
	}, func(ctx context.Context, input *CreateCampaignInput) (*CampaignOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		now := time.Now()
		c := &domain.Campaign{
			ID:               uuid.New(),
			TenantID:         tenantID,
			Name:             input.Body.Name,
			Description:      input.Body.Description,
			DiscountType:     input.Body.DiscountType,
			DiscountValue:    input.Body.DiscountValue,
			MinOrderAmount:   input.Body.MinOrderAmount,
			MaxDiscount:      input.Body.MaxDiscount,
			StartDate:        input.Body.StartDate,
			EndDate:          input.Body.EndDate,
			UsageLimit:       input.Body.UsageLimit,
			PerCustomerLimit: input.Body.PerCustomerLimit,
			Status:           domain.CampaignStatusDraft,
			Weekdays:         input.Body.Weekdays,
			HourFrom:         input.Body.HourFrom,
			HourTo:           input.Body.HourTo,
			TargetTiers:      input.Body.TargetTiers,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		if err := store.Campaigns().Create(ctx, c); err != nil {
			return nil, huma.Error500InternalServerError("failed to create campaign", err)
		}

		return &CampaignOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-campaigns",
		Method:      http.MethodGet,
		Path:        "/campaigns",
		Summary:     "List campaigns",
		Tags:        []string{"Promotions"},
	}, func(ctx context.Context, _ *struct{}) (*ListCampaignsOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		campaigns, err := store.Campaigns().List(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list campaigns", err)
		}

		return &ListCampaignsOutput{Body: campaigns}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-campaign",
		Method:      http.MethodGet,
		Path:        "/campaigns/{id}",
		Summary:     "Get a campaign by ID",
		Tags:        []string{"Promotions"},
	}, func(ctx context.Context, input *GetCampaignInput) (*CampaignOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		c, err := store.Campaigns().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("campaign not found")
			}
			return nil, huma.Error500InternalServerError("failed to get campaign", err)
		}

		return &CampaignOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-campaign",
		Method:      http.MethodPut,
		Path:        "/campaigns/{id}",
		Summary:     "Update a campaign",
		Tags:        []string{"Promotions"},
	}, func(ctx context.Context, input *UpdateCampaignInput) (*CampaignOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		existing, err := store.Campaigns().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("campaign not found")
			}
			return nil, huma.Error500InternalServerError("failed to get campaign", err)
		}

		if input.Body.Name != "" {
			existing.Name = input.Body.Name
		}
		if input.Body.Description != "" {
			existing.Description = input.Body.Description
		}
		if input.Body.DiscountValue != nil {
			existing.DiscountValue = *input.Body.DiscountValue
		}
		if input.Body.MinOrderAmount != nil {
			existing.MinOrderAmount = *input.Body.MinOrderAmount
		}
		if input.Body.MaxDiscount != nil {
			existing.MaxDiscount = *input.Body.MaxDiscount
		}
		if input.Body.EndDate != nil {
			existing.EndDate = input.Body.EndDate
		}
		if input.Body.UsageLimit != nil {
			existing.UsageLimit = *input.Body.UsageLimit
		}
		if input.Body.PerCustomerLimit != nil {
			existing.PerCustomerLimit = *input.Body.PerCustomerLimit
		}
		if input.Body.Weekdays != nil {
			existing.Weekdays = input.Body.Weekdays
		}
		if input.Body.HourFrom != nil {
			existing.HourFrom = *input.Body.HourFrom
		}
		if input.Body.HourTo != nil {
			existing.HourTo = *input.Body.HourTo
		}
		if input.Body.TargetTiers != nil {
			existing.TargetTiers = input.Body.TargetTiers
		}
		existing.UpdatedAt = time.Now()

		if err := store.Campaigns().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update campaign", err)
		}

		return &CampaignOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-campaign-status",
		Method:      http.MethodPatch,
		Path:        "/campaigns/{id}/status",
		Summary:     "Change a campaign's lifecycle status",
		Tags:        []string{"Promotions"},
	}, func(ctx context.Context, input *UpdateCampaignStatusInput) (*struct{}, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		if err := store.Campaigns().UpdateStatus(ctx, tenantID, input.ID, input.Body.Status); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("campaign not found")
			}
			return nil, huma.Error500InternalServerError("failed to update campaign status", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-campaign",
		Method:      http.MethodDelete,
		Path:        "/campaigns/{id}",
		Summary:     "Delete a campaign",
		Tags:        []string{"Promotions"},
	}, func(ctx context.Context, input *DeleteCampaignInput) (*struct{}, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		if err := store.Campaigns().Delete(ctx, tenantID, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("campaign not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete campaign", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-coupon",
		Method:      http.MethodPost,
		Path:        "/coupons",
		Summary:     "Create a coupon",
		Tags:        []string{"Promotions"},
	}, func(ctx context.Context, input *CreateCouponInput) (*CouponOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		code := promo.NormalizeCode(input.Body.Code)
		if code == "" {
			return nil, huma.Error400BadRequest("coupon code must not be blank")
		}

		if _, err := store.Coupons().GetByCode(ctx, tenantID, code); err == nil {
			return nil, huma.Error409Conflict("coupon code already exists")
		}

		if input.Body.CampaignID != nil {
			if _, err := store.Campaigns().GetByID(ctx, tenantID, *input.Body.CampaignID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("campaign not found")
				}
				return nil, huma.Error500InternalServerError("failed to validate campaign", err)
			}
		}

		now := time.Now()
		c := &domain.Coupon{
			ID:               uuid.New(),
			TenantID:         tenantID,
			Code:             code,
			CampaignID:       input.Body.CampaignID,
			DiscountType:     input.Body.DiscountType,
			DiscountValue:    input.Body.DiscountValue,
			MinOrderAmount:   input.Body.MinOrderAmount,
			MaxDiscount:      input.Body.MaxDiscount,
			StartDate:        input.Body.StartDate,
			EndDate:          input.Body.EndDate,
			UsageLimit:       input.Body.UsageLimit,
			PerCustomerLimit: input.Body.PerCustomerLimit,
			Active:           true,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		if err := store.Coupons().Create(ctx, c); err != nil {
			return nil, huma.Error500InternalServerError("failed to create coupon", err)
		}

		return &CouponOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-coupons",
		Method:      http.MethodGet,
		Path:        "/coupons",
		Summary:     "List coupons",
		Tags:        []string{"Promotions"},
	}, func(ctx context.Context, _ *struct{}) (*ListCouponsOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		coupons, err := store.Coupons().List(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list coupons", err)
		}

		return &ListCouponsOutput{Body: coupons}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-coupon",
		Method:      http.MethodGet,
		Path:        "/coupons/{id}",
		Summary:     "Get a coupon by ID",
		Tags:        []string{"Promotions"},
	}, func(ctx context.Context, input *GetCouponInput) (*CouponOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		c, err := store.Coupons().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("coupon not found")
			}
			return nil, huma.Error500InternalServerError("failed to get coupon", err)
		}

		return &CouponOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-coupon",
		Method:      http.MethodPut,
		Path:        "/coupons/{id}",
		Summary:     "Update a coupon",
		Tags:        []string{"Promotions"},
	}, func(ctx context.Context, input *UpdateCouponInput) (*CouponOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		existing, err := store.Coupons().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("coupon not found")
			}
			return nil, huma.Error500InternalServerError("failed to get coupon", err)
		}

		if input.Body.DiscountValue != nil {
			existing.DiscountValue = *input.Body.DiscountValue
		}
		if input.Body.MinOrderAmount != nil {
			existing.MinOrderAmount = *input.Body.MinOrderAmount
		}
		if input.Body.MaxDiscount != nil {
			existing.MaxDiscount = *input.Body.MaxDiscount
		}
		if input.Body.EndDate != nil {
			existing.EndDate = input.Body.EndDate
		}
		if input.Body.UsageLimit != nil {
			existing.UsageLimit = *input.Body.UsageLimit
		}
		if input.Body.PerCustomerLimit != nil {
			existing.PerCustomerLimit = *input.Body.PerCustomerLimit
		}
		if input.Body.Active != nil {
			existing.Active = *input.Body.Active
		}
		existing.UpdatedAt = time.Now()

		if err := store.Coupons().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update coupon", err)
		}

		return &CouponOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-coupon",
		Method:      http.MethodDelete,
		Path:        "/coupons/{id}",
		Summary:     "Delete a coupon",
		Tags:        []string{"Promotions"},
	}, func(ctx context.Context, input *DeleteCouponInput) (*struct{}, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		if err := store.Coupons().Delete(ctx, tenantID, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("coupon not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete coupon", err)
		}

		return nil, nil
	})

	RegisterCouponValidation(api, store)
}

// RegisterCouponValidation wires the dry-run coupon check. It is registered
// separately because the public QR-menu surface exposes it too.
func RegisterCouponValidation(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "validate-coupon",
		Method:      http.MethodPost,
		Path:        "/coupons/validate",
		Summary:     "Validate a coupon against an order total",
		Description: "A dry run: reports validity and the discount amount without consuming a use. Invalid codes return a result with a message, not an error.",
		Tags:        []string{"Promotions"},
	}, func(ctx context.Context, input *ValidateCouponInput) (*ValidateCouponOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		code := promo.NormalizeCode(input.Body.Code)
		coupon, err := store.Coupons().GetByCode(ctx, tenantID, code)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return &ValidateCouponOutput{Body: promo.NotFound()}, nil
			}
			return nil, huma.Error500InternalServerError("failed to look up coupon", err)
		}

		var camp *domain.Campaign
		if coupon.CampaignID != nil {
			camp, err = store.Campaigns().GetByID(ctx, tenantID, *coupon.CampaignID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error500InternalServerError("failed to load campaign", err)
			}
		}

		customerUses := 0
		if input.Body.CustomerID != nil {
			customerUses, err = store.Coupons().CountRedemptionsByCustomer(ctx, tenantID, coupon.ID, *input.Body.CustomerID)
			if err != nil {
				return nil, huma.Error500InternalServerError("failed to count coupon uses", err)
			}
		}

		result := promo.ValidateCoupon(coupon, camp, input.Body.OrderTotal, customerUses, input.Body.CustomerID != nil, time.Now())
		return &ValidateCouponOutput{Body: result}, nil
	})
}

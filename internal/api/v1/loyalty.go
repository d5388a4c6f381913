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

type UpsertLoyaltyConfigInput struct {
	Body struct {
		PointsPerSpent     float64    `json:"points_per_spent" minimum:"0" doc:"Points earned per currency unit"`
		MinSpendForPoints  float64    `json:"min_spend_for_points,omitempty" minimum:"0" doc:"Minimum order total that earns points"`
		SilverThreshold    float64    `json:"silver_threshold,omitempty" minimum:"0" doc:"Cumulative spend for silver"`
		GoldThreshold      float64    `json:"gold_threshold,omitempty" minimum:"0" doc:"Cumulative spend for gold"`
		PlatinumThreshold  float64    `json:"platinum_threshold,omitempty" minimum:"0" doc:"Cumulative spend for platinum"`
		BronzeMultiplier   float64    `json:"bronze_multiplier,omitempty" minimum:"0" doc:"Bronze point multiplier"`
		SilverMultiplier   float64    `json:"silver_multiplier,omitempty" minimum:"0" doc:"Silver point multiplier"`
		GoldMultiplier     float64    `json:"gold_multiplier,omitempty" minimum:"0" doc:"Gold point multiplier"`
		PlatinumMultiplier float64    `json:"platinum_multiplier,omitempty" minimum:"0" doc:"Platinum point multiplier"`
		BirthdayBonus      int        `json:"birthday_bonus,omitempty" minimum:"0" doc:"Flat birthday bonus points"`
		ValidFrom          *time.Time `json:"valid_from,omitempty" doc:"Program start"`
		ValidUntil         *time.Time `json:"valid_until,omitempty" doc:"Program end"`
		Active             bool       `json:"active" doc:"Whether the program awards points"`
	}
}

type LoyaltyConfigOutput struct {
	Body *domain.LoyaltyConfig
}

type CreateRewardInput struct {
	Body struct {
		Name       string            `json:"name" minLength:"1" maxLength:"255" doc:"Reward name"`
		PointsCost int               `json:"points_cost" minimum:"1" doc:"Points required"`
		RewardType domain.RewardType `json:"reward_type" enum:"free_item,percent,amount" doc:"Reward kind"`
		Value      float64           `json:"value,omitempty" minimum:"0" doc:"Percent or amount depending on type"`
		MinTier    domain.Tier       `json:"min_tier,omitempty" enum:"bronze,silver,gold,platinum" doc:"Minimum tier"`
		UsageLimit int               `json:"usage_limit,omitempty" minimum:"0" doc:"Total usage cap, 0 for unlimited"`
		ValidUntil *time.Time        `json:"valid_until,omitempty" doc:"Expiry"`
	}
}

type RewardOutput struct {
	Body *domain.LoyaltyReward
}

type ListRewardsOutput struct {
	Body []*domain.LoyaltyReward
}

type UpdateRewardInput struct {
	ID   uuid.UUID `path:"id" doc:"Reward ID"`
	Body struct {
		Name       string      `json:"name,omitempty" maxLength:"255" doc:"Reward name"`
		PointsCost *int        `json:"points_cost,omitempty" minimum:"1" doc:"Points required"`
		Value      *float64    `json:"value,omitempty" minimum:"0" doc:"Percent or amount depending on type"`
		MinTier    domain.Tier `json:"min_tier,omitempty" enum:"bronze,silver,gold,platinum" doc:"Minimum tier"`
		UsageLimit *int        `json:"usage_limit,omitempty" minimum:"0" doc:"Total usage cap"`
		Active     *bool       `json:"active,omitempty" doc:"Whether the reward can be redeemed"`
		ValidUntil *time.Time  `json:"valid_until,omitempty" doc:"Expiry"`
	}
}

type DeleteRewardInput struct {
	ID uuid.UUID `path:"id" doc:"Reward ID"`
}

type RedeemRewardInput struct {
	Body struct {
		CustomerID uuid.UUID `json:"customer_id" doc:"Customer redeeming the reward"`
		RewardID   uuid.UUID `json:"reward_id" doc:"Reward to redeem"`
	}
}

type RedeemRewardOutput struct {
	Body struct {
		NewBalance int               `json:"new_balance"`
		RewardType domain.RewardType `json:"reward_type"`
		Value      float64           `json:"value,omitempty"`
	}
}

func RegisterLoyaltyRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "upsert-loyalty-config",
		Method:      http.MethodPut,
		Path:        "/loyalty/config",
		Summary:     "Create or replace the loyalty program configuration",
		Tags:        []string{"Loyalty"},
	}, func(ctx context.Context, input *UpsertLoyaltyConfigInput) (*LoyaltyConfigOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		now := time.Now()
		cfg := &domain.LoyaltyConfig{
			ID:                 uuid.New(),
			TenantID:           tenantID,
			PointsPerSpent:     input.Body.PointsPerSpent,
			MinSpendForPoints:  input.Body.MinSpendForPoints,
			SilverThreshold:    input.Body.SilverThreshold,
			GoldThreshold:      input.Body.GoldThreshold,
			PlatinumThreshold:  input.Body.PlatinumThreshold,
			BronzeMultiplier:   input.Body.BronzeMultiplier,
			SilverMultiplier:   input.Body.SilverMultiplier,
			GoldMultiplier:     input.Body.GoldMultiplier,
			PlatinumMultiplier: input.Body.PlatinumMultiplier,
			BirthdayBonus:      input.Body.BirthdayBonus,
			ValidFrom:          input.Body.ValidFrom,
			ValidUntil:         input.Body.ValidUntil,
			Active:             input.Body.Active,
			CreatedAt:          now,
			UpdatedAt:          now,
		}

		if err := store.LoyaltyConfigs().Upsert(ctx, cfg); err != nil {
			return nil, huma.Error500InternalServerError("failed to save loyalty config", err)
		}

		return &LoyaltyConfigOutput{Body: cfg}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-loyalty-config",
		Method:      http.MethodGet,
		Path:        "/loyalty/config",
		Summary:     "Get the loyalty program configuration",
		Tags:        []string{"Loyalty"},
	}, func(ctx context.Context, _ *struct{}) (*LoyaltyConfigOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		cfg, err := store.LoyaltyConfigs().GetByTenant(ctx, tenantID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("loyalty program is not configured")
			}
			return nil, huma.Error500InternalServerError("failed to get loyalty config", err)
		}

		return &LoyaltyConfigOutput{Body: cfg}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-loyalty-reward",
		Method:      http.MethodPost,
		Path:        "/loyalty/rewards",
		Summary:     "Create a loyalty reward",
		Tags:        []string{"Loyalty"},
	}, func(ctx context.Context, input *CreateRewardInput) (*RewardOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		minTier := input.Body.MinTier
		if minTier == "" {
			minTier = domain.TierBronze
		}

		now := time.Now()
		r := &domain.LoyaltyReward{
			ID:         uuid.New(),
			TenantID:   tenantID,
			Name:       input.Body.Name,
			PointsCost: input.Body.PointsCost,
			RewardType: input.Body.RewardType,
			Value:      input.Body.Value,
			MinTier:    minTier,
			UsageLimit: input.Body.UsageLimit,
			Active:     true,
			ValidUntil: input.Body.ValidUntil,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if err := store.LoyaltyRewards().Create(ctx, r); err != nil {
			return nil, huma.Error500InternalServerError("failed to create reward", err)
		}

		return &RewardOutput{Body: r}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-loyalty-rewards",
		Method:      http.MethodGet,
		Path:        "/loyalty/rewards",
		Summary:     "List loyalty rewards",
		Tags:        []string{"Loyalty"},
	}, func(ctx context.Context, _ *struct{}) (*ListRewardsOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		rewards, err := store.LoyaltyRewards().List(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list rewards", err)
		}

		return &ListRewardsOutput{Body: rewards}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-loyalty-reward",
		Method:      http.MethodPut,
		Path:        "/loyalty/rewards/{id}",
		Summary:     "Update a loyalty reward",
		Tags:        []string{"Loyalty"},
	}, func(ctx context.Context, input *UpdateRewardInput) (*RewardOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		existing, err := store.LoyaltyRewards().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("reward not found")
			}
			return nil, huma.Error500InternalServerError("failed to get reward", err)
		}

		if input.Body.Name != "" {
			existing.Name = input.Body.Name
		}
		if input.Body.PointsCost != nil {
			existing.PointsCost = *input.Body.PointsCost
		}
		if input.Body.Value != nil {
			existing.Value = *input.Body.Value
		}
		if input.Body.MinTier != "" {
			existing.MinTier = input.Body.MinTier
		}
		if input.Body.UsageLimit != nil {
			existing.UsageLimit = *input.Body.UsageLimit
		}
		if input.Body.Active != nil {
			existing.Active = *input.Body.Active
		}
		if input.Body.ValidUntil != nil {
			existing.ValidUntil = input.Body.ValidUntil
		}
		existing.UpdatedAt = time.Now()

		if err := store.LoyaltyRewards().Update(ctx, existing); err != nil {
			return nil, huma.Error500InternalServerError("failed to update reward", err)
		}

		return &RewardOutput{Body: existing}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-loyalty-reward",
		Method:      http.MethodDelete,
		Path:        "/loyalty/rewards/{id}",
		Summary:     "Delete a loyalty reward",
		Tags:        []string{"Loyalty"},
	}, func(ctx context.Context, input *DeleteRewardInput) (*struct{}, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		if err := store.LoyaltyRewards().Delete(ctx, tenantID, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("reward not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete reward", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "redeem-loyalty-reward",
		Method:      http.MethodPost,
		Path:        "/loyalty/redeem",
		Summary:     "Redeem a reward for a customer",
		Description: "Validates eligibility, then atomically deducts points and consumes one reward use.",
		Tags:        []string{"Loyalty"},
	}, func(ctx context.Context, input *RedeemRewardInput) (*RedeemRewardOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		c, err := store.Customers().GetByID(ctx, tenantID, input.Body.CustomerID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("customer not found")
			}
			return nil, huma.Error500InternalServerError("failed to get customer", err)
		}

		r, err := store.LoyaltyRewards().GetByID(ctx, tenantID, input.Body.RewardID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("reward not found")
			}
			return nil, huma.Error500InternalServerError("failed to get reward", err)
		}

		res, err := loyalty.Redeem(c, r, time.Now())
		if err != nil {
			switch {
			case errors.Is(err, loyalty.ErrInsufficientPoints):
				return nil, huma.Error400BadRequest("insufficient points")
			case errors.Is(err, loyalty.ErrTierNotEligible):
				return nil, huma.Error400BadRequest("loyalty tier not eligible for this reward")
			case errors.Is(err, loyalty.ErrRewardExhausted):
				return nil, huma.Error409Conflict("reward usage limit reached")
			case errors.Is(err, loyalty.ErrRewardInactive):
				return nil, huma.Error400BadRequest("reward is inactive or expired")
			default:
				return nil, huma.Error500InternalServerError("failed to validate redemption", err)
			}
		}

		// The store re-checks balance and usage cap; a lost race comes back
		// as a conflict rather than a negative balance.
		newBalance, err := store.Customers().RedeemPoints(ctx, tenantID, c.ID, r.ID, r.PointsCost)
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("redemption lost a concurrent update, retry")
			}
			return nil, huma.Error500InternalServerError("failed to redeem reward", err)
		}

		writeAudit(ctx, store, tenantID, "loyalty.redeemed", "customer", c.ID, map[string]any{
			"reward_id":   r.ID.String(),
			"points_cost": r.PointsCost,
		})

		out := &RedeemRewardOutput{}
		out.Body.NewBalance = newBalance
		out.Body.RewardType = res.RewardType
		out.Body.Value = res.Value
		return out, nil
	})
}

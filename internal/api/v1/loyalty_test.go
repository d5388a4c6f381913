package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/tably/tably/internal/api/v1"
	"github.com/tably/tably/internal/domain"
)

func TestUpsertLoyaltyConfig(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()

	var saved *domain.LoyaltyConfig
	_, api := humatest.New(t)
	store := &mockDataStore{
		loyaltyConfigs: &mockLoyaltyConfigRepo{
			upsertFunc: func(_ context.Context, c *domain.LoyaltyConfig) error {
				saved = c
				return nil
			},
		},
	}
	v1.RegisterLoyaltyRoutes(api, store)

	resp := api.PutCtx(tenantCtx(tenantID), "/loyalty/config", map[string]any{
		"points_per_spent": 1.5,
		"silver_threshold": 500,
		"gold_threshold":   2000,
		"gold_multiplier":  2,
		"birthday_bonus":   100,
		"active":           true,
	})

	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, saved)
	assert.Equal(t, tenantID, saved.TenantID)
	assert.Equal(t, 1.5, saved.PointsPerSpent)
	assert.Equal(t, 500.0, saved.SilverThreshold)
	assert.Equal(t, 100, saved.BirthdayBonus)
	assert.True(t, saved.Active)
}

func TestRedeemLoyaltyReward(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	customerID := uuid.New()
	rewardID := uuid.New()

	reward := func() *domain.LoyaltyReward {
		return &domain.LoyaltyReward{
			ID:         rewardID,
			TenantID:   tenantID,
			Name:       "Free dessert",
			PointsCost: 200,
			RewardType: domain.RewardTypeFreeItem,
			MinTier:    domain.TierBronze,
			Active:     true,
		}
	}

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		var deducted bool
		_, api := humatest.New(t)
		store := &mockDataStore{
			customers: &mockCustomerRepo{
				getByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*domain.Customer, error) {
					return &domain.Customer{ID: customerID, LoyaltyPoints: 500, LoyaltyTier: domain.TierSilver}, nil
				},
				redeemPointsFunc: func(_ context.Context, _, cid, rid uuid.UUID, pointsCost int) (int, error) {
					deducted = true
					assert.Equal(t, customerID, cid)
					assert.Equal(t, rewardID, rid)
					assert.Equal(t, 200, pointsCost)
					return 300, nil
				},
			},
			loyaltyRewards: &mockLoyaltyRewardRepo{
				getByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*domain.LoyaltyReward, error) {
					return reward(), nil
				},
			},
			audit: &mockAuditRepo{},
		}
		v1.RegisterLoyaltyRoutes(api, store)

		resp := api.PostCtx(tenantCtx(tenantID), "/loyalty/redeem", map[string]any{
			"customer_id": customerID.String(),
			"reward_id":   rewardID.String(),
		})

		require.Equal(t, http.StatusOK, resp.Code)
		assert.True(t, deducted, "store.Customers().RedeemPoints must be invoked")

		var body struct {
			NewBalance int               `json:"new_balance"`
			RewardType domain.RewardType `json:"reward_type"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, 300, body.NewBalance)
		assert.Equal(t, domain.RewardTypeFreeItem, body.RewardType)
	})

	t.Run("insufficient_points", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			customers: &mockCustomerRepo{
				getByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*domain.Customer, error) {
					return &domain.Customer{ID: customerID, LoyaltyPoints: 50, LoyaltyTier: domain.TierGold}, nil
				},
			},
			loyaltyRewards: &mockLoyaltyRewardRepo{
				getByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*domain.LoyaltyReward, error) {
					return reward(), nil
				},
			},
		}
		v1.RegisterLoyaltyRoutes(api, store)

		resp := api.PostCtx(tenantCtx(tenantID), "/loyalty/redeem", map[string]any{
			"customer_id": customerID.String(),
			"reward_id":   rewardID.String(),
		})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("tier_not_eligible", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			customers: &mockCustomerRepo{
				getByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*domain.Customer, error) {
					return &domain.Customer{ID: customerID, LoyaltyPoints: 500, LoyaltyTier: domain.TierBronze}, nil
				},
			},
			loyaltyRewards: &mockLoyaltyRewardRepo{
				getByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*domain.LoyaltyReward, error) {
					r := reward()
					r.MinTier = domain.TierGold
					return r, nil
				},
			},
		}
		v1.RegisterLoyaltyRoutes(api, store)

		resp := api.PostCtx(tenantCtx(tenantID), "/loyalty/redeem", map[string]any{
			"customer_id": customerID.String(),
			"reward_id":   rewardID.String(),
		})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("reward_exhausted", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			customers: &mockCustomerRepo{
				getByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*domain.Customer, error) {
					return &domain.Customer{ID: customerID, LoyaltyPoints: 500, LoyaltyTier: domain.TierGold}, nil
				},
			},
			loyaltyRewards: &mockLoyaltyRewardRepo{
				getByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*domain.LoyaltyReward, error) {
					r := reward()
					r.UsageLimit = 10
					r.UsedCount = 10
					return r, nil
				},
			},
		}
		v1.RegisterLoyaltyRoutes(api, store)

		resp := api.PostCtx(tenantCtx(tenantID), "/loyalty/redeem", map[string]any{
			"customer_id": customerID.String(),
			"reward_id":   rewardID.String(),
		})

		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("expired_reward", func(t *testing.T) {
		t.Parallel()

		past := time.Now().Add(-time.Hour)
		_, api := humatest.New(t)
		store := &mockDataStore{
			customers: &mockCustomerRepo{
				getByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*domain.Customer, error) {
					return &domain.Customer{ID: customerID, LoyaltyPoints: 500, LoyaltyTier: domain.TierGold}, nil
				},
			},
			loyaltyRewards: &mockLoyaltyRewardRepo{
				getByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*domain.LoyaltyReward, error) {
					r := reward()
					r.ValidUntil = &past
					return r, nil
				},
			},
		}
		v1.RegisterLoyaltyRoutes(api, store)

		resp := api.PostCtx(tenantCtx(tenantID), "/loyalty/redeem", map[string]any{
			"customer_id": customerID.String(),
			"reward_id":   rewardID.String(),
		})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("lost_race", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			customers: &mockCustomerRepo{
				getByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*domain.Customer, error) {
					return &domain.Customer{ID: customerID, LoyaltyPoints: 500, LoyaltyTier: domain.TierGold}, nil
				},
				redeemPointsFunc: func(_ context.Context, _, _, _ uuid.UUID, _ int) (int, error) {
					return 0, domain.ErrConflict
				},
			},
			loyaltyRewards: &mockLoyaltyRewardRepo{
				getByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*domain.LoyaltyReward, error) {
					return reward(), nil
				},
			},
		}
		v1.RegisterLoyaltyRoutes(api, store)

		resp := api.PostCtx(tenantCtx(tenantID), "/loyalty/redeem", map[string]any{
			"customer_id": customerID.String(),
			"reward_id":   rewardID.String(),
		})

		assert.Equal(t, http.StatusConflict, resp.Code)
	})
}

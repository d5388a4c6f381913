package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LoyaltyConfig is a tenant's loyalty program definition. One row per tenant.
type LoyaltyConfig struct {
	ID                 uuid.UUID
	TenantID           uuid.UUID
	PointsPerSpent     float64 // points earned per currency unit spent
	MinSpendForPoints  float64 // order totals below this earn nothing
	SilverThreshold    float64 // cumulative spend thresholds, ascending
	GoldThreshold      float64
	PlatinumThreshold  float64
	BronzeMultiplier   float64 // per-tier point multipliers
	SilverMultiplier   float64
	GoldMultiplier     float64
	PlatinumMultiplier float64
	BirthdayBonus      int // flat points awarded on the customer's birthday
	ValidFrom          *time.Time
	ValidUntil         *time.Time
	Active             bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Multiplier returns the point multiplier for a tier. Unconfigured
// multipliers fall back to 1.
func (c *LoyaltyConfig) Multiplier(t Tier) float64 {
	var m float64
	switch t {
	case TierSilver:
		m = c.SilverMultiplier
	case TierGold:
		m = c.GoldMultiplier
	case TierPlatinum:
		m = c.PlatinumMultiplier
	default:
		m = c.BronzeMultiplier
	}
	if m <= 0 {
		return 1
	}
	return m
}

type RewardType string

const (
	RewardTypeFreeItem RewardType = "free_item"
	RewardTypePercent  RewardType = "percent"
	RewardTypeAmount   RewardType = "amount"
)

// LoyaltyReward is a catalog entry customers redeem points for.
type LoyaltyReward struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	Name       string
	PointsCost int
	RewardType RewardType
	Value      float64 // percent or monetary amount depending on type
	MinTier    Tier
	UsageLimit int // 0 = unlimited
	UsedCount  int
	Active     bool
	ValidUntil *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type LoyaltyConfigRepository interface {
	Upsert(ctx context.Context, c *LoyaltyConfig) error
	GetByTenant(ctx context.Context, tenantID uuid.UUID) (*LoyaltyConfig, error)
}

type LoyaltyRewardRepository interface {
	Create(ctx context.Context, r *LoyaltyReward) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*LoyaltyReward, error)
	Update(ctx context.Context, r *LoyaltyReward) error
	List(ctx context.Context, tenantID uuid.UUID) ([]*LoyaltyReward, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

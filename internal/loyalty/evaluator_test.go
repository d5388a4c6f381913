package loyalty_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tably/tably/internal/domain"
	"github.com/tably/tably/internal/loyalty"
)

func baseConfig() *domain.LoyaltyConfig {
	return &domain.LoyaltyConfig{
		PointsPerSpent:     1,
		MinSpendForPoints:  0,
		SilverThreshold:    500,
		GoldThreshold:      2000,
		PlatinumThreshold:  5000,
		BronzeMultiplier:   1,
		SilverMultiplier:   1.25,
		GoldMultiplier:     1.5,
		PlatinumMultiplier: 2,
		Active:             true,
	}
}

func now() time.Time {
	return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
}

// ---------------------------------------------------------------------------
// TierForSpend
// ---------------------------------------------------------------------------

func TestTierForSpend(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()

	tests := []struct {
		spent float64
		want  domain.Tier
	}{
		{0, domain.TierBronze},
		{499.99, domain.TierBronze},
		{500, domain.TierSilver},
		{1999, domain.TierSilver},
		{2000, domain.TierGold},
		{4999, domain.TierGold},
		{5000, domain.TierPlatinum},
		{100000, domain.TierPlatinum},
	}

	for _, tt := range tests {
		got := loyalty.TierForSpend(cfg, tt.spent)
		assert.Equal(t, tt.want, got, "spent=%v", tt.spent)
	}
}

func TestTierForSpend_UnsetThresholds(t *testing.T) {
	t.Parallel()

	// Zero thresholds never promote.
	cfg := &domain.LoyaltyConfig{}
	assert.Equal(t, domain.TierBronze, loyalty.TierForSpend(cfg, 1e9))
}

// ---------------------------------------------------------------------------
// Accrue
// ---------------------------------------------------------------------------

func TestAccrue_SpecExample(t *testing.T) {
	t.Parallel()

	// pointsPerSpent 1, silver threshold 500, customer at 480 spends 30:
	// new total 510 -> silver, points += 30.
	cfg := baseConfig()
	c := &domain.Customer{TotalSpent: 480, LoyaltyTier: domain.TierBronze}

	res := loyalty.Accrue(cfg, c, 30, now())

	assert.Equal(t, 30, res.Points)
	assert.InDelta(t, 510.0, res.NewTotalSpent, 1e-9)
	assert.Equal(t, domain.TierSilver, res.NewTier)
	assert.True(t, res.TierChanged)
}

func TestAccrue_TierMultiplier(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	c := &domain.Customer{TotalSpent: 3000, LoyaltyTier: domain.TierGold}

	// 100 * 1 * 1.5 = 150 points at gold.
	res := loyalty.Accrue(cfg, c, 100, now())
	assert.Equal(t, 150, res.Points)
	assert.Equal(t, domain.TierGold, res.NewTier)
	assert.False(t, res.TierChanged)
}

func TestAccrue_FloorsFractionalPoints(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.PointsPerSpent = 0.5
	c := &domain.Customer{LoyaltyTier: domain.TierBronze}

	// 33 * 0.5 = 16.5 -> 16.
	res := loyalty.Accrue(cfg, c, 33, now())
	assert.Equal(t, 16, res.Points)
}

func TestAccrue_BelowMinSpend(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.MinSpendForPoints = 50
	c := &domain.Customer{TotalSpent: 100, LoyaltyTier: domain.TierBronze}

	res := loyalty.Accrue(cfg, c, 49.99, now())

	assert.Zero(t, res.Points)
	// Spend still accrues toward the tier thresholds.
	assert.InDelta(t, 149.99, res.NewTotalSpent, 1e-9)
}

func TestAccrue_InactiveConfig(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.Active = false
	c := &domain.Customer{LoyaltyTier: domain.TierBronze}

	res := loyalty.Accrue(cfg, c, 100, now())
	assert.Zero(t, res.Points)
}

func TestAccrue_OutsideValidityWindow(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	until := now().Add(-24 * time.Hour)
	cfg.ValidUntil = &until
	c := &domain.Customer{LoyaltyTier: domain.TierBronze}

	res := loyalty.Accrue(cfg, c, 100, now())
	assert.Zero(t, res.Points)
}

func TestAccrue_NeverDemotes(t *testing.T) {
	t.Parallel()

	// A customer holding gold under an older config stays gold even when the
	// current thresholds imply silver.
	cfg := baseConfig()
	c := &domain.Customer{TotalSpent: 600, LoyaltyTier: domain.TierGold}

	res := loyalty.Accrue(cfg, c, 10, now())
	assert.Equal(t, domain.TierGold, res.NewTier)
	assert.False(t, res.TierChanged)
}

func TestAccrue_ThresholdCrossingPromotesExactly(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()

	// Crossing gold and platinum in one order promotes straight to platinum.
	c := &domain.Customer{TotalSpent: 1900, LoyaltyTier: domain.TierSilver}
	res := loyalty.Accrue(cfg, c, 4000, now())
	assert.Equal(t, domain.TierPlatinum, res.NewTier)
	assert.True(t, res.TierChanged)
}

// ---------------------------------------------------------------------------
// Redeem
// ---------------------------------------------------------------------------

func activeReward() *domain.LoyaltyReward {
	return &domain.LoyaltyReward{
		Name:       "Free coffee",
		PointsCost: 100,
		RewardType: domain.RewardTypeAmount,
		Value:      5,
		MinTier:    domain.TierBronze,
		Active:     true,
	}
}

func TestRedeem_Success(t *testing.T) {
	t.Parallel()

	c := &domain.Customer{LoyaltyPoints: 250, LoyaltyTier: domain.TierSilver}
	r := activeReward()

	res, err := loyalty.Redeem(c, r, now())
	require.NoError(t, err)
	assert.Equal(t, 150, res.NewBalance)
	assert.Equal(t, domain.RewardTypeAmount, res.RewardType)
	assert.InDelta(t, 5.0, res.Value, 1e-9)
}

func TestRedeem_InsufficientPoints(t *testing.T) {
	t.Parallel()

	c := &domain.Customer{LoyaltyPoints: 99, LoyaltyTier: domain.TierPlatinum}
	r := activeReward()

	_, err := loyalty.Redeem(c, r, now())
	assert.ErrorIs(t, err, loyalty.ErrInsufficientPoints)
	// The customer row is untouched on failure.
	assert.Equal(t, 99, c.LoyaltyPoints)
}

func TestRedeem_TierNotEligible(t *testing.T) {
	t.Parallel()

	c := &domain.Customer{LoyaltyPoints: 500, LoyaltyTier: domain.TierSilver}
	r := activeReward()
	r.MinTier = domain.TierGold

	_, err := loyalty.Redeem(c, r, now())
	assert.ErrorIs(t, err, loyalty.ErrTierNotEligible)
}

func TestRedeem_Exhausted(t *testing.T) {
	t.Parallel()

	c := &domain.Customer{LoyaltyPoints: 500, LoyaltyTier: domain.TierGold}
	r := activeReward()
	r.UsageLimit = 10
	r.UsedCount = 10

	_, err := loyalty.Redeem(c, r, now())
	assert.ErrorIs(t, err, loyalty.ErrRewardExhausted)
}

func TestRedeem_UnlimitedUsage(t *testing.T) {
	t.Parallel()

	c := &domain.Customer{LoyaltyPoints: 500, LoyaltyTier: domain.TierGold}
	r := activeReward()
	r.UsageLimit = 0 // unlimited
	r.UsedCount = 100000

	_, err := loyalty.Redeem(c, r, now())
	assert.NoError(t, err)
}

func TestRedeem_Inactive(t *testing.T) {
	t.Parallel()

	c := &domain.Customer{LoyaltyPoints: 500, LoyaltyTier: domain.TierGold}
	r := activeReward()
	r.Active = false

	_, err := loyalty.Redeem(c, r, now())
	assert.ErrorIs(t, err, loyalty.ErrRewardInactive)
}

func TestRedeem_Expired(t *testing.T) {
	t.Parallel()

	c := &domain.Customer{LoyaltyPoints: 500, LoyaltyTier: domain.TierGold}
	r := activeReward()
	past := now().Add(-time.Hour)
	r.ValidUntil = &past

	_, err := loyalty.Redeem(c, r, now())
	assert.ErrorIs(t, err, loyalty.ErrRewardInactive)
}

// TestRedeem_CheckOrder verifies the first failing check wins: a reward that
// is both unaffordable and inactive reports insufficient points.
func TestRedeem_CheckOrder(t *testing.T) {
	t.Parallel()

	c := &domain.Customer{LoyaltyPoints: 0, LoyaltyTier: domain.TierBronze}
	r := activeReward()
	r.Active = false
	r.MinTier = domain.TierPlatinum

	_, err := loyalty.Redeem(c, r, now())
	assert.ErrorIs(t, err, loyalty.ErrInsufficientPoints)
}

// ---------------------------------------------------------------------------
// BirthdayBonus
// ---------------------------------------------------------------------------

func TestBirthdayBonus(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.BirthdayBonus = 200

	bday := time.Date(1990, 8, 28, 0, 0, 0, 0, time.UTC)
	c := &domain.Customer{Birthday: &bday}

	assert.Equal(t, 200, loyalty.BirthdayBonus(cfg, c, now()))

	otherDay := time.Date(1990, 3, 1, 0, 0, 0, 0, time.UTC)
	c2 := &domain.Customer{Birthday: &otherDay}
	assert.Zero(t, loyalty.BirthdayBonus(cfg, c2, now()))

	assert.Zero(t, loyalty.BirthdayBonus(cfg, &domain.Customer{}, now()))

	cfg.BirthdayBonus = 0
	assert.Zero(t, loyalty.BirthdayBonus(cfg, c, now()))
}

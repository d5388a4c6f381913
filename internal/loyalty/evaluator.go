// Package loyalty computes point accrual, tier placement, and reward
// redemption over already-fetched rows. Everything here is pure; persistence
// happens in the store layer after a result comes back.
package loyalty

import (
	"errors"
	"math"
	"time"

	"github.com/tably/tably/internal/domain"
)

// Sentinel errors for redemption failures. These are expected business
// outcomes, surfaced to callers as typed reasons rather than wrapped faults.
var (
	ErrInsufficientPoints = errors.New("loyalty: insufficient points")
	ErrTierNotEligible    = errors.New("loyalty: tier not eligible")
	ErrRewardExhausted    = errors.New("loyalty: reward usage limit reached")
	ErrRewardInactive     = errors.New("loyalty: reward inactive or expired")
)

// AccrualResult is the outcome of applying a completed order to a customer's
// loyalty state.
type AccrualResult struct {
	Points        int
	NewTotalSpent float64
	NewTier       domain.Tier
	TierChanged   bool
}

// RedemptionResult is the outcome of a successful reward redemption.
type RedemptionResult struct {
	NewBalance int
	RewardType domain.RewardType
	Value      float64
}

// TierForSpend returns the tier implied by cumulative spend under the given
// config thresholds. Thresholds of zero are treated as unset.
func TierForSpend(cfg *domain.LoyaltyConfig, totalSpent float64) domain.Tier {
	tier := domain.TierBronze
	if cfg.SilverThreshold > 0 && totalSpent >= cfg.SilverThreshold {
		tier = domain.TierSilver
	}
	if cfg.GoldThreshold > 0 && totalSpent >= cfg.GoldThreshold {
		tier = domain.TierGold
	}
	if cfg.PlatinumThreshold > 0 && totalSpent >= cfg.PlatinumThreshold {
		tier = domain.TierPlatinum
	}
	return tier
}

// active reports whether the config awards points at the given time.
func active(cfg *domain.LoyaltyConfig, now time.Time) bool {
	if !cfg.Active {
		return false
	}
	if cfg.ValidFrom != nil && now.Before(*cfg.ValidFrom) {
		return false
	}
	if cfg.ValidUntil != nil && now.After(*cfg.ValidUntil) {
		return false
	}
	return true
}

// Accrue computes the points earned for a completed order and the customer's
// resulting spend and tier. Points use the multiplier of the tier the
// customer held *before* this order. Spend and visit counters advance even
// when the order earns no points; the tier only ever moves up in this flow.
func Accrue(cfg *domain.LoyaltyConfig, c *domain.Customer, orderTotal float64, now time.Time) AccrualResult {
	res := AccrualResult{
		NewTotalSpent: c.TotalSpent + orderTotal,
		NewTier:       c.LoyaltyTier,
	}

	if active(cfg, now) && orderTotal >= cfg.MinSpendForPoints {
		res.Points = int(math.Floor(orderTotal * cfg.PointsPerSpent * cfg.Multiplier(c.LoyaltyTier)))
	}

	implied := TierForSpend(cfg, res.NewTotalSpent)
	if implied.Rank() > res.NewTier.Rank() {
		res.NewTier = implied
		res.TierChanged = true
	}

	return res
}

// Redeem validates a reward redemption. Checks run in a fixed order and the
// first failure wins; the caller applies no side effects on error.
func Redeem(c *domain.Customer, r *domain.LoyaltyReward, now time.Time) (RedemptionResult, error) {
	if c.LoyaltyPoints < r.PointsCost {
		return RedemptionResult{}, ErrInsufficientPoints
	}
	if !c.LoyaltyTier.AtLeast(r.MinTier) {
		return RedemptionResult{}, ErrTierNotEligible
	}
	if r.UsageLimit > 0 && r.UsedCount >= r.UsageLimit {
		return RedemptionResult{}, ErrRewardExhausted
	}
	if !r.Active || (r.ValidUntil != nil && now.After(*r.ValidUntil)) {
		return RedemptionResult{}, ErrRewardInactive
	}

	return RedemptionResult{
		NewBalance: c.LoyaltyPoints - r.PointsCost,
		RewardType: r.RewardType,
		Value:      r.Value,
	}, nil
}

// BirthdayBonus returns the flat bonus points due when today is the
// customer's birthday, or zero.
func BirthdayBonus(cfg *domain.LoyaltyConfig, c *domain.Customer, now time.Time) int {
	if cfg.BirthdayBonus <= 0 || c.Birthday == nil || !active(cfg, now) {
		return 0
	}
	if c.Birthday.Month() == now.Month() && c.Birthday.Day() == now.Day() {
		return cfg.BirthdayBonus
	}
	return 0
}

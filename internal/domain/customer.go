package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tier is a customer's loyalty ranking. Tiers are strictly ordered:
// bronze < silver < gold < platinum.
type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

// Rank returns the tier's position in the ordering, bronze being 0.
// Unknown tiers rank below bronze.
func (t Tier) Rank() int {
	switch t {
	case TierBronze:
		return 0
	case TierSilver:
		return 1
	case TierGold:
		return 2
	case TierPlatinum:
		return 3
	default:
		return -1
	}
}

// AtLeast reports whether t is equal to or above the given tier.
func (t Tier) AtLeast(min Tier) bool {
	return t.Rank() >= min.Rank()
}

type Customer struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	Name          string
	Phone         string
	Email         string
	Birthday      *time.Time // nullable
	LoyaltyPoints int
	LoyaltyTier   Tier
	TotalSpent    float64
	VisitCount    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CustomerRepository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)
	GetByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*Customer, error)
	Update(ctx context.Context, c *Customer) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*Customer, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// ApplyAccrual persists the outcome of a loyalty accrual: points added,
	// spend and visit counters incremented, tier updated.
	ApplyAccrual(ctx context.Context, tenantID, id uuid.UUID, points int, orderTotal float64, tier Tier) error

	// RedeemPoints atomically deducts pointsCost from the customer's balance
	// and increments the reward's usage counter. Returns ErrConflict when the
	// balance is insufficient or the reward's usage cap is already reached at
	// the store level (lost race).
	RedeemPoints(ctx context.Context, tenantID, customerID, rewardID uuid.UUID, pointsCost int) (newBalance int, err error)
}

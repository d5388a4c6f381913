package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Coupon is a redeemable code, optionally bound to a Campaign. Codes are
// stored upper-case; lookups normalize case and whitespace.
type Coupon struct {
	ID               uuid.UUID
	TenantID         uuid.UUID
	Code             string
	CampaignID       *uuid.UUID // nullable
	DiscountType     DiscountType
	DiscountValue    float64
	MinOrderAmount   float64
	MaxDiscount      float64 // 0 = uncapped
	StartDate        time.Time
	EndDate          *time.Time // nullable, open-ended
	UsageLimit       int        // 0 = unlimited
	UsedCount        int
	PerCustomerLimit int // 0 = unlimited
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CouponRedemption is one use of a coupon, recorded for per-customer caps
// and reporting.
type CouponRedemption struct {
	ID         uuid.UUID
	CouponID   uuid.UUID
	TenantID   uuid.UUID
	CustomerID *uuid.UUID // nullable, anonymous checkout
	OrderID    *uuid.UUID
	Amount     float64
	CreatedAt  time.Time
}

type CouponRepository interface {
	Create(ctx context.Context, c *Coupon) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Coupon, error)
	GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Coupon, error)
	Update(ctx context.Context, c *Coupon) error
	List(ctx context.Context, tenantID uuid.UUID) ([]*Coupon, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// CountRedemptionsByCustomer returns prior uses of the coupon by one customer.
	CountRedemptionsByCustomer(ctx context.Context, tenantID, couponID, customerID uuid.UUID) (int, error)

	// Redeem consumes one use: a conditional increment of used_count that
	// fails with ErrConflict when the usage cap is already reached, plus the
	// redemption ledger row, in one transaction.
	Redeem(ctx context.Context, red *CouponRedemption) error
}

package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type DiscountType string

const (
	DiscountTypePercent DiscountType = "percent"
	DiscountTypeAmount  DiscountType = "amount"
)

type CampaignStatus string

const (
	CampaignStatusDraft  CampaignStatus = "draft"
	CampaignStatusActive CampaignStatus = "active"
	CampaignStatusPaused CampaignStatus = "paused"
	CampaignStatusEnded  CampaignStatus = "ended"
)

// Campaign is a tenant-scoped promotional rule. Coupons may link to a
// campaign, in which case the campaign's discount parameters take precedence
// over the coupon's own.
type Campaign struct {
	ID               uuid.UUID
	TenantID         uuid.UUID
	Name             string
	Description      string
	DiscountType     DiscountType
	DiscountValue    float64
	MinOrderAmount   float64
	MaxDiscount      float64 // 0 = uncapped
	StartDate        time.Time
	EndDate          *time.Time // nullable, open-ended
	UsageLimit       int        // 0 = unlimited
	UsedCount        int
	PerCustomerLimit int // 0 = unlimited
	Status           CampaignStatus
	Weekdays         []time.Weekday // empty = every day
	HourFrom         int            // 0..23; HourFrom == HourTo == 0 means all day
	HourTo           int
	TargetTiers      []Tier // empty = all tiers
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ScheduleAllows reports whether the campaign's weekday/hour restrictions
// permit redemption at the given time.
func (c *Campaign) ScheduleAllows(now time.Time) bool {
	if len(c.Weekdays) > 0 {
		ok := false
		for _, wd := range c.Weekdays {
			if wd == now.Weekday() {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if c.HourFrom == 0 && c.HourTo == 0 {
		return true
	}
	h := now.Hour()
	if c.HourFrom <= c.HourTo {
		return h >= c.HourFrom && h < c.HourTo
	}
	// Overnight window, e.g. 22..3.
	return h >= c.HourFrom || h < c.HourTo
}

// TargetsTier reports whether the campaign applies to the given tier.
func (c *Campaign) TargetsTier(t Tier) bool {
	if len(c.TargetTiers) == 0 {
		return true
	}
	for _, tt := range c.TargetTiers {
		if tt == t {
			return true
		}
	}
	return false
}

type CampaignRepository interface {
	Create(ctx context.Context, c *Campaign) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Campaign, error)
	Update(ctx context.Context, c *Campaign) error
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status CampaignStatus) error
	List(ctx context.Context, tenantID uuid.UUID) ([]*Campaign, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

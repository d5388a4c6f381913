// Package promo validates coupon and campaign codes and computes discount
// amounts. An invalid code is an expected, frequent user outcome, so
// validation returns a data Result with a human-readable message instead of
// an error.
package promo

import (
	"fmt"
	"strings"
	"time"

	"github.com/tably/tably/internal/domain"
)

// Result is the outcome of validating a code against an order.
type Result struct {
	Valid          bool                `json:"valid"`
	Message        string              `json:"message,omitempty"`
	DiscountType   domain.DiscountType `json:"discountType,omitempty"`
	DiscountValue  float64             `json:"discountValue,omitempty"`
	MinOrderAmount float64             `json:"minOrderAmount,omitempty"`
	MaxDiscount    float64             `json:"maxDiscount,omitempty"`
	Amount         float64             `json:"amount,omitempty"`
}

func reject(message string) Result {
	return Result{Valid: false, Message: message}
}

// NotFound is the result for a code that matches no coupon of the tenant.
func NotFound() Result {
	return reject("coupon not found")
}

// NormalizeCode strips whitespace and upper-cases a code for lookup. Codes
// are stored upper-case, so matching is case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateCoupon runs the full validation sequence for a coupon. camp is the
// linked campaign row when the coupon has one, nil otherwise. customerUses is
// the customer's prior redemption count; pass hasCustomer=false for anonymous
// checkouts, which skips the per-customer cap. Each rejection carries a
// distinct message; checks run in order and the first failure wins.
func ValidateCoupon(c *domain.Coupon, camp *domain.Campaign, orderTotal float64, customerUses int, hasCustomer bool, now time.Time) Result {
	if !c.Active {
		return reject("coupon is not active")
	}
	if now.Before(c.StartDate) {
		return reject("coupon is not valid yet")
	}
	if c.EndDate != nil && now.After(*c.EndDate) {
		return reject("coupon has expired")
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return reject("coupon usage limit reached")
	}
	if hasCustomer && c.PerCustomerLimit > 0 && customerUses >= c.PerCustomerLimit {
		return reject("coupon usage limit reached for this customer")
	}

	// Effective discount parameters: the campaign's win when the coupon is
	// linked to one.
	typ, value, minOrder, maxDiscount := c.DiscountType, c.DiscountValue, c.MinOrderAmount, c.MaxDiscount
	if c.CampaignID != nil {
		if camp == nil || camp.Status != domain.CampaignStatusActive {
			return reject("campaign is not active")
		}
		typ, value, minOrder, maxDiscount = camp.DiscountType, camp.DiscountValue, camp.MinOrderAmount, camp.MaxDiscount
	}

	if orderTotal < minOrder {
		return reject(fmt.Sprintf("minimum order amount is %.2f", minOrder))
	}

	return Result{
		Valid:          true,
		DiscountType:   typ,
		DiscountValue:  value,
		MinOrderAmount: minOrder,
		MaxDiscount:    maxDiscount,
		Amount:         Discount(typ, value, maxDiscount, orderTotal),
	}
}

// ValidateCampaign validates a campaign applied directly (without a coupon
// code), including its schedule and tier targeting rules.
func ValidateCampaign(camp *domain.Campaign, orderTotal float64, tier domain.Tier, customerUses int, hasCustomer bool, now time.Time) Result {
	if camp.Status != domain.CampaignStatusActive {
		return reject("campaign is not active")
	}
	if now.Before(camp.StartDate) {
		return reject("campaign is not valid yet")
	}
	if camp.EndDate != nil && now.After(*camp.EndDate) {
		return reject("campaign has expired")
	}
	if !camp.ScheduleAllows(now) {
		return reject("campaign is not available at this time")
	}
	if !camp.TargetsTier(tier) {
		return reject("campaign is not available for your loyalty tier")
	}
	if camp.UsageLimit > 0 && camp.UsedCount >= camp.UsageLimit {
		return reject("campaign usage limit reached")
	}
	if hasCustomer && camp.PerCustomerLimit > 0 && customerUses >= camp.PerCustomerLimit {
		return reject("campaign usage limit reached for this customer")
	}
	if orderTotal < camp.MinOrderAmount {
		return reject(fmt.Sprintf("minimum order amount is %.2f", camp.MinOrderAmount))
	}

	return Result{
		Valid:          true,
		DiscountType:   camp.DiscountType,
		DiscountValue:  camp.DiscountValue,
		MinOrderAmount: camp.MinOrderAmount,
		MaxDiscount:    camp.MaxDiscount,
		Amount:         Discount(camp.DiscountType, camp.DiscountValue, camp.MaxDiscount, orderTotal),
	}
}

// Discount computes the monetary discount for an order total. Percent
// discounts are clamped to maxDiscount (when set) and to the order total;
// amount discounts are clamped to the order total.
func Discount(typ domain.DiscountType, value, maxDiscount, orderTotal float64) float64 {
	var amount float64
	switch typ {
	case domain.DiscountTypePercent:
		amount = orderTotal * value / 100
		if maxDiscount > 0 && amount > maxDiscount {
			amount = maxDiscount
		}
	case domain.DiscountTypeAmount:
		amount = value
	default:
		return 0
	}
	if amount > orderTotal {
		amount = orderTotal
	}
	if amount < 0 {
		return 0
	}
	return amount
}

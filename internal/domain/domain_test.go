package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tably/tably/internal/domain"
)

// ---------------------------------------------------------------------------
// 1. OrderStatus.ValidTransition — full state-machine matrix.
// ---------------------------------------------------------------------------

func TestOrderStatus_ValidTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from domain.OrderStatus
		to   domain.OrderStatus
		want bool
	}{
		// From pending.
		{domain.OrderStatusPending, domain.OrderStatusConfirmed, true},
		{domain.OrderStatusPending, domain.OrderStatusPreparing, false},
		{domain.OrderStatusPending, domain.OrderStatusReady, false},
		{domain.OrderStatusPending, domain.OrderStatusDelivered, false},
		{domain.OrderStatusPending, domain.OrderStatusCancelled, true},

		// From confirmed.
		{domain.OrderStatusConfirmed, domain.OrderStatusPreparing, true},
		{domain.OrderStatusConfirmed, domain.OrderStatusReady, false},
		{domain.OrderStatusConfirmed, domain.OrderStatusCancelled, true},
		{domain.OrderStatusConfirmed, domain.OrderStatusPending, false},

		// From preparing.
		{domain.OrderStatusPreparing, domain.OrderStatusReady, true},
		{domain.OrderStatusPreparing, domain.OrderStatusDelivered, false},
		{domain.OrderStatusPreparing, domain.OrderStatusCancelled, true},

		// From ready.
		{domain.OrderStatusReady, domain.OrderStatusDelivered, true},
		{domain.OrderStatusReady, domain.OrderStatusPreparing, false},
		{domain.OrderStatusReady, domain.OrderStatusCancelled, true},

		// Terminal states are frozen.
		{domain.OrderStatusDelivered, domain.OrderStatusCancelled, false},
		{domain.OrderStatusDelivered, domain.OrderStatusPending, false},
		{domain.OrderStatusCancelled, domain.OrderStatusConfirmed, false},
		{domain.OrderStatusCancelled, domain.OrderStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			t.Parallel()

			got := tt.from.ValidTransition(tt.to)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.OrderStatusDelivered.Terminal())
	assert.True(t, domain.OrderStatusCancelled.Terminal())
	assert.False(t, domain.OrderStatusPending.Terminal())
	assert.False(t, domain.OrderStatusReady.Terminal())
}

// ---------------------------------------------------------------------------
// 2. Tier ordering.
// ---------------------------------------------------------------------------

func TestTier_Rank(t *testing.T) {
	t.Parallel()

	assert.Less(t, domain.TierBronze.Rank(), domain.TierSilver.Rank())
	assert.Less(t, domain.TierSilver.Rank(), domain.TierGold.Rank())
	assert.Less(t, domain.TierGold.Rank(), domain.TierPlatinum.Rank())
	assert.Equal(t, -1, domain.Tier("diamond").Rank())
}

func TestTier_AtLeast(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tier domain.Tier
		min  domain.Tier
		want bool
	}{
		{domain.TierBronze, domain.TierBronze, true},
		{domain.TierBronze, domain.TierSilver, false},
		{domain.TierGold, domain.TierSilver, true},
		{domain.TierPlatinum, domain.TierPlatinum, true},
		{domain.TierSilver, domain.TierGold, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier)+">="+string(tt.min), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.tier.AtLeast(tt.min))
		})
	}
}

// ---------------------------------------------------------------------------
// 3. Campaign schedule restrictions.
// ---------------------------------------------------------------------------

func TestCampaign_ScheduleAllows(t *testing.T) {
	t.Parallel()

	// 2026-08-24 is a Monday.
	monday10 := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	monday23 := time.Date(2026, 8, 24, 23, 0, 0, 0, time.UTC)
	sunday10 := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)

	t.Run("no_restrictions", func(t *testing.T) {
		t.Parallel()

		c := &domain.Campaign{}
		assert.True(t, c.ScheduleAllows(monday10))
	})

	t.Run("weekday_restriction", func(t *testing.T) {
		t.Parallel()

		c := &domain.Campaign{Weekdays: []time.Weekday{time.Monday, time.Tuesday}}
		assert.True(t, c.ScheduleAllows(monday10))
		assert.False(t, c.ScheduleAllows(sunday10))
	})

	t.Run("hour_window", func(t *testing.T) {
		t.Parallel()

		c := &domain.Campaign{HourFrom: 9, HourTo: 17}
		assert.True(t, c.ScheduleAllows(monday10))
		assert.False(t, c.ScheduleAllows(monday23))
	})

	t.Run("overnight_hour_window", func(t *testing.T) {
		t.Parallel()

		c := &domain.Campaign{HourFrom: 22, HourTo: 3}
		assert.True(t, c.ScheduleAllows(monday23))
		assert.False(t, c.ScheduleAllows(monday10))
	})
}

func TestCampaign_TargetsTier(t *testing.T) {
	t.Parallel()

	all := &domain.Campaign{}
	assert.True(t, all.TargetsTier(domain.TierBronze))

	goldOnly := &domain.Campaign{TargetTiers: []domain.Tier{domain.TierGold, domain.TierPlatinum}}
	assert.True(t, goldOnly.TargetsTier(domain.TierGold))
	assert.False(t, goldOnly.TargetsTier(domain.TierSilver))
}

// ---------------------------------------------------------------------------
// 4. StockItem low threshold.
// ---------------------------------------------------------------------------

func TestStockItem_Low(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		item domain.StockItem
		want bool
	}{
		{"above_threshold", domain.StockItem{Quantity: 10, LowThreshold: 5}, false},
		{"at_threshold", domain.StockItem{Quantity: 5, LowThreshold: 5}, true},
		{"below_threshold", domain.StockItem{Quantity: 1, LowThreshold: 5}, true},
		{"no_threshold", domain.StockItem{Quantity: 0, LowThreshold: 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.item.Low())
		})
	}
}

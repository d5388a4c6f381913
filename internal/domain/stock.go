package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StockItem is a tracked ingredient or supply.
type StockItem struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Name         string
	Unit         string // "kg", "l", "piece"
	Quantity     float64
	LowThreshold float64 // alert when quantity drops to or below this
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Low reports whether the item is at or below its low-stock threshold.
func (s *StockItem) Low() bool {
	return s.LowThreshold > 0 && s.Quantity <= s.LowThreshold
}

type StockItemRepository interface {
	Create(ctx context.Context, s *StockItem) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*StockItem, error)
	Update(ctx context.Context, s *StockItem) error
	Adjust(ctx context.Context, tenantID, id uuid.UUID, delta float64) (*StockItem, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*StockItem, error)
	ListLow(ctx context.Context, tenantID uuid.UUID) ([]*StockItem, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

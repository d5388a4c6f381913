package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ValidTransition checks if an order state transition is allowed.
// The pipeline is pending->confirmed->preparing->ready->delivered;
// any non-terminal state may move to cancelled.
func (s OrderStatus) ValidTransition(to OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	switch s {
	case OrderStatusPending:
		return to == OrderStatusConfirmed
	case OrderStatusConfirmed:
		return to == OrderStatusPreparing
	case OrderStatusPreparing:
		return to == OrderStatusReady
	case OrderStatusReady:
		return to == OrderStatusDelivered
	default:
		return false
	}
}

// Terminal reports whether the status is final.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

var ErrInvalidTransition = errors.New("order: invalid state transition")

type OrderItem struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	MenuItemID uuid.UUID
	Name       string // snapshot of the menu item name at order time
	UnitPrice  float64
	Quantity   int
	Note       string
}

type Order struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	TableID       *uuid.UUID // nullable, takeaway orders have no table
	CustomerID    *uuid.UUID // nullable, anonymous orders
	Code          string     // short human-readable code for order tracking
	Items         []OrderItem
	Subtotal      float64
	Discount      float64
	Total         float64
	CouponCode    string // empty when no coupon was applied
	Note          string
	Status        OrderStatus
	PaymentStatus PaymentStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type OrderRepository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)
	GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Order, error)
	ListByStatus(ctx context.Context, tenantID uuid.UUID, status OrderStatus) ([]*Order, error)
	ListPaginated(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*Order, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, tenantID, id uuid.UUID, status PaymentStatus) error
}

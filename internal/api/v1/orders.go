package v1

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tably/tably/internal/domain"
	"github.com/tably/tably/internal/loyalty"
	"github.com/tably/tably/internal/promo"
	"github.com/tably/tably/internal/server/middleware"
)

// orderCodeAlphabet avoids ambiguous characters (0/O, 1/I) so codes survive
// being read aloud over the counter.
const orderCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// newOrderCode generates the short human-readable code customers use to
// track their order.
func newOrderCode() (string, error) {
	raw := make([]byte, 6)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("v1.newOrderCode: %w", err)
	}
	code := make([]byte, len(raw))
	for i, b := range raw {
		code[i] = orderCodeAlphabet[int(b)%len(orderCodeAlphabet)]
	}
	return string(code), nil
}

// writeAudit records an audit entry. Audit failures are logged, never
// surfaced to the client.
func writeAudit(ctx context.Context, store DataStore, tenantID uuid.UUID, action, entity string, entityID uuid.UUID, detail map[string]any) {
	entry := &domain.AuditLog{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Detail:    detail,
		CreatedAt: time.Now(),
	}
	if actorID, ok := middleware.UserIDFromContext(ctx); ok {
		entry.ActorID = &actorID
	}

	if err := store.Audit().Create(ctx, entry); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("api: failed to write audit log")
	}
}

type OrderItemInput struct {
	MenuItemID uuid.UUID `json:"menu_item_id" doc:"Menu item ID"`
	Quantity   int       `json:"quantity" minimum:"1" maximum:"100" doc:"Quantity"`
	Note       string    `json:"note,omitempty" maxLength:"500" doc:"Item note, e.g. allergies"`
}

// placeOrder builds, prices, and persists an order. Coupon validation and
// redemption, event fanout, and the audit entry all happen here so the panel
// and the public QR flow share one path.
func placeOrder(ctx context.Context, store DataStore, pub Publisher, tenantID uuid.UUID, tableID, customerID *uuid.UUID, items []OrderItemInput, couponCode, note string) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, huma.Error400BadRequest("order must contain at least one item")
	}

	now := time.Now()
	orderID := uuid.New()

	var subtotal float64
	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		m, err := store.MenuItems().GetByID(ctx, tenantID, it.MenuItemID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("menu item not found")
			}
			return nil, huma.Error500InternalServerError("failed to load menu item", err)
		}
		if !m.Available {
			return nil, huma.Error400BadRequest(fmt.Sprintf("%q is currently unavailable", m.Name))
		}

		orderItems = append(orderItems, domain.OrderItem{
			ID:         uuid.New(),
			OrderID:    orderID,
			MenuItemID: m.ID,
			Name:       m.Name,
			UnitPrice:  m.Price,
			Quantity:   it.Quantity,
			Note:       it.Note,
		})
		subtotal += m.Price * float64(it.Quantity)
	}

	var discount float64
	appliedCode := ""
	var appliedCoupon *domain.Coupon

	if code := promo.NormalizeCode(couponCode); code != "" {
		coupon, err := store.Coupons().GetByCode(ctx, tenantID, code)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error400BadRequest(promo.NotFound().Message)
			}
			return nil, huma.Error500InternalServerError("failed to look up coupon", err)
		}

		var camp *domain.Campaign
		if coupon.CampaignID != nil {
			camp, err = store.Campaigns().GetByID(ctx, tenantID, *coupon.CampaignID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error500InternalServerError("failed to load campaign", err)
			}
		}

		customerUses := 0
		if customerID != nil {
			customerUses, err = store.Coupons().CountRedemptionsByCustomer(ctx, tenantID, coupon.ID, *customerID)
			if err != nil {
				return nil, huma.Error500InternalServerError("failed to count coupon uses", err)
			}
		}

		result := promo.ValidateCoupon(coupon, camp, subtotal, customerUses, customerID != nil, now)
		if !result.Valid {
			return nil, huma.Error400BadRequest(result.Message)
		}

		discount = result.Amount
		appliedCode = code
		appliedCoupon = coupon
	}

	code, err := newOrderCode()
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to generate order code", err)
	}

	o := &domain.Order{
		ID:            orderID,
		TenantID:      tenantID,
		TableID:       tableID,
		CustomerID:    customerID,
		Code:          code,
		Items:         orderItems,
		Subtotal:      subtotal,
		Discount:      discount,
		Total:         subtotal - discount,
		CouponCode:    appliedCode,
		Note:          note,
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// The coupon use and the order land in one transaction; a lost race on
	// the usage cap rejects the order instead of over-redeeming, and a failed
	// insert rolls the use back.
	var red *domain.CouponRedemption
	if appliedCoupon != nil {
		red = &domain.CouponRedemption{
			ID:         uuid.New(),
			CouponID:   appliedCoupon.ID,
			TenantID:   tenantID,
			CustomerID: customerID,
			OrderID:    &orderID,
			Amount:     discount,
			CreatedAt:  now,
		}
	}

	if err := store.PlaceOrder(ctx, o, red); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, huma.Error409Conflict("coupon usage limit reached")
		}
		return nil, huma.Error500InternalServerError("failed to create order", err)
	}

	publishOrderEvent(ctx, pub, o, "order.created")
	writeAudit(ctx, store, tenantID, "order.created", "order", o.ID, map[string]any{
		"code":  o.Code,
		"total": o.Total,
	})

	return o, nil
}

// accrueLoyalty applies the loyalty outcome of a delivered order. Missing or
// inactive configs make this a no-op; accrual failures are logged because the
// delivery itself already happened.
func accrueLoyalty(ctx context.Context, store DataStore, o *domain.Order) {
	if o.CustomerID == nil {
		return
	}

	cfg, err := store.LoyaltyConfigs().GetByTenant(ctx, o.TenantID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Warn().Err(err).Str("order_id", o.ID.String()).Msg("api: failed to load loyalty config")
		}
		return
	}

	c, err := store.Customers().GetByID(ctx, o.TenantID, *o.CustomerID)
	if err != nil {
		log.Warn().Err(err).Str("order_id", o.ID.String()).Msg("api: failed to load customer for accrual")
		return
	}

	res := loyalty.Accrue(cfg, c, o.Total, time.Now())
	if err := store.Customers().ApplyAccrual(ctx, o.TenantID, c.ID, res.Points, o.Total, res.NewTier); err != nil {
		log.Warn().Err(err).Str("order_id", o.ID.String()).Msg("api: failed to apply loyalty accrual")
		return
	}

	detail := map[string]any{"points": res.Points, "order_code": o.Code}
	if res.TierChanged {
		detail["new_tier"] = string(res.NewTier)
	}
	writeAudit(ctx, store, o.TenantID, "loyalty.accrued", "customer", c.ID, detail)
}

type CreateOrderInput struct {
	Body struct {
		TableID    *uuid.UUID       `json:"table_id,omitempty" doc:"Table ID, omitted for takeaway"`
		CustomerID *uuid.UUID       `json:"customer_id,omitempty" doc:"Customer ID for loyalty tracking"`
		Items      []OrderItemInput `json:"items" minItems:"1" doc:"Ordered items"`
		CouponCode string           `json:"coupon_code,omitempty" maxLength:"64" doc:"Coupon code"`
		Note       string           `json:"note,omitempty" maxLength:"1000" doc:"Order note"`
	}
}

type CreateOrderOutput struct {
	Body *domain.Order
}

type GetOrderInput struct {
	ID uuid.UUID `path:"id" doc:"Order ID"`
}

type GetOrderOutput struct {
	Body *domain.Order
}

type ListOrdersInput struct {
	Status string `query:"status" enum:"pending,confirmed,preparing,ready,delivered,cancelled" doc:"Filter by status"`
	Limit  int    `query:"limit" minimum:"1" maximum:"200" default:"50" doc:"Page size"`
	Offset int    `query:"offset" minimum:"0" default:"0" doc:"Page offset"`
}

type ListOrdersOutput struct {
	Body []*domain.Order
}

type UpdateOrderStatusInput struct {
	ID   uuid.UUID `path:"id" doc:"Order ID"`
	Body struct {
		Status domain.OrderStatus `json:"status" enum:"confirmed,preparing,ready,delivered,cancelled" doc:"New status"`
	}
}

type UpdateOrderStatusOutput struct {
	Body *domain.Order
}

type UpdatePaymentStatusInput struct {
	ID   uuid.UUID `path:"id" doc:"Order ID"`
	Body struct {
		PaymentStatus domain.PaymentStatus `json:"payment_status" enum:"pending,paid,failed,refunded" doc:"New payment status"`
	}
}

type UpdatePaymentStatusOutput struct {
	Body *domain.Order
}

func RegisterOrderRoutes(api huma.API, store DataStore, pub Publisher) {
	huma.Register(api, huma.Operation{
		OperationID: "create-order",
		Method:      http.MethodPost,
		Path:        "/orders",
		Summary:     "Create an order",
		Tags:        []string{"Orders"},
	}, func(ctx context.Context, input *CreateOrderInput) (*CreateOrderOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		o, err := placeOrder(ctx, store, pub, tenantID, input.Body.TableID, input.Body.CustomerID, input.Body.Items, input.Body.CouponCode, input.Body.Note)
		if err != nil {
			return nil, err
		}

		return &CreateOrderOutput{Body: o}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-orders",
		Method:      http.MethodGet,
		Path:        "/orders",
		Summary:     "List orders",
		Tags:        []string{"Orders"},
	}, func(ctx context.Context, input *ListOrdersInput) (*ListOrdersOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		if input.Status != "" {
			orders, err := store.Orders().ListByStatus(ctx, tenantID, domain.OrderStatus(input.Status))
			if err != nil {
				return nil, huma.Error500InternalServerError("failed to list orders", err)
			}
			return &ListOrdersOutput{Body: orders}, nil
		}

		orders, err := store.Orders().ListPaginated(ctx, tenantID, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list orders", err)
		}

		return &ListOrdersOutput{Body: orders}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-order",
		Method:      http.MethodGet,
		Path:        "/orders/{id}",
		Summary:     "Get an order by ID",
		Tags:        []string{"Orders"},
	}, func(ctx context.Context, input *GetOrderInput) (*GetOrderOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		o, err := store.Orders().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("order not found")
			}
			return nil, huma.Error500InternalServerError("failed to get order", err)
		}

		return &GetOrderOutput{Body: o}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-order-status",
		Method:      http.MethodPatch,
		Path:        "/orders/{id}/status",
		Summary:     "Advance an order through the kitchen pipeline",
		Tags:        []string{"Orders"},
	}, func(ctx context.Context, input *UpdateOrderStatusInput) (*UpdateOrderStatusOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		o, err := store.Orders().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("order not found")
			}
			return nil, huma.Error500InternalServerError("failed to get order", err)
		}

		if !o.Status.ValidTransition(input.Body.Status) {
			return nil, huma.Error400BadRequest(fmt.Sprintf("cannot change status from %s to %s", o.Status, input.Body.Status))
		}

		if err := store.Orders().UpdateStatus(ctx, tenantID, input.ID, input.Body.Status); err != nil {
			return nil, huma.Error500InternalServerError("failed to update order status", err)
		}

		from := o.Status
		o.Status = input.Body.Status
		o.UpdatedAt = time.Now()

		publishOrderEvent(ctx, pub, o, "order.status_changed")
		writeAudit(ctx, store, tenantID, "order.status_changed", "order", o.ID, map[string]any{
			"from": string(from),
			"to":   string(o.Status),
		})

		if o.Status == domain.OrderStatusDelivered {
			accrueLoyalty(ctx, store, o)
		}

		return &UpdateOrderStatusOutput{Body: o}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-order-payment-status",
		Method:      http.MethodPatch,
		Path:        "/orders/{id}/payment",
		Summary:     "Update an order's payment status",
		Tags:        []string{"Orders"},
	}, func(ctx context.Context, input *UpdatePaymentStatusInput) (*UpdatePaymentStatusOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		o, err := store.Orders().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("order not found")
			}
			return nil, huma.Error500InternalServerError("failed to get order", err)
		}

		if err := store.Orders().UpdatePaymentStatus(ctx, tenantID, input.ID, input.Body.PaymentStatus); err != nil {
			return nil, huma.Error500InternalServerError("failed to update payment status", err)
		}

		from := o.PaymentStatus
		o.PaymentStatus = input.Body.PaymentStatus
		o.UpdatedAt = time.Now()

		publishOrderEvent(ctx, pub, o, "order.payment_changed")
		writeAudit(ctx, store, tenantID, "order.payment_changed", "order", o.ID, map[string]any{
			"from": string(from),
			"to":   string(o.PaymentStatus),
		})

		return &UpdatePaymentStatusOutput{Body: o}, nil
	})
}

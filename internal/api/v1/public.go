package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tably/tably/internal/domain"
	"github.com/tably/tably/internal/server/middleware"
)

// PublicMenuSection is one active category with its orderable items.
type PublicMenuSection struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Items       []*domain.MenuItem `json:"items"`
}

type PublicMenuOutput struct {
	Body struct {
		Sections []PublicMenuSection `json:"sections"`
	}
}

type PublicTableInput struct {
	Token string `path:"token" minLength:"1" maxLength:"64" doc:"QR code token"`
}

type PublicTableOutput struct {
	Body struct {
		TableID string `json:"table_id"`
		Number  int    `json:"number"`
		Zone    string `json:"zone,omitempty"`
	}
}

type PublicOrderInput struct {
	Body struct {
		QRToken       string           `json:"qr_token,omitempty" maxLength:"64" doc:"Table QR token, omitted for takeaway"`
		CustomerPhone string           `json:"customer_phone,omitempty" maxLength:"32" doc:"Phone of a registered loyalty customer"`
		Items         []OrderItemInput `json:"items" minItems:"1" doc:"Ordered items"`
		CouponCode    string           `json:"coupon_code,omitempty" maxLength:"64" doc:"Coupon code"`
		Note          string           `json:"note,omitempty" maxLength:"1000" doc:"Order note"`
	}
}

type PublicOrderOutput struct {
	Body struct {
		Code     string  `json:"code" doc:"Tracking code"`
		Subtotal float64 `json:"subtotal"`
		Discount float64 `json:"discount,omitempty"`
		Total    float64 `json:"total"`
	}
}

type TrackOrderInput struct {
	Code string `path:"code" minLength:"1" maxLength:"16" doc:"Order tracking code"`
}

type TrackOrderOutput struct {
	Body struct {
		Code          string               `json:"code"`
		Status        domain.OrderStatus   `json:"status"`
		PaymentStatus domain.PaymentStatus `json:"payment_status"`
		Items         []domain.OrderItem   `json:"items"`
		Subtotal      float64              `json:"subtotal"`
		Discount      float64              `json:"discount,omitempty"`
		Total         float64              `json:"total"`
		CreatedAt     time.Time            `json:"created_at"`
	}
}

// Tenant settings keys for the optional messenger order feed. When both are
// set, every new public order is announced to that channel.
const (
	settingOrderFeedPlatform = "order_feed_platform"
	settingOrderFeedChannel  = "order_feed_channel"
)

// announceOrder posts a new order to the tenant's configured messenger feed.
// Best effort; a failed announcement never fails the order.
func announceOrder(ctx context.Context, store DataStore, announcer OrderAnnouncer, tenantID uuid.UUID, o *domain.Order) {
	if announcer == nil {
		return
	}

	t, err := store.Tenants().GetByID(ctx, tenantID)
	if err != nil {
		log.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("order feed: failed to load tenant settings")
		return
	}

	platform, _ := t.Settings[settingOrderFeedPlatform].(string)
	channel, _ := t.Settings[settingOrderFeedChannel].(string)
	if platform == "" || channel == "" {
		return
	}

	msg := fmt.Sprintf("New order %s: %d item(s), total %.2f", o.Code, len(o.Items), o.Total)
	if err := announcer.Announce(ctx, platform, channel, msg); err != nil {
		log.Warn().Err(err).Str("order_code", o.Code).Str("platform", platform).Msg("order feed: announcement failed")
	}
}

// demoMenu is served when the store is unreachable so a scanned QR code still
// shows something instead of an error page. Strictly a demo fallback; it never
// leaks into order placement.
func demoMenu() *PublicMenuOutput {
	category := uuid.MustParse("00000000-0000-0000-0000-00000000d310")
	out := &PublicMenuOutput{}
	out.Body.Sections = []PublicMenuSection{
		{
			ID:   category.String(),
			Name: "House Specials",
			Items: []*domain.MenuItem{
				{ID: uuid.MustParse("00000000-0000-0000-0000-00000000d311"), CategoryID: category, Name: "Margherita", Description: "Tomato, mozzarella, basil", Price: 9.5, Available: true},
				{ID: uuid.MustParse("00000000-0000-0000-0000-00000000d312"), CategoryID: category, Name: "Carbonara", Description: "Guanciale, pecorino, egg", Price: 12, Available: true},
				{ID: uuid.MustParse("00000000-0000-0000-0000-00000000d313"), CategoryID: category, Name: "Espresso", Price: 2.5, Available: true},
			},
		},
	}
	return out
}

// RegisterPublicRoutes wires the customer-facing QR surface. The tenant comes
// from host or path resolution, never from credentials; these routes carry no
// authentication.
func RegisterPublicRoutes(api huma.API, store DataStore, pub Publisher, announcer OrderAnnouncer) {
	huma.Register(api, huma.Operation{
		OperationID: "public-menu",
		Method:      http.MethodGet,
		Path:        "/menu",
		Summary:     "Get the restaurant's menu",
		Tags:        []string{"Public"},
	}, func(ctx context.Context, _ *struct{}) (*PublicMenuOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error404NotFound("restaurant not found")
		}

		categories, err := store.Categories().List(ctx, tenantID)
		if err != nil {
			log.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("public menu: store unavailable, serving demo menu")
			return demoMenu(), nil
		}
		items, err := store.MenuItems().List(ctx, tenantID)
		if err != nil {
			log.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("public menu: store unavailable, serving demo menu")
			return demoMenu(), nil
		}

		byCategory := make(map[string][]*domain.MenuItem, len(categories))
		for _, it := range items {
			if !it.Available {
				continue
			}
			key := it.CategoryID.String()
			byCategory[key] = append(byCategory[key], it)
		}

		out := &PublicMenuOutput{}
		out.Body.Sections = make([]PublicMenuSection, 0, len(categories))
		for _, c := range categories {
			if !c.Active {
				continue
			}
			sectionItems := byCategory[c.ID.String()]
			if sectionItems == nil {
				sectionItems = []*domain.MenuItem{}
			}
			out.Body.Sections = append(out.Body.Sections, PublicMenuSection{
				ID:          c.ID.String(),
				Name:        c.Name,
				Description: c.Description,
				Items:       sectionItems,
			})
		}

		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "public-table-by-qr",
		Method:      http.MethodGet,
		Path:        "/tables/qr/{token}",
		Summary:     "Resolve a scanned QR code to a table",
		Tags:        []string{"Public"},
	}, func(ctx context.Context, input *PublicTableInput) (*PublicTableOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error404NotFound("restaurant not found")
		}

		t, err := store.Tables().GetByQRToken(ctx, tenantID, input.Token)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("table not found")
			}
			return nil, huma.Error500InternalServerError("failed to resolve table", err)
		}
		if !t.Active {
			return nil, huma.Error404NotFound("table not found")
		}

		out := &PublicTableOutput{}
		out.Body.TableID = t.ID.String()
		out.Body.Number = t.Number
		out.Body.Zone = t.Zone
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "public-create-order",
		Method:      http.MethodPost,
		Path:        "/orders",
		Summary:     "Place an order from the QR menu",
		Tags:        []string{"Public"},
	}, func(ctx context.Context, input *PublicOrderInput) (*PublicOrderOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error404NotFound("restaurant not found")
		}

		var tableID *uuid.UUID
		if input.Body.QRToken != "" {
			t, err := store.Tables().GetByQRToken(ctx, tenantID, input.Body.QRToken)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("table not found")
				}
				return nil, huma.Error500InternalServerError("failed to resolve table", err)
			}
			if !t.Active {
				return nil, huma.Error404NotFound("table not found")
			}
			tableID = &t.ID
		}

		// An unknown phone number does not block the order; it just skips
		// loyalty tracking.
		var customerID *uuid.UUID
		if input.Body.CustomerPhone != "" {
			c, err := store.Customers().GetByPhone(ctx, tenantID, input.Body.CustomerPhone)
			if err == nil {
				customerID = &c.ID
			} else if !errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error500InternalServerError("failed to look up customer", err)
			}
		}

		o, err := placeOrder(ctx, store, pub, tenantID, tableID, customerID, input.Body.Items, input.Body.CouponCode, input.Body.Note)
		if err != nil {
			return nil, err
		}

		announceOrder(ctx, store, announcer, tenantID, o)

		out := &PublicOrderOutput{}
		out.Body.Code = o.Code
		out.Body.Subtotal = o.Subtotal
		out.Body.Discount = o.Discount
		out.Body.Total = o.Total
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "public-track-order",
		Method:      http.MethodGet,
		Path:        "/orders/track/{code}",
		Summary:     "Track an order by its code",
		Tags:        []string{"Public"},
	}, func(ctx context.Context, input *TrackOrderInput) (*TrackOrderOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error404NotFound("restaurant not found")
		}

		o, err := store.Orders().GetByCode(ctx, tenantID, input.Code)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("order not found")
			}
			return nil, huma.Error500InternalServerError("failed to load order", err)
		}

		out := &TrackOrderOutput{}
		out.Body.Code = o.Code
		out.Body.Status = o.Status
		out.Body.PaymentStatus = o.PaymentStatus
		out.Body.Items = o.Items
		out.Body.Subtotal = o.Subtotal
		out.Body.Discount = o.Discount
		out.Body.Total = o.Total
		out.Body.CreatedAt = o.CreatedAt
		return out, nil
	})

	RegisterCouponValidation(api, store)
}

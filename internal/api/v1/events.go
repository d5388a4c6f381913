package v1

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/tably/tably/internal/domain"
	"github.com/tably/tably/internal/store/redis"
)

// orderEvent is the payload published on a tenant's order channel for live
// kitchen and panel feeds.
type orderEvent struct {
	Type          string               `json:"type"`
	OrderID       string               `json:"order_id"`
	Code          string               `json:"code"`
	TableID       string               `json:"table_id,omitempty"`
	Status        domain.OrderStatus   `json:"status"`
	PaymentStatus domain.PaymentStatus `json:"payment_status,omitempty"`
	Total         float64              `json:"total,omitempty"`
}

// stockEvent is the payload published on a tenant's stock channel when an
// item crosses its low threshold.
type stockEvent struct {
	Type        string  `json:"type"`
	StockItemID string  `json:"stock_item_id"`
	Name        string  `json:"name"`
	Quantity    float64 `json:"quantity"`
	Threshold   float64 `json:"threshold"`
}

// publishOrderEvent fans an order event out to subscribers. Delivery is best
// effort; a failed publish never fails the request.
func publishOrderEvent(ctx context.Context, pub Publisher, o *domain.Order, eventType string) {
	ev := orderEvent{
		Type:          eventType,
		OrderID:       o.ID.String(),
		Code:          o.Code,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		Total:         o.Total,
	}
	if o.TableID != nil {
		ev.TableID = o.TableID.String()
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		log.Warn().Err(err).Str("order_id", o.ID.String()).Msg("api: failed to marshal order event")
		return
	}

	if err := pub.Publish(ctx, redis.OrdersChannel(o.TenantID), payload); err != nil {
		log.Warn().Err(err).Str("order_id", o.ID.String()).Msg("api: failed to publish order event")
	}
}

// tableEvent is the payload published on a tenant's table channel when a
// table changes (QR rotation, opened or closed).
type tableEvent struct {
	Type    string `json:"type"`
	TableID string `json:"table_id"`
	Number  int    `json:"number"`
	Active  bool   `json:"active"`
}

// publishTableEvent fans a table change out to panel subscribers. Best effort.
func publishTableEvent(ctx context.Context, pub Publisher, t *domain.Table, eventType string) {
	payload, err := json.Marshal(tableEvent{
		Type:    eventType,
		TableID: t.ID.String(),
		Number:  t.Number,
		Active:  t.Active,
	})
	if err != nil {
		log.Warn().Err(err).Str("table_id", t.ID.String()).Msg("api: failed to marshal table event")
		return
	}

	if err := pub.Publish(ctx, redis.TablesChannel(t.TenantID), payload); err != nil {
		log.Warn().Err(err).Str("table_id", t.ID.String()).Msg("api: failed to publish table event")
	}
}

// publishStockEvent announces a low-stock condition on the tenant's stock
// channel. Best effort, same as order events.
func publishStockEvent(ctx context.Context, pub Publisher, s *domain.StockItem) {
	payload, err := json.Marshal(stockEvent{
		Type:        "stock.low",
		StockItemID: s.ID.String(),
		Name:        s.Name,
		Quantity:    s.Quantity,
		Threshold:   s.LowThreshold,
	})
	if err != nil {
		log.Warn().Err(err).Str("stock_item_id", s.ID.String()).Msg("api: failed to marshal stock event")
		return
	}

	if err := pub.Publish(ctx, redis.StockChannel(s.TenantID), payload); err != nil {
		log.Warn().Err(err).Str("stock_item_id", s.ID.String()).Msg("api: failed to publish stock event")
	}
}

package ws

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/tably/tably/internal/server/middleware"
	redisstore "github.com/tably/tably/internal/store/redis"
)

// Hub manages WebSocket connections backed by Redis pub/sub.
type Hub struct {
	pubsub *redisstore.PubSub
}

// NewHub creates a new WebSocket hub.
func NewHub(pubsub *redisstore.PubSub) *Hub {
	return &Hub{pubsub: pubsub}
}

// ServeOrders handles WebSocket connections for the live order feed.
// Subscribes to Redis channel "orders:<tenantID>" and streams order
// lifecycle events to kitchen displays and panel dashboards.
func (h *Hub) ServeOrders(w http.ResponseWriter, r *http.Request) {
	h.serveTenantFeed(w, r, redisstore.OrdersChannel)
}

// ServeTables handles WebSocket connections for table state updates.
// Subscribes to Redis channel "tables:<tenantID>".
func (h *Hub) ServeTables(w http.ResponseWriter, r *http.Request) {
	h.serveTenantFeed(w, r, redisstore.TablesChannel)
}

// ServeStock handles WebSocket connections for low-stock alerts.
// Subscribes to Redis channel "stock:<tenantID>".
func (h *Hub) ServeStock(w http.ResponseWriter, r *http.Request) {
	h.serveTenantFeed(w, r, redisstore.StockChannel)
}

func (h *Hub) serveTenantFeed(w http.ResponseWriter, r *http.Request, channelFor func(uuid.UUID) string) {
	tenantID, ok := middleware.TenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing tenant", http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	channel := channelFor(tenantID)

	messages, cleanup, err := h.pubsub.Subscribe(ctx, channel)
	if err != nil {
		log.Error().Err(err).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, msgOK := <-messages:
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}

// Publish sends an event payload to a Redis channel. This is a convenience
// wrapper for use by API handlers when mutating order or stock state.
func (h *Hub) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := h.pubsub.Publish(ctx, channel, payload); err != nil {
		return fmt.Errorf("ws.Hub.Publish: %w", err)
	}
	return nil
}

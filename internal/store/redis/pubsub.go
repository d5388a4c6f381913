package redis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// subscribeBuffer bounds how many undelivered messages a subscriber may lag
// behind before publishes start blocking the forwarding goroutine.
const subscribeBuffer = 64

// PubSub fans tenant events (orders, tables, stock) out to websocket hubs
// across server instances.
type PubSub struct {
	client *redis.Client
}

func New(ctx context.Context, addr, password string, db int) (*PubSub, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &PubSub{client: client}, nil
}

func (ps *PubSub) Close() error {
	if err := ps.client.Close(); err != nil {
		return fmt.Errorf("redis.PubSub.Close: %w", err)
	}
	return nil
}

func (ps *PubSub) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := ps.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("redis.PubSub.Publish: %w", err)
	}
	return nil
}

// Subscribe returns a channel of raw payloads for the given Redis channel.
// The channel closes when ctx is cancelled or the subscription drops; the
// cleanup func releases the underlying subscription.
func (ps *PubSub) Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error) {
	sub := ps.client.Subscribe(ctx, channel)

	// Receive blocks until Redis confirms the subscription, so a successful
	// return means publishes after this point will be seen.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("redis.PubSub.Subscribe: receive confirmation: %w", err)
	}

	out := make(chan []byte, subscribeBuffer)
	go forward(ctx, sub.Channel(), out)

	cleanup := func() {
		_ = sub.Close()
	}

	return out, cleanup, nil
}

func forward(ctx context.Context, in <-chan *redis.Message, out chan<- []byte) {
	defer close(out)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-in:
			if !ok {
				return
			}
			select {
			case out <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}
}

func tenantChannel(prefix string, tenantID uuid.UUID) string {
	return prefix + ":" + tenantID.String()
}

// OrdersChannel returns the Redis channel name for a tenant's live order feed.
func OrdersChannel(tenantID uuid.UUID) string {
	return tenantChannel("orders", tenantID)
}

// TablesChannel returns the Redis channel name for table events (QR rotations,
// table opened or closed).
func TablesChannel(tenantID uuid.UUID) string {
	return tenantChannel("tables", tenantID)
}

// StockChannel returns the Redis channel name for low-stock alerts.
func StockChannel(tenantID uuid.UUID) string {
	return tenantChannel("stock", tenantID)
}

package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	ActorID   *uuid.UUID // nullable, system actions have no actor
	Action    string     // e.g. "order.status_changed", "coupon.redeemed"
	Entity    string
	EntityID  uuid.UUID
	Detail    map[string]any
	CreatedAt time.Time
}

type AuditRepository interface {
	Create(ctx context.Context, a *AuditLog) error
	ListByEntity(ctx context.Context, tenantID uuid.UUID, entity string, entityID uuid.UUID) ([]*AuditLog, error)
	ListRecent(ctx context.Context, tenantID uuid.UUID, limit int) ([]*AuditLog, error)
}

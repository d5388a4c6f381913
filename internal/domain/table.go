package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Table is a physical restaurant table addressed by its QR code token.
type Table struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Number    int
	Zone      string // e.g. "terrace", "main hall"
	Seats     int
	QRToken   string // opaque token embedded in the printed QR code
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TableRepository interface {
	Create(ctx context.Context, t *Table) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Table, error)
	GetByQRToken(ctx context.Context, tenantID uuid.UUID, token string) (*Table, error)
	Update(ctx context.Context, t *Table) error
	RotateQRToken(ctx context.Context, tenantID, id uuid.UUID, token string) error
	List(ctx context.Context, tenantID uuid.UUID) ([]*Table, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

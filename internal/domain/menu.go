package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Name        string
	Description string
	SortOrder   int
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type MenuItem struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	CategoryID  uuid.UUID
	Name        string
	Description string
	Price       float64
	ImageURL    string
	Available   bool
	StockItemID *uuid.UUID // nullable, links to ingredient stock
	SortOrder   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Category, error)
	Update(ctx context.Context, c *Category) error
	List(ctx context.Context, tenantID uuid.UUID) ([]*Category, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type MenuItemRepository interface {
	Create(ctx context.Context, m *MenuItem) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*MenuItem, error)
	Update(ctx context.Context, m *MenuItem) error
	SetAvailable(ctx context.Context, tenantID, id uuid.UUID, available bool) error
	ListByCategory(ctx context.Context, tenantID, categoryID uuid.UUID) ([]*MenuItem, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*MenuItem, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

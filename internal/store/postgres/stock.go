package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tably/tably/internal/domain"
)

type StockItemRepo struct {
	pool *pgxpool.Pool
}

func NewStockItemRepo(pool *pgxpool.Pool) *StockItemRepo {
	return &StockItemRepo{pool: pool}
}

func (r *StockItemRepo) Create(ctx context.Context, s *domain.StockItem) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO stock_items (id, tenant_id, name, unit, quantity, low_threshold, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.TenantID, s.Name, s.Unit, s.Quantity, s.LowThreshold, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("stockItemRepo.Create: %w", err)
	}

	return nil
}

func (r *StockItemRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.StockItem, error) {
	var s domain.StockItem

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, name, unit, quantity, low_threshold, created_at, updated_at
		 FROM stock_items WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(&s.ID, &s.TenantID, &s.Name, &s.Unit, &s.Quantity, &s.LowThreshold, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("stockItemRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("stockItemRepo.GetByID: %w", err)
	}

	return &s, nil
}

func (r *StockItemRepo) Update(ctx context.Context, s *domain.StockItem) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE stock_items SET name = $1, unit = $2, quantity = $3, low_threshold = $4, updated_at = now()
		 WHERE tenant_id = $5 AND id = $6`,
		s.Name, s.Unit, s.Quantity, s.LowThreshold, s.TenantID, s.ID,
	)
	if err != nil {
		return fmt.Errorf("stockItemRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("stockItemRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

// Adjust applies a relative quantity change and returns the updated item.
// The quantity is floored at zero.
func (r *StockItemRepo) Adjust(ctx context.Context, tenantID, id uuid.UUID, delta float64) (*domain.StockItem, error) {
	var s domain.StockItem

	err := r.pool.QueryRow(ctx,
		`UPDATE stock_items
		 SET quantity = greatest(quantity + $1, 0), updated_at = now()
		 WHERE tenant_id = $2 AND id = $3
		 RETURNING id, tenant_id, name, unit, quantity, low_threshold, created_at, updated_at`,
		delta, tenantID, id,
	).Scan(&s.ID, &s.TenantID, &s.Name, &s.Unit, &s.Quantity, &s.LowThreshold, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("stockItemRepo.Adjust: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("stockItemRepo.Adjust: %w", err)
	}

	return &s, nil
}

func (r *StockItemRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.StockItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, name, unit, quantity, low_threshold, created_at, updated_at
		 FROM stock_items WHERE tenant_id = $1 ORDER BY name`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("stockItemRepo.List: %w", err)
	}
	defer rows.Close()

	return collectStockItems(rows, "stockItemRepo.List")
}

func (r *StockItemRepo) ListLow(ctx context.Context, tenantID uuid.UUID) ([]*domain.StockItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, name, unit, quantity, low_threshold, created_at, updated_at
		 FROM stock_items
		 WHERE tenant_id = $1 AND low_threshold > 0 AND quantity <= low_threshold
		 ORDER BY name`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("stockItemRepo.ListLow: %w", err)
	}
	defer rows.Close()

	return collectStockItems(rows, "stockItemRepo.ListLow")
}

func collectStockItems(rows pgx.Rows, op string) ([]*domain.StockItem, error) {
	var items []*domain.StockItem
	for rows.Next() {
		var s domain.StockItem

		err := rows.Scan(&s.ID, &s.TenantID, &s.Name, &s.Unit, &s.Quantity, &s.LowThreshold, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		items = append(items, &s)
	}
	err := rows.Err()
	if err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return items, nil
}

func (r *StockItemRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM stock_items WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("stockItemRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("stockItemRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

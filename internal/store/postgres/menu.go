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

type CategoryRepo struct {
	pool *pgxpool.Pool
}

func NewCategoryRepo(pool *pgxpool.Pool) *CategoryRepo {
	return &CategoryRepo{pool: pool}
}

func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO categories (id, tenant_id, name, description, sort_order, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.TenantID, c.Name, c.Description, c.SortOrder, c.Active, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("categoryRepo.Create: %w", err)
	}

	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Category, error) {
	var c domain.Category

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, name, description, sort_order, active, created_at, updated_at
		 FROM categories WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(&c.ID, &c.TenantID, &c.Name, &c.Description, &c.SortOrder, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("categoryRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("categoryRepo.GetByID: %w", err)
	}

	return &c, nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE categories SET name = $1, description = $2, sort_order = $3, active = $4, updated_at = now()
		 WHERE tenant_id = $5 AND id = $6`,
		c.Name, c.Description, c.SortOrder, c.Active, c.TenantID, c.ID,
	)
	if err != nil {
		return fmt.Errorf("categoryRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("categoryRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *CategoryRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, name, description, sort_order, active, created_at, updated_at
		 FROM categories WHERE tenant_id = $1 ORDER BY sort_order, created_at`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("categoryRepo.List: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		var c domain.Category

		err = rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.Description, &c.SortOrder, &c.Active, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("categoryRepo.List: scan: %w", err)
		}

		categories = append(categories, &c)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("categoryRepo.List: rows: %w", err)
	}

	return categories, nil
}

func (r *CategoryRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM categories WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("categoryRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("categoryRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

type MenuItemRepo struct {
	pool *pgxpool.Pool
}

func NewMenuItemRepo(pool *pgxpool.Pool) *MenuItemRepo {
	return &MenuItemRepo{pool: pool}
}

const menuItemColumns = `id, tenant_id, category_id, name, description, price,
	image_url, available, stock_item_id, sort_order, created_at, updated_at`

func scanMenuItem(row pgx.Row) (*domain.MenuItem, error) {
	var m domain.MenuItem
	err := row.Scan(
		&m.ID, &m.TenantID, &m.CategoryID, &m.Name, &m.Description, &m.Price,
		&m.ImageURL, &m.Available, &m.StockItemID, &m.SortOrder, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MenuItemRepo) Create(ctx context.Context, m *domain.MenuItem) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO menu_items (id, tenant_id, category_id, name, description, price,
		   image_url, available, stock_item_id, sort_order, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.ID, m.TenantID, m.CategoryID, m.Name, m.Description, m.Price,
		m.ImageURL, m.Available, m.StockItemID, m.SortOrder, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("menuItemRepo.Create: %w", err)
	}

	return nil
}

func (r *MenuItemRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.MenuItem, error) {
	m, err := scanMenuItem(r.pool.QueryRow(ctx,
		`SELECT `+menuItemColumns+` FROM menu_items WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("menuItemRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("menuItemRepo.GetByID: %w", err)
	}

	return m, nil
}

func (r *MenuItemRepo) Update(ctx context.Context, m *domain.MenuItem) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE menu_items SET category_id = $1, name = $2, description = $3, price = $4,
		   image_url = $5, available = $6, stock_item_id = $7, sort_order = $8, updated_at = now()
		 WHERE tenant_id = $9 AND id = $10`,
		m.CategoryID, m.Name, m.Description, m.Price,
		m.ImageURL, m.Available, m.StockItemID, m.SortOrder, m.TenantID, m.ID,
	)
	if err != nil {
		return fmt.Errorf("menuItemRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("menuItemRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *MenuItemRepo) SetAvailable(ctx context.Context, tenantID, id uuid.UUID, available bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE menu_items SET available = $1, updated_at = now()
		 WHERE tenant_id = $2 AND id = $3`,
		available, tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("menuItemRepo.SetAvailable: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("menuItemRepo.SetAvailable: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *MenuItemRepo) ListByCategory(ctx context.Context, tenantID, categoryID uuid.UUID) ([]*domain.MenuItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+menuItemColumns+` FROM menu_items
		 WHERE tenant_id = $1 AND category_id = $2 ORDER BY sort_order, created_at`,
		tenantID, categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("menuItemRepo.ListByCategory: %w", err)
	}
	defer rows.Close()

	return collectMenuItems(rows, "menuItemRepo.ListByCategory")
}

func (r *MenuItemRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.MenuItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+menuItemColumns+` FROM menu_items
		 WHERE tenant_id = $1 ORDER BY sort_order, created_at`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("menuItemRepo.List: %w", err)
	}
	defer rows.Close()

	return collectMenuItems(rows, "menuItemRepo.List")
}

func collectMenuItems(rows pgx.Rows, op string) ([]*domain.MenuItem, error) {
	var items []*domain.MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		items = append(items, m)
	}
	err := rows.Err()
	if err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return items, nil
}

func (r *MenuItemRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM menu_items WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("menuItemRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("menuItemRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

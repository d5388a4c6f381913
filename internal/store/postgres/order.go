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

type OrderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepo(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

const orderColumns = `id, tenant_id, table_id, customer_id, code, subtotal, discount, total,
	coupon_code, note, status, payment_status, created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.TenantID, &o.TableID, &o.CustomerID, &o.Code, &o.Subtotal, &o.Discount, &o.Total,
		&o.CouponCode, &o.Note, &o.Status, &o.PaymentStatus, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts the order and its line items in one transaction.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("orderRepo.Create: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertOrderTx(ctx, tx, o); err != nil {
		return fmt.Errorf("orderRepo.Create: %w", err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		return fmt.Errorf("orderRepo.Create: commit: %w", err)
	}

	return nil
}

// insertOrderTx writes the order row and its line items inside tx.
func insertOrderTx(ctx context.Context, tx pgx.Tx, o *domain.Order) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO orders (id, tenant_id, table_id, customer_id, code, subtotal, discount, total,
		   coupon_code, note, status, payment_status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		o.ID, o.TenantID, o.TableID, o.CustomerID, o.Code, o.Subtotal, o.Discount, o.Total,
		o.CouponCode, o.Note, o.Status, o.PaymentStatus, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("order: %w", err)
	}

	for i := range o.Items {
		it := &o.Items[i]
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (id, order_id, menu_item_id, name, unit_price, quantity, note)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			it.ID, it.OrderID, it.MenuItemID, it.Name, it.UnitPrice, it.Quantity, it.Note,
		)
		if err != nil {
			return fmt.Errorf("item: %w", err)
		}
	}

	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("orderRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("orderRepo.GetByID: %w", err)
	}

	err = r.loadItems(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("orderRepo.GetByID: %w", err)
	}

	return o, nil
}

func (r *OrderRepo) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*domain.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE tenant_id = $1 AND code = $2`,
		tenantID, code,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("orderRepo.GetByCode: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("orderRepo.GetByCode: %w", err)
	}

	err = r.loadItems(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("orderRepo.GetByCode: %w", err)
	}

	return o, nil
}

func (r *OrderRepo) ListByStatus(ctx context.Context, tenantID uuid.UUID, status domain.OrderStatus) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE tenant_id = $1 AND status = $2 ORDER BY created_at
		 LIMIT 200`,
		tenantID, status,
	)
	if err != nil {
		return nil, fmt.Errorf("orderRepo.ListByStatus: %w", err)
	}
	defer rows.Close()

	return r.collectOrders(ctx, rows, "orderRepo.ListByStatus")
}

func (r *OrderRepo) ListPaginated(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE tenant_id = $1 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		tenantID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("orderRepo.ListPaginated: %w", err)
	}
	defer rows.Close()

	return r.collectOrders(ctx, rows, "orderRepo.ListPaginated")
}

func (r *OrderRepo) collectOrders(ctx context.Context, rows pgx.Rows, op string) ([]*domain.Order, error) {
	var orders []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		orders = append(orders, o)
	}
	err := rows.Err()
	if err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	rows.Close()

	for _, o := range orders {
		err = r.loadItems(ctx, o)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return orders, nil
}

func (r *OrderRepo) loadItems(ctx context.Context, o *domain.Order) error {
	rows, err := r.pool.Query(ctx,
		`SELECT id, order_id, menu_item_id, name, unit_price, quantity, note
		 FROM order_items WHERE order_id = $1`,
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.OrderItem

		err = rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Name, &it.UnitPrice, &it.Quantity, &it.Note)
		if err != nil {
			return fmt.Errorf("items: scan: %w", err)
		}

		o.Items = append(o.Items, it)
	}
	err = rows.Err()
	if err != nil {
		return fmt.Errorf("items: rows: %w", err)
	}

	return nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status domain.OrderStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = now()
		 WHERE tenant_id = $2 AND id = $3`,
		status, tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("orderRepo.UpdateStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("orderRepo.UpdateStatus: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *OrderRepo) UpdatePaymentStatus(ctx context.Context, tenantID, id uuid.UUID, status domain.PaymentStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET payment_status = $1, updated_at = now()
		 WHERE tenant_id = $2 AND id = $3`,
		status, tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("orderRepo.UpdatePaymentStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("orderRepo.UpdatePaymentStatus: %w", domain.ErrNotFound)
	}

	return nil
}

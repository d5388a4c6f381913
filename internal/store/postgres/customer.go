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

type CustomerRepo struct {
	pool *pgxpool.Pool
}

func NewCustomerRepo(pool *pgxpool.Pool) *CustomerRepo {
	return &CustomerRepo{pool: pool}
}

const customerColumns = `id, tenant_id, name, phone, email, birthday,
	loyalty_points, loyalty_tier, total_spent, visit_count, created_at, updated_at`

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(
		&c.ID, &c.TenantID, &c.Name, &c.Phone, &c.Email, &c.Birthday,
		&c.LoyaltyPoints, &c.LoyaltyTier, &c.TotalSpent, &c.VisitCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO customers (id, tenant_id, name, phone, email, birthday,
		   loyalty_points, loyalty_tier, total_spent, visit_count, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.TenantID, c.Name, c.Phone, c.Email, c.Birthday,
		c.LoyaltyPoints, c.LoyaltyTier, c.TotalSpent, c.VisitCount, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("customerRepo.Create: %w", err)
	}

	return nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Customer, error) {
	c, err := scanCustomer(r.pool.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("customerRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("customerRepo.GetByID: %w", err)
	}

	return c, nil
}

func (r *CustomerRepo) GetByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*domain.Customer, error) {
	c, err := scanCustomer(r.pool.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE tenant_id = $1 AND phone = $2`,
		tenantID, phone,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("customerRepo.GetByPhone: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("customerRepo.GetByPhone: %w", err)
	}

	return c, nil
}

func (r *CustomerRepo) Update(ctx context.Context, c *domain.Customer) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE customers SET name = $1, phone = $2, email = $3, birthday = $4, updated_at = now()
		 WHERE tenant_id = $5 AND id = $6`,
		c.Name, c.Phone, c.Email, c.Birthday, c.TenantID, c.ID,
	)
	if err != nil {
		return fmt.Errorf("customerRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customerRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *CustomerRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*domain.Customer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+customerColumns+` FROM customers
		 WHERE tenant_id = $1 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		tenantID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("customerRepo.List: %w", err)
	}
	defer rows.Close()

	var customers []*domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("customerRepo.List: scan: %w", err)
		}

		customers = append(customers, c)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("customerRepo.List: rows: %w", err)
	}

	return customers, nil
}

func (r *CustomerRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM customers WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("customerRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customerRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

// ApplyAccrual persists an accrual outcome in one statement. The tier only
// ever moves up, so a plain assignment is safe here.
func (r *CustomerRepo) ApplyAccrual(ctx context.Context, tenantID, id uuid.UUID, points int, orderTotal float64, tier domain.Tier) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE customers
		 SET loyalty_points = loyalty_points + $1,
		     total_spent = total_spent + $2,
		     visit_count = visit_count + 1,
		     loyalty_tier = $3,
		     updated_at = now()
		 WHERE tenant_id = $4 AND id = $5`,
		points, orderTotal, tier, tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("customerRepo.ApplyAccrual: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customerRepo.ApplyAccrual: %w", domain.ErrNotFound)
	}

	return nil
}

// RedeemPoints deducts the reward's cost from the customer balance and bumps
// the reward's usage counter in one transaction. Both updates are conditional,
// so two concurrent redemptions cannot overdraw the balance or blow past the
// reward's usage cap; the loser sees ErrConflict.
func (r *CustomerRepo) RedeemPoints(ctx context.Context, tenantID, customerID, rewardID uuid.UUID, pointsCost int) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("customerRepo.RedeemPoints: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var newBalance int
	err = tx.QueryRow(ctx,
		`UPDATE customers
		 SET loyalty_points = loyalty_points - $1, updated_at = now()
		 WHERE tenant_id = $2 AND id = $3 AND loyalty_points >= $1
		 RETURNING loyalty_points`,
		pointsCost, tenantID, customerID,
	).Scan(&newBalance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("customerRepo.RedeemPoints: balance: %w", domain.ErrConflict)
	}
	if err != nil {
		return 0, fmt.Errorf("customerRepo.RedeemPoints: balance: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE loyalty_rewards
		 SET used_count = used_count + 1, updated_at = now()
		 WHERE tenant_id = $1 AND id = $2
		   AND (usage_limit = 0 OR used_count < usage_limit)`,
		tenantID, rewardID,
	)
	if err != nil {
		return 0, fmt.Errorf("customerRepo.RedeemPoints: reward: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, fmt.Errorf("customerRepo.RedeemPoints: reward: %w", domain.ErrConflict)
	}

	err = tx.Commit(ctx)
	if err != nil {
		return 0, fmt.Errorf("customerRepo.RedeemPoints: commit: %w", err)
	}

	return newBalance, nil
}

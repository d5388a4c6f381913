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

type CouponRepo struct {
	pool *pgxpool.Pool
}

func NewCouponRepo(pool *pgxpool.Pool) *CouponRepo {
	return &CouponRepo{pool: pool}
}

const couponColumns = `id, tenant_id, code, campaign_id, discount_type, discount_value,
	min_order_amount, max_discount, start_date, end_date, usage_limit, used_count,
	per_customer_limit, active, created_at, updated_at`

func scanCoupon(row pgx.Row) (*domain.Coupon, error) {
	var c domain.Coupon
	err := row.Scan(
		&c.ID, &c.TenantID, &c.Code, &c.CampaignID, &c.DiscountType, &c.DiscountValue,
		&c.MinOrderAmount, &c.MaxDiscount, &c.StartDate, &c.EndDate, &c.UsageLimit, &c.UsedCount,
		&c.PerCustomerLimit, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CouponRepo) Create(ctx context.Context, c *domain.Coupon) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO coupons (id, tenant_id, code, campaign_id, discount_type, discount_value,
		   min_order_amount, max_discount, start_date, end_date, usage_limit, used_count,
		   per_customer_limit, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		c.ID, c.TenantID, c.Code, c.CampaignID, c.DiscountType, c.DiscountValue,
		c.MinOrderAmount, c.MaxDiscount, c.StartDate, c.EndDate, c.UsageLimit, c.UsedCount,
		c.PerCustomerLimit, c.Active, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("couponRepo.Create: %w", err)
	}

	return nil
}

func (r *CouponRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Coupon, error) {
	c, err := scanCoupon(r.pool.QueryRow(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("couponRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("couponRepo.GetByID: %w", err)
	}

	return c, nil
}

func (r *CouponRepo) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*domain.Coupon, error) {
	c, err := scanCoupon(r.pool.QueryRow(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE tenant_id = $1 AND code = $2`,
		tenantID, code,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("couponRepo.GetByCode: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("couponRepo.GetByCode: %w", err)
	}

	return c, nil
}

func (r *CouponRepo) Update(ctx context.Context, c *domain.Coupon) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE coupons SET code = $1, campaign_id = $2, discount_type = $3, discount_value = $4,
		   min_order_amount = $5, max_discount = $6, start_date = $7, end_date = $8,
		   usage_limit = $9, per_customer_limit = $10, active = $11, updated_at = now()
		 WHERE tenant_id = $12 AND id = $13`,
		c.Code, c.CampaignID, c.DiscountType, c.DiscountValue,
		c.MinOrderAmount, c.MaxDiscount, c.StartDate, c.EndDate,
		c.UsageLimit, c.PerCustomerLimit, c.Active, c.TenantID, c.ID,
	)
	if err != nil {
		return fmt.Errorf("couponRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("couponRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *CouponRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Coupon, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+couponColumns+` FROM coupons
		 WHERE tenant_id = $1 ORDER BY created_at DESC`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("couponRepo.List: %w", err)
	}
	defer rows.Close()

	var coupons []*domain.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("couponRepo.List: scan: %w", err)
		}

		coupons = append(coupons, c)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("couponRepo.List: rows: %w", err)
	}

	return coupons, nil
}

func (r *CouponRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM coupons WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("couponRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("couponRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *CouponRepo) CountRedemptionsByCustomer(ctx context.Context, tenantID, couponID, customerID uuid.UUID) (int, error) {
	var n int

	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM coupon_redemptions
		 WHERE tenant_id = $1 AND coupon_id = $2 AND customer_id = $3`,
		tenantID, couponID, customerID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("couponRepo.CountRedemptionsByCustomer: %w", err)
	}

	return n, nil
}

// Redeem consumes one use of a coupon. The usage counter is incremented with
// a conditional UPDATE so two concurrent redemptions of the last remaining
// use cannot both succeed; the loser's UPDATE matches zero rows and the whole
// transaction rolls back with ErrConflict.
func (r *CouponRepo) Redeem(ctx context.Context, red *domain.CouponRedemption) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("couponRepo.Redeem: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := redeemCouponTx(ctx, tx, red); err != nil {
		return fmt.Errorf("couponRepo.Redeem: %w", err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		return fmt.Errorf("couponRepo.Redeem: commit: %w", err)
	}

	return nil
}

// redeemCouponTx increments used_count and writes the ledger row inside tx.
// The conditional UPDATE is the race protection: when the cap is already hit
// it matches zero rows and the call fails with ErrConflict, rolling back
// whatever else the surrounding transaction has done.
func redeemCouponTx(ctx context.Context, tx pgx.Tx, red *domain.CouponRedemption) error {
	tag, err := tx.Exec(ctx,
		`UPDATE coupons
		 SET used_count = used_count + 1, updated_at = now()
		 WHERE tenant_id = $1 AND id = $2
		   AND (usage_limit = 0 OR used_count < usage_limit)`,
		red.TenantID, red.CouponID,
	)
	if err != nil {
		return fmt.Errorf("increment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO coupon_redemptions (id, coupon_id, tenant_id, customer_id, order_id, amount, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		red.ID, red.CouponID, red.TenantID, red.CustomerID, red.OrderID, red.Amount, red.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("ledger: %w", err)
	}

	return nil
}

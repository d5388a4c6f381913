package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tably/tably/internal/domain"
)

type CampaignRepo struct {
	pool *pgxpool.Pool
}

func NewCampaignRepo(pool *pgxpool.Pool) *CampaignRepo {
	return &CampaignRepo{pool: pool}
}

const campaignColumns = `id, tenant_id, name, description, discount_type, discount_value,
	min_order_amount, max_discount, start_date, end_date, usage_limit, used_count,
	per_customer_limit, status, weekdays, hour_from, hour_to, target_tiers, created_at, updated_at`

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var (
		c        domain.Campaign
		weekdays []int32
		tiers    []string
	)

	err := row.Scan(
		&c.ID, &c.TenantID, &c.Name, &c.Description, &c.DiscountType, &c.DiscountValue,
		&c.MinOrderAmount, &c.MaxDiscount, &c.StartDate, &c.EndDate, &c.UsageLimit, &c.UsedCount,
		&c.PerCustomerLimit, &c.Status, &weekdays, &c.HourFrom, &c.HourTo, &tiers, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, wd := range weekdays {
		c.Weekdays = append(c.Weekdays, time.Weekday(wd))
	}
	for _, t := range tiers {
		c.TargetTiers = append(c.TargetTiers, domain.Tier(t))
	}

	return &c, nil
}

func campaignArrays(c *domain.Campaign) ([]int32, []string) {
	var weekdays []int32
	for _, wd := range c.Weekdays {
		weekdays = append(weekdays, int32(wd))
	}

	var tiers []string
	for _, t := range c.TargetTiers {
		tiers = append(tiers, string(t))
	}

	return weekdays, tiers
}

func (r *CampaignRepo) Create(ctx context.Context, c *domain.Campaign) error {
	weekdays, tiers := campaignArrays(c)

	_, err := r.pool.Exec(ctx,
		`INSERT INTO campaigns (id, tenant_id, name, description, discount_type, discount_value,
		   min_order_amount, max_discount, start_date, end_date, usage_limit, used_count,
		   per_customer_limit, status, weekdays, hour_from, hour_to, target_tiers, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		c.ID, c.TenantID, c.Name, c.Description, c.DiscountType, c.DiscountValue,
		c.MinOrderAmount, c.MaxDiscount, c.StartDate, c.EndDate, c.UsageLimit, c.UsedCount,
		c.PerCustomerLimit, c.Status, weekdays, c.HourFrom, c.HourTo, tiers, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("campaignRepo.Create: %w", err)
	}

	return nil
}

func (r *CampaignRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Campaign, error) {
	c, err := scanCampaign(r.pool.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("campaignRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("campaignRepo.GetByID: %w", err)
	}

	return c, nil
}

func (r *CampaignRepo) Update(ctx context.Context, c *domain.Campaign) error {
	weekdays, tiers := campaignArrays(c)

	tag, err := r.pool.Exec(ctx,
		`UPDATE campaigns SET name = $1, description = $2, discount_type = $3, discount_value = $4,
		   min_order_amount = $5, max_discount = $6, start_date = $7, end_date = $8,
		   usage_limit = $9, per_customer_limit = $10, weekdays = $11, hour_from = $12,
		   hour_to = $13, target_tiers = $14, updated_at = now()
		 WHERE tenant_id = $15 AND id = $16`,
		c.Name, c.Description, c.DiscountType, c.DiscountValue,
		c.MinOrderAmount, c.MaxDiscount, c.StartDate, c.EndDate,
		c.UsageLimit, c.PerCustomerLimit, weekdays, c.HourFrom,
		c.HourTo, tiers, c.TenantID, c.ID,
	)
	if err != nil {
		return fmt.Errorf("campaignRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("campaignRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *CampaignRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status domain.CampaignStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE campaigns SET status = $1, updated_at = now()
		 WHERE tenant_id = $2 AND id = $3`,
		status, tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("campaignRepo.UpdateStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("campaignRepo.UpdateStatus: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *CampaignRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Campaign, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+campaignColumns+` FROM campaigns
		 WHERE tenant_id = $1 ORDER BY created_at DESC`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("campaignRepo.List: %w", err)
	}
	defer rows.Close()

	var campaigns []*domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("campaignRepo.List: scan: %w", err)
		}

		campaigns = append(campaigns, c)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("campaignRepo.List: rows: %w", err)
	}

	return campaigns, nil
}

func (r *CampaignRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM campaigns WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("campaignRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("campaignRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

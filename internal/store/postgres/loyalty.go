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

type LoyaltyConfigRepo struct {
	pool *pgxpool.Pool
}

func NewLoyaltyConfigRepo(pool *pgxpool.Pool) *LoyaltyConfigRepo {
	return &LoyaltyConfigRepo{pool: pool}
}

// Upsert writes the tenant's loyalty program definition. One config per
// tenant, keyed on tenant_id.
func (r *LoyaltyConfigRepo) Upsert(ctx context.Context, c *domain.LoyaltyConfig) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO loyalty_configs (id, tenant_id, points_per_spent, min_spend_for_points,
		   silver_threshold, gold_threshold, platinum_threshold,
		   bronze_multiplier, silver_multiplier, gold_multiplier, platinum_multiplier,
		   birthday_bonus, valid_from, valid_until, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		 ON CONFLICT (tenant_id) DO UPDATE SET
		   points_per_spent = EXCLUDED.points_per_spent,
		   min_spend_for_points = EXCLUDED.min_spend_for_points,
		   silver_threshold = EXCLUDED.silver_threshold,
		   gold_threshold = EXCLUDED.gold_threshold,
		   platinum_threshold = EXCLUDED.platinum_threshold,
		   bronze_multiplier = EXCLUDED.bronze_multiplier,
		   silver_multiplier = EXCLUDED.silver_multiplier,
		   gold_multiplier = EXCLUDED.gold_multiplier,
		   platinum_multiplier = EXCLUDED.platinum_multiplier,
		   birthday_bonus = EXCLUDED.birthday_bonus,
		   valid_from = EXCLUDED.valid_from,
		   valid_until = EXCLUDED.valid_until,
		   active = EXCLUDED.active,
		   updated_at = now()`,
		c.ID, c.TenantID, c.PointsPerSpent, c.MinSpendForPoints,
		c.SilverThreshold, c.GoldThreshold, c.PlatinumThreshold,
		c.BronzeMultiplier, c.SilverMultiplier, c.GoldMultiplier, c.PlatinumMultiplier,
		c.BirthdayBonus, c.ValidFrom, c.ValidUntil, c.Active, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("loyaltyConfigRepo.Upsert: %w", err)
	}

	return nil
}

func (r *LoyaltyConfigRepo) GetByTenant(ctx context.Context, tenantID uuid.UUID) (*domain.LoyaltyConfig, error) {
	var c domain.LoyaltyConfig

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, points_per_spent, min_spend_for_points,
		   silver_threshold, gold_threshold, platinum_threshold,
		   bronze_multiplier, silver_multiplier, gold_multiplier, platinum_multiplier,
		   birthday_bonus, valid_from, valid_until, active, created_at, updated_at
		 FROM loyalty_configs WHERE tenant_id = $1`,
		tenantID,
	).Scan(
		&c.ID, &c.TenantID, &c.PointsPerSpent, &c.MinSpendForPoints,
		&c.SilverThreshold, &c.GoldThreshold, &c.PlatinumThreshold,
		&c.BronzeMultiplier, &c.SilverMultiplier, &c.GoldMultiplier, &c.PlatinumMultiplier,
		&c.BirthdayBonus, &c.ValidFrom, &c.ValidUntil, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("loyaltyConfigRepo.GetByTenant: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loyaltyConfigRepo.GetByTenant: %w", err)
	}

	return &c, nil
}

type LoyaltyRewardRepo struct {
	pool *pgxpool.Pool
}

func NewLoyaltyRewardRepo(pool *pgxpool.Pool) *LoyaltyRewardRepo {
	return &LoyaltyRewardRepo{pool: pool}
}

const rewardColumns = `id, tenant_id, name, points_cost, reward_type, value,
	min_tier, usage_limit, used_count, active, valid_until, created_at, updated_at`

func scanReward(row pgx.Row) (*domain.LoyaltyReward, error) {
	var w domain.LoyaltyReward
	err := row.Scan(
		&w.ID, &w.TenantID, &w.Name, &w.PointsCost, &w.RewardType, &w.Value,
		&w.MinTier, &w.UsageLimit, &w.UsedCount, &w.Active, &w.ValidUntil, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *LoyaltyRewardRepo) Create(ctx context.Context, w *domain.LoyaltyReward) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO loyalty_rewards (id, tenant_id, name, points_cost, reward_type, value,
		   min_tier, usage_limit, used_count, active, valid_until, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		w.ID, w.TenantID, w.Name, w.PointsCost, w.RewardType, w.Value,
		w.MinTier, w.UsageLimit, w.UsedCount, w.Active, w.ValidUntil, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("loyaltyRewardRepo.Create: %w", err)
	}

	return nil
}

func (r *LoyaltyRewardRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.LoyaltyReward, error) {
	w, err := scanReward(r.pool.QueryRow(ctx,
		`SELECT `+rewardColumns+` FROM loyalty_rewards WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("loyaltyRewardRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loyaltyRewardRepo.GetByID: %w", err)
	}

	return w, nil
}

func (r *LoyaltyRewardRepo) Update(ctx context.Context, w *domain.LoyaltyReward) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE loyalty_rewards SET name = $1, points_cost = $2, reward_type = $3, value = $4,
		   min_tier = $5, usage_limit = $6, active = $7, valid_until = $8, updated_at = now()
		 WHERE tenant_id = $9 AND id = $10`,
		w.Name, w.PointsCost, w.RewardType, w.Value,
		w.MinTier, w.UsageLimit, w.Active, w.ValidUntil, w.TenantID, w.ID,
	)
	if err != nil {
		return fmt.Errorf("loyaltyRewardRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("loyaltyRewardRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *LoyaltyRewardRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.LoyaltyReward, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+rewardColumns+` FROM loyalty_rewards
		 WHERE tenant_id = $1 ORDER BY points_cost`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("loyaltyRewardRepo.List: %w", err)
	}
	defer rows.Close()

	var rewards []*domain.LoyaltyReward
	for rows.Next() {
		w, err := scanReward(rows)
		if err != nil {
			return nil, fmt.Errorf("loyaltyRewardRepo.List: scan: %w", err)
		}

		rewards = append(rewards, w)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("loyaltyRewardRepo.List: rows: %w", err)
	}

	return rewards, nil
}

func (r *LoyaltyRewardRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM loyalty_rewards WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("loyaltyRewardRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("loyaltyRewardRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

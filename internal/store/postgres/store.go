package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tably/tably/internal/domain"
)

type Store struct {
	pool       *pgxpool.Pool
	tenants    *TenantRepo
	users      *UserRepo
	customers  *CustomerRepo
	categories *CategoryRepo
	menuItems  *MenuItemRepo
	tables     *TableRepo
	orders     *OrderRepo
	loyalty    *LoyaltyConfigRepo
	rewards    *LoyaltyRewardRepo
	campaigns  *CampaignRepo
	coupons    *CouponRepo
	stock      *StockItemRepo
	audit      *AuditRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:       pool,
		tenants:    NewTenantRepo(pool),
		users:      NewUserRepo(pool),
		customers:  NewCustomerRepo(pool),
		categories: NewCategoryRepo(pool),
		menuItems:  NewMenuItemRepo(pool),
		tables:     NewTableRepo(pool),
		orders:     NewOrderRepo(pool),
		loyalty:    NewLoyaltyConfigRepo(pool),
		rewards:    NewLoyaltyRewardRepo(pool),
		campaigns:  NewCampaignRepo(pool),
		coupons:    NewCouponRepo(pool),
		stock:      NewStockItemRepo(pool),
		audit:      NewAuditRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Tenants() domain.TenantRepository               { return s.tenants }
func (s *Store) Users() domain.UserRepository                   { return s.users }
func (s *Store) Customers() domain.CustomerRepository           { return s.customers }
func (s *Store) Categories() domain.CategoryRepository          { return s.categories }
func (s *Store) MenuItems() domain.MenuItemRepository           { return s.menuItems }
func (s *Store) Tables() domain.TableRepository                 { return s.tables }
func (s *Store) Orders() domain.OrderRepository                 { return s.orders }
func (s *Store) LoyaltyConfigs() domain.LoyaltyConfigRepository { return s.loyalty }
func (s *Store) LoyaltyRewards() domain.LoyaltyRewardRepository { return s.rewards }
func (s *Store) Campaigns() domain.CampaignRepository           { return s.campaigns }
func (s *Store) Coupons() domain.CouponRepository               { return s.coupons }
func (s *Store) Stock() domain.StockItemRepository              { return s.stock }
func (s *Store) Audit() domain.AuditRepository                  { return s.audit }

// RegisterTenant provisions a restaurant in one transaction: the tenant row,
// its owner account, and a disabled default loyalty config the owner can turn
// on later. Either everything lands or nothing does.
// PlaceOrder inserts an order and, when red is non-nil, consumes the coupon
// use in the same transaction. A failed order insert therefore rolls back the
// used_count increment and the ledger row; the coupon counts a use only for
// orders that actually exist. Returns ErrConflict when the coupon cap is hit.
func (s *Store) PlaceOrder(ctx context.Context, o *domain.Order, red *domain.CouponRedemption) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres.PlaceOrder: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if red != nil {
		if err := redeemCouponTx(ctx, tx, red); err != nil {
			return fmt.Errorf("postgres.PlaceOrder: coupon: %w", err)
		}
	}

	if err := insertOrderTx(ctx, tx, o); err != nil {
		return fmt.Errorf("postgres.PlaceOrder: %w", err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		return fmt.Errorf("postgres.PlaceOrder: commit: %w", err)
	}

	return nil
}

func (s *Store) RegisterTenant(ctx context.Context, t *domain.Tenant, owner *domain.User) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres.RegisterTenant: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO tenants (id, name, slug, active, settings, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.Name, t.Slug, t.Active, t.Settings, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres.RegisterTenant: tenant: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, tenant_id, email, password_hash, name, role, avatar_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		owner.ID, owner.TenantID, owner.Email, owner.PasswordHash, owner.Name, owner.Role, owner.AvatarURL, owner.CreatedAt, owner.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres.RegisterTenant: owner: %w", err)
	}

	now := time.Now()
	_, err = tx.Exec(ctx,
		`INSERT INTO loyalty_configs (id, tenant_id, points_per_spent, min_spend_for_points,
		   silver_threshold, gold_threshold, platinum_threshold,
		   bronze_multiplier, silver_multiplier, gold_multiplier, platinum_multiplier,
		   birthday_bonus, active, created_at, updated_at)
		 VALUES ($1, $2, 1, 0, 0, 0, 0, 1, 1, 1, 1, 0, false, $3, $3)`,
		uuid.New(), t.ID, now,
	)
	if err != nil {
		return fmt.Errorf("postgres.RegisterTenant: loyalty config: %w", err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		return fmt.Errorf("postgres.RegisterTenant: commit: %w", err)
	}

	return nil
}

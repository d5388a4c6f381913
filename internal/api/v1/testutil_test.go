package v1_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/tably/tably/internal/auth"
	"github.com/tably/tably/internal/domain"
	"github.com/tably/tably/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers — inject tenant/user/role into context for the Ctx variants
// ---------------------------------------------------------------------------

func tenantCtx(tenantID uuid.UUID) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyTenantID, tenantID)
	return ctx
}

func staffCtx(tenantID, userID uuid.UUID) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyTenantID, tenantID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	return ctx
}

func superAdminCtx() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyUserRole, middleware.RoleSuperAdmin)
	return ctx
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	tenants        domain.TenantRepository
	users          domain.UserRepository
	customers      domain.CustomerRepository
	categories     domain.CategoryRepository
	menuItems      domain.MenuItemRepository
	tables         domain.TableRepository
	orders         domain.OrderRepository
	loyaltyConfigs domain.LoyaltyConfigRepository
	loyaltyRewards domain.LoyaltyRewardRepository
	campaigns      domain.CampaignRepository
	coupons        domain.CouponRepository
	stock          domain.StockItemRepository
	audit          domain.AuditRepository

	registerTenantFunc func(ctx context.Context, t *domain.Tenant, owner *domain.User) error
	placeOrderFunc     func(ctx context.Context, o *domain.Order, red *domain.CouponRedemption) error
}

func (m *mockDataStore) Tenants() domain.TenantRepository               { return m.tenants }
func (m *mockDataStore) Users() domain.UserRepository                   { return m.users }
func (m *mockDataStore) Customers() domain.CustomerRepository           { return m.customers }
func (m *mockDataStore) Categories() domain.CategoryRepository          { return m.categories }
func (m *mockDataStore) MenuItems() domain.MenuItemRepository           { return m.menuItems }
func (m *mockDataStore) Tables() domain.TableRepository                 { return m.tables }
func (m *mockDataStore) Orders() domain.OrderRepository                 { return m.orders }
func (m *mockDataStore) LoyaltyConfigs() domain.LoyaltyConfigRepository { return m.loyaltyConfigs }
func (m *mockDataStore) LoyaltyRewards() domain.LoyaltyRewardRepository { return m.loyaltyRewards }
func (m *mockDataStore) Campaigns() domain.CampaignRepository           { return m.campaigns }
func (m *mockDataStore) Coupons() domain.CouponRepository               { return m.coupons }
func (m *mockDataStore) Stock() domain.StockItemRepository              { return m.stock }
func (m *mockDataStore) Audit() domain.AuditRepository                  { return m.audit }

func (m *mockDataStore) RegisterTenant(ctx context.Context, t *domain.Tenant, owner *domain.User) error {
	return m.registerTenantFunc(ctx, t, owner)
}

// PlaceOrder delegates to placeOrderFunc when set; otherwise it mimics the
// real store by redeeming the coupon and creating the order through the
// mounted repo mocks.
func (m *mockDataStore) PlaceOrder(ctx context.Context, o *domain.Order, red *domain.CouponRedemption) error {
	if m.placeOrderFunc != nil {
		return m.placeOrderFunc(ctx, o, red)
	}
	if red != nil {
		if err := m.coupons.Redeem(ctx, red); err != nil {
			return err
		}
	}
	return m.orders.Create(ctx, o)
}

// ---------------------------------------------------------------------------
// Mock TenantRepository
// ---------------------------------------------------------------------------

type mockTenantRepo struct {
	createFunc        func(ctx context.Context, t *domain.Tenant) error
	getByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	getBySlugFunc     func(ctx context.Context, slug string) (*domain.Tenant, error)
	updateFunc        func(ctx context.Context, t *domain.Tenant) error
	setActiveFunc     func(ctx context.Context, id uuid.UUID, active bool) error
	listFunc          func(ctx context.Context) ([]*domain.Tenant, error)
	listPaginatedFunc func(ctx context.Context, limit, offset int) ([]*domain.Tenant, error)
}

func (m *mockTenantRepo) Create(ctx context.Context, t *domain.Tenant) error {
	return m.createFunc(ctx, t)
}

func (m *mockTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockTenantRepo) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	return m.getBySlugFunc(ctx, slug)
}

func (m *mockTenantRepo) Update(ctx context.Context, t *domain.Tenant) error {
	return m.updateFunc(ctx, t)
}

func (m *mockTenantRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return m.setActiveFunc(ctx, id, active)
}

func (m *mockTenantRepo) List(ctx context.Context) ([]*domain.Tenant, error) {
	return m.listFunc(ctx)
}

func (m *mockTenantRepo) ListPaginated(ctx context.Context, limit, offset int) ([]*domain.Tenant, error) {
	return m.listPaginatedFunc(ctx, limit, offset)
}

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	createFunc              func(ctx context.Context, u *domain.User) error
	getByIDFunc             func(ctx context.Context, tenantID, id uuid.UUID) (*domain.User, error)
	getByEmailFunc          func(ctx context.Context, tenantID uuid.UUID, email string) (*domain.User, error)
	updateFunc              func(ctx context.Context, u *domain.User) error
	listFunc                func(ctx context.Context, tenantID uuid.UUID) ([]*domain.User, error)
	listOAuthLinksFunc      func(ctx context.Context, userID uuid.UUID) ([]*domain.UserOAuthLink, error)
	deleteOAuthLinkFunc     func(ctx context.Context, id uuid.UUID) error
	listMessengerLinksFunc  func(ctx context.Context, userID uuid.UUID) ([]*domain.UserMessengerLink, error)
	createMessengerLinkFunc func(ctx context.Context, link *domain.UserMessengerLink) error
	listAPIKeysFunc         func(ctx context.Context, tenantID, userID uuid.UUID) ([]*domain.APIKey, error)
	deleteAPIKeyFunc        func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.createFunc(ctx, u)
}

func (m *mockUserRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.User, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*domain.User, error) {
	return m.getByEmailFunc(ctx, tenantID, email)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	return m.updateFunc(ctx, u)
}

func (m *mockUserRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.User, error) {
	return m.listFunc(ctx, tenantID)
}

func (m *mockUserRepo) CreateOAuthLink(_ context.Context, _ *domain.UserOAuthLink) error {
	return nil
}

func (m *mockUserRepo) GetOAuthLink(_ context.Context, _, _ string) (*domain.UserOAuthLink, error) {
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) ListOAuthLinks(ctx context.Context, userID uuid.UUID) ([]*domain.UserOAuthLink, error) {
	if m.listOAuthLinksFunc == nil {
		return nil, nil
	}
	return m.listOAuthLinksFunc(ctx, userID)
}

func (m *mockUserRepo) DeleteOAuthLink(ctx context.Context, id uuid.UUID) error {
	if m.deleteOAuthLinkFunc == nil {
		return nil
	}
	return m.deleteOAuthLinkFunc(ctx, id)
}

func (m *mockUserRepo) CreateMessengerLink(ctx context.Context, link *domain.UserMessengerLink) error {
	return m.createMessengerLinkFunc(ctx, link)
}

func (m *mockUserRepo) GetMessengerLink(_ context.Context, _ uuid.UUID, _, _ string) (*domain.UserMessengerLink, error) {
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) ListMessengerLinks(ctx context.Context, userID uuid.UUID) ([]*domain.UserMessengerLink, error) {
	return m.listMessengerLinksFunc(ctx, userID)
}

func (m *mockUserRepo) DeleteMessengerLink(_ context.Context, _ uuid.UUID) error {
	return nil
}

func (m *mockUserRepo) CreateAPIKey(_ context.Context, _ *domain.APIKey) error {
	return nil
}

func (m *mockUserRepo) GetAPIKeyByPrefix(_ context.Context, _ uuid.UUID, _ string) (*domain.APIKey, error) {
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) ListAPIKeys(ctx context.Context, tenantID, userID uuid.UUID) ([]*domain.APIKey, error) {
	if m.listAPIKeysFunc == nil {
		return nil, nil
	}
	return m.listAPIKeysFunc(ctx, tenantID, userID)
}

func (m *mockUserRepo) DeleteAPIKey(ctx context.Context, id uuid.UUID) error {
	if m.deleteAPIKeyFunc == nil {
		return nil
	}
	return m.deleteAPIKeyFunc(ctx, id)
}

func (m *mockUserRepo) UpdateAPIKeyLastUsed(_ context.Context, _ uuid.UUID) error {
	return nil
}

// ---------------------------------------------------------------------------
// Mock CustomerRepository
// ---------------------------------------------------------------------------

type mockCustomerRepo struct {
	createFunc       func(ctx context.Context, c *domain.Customer) error
	getByIDFunc      func(ctx context.Context, tenantID, id uuid.UUID) (*domain.Customer, error)
	getByPhoneFunc   func(ctx context.Context, tenantID uuid.UUID, phone string) (*domain.Customer, error)
	updateFunc       func(ctx context.Context, c *domain.Customer) error
	listFunc         func(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*domain.Customer, error)
	deleteFunc       func(ctx context.Context, tenantID, id uuid.UUID) error
	applyAccrualFunc func(ctx context.Context, tenantID, id uuid.UUID, points int, orderTotal float64, tier domain.Tier) error
	redeemPointsFunc func(ctx context.Context, tenantID, customerID, rewardID uuid.UUID, pointsCost int) (int, error)
}

func (m *mockCustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	return m.createFunc(ctx, c)
}

func (m *mockCustomerRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Customer, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

func (m *mockCustomerRepo) GetByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*domain.Customer, error) {
	return m.getByPhoneFunc(ctx, tenantID, phone)
}

func (m *mockCustomerRepo) Update(ctx context.Context, c *domain.Customer) error {
	return m.updateFunc(ctx, c)
}

func (m *mockCustomerRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*domain.Customer, error) {
	return m.listFunc(ctx, tenantID, limit, offset)
}

func (m *mockCustomerRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.deleteFunc(ctx, tenantID, id)
}

func (m *mockCustomerRepo) ApplyAccrual(ctx context.Context, tenantID, id uuid.UUID, points int, orderTotal float64, tier domain.Tier) error {
	return m.applyAccrualFunc(ctx, tenantID, id, points, orderTotal, tier)
}

func (m *mockCustomerRepo) RedeemPoints(ctx context.Context, tenantID, customerID, rewardID uuid.UUID, pointsCost int) (int, error) {
	return m.redeemPointsFunc(ctx, tenantID, customerID, rewardID, pointsCost)
}

// ---------------------------------------------------------------------------
// Mock CategoryRepository
// ---------------------------------------------------------------------------

type mockCategoryRepo struct {
	createFunc  func(ctx context.Context, c *domain.Category) error
	getByIDFunc func(ctx context.Context, tenantID, id uuid.UUID) (*domain.Category, error)
	updateFunc  func(ctx context.Context, c *domain.Category) error
	listFunc    func(ctx context.Context, tenantID uuid.UUID) ([]*domain.Category, error)
	deleteFunc  func(ctx context.Context, tenantID, id uuid.UUID) error
}

func (m *mockCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	return m.createFunc(ctx, c)
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Category, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

func (m *mockCategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	return m.updateFunc(ctx, c)
}

func (m *mockCategoryRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Category, error) {
	return m.listFunc(ctx, tenantID)
}

func (m *mockCategoryRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.deleteFunc(ctx, tenantID, id)
}

// ---------------------------------------------------------------------------
// Mock MenuItemRepository
// ---------------------------------------------------------------------------

type mockMenuItemRepo struct {
	createFunc         func(ctx context.Context, mi *domain.MenuItem) error
	getByIDFunc        func(ctx context.Context, tenantID, id uuid.UUID) (*domain.MenuItem, error)
	updateFunc         func(ctx context.Context, mi *domain.MenuItem) error
	setAvailableFunc   func(ctx context.Context, tenantID, id uuid.UUID, available bool) error
	listByCategoryFunc func(ctx context.Context, tenantID, categoryID uuid.UUID) ([]*domain.MenuItem, error)
	listFunc           func(ctx context.Context, tenantID uuid.UUID) ([]*domain.MenuItem, error)
	deleteFunc         func(ctx context.Context, tenantID, id uuid.UUID) error
}

func (m *mockMenuItemRepo) Create(ctx context.Context, mi *domain.MenuItem) error {
	return m.createFunc(ctx, mi)
}

func (m *mockMenuItemRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.MenuItem, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

func (m *mockMenuItemRepo) Update(ctx context.Context, mi *domain.MenuItem) error {
	return m.updateFunc(ctx, mi)
}

func (m *mockMenuItemRepo) SetAvailable(ctx context.Context, tenantID, id uuid.UUID, available bool) error {
	return m.setAvailableFunc(ctx, tenantID, id, available)
}

func (m *mockMenuItemRepo) ListByCategory(ctx context.Context, tenantID, categoryID uuid.UUID) ([]*domain.MenuItem, error) {
	return m.listByCategoryFunc(ctx, tenantID, categoryID)
}

func (m *mockMenuItemRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.MenuItem, error) {
	return m.listFunc(ctx, tenantID)
}

func (m *mockMenuItemRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.deleteFunc(ctx, tenantID, id)
}

// ---------------------------------------------------------------------------
// Mock TableRepository
// ---------------------------------------------------------------------------

type mockTableRepo struct {
	createFunc        func(ctx context.Context, t *domain.Table) error
	getByIDFunc       func(ctx context.Context, tenantID, id uuid.UUID) (*domain.Table, error)
	getByQRTokenFunc  func(ctx context.Context, tenantID uuid.UUID, token string) (*domain.Table, error)
	updateFunc        func(ctx context.Context, t *domain.Table) error
	rotateQRTokenFunc func(ctx context.Context, tenantID, id uuid.UUID, token string) error
	listFunc          func(ctx context.Context, tenantID uuid.UUID) ([]*domain.Table, error)
	deleteFunc        func(ctx context.Context, tenantID, id uuid.UUID) error
}

func (m *mockTableRepo) Create(ctx context.Context, t *domain.Table) error {
	return m.createFunc(ctx, t)
}

func (m *mockTableRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Table, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

func (m *mockTableRepo) GetByQRToken(ctx context.Context, tenantID uuid.UUID, token string) (*domain.Table, error) {
	return m.getByQRTokenFunc(ctx, tenantID, token)
}

func (m *mockTableRepo) Update(ctx context.Context, t *domain.Table) error {
	return m.updateFunc(ctx, t)
}

func (m *mockTableRepo) RotateQRToken(ctx context.Context, tenantID, id uuid.UUID, token string) error {
	return m.rotateQRTokenFunc(ctx, tenantID, id, token)
}

func (m *mockTableRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Table, error) {
	return m.listFunc(ctx, tenantID)
}

func (m *mockTableRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.deleteFunc(ctx, tenantID, id)
}

// ---------------------------------------------------------------------------
// Mock OrderRepository
// ---------------------------------------------------------------------------

type mockOrderRepo struct {
	createFunc              func(ctx context.Context, o *domain.Order) error
	getByIDFunc             func(ctx context.Context, tenantID, id uuid.UUID) (*domain.Order, error)
	getByCodeFunc           func(ctx context.Context, tenantID uuid.UUID, code string) (*domain.Order, error)
	listByStatusFunc        func(ctx context.Context, tenantID uuid.UUID, status domain.OrderStatus) ([]*domain.Order, error)
	listPaginatedFunc       func(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*domain.Order, error)
	updateStatusFunc        func(ctx context.Context, tenantID, id uuid.UUID, status domain.OrderStatus) error
	updatePaymentStatusFunc func(ctx context.Context, tenantID, id uuid.UUID, status domain.PaymentStatus) error
}

func (m *mockOrderRepo) Create(ctx context.Context, o *domain.Order) error {
	return m.createFunc(ctx, o)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Order, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

func (m *mockOrderRepo) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*domain.Order, error) {
	return m.getByCodeFunc(ctx, tenantID, code)
}

func (m *mockOrderRepo) ListByStatus(ctx context.Context, tenantID uuid.UUID, status domain.OrderStatus) ([]*domain.Order, error) {
	return m.listByStatusFunc(ctx, tenantID, status)
}

func (m *mockOrderRepo) ListPaginated(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*domain.Order, error) {
	return m.listPaginatedFunc(ctx, tenantID, limit, offset)
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status domain.OrderStatus) error {
	return m.updateStatusFunc(ctx, tenantID, id, status)
}

func (m *mockOrderRepo) UpdatePaymentStatus(ctx context.Context, tenantID, id uuid.UUID, status domain.PaymentStatus) error {
	return m.updatePaymentStatusFunc(ctx, tenantID, id, status)
}

// ---------------------------------------------------------------------------
// Mock LoyaltyConfigRepository
// ---------------------------------------------------------------------------

type mockLoyaltyConfigRepo struct {
	upsertFunc      func(ctx context.Context, c *domain.LoyaltyConfig) error
	getByTenantFunc func(ctx context.Context, tenantID uuid.UUID) (*domain.LoyaltyConfig, error)
}

func (m *mockLoyaltyConfigRepo) Upsert(ctx context.Context, c *domain.LoyaltyConfig) error {
	return m.upsertFunc(ctx, c)
}

func (m *mockLoyaltyConfigRepo) GetByTenant(ctx context.Context, tenantID uuid.UUID) (*domain.LoyaltyConfig, error) {
	return m.getByTenantFunc(ctx, tenantID)
}

// ---------------------------------------------------------------------------
// Mock LoyaltyRewardRepository
// ---------------------------------------------------------------------------

type mockLoyaltyRewardRepo struct {
	createFunc  func(ctx context.Context, r *domain.LoyaltyReward) error
	getByIDFunc func(ctx context.Context, tenantID, id uuid.UUID) (*domain.LoyaltyReward, error)
	updateFunc  func(ctx context.Context, r *domain.LoyaltyReward) error
	listFunc    func(ctx context.Context, tenantID uuid.UUID) ([]*domain.LoyaltyReward, error)
	deleteFunc  func(ctx context.Context, tenantID, id uuid.UUID) error
}

func (m *mockLoyaltyRewardRepo) Create(ctx context.Context, r *domain.LoyaltyReward) error {
	return m.createFunc(ctx, r)
}

func (m *mockLoyaltyRewardRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.LoyaltyReward, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

func (m *mockLoyaltyRewardRepo) Update(ctx context.Context, r *domain.LoyaltyReward) error {
	return m.updateFunc(ctx, r)
}

func (m *mockLoyaltyRewardRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.LoyaltyReward, error) {
	return m.listFunc(ctx, tenantID)
}

func (m *mockLoyaltyRewardRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.deleteFunc(ctx, tenantID, id)
}

// ---------------------------------------------------------------------------
// Mock CampaignRepository
// ---------------------------------------------------------------------------

type mockCampaignRepo struct {
	createFunc       func(ctx context.Context, c *domain.Campaign) error
	getByIDFunc      func(ctx context.Context, tenantID, id uuid.UUID) (*domain.Campaign, error)
	updateFunc       func(ctx context.Context, c *domain.Campaign) error
	updateStatusFunc func(ctx context.Context, tenantID, id uuid.UUID, status domain.CampaignStatus) error
	listFunc         func(ctx context.Context, tenantID uuid.UUID) ([]*domain.Campaign, error)
	deleteFunc       func(ctx context.Context, tenantID, id uuid.UUID) error
}

func (m *mockCampaignRepo) Create(ctx context.Context, c *domain.Campaign) error {
	return m.createFunc(ctx, c)
}

func (m *mockCampaignRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Campaign, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

func (m *mockCampaignRepo) Update(ctx context.Context, c *domain.Campaign) error {
	return m.updateFunc(ctx, c)
}

func (m *mockCampaignRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status domain.CampaignStatus) error {
	return m.updateStatusFunc(ctx, tenantID, id, status)
}

func (m *mockCampaignRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Campaign, error) {
	return m.listFunc(ctx, tenantID)
}

func (m *mockCampaignRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.deleteFunc(ctx, tenantID, id)
}

// ---------------------------------------------------------------------------
// Mock CouponRepository
// ---------------------------------------------------------------------------

type mockCouponRepo struct {
	createFunc                     func(ctx context.Context, c *domain.Coupon) error
	getByIDFunc                    func(ctx context.Context, tenantID, id uuid.UUID) (*domain.Coupon, error)
	getByCodeFunc                  func(ctx context.Context, tenantID uuid.UUID, code string) (*domain.Coupon, error)
	updateFunc                     func(ctx context.Context, c *domain.Coupon) error
	listFunc                       func(ctx context.Context, tenantID uuid.UUID) ([]*domain.Coupon, error)
	deleteFunc                     func(ctx context.Context, tenantID, id uuid.UUID) error
	countRedemptionsByCustomerFunc func(ctx context.Context, tenantID, couponID, customerID uuid.UUID) (int, error)
	redeemFunc                     func(ctx context.Context, red *domain.CouponRedemption) error
}

func (m *mockCouponRepo) Create(ctx context.Context, c *domain.Coupon) error {
	return m.createFunc(ctx, c)
}

func (m *mockCouponRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Coupon, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

func (m *mockCouponRepo) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*domain.Coupon, error) {
	return m.getByCodeFunc(ctx, tenantID, code)
}

func (m *mockCouponRepo) Update(ctx context.Context, c *domain.Coupon) error {
	return m.updateFunc(ctx, c)
}

func (m *mockCouponRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Coupon, error) {
	return m.listFunc(ctx, tenantID)
}

func (m *mockCouponRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.deleteFunc(ctx, tenantID, id)
}

func (m *mockCouponRepo) CountRedemptionsByCustomer(ctx context.Context, tenantID, couponID, customerID uuid.UUID) (int, error) {
	return m.countRedemptionsByCustomerFunc(ctx, tenantID, couponID, customerID)
}

func (m *mockCouponRepo) Redeem(ctx context.Context, red *domain.CouponRedemption) error {
	return m.redeemFunc(ctx, red)
}

// ---------------------------------------------------------------------------
// Mock StockItemRepository
// ---------------------------------------------------------------------------

type mockStockRepo struct {
	createFunc  func(ctx context.Context, s *domain.StockItem) error
	getByIDFunc func(ctx context.Context, tenantID, id uuid.UUID) (*domain.StockItem, error)
	updateFunc  func(ctx context.Context, s *domain.StockItem) error
	adjustFunc  func(ctx context.Context, tenantID, id uuid.UUID, delta float64) (*domain.StockItem, error)
	listFunc    func(ctx context.Context, tenantID uuid.UUID) ([]*domain.StockItem, error)
	listLowFunc func(ctx context.Context, tenantID uuid.UUID) ([]*domain.StockItem, error)
	deleteFunc  func(ctx context.Context, tenantID, id uuid.UUID) error
}

func (m *mockStockRepo) Create(ctx context.Context, s *domain.StockItem) error {
	return m.createFunc(ctx, s)
}

func (m *mockStockRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.StockItem, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

func (m *mockStockRepo) Update(ctx context.Context, s *domain.StockItem) error {
	return m.updateFunc(ctx, s)
}

func (m *mockStockRepo) Adjust(ctx context.Context, tenantID, id uuid.UUID, delta float64) (*domain.StockItem, error) {
	return m.adjustFunc(ctx, tenantID, id, delta)
}

func (m *mockStockRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.StockItem, error) {
	return m.listFunc(ctx, tenantID)
}

func (m *mockStockRepo) ListLow(ctx context.Context, tenantID uuid.UUID) ([]*domain.StockItem, error) {
	return m.listLowFunc(ctx, tenantID)
}

func (m *mockStockRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.deleteFunc(ctx, tenantID, id)
}

// ---------------------------------------------------------------------------
// Mock AuditRepository
// ---------------------------------------------------------------------------

type mockAuditRepo struct {
	createFunc       func(ctx context.Context, a *domain.AuditLog) error
	listByEntityFunc func(ctx context.Context, tenantID uuid.UUID, entity string, entityID uuid.UUID) ([]*domain.AuditLog, error)
	listRecentFunc   func(ctx context.Context, tenantID uuid.UUID, limit int) ([]*domain.AuditLog, error)
}

func (m *mockAuditRepo) Create(ctx context.Context, a *domain.AuditLog) error {
	if m.createFunc == nil {
		return nil
	}
	return m.createFunc(ctx, a)
}

func (m *mockAuditRepo) ListByEntity(ctx context.Context, tenantID uuid.UUID, entity string, entityID uuid.UUID) ([]*domain.AuditLog, error) {
	return m.listByEntityFunc(ctx, tenantID, entity, entityID)
}

func (m *mockAuditRepo) ListRecent(ctx context.Context, tenantID uuid.UUID, limit int) ([]*domain.AuditLog, error) {
	return m.listRecentFunc(ctx, tenantID, limit)
}

// ---------------------------------------------------------------------------
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	registerFunc     func(ctx context.Context, tenantID uuid.UUID, email, password, name, role string) (*domain.User, error)
	loginFunc        func(ctx context.Context, tenantID uuid.UUID, email, password string) (string, string, error)
	refreshTokenFunc func(ctx context.Context, refreshToken string) (string, error)
}

func (m *mockAuthService) Register(ctx context.Context, tenantID uuid.UUID, email, password, name, role string) (*domain.User, error) {
	return m.registerFunc(ctx, tenantID, email, password, name, role)
}

func (m *mockAuthService) Login(ctx context.Context, tenantID uuid.UUID, email, password string) (accessToken, refreshToken string, err error) {
	return m.loginFunc(ctx, tenantID, email, password)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	return m.refreshTokenFunc(ctx, refreshToken)
}

// ---------------------------------------------------------------------------
// Mock AccountService
// ---------------------------------------------------------------------------

type mockAccountService struct {
	generateAPIKeyFunc    func(ctx context.Context, tenantID, userID uuid.UUID, name string, scopes []string) (string, *domain.APIKey, error)
	generateLinkTokenFunc func(tenantID uuid.UUID, platform, externalID string) (*auth.LinkToken, error)
	verifyAndLinkFunc     func(ctx context.Context, token string, userID uuid.UUID) error
}

func (m *mockAccountService) GenerateAPIKey(ctx context.Context, tenantID, userID uuid.UUID, name string, scopes []string) (string, *domain.APIKey, error) {
	return m.generateAPIKeyFunc(ctx, tenantID, userID, name, scopes)
}

func (m *mockAccountService) GenerateLinkToken(tenantID uuid.UUID, platform, externalID string) (*auth.LinkToken, error) {
	return m.generateLinkTokenFunc(tenantID, platform, externalID)
}

func (m *mockAccountService) VerifyAndLink(ctx context.Context, token string, userID uuid.UUID) error {
	return m.verifyAndLinkFunc(ctx, token, userID)
}

// ---------------------------------------------------------------------------
// Mock OAuthService
// ---------------------------------------------------------------------------

type mockOAuthService struct {
	authorizationURLFunc func(provider, state string) (string, error)
	loginOAuthFunc       func(ctx context.Context, tenantID uuid.UUID, provider, code string) (string, string, error)
}

func (m *mockOAuthService) OAuthAuthorizationURL(provider, state string) (string, error) {
	return m.authorizationURLFunc(provider, state)
}

func (m *mockOAuthService) LoginOAuth(ctx context.Context, tenantID uuid.UUID, provider, code string) (accessToken, refreshToken string, err error) {
	return m.loginOAuthFunc(ctx, tenantID, provider, code)
}

// ---------------------------------------------------------------------------
// Mock Publisher
// ---------------------------------------------------------------------------

type mockPublisher struct {
	publishFunc func(ctx context.Context, channel string, payload []byte) error
}

func (m *mockPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	if m.publishFunc == nil {
		return nil
	}
	return m.publishFunc(ctx, channel, payload)
}

// ---------------------------------------------------------------------------
// Mock StaffNotifier
// ---------------------------------------------------------------------------

type mockStaffNotifier struct {
	notifyFunc func(ctx context.Context, userID uuid.UUID, message string) error
}

func (m *mockStaffNotifier) Notify(ctx context.Context, userID uuid.UUID, message string) error {
	if m.notifyFunc == nil {
		return nil
	}
	return m.notifyFunc(ctx, userID, message)
}

type mockAnnouncer struct {
	announceFunc func(ctx context.Context, platform, channelID, message string) error
}

func (m *mockAnnouncer) Announce(ctx context.Context, platform, channelID, message string) error {
	if m.announceFunc == nil {
		return nil
	}
	return m.announceFunc(ctx, platform, channelID, message)
}

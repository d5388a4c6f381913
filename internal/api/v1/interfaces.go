package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/tably/tably/internal/auth"
	"github.com/tably/tably/internal/domain"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Tenants() domain.TenantRepository
	Users() domain.UserRepository
	Customers() domain.CustomerRepository
	Categories() domain.CategoryRepository
	MenuItems() domain.MenuItemRepository
	Tables() domain.TableRepository
	Orders() domain.OrderRepository
	LoyaltyConfigs() domain.LoyaltyConfigRepository
	LoyaltyRewards() domain.LoyaltyRewardRepository
	Campaigns() domain.CampaignRepository
	Coupons() domain.CouponRepository
	Stock() domain.StockItemRepository
	Audit() domain.AuditRepository

	RegisterTenant(ctx context.Context, t *domain.Tenant, owner *domain.User) error

	// PlaceOrder persists an order and the optional coupon redemption
	// atomically; a failed insert must not consume a coupon use.
	PlaceOrder(ctx context.Context, o *domain.Order, red *domain.CouponRedemption) error
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Register(ctx context.Context, tenantID uuid.UUID, email, password, name, role string) (*domain.User, error)
	Login(ctx context.Context, tenantID uuid.UUID, email, password string) (accessToken, refreshToken string, err error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
}

// AccountService abstracts per-user credential operations (API keys and
// messenger pairing) for handler testing. *auth.Service satisfies this
// interface.
type AccountService interface {
	GenerateAPIKey(ctx context.Context, tenantID, userID uuid.UUID, name string, scopes []string) (string, *domain.APIKey, error)
	GenerateLinkToken(tenantID uuid.UUID, platform, externalID string) (*auth.LinkToken, error)
	VerifyAndLink(ctx context.Context, token string, userID uuid.UUID) error
}

// OAuthService abstracts OAuth2 sign-in operations for handler testing.
// *auth.Service satisfies this interface.
type OAuthService interface {
	OAuthAuthorizationURL(provider, state string) (string, error)
	LoginOAuth(ctx context.Context, tenantID uuid.UUID, provider, code string) (accessToken, refreshToken string, err error)
}

// Publisher abstracts the pub/sub fanout used for live order and stock feeds.
// *redis.PubSub satisfies this interface.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// StaffNotifier pushes alerts to staff through their linked messenger
// accounts. *notify.Notifier satisfies this interface.
type StaffNotifier interface {
	Notify(ctx context.Context, userID uuid.UUID, message string) error
}

// OrderAnnouncer posts to a shared messenger channel, such as a kitchen's
// order feed. *notify.Notifier satisfies this interface.
type OrderAnnouncer interface {
	Announce(ctx context.Context, platform, channelID, message string) error
}

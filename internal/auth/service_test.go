package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tably/tably/internal/auth"
	"github.com/tably/tably/internal/domain"
)

// mockUserRepo implements domain.UserRepository with overridable functions.
type mockUserRepo struct {
	createFn     func(ctx context.Context, u *domain.User) error
	getByIDFn    func(ctx context.Context, tenantID, id uuid.UUID) (*domain.User, error)
	getByEmailFn func(ctx context.Context, tenantID uuid.UUID, email string) (*domain.User, error)

	createMessengerLinkFn func(ctx context.Context, link *domain.UserMessengerLink) error

	createAPIKeyFn         func(ctx context.Context, key *domain.APIKey) error
	getAPIKeyByPrefixFn    func(ctx context.Context, tenantID uuid.UUID, prefix string) (*domain.APIKey, error)
	updateAPIKeyLastUsedFn func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, tenantID, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, tenantID, email)
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error { return nil }

func (m *mockUserRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.User, error) {
	return nil, nil
}

func (m *mockUserRepo) CreateOAuthLink(ctx context.Context, link *domain.UserOAuthLink) error {
	return nil
}

func (m *mockUserRepo) GetOAuthLink(ctx context.Context, provider, providerID string) (*domain.UserOAuthLink, error) {
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) ListOAuthLinks(ctx context.Context, userID uuid.UUID) ([]*domain.UserOAuthLink, error) {
	return nil, nil
}

func (m *mockUserRepo) DeleteOAuthLink(ctx context.Context, id uuid.UUID) error { return nil }

func (m *mockUserRepo) CreateMessengerLink(ctx context.Context, link *domain.UserMessengerLink) error {
	if m.createMessengerLinkFn != nil {
		return m.createMessengerLinkFn(ctx, link)
	}
	return nil
}

func (m *mockUserRepo) GetMessengerLink(ctx context.Context, tenantID uuid.UUID, platform, externalID string) (*domain.UserMessengerLink, error) {
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) ListMessengerLinks(ctx context.Context, userID uuid.UUID) ([]*domain.UserMessengerLink, error) {
	return nil, nil
}

func (m *mockUserRepo) DeleteMessengerLink(ctx context.Context, id uuid.UUID) error { return nil }

func (m *mockUserRepo) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	if m.createAPIKeyFn != nil {
		return m.createAPIKeyFn(ctx, key)
	}
	return nil
}

func (m *mockUserRepo) GetAPIKeyByPrefix(ctx context.Context, tenantID uuid.UUID, prefix string) (*domain.APIKey, error) {
	if m.getAPIKeyByPrefixFn != nil {
		return m.getAPIKeyByPrefixFn(ctx, tenantID, prefix)
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) ListAPIKeys(ctx context.Context, tenantID, userID uuid.UUID) ([]*domain.APIKey, error) {
	return nil, nil
}

func (m *mockUserRepo) DeleteAPIKey(ctx context.Context, id uuid.UUID) error { return nil }

func (m *mockUserRepo) UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error {
	if m.updateAPIKeyLastUsedFn != nil {
		return m.updateAPIKeyLastUsedFn(ctx, id)
	}
	return nil
}

const testSecret = "test-secret-key-very-long-and-secure"

func newTestService(repo *mockUserRepo) *auth.Service {
	return auth.NewService(repo, testSecret, 15*time.Minute, 7*24*time.Hour)
}

func TestService_RegisterAndLogin(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	users := map[string]*domain.User{}

	repo := &mockUserRepo{
		createFn: func(ctx context.Context, u *domain.User) error {
			users[u.Email] = u
			return nil
		},
		getByEmailFn: func(ctx context.Context, tid uuid.UUID, email string) (*domain.User, error) {
			u, ok := users[email]
			if !ok {
				return nil, domain.ErrNotFound
			}
			return u, nil
		},
	}
	svc := newTestService(repo)

	user, err := svc.Register(context.Background(), tenantID, "owner@demo-kafe.test", "correct horse battery", "Ayse", "owner")
	require.NoError(t, err)
	assert.Equal(t, "owner", user.Role)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "correct horse battery", user.PasswordHash)

	access, refresh, err := svc.Login(context.Background(), tenantID, "owner@demo-kafe.test", "correct horse battery")
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	claims, err := auth.ValidateToken(testSecret, access)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "owner", claims.Role)
}

func TestService_RegisterDefaultsRoleToStaff(t *testing.T) {
	t.Parallel()

	repo := &mockUserRepo{}
	svc := newTestService(repo)

	user, err := svc.Register(context.Background(), uuid.New(), "new@demo.test", "password123", "New Person", "")
	require.NoError(t, err)
	assert.Equal(t, "staff", user.Role)
}

func TestService_RegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	existing := &domain.User{ID: uuid.New(), Email: "taken@demo.test"}
	repo := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, tid uuid.UUID, email string) (*domain.User, error) {
			return existing, nil
		},
	}
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), uuid.New(), "taken@demo.test", "password123", "Dup", "staff")
	assert.ErrorIs(t, err, auth.ErrUserAlreadyExists)
}

func TestService_LoginWrongPassword(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	var stored *domain.User
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, u *domain.User) error {
			stored = u
			return nil
		},
		getByEmailFn: func(ctx context.Context, tid uuid.UUID, email string) (*domain.User, error) {
			if stored == nil {
				return nil, domain.ErrNotFound
			}
			return stored, nil
		},
	}
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), tenantID, "owner@demo.test", "right-password", "Owner", "owner")
	require.NoError(t, err)

	// Re-register would now find the user; reset getByEmail for login path.
	_, _, err = svc.Login(context.Background(), tenantID, "owner@demo.test", "wrong-password")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_LoginUnknownUser(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockUserRepo{})

	_, _, err := svc.Login(context.Background(), uuid.New(), "nobody@demo.test", "whatever")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_RefreshToken(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	user := &domain.User{
		ID:       uuid.New(),
		TenantID: tenantID,
		Email:    "owner@demo.test",
		Role:     "owner",
	}
	repo := &mockUserRepo{
		getByIDFn: func(ctx context.Context, tid, id uuid.UUID) (*domain.User, error) {
			if id == user.ID {
				return user, nil
			}
			return nil, domain.ErrNotFound
		},
	}
	svc := newTestService(repo)

	refresh, err := auth.IssueRefreshToken(testSecret, tenantID, user.ID, user.Role, time.Hour)
	require.NoError(t, err)

	access, err := svc.RefreshToken(context.Background(), refresh)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(testSecret, access)
	require.NoError(t, err)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, user.ID.String(), claims.UserID)
}

func TestService_RefreshRejectsAccessToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockUserRepo{})

	access, err := auth.IssueAccessToken(testSecret, uuid.New(), uuid.New(), "staff", time.Hour)
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), access)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

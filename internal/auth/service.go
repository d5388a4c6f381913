package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"

	"github.com/tably/tably/internal/domain"
)

// Sentinel errors for the auth package.
var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrUserAlreadyExists  = errors.New("auth: user already exists")
	ErrUserNotFound       = errors.New("auth: user not found")
	ErrUnknownProvider    = errors.New("auth: unknown oauth provider")
)

// argon2id parameters following OWASP recommendations.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // 64 MiB
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

// Service provides authentication and authorization operations for staff
// accounts (panel and super-admin console).
type Service struct {
	userRepo   domain.UserRepository
	jwtSecret  string
	accessTTL  time.Duration
	refreshTTL time.Duration
	providers  map[string]*OAuthProvider

	// linkTokens stores temporary messenger link tokens in memory
	// (token string -> *LinkToken).
	linkTokens sync.Map
}

// NewService creates a new auth service.
func NewService(userRepo domain.UserRepository, jwtSecret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		userRepo:   userRepo,
		jwtSecret:  jwtSecret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		providers:  make(map[string]*OAuthProvider),
	}
}

// RegisterOAuthProvider makes an OAuth2 provider available for sign-in.
// Called at startup, before the server accepts requests.
func (s *Service) RegisterOAuthProvider(p *OAuthProvider) {
	s.providers[p.Name] = p
}

// Register creates a new staff user with email/password. Returns the created
// user. The password is hashed with argon2id before storage.
func (s *Service) Register(ctx context.Context, tenantID uuid.UUID, email, password, name, role string) (*domain.User, error) {
	// Check if user already exists.
	existing, err := s.userRepo.GetByEmail(ctx, tenantID, email)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("auth.Register: %w", ErrUserAlreadyExists)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("auth.Register: %w", err)
	}

	if role == "" {
		role = "staff"
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("auth.Register: %w", err)
	}

	return user, nil
}

// Login validates email/password and returns access + refresh JWT tokens.
func (s *Service) Login(ctx context.Context, tenantID uuid.UUID, email, password string) (accessToken, refreshToken string, err error) {
	user, err := s.userRepo.GetByEmail(ctx, tenantID, email)
	if err != nil {
		return "", "", fmt.Errorf("auth.Login: %w", ErrInvalidCredentials)
	}

	if !verifyPassword(password, user.PasswordHash) {
		return "", "", fmt.Errorf("auth.Login: %w", ErrInvalidCredentials)
	}

	accessToken, err = IssueAccessToken(s.jwtSecret, user.TenantID, user.ID, user.Role, s.accessTTL)
	if err != nil {
		return "", "", fmt.Errorf("auth.Login: %w", err)
	}

	refreshToken, err = IssueRefreshToken(s.jwtSecret, user.TenantID, user.ID, user.Role, s.refreshTTL)
	if err != nil {
		return "", "", fmt.Errorf("auth.Login: %w", err)
	}

	return accessToken, refreshToken, nil
}

// OAuthAuthorizationURL returns the provider's authorization URL carrying the
// given state parameter.
func (s *Service) OAuthAuthorizationURL(provider, state string) (string, error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", fmt.Errorf("auth.OAuthAuthorizationURL: %q: %w", provider, ErrUnknownProvider)
	}

	return p.AuthorizationURL(state), nil
}

// LoginOAuth completes an OAuth2 sign-in: exchanges the authorization code,
// finds or creates the linked staff user within the tenant, and issues
// access + refresh tokens. First-time sign-ins get the lowest role.
func (s *Service) LoginOAuth(ctx context.Context, tenantID uuid.UUID, provider, code string) (accessToken, refreshToken string, err error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", "", fmt.Errorf("auth.LoginOAuth: %q: %w", provider, ErrUnknownProvider)
	}

	profile, err := p.ExchangeCode(ctx, code)
	if err != nil {
		return "", "", fmt.Errorf("auth.LoginOAuth: %w", err)
	}

	user, err := s.resolveOAuthUser(ctx, tenantID, provider, profile)
	if err != nil {
		return "", "", fmt.Errorf("auth.LoginOAuth: %w", err)
	}

	accessToken, err = IssueAccessToken(s.jwtSecret, user.TenantID, user.ID, user.Role, s.accessTTL)
	if err != nil {
		return "", "", fmt.Errorf("auth.LoginOAuth: %w", err)
	}

	refreshToken, err = IssueRefreshToken(s.jwtSecret, user.TenantID, user.ID, user.Role, s.refreshTTL)
	if err != nil {
		return "", "", fmt.Errorf("auth.LoginOAuth: %w", err)
	}

	return accessToken, refreshToken, nil
}

// resolveOAuthUser maps a provider profile to a staff user. Existing links
// win; otherwise the profile email is matched against the tenant's users,
// and failing that a new staff account is created.
func (s *Service) resolveOAuthUser(ctx context.Context, tenantID uuid.UUID, provider string, profile *Profile) (*domain.User, error) {
	link, err := s.userRepo.GetOAuthLink(ctx, provider, profile.ProviderID)
	if err == nil {
		user, getErr := s.userRepo.GetByID(ctx, tenantID, link.UserID)
		if getErr != nil {
			// Linked user belongs to another tenant.
			return nil, ErrInvalidCredentials
		}
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	var user *domain.User
	if profile.Email != "" {
		user, err = s.userRepo.GetByEmail(ctx, tenantID, profile.Email)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	if user == nil {
		now := time.Now()
		user = &domain.User{
			ID:        uuid.New(),
			TenantID:  tenantID,
			Email:     profile.Email,
			Name:      profile.Name,
			Role:      "staff",
			AvatarURL: profile.AvatarURL,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	newLink := &domain.UserOAuthLink{
		ID:         uuid.New(),
		UserID:     user.ID,
		Provider:   provider,
		ProviderID: profile.ProviderID,
		CreatedAt:  time.Now(),
	}
	if err := s.userRepo.CreateOAuthLink(ctx, newLink); err != nil {
		return nil, err
	}

	return user, nil
}

// RefreshToken validates a refresh token and issues a new access token.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := ValidateToken(s.jwtSecret, refreshToken)
	if err != nil {
		return "", fmt.Errorf("auth.RefreshToken: %w", err)
	}

	if claims.TokenType != tokenTypeRefresh {
		return "", fmt.Errorf("auth.RefreshToken: %w", ErrInvalidToken)
	}

	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return "", fmt.Errorf("auth.RefreshToken: invalid tenant id: %w", err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return "", fmt.Errorf("auth.RefreshToken: invalid user id: %w", err)
	}

	// Verify the user still exists and fetch current role.
	user, err := s.userRepo.GetByID(ctx, tenantID, userID)
	if err != nil {
		return "", fmt.Errorf("auth.RefreshToken: %w", ErrUserNotFound)
	}

	newAccess, err := IssueAccessToken(s.jwtSecret, user.TenantID, user.ID, user.Role, s.accessTTL)
	if err != nil {
		return "", fmt.Errorf("auth.RefreshToken: %w", err)
	}

	return newAccess, nil
}

// GetUser returns a user by ID (for middleware use).
func (s *Service) GetUser(ctx context.Context, tenantID, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, tenantID, userID)
	if err != nil {
		return nil, fmt.Errorf("auth.GetUser: %w", err)
	}

	return user, nil
}

// hashPassword generates an argon2id hash with a random salt.
// Format: hex(salt) + "$" + hex(hash)
func hashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash), nil
}

// verifyPassword checks a password against an argon2id hash.
func verifyPassword(password, encoded string) bool {
	// Split salt$hash
	var saltHex, hashHex string
	for i := range len(encoded) {
		if encoded[i] == '$' {
			saltHex = encoded[:i]
			hashHex = encoded[i+1:]
			break
		}
	}

	if saltHex == "" || hashHex == "" {
		return false
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}

	expectedHash, err := hex.DecodeString(hashHex)
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	// Constant-time comparison to prevent timing attacks.
	if len(computed) != len(expectedHash) {
		return false
	}

	var diff byte
	for i := range computed {
		diff |= computed[i] ^ expectedHash[i]
	}

	return diff == 0
}

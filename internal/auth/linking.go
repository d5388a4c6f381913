package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tably/tably/internal/domain"
)

// ErrLinkTokenExpired is returned when a link token is not found or has expired.
var ErrLinkTokenExpired = errors.New("auth: link token expired or not found")

const (
	linkTokenBytes  = 32
	linkTokenExpiry = 15 * time.Minute
)

// LinkToken pairs a messenger account with a staff user. The panel creates
// the token, the staff member hands it to the platform bot, and the verify
// step consumes it to prove both sides belong to the same person.
type LinkToken struct {
	Token      string
	TenantID   uuid.UUID
	Platform   string // "slack", "telegram"
	ExternalID string // messenger user ID
	ExpiresAt  time.Time
}

func (lt *LinkToken) expired() bool {
	return time.Now().After(lt.ExpiresAt)
}

// GenerateLinkToken creates a random pairing token, valid for 15 minutes.
// Tokens live in process memory only; a restart voids pending pairings.
func (s *Service) GenerateLinkToken(tenantID uuid.UUID, platform, externalID string) (*LinkToken, error) {
	raw := make([]byte, linkTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("auth.GenerateLinkToken: %w", err)
	}

	lt := &LinkToken{
		Token:      hex.EncodeToString(raw),
		TenantID:   tenantID,
		Platform:   platform,
		ExternalID: externalID,
		ExpiresAt:  time.Now().Add(linkTokenExpiry),
	}

	s.linkTokens.Store(lt.Token, lt)

	return lt, nil
}

// VerifyAndLink consumes a pairing token and persists the messenger link so
// the notifier can reach the user with order and stock alerts.
func (s *Service) VerifyAndLink(ctx context.Context, token string, userID uuid.UUID) error {
	val, ok := s.linkTokens.LoadAndDelete(token)
	if !ok {
		return fmt.Errorf("auth.VerifyAndLink: %w", ErrLinkTokenExpired)
	}

	lt, ok := val.(*LinkToken)
	if !ok || lt.expired() {
		return fmt.Errorf("auth.VerifyAndLink: %w", ErrLinkTokenExpired)
	}

	link := &domain.UserMessengerLink{
		ID:         uuid.New(),
		UserID:     userID,
		TenantID:   lt.TenantID,
		Platform:   lt.Platform,
		ExternalID: lt.ExternalID,
		CreatedAt:  time.Now(),
	}

	if err := s.userRepo.CreateMessengerLink(ctx, link); err != nil {
		return fmt.Errorf("auth.VerifyAndLink: %w", err)
	}

	return nil
}

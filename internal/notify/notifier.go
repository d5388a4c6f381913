package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tably/tably/internal/domain"
	"github.com/tably/tably/internal/messenger"
)

// ErrPlatformNotFound is returned when a messenger platform is not registered.
var ErrPlatformNotFound = errors.New("notify: platform not found")

// MessengerRegistry maps platform names to Messenger implementations.
type MessengerRegistry interface {
	Get(platform string) (messenger.Messenger, bool)
}

// UserLinkResolver finds messenger links for a staff user.
type UserLinkResolver interface {
	ListMessengerLinks(ctx context.Context, userID uuid.UUID) ([]*domain.UserMessengerLink, error)
}

// Notifier dispatches order and stock alerts to staff through their linked
// messenger accounts.
type Notifier struct {
	messengers MessengerRegistry
	userLinks  UserLinkResolver
}

// New creates a new Notifier with the given messenger registry and user link resolver.
func New(messengers MessengerRegistry, userLinks UserLinkResolver) *Notifier {
	return &Notifier{
		messengers: messengers,
		userLinks:  userLinks,
	}
}

// Notify sends a notification to the user via their first working messenger
// link. Falls back to logging when no links exist.
func (n *Notifier) Notify(ctx context.Context, userID uuid.UUID, message string) error {
	links, err := n.userLinks.ListMessengerLinks(ctx, userID)
	if err != nil {
		return fmt.Errorf("notify.Notifier.Notify: list links: %w", err)
	}

	if len(links) == 0 {
		log.Info().Str("user_id", userID.String()).Str("message", message).Msg("notify: no messenger links for user")
		return nil
	}

	// Try each link until one succeeds.
	var lastErr error
	for _, link := range links {
		sendErr := n.NotifyVia(ctx, link.Platform, link.ExternalID, message)
		if sendErr == nil {
			return nil
		}
		lastErr = sendErr
	}

	return fmt.Errorf("notify.Notifier.Notify: all links failed: %w", lastErr)
}

// NotifyVia sends a notification using a specific platform and external ID directly.
func (n *Notifier) NotifyVia(ctx context.Context, platform, externalID, message string) error {
	msg, ok := n.messengers.Get(platform)
	if !ok {
		return fmt.Errorf("notify.Notifier.NotifyVia: platform %q: %w", platform, ErrPlatformNotFound)
	}

	if err := msg.SendNotification(ctx, externalID, message); err != nil {
		return fmt.Errorf("notify.Notifier.NotifyVia: send: %w", err)
	}

	return nil
}

// Announce posts a message to a shared channel (e.g. a kitchen's order feed)
// on a specific platform.
func (n *Notifier) Announce(ctx context.Context, platform, channelID, message string) error {
	msg, ok := n.messengers.Get(platform)
	if !ok {
		return fmt.Errorf("notify.Notifier.Announce: platform %q: %w", platform, ErrPlatformNotFound)
	}

	if _, err := msg.SendMessage(ctx, channelID, message); err != nil {
		return fmt.Errorf("notify.Notifier.Announce: send: %w", err)
	}

	return nil
}

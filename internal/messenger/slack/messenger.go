package slack

import (
	"context"
	"fmt"

	slacklib "github.com/slack-go/slack"

	"github.com/tably/tably/internal/messenger"
)

// SlackAPI abstracts the subset of the Slack client used by SlackMessenger.
// This allows testing without real HTTP calls.
type SlackAPI interface {
	PostMessage(channelID string, options ...slacklib.MsgOption) (string, string, error)
	PostEphemeral(channelID, userID string, options ...slacklib.MsgOption) (string, error)
}

// SlackMessenger implements messenger.Messenger for Slack.
type SlackMessenger struct {
	api SlackAPI
}

// Compile-time interface check.
var _ messenger.Messenger = (*SlackMessenger)(nil)

// NewSlackMessenger creates a SlackMessenger with the given API client.
func NewSlackMessenger(api SlackAPI) *SlackMessenger {
	return &SlackMessenger{api: api}
}

// New creates a SlackMessenger backed by a real Slack client.
func New(botToken string) *SlackMessenger {
	return NewSlackMessenger(slacklib.New(botToken))
}

// SendMessage posts a text message to a Slack channel and returns the message
// timestamp as MessageID.
func (m *SlackMessenger) SendMessage(_ context.Context, channelID, text string) (messenger.MessageID, error) {
	_, ts, err := m.api.PostMessage(channelID, slacklib.MsgOptionText(text, false))
	if err != nil {
		return "", fmt.Errorf("slack.SlackMessenger.SendMessage: %w", err)
	}

	return messenger.MessageID(ts), nil
}

// SendNotification sends an ephemeral notification to a Slack user. The
// userExternalID is used as both the channel and user ID for DM-style delivery.
func (m *SlackMessenger) SendNotification(_ context.Context, userExternalID, text string) error {
	_, err := m.api.PostEphemeral(userExternalID, userExternalID, slacklib.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("slack.SlackMessenger.SendNotification: %w", err)
	}

	return nil
}

// Platform returns the messenger platform identifier.
func (m *SlackMessenger) Platform() string {
	return "slack"
}

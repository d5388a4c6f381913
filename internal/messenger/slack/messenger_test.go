package slack_test

import (
	"context"
	"errors"
	"testing"

	slacklib "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tably/tably/internal/messenger"
	"github.com/tably/tably/internal/messenger/slack"
)

// mockSlackAPI implements slack.SlackAPI with overridable functions.
type mockSlackAPI struct {
	postMessageFn   func(channelID string, options ...slacklib.MsgOption) (string, string, error)
	postEphemeralFn func(channelID, userID string, options ...slacklib.MsgOption) (string, error)
}

func (m *mockSlackAPI) PostMessage(channelID string, options ...slacklib.MsgOption) (string, string, error) {
	return m.postMessageFn(channelID, options...)
}

func (m *mockSlackAPI) PostEphemeral(channelID, userID string, options ...slacklib.MsgOption) (string, error) {
	return m.postEphemeralFn(channelID, userID, options...)
}

func TestSlackMessenger_SendMessage(t *testing.T) {
	t.Parallel()

	api := &mockSlackAPI{
		postMessageFn: func(channelID string, _ ...slacklib.MsgOption) (string, string, error) {
			assert.Equal(t, "C-ORDERS", channelID)
			return channelID, "1724800000.000100", nil
		},
	}
	m := slack.NewSlackMessenger(api)

	id, err := m.SendMessage(context.Background(), "C-ORDERS", "new order #A4F2 for table 7")
	require.NoError(t, err)
	assert.Equal(t, messenger.MessageID("1724800000.000100"), id)
}

func TestSlackMessenger_SendMessageError(t *testing.T) {
	t.Parallel()

	api := &mockSlackAPI{
		postMessageFn: func(string, ...slacklib.MsgOption) (string, string, error) {
			return "", "", errors.New("channel_not_found")
		},
	}
	m := slack.NewSlackMessenger(api)

	_, err := m.SendMessage(context.Background(), "C-MISSING", "hello")
	assert.ErrorContains(t, err, "channel_not_found")
}

func TestSlackMessenger_SendNotification(t *testing.T) {
	t.Parallel()

	var gotChannel, gotUser string
	api := &mockSlackAPI{
		postEphemeralFn: func(channelID, userID string, _ ...slacklib.MsgOption) (string, error) {
			gotChannel = channelID
			gotUser = userID
			return "1724800000.000200", nil
		},
	}
	m := slack.NewSlackMessenger(api)

	err := m.SendNotification(context.Background(), "U12345", "flour is running low")
	require.NoError(t, err)
	assert.Equal(t, "U12345", gotChannel)
	assert.Equal(t, "U12345", gotUser)
}

func TestSlackMessenger_Platform(t *testing.T) {
	t.Parallel()

	m := slack.NewSlackMessenger(&mockSlackAPI{})
	assert.Equal(t, "slack", m.Platform())
}

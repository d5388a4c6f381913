package telegram_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tably/tably/internal/messenger"
	"github.com/tably/tably/internal/messenger/telegram"
)

// mockTelegramAPI implements telegram.TelegramAPI with an overridable function.
type mockTelegramAPI struct {
	sendMessageFn func(chatID, text string) (string, error)
}

func (m *mockTelegramAPI) SendMessage(chatID, text string) (string, error) {
	return m.sendMessageFn(chatID, text)
}

func TestTelegramMessenger_SendMessage(t *testing.T) {
	t.Parallel()

	api := &mockTelegramAPI{
		sendMessageFn: func(chatID, text string) (string, error) {
			assert.Equal(t, "-100987654", chatID)
			assert.Contains(t, text, "table 3")
			return "42", nil
		},
	}
	m := telegram.NewTelegramMessenger(api)

	id, err := m.SendMessage(context.Background(), "-100987654", "order ready for table 3")
	require.NoError(t, err)
	assert.Equal(t, messenger.MessageID("42"), id)
}

func TestTelegramMessenger_SendNotification(t *testing.T) {
	t.Parallel()

	var gotChat string
	api := &mockTelegramAPI{
		sendMessageFn: func(chatID, _ string) (string, error) {
			gotChat = chatID
			return "43", nil
		},
	}
	m := telegram.NewTelegramMessenger(api)

	err := m.SendNotification(context.Background(), "987654", "low stock: mozzarella")
	require.NoError(t, err)
	assert.Equal(t, "987654", gotChat)
}

func TestTelegramMessenger_SendMessageError(t *testing.T) {
	t.Parallel()

	api := &mockTelegramAPI{
		sendMessageFn: func(string, string) (string, error) {
			return "", errors.New("chat not found")
		},
	}
	m := telegram.NewTelegramMessenger(api)

	_, err := m.SendMessage(context.Background(), "0", "hello")
	assert.ErrorContains(t, err, "chat not found")
}

func TestTelegramMessenger_Platform(t *testing.T) {
	t.Parallel()

	m := telegram.NewTelegramMessenger(&mockTelegramAPI{})
	assert.Equal(t, "telegram", m.Platform())
}

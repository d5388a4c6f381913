package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tably/tably/internal/messenger"
)

// TelegramAPI abstracts the subset of the Telegram Bot API used by
// TelegramMessenger. This allows testing without real HTTP calls.
type TelegramAPI interface {
	SendMessage(chatID, text string) (messageID string, err error)
}

// TelegramMessenger implements messenger.Messenger for Telegram.
type TelegramMessenger struct {
	api TelegramAPI
}

// Compile-time interface check.
var _ messenger.Messenger = (*TelegramMessenger)(nil)

// NewTelegramMessenger creates a TelegramMessenger with the given API client.
func NewTelegramMessenger(api TelegramAPI) *TelegramMessenger {
	return &TelegramMessenger{api: api}
}

// New creates a TelegramMessenger backed by the HTTP Bot API.
func New(botToken string) *TelegramMessenger {
	return NewTelegramMessenger(&botAPI{token: botToken, client: http.DefaultClient})
}

// SendMessage posts a text message to a Telegram chat and returns the message ID.
func (m *TelegramMessenger) SendMessage(_ context.Context, channelID, text string) (messenger.MessageID, error) {
	msgID, err := m.api.SendMessage(channelID, text)
	if err != nil {
		return "", fmt.Errorf("telegram.TelegramMessenger.SendMessage: %w", err)
	}

	return messenger.MessageID(msgID), nil
}

// SendNotification sends a direct message to a Telegram user. Telegram uses
// the chat ID directly for DMs, so no separate channel creation is needed.
func (m *TelegramMessenger) SendNotification(_ context.Context, userExternalID, text string) error {
	_, err := m.api.SendMessage(userExternalID, text)
	if err != nil {
		return fmt.Errorf("telegram.TelegramMessenger.SendNotification: %w", err)
	}

	return nil
}

// Platform returns the messenger platform identifier.
func (m *TelegramMessenger) Platform() string {
	return "telegram"
}

// botAPI is the production TelegramAPI implementation over the HTTP Bot API.
type botAPI struct {
	token  string
	client *http.Client
}

type sendMessageResponse struct {
	OK     bool `json:"ok"`
	Result struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
	Description string `json:"description"`
}

func (b *botAPI) SendMessage(chatID, text string) (string, error) {
	form := url.Values{}
	form.Set("chat_id", chatID)
	form.Set("text", text)

	endpoint := "https://api.telegram.org/bot" + b.token + "/sendMessage"

	resp, err := b.client.Post(endpoint, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("telegram.botAPI.SendMessage: %w", err)
	}
	defer resp.Body.Close()

	var parsed sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("telegram.botAPI.SendMessage: decode: %w", err)
	}

	if !parsed.OK {
		return "", fmt.Errorf("telegram.botAPI.SendMessage: api error: %s", parsed.Description)
	}

	return strconv.FormatInt(parsed.Result.MessageID, 10), nil
}

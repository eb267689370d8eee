package gateway

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/telebot.v3"
)

// TelegramTopicPrefix marks a channel topic as a Telegram chat id rather than
// an ntfy topic, e.g. "telegram:123456789".
const TelegramTopicPrefix = "telegram:"

// TelegramGateway delivers to Telegram chats through a bot. It only handles
// topics carrying the telegram: prefix; the Router keeps everything else away
// from it.
type TelegramGateway struct {
	bot *telebot.Bot
}

func NewTelegramGateway(token string) (*TelegramGateway, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:   token,
		Offline: true, // send-only, no update polling
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	return &TelegramGateway{bot: bot}, nil
}

func (g *TelegramGateway) Send(ctx context.Context, topic, title, body string) error {
	raw := strings.TrimPrefix(topic, TelegramTopicPrefix)
	chatID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("telegram topic %q: chat id is not an integer: %w", topic, err)
	}

	text := title
	if body != "" {
		text += "\n" + body
	}

	recipient := &telebot.User{ID: chatID}
	if _, err := g.bot.Send(recipient, text); err != nil {
		return fmt.Errorf("sending to telegram chat %d: %w", chatID, err)
	}
	return nil
}

package notification

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

// Telegram delivers notifications as plain text messages through the bot.
type Telegram struct {
	client  *tgbotapi.BotAPI
	chatIDs []int64
}

func NewTelegram(client *tgbotapi.BotAPI) *Telegram {
	return &Telegram{client: client}
}

func (t *Telegram) AddReceivers(chatIDs ...int64) {
	t.chatIDs = append(t.chatIDs, chatIDs...)
}

// Send posts subject and message to every receiver. It stops at the first
// failing chat.
func (t *Telegram) Send(ctx context.Context, subject, message string) error {
	text := subject + "\n" + message
	for _, chatID := range t.chatIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := t.client.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			return errors.Wrapf(err, "sending to chat %d", chatID)
		}
	}
	return nil
}

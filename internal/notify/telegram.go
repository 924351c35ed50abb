// Package notify pushes order events to the staff over Telegram.
package notify

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type TelegramSender struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramSender(token string, chatID int64) (*TelegramSender, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &TelegramSender{api: api, chatID: chatID}, nil
}

func (t *TelegramSender) Send(_ context.Context, text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	_, err := t.api.Send(msg)
	return err
}

// LogSender is used when no bot token is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, text string) error {
	log.Printf("notify (no telegram configured):\n%s", text)
	return nil
}

// Package notify pushes front-desk events to the admin Telegram chat.
package notify

import (
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
	log    *slog.Logger
}

func NewTelegram(token string, chatID int64, log *slog.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{api: api, chatID: chatID, log: log}, nil
}

func (t *Telegram) CheckedIn(name string, at time.Time) {
	text := fmt.Sprintf("%s checked in at %s", name, at.Format("15:04"))
	if _, err := t.api.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		// Notification failures never fail the check-in itself.
		t.log.Error("telegram notification failed", "err", err)
	}
}

// Nop is used when Telegram notifications are disabled in config.
type Nop struct{}

func (Nop) CheckedIn(string, time.Time) {}

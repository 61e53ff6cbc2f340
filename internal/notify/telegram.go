package notify

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/stockpeek/jysk-monitor/internal/config"
)

// Telegram sends alert messages through the Bot API.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *slog.Logger
}

// NewTelegram connects to the Bot API. When the channel is disabled or
// unconfigured it returns a Noop notifier instead of an error.
func NewTelegram(cfg config.TelegramConfig) (Notifier, error) {
	if !cfg.Enabled || cfg.BotToken == "" {
		slog.Default().Info("telegram alerts disabled")
		return Noop{}, nil
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}

	return &Telegram{
		bot:    bot,
		chatID: cfg.ChatID,
		logger: slog.Default().With("component", "telegram"),
	}, nil
}

func (t *Telegram) Send(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	t.logger.Info("alert sent", "chatID", t.chatID)
	return nil
}

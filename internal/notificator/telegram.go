package notificator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	tgModels "github.com/go-telegram/bot/models"

	"github.com/ei-sanu/someshprofile/internal/models"
	"github.com/ei-sanu/someshprofile/pkg/logger"
)

type TelegramNotificator struct {
	logger *logger.Logger
	bot    *bot.Bot

	db models.Repository
}

var _ Channel = (*TelegramNotificator)(nil)

// NewTelegramNotificator connects the bot and starts polling for updates
// until ctx is cancelled.
func NewTelegramNotificator(ctx context.Context, logger *logger.Logger, token string, db models.Repository, opts ...bot.Option) (*TelegramNotificator, error) {
	provider := &TelegramNotificator{
		logger: logger,
		db:     db,
	}
	opts = append([]bot.Option{bot.WithDefaultHandler(provider.handler)}, opts...)

	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	go b.Start(ctx)
	provider.bot = b

	return provider, nil
}

func (t *TelegramNotificator) Name() string { return "telegram" }

func (t *TelegramNotificator) Deliver(ctx context.Context, recipient *models.Account, notification *models.Notification) error {
	if recipient.TelegramChatID == "" {
		return nil
	}
	return t.SendNotification(ctx, recipient.TelegramChatID, notification.String())
}

func (t *TelegramNotificator) SendNotification(ctx context.Context, chatID, message string) error {
	_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   message,
	})
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

// handler links a chat to an account when its owner sends /start.
func (t *TelegramNotificator) handler(ctx context.Context, _ *bot.Bot, update *tgModels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	user := update.Message.From
	t.logger.Debug("Telegram update", "username", user.Username, "text", update.Message.Text)

	if strings.TrimSpace(update.Message.Text) != "/start" {
		return
	}
	chatID := fmt.Sprint(update.Message.Chat.ID)

	account, err := t.db.GetAccountByTelegramUsername(ctx, strings.ToLower(user.Username))
	if errors.Is(err, models.ErrNotFound) {
		t.logger.Info("No account for telegram username", "username", user.Username)
		t.reply(ctx, chatID, "No account is linked to this Telegram username. Add it to your profile first.")
		return
	}
	if err != nil {
		t.logger.Error("Failed to get account by telegram username", "username", user.Username, "error", err)
		return
	}

	if err := t.db.SetTelegramChatID(ctx, account.ID, chatID); err != nil {
		t.logger.Error("Failed to set telegram chat id", "account_id", account.ID, "error", err)
		return
	}
	t.logger.Info("Telegram chat linked", "account_id", account.ID)
	t.reply(ctx, chatID, "You have successfully subscribed to payment notifications for "+account.Email)
}

func (t *TelegramNotificator) reply(ctx context.Context, chatID, message string) {
	if err := t.SendNotification(ctx, chatID, message); err != nil {
		t.logger.Warn("Failed to reply on telegram", "chat_id", chatID, "error", err)
	}
}

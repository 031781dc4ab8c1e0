package notificator

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/ei-sanu/someshprofile/internal/models"
	"github.com/ei-sanu/someshprofile/pkg/logger"
)

type EmailNotificator struct {
	logger *logger.Logger
	sender string
	send   func(m ...*gomail.Message) error
}

var _ Channel = (*EmailNotificator)(nil)

func NewEmailNotificator(logger *logger.Logger, host string, port int, user, password, sender string) *EmailNotificator {
	dialer := gomail.NewDialer(host, port, user, password)
	return &EmailNotificator{
		logger: logger,
		sender: sender,
		send:   dialer.DialAndSend,
	}
}

func (e *EmailNotificator) Name() string { return "email" }

func (e *EmailNotificator) Deliver(_ context.Context, recipient *models.Account, notification *models.Notification) error {
	if recipient.Email == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.sender)
	m.SetAddressHeader("To", recipient.Email, recipient.DisplayName())
	m.SetHeader("Subject", notification.Title)
	m.SetBody("text/plain", notification.Message)

	if err := e.send(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", recipient.Email, err)
	}
	e.logger.Debug("Email notification sent", "account_id", recipient.ID, "title", notification.Title)
	return nil
}

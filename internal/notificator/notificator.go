package notificator

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/ei-sanu/someshprofile/internal/models"
	"github.com/ei-sanu/someshprofile/pkg/logger"
)

// Channel delivers a stored notification outside the app.
type Channel interface {
	Name() string
	Deliver(ctx context.Context, recipient *models.Account, notification *models.Notification) error
}

type Notificator struct {
	logger   *logger.Logger
	db       models.Repository
	channels []Channel
	now      func() time.Time
}

var _ models.NotificationService = (*Notificator)(nil)

func NewNotificator(logger *logger.Logger, db models.Repository, channels ...Channel) *Notificator {
	return &Notificator{
		logger:   logger,
		db:       db,
		channels: channels,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// safeCall runs a function with panic recovery (synchronous, no goroutine spawning)
func (n *Notificator) safeCall(fn func(), context string) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("Function panicked",
				"context", context,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

// Dispatch stores in-app notifications for the events and fans them out over
// the configured channels. It never fails the caller.
func (n *Notificator) Dispatch(ctx context.Context, pr *models.PaymentRequest, events []models.Event) {
	for _, event := range events {
		msg, ok := messageFor(pr, event)
		if !ok {
			continue
		}
		n.safeCall(func() { n.send(ctx, pr, event, msg) }, string(event.Action()))
	}
}

func (n *Notificator) send(ctx context.Context, pr *models.PaymentRequest, event models.Event, msg message) {
	recipients, err := n.recipients(ctx, pr, msg.audience)
	if err != nil {
		n.logger.Error("Failed to resolve notification recipients",
			"payment_request_id", pr.ID, "action", event.Action(), "error", err)
		return
	}
	if len(recipients) == 0 {
		n.logger.Debug("No notification recipients",
			"payment_request_id", pr.ID, "action", event.Action())
		return
	}

	prID := pr.ID
	notifications := make([]*models.Notification, 0, len(recipients))
	for _, recipient := range recipients {
		notifications = append(notifications, &models.Notification{
			ID:               uuid.NewString(),
			UserID:           recipient.ID,
			PaymentRequestID: &prID,
			Title:            msg.title,
			Message:          msg.body,
			Type:             msg.kind,
			CreatedAt:        n.now(),
		})
	}
	if err := n.db.CreateNotifications(ctx, notifications); err != nil {
		n.logger.Error("Failed to store notifications",
			"payment_request_id", pr.ID, "action", event.Action(), "error", err)
		return
	}

	for i, recipient := range recipients {
		for _, channel := range n.channels {
			n.safeCall(func() {
				if err := channel.Deliver(ctx, recipient, notifications[i]); err != nil {
					n.logger.Warn("Failed to deliver notification",
						"channel", channel.Name(), "account_id", recipient.ID, "error", err)
				}
			}, channel.Name())
		}
	}
}

func (n *Notificator) recipients(ctx context.Context, pr *models.PaymentRequest, to audience) ([]*models.Account, error) {
	switch to {
	case audienceClient:
		account, err := n.clientAccount(ctx, pr)
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return []*models.Account{account}, nil
	case audienceAdmins:
		return n.db.ListAdminAccounts(ctx)
	}
	return nil, nil
}

func (n *Notificator) clientAccount(ctx context.Context, pr *models.PaymentRequest) (*models.Account, error) {
	if pr.UserID != nil {
		account, err := n.db.GetAccount(ctx, *pr.UserID)
		if err == nil || !errors.Is(err, models.ErrNotFound) {
			return account, err
		}
	}
	return n.db.GetAccountByEmail(ctx, pr.ClientEmail)
}

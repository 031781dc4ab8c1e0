// Package paydesk is the application service. It loads payment requests,
// runs lifecycle commands against them, persists the result atomically and
// hands the emitted events to the notificator.
package paydesk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/ei-sanu/someshprofile/internal/config"
	"github.com/ei-sanu/someshprofile/internal/lifecycle"
	"github.com/ei-sanu/someshprofile/internal/models"
	"github.com/ei-sanu/someshprofile/internal/payu"
	"github.com/ei-sanu/someshprofile/pkg/logger"
)

const (
	// paymentNumberAttempts bounds retries on a payment number collision.
	paymentNumberAttempts = 3
	// callbackTTL is how long a processed gateway callback is remembered.
	callbackTTL = 24 * time.Hour
)

const notificationsLimit = 100

// Paydesk serves all payment request business logic.
type Paydesk struct {
	logger *logger.Logger
	config *config.Config

	repo        models.Repository
	gateway     *payu.Gateway
	notificator models.NotificationService
	callbacks   models.CallbackStore

	now func() time.Time
}

var _ models.PaydeskI = (*Paydesk)(nil)

func NewPaydesk(
	repo models.Repository,
	gateway *payu.Gateway,
	notificator models.NotificationService,
	callbacks models.CallbackStore,
	logger *logger.Logger,
	config *config.Config,
) *Paydesk {
	return &Paydesk{
		repo:        repo,
		gateway:     gateway,
		notificator: notificator,
		callbacks:   callbacks,
		logger:      logger,
		config:      config,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func requireAdmin(actor *models.Account) error {
	if actor == nil || !actor.IsAdmin {
		return models.ErrForbidden
	}
	return nil
}

func requireOwner(actor *models.Account, pr *models.PaymentRequest) error {
	if !pr.OwnedBy(actor) {
		return models.ErrForbidden
	}
	return nil
}

// transition loads the request, checks the actor, applies cmd and commits.
func (p *Paydesk) transition(
	ctx context.Context,
	actor *models.Account,
	id string,
	authorize func(*models.Account, *models.PaymentRequest) error,
	cmd lifecycle.Command,
) (*models.PaymentRequest, error) {
	pr, err := p.repo.GetPaymentRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, pr); err != nil {
		return nil, err
	}

	next, events, err := lifecycle.Apply(*pr, cmd, p.now())
	if err != nil {
		return nil, err
	}
	if err := p.commit(ctx, pr, next, events, nil); err != nil {
		return nil, err
	}
	p.logger.Info("Payment request transitioned",
		"payment_request_id", next.ID, "command", cmd.Name(), "from", pr.Status, "to", next.Status)

	p.notify(ctx, next, events)
	next.Transactions = pr.Transactions
	return next, nil
}

// notify hands committed events to the notificator. The transition is
// already durable, so a panic in any sink is logged and swallowed.
func (p *Paydesk) notify(ctx context.Context, pr *models.PaymentRequest, events []models.Event) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Notification dispatch panicked",
				"payment_request_id", pr.ID,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	p.notificator.Dispatch(ctx, pr, events)
}

// commit writes the compare-and-set update, any transaction changes and one
// history row per event in a single database transaction.
func (p *Paydesk) commit(
	ctx context.Context,
	before, after *models.PaymentRequest,
	events []models.Event,
	writeTransaction func(repo models.Repository) error,
) error {
	entries, err := p.historyEntries(before, after, events)
	if err != nil {
		return err
	}
	return p.repo.WithTx(ctx, func(repo models.Repository) error {
		if err := repo.UpdatePaymentRequest(ctx, after, before.Status, before.Version); err != nil {
			return err
		}
		if writeTransaction != nil {
			if err := writeTransaction(repo); err != nil {
				return err
			}
		}
		return repo.AddHistory(ctx, entries...)
	})
}

func (p *Paydesk) historyEntries(before, after *models.PaymentRequest, events []models.Event) ([]*models.PaymentHistory, error) {
	var oldData datatypes.JSON
	if before != nil {
		raw, err := json.Marshal(before.Snapshot())
		if err != nil {
			return nil, fmt.Errorf("failed to encode history snapshot: %w", err)
		}
		oldData = raw
	}
	newData, err := json.Marshal(after.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("failed to encode history snapshot: %w", err)
	}

	entries := make([]*models.PaymentHistory, 0, len(events))
	for _, event := range events {
		entries = append(entries, &models.PaymentHistory{
			PaymentRequestID:  after.ID,
			Action:            event.Action(),
			PerformedByUserID: event.Actor(),
			OldData:           oldData,
			NewData:           datatypes.JSON(newData),
			Notes:             event.Notes(),
			CreatedAt:         after.UpdatedAt,
		})
	}
	return entries, nil
}

// newPaymentNumber returns PAY-YYYYMM-XXXXXX with six uppercase hex characters.
func newPaymentNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("PAY-%s-%s", now.Format("200601"), suffix)
}

func isNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}

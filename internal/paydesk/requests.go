package paydesk

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ei-sanu/someshprofile/internal/lifecycle"
	"github.com/ei-sanu/someshprofile/internal/models"
)

// CreatePaymentRequest issues a new request on behalf of admin. A client
// account with the same email is linked straight away.
func (p *Paydesk) CreatePaymentRequest(ctx context.Context, admin *models.Account, input models.CreatePaymentRequestInput) (*models.PaymentRequest, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	input.CreatedByAdminID = &admin.ID

	pr, events, err := lifecycle.NewRequest(input, p.now())
	if err != nil {
		return nil, err
	}
	pr.ID = uuid.NewString()

	client, err := p.repo.GetAccountByEmail(ctx, pr.ClientEmail)
	switch {
	case err == nil:
		pr.UserID = &client.ID
	case !isNotFound(err):
		return nil, err
	}

	entries, err := p.historyEntries(nil, pr, events)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		pr.PaymentNumber = newPaymentNumber(pr.CreatedAt)
		err = p.repo.WithTx(ctx, func(repo models.Repository) error {
			if err := repo.CreatePaymentRequest(ctx, pr); err != nil {
				return err
			}
			return repo.AddHistory(ctx, entries...)
		})
		if !errors.Is(err, models.ErrDuplicate) || attempt == paymentNumberAttempts {
			break
		}
		p.logger.Warn("Payment number collision, retrying", "payment_number", pr.PaymentNumber, "attempt", attempt)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create payment request: %w", err)
	}

	p.logger.Info("Payment request created",
		"payment_request_id", pr.ID, "payment_number", pr.PaymentNumber, "admin_id", admin.ID)
	p.notify(ctx, pr, events)
	return pr, nil
}

// GetPaymentRequest returns the request to an admin or to its client.
func (p *Paydesk) GetPaymentRequest(ctx context.Context, actor *models.Account, id string) (*models.PaymentRequest, error) {
	pr, err := p.repo.GetPaymentRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil || (!actor.IsAdmin && !pr.OwnedBy(actor)) {
		return nil, models.ErrForbidden
	}
	return pr, nil
}

func (p *Paydesk) ListPaymentRequests(ctx context.Context, filter models.PaymentRequestFilter) ([]*models.PaymentRequest, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, &lifecycle.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", filter.Status)}
	}
	return p.repo.ListPaymentRequests(ctx, filter)
}

func (p *Paydesk) ListClientPaymentRequests(ctx context.Context, client *models.Account) ([]*models.PaymentRequest, error) {
	if client == nil {
		return nil, models.ErrForbidden
	}
	return p.repo.ListClientPaymentRequests(ctx, client.ID, client.Email, client.PhoneNumber)
}

func (p *Paydesk) SubmitPaymentRequest(ctx context.Context, client *models.Account, id string) (*models.PaymentRequest, error) {
	return p.transition(ctx, client, id, requireOwner, lifecycle.Submit{ActorID: accountID(client)})
}

func (p *Paydesk) AcceptPaymentRequest(ctx context.Context, client *models.Account, id string) (*models.PaymentRequest, error) {
	return p.transition(ctx, client, id, requireOwner, lifecycle.Accept{ActorID: accountID(client)})
}

func (p *Paydesk) ApprovePaymentRequest(ctx context.Context, admin *models.Account, id string, edits models.PaymentRequestEdits) (*models.PaymentRequest, error) {
	return p.transition(ctx, admin, id, adminOnly, lifecycle.Approve{ActorID: accountID(admin), Edits: edits})
}

func (p *Paydesk) RejectPaymentRequest(ctx context.Context, admin *models.Account, id string, reason string) (*models.PaymentRequest, error) {
	return p.transition(ctx, admin, id, adminOnly, lifecycle.Reject{ActorID: accountID(admin), Reason: reason})
}

func (p *Paydesk) CancelPaymentRequest(ctx context.Context, admin *models.Account, id string, reason string) (*models.PaymentRequest, error) {
	return p.transition(ctx, admin, id, adminOnly, lifecycle.Cancel{ActorID: accountID(admin), Reason: reason})
}

func (p *Paydesk) EditPaymentRequest(ctx context.Context, admin *models.Account, id string, edits models.PaymentRequestEdits) (*models.PaymentRequest, error) {
	return p.transition(ctx, admin, id, adminOnly, lifecycle.Edit{ActorID: accountID(admin), Edits: edits})
}

func (p *Paydesk) GetPaymentHistory(ctx context.Context, id string) ([]*models.PaymentHistory, error) {
	if _, err := p.repo.GetPaymentRequest(ctx, id); err != nil {
		return nil, err
	}
	return p.repo.GetHistory(ctx, id)
}

// VerifyAuditTrail replays the stored history and checks that it ends in the
// stored status.
func (p *Paydesk) VerifyAuditTrail(ctx context.Context, id string) (models.PaymentStatus, error) {
	pr, err := p.repo.GetPaymentRequest(ctx, id)
	if err != nil {
		return "", err
	}
	entries, err := p.repo.GetHistory(ctx, id)
	if err != nil {
		return "", err
	}

	actions := make([]models.HistoryAction, 0, len(entries))
	for _, entry := range entries {
		actions = append(actions, entry.Action)
	}
	status, err := lifecycle.Replay(actions)
	if err != nil {
		return status, err
	}
	if status != pr.Status {
		return status, fmt.Errorf("history ends in %s but payment request is %s", status, pr.Status)
	}
	return status, nil
}

func adminOnly(actor *models.Account, _ *models.PaymentRequest) error {
	return requireAdmin(actor)
}

func accountID(account *models.Account) *string {
	if account == nil {
		return nil
	}
	id := account.ID
	return &id
}

package paydesk

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/ei-sanu/someshprofile/internal/lifecycle"
	"github.com/ei-sanu/someshprofile/internal/models"
	"github.com/ei-sanu/someshprofile/pkg/validation"
)

// SyncAccount upserts the account for an identity provider user, by external
// id first and email second, and links unclaimed payment requests to it.
func (p *Paydesk) SyncAccount(ctx context.Context, identity models.Identity, profile models.AccountProfile) (*models.Account, error) {
	externalID := strings.TrimSpace(identity.ExternalID)
	if externalID == "" {
		return nil, &lifecycle.ValidationError{Field: "external_id", Message: "must not be empty"}
	}
	email := validation.NormalizeEmail(identity.Email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, &lifecycle.ValidationError{Field: "email", Message: err.Error()}
	}
	phone := validation.NormalizePhone(profile.PhoneNumber)
	if err := validation.ValidatePhone(phone); err != nil {
		return nil, &lifecycle.ValidationError{Field: "phone_number", Message: err.Error()}
	}
	profile.PhoneNumber = phone

	account, err := p.findAccount(ctx, externalID, email)
	switch {
	case isNotFound(err):
		account, err = p.createAccount(ctx, externalID, email, profile)
	case err == nil:
		err = p.updateAccount(ctx, account, externalID, email, profile)
	}
	if err != nil {
		return nil, err
	}

	linked, err := p.repo.LinkPaymentRequestsToAccount(ctx, account.Email, account.ID)
	if err != nil {
		return nil, err
	}
	if linked > 0 {
		p.logger.Info("Linked payment requests to account", "account_id", account.ID, "count", linked)
	}
	return account, nil
}

func (p *Paydesk) findAccount(ctx context.Context, externalID, email string) (*models.Account, error) {
	account, err := p.repo.GetAccountByExternalID(ctx, externalID)
	if !isNotFound(err) {
		return account, err
	}
	return p.repo.GetAccountByEmail(ctx, email)
}

func (p *Paydesk) createAccount(ctx context.Context, externalID, email string, profile models.AccountProfile) (*models.Account, error) {
	now := p.now()
	account := &models.Account{
		ID:          uuid.NewString(),
		ExternalID:  externalID,
		Email:       email,
		FirstName:   strings.TrimSpace(profile.FirstName),
		LastName:    strings.TrimSpace(profile.LastName),
		PhoneNumber: profile.PhoneNumber,
		IsAdmin:     p.config.IsAdminEmail(email),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := p.repo.CreateAccount(ctx, account)
	if errors.Is(err, models.ErrDuplicate) {
		// lost a race with a concurrent sync of the same user
		return p.findAccount(ctx, externalID, email)
	}
	if err != nil {
		return nil, err
	}
	p.logger.Info("Account created", "account_id", account.ID, "is_admin", account.IsAdmin)
	return account, nil
}

func (p *Paydesk) updateAccount(ctx context.Context, account *models.Account, externalID, email string, profile models.AccountProfile) error {
	account.ExternalID = externalID
	account.Email = email
	if v := strings.TrimSpace(profile.FirstName); v != "" {
		account.FirstName = v
	}
	if v := strings.TrimSpace(profile.LastName); v != "" {
		account.LastName = v
	}
	if profile.PhoneNumber != "" {
		account.PhoneNumber = profile.PhoneNumber
	}
	account.IsAdmin = account.IsAdmin || p.config.IsAdminEmail(email)
	account.UpdatedAt = p.now()
	return p.repo.SaveAccount(ctx, account)
}

// ResolveAccount finds the account for identity without creating it.
func (p *Paydesk) ResolveAccount(ctx context.Context, identity models.Identity) (*models.Account, error) {
	return p.repo.GetAccountByExternalID(ctx, identity.ExternalID)
}

// SetTelegramUsername stores the username the bot matches on /start. An empty
// username unlinks Telegram.
func (p *Paydesk) SetTelegramUsername(ctx context.Context, account *models.Account, username string) (*models.Account, error) {
	username = validation.NormalizeTelegramUsername(username)
	if username == "" {
		account.TelegramUsername = nil
		account.TelegramChatID = ""
	} else {
		if err := validation.ValidateTelegramUsername(username); err != nil {
			return nil, &lifecycle.ValidationError{Field: "telegram_username", Message: err.Error()}
		}
		if account.TelegramUsername == nil || *account.TelegramUsername != username {
			account.TelegramChatID = ""
		}
		account.TelegramUsername = &username
	}
	account.UpdatedAt = p.now()

	if err := p.repo.SaveAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (p *Paydesk) ListNotifications(ctx context.Context, account *models.Account, unreadOnly bool) ([]*models.Notification, error) {
	return p.repo.ListNotifications(ctx, account.ID, unreadOnly, notificationsLimit)
}

func (p *Paydesk) UnreadNotificationCount(ctx context.Context, account *models.Account) (int64, error) {
	return p.repo.CountUnreadNotifications(ctx, account.ID)
}

func (p *Paydesk) MarkNotificationRead(ctx context.Context, account *models.Account, id string) error {
	return p.repo.MarkNotificationRead(ctx, account.ID, id)
}

func (p *Paydesk) MarkAllNotificationsRead(ctx context.Context, account *models.Account) (int64, error) {
	return p.repo.MarkAllNotificationsRead(ctx, account.ID)
}

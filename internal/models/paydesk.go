package models

import (
	"context"
	"net/url"

	"github.com/ei-sanu/someshprofile/internal/payu"
)

type PaydeskI interface {
	// CreatePaymentRequest issues a new request in pending_client_review.
	CreatePaymentRequest(ctx context.Context, admin *Account, input CreatePaymentRequestInput) (*PaymentRequest, error)
	// GetPaymentRequest returns a request with its transactions. Clients may
	// only read their own requests.
	GetPaymentRequest(ctx context.Context, actor *Account, id string) (*PaymentRequest, error)
	ListPaymentRequests(ctx context.Context, filter PaymentRequestFilter) ([]*PaymentRequest, error)
	// ListClientPaymentRequests matches by account id, email or phone, newest first.
	ListClientPaymentRequests(ctx context.Context, client *Account) ([]*PaymentRequest, error)

	SubmitPaymentRequest(ctx context.Context, client *Account, id string) (*PaymentRequest, error)
	AcceptPaymentRequest(ctx context.Context, client *Account, id string) (*PaymentRequest, error)
	ApprovePaymentRequest(ctx context.Context, admin *Account, id string, edits PaymentRequestEdits) (*PaymentRequest, error)
	RejectPaymentRequest(ctx context.Context, admin *Account, id string, reason string) (*PaymentRequest, error)
	CancelPaymentRequest(ctx context.Context, admin *Account, id string, reason string) (*PaymentRequest, error)
	EditPaymentRequest(ctx context.Context, admin *Account, id string, edits PaymentRequestEdits) (*PaymentRequest, error)

	GetPaymentHistory(ctx context.Context, id string) ([]*PaymentHistory, error)
	// VerifyAuditTrail replays the history of a request and returns the
	// status it implies, or an error naming the first illegal step.
	VerifyAuditTrail(ctx context.Context, id string) (PaymentStatus, error)

	// InitiatePayment records a new gateway attempt and returns the signed checkout form.
	InitiatePayment(ctx context.Context, client *Account, id string) (*payu.CheckoutForm, error)
	// HandleGatewayResponse verifies and applies a gateway result redirect.
	HandleGatewayResponse(ctx context.Context, values url.Values) (*CallbackResult, error)

	ListNotifications(ctx context.Context, account *Account, unreadOnly bool) ([]*Notification, error)
	UnreadNotificationCount(ctx context.Context, account *Account) (int64, error)
	MarkNotificationRead(ctx context.Context, account *Account, id string) error
	MarkAllNotificationsRead(ctx context.Context, account *Account) (int64, error)

	// SyncAccount upserts the caller's account from the identity provider.
	SyncAccount(ctx context.Context, identity Identity, profile AccountProfile) (*Account, error)
	// ResolveAccount finds the account for an identity without modifying it.
	ResolveAccount(ctx context.Context, identity Identity) (*Account, error)
	SetTelegramUsername(ctx context.Context, account *Account, username string) (*Account, error)

	DashboardStats(ctx context.Context) (*DashboardStats, error)
	MonthlyEarnings(ctx context.Context, months int) ([]MonthlyEarning, error)
}

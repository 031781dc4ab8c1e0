package models

import (
	"context"
	"time"
)

type Repository interface {
	// WithTx runs fn inside one database transaction. fn must use the
	// repository it receives, not the outer one.
	WithTx(ctx context.Context, fn func(repo Repository) error) error

	CreatePaymentRequest(ctx context.Context, pr *PaymentRequest) error
	GetPaymentRequest(ctx context.Context, id string) (*PaymentRequest, error)
	// UpdatePaymentRequest writes pr only if the stored row still has
	// expectedStatus and expectedVersion, otherwise ErrConcurrentModification.
	UpdatePaymentRequest(ctx context.Context, pr *PaymentRequest, expectedStatus PaymentStatus, expectedVersion int64) error
	ListPaymentRequests(ctx context.Context, filter PaymentRequestFilter) ([]*PaymentRequest, error)
	ListClientPaymentRequests(ctx context.Context, userID, email, phone string) ([]*PaymentRequest, error)
	LinkPaymentRequestsToAccount(ctx context.Context, email, userID string) (int64, error)
	CountPaymentRequests(ctx context.Context) (*PaymentRequestCounts, error)

	AddHistory(ctx context.Context, entries ...*PaymentHistory) error
	GetHistory(ctx context.Context, paymentRequestID string) ([]*PaymentHistory, error)

	CreateTransaction(ctx context.Context, tx *Transaction) error
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	GetTransactionByReference(ctx context.Context, transactionID string) (*Transaction, error)
	GetSuccessfulTransaction(ctx context.Context, paymentRequestID string) (*Transaction, error)
	ListTransactions(ctx context.Context, paymentRequestID string) ([]*Transaction, error)
	ListSuccessfulTransactionsSince(ctx context.Context, since time.Time) ([]*Transaction, error)
	CountTransactionsByStatus(ctx context.Context) (map[TransactionStatus]int64, error)

	CreateNotifications(ctx context.Context, notifications []*Notification) error
	ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*Notification, error)
	CountUnreadNotifications(ctx context.Context, userID string) (int64, error)
	MarkNotificationRead(ctx context.Context, userID, id string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error)

	CreateAccount(ctx context.Context, account *Account) error
	SaveAccount(ctx context.Context, account *Account) error
	GetAccount(ctx context.Context, id string) (*Account, error)
	GetAccountByExternalID(ctx context.Context, externalID string) (*Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	GetAccountByTelegramUsername(ctx context.Context, username string) (*Account, error)
	ListAdminAccounts(ctx context.Context) ([]*Account, error)
	SetTelegramChatID(ctx context.Context, accountID, chatID string) error
}

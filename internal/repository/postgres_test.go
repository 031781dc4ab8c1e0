package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ei-sanu/someshprofile/internal/models"
	"github.com/ei-sanu/someshprofile/pkg/logger"
)

func newTestDB(t *testing.T) *PostgresDB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), GormConfig())
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	// every connection to :memory: is its own database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := New(conn, logger.NewNop())
	require.NoError(t, err)
	return db
}

func newPaymentRequest(email string) *models.PaymentRequest {
	now := time.Now().UTC()
	return &models.PaymentRequest{
		ID:             uuid.NewString(),
		PaymentNumber:  "PAY-" + uuid.NewString()[:8],
		ClientEmail:    email,
		Amount:         decimal.RequireFromString("1500.50"),
		Currency:       "INR",
		Description:    "Website redesign",
		Status:         models.StatusPendingClientReview,
		PaymentEnabled: false,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func newTransaction(prID, ref string, status models.TransactionStatus) *models.Transaction {
	return &models.Transaction{
		ID:               uuid.NewString(),
		PaymentRequestID: prID,
		TransactionID:    ref,
		Amount:           decimal.NewFromInt(100),
		Currency:         "INR",
		Status:           status,
		PaymentGateway:   models.GatewayPayU,
	}
}

func TestPaymentRequest_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	pr := newPaymentRequest("client@example.com")
	require.NoError(t, db.CreatePaymentRequest(ctx, pr))
	require.NoError(t, db.CreateTransaction(ctx, newTransaction(pr.ID, "TXN1", models.TransactionInitiated)))

	got, err := db.GetPaymentRequest(ctx, pr.ID)
	require.NoError(t, err)
	assert.Equal(t, pr.PaymentNumber, got.PaymentNumber)
	assert.True(t, pr.Amount.Equal(got.Amount))
	assert.Equal(t, int64(1), got.Version)
	require.Len(t, got.Transactions, 1)
	assert.Equal(t, "TXN1", got.Transactions[0].TransactionID)

	_, err = db.GetPaymentRequest(ctx, uuid.NewString())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdatePaymentRequest_CompareAndSet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	pr := newPaymentRequest("client@example.com")
	require.NoError(t, db.CreatePaymentRequest(ctx, pr))

	first := *pr
	first.Status = models.StatusClientSubmitted
	require.NoError(t, db.UpdatePaymentRequest(ctx, &first, models.StatusPendingClientReview, 1))
	assert.Equal(t, int64(2), first.Version)

	// a second writer working from the same read loses
	second := *pr
	second.Status = models.StatusCancelled
	err := db.UpdatePaymentRequest(ctx, &second, models.StatusPendingClientReview, 1)
	assert.ErrorIs(t, err, models.ErrConcurrentModification)

	got, err := db.GetPaymentRequest(ctx, pr.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClientSubmitted, got.Status)
	assert.Equal(t, int64(2), got.Version)
}

func TestUpdatePaymentRequest_SQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	conn, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	db := &PostgresDB{Conn: conn, logger: logger.NewNop()}

	update := `UPDATE "payment_requests" SET .+ WHERE \(?id = \$\d+ AND status = \$\d+ AND version = \$\d+`
	mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 1))

	pr := newPaymentRequest("client@example.com")
	pr.Status = models.StatusClientSubmitted

	err = db.UpdatePaymentRequest(context.Background(), pr, models.StatusPendingClientReview, 1)
	assert.ErrorIs(t, err, models.ErrConcurrentModification)
	assert.Equal(t, int64(1), pr.Version)

	require.NoError(t, db.UpdatePaymentRequest(context.Background(), pr, models.StatusPendingClientReview, 1))
	assert.Equal(t, int64(2), pr.Version)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollsBack(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	pr := newPaymentRequest("client@example.com")
	boom := errors.New("boom")
	err := db.WithTx(ctx, func(repo models.Repository) error {
		if err := repo.CreatePaymentRequest(ctx, pr); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = db.GetPaymentRequest(ctx, pr.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListClientPaymentRequests(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	byEmail := newPaymentRequest("client@example.com")
	byPhone := newPaymentRequest("other@example.com")
	byPhone.ClientPhone = "919876543210"
	byUser := newPaymentRequest("old@example.com")
	userID := uuid.NewString()
	byUser.UserID = &userID
	unrelated := newPaymentRequest("someone@example.com")

	for _, pr := range []*models.PaymentRequest{byEmail, byPhone, byUser, unrelated} {
		require.NoError(t, db.CreatePaymentRequest(ctx, pr))
	}

	prs, err := db.ListClientPaymentRequests(ctx, userID, "client@example.com", "919876543210")
	require.NoError(t, err)
	ids := make([]string, 0, len(prs))
	for _, pr := range prs {
		ids = append(ids, pr.ID)
	}
	assert.ElementsMatch(t, []string{byEmail.ID, byPhone.ID, byUser.ID}, ids)

	prs, err = db.ListClientPaymentRequests(ctx, "", "client@example.com", "")
	require.NoError(t, err)
	require.Len(t, prs, 1)
	assert.Equal(t, byEmail.ID, prs[0].ID)
}

func TestLinkPaymentRequestsToAccount(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	pr := newPaymentRequest("client@example.com")
	require.NoError(t, db.CreatePaymentRequest(ctx, pr))

	n, err := db.LinkPaymentRequestsToAccount(ctx, "client@example.com", "acc-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = db.LinkPaymentRequestsToAccount(ctx, "client@example.com", "acc-2")
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := db.GetPaymentRequest(ctx, pr.ID)
	require.NoError(t, err)
	require.NotNil(t, got.UserID)
	assert.Equal(t, "acc-1", *got.UserID)
	assert.Equal(t, int64(2), got.Version)
}

func TestListPaymentRequests_Filter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	pending := newPaymentRequest("a@example.com")
	done := newPaymentRequest("b@example.com")
	done.Status = models.StatusCompleted
	done.AdminApproved = true
	require.NoError(t, db.CreatePaymentRequest(ctx, pending))
	require.NoError(t, db.CreatePaymentRequest(ctx, done))

	prs, err := db.ListPaymentRequests(ctx, models.PaymentRequestFilter{Status: models.StatusCompleted})
	require.NoError(t, err)
	require.Len(t, prs, 1)
	assert.Equal(t, done.ID, prs[0].ID)

	prs, err = db.ListPaymentRequests(ctx, models.PaymentRequestFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, prs, 1)

	counts, err := db.CountPaymentRequests(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Total)
	assert.Equal(t, int64(1), counts.ByStatus[models.StatusCompleted])
	assert.Equal(t, int64(1), counts.ByStatus[models.StatusPendingClientReview])
	assert.Equal(t, int64(1), counts.Approved)
}

func TestTransactions(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	pr := newPaymentRequest("client@example.com")
	require.NoError(t, db.CreatePaymentRequest(ctx, pr))

	failed := newTransaction(pr.ID, "TXN1", models.TransactionFailed)
	ok := newTransaction(pr.ID, "TXN2", models.TransactionInitiated)
	require.NoError(t, db.CreateTransaction(ctx, failed))
	require.NoError(t, db.CreateTransaction(ctx, ok))

	assert.ErrorIs(t, db.CreateTransaction(ctx, newTransaction(pr.ID, "TXN2", models.TransactionInitiated)), models.ErrDuplicate)

	_, err := db.GetSuccessfulTransaction(ctx, pr.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	ok.Status = models.TransactionSuccess
	ok.GatewayTransactionID = "403993715521"
	require.NoError(t, db.UpdateTransaction(ctx, ok))

	got, err := db.GetTransactionByReference(ctx, "TXN2")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionSuccess, got.Status)
	assert.Equal(t, "403993715521", got.GatewayTransactionID)

	success, err := db.GetSuccessfulTransaction(ctx, pr.ID)
	require.NoError(t, err)
	assert.Equal(t, ok.ID, success.ID)

	txs, err := db.ListTransactions(ctx, pr.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 2)

	since, err := db.ListSuccessfulTransactionsSince(ctx, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, since, 1)
	assert.Equal(t, "TXN2", since[0].TransactionID)

	counts, err := db.CountTransactionsByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[models.TransactionSuccess])
	assert.Equal(t, int64(1), counts[models.TransactionFailed])
}

func TestTransactions_OneSuccessPerRequest(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	pr := newPaymentRequest("client@example.com")
	require.NoError(t, db.CreatePaymentRequest(ctx, pr))

	require.NoError(t, db.CreateTransaction(ctx, newTransaction(pr.ID, "TXN1", models.TransactionSuccess)))
	err := db.CreateTransaction(ctx, newTransaction(pr.ID, "TXN2", models.TransactionSuccess))
	assert.Error(t, err)

	require.NoError(t, db.CreateTransaction(ctx, newTransaction(pr.ID, "TXN3", models.TransactionFailed)))
}

func TestHistory_Ordered(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	pr := newPaymentRequest("client@example.com")
	require.NoError(t, db.CreatePaymentRequest(ctx, pr))

	at := time.Now().UTC()
	require.NoError(t, db.AddHistory(ctx,
		&models.PaymentHistory{PaymentRequestID: pr.ID, Action: models.ActionCreated, CreatedAt: at},
		&models.PaymentHistory{PaymentRequestID: pr.ID, Action: models.ActionClientAccepted, CreatedAt: at},
	))
	require.NoError(t, db.AddHistory(ctx,
		&models.PaymentHistory{PaymentRequestID: pr.ID, Action: models.ActionPaymentInitiated, CreatedAt: at.Add(time.Second)},
	))
	require.NoError(t, db.AddHistory(ctx))

	entries, err := db.GetHistory(ctx, pr.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, models.ActionCreated, entries[0].Action)
	assert.Equal(t, models.ActionClientAccepted, entries[1].Action)
	assert.Equal(t, models.ActionPaymentInitiated, entries[2].Action)
	assert.Less(t, entries[0].ID, entries[1].ID)
}

func TestNotifications(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	now := time.Now().UTC()
	notifications := []*models.Notification{
		{ID: uuid.NewString(), UserID: "u1", Title: "one", Message: "m", Type: models.NotificationInfo, CreatedAt: now},
		{ID: uuid.NewString(), UserID: "u1", Title: "two", Message: "m", Type: models.NotificationSuccess, CreatedAt: now.Add(time.Second)},
		{ID: uuid.NewString(), UserID: "u2", Title: "other", Message: "m", Type: models.NotificationInfo, CreatedAt: now},
	}
	require.NoError(t, db.CreateNotifications(ctx, notifications))
	require.NoError(t, db.CreateNotifications(ctx, nil))

	list, err := db.ListNotifications(ctx, "u1", false, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "two", list[0].Title)

	unread, err := db.CountUnreadNotifications(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	require.NoError(t, db.MarkNotificationRead(ctx, "u1", notifications[0].ID))
	require.NoError(t, db.MarkNotificationRead(ctx, "u1", notifications[0].ID))
	assert.ErrorIs(t, db.MarkNotificationRead(ctx, "u1", notifications[2].ID), models.ErrNotFound)

	list, err = db.ListNotifications(ctx, "u1", true, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "two", list[0].Title)

	n, err := db.MarkAllNotificationsRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = db.MarkAllNotificationsRead(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, n)

	unread, err = db.CountUnreadNotifications(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestAccounts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	username := "priya"
	admin := &models.Account{ID: uuid.NewString(), ExternalID: "ext-admin", Email: "admin@example.com", IsAdmin: true}
	client := &models.Account{ID: uuid.NewString(), ExternalID: "ext-client", Email: "client@example.com", TelegramUsername: &username}
	require.NoError(t, db.CreateAccount(ctx, admin))
	require.NoError(t, db.CreateAccount(ctx, client))

	dup := &models.Account{ID: uuid.NewString(), ExternalID: "ext-other", Email: "client@example.com"}
	assert.ErrorIs(t, db.CreateAccount(ctx, dup), models.ErrDuplicate)

	got, err := db.GetAccountByExternalID(ctx, "ext-client")
	require.NoError(t, err)
	assert.Equal(t, client.ID, got.ID)

	got, err = db.GetAccountByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, got.IsAdmin)

	_, err = db.GetAccountByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)

	got, err = db.GetAccountByTelegramUsername(ctx, "priya")
	require.NoError(t, err)
	require.NoError(t, db.SetTelegramChatID(ctx, got.ID, "12345"))
	assert.ErrorIs(t, db.SetTelegramChatID(ctx, uuid.NewString(), "1"), models.ErrNotFound)

	got, err = db.GetAccount(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "12345", got.TelegramChatID)

	got.FirstName = "Priya"
	require.NoError(t, db.SaveAccount(ctx, got))

	admins, err := db.ListAdminAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, admin.ID, admins[0].ID)
}

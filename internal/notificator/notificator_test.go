package notificator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ei-sanu/someshprofile/internal/models"
	"github.com/ei-sanu/someshprofile/internal/repository"
	"github.com/ei-sanu/someshprofile/pkg/logger"
)

type recordingChannel struct {
	mu        sync.Mutex
	name      string
	err       error
	panics    bool
	delivered []string
}

func (c *recordingChannel) Name() string { return c.name }

func (c *recordingChannel) Deliver(_ context.Context, recipient *models.Account, n *models.Notification) error {
	if c.panics {
		panic("channel exploded")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delivered = append(c.delivered, recipient.Email+":"+n.Title)
	return c.err
}

func newTestRepo(t *testing.T) *repository.PostgresDB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), repository.GormConfig())
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	repo, err := repository.New(conn, logger.NewNop())
	require.NoError(t, err)
	return repo
}

type fixture struct {
	repo   *repository.PostgresDB
	client *models.Account
	admins []*models.Account
	pr     *models.PaymentRequest
}

func newFixture(t *testing.T) *fixture {
	ctx := context.Background()
	f := &fixture{repo: newTestRepo(t)}

	f.client = &models.Account{ID: uuid.NewString(), ExternalID: "ext-client", Email: "client@example.com"}
	require.NoError(t, f.repo.CreateAccount(ctx, f.client))
	for i, email := range []string{"a1@example.com", "a2@example.com"} {
		admin := &models.Account{ID: uuid.NewString(), ExternalID: "ext-admin-" + string(rune('a'+i)), Email: email, IsAdmin: true}
		require.NoError(t, f.repo.CreateAccount(ctx, admin))
		f.admins = append(f.admins, admin)
	}

	f.pr = &models.PaymentRequest{
		ID:            uuid.NewString(),
		PaymentNumber: "PAY-202610-ABC123",
		ClientEmail:   "client@example.com",
		Amount:        decimal.RequireFromString("2500"),
		Currency:      "INR",
		Description:   "Logo design",
		Status:        models.StatusPendingClientReview,
		Version:       1,
	}
	return f
}

func TestDispatch_ClientEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	channel := &recordingChannel{name: "fake"}
	n := NewNotificator(logger.NewNop(), f.repo, channel)

	n.Dispatch(ctx, f.pr, []models.Event{models.RequestCreated{}})

	list, err := f.repo.ListNotifications(ctx, f.client.ID, false, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "New Payment Request", list[0].Title)
	assert.Equal(t, "You have a new payment request for INR 2500.00", list[0].Message)
	assert.Equal(t, models.NotificationPaymentPending, list[0].Type)
	require.NotNil(t, list[0].PaymentRequestID)
	assert.Equal(t, f.pr.ID, *list[0].PaymentRequestID)
	assert.Equal(t, []string{"client@example.com:New Payment Request"}, channel.delivered)
}

func TestDispatch_AdminEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	n := NewNotificator(logger.NewNop(), f.repo)

	n.Dispatch(ctx, f.pr, []models.Event{
		models.RequestSubmitted{},
		models.PaymentCompleted{TransactionID: "TXN1", HashVerified: true},
	})

	for _, admin := range f.admins {
		list, err := n.db.ListNotifications(ctx, admin.ID, false, 10)
		require.NoError(t, err)
		titles := []string{}
		for _, item := range list {
			titles = append(titles, item.Title)
		}
		assert.ElementsMatch(t, []string{"Payment Request Submitted", "Payment Completed"}, titles)
	}

	clientCount, err := f.repo.CountUnreadNotifications(ctx, f.client.ID)
	require.NoError(t, err)
	assert.Zero(t, clientCount)
}

func TestDispatch_SilentEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	n := NewNotificator(logger.NewNop(), f.repo)

	n.Dispatch(ctx, f.pr, []models.Event{
		models.RequestAccepted{Shortcut: true},
		models.PaymentInitiated{TransactionID: "TXN1"},
		models.PaymentFailed{TransactionID: "TXN1", Reason: "declined"},
		models.RequestEdited{EditedFields: []string{"amount"}},
	})

	for _, account := range append([]*models.Account{f.client}, f.admins...) {
		count, err := f.repo.CountUnreadNotifications(ctx, account.ID)
		require.NoError(t, err)
		assert.Zero(t, count)
	}
}

func TestDispatch_UnknownClientIsSkipped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	channel := &recordingChannel{name: "fake"}
	n := NewNotificator(logger.NewNop(), f.repo, channel)

	f.pr.ClientEmail = "stranger@example.com"
	n.Dispatch(ctx, f.pr, []models.Event{models.RequestRejected{Reason: "Out of scope"}})

	assert.Empty(t, channel.delivered)
}

func TestDispatch_ChannelFailuresAreSwallowed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	failing := &recordingChannel{name: "failing", err: errors.New("smtp down")}
	panicking := &recordingChannel{name: "panicking", panics: true}
	healthy := &recordingChannel{name: "healthy"}
	n := NewNotificator(logger.NewNop(), f.repo, failing, panicking, healthy)

	assert.NotPanics(t, func() {
		n.Dispatch(ctx, f.pr, []models.Event{models.RequestCancelled{Reason: "Duplicate request"}})
	})

	list, err := f.repo.ListNotifications(ctx, f.client.ID, false, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Your payment request PAY-202610-ABC123 has been cancelled. Duplicate request", list[0].Message)
	assert.Len(t, failing.delivered, 1)
	assert.Len(t, healthy.delivered, 1)
}

func TestDispatch_LinkedAccountWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	n := NewNotificator(logger.NewNop(), f.repo)
	n.now = func() time.Time { return time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC) }

	other := &models.Account{ID: uuid.NewString(), ExternalID: "ext-other", Email: "billing@example.com"}
	require.NoError(t, f.repo.CreateAccount(ctx, other))
	f.pr.UserID = &other.ID

	n.Dispatch(ctx, f.pr, []models.Event{models.RequestApproved{}})

	count, err := f.repo.CountUnreadNotifications(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	count, err = f.repo.CountUnreadNotifications(ctx, f.client.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMessageFor_RejectDefault(t *testing.T) {
	msg, ok := messageFor(&models.PaymentRequest{}, models.RequestRejected{})
	require.True(t, ok)
	assert.Equal(t, "Your payment request has been rejected.", msg.body)
	assert.Equal(t, audienceClient, msg.audience)
}

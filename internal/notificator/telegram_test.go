package notificator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-telegram/bot"
	tgModels "github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ei-sanu/someshprofile/internal/models"
	"github.com/ei-sanu/someshprofile/pkg/logger"
)

type fakeTelegramAPI struct {
	mu      sync.Mutex
	methods []string
	texts   []string
}

func (f *fakeTelegramAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	f.methods = append(f.methods, method)
	w.Header().Set("Content-Type", "application/json")

	switch method {
	case "getMe":
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"paydesk","username":"paydesk_bot"}}`))
	case "sendMessage":
		_ = r.ParseMultipartForm(1 << 20)
		f.texts = append(f.texts, r.FormValue("text"))
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`))
	default:
		_, _ = w.Write([]byte(`{"ok":true,"result":[]}`))
	}
}

func newTestTelegram(t *testing.T, repo models.Repository) (*TelegramNotificator, *fakeTelegramAPI) {
	t.Helper()
	api := &fakeTelegramAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	tn := &TelegramNotificator{logger: logger.NewNop(), db: repo}
	b, err := bot.New("123456:test-token", bot.WithServerURL(srv.URL), bot.WithDefaultHandler(tn.handler))
	require.NoError(t, err)
	tn.bot = b
	return tn, api
}

func TestTelegramNotificator_StartLinksChat(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	username := "priya"
	account := &models.Account{ID: uuid.NewString(), ExternalID: "ext-1", Email: "client@example.com", TelegramUsername: &username}
	require.NoError(t, repo.CreateAccount(ctx, account))

	tn, api := newTestTelegram(t, repo)
	tn.handler(ctx, tn.bot, &tgModels.Update{Message: &tgModels.Message{
		Text: "/start",
		From: &tgModels.User{Username: "Priya"},
		Chat: tgModels.Chat{ID: 42},
	}})

	got, err := repo.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "42", got.TelegramChatID)
	require.Len(t, api.texts, 1)
	assert.Contains(t, api.texts[0], "client@example.com")
}

func TestTelegramNotificator_IgnoresOtherUpdates(t *testing.T) {
	repo := newTestRepo(t)
	tn, api := newTestTelegram(t, repo)

	tn.handler(context.Background(), tn.bot, &tgModels.Update{})
	tn.handler(context.Background(), tn.bot, &tgModels.Update{Message: &tgModels.Message{Text: "hello", From: &tgModels.User{Username: "x"}}})

	assert.Empty(t, api.texts)
}

func TestTelegramNotificator_Deliver(t *testing.T) {
	repo := newTestRepo(t)
	tn, api := newTestTelegram(t, repo)
	n := &models.Notification{Title: "Payment Completed", Message: "PAY-1 paid"}

	require.NoError(t, tn.Deliver(context.Background(), &models.Account{}, n))
	assert.Empty(t, api.texts)

	require.NoError(t, tn.Deliver(context.Background(), &models.Account{TelegramChatID: "42"}, n))
	require.Len(t, api.texts, 1)
	assert.Equal(t, "Payment Completed\n\nPAY-1 paid", api.texts[0])
}

package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"forex_bot/internal/models"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTelegramAPI struct {
	mu   sync.Mutex
	sent []url.Values
	fail bool
}

func (f *fakeTelegramAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"bot","username":"bot"}}`))
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		_ = r.ParseForm()
		f.mu.Lock()
		f.sent = append(f.sent, r.PostForm)
		f.mu.Unlock()
		if f.fail {
			_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"chat not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"group"}}}`))
	default:
		http.NotFound(w, r)
	}
}

func newTestTelegram(t *testing.T, api *fakeTelegramAPI, lister PendingLister) *Telegram {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	b, err := tgbot.NewBotAPIWithClient("token", srv.URL+"/bot%s/%s", srv.Client())
	require.NoError(t, err)
	return newTelegram(b, "42", lister)
}

func TestTelegramSend(t *testing.T) {
	api := &fakeTelegramAPI{}
	tg := newTestTelegram(t, api, nil)

	tg.Send(context.Background(), "", "hello")
	tg.Send(context.Background(), "@fxchannel", "world")

	require.Len(t, api.sent, 2)
	assert.Equal(t, "42", api.sent[0].Get("chat_id"))
	assert.Equal(t, "hello", api.sent[0].Get("text"))
	assert.Equal(t, "@fxchannel", api.sent[1].Get("chat_id"))
}

func TestTelegramSendFailureIsSwallowed(t *testing.T) {
	api := &fakeTelegramAPI{fail: true}
	tg := newTestTelegram(t, api, nil)

	assert.NotPanics(t, func() {
		tg.Send(context.Background(), "42", "lost")
	})
	assert.Len(t, api.sent, 1)
}

type listerFunc func(ctx context.Context, limit int) ([]models.Signal, error)

func (f listerFunc) ListPending(ctx context.Context, limit int) ([]models.Signal, error) {
	return f(ctx, limit)
}

func TestTelegramPendingCommand(t *testing.T) {
	api := &fakeTelegramAPI{}
	tg := newTestTelegram(t, api, listerFunc(func(ctx context.Context, limit int) ([]models.Signal, error) {
		return []models.Signal{testSignal}, nil
	}))

	tg.handlePending(context.Background(), 99)

	require.Len(t, api.sent, 1)
	assert.Equal(t, "99", api.sent[0].Get("chat_id"))
	assert.Contains(t, api.sent[0].Get("text"), "EURUSD BUY @ 1.1 TP 1.101 SL 1.0985 (15m)")
}

func TestNilTelegramIsSafe(t *testing.T) {
	var tg *Telegram
	assert.NotPanics(t, func() {
		tg.Send(context.Background(), "1", "x")
		tg.Stop()
	})
}

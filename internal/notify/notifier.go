package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"forex_bot/internal/models"
	"forex_bot/pkg/logger"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Notifier delivers a text message to a channel. Delivery is best effort:
// failures are logged by the implementation and never reach the caller.
type Notifier interface {
	Send(ctx context.Context, channel, msg string)
}

// PendingLister backs the /pending bot command.
type PendingLister interface {
	ListPending(ctx context.Context, limit int) ([]models.Signal, error)
}

// Telegram posts to a chat; channel is a numeric chat id or an @channel name.
// An empty channel falls back to the default chat.
type Telegram struct {
	bot         *tgbot.BotAPI
	defaultChat string
	pending     PendingLister
	log         *zap.Logger
}

func NewTelegram(token, defaultChat string, pending PendingLister) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return newTelegram(b, defaultChat, pending), nil
}

func newTelegram(b *tgbot.BotAPI, defaultChat string, pending PendingLister) *Telegram {
	return &Telegram{
		bot:         b,
		defaultChat: defaultChat,
		pending:     pending,
		log:         logger.Named("telegram"),
	}
}

func (t *Telegram) Send(_ context.Context, channel, msg string) {
	if t == nil || t.bot == nil {
		return
	}
	if channel == "" {
		channel = t.defaultChat
	}
	if channel == "" {
		t.log.Warn("no chat configured, message dropped")
		return
	}

	var cfg tgbot.MessageConfig
	if id, err := strconv.ParseInt(channel, 10, 64); err == nil {
		cfg = tgbot.NewMessage(id, msg)
	} else {
		cfg = tgbot.NewMessageToChannel(channel, msg)
	}

	if _, err := t.bot.Send(cfg); err != nil {
		t.log.Error("send failed", zap.String("chat", channel), zap.Error(err))
	}
}

// /pending lists open signals in the chat the command came from.
func (t *Telegram) handlePending(ctx context.Context, chatID int64) {
	chat := strconv.FormatInt(chatID, 10)
	if t.pending == nil {
		t.Send(ctx, chat, "signal store is not available")
		return
	}
	signals, err := t.pending.ListPending(ctx, 20)
	if err != nil {
		t.Send(ctx, chat, fmt.Sprintf("❗️ cannot list signals: %v", err))
		return
	}
	if len(signals) == 0 {
		t.Send(ctx, chat, "📭 no pending signals")
		return
	}

	var b strings.Builder
	b.WriteString("📊 Pending signals:\n")
	for _, s := range signals {
		fmt.Fprintf(&b, "- %s %s @ %s TP %s SL %s (%s)\n",
			s.Pair, s.Direction, price(s.Entry), price(s.TP), price(s.SL), s.Timeframe)
	}
	t.Send(ctx, chat, b.String())
}

// Start long-polls for commands until ctx is done.
func (t *Telegram) Start(ctx context.Context) error {
	if t == nil || t.bot == nil {
		return nil
	}

	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message"}

	updates := t.bot.GetUpdatesChan(u)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd, ok := <-updates:
				if !ok {
					return
				}
				if upd.Message == nil || upd.Message.Chat == nil || !upd.Message.IsCommand() {
					continue
				}
				switch upd.Message.Command() {
				case "pending":
					go t.handlePending(ctx, upd.Message.Chat.ID)
				}
			}
		}
	}()
	return nil
}

func (t *Telegram) Stop() {
	if t != nil && t.bot != nil {
		t.bot.StopReceivingUpdates()
	}
}

// Stdout writes messages to the log, used when no bot token is configured.
type Stdout struct {
	log *zap.Logger
}

func NewStdout() *Stdout { return &Stdout{log: logger.Named("notify")} }

func (s *Stdout) Send(_ context.Context, channel, msg string) {
	s.log.Info("notification", zap.String("channel", channel), zap.String("text", msg))
}

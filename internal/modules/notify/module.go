package notify

import (
	"context"

	"forex_bot/internal/modules/config"
	signals "forex_bot/internal/modules/signals/service"
	"forex_bot/internal/notify"
	"forex_bot/pkg/logger"

	"go.uber.org/fx"
)

// Module provides the Telegram notifier when a bot token is configured,
// otherwise messages go to the log.
func Module() fx.Option {
	return fx.Module("notify",
		fx.Provide(
			func(cfg *config.Config) notify.Brand {
				return notify.Brand{
					Name:     cfg.Notify.Brand,
					Owner:    cfg.Notify.Owner,
					Admin:    cfg.Notify.Admin,
					Location: cfg.Location(),
				}
			},
			newNotifier,
		),
	)
}

func newNotifier(lc fx.Lifecycle, cfg *config.Config, signalsLC *signals.Lifecycle) (notify.Notifier, error) {
	if cfg.Telegram.Token == "" {
		logger.Warn("telegram token is not set, notifications go to the log")
		return notify.NewStdout(), nil
	}

	tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, signalsLC)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return tg.Start(ctx)
		},
		OnStop: func(context.Context) error {
			cancel()
			tg.Stop()
			return nil
		},
	})
	return tg, nil
}

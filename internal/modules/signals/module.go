package signals

import (
	"context"

	"forex_bot/internal/indicator"
	"forex_bot/internal/modules/config"
	marketdata "forex_bot/internal/modules/marketdata/service"
	"forex_bot/internal/modules/signals/service"
	"forex_bot/internal/modules/signals/service/pg"
	strategy "forex_bot/internal/modules/strategy/service"
	"forex_bot/internal/notify"
	"forex_bot/pkg/db"
	"forex_bot/pkg/logger"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("signals",
		fx.Provide(
			newStore,
			service.NewLifecycle,
			func(src *marketdata.Source) service.CandleSource { return src },
			func(cfg *config.Config, lc *service.Lifecycle, src service.CandleSource, n notify.Notifier, brand notify.Brand) *service.Evaluator {
				return service.NewEvaluator(service.EvaluatorConfig{
					PendingLimit:   cfg.Runner.PendingLimit,
					ProbeLimit:     cfg.Runner.ProbeLimit,
					ProbeInterval:  cfg.Runner.ProbeInterval,
					Channel:        cfg.Telegram.ChatID,
					NotifyStopLoss: cfg.Notify.OnStopLoss,
					Brand:          brand,
				}, lc, src, n, logger.Named("evaluator"))
			},
			func(
				cfg *config.Config,
				src service.CandleSource,
				engine indicator.Engine,
				decider strategy.Decider,
				lc *service.Lifecycle,
				n notify.Notifier,
				brand notify.Brand,
			) *service.Generator {
				return service.NewGenerator(service.GeneratorConfig{
					Pairs:        cfg.Pairs,
					Timeframe:    cfg.TimeframeValue(),
					HistoryLimit: cfg.Runner.HistoryLimit,
					SkipWeekends: cfg.Runner.SkipWeekends,
					Channel:      cfg.Telegram.ChatID,
					Brand:        brand,
				}, src, engine, decider, lc, n, logger.Named("generator"))
			},
		),
	)
}

// newStore picks the store for the configured driver. The postgres schema is
// created on start.
func newStore(lc fx.Lifecycle, cfg *config.Config, tm *db.PgTxManager) service.Store {
	if cfg.Storage.Driver != config.StoragePostgres || tm == nil {
		logger.Info("using in-memory signal store")
		return service.NewMemoryStore()
	}

	store := pg.NewSignals(tm)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return store.EnsureSchema(ctx)
		},
	})
	return store
}

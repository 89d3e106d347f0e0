package runner

import (
	"context"

	"forex_bot/internal/modules/config"
	health "forex_bot/internal/modules/httpapi/service"
	"forex_bot/internal/modules/signals/service"
	"forex_bot/pkg/logger"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			func(cfg *config.Config, state *health.State, gen *service.Generator, eval *service.Evaluator) *Runner {
				return New(cfg.Runner.RunOnStart, state, logger.Named("runner"),
					Loop{Name: service.CycleGenerate, Interval: cfg.Runner.SignalInterval, Job: gen},
					Loop{Name: service.CycleCheck, Interval: cfg.Runner.CheckInterval, Job: eval},
				)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, r *Runner) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					r.Start(context.Background())
					return nil
				},
				OnStop: func(_ context.Context) error {
					r.Stop()
					return nil
				},
			})
		}),
	)
}

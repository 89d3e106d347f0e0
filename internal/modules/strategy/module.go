package strategy

import (
	"forex_bot/internal/indicator"
	"forex_bot/internal/modules/config"
	"forex_bot/internal/modules/strategy/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("strategy",
		fx.Provide(
			func(cfg *config.Config) indicator.Engine {
				return indicator.NewEngine(cfg.Strategy.EMAFast, cfg.Strategy.EMASlow, cfg.Strategy.RSIPeriod)
			},
			func(cfg *config.Config) service.Decider {
				return service.NewEMARSI(cfg.Strategy.Rules)
			},
		),
	)
}

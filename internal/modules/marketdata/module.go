package marketdata

import (
	"forex_bot/internal/modules/config"
	"forex_bot/internal/modules/marketdata/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("marketdata",
		fx.Provide(
			func(cfg *config.Config) service.Provider {
				return service.NewClient(service.ClientConfig{
					BaseURL: cfg.Provider.BaseURL,
					APIKey:  cfg.Provider.APIKey,
					Timeout: cfg.Provider.Timeout,
				})
			},
			service.NewSource,
		),
	)
}

package config

import "go.uber.org/fx"

// Module loads the configuration once and shares *Config with every module.
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			NewConfig,
		),
	)
}

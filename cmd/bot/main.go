package main

import (
	"context"
	"log"

	"forex_bot/internal/modules/config"
	"forex_bot/internal/modules/httpapi"
	"forex_bot/internal/modules/marketdata"
	notifymodule "forex_bot/internal/modules/notify"
	"forex_bot/internal/modules/postgres"
	"forex_bot/internal/modules/signals"
	"forex_bot/internal/modules/strategy"
	"forex_bot/internal/runner"
	"forex_bot/pkg/logger"
	"forex_bot/pkg/tracing"

	"go.uber.org/fx"
)

const serviceName = "forex_bot"

func main() {
	logger.SetServiceName(serviceName)
	tracing.SetServiceName(serviceName)
	if err := logger.Init("info", true); err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	app := fx.New(
		fx.NopLogger,
		config.Module(),
		fx.Invoke(setupObservability),
		postgres.Module(),
		marketdata.Module(),
		strategy.Module(),
		signals.Module(),
		notifymodule.Module(),
		httpapi.Module(),
		runner.Module(),
	)
	app.Run()
}

// setupObservability applies the configured log level and installs the tracer.
func setupObservability(lc fx.Lifecycle, cfg *config.Config) error {
	if err := logger.Init(cfg.Log.Level, cfg.Log.JSON); err != nil {
		return err
	}
	_, closeTracer, err := tracing.InitTracer(cfg.Tracing)
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			closeTracer()
			return nil
		},
	})
	logger.Info("starting: pairs=%v timeframe=%s storage=%s", cfg.Pairs, cfg.Timeframe, cfg.Storage.Driver)
	return nil
}

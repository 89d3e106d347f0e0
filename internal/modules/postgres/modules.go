package postgres

import (
	"context"
	"fmt"
	"time"

	"forex_bot/internal/modules/config"
	"forex_bot/pkg/db"
	"forex_bot/pkg/logger"

	"go.uber.org/fx"
)

const connectTimeout = 10 * time.Second

// Module provides the postgres transaction manager. With the memory storage
// driver no pool is opened and the provided manager is nil.
func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			func(lc fx.Lifecycle, cfg *config.Config) (*db.PgTxManager, error) {
				if cfg.Storage.Driver != config.StoragePostgres {
					return nil, nil
				}

				ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
				defer cancel()

				poolMaster, err := db.NewPool(ctx, db.PoolConfig{
					DSN:      cfg.Storage.DSN,
					MaxConns: cfg.Storage.MaxConns,
				})
				if err != nil {
					return nil, fmt.Errorf("failed to create poolMaster: %w", err)
				}

				err = poolMaster.Ping(ctx)
				if err != nil {
					poolMaster.Close()
					return nil, err
				}

				tm := db.NewPgTxManager(poolMaster)
				lc.Append(fx.Hook{
					OnStop: func(context.Context) error {
						logger.Info("closing postgres pool")
						tm.Close()
						return nil
					},
				})
				return tm, nil
			},
		),
	)
}

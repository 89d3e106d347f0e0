package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"forex_bot/internal/modules/config"
	"forex_bot/internal/modules/httpapi/service"
	signals "forex_bot/internal/modules/signals/service"
	"forex_bot/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func RunHTTP(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine) {
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.HTTP.Addr)
			if err != nil {
				return err
			}
			logger.Info("http listening on %s", ln.Addr())
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("httpapi",
		fx.Provide(
			service.NewState,
			func(state *service.State, lc *signals.Lifecycle) *gin.Engine {
				return NewRouter(state, lc)
			},
		),
		fx.Invoke(RunHTTP),
	)
}

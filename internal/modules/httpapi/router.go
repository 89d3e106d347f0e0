package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"forex_bot/internal/metrics"
	"forex_bot/internal/models"
	"forex_bot/internal/modules/httpapi/service"
	signals "forex_bot/internal/modules/signals/service"

	"github.com/gin-gonic/gin"
)

const maxPendingLimit = 500

// SignalReader is the read side of the signal lifecycle.
type SignalReader interface {
	ListPending(ctx context.Context, limit int) ([]models.Signal, error)
	Get(ctx context.Context, id string) (models.Signal, error)
}

func NewRouter(state *service.State, reader SignalReader) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/livez", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	r.GET("/readyz", func(c *gin.Context) {
		if !state.Ready() {
			c.String(http.StatusServiceUnavailable, "not ready")
			return
		}
		c.String(http.StatusOK, "ready")
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":     state.Ready(),
			"uptimeSec": int64(state.Uptime().Seconds()),
			"cycles":    state.Cycles(),
		})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.GET("/signals/pending", func(c *gin.Context) {
		limit := 100
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = min(n, maxPendingLimit)
		}
		out, err := reader.ListPending(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if out == nil {
			out = []models.Signal{}
		}
		c.JSON(http.StatusOK, out)
	})

	r.GET("/signals/:id", func(c *gin.Context) {
		sig, err := reader.Get(c.Request.Context(), c.Param("id"))
		switch {
		case errors.Is(err, signals.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "signal not found"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusOK, sig)
		}
	})

	return r
}

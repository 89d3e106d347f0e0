package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"forex_bot/internal/metrics"
	"forex_bot/internal/models"
	"forex_bot/internal/notify"

	"go.uber.org/zap"
)

var ErrNoPrice = errors.New("no price data")

// CandleSource returns a normalized series, oldest first.
type CandleSource interface {
	Candles(ctx context.Context, pair, interval string, limit int) (models.Candles, error)
}

// Judge decides whether price closes a signal. Take-profit is checked
// first, so a price satisfying both sides resolves as TP_HIT. Bounds are
// inclusive.
func Judge(dir models.Direction, tp, sl, price float64) (models.Status, bool) {
	switch dir {
	case models.DirectionBuy:
		if price >= tp {
			return models.StatusTPHit, true
		}
		if price <= sl {
			return models.StatusSLHit, true
		}
	case models.DirectionSell:
		if price <= tp {
			return models.StatusTPHit, true
		}
		if price >= sl {
			return models.StatusSLHit, true
		}
	}
	return models.StatusPending, false
}

type EvaluatorConfig struct {
	PendingLimit  int
	ProbeLimit    int
	ProbeInterval string
	Channel       string
	// NotifyStopLoss also announces SL hits; TP hits are always announced.
	NotifyStopLoss bool
	Brand          notify.Brand
}

// Evaluator re-checks pending signals against the latest price.
type Evaluator struct {
	cfg      EvaluatorConfig
	lc       *Lifecycle
	src      CandleSource
	notifier notify.Notifier
	now      func() time.Time
	log      *zap.Logger
}

func NewEvaluator(cfg EvaluatorConfig, lc *Lifecycle, src CandleSource, n notify.Notifier, log *zap.Logger) *Evaluator {
	if cfg.PendingLimit <= 0 {
		cfg.PendingLimit = 100
	}
	if cfg.ProbeLimit <= 0 {
		cfg.ProbeLimit = 3
	}
	if cfg.ProbeInterval == "" {
		cfg.ProbeInterval = string(models.Timeframe1m)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Evaluator{cfg: cfg, lc: lc, src: src, notifier: n, now: time.Now, log: log}
}

func (e *Evaluator) WithClock(now func() time.Time) *Evaluator {
	e.now = now
	return e
}

// Run checks every pending signal once. Failures are recorded per signal.
func (e *Evaluator) Run(ctx context.Context) Report {
	rep := Report{Cycle: CycleCheck, Started: e.now()}

	pending, err := e.lc.ListPending(ctx, e.cfg.PendingLimit)
	if err != nil {
		rep.Err = err
		rep.Finished = e.now()
		return rep
	}

	for _, s := range pending {
		if ctx.Err() != nil {
			rep.add(ItemResult{Key: s.Pair, SignalID: s.ID, Status: s.Status, Err: ctx.Err()})
			continue
		}
		item := e.check(ctx, s)
		if item.Err != nil {
			e.log.Warn("check failed", zap.String("pair", s.Pair), zap.String("id", s.ID), zap.Error(item.Err))
		}
		rep.add(item)
	}
	rep.Finished = e.now()
	return rep
}

func (e *Evaluator) check(ctx context.Context, s models.Signal) ItemResult {
	item := ItemResult{Key: s.Pair, SignalID: s.ID, Direction: s.Direction, Status: s.Status}

	candles, err := e.src.Candles(ctx, s.Pair, e.cfg.ProbeInterval, e.cfg.ProbeLimit)
	if err != nil {
		item.Err = fmt.Errorf("fetch price: %w", err)
		return item
	}
	last, ok := candles.Last()
	if !ok {
		item.Err = ErrNoPrice
		return item
	}

	status, hit := Judge(s.Direction, s.TP, s.SL, last.Close)
	if !hit {
		item.Note = "still pending"
		return item
	}

	// Another writer may have closed it since the list was read.
	current, err := e.lc.Get(ctx, s.ID)
	if err != nil {
		item.Err = err
		return item
	}
	if current.Status.IsTerminal() {
		item.Status = current.Status
		item.Note = "already resolved"
		return item
	}

	resolvedAt := e.now()
	err = e.lc.Resolve(ctx, s.ID, status, last.Close, resolvedAt)
	if errors.Is(err, ErrAlreadyResolved) {
		item.Note = "already resolved"
		return item
	}
	if err != nil {
		item.Err = err
		return item
	}

	item.Status = status
	item.Note = fmt.Sprintf("closed at %v", last.Close)
	metrics.SignalsResolved.WithLabelValues(s.Pair, string(status)).Inc()
	e.log.Info("signal resolved",
		zap.String("pair", s.Pair),
		zap.String("id", s.ID),
		zap.String("status", string(status)),
		zap.Float64("price", last.Close))

	switch {
	case status == models.StatusTPHit:
		e.notifier.Send(ctx, e.cfg.Channel, notify.FormatTPHit(s, e.cfg.Brand, resolvedAt))
	case status == models.StatusSLHit && e.cfg.NotifyStopLoss:
		e.notifier.Send(ctx, e.cfg.Channel, notify.FormatSLHit(s, e.cfg.Brand, resolvedAt))
	}
	return item
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"forex_bot/internal/indicator"
	"forex_bot/internal/metrics"
	"forex_bot/internal/models"
	strategy "forex_bot/internal/modules/strategy/service"
	"forex_bot/internal/notify"

	"go.uber.org/zap"
)

type GeneratorConfig struct {
	Pairs        []string
	Timeframe    models.Timeframe
	HistoryLimit int
	// SkipWeekends skips the whole cycle on Saturday and Sunday (UTC).
	SkipWeekends bool
	Channel      string
	Brand        notify.Brand
}

// Generator evaluates every configured pair and stores new signals.
type Generator struct {
	cfg      GeneratorConfig
	src      CandleSource
	engine   indicator.Engine
	decider  strategy.Decider
	lc       *Lifecycle
	notifier notify.Notifier
	now      func() time.Time
	log      *zap.Logger
}

func NewGenerator(
	cfg GeneratorConfig,
	src CandleSource,
	engine indicator.Engine,
	decider strategy.Decider,
	lc *Lifecycle,
	n notify.Notifier,
	log *zap.Logger,
) *Generator {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 200
	}
	if cfg.Timeframe == "" {
		cfg.Timeframe = models.Timeframe15m
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		cfg:      cfg,
		src:      src,
		engine:   engine,
		decider:  decider,
		lc:       lc,
		notifier: n,
		now:      time.Now,
		log:      log,
	}
}

func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

func isWeekend(t time.Time) bool {
	d := t.UTC().Weekday()
	return d == time.Saturday || d == time.Sunday
}

// Run processes the pairs one after another. A failing pair is recorded
// and the cycle moves on.
func (g *Generator) Run(ctx context.Context) Report {
	rep := Report{Cycle: CycleGenerate, Started: g.now()}

	if g.cfg.SkipWeekends && isWeekend(rep.Started) {
		rep.Skipped = "weekend"
		rep.Finished = g.now()
		return rep
	}

	for _, pair := range g.cfg.Pairs {
		pair = strings.ToUpper(strings.TrimSpace(pair))
		if pair == "" {
			continue
		}
		if ctx.Err() != nil {
			rep.add(ItemResult{Key: pair, Err: ctx.Err()})
			continue
		}
		item := g.generate(ctx, pair)
		if item.Err != nil {
			g.log.Warn("pair failed", zap.String("pair", pair), zap.Error(item.Err))
		}
		rep.add(item)
	}
	rep.Finished = g.now()
	return rep
}

func (g *Generator) generate(ctx context.Context, pair string) ItemResult {
	item := ItemResult{Key: pair}

	candles, err := g.src.Candles(ctx, pair, g.cfg.Timeframe.Resolution(), g.cfg.HistoryLimit)
	if err != nil {
		item.Err = fmt.Errorf("fetch candles: %w", err)
		return item
	}
	if len(candles) == 0 {
		item.Note = "no data"
		return item
	}

	table := g.engine.Apply(candles)
	last, _ := candles.Last()
	snap := table.Last()

	cand, ok := g.decider.Decide(pair, g.cfg.Timeframe, last.Close, snap)
	if !ok {
		item.Note = fmt.Sprintf("no signal (%d candles)", len(candles))
		return item
	}

	id, err := g.lc.Create(ctx, cand)
	if err != nil {
		item.Err = err
		return item
	}
	item.SignalID = id
	item.Direction = cand.Direction
	item.Status = models.StatusPending

	metrics.SignalsCreated.WithLabelValues(pair, string(cand.Direction)).Inc()
	g.log.Info("signal created",
		zap.String("pair", pair),
		zap.String("id", id),
		zap.String("direction", string(cand.Direction)),
		zap.Float64("entry", cand.Entry),
		zap.Float64("tp", cand.TP),
		zap.Float64("sl", cand.SL))

	sig := models.NewSignal(cand, g.now())
	sig.ID = id
	g.notifier.Send(ctx, g.cfg.Channel, notify.FormatSignal(sig, g.cfg.Brand, sig.CreatedAt))
	return item
}

package runner

import (
	"context"
	"sync"
	"time"

	"forex_bot/internal/metrics"
	health "forex_bot/internal/modules/httpapi/service"
	"forex_bot/internal/modules/signals/service"
	"forex_bot/pkg/tracing"

	"go.uber.org/zap"
)

// Job is one cycle of work; it reports instead of failing.
type Job interface {
	Run(ctx context.Context) service.Report
}

type JobFunc func(ctx context.Context) service.Report

func (f JobFunc) Run(ctx context.Context) service.Report { return f(ctx) }

// Loop runs Job every Interval. Runs of the same loop never overlap.
type Loop struct {
	Name     string
	Interval time.Duration
	Job      Job
}

type Runner struct {
	loops      []Loop
	runOnStart bool
	state      *health.State
	log        *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(runOnStart bool, state *health.State, log *zap.Logger, loops ...Loop) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{loops: loops, runOnStart: runOnStart, state: state, log: log}
}

// Start launches one goroutine per loop. It returns immediately.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}
	ctx, r.cancel = context.WithCancel(ctx)

	for _, l := range r.loops {
		r.wg.Add(1)
		go func(l Loop) {
			defer r.wg.Done()
			r.loop(ctx, l)
		}(l)
	}
	if r.state != nil {
		r.state.SetReady(true)
	}
}

// Stop cancels the loops and waits for the running cycles to return.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	if r.state != nil {
		r.state.SetReady(false)
	}
	cancel()
	r.wg.Wait()
}

func (r *Runner) loop(ctx context.Context, l Loop) {
	if r.runOnStart {
		r.RunOnce(ctx, l)
	}

	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RunOnce(ctx, l)
		}
	}
}

// RunOnce executes a single cycle of l with tracing, metrics and logging.
func (r *Runner) RunOnce(ctx context.Context, l Loop) service.Report {
	span, ctx := tracing.StartSpan(ctx, "cycle."+l.Name)
	started := time.Now()

	rep := l.Job.Run(ctx)

	span.SetTag("items", len(rep.Items))
	span.SetTag("failed", rep.Failed())
	tracing.Finish(span, rep.Err)
	metrics.ObserveCycle(l.Name, started, rep.Failed())

	stat := health.CycleStat{
		Finished: time.Now(),
		Items:    len(rep.Items),
		Failed:   rep.Failed(),
		Skipped:  rep.Skipped,
	}
	if err := rep.Errs(); err != nil {
		stat.Error = err.Error()
	}
	if r.state != nil {
		r.state.RecordCycle(l.Name, stat)
	}

	fields := []zap.Field{
		zap.String("cycle", l.Name),
		zap.Int("items", stat.Items),
		zap.Int("failed", stat.Failed),
		zap.Duration("took", time.Since(started)),
	}
	switch {
	case rep.Skipped != "":
		r.log.Info("cycle skipped", append(fields, zap.String("reason", rep.Skipped))...)
	case rep.Err != nil:
		r.log.Error("cycle failed", append(fields, zap.Error(rep.Err))...)
	case stat.Failed > 0:
		r.log.Warn("cycle finished with failures", append(fields, zap.Error(rep.Errs()))...)
	default:
		r.log.Info("cycle finished", fields...)
	}
	return rep
}

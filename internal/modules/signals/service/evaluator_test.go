package service

import (
	"context"
	"testing"
	"time"

	"forex_bot/internal/models"
	"forex_bot/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJudge(t *testing.T) {
	tests := []struct {
		name   string
		dir    models.Direction
		tp, sl float64
		price  float64
		want   models.Status
		hit    bool
	}{
		{"buy tp exact", models.DirectionBuy, 1.101, 1.0985, 1.1010, models.StatusTPHit, true},
		{"buy above tp", models.DirectionBuy, 1.101, 1.0985, 1.2, models.StatusTPHit, true},
		{"buy sl exact", models.DirectionBuy, 1.101, 1.0985, 1.0985, models.StatusSLHit, true},
		{"buy inside", models.DirectionBuy, 1.101, 1.0985, 1.1, models.StatusPending, false},
		{"sell tp exact", models.DirectionSell, 1899.7, 1900.5, 1899.7, models.StatusTPHit, true},
		{"sell sl exact", models.DirectionSell, 1899.7, 1900.5, 1900.5, models.StatusSLHit, true},
		{"sell inside", models.DirectionSell, 1899.7, 1900.5, 1900, models.StatusPending, false},
		{"tp wins when both hold", models.DirectionBuy, 1.0, 1.2, 1.1, models.StatusTPHit, true},
		{"sell tp wins when both hold", models.DirectionSell, 1.2, 1.0, 1.1, models.StatusTPHit, true},
		{"unknown direction", models.DirectionNone, 1, 1, 1, models.StatusPending, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := Judge(tt.dir, tt.tp, tt.sl, tt.price)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.hit, hit)
		})
	}
}

type evalFixture struct {
	lc       *Lifecycle
	src      *fakeSource
	notifier *recordingNotifier
	eval     *Evaluator
}

func newEvalFixture(cfg EvaluatorConfig) *evalFixture {
	lc := NewLifecycle(NewMemoryStore()).WithClock(fixedClock(monday))
	src := newFakeSource()
	n := &recordingNotifier{}
	cfg.Brand = notify.Brand{Name: "ACME"}
	ev := NewEvaluator(cfg, lc, src, n, nil).WithClock(fixedClock(monday.Add(time.Hour)))
	return &evalFixture{lc: lc, src: src, notifier: n, eval: ev}
}

func TestEvaluatorResolvesTakeProfit(t *testing.T) {
	ctx := context.Background()
	f := newEvalFixture(EvaluatorConfig{Channel: "chat"})
	id, err := f.lc.Create(ctx, buyCandidate("EURUSD"))
	require.NoError(t, err)
	f.src.price("EURUSD", 1.1010)

	rep := f.eval.Run(ctx)
	require.NoError(t, rep.Errs())
	assert.Equal(t, 1, rep.Count(models.StatusTPHit))

	sig, err := f.lc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusTPHit, sig.Status)
	assert.Equal(t, 1.1010, *sig.ClosePrice)
	assert.Equal(t, monday.Add(time.Hour), *sig.ResolvedAt)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "chat", f.notifier.sent[0].channel)
	assert.Contains(t, f.notifier.sent[0].text, "TP HIT")
	assert.Contains(t, f.notifier.sent[0].text, "Pair: EURUSD TP: 1.101")
}

func TestEvaluatorStopLossNotification(t *testing.T) {
	ctx := context.Background()

	quiet := newEvalFixture(EvaluatorConfig{})
	_, err := quiet.lc.Create(ctx, sellCandidate("XAUUSD"))
	require.NoError(t, err)
	quiet.src.price("XAUUSD", 1900.5)

	rep := quiet.eval.Run(ctx)
	assert.Equal(t, 1, rep.Count(models.StatusSLHit))
	assert.Empty(t, quiet.notifier.sent)

	loud := newEvalFixture(EvaluatorConfig{NotifyStopLoss: true})
	_, err = loud.lc.Create(ctx, sellCandidate("XAUUSD"))
	require.NoError(t, err)
	loud.src.price("XAUUSD", 1901)

	loud.eval.Run(ctx)
	require.Len(t, loud.notifier.sent, 1)
	assert.Contains(t, loud.notifier.sent[0].text, "SL HIT")
}

func TestEvaluatorLeavesPendingInsideRange(t *testing.T) {
	ctx := context.Background()
	f := newEvalFixture(EvaluatorConfig{})
	id, err := f.lc.Create(ctx, buyCandidate("EURUSD"))
	require.NoError(t, err)
	f.src.price("EURUSD", 1.1005)

	rep := f.eval.Run(ctx)
	require.Len(t, rep.Items, 1)
	assert.Equal(t, models.StatusPending, rep.Items[0].Status)

	sig, err := f.lc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, sig.Status)
	assert.Empty(t, f.notifier.sent)
}

func TestEvaluatorIsolatesFailures(t *testing.T) {
	ctx := context.Background()
	f := newEvalFixture(EvaluatorConfig{})
	broken, err := f.lc.Create(ctx, buyCandidate("GBPUSD"))
	require.NoError(t, err)
	empty, err := f.lc.Create(ctx, buyCandidate("AUDUSD"))
	require.NoError(t, err)
	ok, err := f.lc.Create(ctx, buyCandidate("EURUSD"))
	require.NoError(t, err)

	f.src.fail("GBPUSD").price("EURUSD", 1.2)
	f.src.candles["AUDUSD"] = models.Candles{}

	rep := f.eval.Run(ctx)
	assert.Len(t, rep.Items, 3)
	assert.Equal(t, 2, rep.Failed())
	assert.Error(t, rep.Errs())

	for id, want := range map[string]models.Status{
		broken: models.StatusPending,
		empty:  models.StatusPending,
		ok:     models.StatusTPHit,
	} {
		sig, err := f.lc.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, sig.Status, sig.Pair)
	}
}

func TestEvaluatorSkipsSignalResolvedMeanwhile(t *testing.T) {
	ctx := context.Background()
	f := newEvalFixture(EvaluatorConfig{})
	id, err := f.lc.Create(ctx, buyCandidate("EURUSD"))
	require.NoError(t, err)

	f.src.price("EURUSD", 1.2)
	f.src.hook = func(string) {
		_ = f.lc.Resolve(ctx, id, models.StatusSLHit, 1.09, monday)
	}

	rep := f.eval.Run(ctx)
	require.NoError(t, rep.Errs())
	require.Len(t, rep.Items, 1)
	assert.Equal(t, "already resolved", rep.Items[0].Note)

	sig, err := f.lc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSLHit, sig.Status)
	assert.Equal(t, 1.09, *sig.ClosePrice)
	assert.Empty(t, f.notifier.sent)
}

func TestEvaluatorSecondRunIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newEvalFixture(EvaluatorConfig{})
	_, err := f.lc.Create(ctx, buyCandidate("EURUSD"))
	require.NoError(t, err)
	f.src.price("EURUSD", 1.2)

	f.eval.Run(ctx)
	rep := f.eval.Run(ctx)

	assert.Empty(t, rep.Items)
	assert.Len(t, f.notifier.sent, 1)
}

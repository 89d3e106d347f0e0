package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"forex_bot/internal/models"
)

var monday = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

type fakeSource struct {
	mu      sync.Mutex
	candles map[string]models.Candles
	errs    map[string]error
	calls   []string
	// hook runs before the answer is returned
	hook func(pair string)
}

func newFakeSource() *fakeSource {
	return &fakeSource{candles: map[string]models.Candles{}, errs: map[string]error{}}
}

func (f *fakeSource) price(pair string, close float64) *fakeSource {
	f.candles[pair] = models.Candles{{Open: close, High: close, Low: close, Close: close}}
	return f
}

func (f *fakeSource) fail(pair string) *fakeSource {
	f.errs[pair] = errors.New("provider unavailable")
	return f
}

func (f *fakeSource) Candles(_ context.Context, pair, _ string, _ int) (models.Candles, error) {
	f.mu.Lock()
	f.calls = append(f.calls, pair)
	hook := f.hook
	f.mu.Unlock()
	if hook != nil {
		hook(pair)
	}
	if err := f.errs[pair]; err != nil {
		return nil, err
	}
	return f.candles[pair], nil
}

type sentMessage struct {
	channel string
	text    string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (r *recordingNotifier) Send(_ context.Context, channel, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentMessage{channel: channel, text: msg})
}

func buyCandidate(pair string) models.Candidate {
	return models.Candidate{
		Pair:      pair,
		Timeframe: models.Timeframe15m,
		Direction: models.DirectionBuy,
		Entry:     1.1,
		TP:        1.101,
		SL:        1.0985,
		Snapshot:  models.IndicatorSnapshot{EMAFast: 1.2, EMASlow: 1.1, RSI: 60},
	}
}

func sellCandidate(pair string) models.Candidate {
	return models.Candidate{
		Pair:      pair,
		Timeframe: models.Timeframe15m,
		Direction: models.DirectionSell,
		Entry:     1900,
		TP:        1899.7,
		SL:        1900.5,
		Snapshot:  models.IndicatorSnapshot{EMAFast: 1890, EMASlow: 1895, RSI: 50},
	}
}

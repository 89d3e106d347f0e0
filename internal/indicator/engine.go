// Package indicator computes the trend and momentum series the decision rules read.
package indicator

import (
	"math"

	"forex_bot/internal/models"
)

const (
	DefaultFastWindow = 8
	DefaultSlowWindow = 21
	DefaultRSIWindow  = 14
)

type Engine struct {
	FastWindow int
	SlowWindow int
	RSIWindow  int
}

func NewEngine(fast, slow, rsi int) Engine {
	if fast <= 0 {
		fast = DefaultFastWindow
	}
	if slow <= 0 {
		slow = DefaultSlowWindow
	}
	if rsi <= 0 {
		rsi = DefaultRSIWindow
	}
	return Engine{FastWindow: fast, SlowWindow: slow, RSIWindow: rsi}
}

// Table is a candle series with indicator columns of the same length.
type Table struct {
	Candles models.Candles
	EMAFast []float64
	EMASlow []float64
	RSI     []float64
}

// Apply computes every column. An empty series comes back as an empty table.
func (e Engine) Apply(cs models.Candles) Table {
	if len(cs) == 0 {
		return Table{Candles: cs}
	}
	closes := cs.Closes()
	return Table{
		Candles: cs,
		EMAFast: EMA(closes, e.FastWindow),
		EMASlow: EMA(closes, e.SlowWindow),
		RSI:     RSI(closes, e.RSIWindow),
	}
}

func (t Table) Len() int { return len(t.Candles) }

// Last is the snapshot at the newest candle, NaN where a column is undefined.
func (t Table) Last() models.IndicatorSnapshot {
	return models.IndicatorSnapshot{
		EMAFast: last(t.EMAFast),
		EMASlow: last(t.EMASlow),
		RSI:     last(t.RSI),
	}
}

func last(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return xs[len(xs)-1]
}

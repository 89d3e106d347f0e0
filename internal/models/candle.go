package models

import (
	"math"
	"time"
)

type Candle struct {
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
	Time  time.Time `json:"time"`
}

// Candles is ordered oldest to newest.
type Candles []Candle

func (cs Candles) Closes() []float64 {
	out := make([]float64, len(cs))
	for i, c := range cs {
		out[i] = c.Close
	}
	return out
}

// Last returns the newest candle.
func (cs Candles) Last() (Candle, bool) {
	if len(cs) == 0 {
		return Candle{}, false
	}
	return cs[len(cs)-1], true
}

// IndicatorSnapshot holds indicator values at the last candle of a series.
// NaN marks a value that is still inside its warm-up window.
type IndicatorSnapshot struct {
	EMAFast float64 `json:"ema_fast"`
	EMASlow float64 `json:"ema_slow"`
	RSI     float64 `json:"rsi"`
}

func defined(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func (s IndicatorSnapshot) TrendDefined() bool { return defined(s.EMAFast) && defined(s.EMASlow) }
func (s IndicatorSnapshot) RSIDefined() bool   { return defined(s.RSI) }

package service

import (
	"forex_bot/internal/models"

	"github.com/shopspring/decimal"
)

// EMARSI is the trend/momentum rule: fast EMA above slow with RSI under the
// overbought gate is a BUY, the mirror is a SELL.
type EMARSI struct {
	rules Rules
}

var _ Decider = (*EMARSI)(nil)

func NewEMARSI(rules Rules) *EMARSI {
	return &EMARSI{rules: rules}
}

func (e *EMARSI) Rules() Rules { return e.rules }

func (e *EMARSI) Decide(pair string, tf models.Timeframe, entry float64, snap models.IndicatorSnapshot) (models.Candidate, bool) {
	if !snap.TrendDefined() {
		return models.Candidate{}, false
	}
	// undefined RSI is read as neutral momentum, only the EMAs can block
	if !snap.RSIDefined() {
		snap.RSI = e.rules.NeutralRSI
	}

	dir := e.Direction(snap)
	if dir == models.DirectionNone {
		return models.Candidate{}, false
	}

	tp, sl := e.Levels(pair, dir, entry)
	c := models.Candidate{
		Pair:      pair,
		Timeframe: tf,
		Direction: dir,
		Entry:     entry,
		TP:        tp,
		SL:        sl,
		Snapshot:  snap,
	}
	if err := c.Validate(); err != nil {
		return models.Candidate{}, false
	}
	return c, true
}

// Direction applies the asymmetric RSI gate to the EMA ordering.
func (e *EMARSI) Direction(snap models.IndicatorSnapshot) models.Direction {
	switch {
	case snap.EMAFast > snap.EMASlow && snap.RSI < e.rules.RSIBuyBelow:
		return models.DirectionBuy
	case snap.EMAFast < snap.EMASlow && snap.RSI > e.rules.RSISellAbove:
		return models.DirectionSell
	}
	return models.DirectionNone
}

// Levels computes rounded TP/SL around entry for the given direction.
func (e *EMARSI) Levels(pair string, dir models.Direction, entry float64) (tp, sl float64) {
	pip, tpPips, slPips := e.rules.Targets(pair)
	p := decimal.NewFromFloat(pip)
	px := decimal.NewFromFloat(entry)
	tpDist := decimal.NewFromFloat(tpPips).Mul(p)
	slDist := decimal.NewFromFloat(slPips).Mul(p)

	var tpD, slD decimal.Decimal
	if dir == models.DirectionBuy {
		tpD, slD = px.Add(tpDist), px.Sub(slDist)
	} else {
		tpD, slD = px.Sub(tpDist), px.Add(slDist)
	}
	return tpD.Round(e.rules.Decimals).InexactFloat64(), slD.Round(e.rules.Decimals).InexactFloat64()
}

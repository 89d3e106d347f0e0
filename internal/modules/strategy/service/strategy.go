package service

import "forex_bot/internal/models"

// Decider turns the latest indicator values into a candidate signal.
type Decider interface {
	// ok==false means no signal
	Decide(pair string, tf models.Timeframe, entry float64, snap models.IndicatorSnapshot) (c models.Candidate, ok bool)
}

package models

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusTPHit   Status = "TP_HIT"
	StatusSLHit   Status = "SL_HIT"
)

func (s Status) IsTerminal() bool { return s == StatusTPHit || s == StatusSLHit }

// Candidate is what the decision rules produce before a signal is stored.
type Candidate struct {
	Pair      string
	Timeframe Timeframe
	Direction Direction
	Entry     float64
	TP        float64
	SL        float64
	Snapshot  IndicatorSnapshot
}

// Signal is a stored recommendation. Entry, TP and SL never change after creation.
type Signal struct {
	ID         string            `json:"id"`
	Pair       string            `json:"pair"`
	Timeframe  Timeframe         `json:"timeframe"`
	Direction  Direction         `json:"signal_type"`
	Entry      float64           `json:"entry"`
	TP         float64           `json:"tp"`
	SL         float64           `json:"sl"`
	Status     Status            `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
	ResolvedAt *time.Time        `json:"result_time,omitempty"`
	ClosePrice *float64          `json:"close_price,omitempty"`
	Snapshot   IndicatorSnapshot `json:"indicator"`
}

// Resolution is the single terminal update applied to a pending signal.
type Resolution struct {
	Status     Status
	ClosePrice float64
	ResolvedAt time.Time
}

// NewSignal builds the PENDING signal for a candidate.
func NewSignal(c Candidate, createdAt time.Time) Signal {
	return Signal{
		Pair:      c.Pair,
		Timeframe: c.Timeframe,
		Direction: c.Direction,
		Entry:     c.Entry,
		TP:        c.TP,
		SL:        c.SL,
		Status:    StatusPending,
		CreatedAt: createdAt.UTC(),
		Snapshot:  c.Snapshot,
	}
}

// ValidateLevels checks tp > entry > sl for BUY and sl > entry > tp for SELL.
func ValidateLevels(dir Direction, entry, tp, sl float64) error {
	if entry <= 0 {
		return fmt.Errorf("entry must be positive, got %v", entry)
	}
	switch dir {
	case DirectionBuy:
		if tp > entry && entry > sl {
			return nil
		}
	case DirectionSell:
		if sl > entry && entry > tp {
			return nil
		}
	default:
		return fmt.Errorf("unknown direction %q", dir)
	}
	return fmt.Errorf("%s levels out of order: entry=%v tp=%v sl=%v", dir, entry, tp, sl)
}

func (c Candidate) Validate() error {
	if c.Pair == "" {
		return fmt.Errorf("empty pair")
	}
	return ValidateLevels(c.Direction, c.Entry, c.TP, c.SL)
}

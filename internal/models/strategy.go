package models

import (
	"fmt"
	"strings"
)

// Direction of a recommendation: "BUY"/"SELL" or empty when there is none.
type Direction string

const (
	DirectionNone Direction = ""
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

func (d Direction) Valid() bool { return d == DirectionBuy || d == DirectionSell }

type Timeframe string

const (
	Timeframe1m  Timeframe = "1m"
	Timeframe5m  Timeframe = "5m"
	Timeframe15m Timeframe = "15m"
	Timeframe1h  Timeframe = "1h"
)

// ParseTimeframe accepts the four supported frames, case-insensitive; "60m" is read as 1h.
func ParseTimeframe(raw string) (Timeframe, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1m":
		return Timeframe1m, nil
	case "5m":
		return Timeframe5m, nil
	case "15m":
		return Timeframe15m, nil
	case "1h", "60m":
		return Timeframe1h, nil
	}
	return "", fmt.Errorf("unsupported timeframe %q", raw)
}

// Resolution is the interval name the market data provider expects.
func (t Timeframe) Resolution() string {
	if t == Timeframe1h {
		return "60m"
	}
	return string(t)
}

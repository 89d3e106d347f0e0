package service

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"forex_bot/internal/models"

	"github.com/bytedance/sonic"
)

// Shape is the recognised layout of a provider payload.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeCandles       // {"candles": [...]}
	ShapeValues        // {"values": [...]}
	ShapeBareList      // [...]
)

func (s Shape) String() string {
	switch s {
	case ShapeCandles:
		return "candles"
	case ShapeValues:
		return "values"
	case ShapeBareList:
		return "bare-list"
	}
	return "unknown"
}

var (
	closeKeys = []string{"close", "c"}
	openKeys  = []string{"open", "o"}
	highKeys  = []string{"high", "h"}
	lowKeys   = []string{"low", "l"}
	timeKeys  = []string{"time", "t", "timestamp", "tm", "datetime", "date"}
)

// DetectShape inspects a decoded payload and returns its shape and record list.
func DetectShape(v any) (Shape, []any) {
	switch p := v.(type) {
	case []any:
		return ShapeBareList, p
	case map[string]any:
		if list, ok := p["candles"].([]any); ok {
			return ShapeCandles, list
		}
		if list, ok := p["values"].([]any); ok {
			return ShapeValues, list
		}
	}
	return ShapeUnknown, nil
}

// Frame is the coerced, column-oriented view of a payload. Values that could
// not be read as numbers are NaN; timestamps that could not be read are zero.
type Frame struct {
	Shape    Shape
	Open     []float64
	High     []float64
	Low      []float64
	Close    []float64
	Time     []time.Time
	HasOpen  bool
	HasHigh  bool
	HasLow   bool
	HasClose bool
}

func (f Frame) Len() int { return len(f.Close) }

// Decode coerces a decoded payload into a Frame. It never fails.
func Decode(v any) Frame {
	shape, records := DetectShape(v)
	f := Frame{Shape: shape}
	for _, rec := range records {
		f.appendRecord(rec)
	}
	return f
}

func (f *Frame) appendRecord(rec any) {
	var o, h, l, c float64 = math.NaN(), math.NaN(), math.NaN(), math.NaN()
	var ts time.Time

	switch r := rec.(type) {
	case map[string]any:
		if v, ok := lookup(r, closeKeys); ok {
			c = toFloat(v)
			f.HasClose = true
		}
		if v, ok := lookup(r, openKeys); ok {
			o = toFloat(v)
			f.HasOpen = true
		}
		if v, ok := lookup(r, highKeys); ok {
			h = toFloat(v)
			f.HasHigh = true
		}
		if v, ok := lookup(r, lowKeys); ok {
			l = toFloat(v)
			f.HasLow = true
		}
		if v, ok := lookup(r, timeKeys); ok {
			ts = toTime(v)
		}
	case []any:
		// [time, open, high, low, close, ...]
		if len(r) >= 5 {
			ts = toTime(r[0])
			o, h, l, c = toFloat(r[1]), toFloat(r[2]), toFloat(r[3]), toFloat(r[4])
			f.HasOpen, f.HasHigh, f.HasLow, f.HasClose = true, true, true, true
		}
	}

	f.Open = append(f.Open, o)
	f.High = append(f.High, h)
	f.Low = append(f.Low, l)
	f.Close = append(f.Close, c)
	f.Time = append(f.Time, ts)
}

// Candles drops malformed rows and returns the series oldest to newest.
// Without a close column the result is empty.
func (f Frame) Candles() models.Candles {
	if !f.HasClose {
		return models.Candles{}
	}
	out := make(models.Candles, 0, f.Len())
	allTimed := true
	for i := 0; i < f.Len(); i++ {
		c := f.Close[i]
		if !validPrice(c) {
			continue
		}
		o, okO := column(f.HasOpen, f.Open[i], c)
		h, okH := column(f.HasHigh, f.High[i], c)
		l, okL := column(f.HasLow, f.Low[i], c)
		if !okO || !okH || !okL {
			continue
		}
		if f.Time[i].IsZero() {
			allTimed = false
		}
		out = append(out, models.Candle{Open: o, High: h, Low: l, Close: c, Time: f.Time[i]})
	}
	if allTimed {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	}
	return out
}

// Normalize turns a raw provider payload into a candle series. Undecodable or
// unrecognised payloads give an empty series.
func Normalize(payload []byte) models.Candles {
	var v any
	if err := sonic.Unmarshal(payload, &v); err != nil {
		return models.Candles{}
	}
	return NormalizeValue(v)
}

func NormalizeValue(v any) models.Candles {
	return Decode(v).Candles()
}

func column(present bool, v, fallback float64) (float64, bool) {
	if !present {
		return fallback, true
	}
	return v, validPrice(v)
}

func validPrice(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func lookup(r map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			return v, true
		}
	}
	return nil, false
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func toTime(v any) time.Time {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC()
			}
		}
	}
	f := toFloat(v)
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return time.Time{}
	}
	// anything past 1e12 is taken as milliseconds
	if f > 1e12 {
		return time.UnixMilli(int64(f)).UTC()
	}
	return time.Unix(int64(f), 0).UTC()
}

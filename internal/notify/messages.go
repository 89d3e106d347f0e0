package notify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"forex_bot/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

// Brand is the signature printed under every message.
type Brand struct {
	Name     string
	Owner    string
	Admin    string
	Location *time.Location
}

func (b Brand) stamp(now time.Time) string {
	if b.Location != nil {
		now = now.In(b.Location)
	}
	return now.Format(timeLayout)
}

func price(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func FormatSignal(s models.Signal, b Brand, now time.Time) string {
	var sb strings.Builder
	sb.WriteString("NOW SIGNAL TIME 🔥\n")
	fmt.Fprintf(&sb, "POWERED_BY %s\n\n", b.Name)
	sb.WriteString("💸 *FOREX SIGNAL*\n")
	fmt.Fprintf(&sb, "Pair: %s\n", s.Pair)
	fmt.Fprintf(&sb, "Type: %s\n", s.Direction)
	fmt.Fprintf(&sb, "Entry: %s\n", price(s.Entry))
	fmt.Fprintf(&sb, "TP: %s\n", price(s.TP))
	fmt.Fprintf(&sb, "SL: %s\n", price(s.SL))
	fmt.Fprintf(&sb, "Timeframe: %s\n\n", s.Timeframe)
	fmt.Fprintf(&sb, "⏱ Sent by %s at %s", b.Name, b.stamp(now))
	if b.Owner != "" || b.Admin != "" {
		fmt.Fprintf(&sb, "\nOWNER: %s  ADMIN: %s", b.Owner, b.Admin)
	}
	return sb.String()
}

func FormatTPHit(s models.Signal, b Brand, now time.Time) string {
	return fmt.Sprintf("✅ TP HIT 🎯\nPOWERED_BY %s\nPair: %s TP: %s\nTime: %s",
		b.Name, s.Pair, price(s.TP), b.stamp(now))
}

func FormatSLHit(s models.Signal, b Brand, now time.Time) string {
	return fmt.Sprintf("❌ SL HIT\nPOWERED_BY %s\nPair: %s SL: %s\nTime: %s",
		b.Name, s.Pair, price(s.SL), b.stamp(now))
}

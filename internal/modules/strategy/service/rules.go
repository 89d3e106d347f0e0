package service

import "strings"

// PipOverride widens targets for instrument classes with a coarser pip,
// matched by symbol prefix.
type PipOverride struct {
	Prefixes []string `yaml:"prefixes"`
	Pip      float64  `yaml:"pip"`
	TPPips   float64  `yaml:"tp_pips"`
	SLPips   float64  `yaml:"sl_pips"`
}

// Rules is the full parameter set of the EMA/RSI decision.
type Rules struct {
	// BUY only while RSI is strictly below this.
	RSIBuyBelow float64 `yaml:"rsi_buy_below"`
	// SELL only while RSI is strictly above this.
	RSISellAbove float64 `yaml:"rsi_sell_above"`
	// Used in place of an undefined RSI.
	NeutralRSI float64 `yaml:"neutral_rsi"`

	Pip    float64 `yaml:"pip"`
	TPPips float64 `yaml:"tp_pips"`
	SLPips float64 `yaml:"sl_pips"`

	Overrides []PipOverride `yaml:"overrides"`

	Decimals int32 `yaml:"decimals"`
}

// DefaultRules: 10/15 pips at 0.0001, gold at 30/50 pips of 0.01, RSI band 25..75.
func DefaultRules() Rules {
	return Rules{
		RSIBuyBelow:  75,
		RSISellAbove: 25,
		NeutralRSI:   50,
		Pip:          0.0001,
		TPPips:       10,
		SLPips:       15,
		Overrides: []PipOverride{
			{Prefixes: []string{"XAU", "GOLD"}, Pip: 0.01, TPPips: 30, SLPips: 50},
		},
		Decimals: 6,
	}
}

// Targets returns pip size and TP/SL distances in pips for pair.
func (r Rules) Targets(pair string) (pip, tpPips, slPips float64) {
	p := strings.ToUpper(strings.TrimSpace(pair))
	for _, o := range r.Overrides {
		for _, prefix := range o.Prefixes {
			if prefix != "" && strings.HasPrefix(p, strings.ToUpper(prefix)) {
				return o.Pip, o.TPPips, o.SLPips
			}
		}
	}
	return r.Pip, r.TPPips, r.SLPips
}

package indicator

import "math"

type rsiState struct {
	period  int
	alpha   float64
	prev    float64
	avgGain float64
	avgLoss float64
	samples int
}

func newRSI(period int) rsiState {
	if period <= 1 {
		period = 1
	}
	return rsiState{period: period, alpha: 1.0 / float64(period)}
}

// Update feeds one price. The first price contributes a zero gain and loss,
// so the averages are seeded at zero and smoothed with alpha = 1/period.
func (r *rsiState) Update(price float64) {
	gain, loss := 0.0, 0.0
	if r.samples > 0 {
		change := price - r.prev
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
	}
	r.avgGain = (1-r.alpha)*r.avgGain + r.alpha*gain
	r.avgLoss = (1-r.alpha)*r.avgLoss + r.alpha*loss
	r.prev = price
	r.samples++
}

func (r *rsiState) Ready() bool { return r.samples >= r.period }

func (r *rsiState) Value() float64 {
	if r.avgLoss == 0 {
		return 100
	}
	rs := r.avgGain / r.avgLoss
	return 100 - (100 / (1 + rs))
}

// RSI returns a [0,100] series aligned with values; the first window-1 entries are NaN.
func RSI(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	st := newRSI(window)
	for i, v := range values {
		st.Update(v)
		if st.Ready() {
			out[i] = st.Value()
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

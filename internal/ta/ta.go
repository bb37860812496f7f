package ta

import "math"

func SMA(vals []float64, n int) float64 {
	if len(vals) < n || n <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		sum += vals[i]
	}
	return sum / float64(n)
}

// EMA returns the exponential moving average series with alpha 2/(span+1),
// seeded with the first value. Entries before index span-1 are NaN.
func EMA(vals []float64, span int) []float64 {
	return ewm(vals, 2.0/float64(span+1), span)
}

func ewm(vals []float64, alpha float64, minPeriods int) []float64 {
	out := make([]float64, len(vals))
	if len(vals) == 0 {
		return out
	}
	acc := vals[0]
	for i, v := range vals {
		if i > 0 {
			acc = alpha*v + (1-alpha)*acc
		}
		if i+1 < minPeriods {
			out[i] = math.NaN()
		} else {
			out[i] = acc
		}
	}
	return out
}

// RSI is the relative strength index of the last close using Wilder
// smoothing (alpha 1/period) over the whole series.
func RSI(closes []float64, period int) float64 {
	if len(closes) < period+1 || period <= 0 {
		return math.NaN()
	}
	ups := make([]float64, len(closes))
	downs := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			ups[i] = d
		} else {
			downs[i] = -d
		}
	}
	alpha := 1.0 / float64(period)
	up := ewm(ups, alpha, period)
	dn := ewm(downs, alpha, period)
	u, l := up[len(up)-1], dn[len(dn)-1]
	if l == 0 {
		return 100.0
	}
	return 100.0 - (100.0 / (1.0 + u/l))
}

// MACD returns the last MACD line (EMA fast - EMA slow) and its signal EMA.
func MACD(closes []float64, fast, slow, signal int) (line, sig float64) {
	if fast <= 0 || slow <= fast || signal <= 0 || len(closes) < slow+signal-1 {
		return math.NaN(), math.NaN()
	}
	ef := EMA(closes, fast)
	es := EMA(closes, slow)
	lines := make([]float64, 0, len(closes)-slow+1)
	for i := slow - 1; i < len(closes); i++ {
		lines = append(lines, ef[i]-es[i])
	}
	sigs := EMA(lines, signal)
	return lines[len(lines)-1], sigs[len(sigs)-1]
}

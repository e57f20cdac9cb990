package stats

import "math"

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// StdDev returns the population standard deviation, or 0 for len < 2.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := Mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

// SMA computes the simple moving average with the given window.
// It returns a slice of length len(xs)-window+1, or nil if the window
// does not fit.
func SMA(xs []float64, window int) []float64 {
	if window <= 0 || len(xs) < window {
		return nil
	}
	out := make([]float64, 0, len(xs)-window+1)
	sum := 0.0
	for i, x := range xs {
		sum += x
		if i >= window {
			sum -= xs[i-window]
		}
		if i >= window-1 {
			out = append(out, sum/float64(window))
		}
	}
	return out
}

// EMA computes the exponential moving average with smoothing factor
// alpha = 2/(window+1), seeded with the first value.
func EMA(xs []float64, window int) []float64 {
	if window <= 0 || len(xs) == 0 {
		return nil
	}
	alpha := 2.0 / (float64(window) + 1.0)
	out := make([]float64, len(xs))
	out[0] = xs[0]
	for i := 1; i < len(xs); i++ {
		out[i] = alpha*xs[i] + (1-alpha)*out[i-1]
	}
	return out
}

// Pearson returns the Pearson correlation coefficient between xs and ys.
// Zero variance on either side yields 0, never NaN.
func Pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return 0
	}
	mx, my := Mean(xs), Mean(ys)
	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx := xs[i] - mx
		dy := ys[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0
	}
	return sxy / math.Sqrt(sxx*syy)
}

// CUSUM runs a cumulative sum of (x − mean) across xs and returns the
// index and signed value of the maximum-magnitude cumulative sum.
func CUSUM(xs []float64) (maxIdx int, maxVal float64) {
	m := Mean(xs)
	cum := 0.0
	for i, x := range xs {
		cum += x - m
		if math.Abs(cum) > math.Abs(maxVal) {
			maxVal = cum
			maxIdx = i
		}
	}
	return maxIdx, maxVal
}

// SpectrumMagnitudes computes the DFT magnitude spectrum of xs, excluding
// the zero-frequency (DC) component. Index k of the result corresponds to
// frequency bin k+1. Only the first half of the spectrum is returned; the
// second half mirrors it for real input.
func SpectrumMagnitudes(xs []float64) []float64 {
	n := len(xs)
	if n < 2 {
		return nil
	}
	half := n / 2
	out := make([]float64, 0, half)
	for k := 1; k <= half; k++ {
		var re, im float64
		for t, x := range xs {
			phi := -2 * math.Pi * float64(k) * float64(t) / float64(n)
			re += x * math.Cos(phi)
			im += x * math.Sin(phi)
		}
		out = append(out, math.Hypot(re, im))
	}
	return out
}

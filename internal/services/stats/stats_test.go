package stats

import (
	"math"
	"testing"
)

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestMean(t *testing.T) {
	if got := Mean([]float64{1, 2, 3, 4}); !almost(got, 2.5) {
		t.Fatalf("mean = %v", got)
	}
	if got := Mean(nil); got != 0 {
		t.Fatalf("empty mean = %v", got)
	}
}

func TestStdDevPopulation(t *testing.T) {
	got := StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if !almost(got, 2) {
		t.Fatalf("stddev = %v", got)
	}
	if got := StdDev([]float64{5}); got != 0 {
		t.Fatalf("short stddev = %v", got)
	}
}

func TestSMA(t *testing.T) {
	got := SMA([]float64{1, 2, 3, 4, 5}, 3)
	want := []float64{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("sma len = %d", len(got))
	}
	for i := range want {
		if !almost(got[i], want[i]) {
			t.Fatalf("sma[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if SMA([]float64{1, 2}, 3) != nil {
		t.Fatalf("expected nil for window larger than input")
	}
}

func TestEMASeededWithFirstValue(t *testing.T) {
	got := EMA([]float64{10, 20}, 3)
	if !almost(got[0], 10) {
		t.Fatalf("ema[0] = %v", got[0])
	}
	// alpha = 2/(3+1) = 0.5
	if !almost(got[1], 15) {
		t.Fatalf("ema[1] = %v", got[1])
	}
}

func TestPearson(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	up := []float64{1, 3, 5, 7}
	down := []float64{7, 5, 3, 1}
	if got := Pearson(xs, up); !almost(got, 1) {
		t.Fatalf("pearson up = %v", got)
	}
	if got := Pearson(xs, down); !almost(got, -1) {
		t.Fatalf("pearson down = %v", got)
	}
	if got := Pearson(xs, []float64{5, 5, 5, 5}); got != 0 {
		t.Fatalf("zero variance pearson = %v", got)
	}
}

func TestCUSUMLocatesShift(t *testing.T) {
	xs := make([]float64, 0, 20)
	for i := 0; i < 10; i++ {
		xs = append(xs, 1)
	}
	for i := 0; i < 10; i++ {
		xs = append(xs, 9)
	}
	idx, val := CUSUM(xs)
	if idx != 9 {
		t.Fatalf("cusum idx = %d", idx)
	}
	if val >= 0 {
		t.Fatalf("expected negative cumulative sum before the shift, got %v", val)
	}
}

func TestSpectrumMagnitudesPeakAtSignalFrequency(t *testing.T) {
	// period-8 sinusoid over 32 samples: 4 full cycles, energy in bin 4
	n := 32
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = math.Sin(2 * math.Pi * float64(i) / 8)
	}
	mags := SpectrumMagnitudes(xs)
	if len(mags) != n/2 {
		t.Fatalf("mags len = %d", len(mags))
	}
	maxIdx := 0
	for i, m := range mags {
		if m > mags[maxIdx] {
			maxIdx = i
		}
	}
	// index k holds frequency bin k+1
	if maxIdx+1 != 4 {
		t.Fatalf("dominant bin = %d, want 4", maxIdx+1)
	}
}

package dsp

import "math"

// Window produces n weights for an analysis window.
type Window func(n int) []float64

// Rectangular is the uniform window. Applying it leaves a signal unchanged.
func Rectangular(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return w
}

// DefaultTukeyAlpha is the taper fraction used by the short-time analysis.
const DefaultTukeyAlpha = 0.25

// Tukey returns a periodic (DFT-even) tapered cosine window.
// alpha is the fraction of the window inside the cosine tapered region;
// alpha <= 0 gives a rectangular window and alpha >= 1 a Hann window.
func Tukey(alpha float64) Window {
	return func(n int) []float64 {
		if n <= 0 {
			return nil
		}
		if alpha <= 0 {
			return Rectangular(n)
		}
		a := math.Min(alpha, 1)
		// Periodic windows are the symmetric window of length n+1 with the
		// last point dropped.
		m := n + 1
		width := int(math.Floor(a * float64(m-1) / 2))
		w := make([]float64, n)
		for i := 0; i < n; i++ {
			x := float64(i)
			switch {
			case i <= width:
				w[i] = 0.5 * (1 + math.Cos(math.Pi*(-1+2*x/a/float64(m-1))))
			case i < m-width-1:
				w[i] = 1
			default:
				w[i] = 0.5 * (1 + math.Cos(math.Pi*(-2/a+1+2*x/a/float64(m-1))))
			}
		}
		return w
	}
}

// SumSquares returns the sum of squared window weights.
func SumSquares(w []float64) float64 {
	var s float64
	for _, v := range w {
		s += v * v
	}
	return s
}
